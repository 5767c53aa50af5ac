package provider

import (
	"regexp"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
)

// inCheckLayout parses InCheck invoices. The layout is the same candidate
// block family as Scout Logic (dated header with masked SSN and file
// number, Description | Amount rows underneath), with its own header and
// footer locators.
type inCheckLayout struct {
	markers
}

func NewInCheck() RuleSet {
	return &inCheckLayout{markers{
		variant:  constants.InCheck,
		keywords: []string{"InCheck", "INCHECK", "inchecksolutions.com"},
	}}
}

var (
	inCheckInvoiceRe = regexp.MustCompile(`Invoice\s*#\s*(\d+)`)
	inCheckTotalRe   = regexp.MustCompile(`Total Amount Due:\s*\$([\d,]+\.\d{2})`)
	inCheckFileRe    = regexp.MustCompile(`(\d+)$`)
)

func (c *inCheckLayout) Extract(doc *Document) (*entity.Invoice, error) {
	invoiceNumber, ok := firstMatch(inCheckInvoiceRe, doc.FirstPage())
	if !ok {
		return nil, &FieldNotFoundError{Field: "invoice_number", Provider: c.variant}
	}

	totalStr, ok := firstMatch(inCheckTotalRe, doc.LastPage())
	if !ok {
		return nil, &FieldNotFoundError{Field: "grand_total", Provider: c.variant}
	}
	grandTotal, err := parseAmount(totalStr)
	if err != nil {
		return nil, &ExtractionError{Provider: c.variant, Reason: "bad_grand_total", Err: err}
	}

	items := parseCandidateBlocks(doc.Lines(), inCheckFileRe)
	if len(items) == 0 {
		return nil, &FieldNotFoundError{Field: "line_items", Provider: c.variant}
	}

	return &entity.Invoice{
		InvoiceNumber: invoiceNumber,
		Provider:      c.variant,
		LineItems:     items,
		GrandTotal:    grandTotal,
	}, nil
}
