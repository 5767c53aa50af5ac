package provider

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
)

// universalLayout parses Universal Background Screening invoices.
//
// Format characteristics (hierarchical):
//   - Candidate header: "<date> <name> - (Order # <id>)"
//   - Item rows: Description | Amount
//   - "Subtotal for Order" rows close a group and are skipped.
//   - "Invoice Total" appears at the very end of the document.
type universalLayout struct {
	markers
}

func NewUniversal() RuleSet {
	return &universalLayout{markers{
		variant:  constants.Universal,
		keywords: []string{"Candidate name - order number", "Item Total"},
	}}
}

// Matches needs both structural markers; a single one is too generic.
func (u *universalLayout) Matches(doc *Document) bool {
	return doc.Contains("Candidate name - order number") && doc.Contains("Item Total")
}

var (
	universalInvoiceRe = regexp.MustCompile(`(?i)Invoice\s*#?\s*[:.]?\s*([A-Z0-9\-]+)`)
	universalTotalRe   = regexp.MustCompile(`Invoice Total\s+\$([\d,]+\.\d{2})`)
	universalHeaderRe  = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})\s+(.+?)\s+-\s+\(Order\s+#\s+(\d+)\)`)
	universalItemRe    = regexp.MustCompile(`^(.+?)\s+\$([\d,]+\.\d{2})$`)
)

func (u *universalLayout) Extract(doc *Document) (*entity.Invoice, error) {
	invoiceNumber, ok := firstMatch(universalInvoiceRe, doc.FirstPage())
	if !ok {
		return nil, &FieldNotFoundError{Field: "invoice_number", Provider: u.variant}
	}

	var items []entity.LineItem
	var grandTotalStr string
	var candidateName, orderNumber string

	for _, raw := range doc.Lines() {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := universalTotalRe.FindStringSubmatch(line); m != nil {
			grandTotalStr = m[1]
			continue
		}

		if m := universalHeaderRe.FindStringSubmatch(line); m != nil {
			candidateName = strings.TrimSpace(m[2])
			orderNumber = m[3]
			continue
		}

		if strings.Contains(line, "Subtotal for") || strings.Contains(line, "Candidate name - order number") {
			continue
		}
		if orderNumber == "" {
			continue
		}

		m := universalItemRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		desc := normalizeDescription(m[1])
		if desc == "" || strings.Contains(strings.ToUpper(desc), "TOTAL") {
			continue
		}
		cost, err := parseAmount(m[2])
		if err != nil {
			continue
		}
		items = append(items, entity.LineItem{
			CandidateName:      candidateName,
			CandidateID:        orderNumber,
			ServiceDescription: desc,
			Cost:               cost,
		})
	}

	if grandTotalStr == "" {
		return nil, &FieldNotFoundError{Field: "grand_total", Provider: u.variant}
	}
	grandTotal, err := parseAmount(grandTotalStr)
	if err != nil {
		return nil, &ExtractionError{Provider: u.variant, Reason: "bad_grand_total", Err: err}
	}
	if len(items) == 0 {
		return nil, &FieldNotFoundError{Field: "line_items", Provider: u.variant}
	}

	return &entity.Invoice{
		InvoiceNumber: invoiceNumber,
		Provider:      u.variant,
		LineItems:     items,
		GrandTotal:    grandTotal,
	}, nil
}
