package provider

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
)

// fastMedLayout parses FastMed invoices.
//
// Format characteristics:
//   - "Account Number" doubles as the invoice number; the grand total is
//     labeled "Amount Due" or "AMOUNT YOU OWE". Both sit in the first
//     pages.
//   - The item table has whitespace-gap columns (no grid lines):
//     Date | Ref | Patient Name | [SSN | Clinic] | Description | Amount.
//     Rows are split on runs of two or more spaces — column positions,
//     not grid cells.
type fastMedLayout struct {
	markers
}

func NewFastMed() RuleSet {
	return &fastMedLayout{markers{
		variant:  constants.FastMed,
		keywords: []string{"FastMed", "FASTMED", "fastmed.com"},
	}}
}

var (
	fastMedInvoiceRe = regexp.MustCompile(`(?i)Account\s*Number\s*[:.]?\s*(\d+)`)
	fastMedTotalRe   = regexp.MustCompile(`(?i)(?:Amount\s*Due|AMOUNT\s*YOU\s*OWE)\s*[:]?\s*\$?([\d,]+\.\d{2})`)
	fastMedColSplit  = regexp.MustCompile(`\s{2,}`)
)

func (f *fastMedLayout) Extract(doc *Document) (*entity.Invoice, error) {
	invoiceNumber, ok := firstMatch(fastMedInvoiceRe, doc.Text())
	if !ok {
		return nil, &FieldNotFoundError{Field: "invoice_number", Provider: f.variant}
	}

	totalStr, ok := firstMatch(fastMedTotalRe, doc.Text())
	if !ok {
		return nil, &FieldNotFoundError{Field: "grand_total", Provider: f.variant}
	}
	grandTotal, err := parseAmount(totalStr)
	if err != nil {
		return nil, &ExtractionError{Provider: f.variant, Reason: "bad_grand_total", Err: err}
	}

	var items []entity.LineItem
	for _, raw := range doc.Lines() {
		line := strings.TrimRight(raw, " ")
		if !dateLineRe.MatchString(strings.TrimSpace(line)) {
			continue
		}

		cells := fastMedColSplit.Split(strings.TrimSpace(line), -1)
		if len(cells) < 5 {
			continue
		}
		amountCell := cells[len(cells)-1]
		if !amountRe.MatchString(amountCell) {
			continue
		}
		cost, err := parseAmount(amountCell)
		if err != nil {
			continue
		}

		patientName := cells[2]
		desc := cells[len(cells)-2]

		// Middle cells hold SSN and/or clinic; the SSN wins as id.
		candidateID := patientName
		for _, cell := range cells[3 : len(cells)-2] {
			if strings.Contains(strings.ToLower(cell), "xxx-xx-") {
				candidateID = strings.ToUpper(cell)
				break
			}
		}

		items = append(items, entity.LineItem{
			CandidateName:      patientName,
			CandidateID:        candidateID,
			ServiceDescription: normalizeDescription(desc),
			Cost:               cost,
		})
	}

	if len(items) == 0 {
		return nil, &FieldNotFoundError{Field: "line_items", Provider: f.variant}
	}

	return &entity.Invoice{
		InvoiceNumber: invoiceNumber,
		Provider:      f.variant,
		LineItems:     items,
		GrandTotal:    grandTotal,
	}, nil
}
