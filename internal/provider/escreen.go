package provider

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
)

// eScreenLayout parses eScreen invoices.
//
// Format characteristics:
//   - "Invoice Number:" on page 1, "TOTAL:" on the last page.
//   - Rows: Date | Description+Name | SSN last-4 | Chain-of-custody id |
//     ... | $Amount. The name sits at the end of the middle chunk as
//     "Last, First [Middle]"; when the SSN digits are 0000 the chain id
//     is the candidate id instead.
type eScreenLayout struct {
	markers
}

func NewEScreen() RuleSet {
	return &eScreenLayout{markers{
		variant:  constants.EScreen,
		keywords: []string{"eScreen", "ESCREEN", "escreen.com"},
	}}
}

var (
	eScreenInvoiceRe = regexp.MustCompile(`Invoice Number:\s*(\d+)`)
	eScreenTotalRe   = regexp.MustCompile(`TOTAL\s*:\s*\$([\d,]+\.\d{2})`)
	eScreenRowRe     = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})\s+(.+?)\s+(\d{4})\s+(\d+)\s+.*?\$([\d,]+\.\d{2})$`)
	eScreenNameRe    = regexp.MustCompile(`([A-Za-z\-']+,\s*[A-Za-z\-']+(?: [A-Za-z\-']+)?)$`)
	eScreenColSplit  = regexp.MustCompile(`\s{2,}`)
)

func (e *eScreenLayout) Extract(doc *Document) (*entity.Invoice, error) {
	invoiceNumber, ok := firstMatch(eScreenInvoiceRe, doc.FirstPage())
	if !ok {
		return nil, &FieldNotFoundError{Field: "invoice_number", Provider: e.variant}
	}

	totalStr, ok := firstMatch(eScreenTotalRe, doc.LastPage())
	if !ok {
		return nil, &FieldNotFoundError{Field: "grand_total", Provider: e.variant}
	}
	grandTotal, err := parseAmount(totalStr)
	if err != nil {
		return nil, &ExtractionError{Provider: e.variant, Reason: "bad_grand_total", Err: err}
	}

	var items []entity.LineItem
	for _, raw := range doc.Lines() {
		line := strings.TrimSpace(raw)
		m := eScreenRowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		middle := strings.TrimSpace(m[2])
		ssn := m[3]
		chainID := m[4]
		cost, err := parseAmount(m[5])
		if err != nil {
			continue
		}

		name, desc := splitEScreenMiddle(middle)

		candidateID := ssn
		if ssn == "0000" {
			candidateID = chainID
		}

		items = append(items, entity.LineItem{
			CandidateName:      name,
			CandidateID:        candidateID,
			ServiceDescription: normalizeDescription(desc),
			Cost:               cost,
		})
	}

	if len(items) == 0 {
		return nil, &FieldNotFoundError{Field: "line_items", Provider: e.variant}
	}

	return &entity.Invoice{
		InvoiceNumber: invoiceNumber,
		Provider:      e.variant,
		LineItems:     items,
		GrandTotal:    grandTotal,
	}, nil
}

// splitEScreenMiddle separates the description from the trailing
// "Last, First" name. Column gaps (two or more spaces) are the fallback
// separator when the strict name shape does not match.
func splitEScreenMiddle(middle string) (name, desc string) {
	if loc := eScreenNameRe.FindStringIndex(middle); loc != nil {
		name = strings.TrimSpace(middle[loc[0]:loc[1]])
		desc = strings.TrimRight(strings.TrimSpace(middle[:loc[0]]), " -")
		return name, desc
	}
	parts := eScreenColSplit.Split(middle, -1)
	if len(parts) >= 2 {
		name = parts[len(parts)-1]
		desc = strings.Join(parts[:len(parts)-1], " ")
		return name, desc
	}
	if strings.Contains(middle, ",") {
		return middle, "Unknown Service"
	}
	return "Unknown", middle
}
