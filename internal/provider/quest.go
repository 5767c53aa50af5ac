package provider

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
)

// questLayout parses Quest Diagnostics invoices.
//
// Format characteristics:
//   - Header carries the invoice number in a "<client> NDA <invoice> <date>" row.
//   - Data is grouped by candidate: a candidate row starts with a date
//     (MM/DD/YYYY) followed by specimen id, patient id and name.
//   - Service rows follow the candidate row and end with a 7-digit service
//     code and a dollar amount.
type questLayout struct {
	markers
}

func NewQuest() RuleSet {
	return &questLayout{markers{
		variant:  constants.Quest,
		keywords: []string{"QUEST DIAGNOSTICS", "QUESTDIAGNOSTICS.COM"},
	}}
}

var (
	questInvoiceRe  = regexp.MustCompile(`\d+\s+NDA\s+(\d+)\s+\d{2}/\d{2}/\d{4}`)
	questTotalRe    = regexp.MustCompile(`Amount Due:[\s\S]*?\$([\d,]+\.\d{2})`)
	questPatientRe  = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(\d+)\s+([A-Z0-9]+)\s+(.*)`)
	questServiceRe  = regexp.MustCompile(`(.+?)\s+(\d{7})\s+\$([\d,]+\.\d{2})$`)
	questSkipMarker = "PATIENT TOTAL"
)

func (q *questLayout) Extract(doc *Document) (*entity.Invoice, error) {
	firstPage := doc.FirstPage()

	invoiceNumber, ok := firstMatch(questInvoiceRe, firstPage)
	if !ok {
		return nil, &FieldNotFoundError{Field: "invoice_number", Provider: q.variant}
	}

	totalStr, ok := firstMatch(questTotalRe, firstPage)
	if !ok {
		return nil, &FieldNotFoundError{Field: "grand_total", Provider: q.variant}
	}
	grandTotal, err := parseAmount(totalStr)
	if err != nil {
		return nil, &ExtractionError{Provider: q.variant, Reason: "bad_grand_total", Err: err}
	}

	var items []entity.LineItem
	var currentID, currentName string

	for _, raw := range doc.Lines() {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := questPatientRe.FindStringSubmatch(line); m != nil {
			currentID = m[3]
			currentName = strings.TrimSpace(m[4])
			continue
		}

		if strings.Contains(line, questSkipMarker) {
			continue
		}

		m := questServiceRe.FindStringSubmatch(line)
		if m == nil || currentID == "" {
			continue
		}
		desc := strings.TrimSpace(m[1])
		// Tight layouts prepend the patient name to the description row.
		if currentName != "" && strings.HasPrefix(desc, currentName) {
			desc = strings.TrimSpace(strings.TrimPrefix(desc, currentName))
		}
		if desc == "" {
			continue
		}
		cost, err := parseAmount(m[3])
		if err != nil {
			continue
		}
		items = append(items, entity.LineItem{
			CandidateName:      currentName,
			CandidateID:        currentID,
			ServiceDescription: normalizeDescription(desc),
			Cost:               cost,
		})
	}

	if len(items) == 0 {
		return nil, &FieldNotFoundError{Field: "line_items", Provider: q.variant}
	}

	return &entity.Invoice{
		InvoiceNumber: invoiceNumber,
		Provider:      q.variant,
		LineItems:     items,
		GrandTotal:    grandTotal,
	}, nil
}
