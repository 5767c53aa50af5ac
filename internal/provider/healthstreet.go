package provider

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
)

// healthStreetLayout parses HealthStreet invoices.
//
// Format characteristics:
//   - "Invoice # <number>" on page 1; "Total Invoice" or "Balance Due"
//     carries the grand total and may land on any page (last wins).
//   - Data rows: MM/DD/YYYY <First Last> <Service Description> <Amount>.
//     There is no candidate id in this format; the normalized name is the
//     id.
type healthStreetLayout struct {
	markers
}

func NewHealthStreet() RuleSet {
	return &healthStreetLayout{markers{
		variant:  constants.HealthStreet,
		keywords: []string{"Health Street", "HealthStreet", "healthstreet.com"},
	}}
}

var (
	healthStreetInvoiceRe = regexp.MustCompile(`(?i)Invoice\s*#\s*([A-Z0-9\-]+)`)
	healthStreetTotalRe   = regexp.MustCompile(`(?i)(?:Total Invoice|Balance Due)\s*\$?([\d,]+\.?\d*)`)
	healthStreetRowRe     = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})\s+(.+?)\s+(\d+\.?\d*)$`)
)

var healthStreetSkipWords = []string{
	"invoice", "total", "balance", "payment", "due date", "page", "date name service",
}

func (h *healthStreetLayout) Extract(doc *Document) (*entity.Invoice, error) {
	invoiceNumber, ok := firstMatch(healthStreetInvoiceRe, doc.FirstPage())
	if !ok {
		return nil, &FieldNotFoundError{Field: "invoice_number", Provider: h.variant}
	}

	// The total may be restated per page; the last occurrence is the one
	// that covers the whole invoice.
	var grandTotalStr string
	for _, page := range doc.Pages() {
		if m := healthStreetTotalRe.FindStringSubmatch(page); m != nil {
			grandTotalStr = m[1]
		}
	}
	if grandTotalStr == "" {
		return nil, &FieldNotFoundError{Field: "grand_total", Provider: h.variant}
	}
	grandTotal, err := parseAmount(grandTotalStr)
	if err != nil {
		return nil, &ExtractionError{Provider: h.variant, Reason: "bad_grand_total", Err: err}
	}

	var items []entity.LineItem
	for _, raw := range doc.Lines() {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		skip := false
		for _, w := range healthStreetSkipWords {
			if strings.Contains(lower, w) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		m := healthStreetRowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		cost, err := parseAmount(m[3])
		if err != nil {
			continue
		}

		// First two words are the candidate name; the remainder is the
		// service description.
		words := strings.Fields(m[2])
		var name, desc string
		switch {
		case len(words) >= 3:
			name = strings.Join(words[:2], " ")
			desc = strings.Join(words[2:], " ")
		case len(words) == 2:
			name = strings.Join(words, " ")
			desc = "Service"
		default:
			name = m[2]
			desc = "Service"
		}
		candidateID := strings.ToUpper(strings.ReplaceAll(name, " ", ""))

		items = append(items, entity.LineItem{
			CandidateName:      name,
			CandidateID:        candidateID,
			ServiceDescription: normalizeDescription(desc),
			Cost:               cost,
		})
	}

	if len(items) == 0 {
		return nil, &FieldNotFoundError{Field: "line_items", Provider: h.variant}
	}

	return &entity.Invoice{
		InvoiceNumber: invoiceNumber,
		Provider:      h.variant,
		LineItems:     items,
		GrandTotal:    grandTotal,
	}, nil
}
