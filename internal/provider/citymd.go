package provider

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
)

// cityMDLayout parses CityMD invoices.
//
// Format characteristics:
//   - Header (page 1) carries the invoice id and "Payment Due"/"Amount Due".
//   - Data is grouped by patient: "Patient: <name> Patient ID: <id>".
//   - Service rows are Date | Procedure Code | Description | Amount and
//     always start with MM/DD/YYYY.
type cityMDLayout struct {
	markers
}

func NewCityMD() RuleSet {
	return &cityMDLayout{markers{
		variant:  constants.CityMD,
		keywords: []string{"CityMD", "CITYMD", "citymd.com", "City MD", "CITY MD"},
	}}
}

var (
	cityMDInvoiceRe = regexp.MustCompile(`(?:ID #|Invoice ID)\s*[:]?\s*([A-Z0-9]+)`)
	cityMDTotalRe   = regexp.MustCompile(`(?:Payment|Amount) Due\s*\$([\d,]+\.\d{2})`)
	cityMDPatientRe = regexp.MustCompile(`Patient:\s*(.+?)\s+Patient ID:\s*(\d+)`)
	cityMDItemRe    = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+([A-Z0-9,]+)\s+(.+?)\s+\$([\d,]+\.\d{2})$`)
)

func (c *cityMDLayout) Extract(doc *Document) (*entity.Invoice, error) {
	firstPage := doc.FirstPage()

	invoiceNumber, ok := firstMatch(cityMDInvoiceRe, firstPage)
	if !ok {
		return nil, &FieldNotFoundError{Field: "invoice_number", Provider: c.variant}
	}

	totalStr, ok := firstMatch(cityMDTotalRe, firstPage)
	if !ok {
		return nil, &FieldNotFoundError{Field: "grand_total", Provider: c.variant}
	}
	grandTotal, err := parseAmount(totalStr)
	if err != nil {
		return nil, &ExtractionError{Provider: c.variant, Reason: "bad_grand_total", Err: err}
	}

	var items []entity.LineItem
	var patientName, patientID string

	for _, raw := range doc.Lines() {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := cityMDPatientRe.FindStringSubmatch(line); m != nil {
			patientName = strings.TrimSpace(m[1])
			patientID = m[2]
			continue
		}
		if patientID == "" {
			continue
		}

		m := cityMDItemRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		cost, err := parseAmount(m[4])
		if err != nil {
			continue
		}
		items = append(items, entity.LineItem{
			CandidateName:      patientName,
			CandidateID:        patientID,
			ServiceDescription: normalizeDescription(m[3]),
			Cost:               cost,
		})
	}

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
