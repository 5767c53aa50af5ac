package provider

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/bgv-audit/internal/entity"
)

// tableLayout is the shared implementation for providers that bill with a
// labeled five-column table: Date | Candidate ID | Name | Description |
// Amount. The table is located by its header row, and rows are parsed
// with explicit column geometry — a column-gap (two or more spaces)
// separates name from description, and the amount closes the row. Rows
// before the header row are never parsed; rows after a total/subtotal
// label end the table.
type tableLayout struct {
	markers
	invoiceRe *regexp.Regexp
	totalRe   *regexp.Regexp
	headerRe  *regexp.Regexp
}

var (
	tableRowRe  = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{4})\s+([A-Z0-9\-]+)\s+(.+?)\s{2,}(.+?)\s+-?\$?([\d,]+\.\d{2})$`)
	tableStopRe = regexp.MustCompile(`(?i)^(?:sub)?total`)
)

func (t *tableLayout) Extract(doc *Document) (*entity.Invoice, error) {
	invoiceNumber, ok := firstMatch(t.invoiceRe, doc.Text())
	if !ok {
		return nil, &FieldNotFoundError{Field: "invoice_number", Provider: t.variant}
	}

	totalStr, ok := firstMatch(t.totalRe, doc.Text())
	if !ok {
		return nil, &FieldNotFoundError{Field: "grand_total", Provider: t.variant}
	}
	grandTotal, err := parseAmount(totalStr)
	if err != nil {
		return nil, &ExtractionError{Provider: t.variant, Reason: "bad_grand_total", Err: err}
	}

	var items []entity.LineItem
	inTable := false
	for _, raw := range doc.Lines() {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !inTable {
			if t.headerRe.MatchString(line) {
				inTable = true
			}
			continue
		}
		if tableStopRe.MatchString(line) {
			inTable = false
			continue
		}

		m := tableRowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		cost, err := parseAmount(m[5])
		if err != nil {
			continue
		}
		items = append(items, entity.LineItem{
			CandidateName:      strings.TrimSpace(m[3]),
			CandidateID:        m[2],
			ServiceDescription: normalizeDescription(m[4]),
			Cost:               cost,
		})
	}

	if len(items) == 0 {
		return nil, &FieldNotFoundError{Field: "line_items", Provider: t.variant}
	}

	return &entity.Invoice{
		InvoiceNumber: invoiceNumber,
		Provider:      t.variant,
		LineItems:     items,
		GrandTotal:    grandTotal,
	}, nil
}
