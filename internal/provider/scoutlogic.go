package provider

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
)

// scoutLogicLayout parses Scout Logic invoices.
//
// Format characteristics:
//   - "Invoice #" on page 1, "Total Amount Due" on the last page.
//   - Data is grouped by candidate. The candidate header row carries
//     Date | Name | masked SSN | Ordered By | File #, and the name often
//     wraps: the date lands on one line and the SSN on the next.
//   - Item rows under a header are Description | Amount.
type scoutLogicLayout struct {
	markers
}

func NewScoutLogic() RuleSet {
	return &scoutLogicLayout{markers{
		variant:  constants.ScoutLogic,
		keywords: []string{"ScoutLogic", "SCOUTLOGIC", "scoutlogicscreening.com"},
	}}
}

var (
	scoutInvoiceRe = regexp.MustCompile(`Invoice\s+#(\d+)`)
	scoutTotalRe   = regexp.MustCompile(`Total Amount Due:\s*\$([\d,]+\.\d{2})`)
	scoutDateRe    = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(.*)`)
	scoutSSNRe     = regexp.MustCompile(`XXX-XX-\d{4}`)
	scoutFileRe    = regexp.MustCompile(`(\d+)\s*-?$`)
	scoutItemRe    = regexp.MustCompile(`^(.+?)\s+(-?\$?[\d,]+\.\d{2})$`)
)

var scoutSkipKeywords = []string{
	"DATE NAME SSN", "SUBTOTAL FOR", "REPORT CHARGES",
	"TOTAL AMOUNT DUE", "TOTAL AMOUNT", "AMOUNT DUE",
	"INVOICE TOTAL", "GRAND TOTAL", "TOTAL", "TOTAL:",
	"SUMMARY", "SUBTOTAL:", "SUB-TOTAL",
}

func (s *scoutLogicLayout) Extract(doc *Document) (*entity.Invoice, error) {
	invoiceNumber, ok := firstMatch(scoutInvoiceRe, doc.FirstPage())
	if !ok {
		return nil, &FieldNotFoundError{Field: "invoice_number", Provider: s.variant}
	}

	totalStr, ok := firstMatch(scoutTotalRe, doc.LastPage())
	if !ok {
		return nil, &FieldNotFoundError{Field: "grand_total", Provider: s.variant}
	}
	grandTotal, err := parseAmount(totalStr)
	if err != nil {
		return nil, &ExtractionError{Provider: s.variant, Reason: "bad_grand_total", Err: err}
	}

	items := parseCandidateBlocks(doc.Lines(), scoutFileRe)
	if len(items) == 0 {
		return nil, &FieldNotFoundError{Field: "line_items", Provider: s.variant}
	}

	return &entity.Invoice{
		InvoiceNumber: invoiceNumber,
		Provider:      s.variant,
		LineItems:     items,
		GrandTotal:    grandTotal,
	}, nil
}

// parseCandidateBlocks runs the shared ScoutLogic/InCheck state machine:
// a dated header row (possibly wrapping onto a second line before the
// masked SSN appears) opens a candidate context, then Description+Amount
// rows under it become line items keyed by the candidate's file number.
func parseCandidateBlocks(lines []string, fileRe *regexp.Regexp) []entity.LineItem {
	var items []entity.LineItem

	var currentFile string
	var pendingDate bool

	fileFromSSNSplit := func(line string) string {
		parts := scoutSSNRe.Split(line, 2)
		if len(parts) > 1 {
			if m := fileRe.FindStringSubmatch(strings.TrimSpace(parts[1])); m != nil {
				return m[1]
			}
		}
		return ""
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := scoutDateRe.FindStringSubmatch(line); m != nil {
			currentFile = ""
			rest := m[2]
			if scoutSSNRe.MatchString(rest) {
				currentFile = fileFromSSNSplit(rest)
				pendingDate = false
			} else {
				// Wrapped header: SSN arrives on the next line.
				pendingDate = true
			}
			continue
		}

		if pendingDate && scoutSSNRe.MatchString(line) {
			currentFile = fileFromSSNSplit(line)
			pendingDate = false
			continue
		}

		if currentFile == "" {
			continue
		}

		upper := strings.ToUpper(line)
		skip := false
		for _, kw := range scoutSkipKeywords {
			if strings.Contains(upper, kw) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		m := scoutItemRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		desc := normalizeDescription(m[1])
		if desc == "" {
			continue
		}
		cost, err := parseAmount(m[2])
		if err != nil {
			continue
		}
		items = append(items, entity.LineItem{
			CandidateName:      currentFile,
			CandidateID:        currentFile,
			ServiceDescription: desc,
			Cost:               cost,
		})
	}

	return items
}
