package provider

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
)

// concentraLayout parses Concentra invoices.
//
// Format characteristics:
//   - Header carries "Invoice:" or "Invoice Number".
//   - Rows are Date | Name | masked SSN | Description | Amount; the masked
//     SSN (XXX-XX-####) is the anchor that splits each row.
type concentraLayout struct {
	markers
}

func NewConcentra() RuleSet {
	return &concentraLayout{markers{
		variant:  constants.Concentra,
		keywords: []string{"Concentra", "Occupational Health Centers"},
	}}
}

var (
	concentraInvoiceRe = regexp.MustCompile(`(?i)Invoice(?:\s*Number)?\s*[:#]?\s*(\d+)`)
	concentraTotalRe   = regexp.MustCompile(`(?i)Balance(?: Due)?\s*[:]?\s*[$5S]?\s*([\d,]+\.\d{2})`)
	concentraSSNRe     = regexp.MustCompile(`(?i)XXX[-\s]XX[-\s]\d{4}`)
	concentraDateRe    = regexp.MustCompile(`^\s*(\d{1,2}/\d{1,2}/\d{4})`)
	concentraAmountRe  = regexp.MustCompile(`\$?([\d,]+\.\d{2})\s*$`)
)

func (c *concentraLayout) Extract(doc *Document) (*entity.Invoice, error) {
	firstPage := doc.FirstPage()

	invoiceNumber, ok := firstMatch(concentraInvoiceRe, firstPage)
	if !ok {
		return nil, &FieldNotFoundError{Field: "invoice_number", Provider: c.variant}
	}

	totalStr, ok := firstMatch(concentraTotalRe, firstPage)
	if !ok {
		return nil, &FieldNotFoundError{Field: "grand_total", Provider: c.variant}
	}
	grandTotal, err := parseAmount(totalStr)
	if err != nil {
		return nil, &ExtractionError{Provider: c.variant, Reason: "bad_grand_total", Err: err}
	}

	items := c.parseLines(doc.Lines())
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

// parseLines walks the document using the masked SSN as the row anchor.
// Descriptions may continue onto the next line or two; continuation lines
// are merged before locating the amount.
func (c *concentraLayout) parseLines(lines []string) []entity.LineItem {
	var items []entity.LineItem

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}

		loc := concentraSSNRe.FindStringIndex(line)
		if loc == nil {
			i++
			continue
		}
		preSSN := line[:loc[0]]
		postSSN := line[loc[1]:]
		candidateID := strings.ToUpper(strings.ReplaceAll(line[loc[0]:loc[1]], " ", "-"))

		if !concentraDateRe.MatchString(preSSN) {
			i++
			continue
		}

		// Merge up to two continuation lines that carry the rest of a
		// wrapped description.
		merged := postSSN
		next := i + 1
		for next < len(lines) && next < i+3 {
			cont := strings.TrimSpace(lines[next])
			if cont == "" {
				next++
				continue
			}
			if concentraDateRe.MatchString(cont) || concentraSSNRe.MatchString(cont) {
				break
			}
			if isAlpha(cont[0]) {
				merged += " " + cont
				next++
				continue
			}
			break
		}

		m := concentraAmountRe.FindStringSubmatchIndex(merged)
		if m == nil {
			i = next
			continue
		}
		cost, err := parseAmount(merged[m[2]:m[3]])
		if err != nil {
			i = next
			continue
		}

		desc := normalizeDescription(merged[:m[0]])
		if desc == "" {
			desc = "Service"
		}

		items = append(items, entity.LineItem{
			CandidateName:      candidateID,
			CandidateID:        candidateID,
			ServiceDescription: desc,
			Cost:               cost,
		})
		i = next
	}

	return items
}
