package provider

import (
	"regexp"

	"github.com/joseph-ayodele/bgv-audit/constants"
)

// NewLabcorp builds the Labcorp rule set: labeled-table layout with an
// "Amount Due" footer.
func NewLabcorp() RuleSet {
	return &tableLayout{
		markers: markers{
			variant:  constants.Labcorp,
			keywords: []string{"Labcorp", "LABCORP", "labcorp.com"},
		},
		invoiceRe: regexp.MustCompile(`(?i)Invoice\s*(?:Number|#)?\s*[:#]?\s*([A-Z0-9\-]+)`),
		totalRe:   regexp.MustCompile(`(?i)Amount\s*Due[:\s]*\$?([\d,]+\.\d{2})`),
		headerRe:  regexp.MustCompile(`(?i)^Date\s+.*Patient\s+.*Amount`),
	}
}
