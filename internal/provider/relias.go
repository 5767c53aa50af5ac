package provider

import (
	"regexp"

	"github.com/joseph-ayodele/bgv-audit/constants"
)

// NewRelias builds the Relias rule set: labeled-table layout with an
// "Amount Due" footer.
func NewRelias() RuleSet {
	return &tableLayout{
		markers: markers{
			variant:  constants.Relias,
			keywords: []string{"Relias", "RELIAS", "relias.com"},
		},
		invoiceRe: regexp.MustCompile(`(?i)Invoice\s*(?:Number|#)?\s*[:#]?\s*([A-Z0-9\-]+)`),
		totalRe:   regexp.MustCompile(`(?i)Amount\s*Due[:\s]*\$?([\d,]+\.\d{2})`),
		headerRe:  regexp.MustCompile(`(?i)^Date\s+.*Learner\s+.*Amount`),
	}
}
