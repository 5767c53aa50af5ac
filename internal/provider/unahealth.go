package provider

import (
	"regexp"

	"github.com/joseph-ayodele/bgv-audit/constants"
)

// NewUNAHealth builds the UNA Health rule set: labeled-table layout with
// a "Balance Due" footer.
func NewUNAHealth() RuleSet {
	return &tableLayout{
		markers: markers{
			variant:  constants.UNAHealth,
			keywords: []string{"UNA Health", "UNA HEALTH", "unahealth.com"},
		},
		invoiceRe: regexp.MustCompile(`(?i)Invoice\s*[#:]?\s*([A-Z0-9\-]+)`),
		totalRe:   regexp.MustCompile(`(?i)Balance\s*Due[:\s]*\$?([\d,]+\.\d{2})`),
		headerRe:  regexp.MustCompile(`(?i)^Date\s+.*Patient\s+.*Amount`),
	}
}
