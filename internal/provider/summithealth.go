package provider

import (
	"regexp"

	"github.com/joseph-ayodele/bgv-audit/constants"
)

// NewSummitHealth builds the Summit Health rule set: labeled-table layout
// with a "Total" footer.
func NewSummitHealth() RuleSet {
	return &tableLayout{
		markers: markers{
			variant:  constants.SummitHealth,
			keywords: []string{"Summit Health", "SUMMIT HEALTH", "summithealth.com"},
		},
		invoiceRe: regexp.MustCompile(`(?i)Invoice\s*[#:]?\s*([A-Z0-9\-]+)`),
		totalRe:   regexp.MustCompile(`(?i)Total[:\s]*\$?([\d,]+\.\d{2})`),
		headerRe:  regexp.MustCompile(`(?i)^Date\s+.*Patient\s+.*Amount`),
	}
}
