package provider

import (
	"regexp"

	"github.com/joseph-ayodele/bgv-audit/constants"
)

// NewFirstAdvantage builds the First Advantage rule set: labeled-table
// layout with a "Grand Total" footer.
func NewFirstAdvantage() RuleSet {
	return &tableLayout{
		markers: markers{
			variant:  constants.FirstAdvantage,
			keywords: []string{"First Advantage", "FIRST ADVANTAGE", "firstadvantage.com"},
		},
		invoiceRe: regexp.MustCompile(`(?i)Invoice\s*[#:]?\s*([A-Z0-9\-]+)`),
		totalRe:   regexp.MustCompile(`(?i)Grand\s*Total[:\s]*\$?([\d,]+\.\d{2})`),
		headerRe:  regexp.MustCompile(`(?i)^Date\s+.*(?:Applicant|Candidate)\s+.*Amount`),
	}
}
