package provider

import (
	"regexp"

	"github.com/joseph-ayodele/bgv-audit/constants"
)

// NewDisaGlobal builds the Disa Global rule set: labeled-table layout
// with a "Grand Total" footer.
func NewDisaGlobal() RuleSet {
	return &tableLayout{
		markers: markers{
			variant:  constants.DisaGlobal,
			keywords: []string{"Disa Global", "DISA Global Solutions", "disa.com"},
		},
		invoiceRe: regexp.MustCompile(`(?i)Invoice\s*[#:]?\s*([A-Z0-9\-]+)`),
		totalRe:   regexp.MustCompile(`(?i)Grand\s*Total[:\s]*\$?([\d,]+\.\d{2})`),
		headerRe:  regexp.MustCompile(`(?i)^Date\s+.*ID\s+.*Amount`),
	}
}
