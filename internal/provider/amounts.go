package provider

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	dateLineRe = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}`)
	amountRe   = regexp.MustCompile(`^-?\$?[\d,]+\.\d{2}$`)
)

// parseAmount converts a billed amount string ("$1,234.56", "-50.00")
// into an exact decimal. Floats are never used on the way in.
func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	if strings.HasPrefix(cleaned, "-$") {
		cleaned = "-" + cleaned[2:]
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// normalizeDescription collapses whitespace and keeps the first five
// words; that is the fingerprinting granularity the audit checks use.
func normalizeDescription(s string) string {
	words := strings.Fields(s)
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.Join(words, " ")
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// firstMatch returns the first capture group of re in text, if any.
func firstMatch(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil || len(m) < 2 {
		return "", false
	}
	return m[1], true
}
