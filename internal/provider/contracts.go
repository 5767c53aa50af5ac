package provider

import (
	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
)

// RuleSet is the capability contract every provider layout implements:
// recognize the layout, then parse it with fixed rules only. No fuzzy
// matching, no inference — a field that cannot be located fails the whole
// extraction.
type RuleSet interface {
	Variant() constants.ProviderVariant
	Matches(doc *Document) bool
	Extract(doc *Document) (*entity.Invoice, error)
}

// Confidence records how a rule set was selected for a document.
type Confidence string

const (
	// ConfidenceMatched: exactly one layout's recognition markers matched.
	ConfidenceMatched Confidence = "matched"
	// ConfidenceForced: a caller-supplied hint bypassed the scan.
	ConfidenceForced Confidence = "forced"
)

// markers is the recognition half shared by most rule sets: a variant
// plus case-insensitive substrings unique to that provider's template.
type markers struct {
	variant  constants.ProviderVariant
	keywords []string
}

func (m markers) Variant() constants.ProviderVariant { return m.variant }

func (m markers) Matches(doc *Document) bool {
	return doc.ContainsFold(m.keywords...)
}
