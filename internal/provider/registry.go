package provider

import (
	"log/slog"

	"github.com/joseph-ayodele/bgv-audit/constants"
)

// Registry holds every layout rule set in a fixed deterministic order and
// selects the one that applies to a document. Identification is a pure
// function over document content: every rule set is evaluated
// independently, and anything other than exactly one match is an error.
type Registry struct {
	rules     []RuleSet
	byVariant map[constants.ProviderVariant]RuleSet
	logger    *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		byVariant: make(map[constants.ProviderVariant]RuleSet),
		logger:    logger,
	}
	for _, rs := range defaultRuleSets() {
		r.Register(rs)
	}
	return r
}

// NewEmptyRegistry returns a registry with no rule sets, for tests and
// for callers that assemble their own set.
func NewEmptyRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		byVariant: make(map[constants.ProviderVariant]RuleSet),
		logger:    logger,
	}
}

// Register appends a rule set. Registration order is scan order, so it
// must stay deterministic; re-registering a variant replaces it in place.
func (r *Registry) Register(rs RuleSet) {
	if _, ok := r.byVariant[rs.Variant()]; ok {
		for i, existing := range r.rules {
			if existing.Variant() == rs.Variant() {
				r.rules[i] = rs
				break
			}
		}
	} else {
		r.rules = append(r.rules, rs)
	}
	r.byVariant[rs.Variant()] = rs
}

// Get returns the rule set registered for a variant.
func (r *Registry) Get(v constants.ProviderVariant) (RuleSet, bool) {
	rs, ok := r.byVariant[v]
	return rs, ok
}

// Variants lists registered variants in scan order.
func (r *Registry) Variants() []constants.ProviderVariant {
	out := make([]constants.ProviderVariant, len(r.rules))
	for i, rs := range r.rules {
		out[i] = rs.Variant()
	}
	return out
}

// Identify selects the rule set for a document. A non-empty hint
// short-circuits the scan and forces that provider's rule set even if its
// markers are absent — the escape hatch for ambiguity no automatic rule
// can resolve. Zero matches yields UnknownProviderError; more than one
// yields AmbiguousProviderError listing every candidate.
func (r *Registry) Identify(doc *Document, hint string) (RuleSet, Confidence, error) {
	if hint != "" {
		variant, ok := constants.ProviderFromString(hint)
		if !ok {
			return nil, "", &UnknownProviderError{Hint: hint}
		}
		rs, ok := r.byVariant[variant]
		if !ok {
			return nil, "", &UnknownProviderError{Hint: hint}
		}
		r.logger.Info("provider.identify.forced", "provider", variant)
		return rs, ConfidenceForced, nil
	}

	var matched []RuleSet
	for _, rs := range r.rules {
		if rs.Matches(doc) {
			matched = append(matched, rs)
		}
	}
	switch len(matched) {
	case 0:
		return nil, "", &UnknownProviderError{}
	case 1:
		r.logger.Debug("provider.identify.matched", "provider", matched[0].Variant())
		return matched[0], ConfidenceMatched, nil
	default:
		candidates := make([]constants.ProviderVariant, len(matched))
		for i, rs := range matched {
			candidates[i] = rs.Variant()
		}
		return nil, "", &AmbiguousProviderError{Candidates: candidates}
	}
}

// defaultRuleSets returns every supported layout in scan order. Adding a
// provider means appending one constructor here and nothing else.
func defaultRuleSets() []RuleSet {
	return []RuleSet{
		NewDisaGlobal(),
		NewFirstAdvantage(),
		NewQuest(),
		NewInCheck(),
		NewScoutLogic(),
		NewSummitHealth(),
		NewCityMD(),
		NewConcentra(),
		NewHealthStreet(),
		NewUniversal(),
		NewEScreen(),
		NewFastMed(),
		NewRelias(),
		NewUNAHealth(),
		NewLabcorp(),
	}
}
