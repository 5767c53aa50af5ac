package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/bgv-audit/constants"
	"github.com/joseph-ayodele/bgv-audit/internal/entity"
)

type stubRuleSet struct {
	markers
	invoice *entity.Invoice
	err     error
}

func (s *stubRuleSet) Extract(_ *Document) (*entity.Invoice, error) {
	return s.invoice, s.err
}

func TestRegistryHasAllProviders(t *testing.T) {
	r := NewRegistry(nil)
	variants := r.Variants()
	require.Len(t, variants, len(constants.AllProviders))
	for _, v := range constants.AllProviders {
		_, ok := r.Get(v)
		assert.True(t, ok, "missing rule set for %s", v)
	}
}

func TestIdentifySingleMatch(t *testing.T) {
	r := NewRegistry(nil)
	doc := NewDocument("INVOICE\nQUEST DIAGNOSTICS\n123 NDA 9915551234 01/15/2024")

	rs, conf, err := r.Identify(doc, "")
	require.NoError(t, err)
	assert.Equal(t, constants.Quest, rs.Variant())
	assert.Equal(t, ConfidenceMatched, conf)
}

func TestIdentifyNoMatch(t *testing.T) {
	r := NewRegistry(nil)
	doc := NewDocument("a completely unrelated document")

	_, _, err := r.Identify(doc, "")
	var unknown *UnknownProviderError
	require.ErrorAs(t, err, &unknown)
	assert.Empty(t, unknown.Hint)
	assert.True(t, IsExtractionError(err))
}

func TestIdentifyAmbiguous(t *testing.T) {
	r := NewEmptyRegistry(nil)
	r.Register(&stubRuleSet{markers: markers{variant: constants.Quest, keywords: []string{"shared marker"}}})
	r.Register(&stubRuleSet{markers: markers{variant: constants.Labcorp, keywords: []string{"shared marker"}}})

	_, _, err := r.Identify(NewDocument("this has the SHARED MARKER text"), "")
	var ambiguous *AmbiguousProviderError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, []constants.ProviderVariant{constants.Quest, constants.Labcorp}, ambiguous.Candidates)
}

func TestIdentifyHintForcesRuleSet(t *testing.T) {
	r := NewRegistry(nil)
	// Document has no Concentra markers at all.
	doc := NewDocument("plain text with no recognizable markers")

	rs, conf, err := r.Identify(doc, string(constants.Concentra))
	require.NoError(t, err)
	assert.Equal(t, constants.Concentra, rs.Variant())
	assert.Equal(t, ConfidenceForced, conf)
}

func TestIdentifyHintBeatsConflictingMarkers(t *testing.T) {
	r := NewRegistry(nil)
	// Quest markers present, but the caller knows better.
	doc := NewDocument("QUEST DIAGNOSTICS header on a misfiled page")

	rs, _, err := r.Identify(doc, string(constants.Labcorp))
	require.NoError(t, err)
	assert.Equal(t, constants.Labcorp, rs.Variant())
}

func TestIdentifyUnresolvableHint(t *testing.T) {
	r := NewRegistry(nil)
	_, _, err := r.Identify(NewDocument("QUEST DIAGNOSTICS"), "No Such Provider")

	var unknown *UnknownProviderError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "No Such Provider", unknown.Hint)
}

func TestRegisterReplacesInPlace(t *testing.T) {
	r := NewRegistry(nil)
	before := r.Variants()

	replacement := &stubRuleSet{markers: markers{variant: constants.Quest, keywords: []string{"NEW MARKER"}}}
	r.Register(replacement)

	assert.Equal(t, before, r.Variants(), "replacing must not change scan order")
	got, ok := r.Get(constants.Quest)
	require.True(t, ok)
	assert.Same(t, RuleSet(replacement), got)
}

func TestProviderNameFromErrorChain(t *testing.T) {
	err := &ExtractionError{Provider: constants.FastMed, Reason: ReasonOCRExhausted, Err: errors.New("boom")}
	assert.Equal(t, string(constants.FastMed), ProviderName(err))

	var nf error = &FieldNotFoundError{Field: "grand_total", Provider: constants.CityMD}
	assert.Equal(t, string(constants.CityMD), ProviderName(nf))

	assert.Empty(t, ProviderName(errors.New("plain")))
}
