package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ProviderVariant
		ok    bool
	}{
		{name: "exact", input: "Quest Diagnostics", want: Quest, ok: true},
		{name: "case insensitive", input: "quest diagnostics", want: Quest, ok: true},
		{name: "unique prefix", input: "quest", want: Quest, ok: true},
		{name: "unique prefix with whitespace", input: "  labcorp  ", want: Labcorp, ok: true},
		{name: "mixed case prefix", input: "Scout", want: ScoutLogic, ok: true},
		{name: "ambiguous prefix", input: "u", want: UnknownProvider, ok: false},
		{name: "no match", want: UnknownProvider, input: "acme labs", ok: false},
		{name: "empty", input: "", want: UnknownProvider, ok: false},
		{name: "blank", input: "   ", want: UnknownProvider, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ProviderFromString(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
