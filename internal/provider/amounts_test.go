package provider

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		isErr bool
	}{
		{name: "plain", in: "45.00", want: "45"},
		{name: "dollar sign", in: "$122.50", want: "122.5"},
		{name: "thousands separator", in: "$1,234.56", want: "1234.56"},
		{name: "negative", in: "-50.00", want: "-50"},
		{name: "negative with dollar", in: "-$50.00", want: "-50"},
		{name: "surrounding space", in: "  99.99 ", want: "99.99"},
		{name: "garbage", in: "n/a", isErr: true},
		{name: "empty", in: "", isErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			if tt.isErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s want %s", got, tt.want)
		})
	}
}

func TestNormalizeDescription(t *testing.T) {
	assert.Equal(t, "DRUG SCREEN 10 PANEL", normalizeDescription("  DRUG  SCREEN   10 PANEL "))
	assert.Equal(t, "a b c d e", normalizeDescription("a b c d e f g"))
	assert.Equal(t, "", normalizeDescription("   "))
}
