package constants

import "strings"

// ProviderVariant identifies one supported BGV billing provider layout.
// The set is closed: adding a provider means adding a constant here and
// registering one new rule set — nothing else changes.
type ProviderVariant string

// Stable values (store these exact strings in DB).
const (
	DisaGlobal     ProviderVariant = "Disa Global"
	FirstAdvantage ProviderVariant = "First Advantage"
	Quest          ProviderVariant = "Quest Diagnostics"
	InCheck        ProviderVariant = "InCheck"
	ScoutLogic     ProviderVariant = "Scout Logic"
	SummitHealth   ProviderVariant = "Summit Health"
	CityMD         ProviderVariant = "CityMD"
	Concentra      ProviderVariant = "Concentra"
	HealthStreet   ProviderVariant = "HealthStreet"
	Universal      ProviderVariant = "Universal"
	EScreen        ProviderVariant = "eScreen"
	FastMed        ProviderVariant = "FastMed"
	Relias         ProviderVariant = "Relias"
	UNAHealth      ProviderVariant = "UNA Health"
	Labcorp        ProviderVariant = "Labcorp"

	// UnknownProvider is the explicit extensible slot; never registered.
	UnknownProvider ProviderVariant = "UNKNOWN"
)

// AllProviders lists every registrable variant in deterministic order.
var AllProviders = []ProviderVariant{
	DisaGlobal,
	FirstAdvantage,
	Quest,
	InCheck,
	ScoutLogic,
	SummitHealth,
	CityMD,
	Concentra,
	HealthStreet,
	Universal,
	EScreen,
	FastMed,
	Relias,
	UNAHealth,
	Labcorp,
}

// ProviderFromString resolves a stored or user-supplied provider name.
// Matching is case-insensitive; a shorthand resolves when it is a prefix
// of exactly one provider name ("quest" -> Quest Diagnostics, "u" is
// ambiguous between Universal and UNA Health).
func ProviderFromString(s string) (ProviderVariant, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return UnknownProvider, false
	}
	for _, p := range AllProviders {
		if strings.ToLower(string(p)) == s {
			return p, true
		}
	}
	match := UnknownProvider
	for _, p := range AllProviders {
		if strings.HasPrefix(strings.ToLower(string(p)), s) {
			if match != UnknownProvider {
				return UnknownProvider, false
			}
			match = p
		}
	}
	return match, match != UnknownProvider
}

func (p ProviderVariant) String() string {
	return string(p)
}
