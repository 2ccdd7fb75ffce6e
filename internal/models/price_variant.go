package models

import "strings"

// VariantKind is the printing a market price applies to.
type VariantKind string

const (
	VariantHolofoil        VariantKind = "holofoil"
	VariantReverseHolofoil VariantKind = "reverse-holofoil"
	VariantNormal          VariantKind = "normal"
	VariantFirstEdition    VariantKind = "first-edition"
)

// CurrencyUSD is the only currency the card API reports.
const CurrencyUSD = "USD"

// AllVariantKinds returns every kind in display order.
func AllVariantKinds() []VariantKind {
	return []VariantKind{
		VariantHolofoil,
		VariantReverseHolofoil,
		VariantNormal,
		VariantFirstEdition,
	}
}

// Rank orders kinds for display; unknown kinds sort last.
func (k VariantKind) Rank() int {
	for i, kind := range AllVariantKinds() {
		if kind == k {
			return i
		}
	}
	return len(AllVariantKinds())
}

// Label is the human-readable name used in result rows.
func (k VariantKind) Label() string {
	switch k {
	case VariantHolofoil:
		return "Holofoil"
	case VariantReverseHolofoil:
		return "Reverse Holo"
	case VariantNormal:
		return "Normal"
	case VariantFirstEdition:
		return "1st Edition"
	default:
		return string(k)
	}
}

// ParseUpstreamVariant maps a TCGplayer price key from the card API
// ("holofoil", "reverseHolofoil", "1stEditionHolofoil", ...) to a VariantKind.
func ParseUpstreamVariant(key string) (VariantKind, bool) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "holofoil", "unlimitedholofoil":
		return VariantHolofoil, true
	case "reverseholofoil":
		return VariantReverseHolofoil, true
	case "normal", "unlimited", "unlimitednormal":
		return VariantNormal, true
	case "1steditionholofoil", "1steditionnormal", "1stedition":
		return VariantFirstEdition, true
	default:
		return "", false
	}
}

// PriceVariant is one market price for a card. Market is nil when the API
// has no market data for this printing.
type PriceVariant struct {
	Kind     VariantKind `json:"kind"`
	Market   *float64    `json:"market"`
	Currency string      `json:"currency"`
}

// HasPrice reports whether the variant carries market data.
func (v PriceVariant) HasPrice() bool {
	return v.Market != nil
}
