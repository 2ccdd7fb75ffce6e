package services

import (
	"time"

	"github.com/codyseavey/tcg-explorer/internal/models"
)

func price(f float64) *float64 {
	return &f
}

func variant(kind models.VariantKind, market *float64) models.PriceVariant {
	return models.PriceVariant{Kind: kind, Market: market, Currency: models.CurrencyUSD}
}

func card(id, name, number string, variants ...models.PriceVariant) models.Card {
	return models.Card{
		ID:       id,
		Name:     name,
		SetID:    "base1",
		SetName:  "Base Set",
		Number:   number,
		Variants: variants,
	}
}

// threeCardFixture is one card at 10, one at 20 and one with no market data.
func threeCardFixture() []models.Card {
	return []models.Card{
		card("base1-1", "Alakazam", "1", variant(models.VariantHolofoil, price(10))),
		card("base1-4", "Charizard", "4", variant(models.VariantHolofoil, price(20)), variant(models.VariantNormal, price(3))),
		card("base1-58", "Pikachu", "58", variant(models.VariantNormal, nil)),
	}
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testCatalog() []models.SetSummary {
	return []models.SetSummary{
		{ID: "sv3pt5", Name: "151", Series: "Scarlet & Violet", ReleaseDate: date("2023-09-22")},
		{ID: "sv1", Name: "Scarlet & Violet", Series: "Scarlet & Violet", ReleaseDate: date("2023-03-31")},
		{ID: "swsh12pt5", Name: "Crown Zenith", Series: "Sword & Shield", ReleaseDate: date("2023-01-20")},
		{ID: "swsh7", Name: "Evolving Skies", Series: "Sword & Shield", ReleaseDate: date("2021-08-27")},
		{ID: "swsh1", Name: "Sword & Shield", Series: "Sword & Shield", ReleaseDate: date("2020-02-07")},
		{ID: "base4", Name: "Base Set 2", Series: "Base", ReleaseDate: date("2000-02-24")},
		{ID: "base1", Name: "Base Set", Series: "Base", ReleaseDate: date("1999-01-09"), TotalCards: 102},
	}
}
