package models

import "time"

// SetSummary describes one expansion in the catalog. EstimatedValue,
// AveragePrice, PricedCards and UnpricedCards are derived from the set's
// cards and are only filled in by valuation; catalog entries leave them empty.
type SetSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Series      string    `json:"series,omitempty"`
	ReleaseDate time.Time `json:"release_date"`
	TotalCards  int       `json:"total_cards"`
	LogoURL     string    `json:"logo_url,omitempty"`
	SymbolURL   string    `json:"symbol_url,omitempty"`

	EstimatedValue *float64 `json:"estimated_value,omitempty"`
	AveragePrice   *float64 `json:"average_price,omitempty"`
	PricedCards    int      `json:"priced_cards,omitempty"`
	UnpricedCards  int      `json:"unpriced_cards,omitempty"`
}
