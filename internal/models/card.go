package models

// Card is a normalized record from the card-data API. Records are immutable
// once fetched; the gateway cache owns them.
type Card struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	SetID         string         `json:"set_id"`
	SetName       string         `json:"set_name"`
	Number        string         `json:"number"`
	Rarity        string         `json:"rarity,omitempty"`
	ImageURL      string         `json:"image_url,omitempty"`
	ImageURLLarge string         `json:"image_url_large,omitempty"`
	Variants      []PriceVariant `json:"variants"`
}

type CardSearchResult struct {
	Cards      []Card `json:"cards"`
	TotalCount int    `json:"total_count"`
}
