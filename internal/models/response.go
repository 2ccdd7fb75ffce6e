package models

// Response is the display structure handed to the rendering layer. It never
// carries an error value; failures are flattened into Error/Message.
type Response struct {
	TurnID  string     `json:"turn_id"`
	Intent  IntentKind `json:"intent"`
	Title   string     `json:"title"`
	Set     *SetRef    `json:"set,omitempty"`
	Rows    []Row      `json:"rows"`
	Summary Summary    `json:"summary"`

	Error              bool     `json:"error"`
	Retryable          bool     `json:"retryable,omitempty"`
	NeedsClarification bool     `json:"needs_clarification,omitempty"`
	Message            string   `json:"message,omitempty"`
	Suggestions        []string `json:"suggestions,omitempty"`
	// ResolvedBy is "model" or "keyword" depending on which resolver classified the turn.
	ResolvedBy string `json:"resolved_by,omitempty"`
}

// Row is one card line in a result table.
type Row struct {
	CardID   string   `json:"card_id"`
	Name     string   `json:"name"`
	Number   string   `json:"number"`
	SetID    string   `json:"set_id"`
	SetName  string   `json:"set_name"`
	Rarity   string   `json:"rarity,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Price    *float64 `json:"price"`
	Variant  string   `json:"variant,omitempty"`
	// PriceNote is set when the card has no market data.
	PriceNote string `json:"price_note,omitempty"`
}

// Summary aggregates the rows. Average is nil when no row has a price.
// NoData is set when there were no cards to summarize.
type Summary struct {
	Count         int      `json:"count"`
	PricedCount   int      `json:"priced_count"`
	UnpricedCount int      `json:"unpriced_count"`
	Total         float64  `json:"total"`
	Average       *float64 `json:"average"`
	Currency      string   `json:"currency"`
	NoData        bool     `json:"no_data"`
	Note          string   `json:"note,omitempty"`
}
