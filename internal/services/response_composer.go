package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/codyseavey/tcg-explorer/internal/errs"
	"github.com/codyseavey/tcg-explorer/internal/models"
)

// PriceUnavailableNote marks rows for cards without market data.
const PriceUnavailableNote = "Price data unavailable"

const (
	upstreamUnavailableMessage = "The card database is not responding right now. Please try again in a moment."
	resolverUnavailableMessage = "I couldn't work out what you're asking right now. Please try again."
	internalErrorMessage       = "Something went wrong while answering that. Please try again."
	helpMessage                = `I can answer questions about Pokemon TCG sets and prices. Try:
  - "Show me the cards in Evolving Skies"
  - "What are the top 5 most valuable cards in Base Set?"
  - "What is the total cost of 151?"
  - "Search for Charizard"`
)

// Compose turns an intent and the cards fetched for it into a display
// response. Valuation is applied per intent: TopNValuable ranks and
// truncates, TotalCost reports every card with the summed total. It makes no
// network calls.
func Compose(intent models.Intent, cards []models.Card) models.Response {
	switch it := intent.(type) {
	case models.SearchByName:
		resp := listResponse(intent, fmt.Sprintf("Cards matching %q", it.Fragment), nil, cards)
		if len(cards) == 0 {
			resp.Message = fmt.Sprintf("No cards found matching %q.", it.Fragment)
		}
		return resp

	case models.ShowSet:
		resp := listResponse(intent, "Cards in "+setTitle(it.Set), &it.Set, cards)
		if len(cards) == 0 {
			resp.Message = fmt.Sprintf("No cards found in %s.", setTitle(it.Set))
		}
		return resp

	case models.TopNValuable:
		top, err := TopN(cards, it.N)
		if err != nil {
			return ComposeError(intent, err)
		}
		title := fmt.Sprintf("Top %d most valuable cards in %s", it.N, setTitle(it.Set))
		resp := listResponse(intent, title, &it.Set, top)
		switch {
		case len(top) == 0:
			resp.Summary.NoData = true
			resp.Message = fmt.Sprintf("No cards in %s have price data.", setTitle(it.Set))
		case len(top) < it.N:
			resp.Summary.Note = fmt.Sprintf("Only %d of %d cards in this set have price data.", len(top), len(cards))
		}
		return resp

	case models.TotalCost:
		resp := listResponse(intent, "Total cost of "+setTitle(it.Set), &it.Set, cards)
		if len(cards) == 0 {
			resp.Message = fmt.Sprintf("No cards found in %s.", setTitle(it.Set))
		}
		return resp

	case models.Unknown:
		return Help()
	}
	return ComposeError(intent, errs.Newf(errs.ErrInvalidArgument, "unsupported intent %T", intent))
}

func listResponse(intent models.Intent, title string, set *models.SetRef, cards []models.Card) models.Response {
	rows := make([]models.Row, 0, len(cards))
	for _, card := range cards {
		rows = append(rows, composeRow(card))
	}
	return models.Response{
		Intent:  intent.Kind(),
		Title:   title,
		Set:     set,
		Rows:    rows,
		Summary: summarize(cards),
	}
}

func composeRow(card models.Card) models.Row {
	row := models.Row{
		CardID:   card.ID,
		Name:     card.Name,
		Number:   card.Number,
		SetID:    card.SetID,
		SetName:  card.SetName,
		Rarity:   card.Rarity,
		ImageURL: card.ImageURL,
	}
	best := BestPrice(card)
	if best.IsNone() {
		row.PriceNote = PriceUnavailableNote
		return row
	}
	v := best.UnsafeFromSome()
	price := *v.Market
	row.Price = &price
	row.Variant = v.Kind.Label()
	return row
}

func summarize(cards []models.Card) models.Summary {
	b := TotalCost(cards)
	s := models.Summary{
		Count:         b.Count(),
		PricedCount:   b.Priced,
		UnpricedCount: len(b.Unpriced),
		Total:         b.Total.Round(2).InexactFloat64(),
		Currency:      models.CurrencyUSD,
		NoData:        len(cards) == 0,
	}
	AveragePrice(cards).WhenSome(func(avg decimal.Decimal) {
		f := avg.Round(2).InexactFloat64()
		s.Average = &f
	})
	if n := len(b.Unpriced); n > 0 {
		s.Note = unpricedNote(n)
	}
	return s
}

func unpricedNote(n int) string {
	if n == 1 {
		return "1 card had no price data and is not included in the total."
	}
	return fmt.Sprintf("%d cards had no price data and are not included in the total.", n)
}

func setTitle(ref models.SetRef) string {
	switch {
	case ref.Name != "":
		return ref.Name
	case ref.Query != "":
		return ref.Query
	default:
		return "this set"
	}
}

// ComposeError converts a pipeline failure into a display-safe response.
// No error text from upstream systems is included.
func ComposeError(intent models.Intent, err error) models.Response {
	resp := models.Response{
		Rows:    []models.Row{},
		Summary: models.Summary{Currency: models.CurrencyUSD, NoData: true},
	}
	if intent != nil {
		resp.Intent = intent.Kind()
		if ref, ok := models.SetOf(intent); ok {
			resp.Set = &ref
		}
	}

	var ambiguous *errs.AmbiguousReferenceError
	switch {
	case errs.As(err, &ambiguous):
		return ComposeClarification(intent, ambiguous)
	case errs.Is(err, errs.ErrNotFound):
		// Terminal but not a failure: an empty result with a message.
		resp.Title = "No results"
		resp.Message = notFoundMessage(intent)
	case errs.Is(err, errs.ErrUpstreamUnavailable):
		resp.Error = true
		resp.Retryable = true
		resp.Title = "Card data unavailable"
		resp.Message = upstreamUnavailableMessage
	case errs.Is(err, errs.ErrInvalidArgument):
		resp.Error = true
		resp.Title = "Invalid request"
		resp.Message = "Invalid request: " + errs.Cause(err) + "."
	case errs.Is(err, errs.ErrResolverUnavailable):
		resp.Error = true
		resp.Retryable = true
		resp.Title = "Not understood"
		resp.Message = resolverUnavailableMessage
	default:
		resp.Error = true
		resp.Retryable = true
		resp.Title = "Error"
		resp.Message = internalErrorMessage
	}
	return resp
}

func notFoundMessage(intent models.Intent) string {
	if ref, ok := models.SetOf(intent); ok {
		return fmt.Sprintf("No cards were found for set %s.", setTitle(ref))
	}
	if s, ok := intent.(models.SearchByName); ok {
		return fmt.Sprintf("No cards found matching %q.", s.Fragment)
	}
	return "Nothing was found for that request."
}

// ComposeClarification asks the user which set they meant.
func ComposeClarification(intent models.Intent, amb *errs.AmbiguousReferenceError) models.Response {
	resp := models.Response{
		Title:              "Which set did you mean?",
		Rows:               []models.Row{},
		Summary:            models.Summary{Currency: models.CurrencyUSD, NoData: true},
		NeedsClarification: true,
		Suggestions:        amb.Suggestions,
	}
	if intent != nil {
		resp.Intent = intent.Kind()
	}
	if len(amb.Suggestions) > 0 {
		resp.Message = fmt.Sprintf("I couldn't find a set matching %q. Did you mean one of these?", amb.Reference)
	} else {
		resp.Message = fmt.Sprintf("I couldn't find a set matching %q.", amb.Reference)
	}
	return resp
}

// Help answers Unknown intents with usage examples.
func Help() models.Response {
	return models.Response{
		Intent:  models.IntentUnknown,
		Title:   "How can I help?",
		Rows:    []models.Row{},
		Summary: models.Summary{Currency: models.CurrencyUSD, NoData: true},
		Message: helpMessage,
	}
}
