package services

import (
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/shopspring/decimal"

	"github.com/codyseavey/tcg-explorer/internal/errs"
	"github.com/codyseavey/tcg-explorer/internal/models"
)

// CostBreakdown is the result of TotalCost. Cards without market data add
// nothing to Total and are listed by id in Unpriced.
type CostBreakdown struct {
	Total    decimal.Decimal
	Priced   int
	Unpriced []string
}

// Count is the number of cards that went into the breakdown.
func (b CostBreakdown) Count() int {
	return b.Priced + len(b.Unpriced)
}

// BestPrice returns the variant with the highest market price. Among equal
// prices the earlier variant in display order wins. None when no variant has
// market data.
func BestPrice(card models.Card) fn.Option[models.PriceVariant] {
	best := fn.None[models.PriceVariant]()
	var bestMarket float64
	for _, v := range card.Variants {
		if !v.HasPrice() {
			continue
		}
		if best.IsNone() || *v.Market > bestMarket {
			best = fn.Some(v)
			bestMarket = *v.Market
		}
	}
	return best
}

func bestMarket(card models.Card) fn.Option[decimal.Decimal] {
	best := BestPrice(card)
	if best.IsNone() {
		return fn.None[decimal.Decimal]()
	}
	return fn.Some(decimal.NewFromFloat(*best.UnsafeFromSome().Market))
}

// TotalCost sums the best price of every card.
func TotalCost(cards []models.Card) CostBreakdown {
	b := CostBreakdown{Total: decimal.Zero}
	for _, card := range cards {
		price := bestMarket(card)
		if price.IsNone() {
			b.Unpriced = append(b.Unpriced, card.ID)
			continue
		}
		b.Total = b.Total.Add(price.UnsafeFromSome())
		b.Priced++
	}
	return b
}

// AveragePrice is the total over priced cards divided by their count. None
// when no card has a price.
func AveragePrice(cards []models.Card) fn.Option[decimal.Decimal] {
	b := TotalCost(cards)
	if b.Priced == 0 {
		return fn.None[decimal.Decimal]()
	}
	return fn.Some(b.Total.Div(decimal.NewFromInt(int64(b.Priced))))
}

// TopN returns the n most valuable priced cards, highest first. Equal prices
// are ordered by collector number ascending. The input is not modified.
func TopN(cards []models.Card, n int) ([]models.Card, error) {
	if n <= 0 {
		return nil, errs.Newf(errs.ErrInvalidArgument, "top-N count must be positive, got %d", n)
	}

	type pricedCard struct {
		card  models.Card
		price decimal.Decimal
	}
	priced := make([]pricedCard, 0, len(cards))
	for _, card := range cards {
		bestMarket(card).WhenSome(func(p decimal.Decimal) {
			priced = append(priced, pricedCard{card: card, price: p})
		})
	}

	slices.SortStableFunc(priced, func(a, b pricedCard) int {
		if c := b.price.Cmp(a.price); c != 0 {
			return c
		}
		return CompareCollectorNumbers(a.card.Number, b.card.Number)
	})

	if len(priced) > n {
		priced = priced[:n]
	}
	out := make([]models.Card, len(priced))
	for i, p := range priced {
		out[i] = p.card
	}
	return out, nil
}

// SummarizeSet returns set with its derived value fields filled in from
// cards. The catalog entry passed in is not modified.
func SummarizeSet(set models.SetSummary, cards []models.Card) models.SetSummary {
	b := TotalCost(cards)
	set.PricedCards = b.Priced
	set.UnpricedCards = len(b.Unpriced)
	set.EstimatedValue = nil
	set.AveragePrice = nil

	if b.Priced > 0 {
		total := b.Total.Round(2).InexactFloat64()
		set.EstimatedValue = &total
	}
	AveragePrice(cards).WhenSome(func(avg decimal.Decimal) {
		f := avg.Round(2).InexactFloat64()
		set.AveragePrice = &f
	})
	if set.TotalCards == 0 {
		set.TotalCards = len(cards)
	}
	return set
}

// CompareCollectorNumbers orders collector numbers the way they are printed:
// "2" < "10" < "10a" < "TG01". Digit runs compare numerically, everything
// else case-insensitively.
func CompareCollectorNumbers(a, b string) int {
	ac, bc := splitNumber(a), splitNumber(b)
	for i := 0; i < len(ac) && i < len(bc); i++ {
		x, y := ac[i], bc[i]
		xn, xerr := strconv.Atoi(x)
		yn, yerr := strconv.Atoi(y)
		switch {
		case xerr == nil && yerr == nil:
			if xn != yn {
				if xn < yn {
					return -1
				}
				return 1
			}
		case xerr == nil:
			return -1
		case yerr == nil:
			return 1
		default:
			if c := strings.Compare(strings.ToLower(x), strings.ToLower(y)); c != 0 {
				return c
			}
		}
	}
	switch {
	case len(ac) < len(bc):
		return -1
	case len(ac) > len(bc):
		return 1
	}
	return strings.Compare(a, b)
}

func splitNumber(s string) []string {
	var chunks []string
	var cur strings.Builder
	var curDigit bool
	for i, r := range s {
		d := unicode.IsDigit(r)
		if i > 0 && d != curDigit {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		cur.WriteRune(r)
		curDigit = d
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
