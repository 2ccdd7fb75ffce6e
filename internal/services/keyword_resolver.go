package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/codyseavey/tcg-explorer/internal/errs"
	"github.com/codyseavey/tcg-explorer/internal/models"
)

// DefaultTopN is used when a top-N question gives no number.
const DefaultTopN = 10

var (
	topNKeywordPattern = regexp.MustCompile(`\b(?:top|priciest|most\s+(?:valuable|expensive))\b`)
	// "top 5" or "5 most valuable" / "5 priciest".
	topNPattern   = regexp.MustCompile(`\btop\s+(\d+)\b|\b(\d+)\s+(?:most\s+(?:valuable|expensive)|priciest)\b`)
	searchPattern = regexp.MustCompile(`\b(?:search(?:\s+for)?|find|look\s+up|lookup|cards?\s+named)\s+(.+)$`)

	totalKeywords  = []string{"total cost", "total value", "total price", "how much", "worth"}
	searchKeywords = []string{"search", "find", "look up", "lookup", "named"}
	showKeywords   = []string{"show", "list", "cards in", "what's in", "whats in", "display"}
)

// KeywordResolver is the deterministic fallback used when the model is
// unavailable. It looks for fixed intent phrases and for set names, ids and
// aliases mentioned in the text.
type KeywordResolver struct {
	catalog SetCatalog
	matcher *SetMatcher
}

func NewKeywordResolver(catalog SetCatalog, matcher *SetMatcher) *KeywordResolver {
	return &KeywordResolver{catalog: catalog, matcher: matcher}
}

// Resolve classifies text. A set-bearing intent whose set cannot be found in
// the text is returned with an *errs.AmbiguousReferenceError.
func (k *KeywordResolver) Resolve(ctx context.Context, text string) (models.Intent, error) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return models.Unknown{Raw: text}, nil
	}

	var intent models.Intent
	switch {
	case topNKeywordPattern.MatchString(lower):
		intent = models.TopNValuable{N: topNCount(lower)}
	case containsAny(lower, totalKeywords):
		intent = models.TotalCost{}
	case containsAny(lower, searchKeywords):
		fragment := searchFragment(lower)
		if fragment == "" {
			return models.Unknown{Raw: text}, nil
		}
		return models.SearchByName{Fragment: fragment}, nil
	case containsAny(lower, showKeywords):
		intent = models.ShowSet{}
	default:
		return models.Unknown{Raw: text}, nil
	}

	sets, err := k.catalog.FetchAllSets(ctx)
	if err != nil {
		return intent, errs.Wrap(err, "load set catalog")
	}
	ref, ok := k.matcher.FindInText(text, sets)
	if !ok {
		return models.WithSet(intent, models.SetRef{Query: text}), &errs.AmbiguousReferenceError{
			Reference:   text,
			Suggestions: suggestSets(normalizeSetText(text), sets),
		}
	}
	return models.WithSet(intent, ref), nil
}

func searchFragment(lower string) string {
	m := searchPattern.FindStringSubmatch(lower)
	if m == nil {
		return ""
	}
	return strings.Trim(strings.TrimSpace(m[1]), `"'?.!`)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// topNCount reads the requested count from text, or DefaultTopN if none is
// given.
func topNCount(lower string) int {
	m := topNPattern.FindStringSubmatch(lower)
	if m == nil {
		return DefaultTopN
	}
	digits := m[1]
	if digits == "" {
		digits = m[2]
	}
	if n, err := strconv.Atoi(digits); err == nil && n > 0 {
		return n
	}
	return DefaultTopN
}
