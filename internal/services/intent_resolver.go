package services

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/codyseavey/tcg-explorer/internal/errs"
	"github.com/codyseavey/tcg-explorer/internal/metrics"
	"github.com/codyseavey/tcg-explorer/internal/models"
)

//go:generate mockgen -source=intent_resolver.go -destination=../mocks/services.go -package=mocks

// IntentModel is a language model that turns user text into a JSON intent
// object. Its output is untrusted.
type IntentModel interface {
	Classify(ctx context.Context, text string) (string, error)
}

// SetCatalog provides the set list used to resolve set references.
type SetCatalog interface {
	FetchAllSets(ctx context.Context) ([]models.SetSummary, error)
}

// IntentResolver classifies one user turn with the model, validates the
// model's output and resolves any set reference against the catalog.
type IntentResolver struct {
	model   IntentModel
	catalog SetCatalog
	matcher *SetMatcher
	logger  *zap.Logger
}

func NewIntentResolver(model IntentModel, catalog SetCatalog, matcher *SetMatcher, logger *zap.Logger) *IntentResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntentResolver{
		model:   model,
		catalog: catalog,
		matcher: matcher,
		logger:  logger,
	}
}

// Resolve returns the intent for text.
//
// Malformed model output never produces an error: it is coerced to
// Unknown(text). Errors are ErrResolverUnavailable when the model could not be
// consulted, an *errs.AmbiguousReferenceError (with the intent still returned)
// when the set reference matches nothing, or the catalog's own error.
func (r *IntentResolver) Resolve(ctx context.Context, text string) (models.Intent, error) {
	raw, err := r.model.Classify(ctx, text)
	if err != nil {
		if !errs.Is(err, errs.ErrResolverUnavailable) {
			err = errs.Mark(err, errs.ErrResolverUnavailable)
		}
		return nil, err
	}

	intent, reason := ParseModelIntent(raw, text)
	if reason != "" {
		metrics.IntentCoercionsTotal.WithLabelValues(reason).Inc()
		r.logger.Info("coerced model output to unknown",
			zap.String("reason", reason),
			zap.String("output", raw))
	}
	return resolveSet(ctx, intent, r.catalog, r.matcher)
}

// resolveSet fills in the catalog set for intents that carry a reference.
func resolveSet(ctx context.Context, intent models.Intent, catalog SetCatalog, matcher *SetMatcher) (models.Intent, error) {
	ref, ok := models.SetOf(intent)
	if !ok || ref.Resolved() {
		return intent, nil
	}
	sets, err := catalog.FetchAllSets(ctx)
	if err != nil {
		return intent, errs.Wrap(err, "load set catalog")
	}
	resolved, err := matcher.Match(ref.Query, sets)
	if err != nil {
		return intent, err
	}
	return models.WithSet(intent, resolved), nil
}

// Coercion reasons reported by ParseModelIntent.
const (
	coerceUnparseable  = "unparseable"
	coerceUnknownTag   = "unknown_tag"
	coerceMissingParam = "missing_param"
	coerceBadParam     = "bad_param"
)

type modelIntent struct {
	Intent   string          `json:"intent"`
	Fragment string          `json:"fragment"`
	Set      string          `json:"set"`
	N        json.RawMessage `json:"n"`
}

// ParseModelIntent validates raw model output. Anything that does not
// describe a complete, well-typed intent becomes Unknown(text), and the
// second return value names why. Set references are left unresolved.
func ParseModelIntent(raw, text string) (models.Intent, string) {
	unknown := models.Unknown{Raw: text}

	body := extractJSONObject(raw)
	if body == "" {
		return unknown, coerceUnparseable
	}
	var out modelIntent
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return unknown, coerceUnparseable
	}

	kind, ok := parseIntentTag(out.Intent)
	if !ok {
		return unknown, coerceUnknownTag
	}

	fragment := strings.TrimSpace(out.Fragment)
	set := strings.TrimSpace(out.Set)

	switch kind {
	case models.IntentUnknown:
		return unknown, ""
	case models.IntentSearchByName:
		if fragment == "" {
			return unknown, coerceMissingParam
		}
		return models.SearchByName{Fragment: fragment}, ""
	case models.IntentShowSet:
		if set == "" {
			return unknown, coerceMissingParam
		}
		return models.ShowSet{Set: models.SetRef{Query: set}}, ""
	case models.IntentTotalCost:
		if set == "" {
			return unknown, coerceMissingParam
		}
		return models.TotalCost{Set: models.SetRef{Query: set}}, ""
	case models.IntentTopNValuable:
		if set == "" || len(out.N) == 0 || string(out.N) == "null" {
			return unknown, coerceMissingParam
		}
		n, ok := parsePositiveInt(out.N)
		if !ok {
			return unknown, coerceBadParam
		}
		return models.TopNValuable{Set: models.SetRef{Query: set}, N: n}, ""
	}
	return unknown, coerceUnknownTag
}

// extractJSONObject strips markdown fences and any prose before the first
// '{' or after the last '}'.
func extractJSONObject(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}

// parseIntentTag accepts the tags in any case and separator style
// ("total_cost", "TotalCost", "total-cost") plus "help".
func parseIntentTag(tag string) (models.IntentKind, bool) {
	key := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, tag)

	switch key {
	case "searchbyname", "search":
		return models.IntentSearchByName, true
	case "showset", "show":
		return models.IntentShowSet, true
	case "topnvaluable", "topn":
		return models.IntentTopNValuable, true
	case "totalcost":
		return models.IntentTotalCost, true
	case "unknown", "help":
		return models.IntentUnknown, true
	}
	return "", false
}

// parsePositiveInt accepts a JSON number with no fractional part or a string
// of digits.
func parsePositiveInt(raw json.RawMessage) (int, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n < 1 || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil || i < 1 {
			return 0, false
		}
		return i, true
	}
	return 0, false
}
