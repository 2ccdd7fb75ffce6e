package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codyseavey/tcg-explorer/internal/errs"
	"github.com/codyseavey/tcg-explorer/internal/metrics"
	"github.com/codyseavey/tcg-explorer/internal/models"
)

const (
	resolvedByModel   = "model"
	resolvedByKeyword = "keyword"
)

// Resolver maps one user turn to an intent with its set reference resolved.
type Resolver interface {
	Resolve(ctx context.Context, text string) (models.Intent, error)
}

// CardSource is the part of CardGateway the assistant reads from.
type CardSource interface {
	SetCatalog
	FetchSet(ctx context.Context, setID string) ([]models.Card, error)
	SearchByName(ctx context.Context, fragment string) ([]models.Card, error)
}

// Assistant answers free-text questions. It runs
// resolve -> fetch -> value -> compose for each turn and is the boundary at
// which every error becomes a display-safe response.
type Assistant struct {
	primary  Resolver
	fallback Resolver
	cards    CardSource
	logger   *zap.Logger
}

// NewAssistant wires the pipeline. primary may be nil, in which case every
// turn goes to the fallback resolver.
func NewAssistant(primary, fallback Resolver, cards CardSource, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{
		primary:  primary,
		fallback: fallback,
		cards:    cards,
		logger:   logger,
	}
}

// Ask answers one user turn. It never returns an error; failures are encoded
// in the response.
func (a *Assistant) Ask(ctx context.Context, text string) models.Response {
	start := time.Now()
	turnID := uuid.NewString()
	logger := a.logger.With(zap.String("turn_id", turnID))

	intent, resolvedBy, err := a.resolve(ctx, text, logger)

	var resp models.Response
	switch {
	case err != nil:
		resp = ComposeError(intent, err)
	default:
		resp = a.execute(ctx, intent, logger)
	}

	resp.TurnID = turnID
	resp.ResolvedBy = resolvedBy
	if resp.Intent == "" {
		resp.Intent = models.IntentUnknown
	}

	status := responseStatus(resp)
	if status == "clarification" {
		metrics.ClarificationsTotal.Inc()
	}
	metrics.ResponsesTotal.WithLabelValues(string(resp.Intent), status).Inc()

	logger.Info("answered question",
		zap.String("intent", string(resp.Intent)),
		zap.String("resolved_by", resolvedBy),
		zap.String("status", status),
		zap.Int("rows", len(resp.Rows)),
		zap.Duration("elapsed", time.Since(start)))
	return resp
}

func (a *Assistant) resolve(ctx context.Context, text string, logger *zap.Logger) (models.Intent, string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Unknown{Raw: text}, "", nil
	}

	if a.primary != nil {
		intent, err := a.primary.Resolve(ctx, text)
		if err == nil || !errs.Is(err, errs.ErrResolverUnavailable) {
			if intent != nil {
				metrics.IntentResolutionsTotal.WithLabelValues(resolvedByModel, string(intent.Kind())).Inc()
			}
			return intent, resolvedByModel, err
		}
		logger.Info("intent model unavailable, using keyword resolver", zap.Error(err))
	}

	intent, err := a.fallback.Resolve(ctx, text)
	if intent != nil {
		metrics.IntentResolutionsTotal.WithLabelValues(resolvedByKeyword, string(intent.Kind())).Inc()
	}
	return intent, resolvedByKeyword, err
}

func (a *Assistant) execute(ctx context.Context, intent models.Intent, logger *zap.Logger) models.Response {
	var (
		cards []models.Card
		err   error
	)
	switch it := intent.(type) {
	case models.Unknown:
		return Help()
	case models.SearchByName:
		cards, err = a.cards.SearchByName(ctx, it.Fragment)
	default:
		ref, ok := models.SetOf(intent)
		if !ok || !ref.Resolved() {
			return ComposeError(intent, errs.Newf(errs.ErrInvalidArgument, "no set given"))
		}
		cards, err = a.cards.FetchSet(ctx, ref.ID)
	}
	if err != nil {
		logger.Warn("card lookup failed", zap.String("intent", string(intent.Kind())), zap.Error(err))
		return ComposeError(intent, err)
	}
	return Compose(intent, cards)
}

// ValueSet returns the catalog entry for setID with its derived value fields
// filled in.
func (a *Assistant) ValueSet(ctx context.Context, setID string) (models.SetSummary, error) {
	sets, err := a.cards.FetchAllSets(ctx)
	if err != nil {
		return models.SetSummary{}, err
	}
	id := strings.ToLower(strings.TrimSpace(setID))
	var (
		set   models.SetSummary
		found bool
	)
	for _, s := range sets {
		if strings.EqualFold(s.ID, id) {
			set, found = s, true
			break
		}
	}
	if !found {
		return models.SetSummary{}, errs.Newf(errs.ErrNotFound, "set %q not in catalog", setID)
	}

	cards, err := a.cards.FetchSet(ctx, set.ID)
	if err != nil {
		return models.SetSummary{}, err
	}
	return SummarizeSet(set, cards), nil
}

func responseStatus(resp models.Response) string {
	switch {
	case resp.NeedsClarification:
		return "clarification"
	case resp.Error:
		return "error"
	case resp.Summary.NoData:
		return "no_data"
	default:
		return "ok"
	}
}
