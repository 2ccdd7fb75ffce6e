package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/codyseavey/tcg-explorer/internal/cache"
	"github.com/codyseavey/tcg-explorer/internal/clock"
	"github.com/codyseavey/tcg-explorer/internal/config"
	"github.com/codyseavey/tcg-explorer/internal/errs"
	"github.com/codyseavey/tcg-explorer/internal/metrics"
	"github.com/codyseavey/tcg-explorer/internal/models"
)

const (
	allSetsKey          = "all-sets"
	defaultFetchTimeout = 2 * time.Minute
)

// setIDPattern matches card API set ids (base1, swsh12pt5, sv3pt5, ...).
var setIDPattern = regexp.MustCompile(`^[a-z0-9.-]+$`)

// CardUpstream is the card API as the gateway sees it. PokemonTCGService is
// the production implementation.
type CardUpstream interface {
	FetchSetCards(ctx context.Context, setID string) ([]models.Card, error)
	SearchCards(ctx context.Context, fragment string) ([]models.Card, error)
	ListSets(ctx context.Context) ([]models.SetSummary, error)
}

// CardGateway serves card and set queries from a TTL cache, going upstream
// only on a miss. Concurrent misses for the same query share one upstream
// fetch. The shared fetch is detached from the caller that started it, so a
// canceled caller never fails the others. Failed fetches are never cached.
//
// Returned slices are shared with the cache and must not be modified.
type CardGateway struct {
	upstream  CardUpstream
	cards     *cache.TTL[[]models.Card]
	sets      *cache.TTL[[]models.SetSummary]
	flight    singleflight.Group
	cardTTL   time.Duration
	searchTTL time.Duration
	timeout   time.Duration
	logger    *zap.Logger
}

func NewCardGateway(upstream CardUpstream, cfg config.CacheConfig, clk clock.Clock, logger *zap.Logger) (*CardGateway, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cards, err := cache.NewTTL[[]models.Card](cfg.MaxEntries, clk)
	if err != nil {
		return nil, errs.Wrap(err, "create card cache")
	}
	// The catalog only ever has one key.
	sets, err := cache.NewTTL[[]models.SetSummary](1, clk)
	if err != nil {
		return nil, errs.Wrap(err, "create set cache")
	}
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &CardGateway{
		upstream:  upstream,
		cards:     cards,
		sets:      sets,
		cardTTL:   cfg.CardTTL,
		searchTTL: cfg.SearchTTL,
		timeout:   timeout,
		logger:    logger,
	}, nil
}

// FetchSet returns every card in the set with the given id.
func (g *CardGateway) FetchSet(ctx context.Context, setID string) ([]models.Card, error) {
	id := strings.ToLower(strings.TrimSpace(setID))
	if id == "" {
		return nil, errs.Newf(errs.ErrInvalidArgument, "set id is required")
	}
	if !setIDPattern.MatchString(id) {
		return nil, errs.Newf(errs.ErrInvalidArgument, "invalid set id %q", setID)
	}
	return g.cachedCards(ctx, "set", "set:"+id, g.cardTTL, func(ctx context.Context) ([]models.Card, error) {
		return g.upstream.FetchSetCards(ctx, id)
	})
}

// SearchByName returns cards whose name starts with fragment.
func (g *CardGateway) SearchByName(ctx context.Context, fragment string) ([]models.Card, error) {
	frag := strings.TrimSpace(fragment)
	if frag == "" {
		return nil, errs.Newf(errs.ErrInvalidArgument, "search text is required")
	}
	return g.cachedCards(ctx, "search", "search:"+strings.ToLower(frag), g.searchTTL, func(ctx context.Context) ([]models.Card, error) {
		return g.upstream.SearchCards(ctx, frag)
	})
}

// FetchAllSets returns the set catalog, newest release first.
func (g *CardGateway) FetchAllSets(ctx context.Context) ([]models.SetSummary, error) {
	if sets, ok := g.sets.Get(allSetsKey); ok {
		metrics.CacheHitsTotal.WithLabelValues("all_sets").Inc()
		return sets, nil
	}
	metrics.CacheMissesTotal.WithLabelValues("all_sets").Inc()

	v, _, err := g.share(ctx, allSetsKey, func(ctx context.Context) (any, error) {
		sets, err := g.upstream.ListSets(ctx)
		if err != nil {
			return nil, err
		}
		g.sets.Set(allSetsKey, sets, config.AllSetsTTL)
		g.logger.Info("refreshed set catalog", zap.Int("sets", len(sets)))
		return sets, nil
	})
	if err != nil {
		g.logFailure(allSetsKey, err)
		return nil, err
	}
	return v.([]models.SetSummary), nil
}

// share runs fetch once per key across concurrent callers. fetch gets a
// context that keeps the first caller's values but not its cancellation,
// bounded by the gateway fetch timeout. Each caller stops waiting when its own
// ctx is done.
func (g *CardGateway) share(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, bool, error) {
	ch := g.flight.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
		defer cancel()
		return fetch(fetchCtx)
	})
	select {
	case <-ctx.Done():
		return nil, false, errs.Wrapf(ctx.Err(), "wait for %s", key)
	case res := <-ch:
		return res.Val, res.Shared, res.Err
	}
}

func (g *CardGateway) cachedCards(
	ctx context.Context,
	kind, key string,
	ttl time.Duration,
	fetch func(context.Context) ([]models.Card, error),
) ([]models.Card, error) {
	if cards, ok := g.cards.Get(key); ok {
		metrics.CacheHitsTotal.WithLabelValues(kind).Inc()
		if age, fresh := g.cards.Age(key); fresh {
			g.logger.Debug("gateway cache hit", zap.String("key", key), zap.Duration("age", age))
		}
		return cards, nil
	}
	metrics.CacheMissesTotal.WithLabelValues(kind).Inc()

	start := time.Now()
	v, shared, err := g.share(ctx, key, func(ctx context.Context) (any, error) {
		cards, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		g.cards.Set(key, cards, ttl)
		return cards, nil
	})
	if err != nil {
		g.logFailure(key, err)
		return nil, err
	}

	cards := v.([]models.Card)
	g.logger.Debug("gateway cache fill",
		zap.String("key", key),
		zap.Int("cards", len(cards)),
		zap.Bool("shared", shared),
		zap.Int("cached_keys", g.cards.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return cards, nil
}

func (g *CardGateway) logFailure(key string, err error) {
	switch {
	case errs.Is(err, errs.ErrSchemaViolation):
		g.logger.Error("card API returned malformed data", zap.String("key", key), zap.Error(err))
	case errs.Is(err, errs.ErrNotFound):
		g.logger.Debug("card API query found nothing", zap.String("key", key))
	default:
		g.logger.Warn("card API query failed", zap.String("key", key), zap.Error(err))
	}
}
