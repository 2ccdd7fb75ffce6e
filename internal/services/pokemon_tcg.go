package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/codyseavey/tcg-explorer/internal/config"
	"github.com/codyseavey/tcg-explorer/internal/errs"
	"github.com/codyseavey/tcg-explorer/internal/metrics"
	"github.com/codyseavey/tcg-explorer/internal/models"
)

const (
	pokemonTCGBaseURL       = "https://api.pokemontcg.io/v2"
	pokemonTCGMaxPageSize   = 250
	pokemonTCGReleaseLayout = "2006/01/02"
)

// PokemonTCGService talks to the Pokemon TCG API. It is the upstream half of
// the card gateway and should only be called through CardGateway, which owns
// the cache.
type PokemonTCGService struct {
	client         *http.Client
	apiKey         string
	baseURL        string
	pageSize       int
	maxInFlight    int
	maxAttempts    int
	maxSearchPages int
	retryBaseDelay time.Duration
	limiter        *rate.Limiter
	logger         *zap.Logger
}

func NewPokemonTCGService(cfg config.CardAPIConfig, logger *zap.Logger) *PokemonTCGService {
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = pokemonTCGBaseURL
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > pokemonTCGMaxPageSize {
		pageSize = pokemonTCGMaxPageSize
	}
	maxInFlight := cfg.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = 8
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retryBase := cfg.RetryBaseDelay
	if retryBase <= 0 {
		retryBase = 500 * time.Millisecond
	}

	limit := rate.Inf
	burst := maxInFlight
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &PokemonTCGService{
		client: &http.Client{
			Timeout: timeout,
		},
		apiKey:         cfg.APIKey,
		baseURL:        baseURL,
		pageSize:       pageSize,
		maxInFlight:    maxInFlight,
		maxAttempts:    maxAttempts,
		maxSearchPages: cfg.MaxSearchPages,
		retryBaseDelay: retryBase,
		limiter:        rate.NewLimiter(limit, burst),
		logger:         logger,
	}
}

type pokemonPage[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Count      int `json:"count"`
	TotalCount int `json:"totalCount"`
}

type pokemonCard struct {
	TCGPlayer *pokemonTCGPrice `json:"tcgplayer"`
	Set       pokemonCardSet   `json:"set"`
	Images    pokemonImages    `json:"images"`
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Number    string           `json:"number"`
	Rarity    string           `json:"rarity"`
}

type pokemonCardSet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type pokemonImages struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

type pokemonTCGPrice struct {
	Prices    map[string]pokemonPriceSet `json:"prices"`
	URL       string                     `json:"url"`
	UpdatedAt string                     `json:"updatedAt"`
}

type pokemonPriceSet struct {
	Low    *float64 `json:"low"`
	Mid    *float64 `json:"mid"`
	High   *float64 `json:"high"`
	Market *float64 `json:"market"`
}

type pokemonSet struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Series       string           `json:"series"`
	PrintedTotal int              `json:"printedTotal"`
	Total        int              `json:"total"`
	ReleaseDate  string           `json:"releaseDate"`
	Images       pokemonSetImages `json:"images"`
}

type pokemonSetImages struct {
	Symbol string `json:"symbol"`
	Logo   string `json:"logo"`
}

// FetchSetCards returns every card in the set, in collector-number order as
// the API reports it. An unknown set id yields ErrNotFound.
func (s *PokemonTCGService) FetchSetCards(ctx context.Context, setID string) ([]models.Card, error) {
	if !setIDPattern.MatchString(setID) {
		return nil, errs.Newf(errs.ErrInvalidArgument, "invalid set id %q", setID)
	}
	params := url.Values{}
	params.Set("q", fmt.Sprintf("set.id:%s", setID))
	params.Set("orderBy", "number")

	raw, err := fetchAllPages[pokemonCard](ctx, s, "cards", params, 0)
	if err != nil {
		return nil, errs.Wrapf(err, "fetch set %s", setID)
	}
	if len(raw) == 0 {
		return nil, errs.Newf(errs.ErrNotFound, "set %q has no cards", setID)
	}
	return s.convertCards(raw)
}

// SearchCards returns cards whose name starts with fragment. Results are
// capped at maxSearchPages pages.
func (s *PokemonTCGService) SearchCards(ctx context.Context, fragment string) ([]models.Card, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf(`name:"%s*"`, escapeQueryTerm(fragment)))
	params.Set("orderBy", "-set.releaseDate,number")

	raw, err := fetchAllPages[pokemonCard](ctx, s, "cards", params, s.maxSearchPages)
	if err != nil {
		return nil, errs.Wrapf(err, "search cards %q", fragment)
	}
	return s.convertCards(raw)
}

// queryTermEscaper makes a user fragment literal inside a quoted query term.
// Quotes and backslashes are dropped; other query syntax is backslash-escaped.
var queryTermEscaper = strings.NewReplacer(
	`"`, "", `\`, "",
	`*`, `\*`, `?`, `\?`, `:`, `\:`,
	`(`, `\(`, `)`, `\)`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
	`^`, `\^`, `~`, `\~`, `!`, `\!`, `&`, `\&`, `|`, `\|`, `+`, `\+`, `/`, `\/`,
)

func escapeQueryTerm(fragment string) string {
	return queryTermEscaper.Replace(fragment)
}

// ListSets returns the full set catalog, newest release first.
func (s *PokemonTCGService) ListSets(ctx context.Context) ([]models.SetSummary, error) {
	params := url.Values{}
	params.Set("orderBy", "-releaseDate")

	raw, err := fetchAllPages[pokemonSet](ctx, s, "sets", params, 0)
	if err != nil {
		return nil, errs.Wrap(err, "list sets")
	}

	sets := make([]models.SetSummary, 0, len(raw))
	for _, ps := range raw {
		set, err := s.convertSet(ps)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}

	// The API honours orderBy, but the catalog contract is newest first
	// regardless of what the upstream does.
	slices.SortStableFunc(sets, func(a, b models.SetSummary) int {
		return b.ReleaseDate.Compare(a.ReleaseDate)
	})
	return sets, nil
}

// Close releases idle upstream connections.
func (s *PokemonTCGService) Close() {
	s.client.CloseIdleConnections()
}

// fetchAllPages fetches page 1 to learn the total, then fans out for the
// remaining pages with at most maxInFlight requests outstanding. Any failed
// page fails the whole call. maxPages <= 0 means no cap.
func fetchAllPages[T any](ctx context.Context, s *PokemonTCGService, endpoint string, params url.Values, maxPages int) ([]T, error) {
	var first pokemonPage[T]
	if err := s.getJSON(ctx, endpoint, pageParams(params, 1, s.pageSize), &first); err != nil {
		return nil, err
	}

	pages := totalPages(first.TotalCount, s.pageSize)
	if maxPages > 0 && pages > maxPages {
		pages = maxPages
	}
	metrics.UpstreamPagesFetched.Observe(float64(max(pages, 1)))

	if pages <= 1 {
		return first.Data, nil
	}

	results := make([][]T, pages)
	results[0] = first.Data

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxInFlight)
	for page := 2; page <= pages; page++ {
		g.Go(func() error {
			var resp pokemonPage[T]
			if err := s.getJSON(gctx, endpoint, pageParams(params, page, s.pageSize), &resp); err != nil {
				return errs.Wrapf(err, "page %d", page)
			}
			results[page-1] = resp.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("fetched paginated query",
		zap.String("endpoint", endpoint),
		zap.String("q", params.Get("q")),
		zap.Int("pages", pages),
		zap.Int("total", first.TotalCount))

	var merged []T
	for _, data := range results {
		merged = append(merged, data...)
	}
	return merged, nil
}

func pageParams(base url.Values, page, pageSize int) url.Values {
	params := url.Values{}
	for k, v := range base {
		params[k] = slices.Clone(v)
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(pageSize))
	return params
}

func totalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 1
	}
	return (totalCount + pageSize - 1) / pageSize
}

// getJSON performs one logical request with retries. Transient failures
// (network errors, timeouts, 429, 5xx) are retried with exponential backoff up
// to maxAttempts; 401/403/404 and undecodable bodies are not.
func (s *PokemonTCGService) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := fmt.Sprintf("%s/%s?%s", s.baseURL, endpoint, params.Encode())

	start := time.Now()
	defer func() {
		metrics.UpstreamLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	attempt := 0
	operation := func() error {
		attempt++
		if attempt > 1 {
			metrics.UpstreamRetriesTotal.Inc()
		}
		return s.getOnce(ctx, endpoint, reqURL, out)
	}
	notify := func(err error, wait time.Duration) {
		s.logger.Warn("card API request failed, retrying",
			zap.String("url", reqURL),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err))
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(s.newBackOff(), uint64(s.maxAttempts-1)),
		ctx,
	)
	err := backoff.RetryNotify(operation, policy, notify)
	if err == nil {
		return nil
	}
	if errs.Is(err, errs.ErrNotFound) || errs.Is(err, errs.ErrUpstreamUnavailable) {
		return err
	}
	// Context cancellation and anything else unclassified.
	return errs.Mark(errs.Wrap(err, "card API request"), errs.ErrUpstreamUnavailable)
}

func (s *PokemonTCGService) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retryBaseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0.2
	b.MaxInterval = 8 * s.retryBaseDelay
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// getOnce makes a single HTTP attempt. Errors wrapped in backoff.Permanent
// stop the retry loop.
func (s *PokemonTCGService) getOnce(ctx context.Context, endpoint, reqURL string, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return backoff.Permanent(errs.Mark(errs.Wrap(err, "rate limiter"), errs.ErrUpstreamUnavailable))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return backoff.Permanent(errs.Mark(errs.Wrap(err, "failed to create request"), errs.ErrUpstreamUnavailable))
	}
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "transient").Inc()
		if ctx.Err() != nil {
			return backoff.Permanent(errs.Mark(errs.Wrap(err, "card API request"), errs.ErrUpstreamUnavailable))
		}
		return errs.Mark(errs.Wrap(err, "card API request"), errs.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "not_found").Inc()
		return backoff.Permanent(errs.Newf(errs.ErrNotFound, "card API returned status %d", resp.StatusCode))
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "transient").Inc()
		return errs.Newf(errs.ErrUpstreamUnavailable, "card API returned status %d", resp.StatusCode)
	default:
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "rejected").Inc()
		return backoff.Permanent(errs.Newf(errs.ErrUpstreamUnavailable, "card API returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "schema").Inc()
		return backoff.Permanent(errs.SchemaViolation("failed to decode card API response: %v", err))
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return nil
}

func (s *PokemonTCGService) convertCards(raw []pokemonCard) ([]models.Card, error) {
	cards := make([]models.Card, 0, len(raw))
	for i, pc := range raw {
		if missing := missingCardFields(pc); len(missing) > 0 {
			return nil, errs.SchemaViolation("card %d (id=%q) missing required fields: %s", i, pc.ID, strings.Join(missing, ", "))
		}
		cards = append(cards, s.convertToCard(pc))
	}
	return cards, nil
}

func missingCardFields(pc pokemonCard) []string {
	var missing []string
	if pc.ID == "" {
		missing = append(missing, "id")
	}
	if pc.Name == "" {
		missing = append(missing, "name")
	}
	if pc.Number == "" {
		missing = append(missing, "number")
	}
	if pc.Set.ID == "" {
		missing = append(missing, "set.id")
	}
	return missing
}

func (s *PokemonTCGService) convertToCard(pc pokemonCard) models.Card {
	var variants []models.PriceVariant
	if pc.TCGPlayer != nil {
		keys := make([]string, 0, len(pc.TCGPlayer.Prices))
		for key := range pc.TCGPlayer.Prices {
			keys = append(keys, key)
		}
		slices.Sort(keys)

		for _, key := range keys {
			kind, ok := models.ParseUpstreamVariant(key)
			if !ok {
				continue
			}
			variants = append(variants, models.PriceVariant{
				Kind:     kind,
				Market:   pc.TCGPlayer.Prices[key].Market,
				Currency: models.CurrencyUSD,
			})
		}
		slices.SortStableFunc(variants, func(a, b models.PriceVariant) int {
			return a.Kind.Rank() - b.Kind.Rank()
		})
	}

	return models.Card{
		ID:            pc.ID,
		Name:          pc.Name,
		SetID:         pc.Set.ID,
		SetName:       pc.Set.Name,
		Number:        pc.Number,
		Rarity:        pc.Rarity,
		ImageURL:      pc.Images.Small,
		ImageURLLarge: pc.Images.Large,
		Variants:      variants,
	}
}

func (s *PokemonTCGService) convertSet(ps pokemonSet) (models.SetSummary, error) {
	if ps.ID == "" || ps.Name == "" {
		return models.SetSummary{}, errs.SchemaViolation("set (id=%q, name=%q) missing required fields", ps.ID, ps.Name)
	}

	var released time.Time
	if ps.ReleaseDate != "" {
		t, err := time.Parse(pokemonTCGReleaseLayout, ps.ReleaseDate)
		if err != nil {
			return models.SetSummary{}, errs.SchemaViolation("set %s has malformed releaseDate %q", ps.ID, ps.ReleaseDate)
		}
		released = t
	}

	total := ps.Total
	if total == 0 {
		total = ps.PrintedTotal
	}

	return models.SetSummary{
		ID:          ps.ID,
		Name:        ps.Name,
		Series:      ps.Series,
		ReleaseDate: released,
		TotalCards:  total,
		LogoURL:     ps.Images.Logo,
		SymbolURL:   ps.Images.Symbol,
	}, nil
}
