package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/codyseavey/tcg-explorer/internal/clock"
	"github.com/codyseavey/tcg-explorer/internal/config"
	"github.com/codyseavey/tcg-explorer/internal/errs"
	"github.com/codyseavey/tcg-explorer/internal/models"
)

type fakeUpstream struct {
	setCalls    atomic.Int32
	searchCalls atomic.Int32
	listCalls   atomic.Int32

	cards   map[string][]models.Card
	sets    []models.SetSummary
	err     error
	release chan struct{}
}

func (f *fakeUpstream) FetchSetCards(ctx context.Context, setID string) ([]models.Card, error) {
	f.setCalls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	cards, ok := f.cards[setID]
	if !ok {
		return nil, errs.Newf(errs.ErrNotFound, "set %q has no cards", setID)
	}
	return cards, nil
}

func (f *fakeUpstream) SearchCards(_ context.Context, fragment string) ([]models.Card, error) {
	f.searchCalls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.cards["search"], nil
}

func (f *fakeUpstream) ListSets(context.Context) ([]models.SetSummary, error) {
	f.listCalls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.sets, nil
}

func newTestGateway(t *testing.T, up CardUpstream, clk clock.Clock) *CardGateway {
	t.Helper()
	g, err := NewCardGateway(up, config.NewTestConfig().Cache, clk, zaptest.NewLogger(t))
	require.NoError(t, err)
	return g
}

func TestCardGateway_FetchSet_CachesWithinTTL(t *testing.T) {
	clk := clock.NewMockClock(date("2024-06-01"))
	up := &fakeUpstream{cards: map[string][]models.Card{"base1": threeCardFixture()}}
	g := newTestGateway(t, up, clk)
	ctx := context.Background()

	first, err := g.FetchSet(ctx, "base1")
	require.NoError(t, err)
	second, err := g.FetchSet(ctx, " BASE1 ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), up.setCalls.Load())

	clk.Add(time.Hour + time.Second)

	_, err = g.FetchSet(ctx, "base1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), up.setCalls.Load())
}

func TestCardGateway_FetchSet_ErrorsNotCached(t *testing.T) {
	up := &fakeUpstream{err: errs.SchemaViolation("card 0 missing number")}
	g := newTestGateway(t, up, clock.NewMockClock(date("2024-06-01")))
	ctx := context.Background()

	_, err := g.FetchSet(ctx, "base1")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrSchemaViolation))

	up.err = nil
	up.cards = map[string][]models.Card{"base1": threeCardFixture()}

	cards, err := g.FetchSet(ctx, "base1")
	require.NoError(t, err)
	assert.Len(t, cards, 3)
	assert.Equal(t, int32(2), up.setCalls.Load())
}

func TestCardGateway_FetchSet_NotFound(t *testing.T) {
	g := newTestGateway(t, &fakeUpstream{}, nil)
	_, err := g.FetchSet(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrNotFound))
}

func TestCardGateway_FetchSet_EmptyID(t *testing.T) {
	up := &fakeUpstream{}
	g := newTestGateway(t, up, nil)
	_, err := g.FetchSet(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrInvalidArgument))
	assert.Equal(t, int32(0), up.setCalls.Load())
}

func TestCardGateway_FetchSet_CollapsesConcurrentMisses(t *testing.T) {
	up := &fakeUpstream{
		cards:   map[string][]models.Card{"base1": threeCardFixture()},
		release: make(chan struct{}),
	}
	g := newTestGateway(t, up, nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cards, err := g.FetchSet(context.Background(), "base1")
			assert.NoError(t, err)
			assert.Len(t, cards, 3)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(up.release)
	wg.Wait()

	assert.Equal(t, int32(1), up.setCalls.Load())
}

func TestCardGateway_FetchAllSets_TwoHourTTL(t *testing.T) {
	clk := clock.NewMockClock(date("2024-06-01"))
	up := &fakeUpstream{sets: testCatalog()}
	g := newTestGateway(t, up, clk)
	ctx := context.Background()

	sets, err := g.FetchAllSets(ctx)
	require.NoError(t, err)
	assert.Len(t, sets, len(testCatalog()))

	clk.Add(2*time.Hour - time.Second)
	_, err = g.FetchAllSets(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), up.listCalls.Load())

	clk.Add(time.Second)
	_, err = g.FetchAllSets(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), up.listCalls.Load())
}

func TestCardGateway_SearchByName(t *testing.T) {
	clk := clock.NewMockClock(date("2024-06-01"))
	up := &fakeUpstream{cards: map[string][]models.Card{"search": threeCardFixture()[:1]}}
	g := newTestGateway(t, up, clk)
	ctx := context.Background()

	_, err := g.SearchByName(ctx, "Char")
	require.NoError(t, err)
	_, err = g.SearchByName(ctx, "char")
	require.NoError(t, err)
	assert.Equal(t, int32(1), up.searchCalls.Load(), "search key is case-insensitive")

	clk.Add(16 * time.Minute)
	_, err = g.SearchByName(ctx, "char")
	require.NoError(t, err)
	assert.Equal(t, int32(2), up.searchCalls.Load())

	_, err = g.SearchByName(ctx, "")
	assert.True(t, errs.Is(err, errs.ErrInvalidArgument))
}

func TestCardGateway_FetchSet_RejectsMalformedIDs(t *testing.T) {
	for _, id := range []string{"base1 OR set.id:sv1", "sv1*", "base1)", "set.id:base1", "base 1"} {
		t.Run(id, func(t *testing.T) {
			up := &fakeUpstream{}
			g := newTestGateway(t, up, nil)
			_, err := g.FetchSet(context.Background(), id)
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.ErrInvalidArgument))
			assert.Equal(t, int32(0), up.setCalls.Load())
		})
	}

	up := &fakeUpstream{cards: map[string][]models.Card{"swsh12pt5": threeCardFixture()}}
	g := newTestGateway(t, up, nil)
	cards, err := g.FetchSet(context.Background(), "SWSH12PT5")
	require.NoError(t, err)
	assert.Len(t, cards, 3)
}

func TestCardGateway_CanceledCallerDoesNotFailJoinedCaller(t *testing.T) {
	up := &fakeUpstream{
		cards:   map[string][]models.Card{"base1": threeCardFixture()},
		release: make(chan struct{}),
	}
	g := newTestGateway(t, up, nil)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := g.FetchSet(firstCtx, "base1")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return up.setCalls.Load() == 1 }, time.Second, time.Millisecond)

	cancelFirst()
	err := <-firstErr
	require.Error(t, err)
	assert.True(t, errs.Is(err, context.Canceled))

	// The upstream fetch is still in flight; a second caller joins it.
	type result struct {
		cards []models.Card
		err   error
	}
	second := make(chan result, 1)
	go func() {
		cards, err := g.FetchSet(context.Background(), "base1")
		second <- result{cards, err}
	}()

	time.Sleep(20 * time.Millisecond)
	close(up.release)

	got := <-second
	require.NoError(t, got.err)
	assert.Len(t, got.cards, 3)
	assert.Equal(t, int32(1), up.setCalls.Load())
}

func TestCardGateway_SharedFetchIsBoundedByTimeout(t *testing.T) {
	up := &fakeUpstream{release: make(chan struct{})}
	cfg := config.NewTestConfig().Cache
	cfg.FetchTimeout = 20 * time.Millisecond
	g, err := NewCardGateway(up, cfg, nil, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = g.FetchSet(context.Background(), "base1")
	require.Error(t, err)
	assert.True(t, errs.Is(err, context.DeadlineExceeded))
}
