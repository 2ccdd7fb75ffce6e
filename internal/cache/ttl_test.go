package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codyseavey/tcg-explorer/internal/clock"
)

func newTestCache(t *testing.T, size int) (*TTL[[]string], *clock.MockClock) {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	c, err := NewTTL[[]string](size, clk)
	require.NoError(t, err)
	return c, clk
}

func TestTTL_GetWithinTTL(t *testing.T) {
	c, clk := newTestCache(t, 10)

	c.Set("set:base1", []string{"base1-4"}, time.Hour)
	clk.Add(59 * time.Minute)

	got, ok := c.Get("set:base1")
	require.True(t, ok)
	assert.Equal(t, []string{"base1-4"}, got)
}

func TestTTL_ExpiredEntryIsAbsent(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
		wantHit bool
	}{
		{"just before expiry", 2*time.Hour - time.Second, true},
		{"exactly at expiry", 2 * time.Hour, false},
		{"past expiry", 3 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clk := newTestCache(t, 10)
			c.Set("all-sets", []string{"base1"}, 2*time.Hour)
			clk.Add(tt.advance)

			_, ok := c.Get("all-sets")
			assert.Equal(t, tt.wantHit, ok)
			if !tt.wantHit {
				assert.Equal(t, 0, c.Len(), "expired entry should be dropped on lookup")
			}
		})
	}
}

func TestTTL_LastWriterWins(t *testing.T) {
	c, _ := newTestCache(t, 10)

	c.Set("search:pika", []string{"a"}, time.Hour)
	c.Set("search:pika", []string{"b"}, time.Hour)

	got, ok := c.Get("search:pika")
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, got)
}

func TestTTL_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(t, 2)

	c.Set("a", []string{"a"}, time.Hour)
	c.Set("b", []string{"b"}, time.Hour)
	_, _ = c.Get("a")
	c.Set("c", []string{"c"}, time.Hour)

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	assert.True(t, okA)
	assert.False(t, okB)
}

func TestTTL_NonPositiveTTLIsNotStored(t *testing.T) {
	c, _ := newTestCache(t, 10)
	c.Set("x", []string{"x"}, 0)
	_, ok := c.Get("x")
	assert.False(t, ok)
}

func TestTTL_Age(t *testing.T) {
	c, clk := newTestCache(t, 10)
	c.Set("x", []string{"x"}, time.Hour)
	clk.Add(10 * time.Minute)

	age, ok := c.Age("x")
	require.True(t, ok)
	assert.Equal(t, 10*time.Minute, age)

	clk.Add(time.Hour)
	_, ok = c.Age("x")
	assert.False(t, ok)
}
