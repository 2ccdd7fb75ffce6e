// Package cache provides the gateway's response cache: a size-bounded LRU whose
// entries carry their own fetch time and time-to-live. Expired entries are
// never returned; they are dropped lazily on the lookup that finds them.
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/codyseavey/tcg-explorer/internal/clock"
)

// DefaultMaxEntries bounds the cache when the caller passes a non-positive size.
const DefaultMaxEntries = 512

type entry[V any] struct {
	payload   V
	fetchedAt time.Time
	ttl       time.Duration
}

func (e entry[V]) expired(now time.Time) bool {
	return !now.Before(e.fetchedAt.Add(e.ttl))
}

// TTL is a query-signature keyed cache of immutable payloads. Writes for the
// same key are last-writer-wins.
type TTL[V any] struct {
	entries *lru.Cache[string, entry[V]]
	clock   clock.Clock
}

// NewTTL creates a cache holding at most maxEntries payloads.
func NewTTL[V any](maxEntries int, clk clock.Clock) (*TTL[V], error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}
	entries, err := lru.New[string, entry[V]](maxEntries)
	if err != nil {
		return nil, err
	}
	return &TTL[V]{entries: entries, clock: clk}, nil
}

// Get returns the payload for key if present and younger than its TTL.
func (c *TTL[V]) Get(key string) (V, bool) {
	var zero V
	e, ok := c.entries.Get(key)
	if !ok {
		return zero, false
	}
	if e.expired(c.clock.Now()) {
		c.entries.Remove(key)
		return zero, false
	}
	return e.payload, true
}

// Set stores payload under key, stamped with the current time.
func (c *TTL[V]) Set(key string, payload V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.entries.Add(key, entry[V]{
		payload:   payload,
		fetchedAt: c.clock.Now(),
		ttl:       ttl,
	})
}

// Age reports how long ago key was fetched, if it is still cached and fresh.
func (c *TTL[V]) Age(key string) (time.Duration, bool) {
	e, ok := c.entries.Peek(key)
	if !ok {
		return 0, false
	}
	now := c.clock.Now()
	if e.expired(now) {
		return 0, false
	}
	return now.Sub(e.fetchedAt), true
}

// Len returns the number of stored entries, including expired ones not yet
// looked up.
func (c *TTL[V]) Len() int {
	return c.entries.Len()
}
