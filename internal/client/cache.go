package client

import (
	"sync"
	"time"
)

// ListCache holds one fetched list together with the key it was fetched for.
// Entries older than TTL are treated as missing.
type ListCache[T any] struct {
	mu        sync.Mutex
	key       string
	items     []T
	FetchedAt time.Time
	TTL       time.Duration
	now       func() time.Time
}

func NewListCache[T any](ttl time.Duration, now func() time.Time) *ListCache[T] {
	if now == nil {
		now = time.Now
	}
	return &ListCache[T]{TTL: ttl, now: now}
}

func (c *ListCache[T]) Get(key string) ([]T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.FetchedAt.IsZero() || c.key != key {
		return nil, false
	}
	if c.now().Sub(c.FetchedAt) >= c.TTL {
		return nil, false
	}

	return c.items, true
}

func (c *ListCache[T]) Set(key string, items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.key = key
	c.items = items
	c.FetchedAt = c.now()
}

func (c *ListCache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.key = ""
	c.items = nil
	c.FetchedAt = time.Time{}
}
