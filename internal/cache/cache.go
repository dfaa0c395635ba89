package cache

import (
	"sync"
	"time"
)

// DefaultTTL keeps catalog results fresh for ten minutes before a new
// upstream round trip.
const DefaultTTL = 10 * time.Minute

type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// Cache is a TTL-bounded key/value store. Entries expire ttl after insertion
// and are evicted lazily on lookup, so Get never returns stale data. There is
// no size bound; growth is limited only by expiry, which is acceptable for a
// short-lived request-serving process.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithClock overrides the time source. Used by tests to force expiry.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) {
		c.now = now
	}
}

// New returns an empty cache whose entries expire after ttl. A non-positive
// ttl falls back to DefaultTTL.
func New[V any](ttl time.Duration, opts ...Option[V]) *Cache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set stores value under key, stamping it with the current time. A second Set
// for the same key replaces the entry wholesale.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, insertedAt: c.now()}
}

// Get returns the value stored under key if it has not expired. Expired
// entries are deleted on access.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().Sub(e.insertedAt) >= c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len reports the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
