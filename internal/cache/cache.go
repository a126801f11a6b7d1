// Package cache provides the TTL-bounded aggregate cache. Statistics
// queries are served from here between mutations; every mutation
// invalidates the whole cache synchronously, so a fresh TTL window never
// hides a write.
package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL bounds how long an aggregate may be served without
// recomputation when no mutation occurs.
const DefaultTTL = 30 * time.Second

type entry struct {
	value   any
	expires time.Time
}

// StatsCache is a keyed TTL cache for aggregate query results. Safe for
// concurrent use.
type StatsCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration

	// now is injectable so tests can drive the clock.
	now func() time.Time
}

// Option configures a StatsCache.
type Option func(*StatsCache)

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *StatsCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the time source. Tests use this to verify TTL
// behavior without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *StatsCache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a StatsCache with the default TTL and wall clock.
func New(opts ...Option) *StatsCache {
	c := &StatsCache{
		entries: make(map[string]entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCompute returns the cached value for key if it is still live,
// otherwise runs compute, stores its result, and returns it. Errors are
// never cached.
func (c *StatsCache) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (any, error)) (any, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Before(e.expires) {
		return e.value, nil
	}

	value, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()

	return value, nil
}

// Invalidate evicts every entry. Called synchronously after each mutation
// so the next aggregate read recomputes.
func (c *StatsCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len reports the number of stored entries, live or expired.
func (c *StatsCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
