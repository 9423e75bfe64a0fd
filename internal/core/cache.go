package core

import (
	"context"
	"strings"
	"sync"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"golang.org/x/sync/singleflight"

	"github.com/haseebmalik18/switchr/internal/types"
)

// Producer computes a cache value on miss. It runs at most once per
// key across concurrent callers.
type Producer func(ctx context.Context) (any, error)

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// ResultCache is a TTL key/value store with in-flight request
// coalescing and hit/miss accounting. It is the only mutable shared
// state in the core and is owned by exactly one Service instance.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group
	clock   func() time.Time

	statsMu sync.Mutex
	stats   types.Stats
}

func NewResultCache(clock func() time.Time) *ResultCache {
	if clock == nil {
		clock = time.Now
	}
	return &ResultCache{
		entries: map[string]cacheEntry{},
		clock:   clock,
	}
}

// GetOrCompute returns the cached value for key if unexpired,
// otherwise runs producer once (coalescing concurrent callers onto a
// single flight) and stores the result for ttl. A coalesced waiter
// counts as a hit; the caller whose goroutine ran the producer counts
// as the miss. A failed producer propagates to every waiter and
// caches nothing.
func (c *ResultCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, producer Producer) (any, error) {
	assert.NotEmpty(ctx, key, "cache key must be set")

	c.countRequest()
	if value, ok := c.lookup(key); ok {
		c.countHit()
		return value, nil
	}

	// singleflight runs the fn on the first caller's goroutine;
	// every other concurrent caller for the same key waits on that
	// flight. The produced flag is therefore exact hit/miss
	// attribution.
	produced := false
	value, err, _ := c.group.Do(key, func() (any, error) {
		produced = true
		// Another flight may have stored the entry between the
		// lookup above and this flight starting.
		if value, ok := c.lookup(key); ok {
			return value, nil
		}
		value, err := producer(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, value, ttl)
		return value, nil
	})
	if produced {
		c.countMiss()
	} else {
		c.countHit()
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Invalidate drops one key and forgets any finished flight for it.
func (c *ResultCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	c.group.Forget(key)
}

// InvalidatePrefix drops every key with the given prefix. Mutating
// operations use this to evict the status/tree families in one call.
func (c *ResultCache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			c.group.Forget(key)
		}
	}
	c.mu.Unlock()
}

// Clear evicts everything; counters are kept for process lifetime.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	c.entries = map[string]cacheEntry{}
	c.mu.Unlock()
}

// Stats returns a copy of the lifetime counters.
func (c *ResultCache) Stats() types.Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

// Close releases the cache. Safe to call on an unused cache and safe
// to call more than once.
func (c *ResultCache) Close() {
	c.Clear()
}

func (c *ResultCache) lookup(key string) (any, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.clock().After(entry.expiresAt) {
		c.mu.Lock()
		if current, still := c.entries[key]; still && c.clock().After(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

func (c *ResultCache) store(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expiresAt: c.clock().Add(ttl)}
	c.mu.Unlock()
}

func (c *ResultCache) countRequest() {
	c.statsMu.Lock()
	c.stats.TotalRequests++
	c.statsMu.Unlock()
}

func (c *ResultCache) countHit() {
	c.statsMu.Lock()
	c.stats.CacheHits++
	c.statsMu.Unlock()
}

func (c *ResultCache) countMiss() {
	c.statsMu.Lock()
	c.stats.CacheMisses++
	c.statsMu.Unlock()
}
