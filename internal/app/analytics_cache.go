package app

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// analyticsCache is a TTL cache in front of the analytics SQL aggregates.
// Dashboard clients poll on an interval, so a short TTL absorbs nearly all
// repeat reads without showing stale numbers for long.
type analyticsCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	clock   clockwork.Clock
}

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

func newAnalyticsCache(ttl time.Duration, clock clockwork.Clock) *analyticsCache {
	return &analyticsCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

// get returns the cached value if present and not expired. Expired entries
// are treated as misses; set overwrites them in place.
func (c *analyticsCache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || c.clock.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

func (c *analyticsCache) set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		value:     value,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}

func (c *analyticsCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
