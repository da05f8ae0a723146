package astro

import (
	"sync"
	"time"
)

type cacheItem struct {
	value      ChartData
	expiration time.Time
}

// chartCache memoizes deterministic chart computations, keyed by the
// canonical subject string. Safe for concurrent access.
type chartCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
}

func newChartCache() *chartCache {
	return &chartCache{items: make(map[string]cacheItem)}
}

// Set stores a chart with a time-to-live for the given key.
func (c *chartCache) Set(key string, value ChartData, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheItem{value: value, expiration: time.Now().Add(ttl)}
}

// Get retrieves a non-expired chart for the key, returning false if missing
// or expired.
func (c *chartCache) Get(key string) (ChartData, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return ChartData{}, false
	}
	if time.Now().After(it.expiration) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return ChartData{}, false
	}
	return it.value, true
}
