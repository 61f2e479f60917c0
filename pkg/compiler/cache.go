package compiler

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache timing defaults.
const (
	DefaultExpiration      = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// Cache is a typed in-memory cache with hit/miss counters. It is safe for
// concurrent use.
type Cache[K ~string, V any] struct {
	cache  *gocache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache returns an empty cache.
func NewCache[K ~string, V any](defaultExpiration, cleanupInterval time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		cache: gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get retrieves an item by key.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var zero V

	value, found := c.cache.Get(string(key))
	if !found {
		c.misses.Add(1)
		return zero, false
	}
	v, ok := value.(V)
	if !ok {
		c.misses.Add(1)
		return zero, false
	}

	c.hits.Add(1)
	return v, true
}

// Set stores value under key with the default expiration.
func (c *Cache[K, V]) Set(key K, value V) {
	c.cache.SetDefault(string(key), value)
}

// Flush removes every item.
func (c *Cache[K, V]) Flush() {
	c.cache.Flush()
}

// Len returns the number of cached items, including expired items that
// have not been cleaned up yet.
func (c *Cache[K, V]) Len() int {
	return c.cache.ItemCount()
}

// Stats returns the hit and miss counts.
func (c *Cache[K, V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
