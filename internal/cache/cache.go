// SPDX-License-Identifier: MIT

// Package cache provides a generic in-memory cache with TTL support and a
// memoization wrapper for pure functions.
package cache

import (
	"sync"
	"time"

	"github.com/neptuneng/fieldkit/internal/metrics"
)

// Stats holds cache performance counters.
type Stats struct {
	Hits      int64 // successful Get operations
	Misses    int64 // failed Get operations (not found or expired)
	Sets      int64 // Set operations
	Evictions int64 // expired entries cleaned up by the janitor
	Size      int   // current number of cached entries
}

// entry is a cached value with its expiration time.
type entry[V any] struct {
	value      V
	expiration time.Time
}

func (e *entry[V]) expired() bool {
	return time.Now().After(e.expiration)
}

// Cache is a thread-safe in-memory cache with per-entry TTL.
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]*entry[V]
	stats   Stats
	janitor *janitor
}

// New creates a cache. When cleanupInterval is positive, a background
// janitor goroutine removes expired entries at that cadence; call Stop to
// shut it down.
func New[K comparable, V any](cleanupInterval time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		entries: make(map[K]*entry[V]),
	}
	if cleanupInterval > 0 {
		c.janitor = &janitor{
			interval: cleanupInterval,
			stop:     make(chan struct{}),
		}
		go c.janitor.run(c.deleteExpired)
	}
	return c
}

// Get retrieves a value. Expired entries count as misses.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, found := c.entries[key]
	if !found || e.expired() {
		c.stats.Misses++
		metrics.IncCacheOp("miss")
		return zero, false
	}
	c.stats.Hits++
	metrics.IncCacheOp("hit")
	return e.value, true
}

// Set stores a value with the given TTL.
func (c *Cache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry[V]{
		value:      value,
		expiration: time.Now().Add(ttl),
	}
	c.stats.Sets++
	metrics.IncCacheOp("set")
}

// Delete removes a value.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes all values.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]*entry[V])
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := c.stats
	stats.Size = len(c.entries)
	return stats
}

// deleteExpired removes all expired entries and returns how many went.
func (c *Cache[K, V]) deleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key, e := range c.entries {
		if e.expired() {
			delete(c.entries, key)
			count++
		}
	}
	c.stats.Evictions += int64(count)
	if count > 0 {
		metrics.IncCacheOp("eviction")
	}
	return count
}

// Stop terminates the background janitor, if any.
func (c *Cache[K, V]) Stop() {
	if c.janitor != nil {
		c.janitor.stop <- struct{}{}
	}
}

// janitor performs periodic cleanup of expired entries.
type janitor struct {
	interval time.Duration
	stop     chan struct{}
}

func (j *janitor) run(sweep func() int) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sweep()
		case <-j.stop:
			return
		}
	}
}

// Memoize wraps fn so repeated calls with the same key reuse the cached
// result for ttl. Errors are never cached; a failed call leaves the cache
// untouched so the next call retries.
func Memoize[K comparable, V any](c *Cache[K, V], ttl time.Duration, fn func(K) (V, error)) func(K) (V, error) {
	return func(key K) (V, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := fn(key)
		if err != nil {
			var zero V
			return zero, err
		}
		c.Set(key, v, ttl)
		return v, nil
	}
}
