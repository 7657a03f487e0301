// Package cache provides a capacity-bounded in-memory TTL cache with FIFO
// eviction, predicate invalidation, and ETag support.
package cache

import (
	"crypto/md5"
	"fmt"
	"sync"
	"time"
)

// SlowChangingTTLFactor scales the default TTL for data that changes less
// often than leaderboard pages (player details, global stats).
const SlowChangingTTLFactor = 2

type entry struct {
	data      []byte
	etag      string
	expiresAt time.Time
}

// Cache is a thread-safe in-memory TTL cache. Size is bounded: once
// maxEntries is reached, the oldest-inserted keys are evicted first
// (true FIFO — insertion order, not access order). Overwriting a key
// keeps its original queue position.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	queue      []string // insertion order, oldest first
	maxEntries int
	defaultTTL time.Duration
	enabled    bool
	now        func() time.Time
}

// New creates a cache bounded to maxEntries with the given default TTL.
// Pass enabled=false to create a no-op cache.
func New(enabled bool, maxEntries int, defaultTTL time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	return &Cache{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
		defaultTTL: defaultTTL,
		enabled:    enabled,
		now:        time.Now,
	}
}

// DefaultTTL returns the store's default entry lifetime.
func (c *Cache) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Get retrieves a cached value. Returns data, etag, and whether the entry was
// found. An expired entry is deleted and reported as a miss (lazy expiry —
// there is no background sweep).
func (c *Cache) Get(key string) (data []byte, etag string, ok bool) {
	if !c.enabled {
		return nil, "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, exists := c.entries[key]
	if !exists {
		return nil, "", false
	}
	if c.now().After(e.expiresAt) {
		c.remove(key)
		return nil, "", false
	}
	return e.data, e.etag, true
}

// Set stores a value. ttl <= 0 means the default TTL. Entries are never
// mutated in place; an existing key is replaced with a fresh entry but keeps
// its FIFO position. Inserting a new key at capacity first evicts the oldest
// keys so the size never exceeds the bound after the insert completes.
func (c *Cache) Set(key string, data []byte, ttl time.Duration) string {
	etag := ComputeETag(data)
	if !c.enabled {
		return etag
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.entries) >= c.maxEntries {
			c.evictOldest()
		}
		c.queue = append(c.queue, key)
	}
	c.entries[key] = entry{
		data:      data,
		etag:      etag,
		expiresAt: c.now().Add(ttl),
	}
	return etag
}

// Invalidate deletes every key for which pred returns true and reports how
// many entries were removed. Used after upstream failures to purge a whole
// endpoint family.
func (c *Cache) Invalidate(pred func(key string) bool) int {
	if !c.enabled {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	kept := c.queue[:0]
	for _, key := range c.queue {
		if pred(key) {
			delete(c.entries, key)
			removed++
			continue
		}
		kept = append(kept, key)
	}
	c.queue = kept
	return removed
}

// Len returns the current number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics for the health endpoint.
func (c *Cache) Stats() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	active := 0
	now := c.now()
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			active++
		}
	}
	return map[string]interface{}{
		"enabled":      c.enabled,
		"total_keys":   len(c.entries),
		"active_keys":  active,
		"expired_keys": len(c.entries) - active,
		"max_entries":  c.maxEntries,
	}
}

// evictOldest removes the single oldest entry. Caller holds the lock.
func (c *Cache) evictOldest() {
	if len(c.queue) == 0 {
		return
	}
	oldest := c.queue[0]
	c.queue = c.queue[1:]
	delete(c.entries, oldest)
}

// remove deletes a key from both the map and the queue. Caller holds the lock.
func (c *Cache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.queue {
		if k == key {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			return
		}
	}
}

// ComputeETag generates a weak ETag from response data using MD5.
func ComputeETag(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf(`W/"%x"`, hash[:8])
}

// CheckETagMatch checks if If-None-Match header matches the current ETag.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	return ifNoneMatch == etag
}
