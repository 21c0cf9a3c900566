package browse

import (
	"sync"
	"time"
)

// cacheEntry pairs a cached value with its store time.
type cacheEntry[T any] struct {
	value    T
	storedAt time.Time
}

// ttlCache is a mutex-guarded map cache with lazy TTL expiry: staleness
// is checked on lookup, expired entries are overwritten on the next put.
type ttlCache[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry[T]
}

func newTTLCache[T any](ttl time.Duration) *ttlCache[T] {
	return &ttlCache[T]{
		ttl:     ttl,
		entries: make(map[string]cacheEntry[T]),
	}
}

// get returns the cached value for key if it is still fresh.
func (c *ttlCache[T]) get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Since(entry.storedAt) >= c.ttl {
		var zero T
		return zero, false
	}
	return entry.value, true
}

func (c *ttlCache[T]) put(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[T]{value: value, storedAt: time.Now()}
}

func (c *ttlCache[T]) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// prune drops entries older than maxAge.
func (c *ttlCache[T]) prune(maxAge time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if time.Since(entry.storedAt) > maxAge {
			delete(c.entries, key)
		}
	}
}
