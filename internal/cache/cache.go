package cache

import (
	"context"
	"sync"
	"time"
)

// Cache stores raw response payloads keyed by request.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// entry represents a cached payload with its expiry.
type entry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is a concurrency-safe map-backed Cache with hit/miss counters.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	hits    int
	misses  int
	now     func() time.Time
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the payload for key if present and not expired.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.entries[key]
	if !found || !c.now().Before(e.expiresAt) {
		c.misses++
		return nil, false, nil
	}
	c.hits++
	return e.data, true, nil
}

// Set stores value under key for ttl. A non-positive ttl is a no-op.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	c.entries[key] = entry{data: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Stats returns statistics about cache hits and misses.
func (c *MemoryCache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Ensure MemoryCache implements the Cache interface
var _ Cache = (*MemoryCache)(nil)
