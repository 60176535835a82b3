package reference

import (
	"context"
	"sync"
	"time"
)

type cachedSearch struct {
	candidates []Candidate
	expires    time.Time
}

// MemorySearchCache is a concurrency-safe in-process SearchCache with per-entry expiry.
type MemorySearchCache struct {
	mu      sync.RWMutex
	entries map[string]cachedSearch
	now     func() time.Time
}

// NewMemorySearchCache returns an empty cache.
func NewMemorySearchCache() *MemorySearchCache {
	return &MemorySearchCache{
		entries: make(map[string]cachedSearch),
		now:     time.Now,
	}
}

func (c *MemorySearchCache) Get(_ context.Context, query string) ([]Candidate, bool) {
	c.mu.RLock()
	entry, ok := c.entries[query]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expires) {
		c.mu.Lock()
		delete(c.entries, query)
		c.mu.Unlock()
		return nil, false
	}
	return entry.candidates, true
}

func (c *MemorySearchCache) Set(_ context.Context, query string, candidates []Candidate, ttl time.Duration) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for q, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, q)
		}
	}
	c.entries[query] = cachedSearch{candidates: candidates, expires: now.Add(ttl)}
}

// Len reports the number of stored entries, expired or not.
func (c *MemorySearchCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
