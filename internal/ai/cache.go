package ai

import (
	"fmt"
	"sync"

	"github.com/insightx/insightx-cli/internal/dataset"
)

// Cache memoizes AI results for one session. It is owned by whoever builds
// the Service and cleared on session reset, never hidden in package state.
type Cache struct {
	mu      sync.Mutex
	entries map[string]any
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]any)}
}

// Get returns the cached value for key, if any.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set stores a value under key.
func (c *Cache) Set(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

// Clear drops every entry, e.g. on logout or dataset reset.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any)
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Key derives the cache key for an operation on a dataset. The fingerprint
// is deliberately coarse: name, row count and column count only. Two
// different datasets sharing those three collide, and callers (and tests)
// depend on that exact behavior.
func Key(op string, ds *dataset.Dataset, extra string) string {
	return fmt.Sprintf("%s_%s_%d_%d_%s", op, ds.Name, len(ds.Rows), len(ds.Columns), extra)
}
