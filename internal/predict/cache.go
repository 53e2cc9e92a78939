package predict

import (
	"context"
	"sync"
)

// LoadFunc fetches the model handle for a region on first use.
type LoadFunc func(ctx context.Context, regionKey string) (*ModelInfo, error)

// ModelCache holds loaded model handles keyed by region. It replaces
// ambient process-wide model state with an explicit, injectable object:
// entries are constructed on first use and dropped via Invalidate when
// a region is retrained. Loads for the same region are deduplicated;
// loads for different regions proceed independently.
type ModelCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	load    LoadFunc
}

type cacheEntry struct {
	once sync.Once
	info *ModelInfo
	err  error
}

// NewModelCache creates a cache backed by the given loader.
func NewModelCache(load LoadFunc) *ModelCache {
	return &ModelCache{
		entries: make(map[string]*cacheEntry),
		load:    load,
	}
}

// Get returns the model handle for a region, loading it on first use.
// A failed load is not cached: the next Get retries.
func (c *ModelCache) Get(ctx context.Context, regionKey string) (*ModelInfo, error) {
	c.mu.Lock()
	entry, ok := c.entries[regionKey]
	if !ok {
		entry = &cacheEntry{}
		c.entries[regionKey] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.info, entry.err = c.load(ctx, regionKey)
	})

	if entry.err != nil {
		c.mu.Lock()
		if c.entries[regionKey] == entry {
			delete(c.entries, regionKey)
		}
		c.mu.Unlock()
		return nil, entry.err
	}

	return entry.info, nil
}

// Invalidate drops the cached model for a region so the next Get
// reloads it. Called after a retrain.
func (c *ModelCache) Invalidate(regionKey string) {
	c.mu.Lock()
	delete(c.entries, regionKey)
	c.mu.Unlock()
}

// Len returns the number of loaded regions.
func (c *ModelCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
