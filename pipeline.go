package textatlas

import (
	"sync"
	"sync/atomic"
)

// PipelineKey identifies a render pipeline variant by the state that
// affects its compilation: the color target format and multisample count.
type PipelineKey struct {
	// Format is the color target pixel format.
	Format TextureFormat

	// SampleCount is the number of samples per pixel (1 for non-MSAA).
	SampleCount uint32
}

// PipelineCache memoizes compiled pipeline state objects by PipelineKey.
// Pipeline creation involves shader compilation and validation, which is
// expensive; the cache builds each variant once and hands out the shared
// handle afterwards.
//
// Unlike the atlas itself, PipelineCache is safe for concurrent use: one
// cache is meant to be shared by every renderer drawing with the same
// device. Inject it explicitly rather than reaching for a global. It uses
// RWMutex with double-check locking for efficient reads and safe writes.
//
// The pipeline values are opaque to the cache; backends store whatever
// handle type their device produces.
type PipelineCache struct {
	mu        sync.RWMutex
	pipelines map[PipelineKey]any

	// hits and misses are atomic for lock-free reads.
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewPipelineCache creates an empty pipeline cache.
func NewPipelineCache() *PipelineCache {
	return &PipelineCache{
		pipelines: make(map[PipelineKey]any),
	}
}

// GetOrCreate returns the cached pipeline for key, building it on first
// use.
//
// This implements the "get or create" pattern with double-check locking:
//  1. Fast path: RLock, check cache, return if found
//  2. Slow path: Lock, double-check, build if still missing
//
// build runs under the write lock, so concurrent callers for the same key
// wait for one build instead of racing. An error from build is returned
// without caching, and the next caller retries.
func (c *PipelineCache) GetOrCreate(key PipelineKey, build func() (any, error)) (any, error) {
	// Fast path: read lock
	c.mu.RLock()
	if pipeline, ok := c.pipelines[key]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return pipeline, nil
	}
	c.mu.RUnlock()

	// Slow path: write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()

	if pipeline, ok := c.pipelines[key]; ok {
		c.hits.Add(1)
		return pipeline, nil
	}

	pipeline, err := build()
	if err != nil {
		return nil, err
	}

	c.pipelines[key] = pipeline
	c.misses.Add(1)
	return pipeline, nil
}

// Get returns the cached pipeline for key without building.
func (c *PipelineCache) Get(key PipelineKey) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pipeline, ok := c.pipelines[key]
	return pipeline, ok
}

// Stats returns the number of cache hits and misses.
func (c *PipelineCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// HitRate returns the cache hit rate as a percentage.
// Returns 0 if no requests have been made.
func (c *PipelineCache) HitRate() float64 {
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Len returns the number of cached pipelines.
func (c *PipelineCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pipelines)
}

// Clear removes all cached pipelines and resets statistics. It does not
// destroy the underlying GPU resources; owners of the handles remain
// responsible for them.
func (c *PipelineCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pipelines = make(map[PipelineKey]any)
	c.hits.Store(0)
	c.misses.Store(0)
}
