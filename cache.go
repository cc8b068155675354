package canvas

import (
	"runtime"
	"sync"
	"weak"
)

// ComposerCache maps paint-state keys to weakly held drawing output so that
// expensive painted sub-results (marker overlays, glyph runs, cell bitmaps)
// can be shared across composers and frames without the composer tree
// retaining them. Entries self-evict once nothing else references the value.
//
// Callers must keep the returned *DrawingContext alive for as long as they
// need it; the cache itself never extends a value's lifetime.
type ComposerCache struct {
	mu      sync.Mutex
	entries map[any]weak.Pointer[DrawingContext]
}

// NewComposerCache returns an empty cache.
func NewComposerCache() *ComposerCache {
	return &ComposerCache{entries: make(map[any]weak.Pointer[DrawingContext])}
}

// DrawingContext returns the cached value for key, invoking calculate once
// on a miss and storing the result behind a weak reference. The key must be
// comparable and unique to the paintable state it represents.
func (c *ComposerCache) DrawingContext(key any, calculate func() *DrawingContext) *DrawingContext {
	c.mu.Lock()
	if p, ok := c.entries[key]; ok {
		if dc := p.Value(); dc != nil {
			c.mu.Unlock()
			return dc
		}
		delete(c.entries, key)
	}
	c.mu.Unlock()

	// Calculate outside the lock; paint work can be arbitrarily expensive.
	dc := calculate()
	if dc == nil {
		return nil
	}

	c.mu.Lock()
	c.entries[key] = weak.Make(dc)
	c.mu.Unlock()
	runtime.AddCleanup(dc, func(k any) { c.evict(k) }, key)
	return dc
}

// evict drops the entry for key if its value has been collected.
func (c *ComposerCache) evict(key any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.entries[key]; ok && p.Value() == nil {
		delete(c.entries, key)
	}
}

// Len returns the number of live entries, for test observability.
func (c *ComposerCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, p := range c.entries {
		if p.Value() != nil {
			n++
		}
	}
	return n
}
