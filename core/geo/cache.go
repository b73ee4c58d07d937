package geo

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CachedSource wraps a PolygonSource with a TTL cache. Polygon layers
// change rarely but are re-resolved for every source unit of a run, so
// the lookup is cached with stampede protection.
type CachedSource struct {
	source PolygonSource
	ttl    time.Duration

	mu      sync.RWMutex
	entries map[string]*cacheEntry
	sf      singleflight.Group
}

type cacheEntry struct {
	polygon Polygon
	built   time.Time
}

// NewCachedSource wraps a source with a TTL cache. A zero TTL disables
// caching and every Get goes to the underlying source.
func NewCachedSource(source PolygonSource, ttl time.Duration) *CachedSource {
	return &CachedSource{
		source:  source,
		ttl:     ttl,
		entries: make(map[string]*cacheEntry),
	}
}

// Get implements PolygonSource. Configuration errors are never cached;
// they must surface on every attempt so a fixed configuration takes
// effect immediately.
func (c *CachedSource) Get(ctx context.Context, polygonID string) (Polygon, error) {
	if c.ttl == 0 {
		return c.source.Get(ctx, polygonID)
	}

	c.mu.RLock()
	entry, exists := c.entries[polygonID]
	c.mu.RUnlock()

	if exists && time.Since(entry.built) <= c.ttl {
		return entry.polygon, nil
	}

	result, err, _ := c.sf.Do(polygonID, func() (any, error) {
		// Double-check after acquiring the singleflight slot
		c.mu.RLock()
		entry, exists := c.entries[polygonID]
		c.mu.RUnlock()

		if exists && time.Since(entry.built) <= c.ttl {
			return entry.polygon, nil
		}

		polygon, err := c.source.Get(ctx, polygonID)
		if err != nil {
			return Polygon{}, err
		}

		c.mu.Lock()
		c.entries[polygonID] = &cacheEntry{polygon: polygon, built: time.Now()}
		c.mu.Unlock()

		return polygon, nil
	})
	if err != nil {
		return Polygon{}, err
	}
	return result.(Polygon), nil
}

// Invalidate drops the cached polygon for the given identifier.
func (c *CachedSource) Invalidate(polygonID string) {
	c.mu.Lock()
	delete(c.entries, polygonID)
	c.mu.Unlock()
}
