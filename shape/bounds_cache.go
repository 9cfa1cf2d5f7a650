package shape

import (
	"sync"

	"scrawl/geom"
	"scrawl/internal/cache"
	"scrawl/internal/logging"
)

// DefaultBoundsCacheSize is the soft limit on memoized bounds.
const DefaultBoundsCacheSize = 4096

type boundsKey struct {
	id  string
	rev uint64
}

// BoundsCache memoizes the un-translated geometry bounds of shapes, keyed by
// shape id and geometry revision. It is shared by every read path. Whoever
// replaces a shape's geometry is responsible for evicting the old entry;
// readers never invalidate.
//
// Pinned entries sit outside the soft limit. Each shape id holds at most one
// pin.
type BoundsCache struct {
	entries *cache.Cache[boundsKey, geom.Bounds]

	mu     sync.Mutex
	pinned map[string]pinnedBounds
}

type pinnedBounds struct {
	rev    uint64
	bounds geom.Bounds
}

// NewBoundsCache creates a cache holding about size entries.
func NewBoundsCache(size int) *BoundsCache {
	if size <= 0 {
		size = DefaultBoundsCacheSize
	}
	return &BoundsCache{
		entries: cache.New[boundsKey, geom.Bounds](size),
		pinned:  make(map[string]pinnedBounds),
	}
}

// Get returns the memoized bounds for s, calling compute on a miss.
func (c *BoundsCache) Get(s *Shape, compute func(*Shape) geom.Bounds) geom.Bounds {
	if b, ok := c.pin(s); ok {
		return b
	}
	b, hit := c.entries.GetOrCreate(boundsKey{s.ID, s.rev}, func() geom.Bounds {
		return compute(s)
	})
	if !hit {
		logging.Logger().Debug("shape: bounds cache miss", "id", s.ID, "rev", s.rev)
	}
	return b
}

// Pin keeps b as the bounds of s until the same revision is evicted, another
// revision of s is pinned or the id is invalidated.
func (c *BoundsCache) Pin(s *Shape, b geom.Bounds) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pinned[s.ID] = pinnedBounds{rev: s.rev, bounds: b}
}

func (c *BoundsCache) pin(s *Shape) (geom.Bounds, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pinned[s.ID]
	if !ok || p.rev != s.rev {
		return geom.Bounds{}, false
	}
	return p.bounds, true
}

// Peek returns the memoized bounds for s without computing them.
func (c *BoundsCache) Peek(s *Shape) (geom.Bounds, bool) {
	if b, ok := c.pin(s); ok {
		return b, true
	}
	return c.entries.Get(boundsKey{s.ID, s.rev})
}

// Evict drops the entry for one revision of a shape, pinned or not.
func (c *BoundsCache) Evict(id string, rev uint64) {
	c.mu.Lock()
	if p, ok := c.pinned[id]; ok && p.rev == rev {
		delete(c.pinned, id)
	}
	c.mu.Unlock()
	c.entries.Delete(boundsKey{id, rev})
}

// Invalidate drops every revision of the shape with the given id, pinned or
// not.
func (c *BoundsCache) Invalidate(id string) int {
	c.mu.Lock()
	delete(c.pinned, id)
	c.mu.Unlock()
	return c.entries.DeleteFunc(func(k boundsKey) bool { return k.id == id })
}

// Len returns the number of memoized entries, not counting pins.
func (c *BoundsCache) Len() int {
	return c.entries.Len()
}
