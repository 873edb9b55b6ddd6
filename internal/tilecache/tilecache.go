// Package tilecache is a keyed store of rendered tile PNGs with
// locality-based eviction. There is intentionally no LRU: locality is
// driven entirely by the viewport, so a radius-based policy is simpler and
// deterministic (SPEC_FULL §4.G).
package tilecache

// TilePngs is the rendered output for one tile index: one PNG for the
// content column, one for the sidebar column.
type TilePngs struct {
	Content []byte
	Sidebar []byte
}

// Cache is owned exclusively by the main thread; the prefetch worker never
// touches it directly, only produces TilePngs that the main thread inserts.
type Cache struct {
	entries map[int]TilePngs
}

func New() *Cache {
	return &Cache{entries: make(map[int]TilePngs)}
}

func (c *Cache) Get(idx int) (TilePngs, bool) {
	p, ok := c.entries[idx]
	return p, ok
}

func (c *Cache) Contains(idx int) bool {
	_, ok := c.entries[idx]
	return ok
}

func (c *Cache) Insert(idx int, p TilePngs) {
	c.entries[idx] = p
}

// GetOrRender returns the cached entry for idx, rendering synchronously via
// render and caching the result if it was missing — the fallback path used
// when the prefetch worker hasn't produced a tile yet (a cache miss that
// must not block on the worker).
func (c *Cache) GetOrRender(idx int, render func(idx int) (TilePngs, error)) (TilePngs, error) {
	if p, ok := c.entries[idx]; ok {
		return p, nil
	}
	p, err := render(idx)
	if err != nil {
		return TilePngs{}, err
	}
	c.entries[idx] = p
	return p, nil
}

// EvictDistant removes every entry whose index distance from center
// exceeds radius.
func (c *Cache) EvictDistant(center, radius int) {
	for idx := range c.entries {
		d := idx - center
		if d < 0 {
			d = -d
		}
		if d > radius {
			delete(c.entries, idx)
		}
	}
}

func (c *Cache) Len() int { return len(c.entries) }
