package atlas

import (
	"github.com/gogpu/ggweb/internal/cache"
)

// TileCache bounds the number of live tiles of a TileProvider. It keeps
// keys in LRU order and removes the least recently used tile from the
// provider once the limit is exceeded, so pages drain and return to the
// free list under churn.
type TileCache struct {
	provider TileProvider
	lru      *cache.Cache[Key, Tile]
}

// NewTileCache wraps provider with an LRU of at most limit tiles.
// A limit of 0 disables eviction.
func NewTileCache(provider TileProvider, limit int) *TileCache {
	tc := &TileCache{provider: provider}
	tc.lru = cache.NewWithEvict[Key, Tile](limit, func(k Key, _ Tile) {
		provider.Remove(k)
	})
	return tc
}

// GetOrInsert implements TileProvider.
func (c *TileCache) GetOrInsert(key Key, size Size, render RenderFunc) (Tile, bool, error) {
	if tile, ok := c.lru.Get(key); ok {
		return tile, true, nil
	}
	tile, ok, err := c.provider.GetOrInsert(key, size, render)
	if err != nil || !ok {
		return tile, ok, err
	}
	c.lru.Set(key, tile)
	return tile, true, nil
}

// Remove implements TileProvider.
func (c *TileCache) Remove(key Key) {
	c.lru.Delete(key)
	c.provider.Remove(key)
}

// Clear implements TileProvider.
func (c *TileCache) Clear() {
	c.lru.Clear()
	c.provider.Clear()
}

// BeforeFrame implements TileProvider.
func (c *TileCache) BeforeFrame() error {
	return c.provider.BeforeFrame()
}

// Len returns the number of tracked tiles.
func (c *TileCache) Len() int {
	return c.lru.Len()
}

// Stats returns the LRU statistics.
func (c *TileCache) Stats() cache.Stats {
	return c.lru.Stats()
}

// Provider returns the wrapped provider.
func (c *TileCache) Provider() TileProvider {
	return c.provider
}

var _ TileProvider = (*TileCache)(nil)
