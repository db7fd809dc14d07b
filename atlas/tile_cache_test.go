package atlas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileCacheEvictsFromProvider(t *testing.T) {
	a, dev := newTestAtlas(t, Config{PageSize: 64}, 64)
	c := NewTileCache(a, 2)
	full := Size{Width: 64, Height: 64}

	for i := range 3 {
		_, ok, err := c.GetOrInsert(glyph(uint32(i)), full, solid(full, Monochrome, 1))
		require.NoError(t, err)
		require.True(t, ok)
	}

	// glyph(0) was evicted and its page released.
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, a.Stats().Tiles)
	assert.Equal(t, 2, dev.LiveTextures())
	assert.Equal(t, []uint32{0}, a.FreeIndices(Monochrome))

	tile, ok, err := c.GetOrInsert(glyph(9), full, solid(full, Monochrome, 1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint32(0), tile.TextureID.Index)
}

func TestTileCacheHitSkipsProvider(t *testing.T) {
	a, _ := newTestAtlas(t, DefaultConfig(), 2048)
	c := NewTileCache(a, 0)
	size := Size{Width: 4, Height: 4}

	_, _, err := c.GetOrInsert(glyph(1), size, solid(size, Monochrome, 1))
	require.NoError(t, err)
	_, _, err = c.GetOrInsert(glyph(1), size, solid(size, Monochrome, 1))
	require.NoError(t, err)

	assert.Equal(t, uint64(0), a.Stats().Hits)
	assert.Equal(t, uint64(1), c.Stats().Hits)
}

func TestTileCacheOverNoop(t *testing.T) {
	c := NewTileCache(NoopAtlas{}, 4)
	_, ok, err := c.GetOrInsert(glyph(1), Size{4, 4}, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTileCacheRemoveAndClear(t *testing.T) {
	a, dev := newTestAtlas(t, Config{PageSize: 64}, 64)
	c := NewTileCache(a, 8)
	size := Size{Width: 8, Height: 8}

	_, _, err := c.GetOrInsert(glyph(1), size, solid(size, Monochrome, 1))
	require.NoError(t, err)
	c.Remove(glyph(1))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, dev.LiveTextures())

	_, _, err = c.GetOrInsert(glyph(2), size, solid(size, Monochrome, 1))
	require.NoError(t, err)
	require.NoError(t, c.BeforeFrame())
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, a.Stats().Tiles)
	assert.Same(t, a, c.Provider().(*Atlas))
}
