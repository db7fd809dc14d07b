package atlas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopAtlasNeverDraws(t *testing.T) {
	var p TileProvider = NoopAtlas{}
	keys := []Key{glyph(1), ImageKey{ImageID: 2}, PathKey{PathID: 3}}
	sizes := []Size{{16, 16}, {0, 0}, {1 << 20, 1}}

	for _, k := range keys {
		for _, s := range sizes {
			tile, ok, err := p.GetOrInsert(k, s, func() ([]byte, error) {
				t.Fatal("render called on no-op atlas")
				return nil, nil
			})
			assert.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, Tile{}, tile)
		}
	}

	p.Remove(glyph(1))
	p.Clear()
	assert.NoError(t, p.BeforeFrame())
}

func TestIsNoop(t *testing.T) {
	assert.True(t, IsNoop(NoopAtlas{}))
	assert.True(t, IsNoop(&NoopAtlas{}))
	a, _ := newTestAtlas(t, DefaultConfig(), 2048)
	assert.False(t, IsNoop(a))
	assert.False(t, IsNoop(nil))
}
