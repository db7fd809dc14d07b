package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/gogpu/ggweb/atlas"
	"github.com/gogpu/ggweb/text"
)

func TestDrawContextSkipsOnNoop(t *testing.T) {
	dc := newDrawContext(atlas.NoopAtlas{}, epoch, Size{10, 10}, 1)
	size := atlas.Size{Width: 4, Height: 4}

	ok := dc.DrawSprite(atlas.ImageKey{ImageID: 1}, size, atlas.Point{}, [4]uint8{}, coverage(size, 1))
	assert.False(t, ok)
	assert.Equal(t, 1, dc.Skipped())
	assert.Empty(t, dc.Sprites())
}

func TestDrawContextAccessors(t *testing.T) {
	now := epoch.Add(time.Second)
	dc := newDrawContext(atlas.NoopAtlas{}, now, Size{10, 20}, 2)
	assert.Equal(t, now, dc.Now())
	assert.Equal(t, Size{10, 20}, dc.Size())
	assert.Equal(t, float32(2), dc.ScaleFactor())
	assert.True(t, atlas.IsNoop(dc.Atlas()))
}

func TestDrawText(t *testing.T) {
	ts, err := text.NewNativeFontSystem(language.English)
	require.NoError(t, err)
	id, err := ts.FontID(text.DefaultFamily)
	require.NoError(t, err)

	a, _ := newTestRenderer(t)
	dc := newDrawContext(a, epoch, Size{200, 50}, 2)

	line := ts.LayoutLine("Hi there", 14, id)
	drawn := dc.DrawText(ts, line, 4, 30, [4]uint8{0, 0, 0, 255})

	// The space has no outline.
	assert.Equal(t, 7, drawn)
	assert.Zero(t, dc.Skipped())
	require.Len(t, dc.Sprites(), 7)
	for _, s := range dc.Sprites() {
		assert.Equal(t, atlas.Monochrome, s.Tile.TextureID.Kind)
	}
	assert.Less(t, dc.Sprites()[0].Origin.X, dc.Sprites()[1].Origin.X)
	assert.GreaterOrEqual(t, a.Stats().Tiles, 6)
}
