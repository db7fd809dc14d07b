package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutLine(t *testing.T) {
	fs, id := newTestFonts(t)

	line := fs.LayoutLine("Hello", 16, id)
	require.Len(t, line.Glyphs, 5)
	assert.Equal(t, id, line.FontID)
	assert.Greater(t, line.Width, float32(0))
	assert.Greater(t, line.Ascent, float32(0))

	var sum float32
	for i, g := range line.Glyphs {
		assert.Equal(t, i, g.Index)
		assert.InDelta(t, sum, g.X, 0.01)
		sum += g.Advance
	}
	assert.InDelta(t, sum, line.Width, 0.01)

	h, ok := fs.GlyphForRune(id, 'H')
	require.True(t, ok)
	assert.Equal(t, h, line.Glyphs[0].GlyphID)
}

func TestLayoutLineByteOffsets(t *testing.T) {
	fs, id := newTestFonts(t)

	line := fs.LayoutLine("añb", 16, id)
	require.Len(t, line.Glyphs, 3)
	assert.Equal(t, 0, line.Glyphs[0].Index)
	assert.Equal(t, 1, line.Glyphs[1].Index)
	assert.Equal(t, 3, line.Glyphs[2].Index)
}

func TestLayoutLineScalesWithSize(t *testing.T) {
	fs, id := newTestFonts(t)

	small := fs.LayoutLine("width", 10, id)
	large := fs.LayoutLine("width", 20, id)
	assert.InDelta(t, 2*small.Width, large.Width, 0.5)
}

func TestLayoutLineEmpty(t *testing.T) {
	fs, id := newTestFonts(t)

	assert.Empty(t, fs.LayoutLine("", 16, id).Glyphs)
	assert.Empty(t, fs.LayoutLine("x", 0, id).Glyphs)
	assert.Empty(t, fs.LayoutLine("x", 16, 99).Glyphs)
}
