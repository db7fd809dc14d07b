package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/language"
)

func newTestFonts(t *testing.T) (*FontSystem, FontID) {
	t.Helper()
	fs, err := NewNativeFontSystem(language.English)
	require.NoError(t, err)
	id, err := fs.FontID(DefaultFamily)
	require.NoError(t, err)
	return fs, id
}

func glyphParams(t *testing.T, fs *FontSystem, id FontID, r rune) RenderGlyphParams {
	t.Helper()
	g, ok := fs.GlyphForRune(id, r)
	require.True(t, ok, "glyph for %q", r)
	return RenderGlyphParams{FontID: id, GlyphID: g, FontSize: 16, ScaleFactor: 1}
}

func TestFontRegistry(t *testing.T) {
	fs, id := newTestFonts(t)
	assert.Equal(t, FontID(0), id)
	assert.Equal(t, []string{"Go"}, fs.AllFontNames())

	lower, err := fs.FontID("go")
	require.NoError(t, err)
	assert.Equal(t, id, lower)

	_, err = fs.FontID("Helvetica")
	assert.ErrorIs(t, err, ErrFontNotFound)
}

func TestAddFontsIsAllOrNothing(t *testing.T) {
	fs, _ := newTestFonts(t)

	err := fs.AddFonts([][]byte{gobold.TTF, nil})
	assert.ErrorIs(t, err, ErrEmptyFontData)
	assert.Equal(t, 1, fs.Len())

	err = fs.AddFonts([][]byte{[]byte("not a font")})
	assert.Error(t, err)
	assert.Equal(t, 1, fs.Len())
}

func TestAddFontsBatchKeepsOrder(t *testing.T) {
	fs, _ := newTestFonts(t)
	require.NoError(t, fs.AddFonts([][]byte{gobold.TTF, gomono.TTF}))

	mono, err := fs.FontID("Go Mono")
	require.NoError(t, err)
	assert.Equal(t, FontID(2), mono)
	assert.Equal(t, 3, fs.Len())
}

func TestAddFontsSameFamilyReplaces(t *testing.T) {
	fs, _ := newTestFonts(t)
	require.NoError(t, fs.AddFonts([][]byte{goregular.TTF}))

	id, err := fs.FontID(DefaultFamily)
	require.NoError(t, err)
	assert.Equal(t, FontID(1), id)
	assert.Equal(t, []string{"Go"}, fs.AllFontNames())
}

func TestGlyphForRune(t *testing.T) {
	fs, id := newTestFonts(t)

	g, ok := fs.GlyphForRune(id, 'A')
	assert.True(t, ok)
	assert.NotZero(t, g)

	_, ok = fs.GlyphForRune(id, '\U0001F600')
	assert.False(t, ok)

	_, ok = fs.GlyphForRune(42, 'A')
	assert.False(t, ok)
}

func TestRasterizeGlyph(t *testing.T) {
	fs, id := newTestFonts(t)
	params := glyphParams(t, fs, id, 'A')

	bounds, err := fs.RasterBounds(params)
	require.NoError(t, err)
	require.False(t, bounds.Empty())
	assert.LessOrEqual(t, bounds.Dx(), 16)
	assert.Less(t, bounds.Min.Y, 0, "glyph sits above the baseline")

	rect, mask, err := fs.RasterizeGlyph(params)
	require.NoError(t, err)
	assert.Equal(t, bounds, rect)
	require.Len(t, mask, bounds.Dx()*bounds.Dy())

	covered := 0
	for _, v := range mask {
		if v > 0 {
			covered++
		}
	}
	assert.Greater(t, covered, 0)
	assert.Less(t, covered, len(mask))
}

func TestRasterizeScalesWithDevicePixels(t *testing.T) {
	fs, id := newTestFonts(t)
	params := glyphParams(t, fs, id, 'M')

	one, err := fs.RasterBounds(params)
	require.NoError(t, err)
	params.ScaleFactor = 2
	two, err := fs.RasterBounds(params)
	require.NoError(t, err)

	assert.InDelta(t, 2*one.Dy(), two.Dy(), 2)
}

func TestRasterizeSpaceIsEmpty(t *testing.T) {
	fs, id := newTestFonts(t)
	params := glyphParams(t, fs, id, ' ')

	rect, mask, err := fs.RasterizeGlyph(params)
	require.NoError(t, err)
	assert.True(t, rect.Empty())
	assert.Nil(t, mask)
}

func TestRasterizeRejectsBadParams(t *testing.T) {
	fs, id := newTestFonts(t)
	params := glyphParams(t, fs, id, 'A')

	bad := params
	bad.FontSize = 0
	_, err := fs.RasterBounds(bad)
	assert.ErrorIs(t, err, ErrInvalidParams)

	bad = params
	bad.SubpixelX = SubpixelVariants
	_, _, err = fs.RasterizeGlyph(bad)
	assert.ErrorIs(t, err, ErrInvalidParams)

	bad = params
	bad.GlyphID = 1 << 20
	_, err = fs.RasterBounds(bad)
	assert.ErrorIs(t, err, ErrGlyphNotFound)

	bad = params
	bad.FontID = 9
	_, err = fs.RasterBounds(bad)
	assert.ErrorIs(t, err, ErrFontNotFound)
}

func TestRenderGlyphParamsKey(t *testing.T) {
	p := RenderGlyphParams{FontID: 3, GlyphID: 7, FontSize: 16, ScaleFactor: 1.5, SubpixelX: 2}
	k := p.Key()
	assert.Equal(t, uint64(3), k.FontID)
	assert.Equal(t, uint32(7), k.GlyphID)
	assert.Equal(t, int32(16*64), k.FontSize)
	assert.Equal(t, int32(150), k.ScaleFactor)
	assert.Equal(t, uint8(2), k.SubpixelX)

	q := p
	q.SubpixelX = 1
	assert.NotEqual(t, k, q.Key())
	assert.InDelta(t, 24.0, p.DevicePPEM(), 1e-9)
}
