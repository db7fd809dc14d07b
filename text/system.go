package text

import (
	"context"
	"image"
	"math"

	"github.com/gogpu/ggweb/atlas"
	"golang.org/x/text/language"
)

// FontID identifies a registered font within one text system.
type FontID uint32

// GlyphID is a glyph index within a font.
type GlyphID uint32

// SubpixelVariants is the number of horizontal subpixel positions glyphs
// are rasterized at.
const SubpixelVariants = 4

// RenderGlyphParams selects one rasterization of a glyph.
type RenderGlyphParams struct {
	FontID  FontID
	GlyphID GlyphID
	// FontSize in logical pixels.
	FontSize float32
	// ScaleFactor is the device pixel ratio.
	ScaleFactor float32
	// SubpixelX is the horizontal subpixel variant, below SubpixelVariants.
	SubpixelX uint8
}

// Key returns the atlas key of the rasterization.
func (p RenderGlyphParams) Key() atlas.GlyphKey {
	return atlas.GlyphKey{
		FontID:      uint64(p.FontID),
		GlyphID:     uint32(p.GlyphID),
		FontSize:    int32(math.Round(float64(p.FontSize) * 64)),
		ScaleFactor: int32(math.Round(float64(p.ScaleFactor) * 100)),
		SubpixelX:   p.SubpixelX,
	}
}

// DevicePPEM returns the size in device pixels per em.
func (p RenderGlyphParams) DevicePPEM() float64 {
	return float64(p.FontSize) * float64(p.ScaleFactor)
}

func (p RenderGlyphParams) valid() bool {
	return p.FontSize > 0 && p.ScaleFactor > 0 && p.SubpixelX < SubpixelVariants
}

// ShapedGlyph is a positioned glyph of a laid out line.
type ShapedGlyph struct {
	GlyphID GlyphID
	// X is the pen position in logical pixels, offsets applied.
	X float32
	// Y is the vertical offset from the baseline.
	Y float32
	// Advance is the horizontal advance in logical pixels.
	Advance float32
	// Index is the byte offset of the glyph's cluster in the text.
	Index int
}

// LineLayout is a shaped single line of text.
type LineLayout struct {
	FontID   FontID
	FontSize float32
	Width    float32
	Ascent   float32
	Descent  float32
	Glyphs   []ShapedGlyph
}

// TextSystem is the font collaborator of the platform: font registry,
// glyph lookup, rasterization for the atlas and line layout.
type TextSystem interface {
	// AddFonts registers fonts from TTF/OTF data.
	AddFonts(fonts [][]byte) error

	// AllFontNames returns the registered family names, sorted.
	AllFontNames() []string

	// FontID resolves a family name.
	FontID(family string) (FontID, error)

	// GlyphForRune returns the glyph of r, false when the font lacks it.
	GlyphForRune(id FontID, r rune) (GlyphID, bool)

	// RasterBounds returns the device-pixel bounds of the glyph mask,
	// relative to the pen position on the baseline.
	RasterBounds(params RenderGlyphParams) (image.Rectangle, error)

	// RasterizeGlyph renders the glyph as an 8-bit coverage mask of
	// RasterBounds size, row-major and tightly packed.
	RasterizeGlyph(params RenderGlyphParams) (image.Rectangle, []byte, error)

	// LayoutLine shapes text in a single font.
	LayoutLine(text string, fontSize float32, id FontID) LineLayout

	// Locale returns the user's locale.
	Locale() language.Tag
}

// URLFontLoader is the optional capability of text systems that can
// fetch fonts over the network. Only the web text system has it.
type URLFontLoader interface {
	LoadFontFromURL(ctx context.Context, url string) error
}

// SupportsURLFonts reports whether ts can load fonts by URL.
func SupportsURLFonts(ts TextSystem) bool {
	_, ok := ts.(URLFontLoader)
	return ok
}

// LoadFontFromURL fetches and registers a font through ts, returning
// ErrCapabilityUnsupported when ts cannot load fonts by URL.
func LoadFontFromURL(ctx context.Context, ts TextSystem, url string) error {
	l, ok := ts.(URLFontLoader)
	if !ok {
		return ErrCapabilityUnsupported
	}
	return l.LoadFontFromURL(ctx, url)
}
