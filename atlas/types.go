package atlas

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// TextureKind selects the texture pages a tile is packed into.
type TextureKind uint8

const (
	// Monochrome holds single-channel coverage masks such as glyphs.
	Monochrome TextureKind = iota
	// Polychrome holds color content such as images and emoji.
	Polychrome
	// PathMask holds rasterized path coverage.
	PathMask

	kindCount
)

// Kinds returns every texture kind in index order.
func Kinds() []TextureKind {
	return []TextureKind{Monochrome, Polychrome, PathMask}
}

// Valid reports whether k is one of Kinds.
func (k TextureKind) Valid() bool {
	return k < kindCount
}

// Format returns the GPU texel format of pages of this kind.
func (k TextureKind) Format() gputypes.TextureFormat {
	switch k {
	case Polychrome:
		return gputypes.TextureFormatBGRA8Unorm
	default:
		return gputypes.TextureFormatR8Unorm
	}
}

// BytesPerPixel returns the texel size of pages of this kind.
func (k TextureKind) BytesPerPixel() int {
	if k == Polychrome {
		return 4
	}
	return 1
}

func (k TextureKind) String() string {
	switch k {
	case Monochrome:
		return "monochrome"
	case Polychrome:
		return "polychrome"
	case PathMask:
		return "path"
	default:
		return fmt.Sprintf("TextureKind(%d)", uint8(k))
	}
}

// TextureID identifies one texture page. It never changes once allocated,
// although the index may be reused after the page is released.
type TextureID struct {
	Index uint32
	Kind  TextureKind
}

func (id TextureID) String() string {
	return fmt.Sprintf("%s#%d", id.Kind, id.Index)
}

// Point is a position in device pixels.
type Point struct {
	X, Y uint32
}

// Size is an extent in device pixels.
type Size struct {
	Width, Height uint32
}

// Empty reports whether either dimension is zero.
func (s Size) Empty() bool {
	return s.Width == 0 || s.Height == 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Bounds is a rectangle in device pixels.
type Bounds struct {
	Origin Point
	Size   Size
}

// Max returns the exclusive bottom-right corner.
func (b Bounds) Max() Point {
	return Point{X: b.Origin.X + b.Size.Width, Y: b.Origin.Y + b.Size.Height}
}

// Contains reports whether o lies fully inside b.
func (b Bounds) Contains(o Bounds) bool {
	bm, om := b.Max(), o.Max()
	return o.Origin.X >= b.Origin.X && o.Origin.Y >= b.Origin.Y && om.X <= bm.X && om.Y <= bm.Y
}

// Intersects reports whether b and o overlap.
func (b Bounds) Intersects(o Bounds) bool {
	bm, om := b.Max(), o.Max()
	return b.Origin.X < om.X && o.Origin.X < bm.X && b.Origin.Y < om.Y && o.Origin.Y < bm.Y
}

func (b Bounds) String() string {
	return fmt.Sprintf("(%d,%d %s)", b.Origin.X, b.Origin.Y, b.Size)
}

// Tile is a leased sub-rectangle inside a texture page.
// A Tile is invalid once its page is released or the atlas is cleared.
type Tile struct {
	TextureID TextureID
	// TileID is unique within the owning page.
	TileID  uint32
	Padding uint32
	Bounds  Bounds
}

// Key identifies rasterized content. Implementations must be comparable.
type Key interface {
	TextureKind() TextureKind
}

// GlyphKey identifies a rasterized glyph.
type GlyphKey struct {
	FontID  uint64
	GlyphID uint32
	// FontSize in 1/64 pixel units.
	FontSize int32
	// ScaleFactor in 1/100 units, so 2.0 is 200.
	ScaleFactor int32
	// SubpixelX selects one of the horizontal subpixel variants.
	SubpixelX uint8
	// Color glyphs (emoji) live in polychrome pages.
	Color bool
}

// TextureKind implements Key.
func (k GlyphKey) TextureKind() TextureKind {
	if k.Color {
		return Polychrome
	}
	return Monochrome
}

// ImageKey identifies one frame of a decoded image.
type ImageKey struct {
	ImageID uint64
	Frame   uint32
}

// TextureKind implements Key.
func (ImageKey) TextureKind() TextureKind {
	return Polychrome
}

// PathKey identifies a rasterized path mask.
type PathKey struct {
	PathID uint64
	Size   Size
}

// TextureKind implements Key.
func (PathKey) TextureKind() TextureKind {
	return PathMask
}

// RenderFunc produces the pixels of a tile on a cache miss. The returned
// bytes are row-major, tightly packed, in the format of the key's texture
// kind. Returning nil bytes and a nil error means there is nothing to draw.
type RenderFunc func() ([]byte, error)

// TileProvider locates rasterized content inside GPU texture pages.
type TileProvider interface {
	// GetOrInsert returns the tile cached for key, rasterizing it with
	// render on a miss. ok is false when there is nothing to draw, which
	// is not an error.
	GetOrInsert(key Key, size Size, render RenderFunc) (tile Tile, ok bool, err error)

	// Remove releases the tile cached for key, if any.
	Remove(key Key)

	// Clear releases all tiles and pages.
	Clear()

	// BeforeFrame flushes pending uploads. The frame driver calls it once
	// before each draw.
	BeforeFrame() error
}
