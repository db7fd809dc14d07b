package platform

import (
	"math"
	"time"

	"github.com/gogpu/ggweb"
	"github.com/gogpu/ggweb/atlas"
	"github.com/gogpu/ggweb/text"
)

// SpriteInstance places one atlas tile on screen.
type SpriteInstance struct {
	Tile atlas.Tile
	// Origin is the top-left corner in device pixels.
	Origin atlas.Point
	// Color modulates monochrome tiles, as straight RGBA.
	Color [4]uint8
}

// DrawContext is handed to View.Draw for one frame. Sprites go through
// the window's active atlas; a sprite whose tile is not available this
// frame is skipped. Skips caused by transient allocation failures make
// the driver draw again on the next frame.
type DrawContext struct {
	atlas   atlas.TileProvider
	now     time.Time
	size    Size
	scale   float32
	sprites []SpriteInstance
	skipped int
	retries int
}

func newDrawContext(p atlas.TileProvider, now time.Time, size Size, scale float32) *DrawContext {
	return &DrawContext{atlas: p, now: now, size: size, scale: scale}
}

// Now returns the frame timestamp.
func (dc *DrawContext) Now() time.Time { return dc.now }

// Size returns the logical window size.
func (dc *DrawContext) Size() Size { return dc.size }

// ScaleFactor returns the device pixel ratio.
func (dc *DrawContext) ScaleFactor() float32 { return dc.scale }

// Atlas returns the atlas tiles are allocated from.
func (dc *DrawContext) Atlas() atlas.TileProvider { return dc.atlas }

// Tile looks up or rasterizes the tile for key. It reports false when
// there is nothing to draw this frame, including allocation failures,
// which are logged and counted as skipped.
func (dc *DrawContext) Tile(key atlas.Key, size atlas.Size, render atlas.RenderFunc) (atlas.Tile, bool) {
	tile, ok, err := dc.atlas.GetOrInsert(key, size, render)
	if err != nil {
		dc.skip(err)
		ggweb.Logger().Debug("platform: sprite skipped", "size", size.String(), "err", err)
		return atlas.Tile{}, false
	}
	if !ok {
		dc.skipped++
		return atlas.Tile{}, false
	}
	return tile, true
}

// DrawSprite places the tile for key at origin. It reports whether the
// sprite was drawn.
func (dc *DrawContext) DrawSprite(key atlas.Key, size atlas.Size, origin atlas.Point, color [4]uint8, render atlas.RenderFunc) bool {
	tile, ok := dc.Tile(key, size, render)
	if !ok {
		return false
	}
	dc.sprites = append(dc.sprites, SpriteInstance{Tile: tile, Origin: origin, Color: color})
	return true
}

// Sprites returns the sprites placed so far.
func (dc *DrawContext) Sprites() []SpriteInstance { return dc.sprites }

// Skipped returns the number of sprites without a tile this frame.
func (dc *DrawContext) Skipped() int { return dc.skipped }

// Retries returns the number of skipped sprites that may draw on a later
// frame.
func (dc *DrawContext) Retries() int { return dc.retries }

func (dc *DrawContext) skip(err error) {
	dc.skipped++
	if atlas.IsTransient(err) {
		dc.retries++
	}
}

// DrawText places the glyphs of line with the pen starting at (x, y) on
// the baseline, in logical pixels. Glyphs with no outline and glyphs left
// of or above the surface are not drawn and not counted as skipped. It
// returns the number of sprites drawn.
func (dc *DrawContext) DrawText(ts text.TextSystem, line text.LineLayout, x, y float32, color [4]uint8) int {
	drawn := 0
	baseline := int(math.Round(float64(y * dc.scale)))
	for _, g := range line.Glyphs {
		penX := float64((x + g.X) * dc.scale)
		whole := math.Floor(penX)
		params := text.RenderGlyphParams{
			FontID:      line.FontID,
			GlyphID:     g.GlyphID,
			FontSize:    line.FontSize,
			ScaleFactor: dc.scale,
			SubpixelX:   uint8((penX - whole) * text.SubpixelVariants),
		}
		tile, rect, ok, err := text.GlyphTile(dc.atlas, ts, params)
		if err == nil && !ok && rect.Empty() {
			continue
		}
		if err != nil || !ok {
			dc.skip(err)
			ggweb.Logger().Debug("platform: glyph skipped", "glyph", g.GlyphID, "err", err)
			continue
		}
		ox := int(whole) + rect.Min.X
		oy := baseline - int(math.Round(float64(g.Y*dc.scale))) + rect.Min.Y
		if ox < 0 || oy < 0 {
			continue
		}
		dc.sprites = append(dc.sprites, SpriteInstance{
			Tile:   tile,
			Origin: atlas.Point{X: uint32(ox), Y: uint32(oy)},
			Color:  color,
		})
		drawn++
	}
	return drawn
}
