package text

import (
	"image"

	"github.com/gogpu/ggweb/atlas"
)

// GlyphTile returns the atlas tile of a glyph, rasterizing it through ts
// on a miss. The returned rectangle places the tile relative to the pen
// position in device pixels. Glyphs with nothing to draw report ok false.
func GlyphTile(p atlas.TileProvider, ts TextSystem, params RenderGlyphParams) (atlas.Tile, image.Rectangle, bool, error) {
	bounds, err := ts.RasterBounds(params)
	if err != nil {
		return atlas.Tile{}, image.Rectangle{}, false, err
	}
	if bounds.Empty() {
		return atlas.Tile{}, bounds, false, nil
	}
	size := atlas.Size{Width: uint32(bounds.Dx()), Height: uint32(bounds.Dy())}
	tile, ok, err := p.GetOrInsert(params.Key(), size, func() ([]byte, error) {
		_, mask, err := ts.RasterizeGlyph(params)
		return mask, err
	})
	return tile, bounds, ok, err
}
