// Package atlas packs rasterized glyphs, images and path masks into GPU
// texture pages.
//
// A [TileProvider] maps a content [Key] to a [Tile], a sub-rectangle of a
// texture page. The GPU-backed [Atlas] creates pages on demand through a
// [backend.Device]; [NoopAtlas] answers every request with "nothing to draw"
// and stands in while no device exists yet:
//
//	tile, ok, err := provider.GetOrInsert(key, atlas.Size{Width: 16, Height: 16}, render)
//	switch {
//	case err != nil:
//		// allocation failed: skip the sprite this frame
//	case !ok:
//		// nothing to draw yet
//	default:
//		// draw tile.Bounds from page tile.TextureID
//	}
//
// Pages of each [TextureKind] live in a [TextureList]. Released page indices
// are reused lowest first before the list grows, which bounds GPU memory
// under steady churn. [Atlas.Clear] resets every list so the next page gets
// index 0 again.
//
// Pixel data is copied to the device in [Atlas.BeforeFrame], which the frame
// driver calls once per frame before drawing.
package atlas
