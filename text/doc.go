// Package text is the font collaborator of the platform: a font registry,
// glyph rasterization into 8-bit coverage masks for the sprite atlas, and
// single-line shaping.
//
// FontSystem parses fonts with golang.org/x/image/font/opentype and
// rasterizes outlines with golang.org/x/image/vector. Shaping goes
// through the HarfBuzz port of github.com/go-text/typesetting.
//
// Two text systems are provided:
//
//   - NewNativeFontSystem, for desktop hosts; fonts come from files.
//   - NewWebFontSystem, for the browser; it can also fetch fonts by URL.
//
// Loading by URL is an optional capability. Callers query it instead of
// assuming it:
//
//	if text.SupportsURLFonts(ts) {
//	    err := text.LoadFontFromURL(ctx, ts, "/fonts/Inter.ttf")
//	}
//
// GlyphTile connects a text system to an atlas.TileProvider:
//
//	tile, rect, ok, err := text.GlyphTile(provider, ts, params)
package text
