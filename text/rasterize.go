package text

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// outline loads the glyph outline at the device size of params, shifted
// by its subpixel offset. Coordinates are in device pixels, y down.
func (s *FontSystem) outline(params RenderGlyphParams) (sfnt.Segments, float32, error) {
	if !params.valid() {
		return nil, 0, fmt.Errorf("%w: size %v scale %v subpixel %d",
			ErrInvalidParams, params.FontSize, params.ScaleFactor, params.SubpixelX)
	}
	f, err := s.font(params.FontID)
	if err != nil {
		return nil, 0, err
	}
	if int(params.GlyphID) >= f.sfnt.NumGlyphs() {
		return nil, 0, fmt.Errorf("%w: glyph %d in font %d", ErrGlyphNotFound, params.GlyphID, params.FontID)
	}

	buf := s.buffers.Get().(*sfnt.Buffer)
	defer s.buffers.Put(buf)

	ppem := fixed.Int26_6(math.Round(params.DevicePPEM() * 64))
	segs, err := f.sfnt.LoadGlyph(buf, sfnt.GlyphIndex(params.GlyphID), ppem, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("text: load glyph %d: %w", params.GlyphID, err)
	}
	// LoadGlyph reuses buf's storage.
	out := make(sfnt.Segments, len(segs))
	copy(out, segs)
	return out, float32(params.SubpixelX) / SubpixelVariants, nil
}

func outlineBounds(segs sfnt.Segments, dx float32) image.Rectangle {
	if len(segs) == 0 {
		return image.Rectangle{}
	}
	b := segs.Bounds()
	return image.Rect(
		int(math.Floor(float64(fixedToFloat(b.Min.X)+dx))),
		b.Min.Y.Floor(),
		int(math.Ceil(float64(fixedToFloat(b.Max.X)+dx))),
		b.Max.Y.Ceil(),
	)
}

// RasterBounds implements TextSystem. Glyphs without an outline, such as
// space, have empty bounds.
func (s *FontSystem) RasterBounds(params RenderGlyphParams) (image.Rectangle, error) {
	segs, dx, err := s.outline(params)
	if err != nil {
		return image.Rectangle{}, err
	}
	return outlineBounds(segs, dx), nil
}

// RasterizeGlyph implements TextSystem.
func (s *FontSystem) RasterizeGlyph(params RenderGlyphParams) (image.Rectangle, []byte, error) {
	segs, dx, err := s.outline(params)
	if err != nil {
		return image.Rectangle{}, nil, err
	}
	bounds := outlineBounds(segs, dx)
	if bounds.Empty() {
		return bounds, nil, nil
	}

	w, h := bounds.Dx(), bounds.Dy()
	ox := dx - float32(bounds.Min.X)
	oy := -float32(bounds.Min.Y)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return fixedToFloat(p.X) + ox, fixedToFloat(p.Y) + oy
	}

	r := vector.NewRasterizer(w, h)
	r.DrawOp = draw.Src
	for i, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if i > 0 {
				r.ClosePath()
			}
			r.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			r.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			r.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			ex, ey := pt(seg.Args[2])
			r.CubeTo(bx, by, cx, cy, ex, ey)
		}
	}
	r.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return bounds, mask.Pix, nil
}

// metrics returns the ascent and descent of a font at ppem pixels.
func (s *FontSystem) metrics(f *loadedFont, ppem float64) (ascent, descent float32) {
	buf := s.buffers.Get().(*sfnt.Buffer)
	defer s.buffers.Put(buf)

	m, err := f.sfnt.Metrics(buf, fixed.Int26_6(math.Round(ppem*64)), font.HintingNone)
	if err != nil {
		return 0, 0
	}
	return fixedToFloat(m.Ascent), fixedToFloat(m.Descent)
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

func floatToFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(float64(v) * 64))
}
