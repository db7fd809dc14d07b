package text

import (
	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	tslang "github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
)

// LayoutLine implements TextSystem. Text is shaped left to right as one
// run in the script of its first non-space rune. An unknown font or
// empty text gives a layout without glyphs.
func (s *FontSystem) LayoutLine(text string, fontSize float32, id FontID) LineLayout {
	layout := LineLayout{FontID: id, FontSize: fontSize}
	if text == "" || fontSize <= 0 {
		return layout
	}
	f, err := s.font(id)
	if err != nil {
		return layout
	}
	layout.Ascent, layout.Descent = s.metrics(f, float64(fontSize))

	runes := []rune(text)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gotext.NewFace(f.shaper),
		Size:      floatToFixed(fontSize),
		Script:    detectScript(runes),
		Language:  tslang.NewLanguage(s.locale.String()),
	}

	hb := s.shapers.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	s.shapers.Put(hb)

	// TextIndex is a rune index; the layout reports byte offsets.
	byteOffsets := make([]int, 0, len(runes)+1)
	for i := range text {
		byteOffsets = append(byteOffsets, i)
	}
	byteOffsets = append(byteOffsets, len(text))

	layout.Glyphs = make([]ShapedGlyph, 0, len(out.Glyphs))
	var x float32
	for _, g := range out.Glyphs {
		adv := fixedToFloat(g.Advance)
		idx := g.TextIndex()
		if idx < 0 || idx >= len(byteOffsets) {
			idx = len(byteOffsets) - 1
		}
		layout.Glyphs = append(layout.Glyphs, ShapedGlyph{
			GlyphID: GlyphID(g.GlyphID),
			X:       x + fixedToFloat(g.XOffset),
			Y:       fixedToFloat(g.YOffset),
			Advance: adv,
			Index:   byteOffsets[idx],
		})
		x += adv
	}
	layout.Width = x
	return layout
}

func detectScript(runes []rune) tslang.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return tslang.LookupScript(r)
	}
	return tslang.Latin
}
