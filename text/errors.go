package text

import "errors"

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrFontNotFound is returned for an unknown family or font id.
	ErrFontNotFound = errors.New("text: font not found")

	// ErrGlyphNotFound is returned when a glyph id is outside the font.
	ErrGlyphNotFound = errors.New("text: glyph not found")

	// ErrInvalidParams is returned for a non-positive font size or scale.
	ErrInvalidParams = errors.New("text: invalid glyph parameters")

	// ErrCapabilityUnsupported is returned when a text system lacks an
	// optional capability such as loading fonts by URL.
	ErrCapabilityUnsupported = errors.New("text: capability not supported by this text system")
)
