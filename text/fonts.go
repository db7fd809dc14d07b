package text

import (
	"fmt"
	"os"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/language"
)

// DefaultFamily is the family registered by the default text systems.
const DefaultFamily = "Go"

func newDefaultFontSystem(locale language.Tag) (*FontSystem, error) {
	fs := NewFontSystem(locale)
	if err := fs.AddFonts([][]byte{goregular.TTF}); err != nil {
		return nil, fmt.Errorf("text: default font: %w", err)
	}
	return fs, nil
}

// NewNativeFontSystem creates the desktop text system with the Go Regular
// font registered. It has no URL loading capability.
func NewNativeFontSystem(locale language.Tag) (*FontSystem, error) {
	return newDefaultFontSystem(locale)
}

// LoadFontFile reads and registers a font file.
func (s *FontSystem) LoadFontFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("text: read font: %w", err)
	}
	if err := s.AddFonts([][]byte{data}); err != nil {
		return fmt.Errorf("text: font %s: %w", path, err)
	}
	return nil
}
