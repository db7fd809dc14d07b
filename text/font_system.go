package text

import (
	"bytes"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/language"

	"github.com/gogpu/ggweb"
	"github.com/gogpu/ggweb/internal/parallel"
)

// loadedFont is one registered font. The x/image font rasterizes, the
// go-text font shapes; both are read-only and safe for concurrent use.
type loadedFont struct {
	id     FontID
	family string
	sfnt   *opentype.Font
	shaper *gotext.Font
}

// FontSystem is the TextSystem shared by native and web hosts. Parsing
// and rasterization use golang.org/x/image, shaping uses go-text's
// HarfBuzz port.
//
// FontSystem is safe for concurrent use.
type FontSystem struct {
	mu       sync.RWMutex
	fonts    []*loadedFont
	byFamily map[string]FontID
	locale   language.Tag

	// sfnt.Buffer and HarfbuzzShaper are not safe for concurrent use.
	buffers sync.Pool
	shapers sync.Pool
}

// NewFontSystem creates an empty font system for locale.
func NewFontSystem(locale language.Tag) *FontSystem {
	return &FontSystem{
		byFamily: make(map[string]FontID),
		locale:   locale,
		buffers:  sync.Pool{New: func() any { return new(sfnt.Buffer) }},
		shapers:  sync.Pool{New: func() any { return new(shaping.HarfbuzzShaper) }},
	}
}

// Locale implements TextSystem.
func (s *FontSystem) Locale() language.Tag {
	return s.locale
}

// AddFonts implements TextSystem. All fonts are parsed before any is
// registered, so a bad font leaves the system unchanged.
func (s *FontSystem) AddFonts(fonts [][]byte) error {
	parsed, err := parseFonts(fonts)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range parsed {
		f.id = FontID(len(s.fonts))
		s.fonts = append(s.fonts, f)
		// A later font with the same family replaces the earlier one.
		s.byFamily[strings.ToLower(f.family)] = f.id
		ggweb.Logger().Debug("text: font registered", "family", f.family, "id", f.id)
	}
	return nil
}

// parseFonts parses a batch of fonts, several at a time when there is
// more than one.
func parseFonts(fonts [][]byte) ([]*loadedFont, error) {
	parsed := make([]*loadedFont, len(fonts))
	if len(fonts) == 1 {
		f, err := parseFont(fonts[0])
		if err != nil {
			return nil, fmt.Errorf("text: font 0: %w", err)
		}
		parsed[0] = f
		return parsed, nil
	}

	pool := parallel.NewPool(min(len(fonts), runtime.GOMAXPROCS(0)))
	defer pool.Close()

	tasks := make([]func() error, len(fonts))
	for i, data := range fonts {
		tasks[i] = func() error {
			f, err := parseFont(data)
			parsed[i] = f
			return err
		}
	}
	errs, _ := pool.Run(tasks)
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("text: font %d: %w", i, err)
		}
	}
	return parsed, nil
}

func parseFont(data []byte) (*loadedFont, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	data = bytes.Clone(data)

	sf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse for shaping: %w", err)
	}

	family, err := sf.Name(nil, sfnt.NameIDFamily)
	if err != nil || family == "" {
		family = "Unknown"
	}
	return &loadedFont{family: family, sfnt: sf, shaper: face.Font}, nil
}

// AllFontNames implements TextSystem.
func (s *FontSystem) AllFontNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool, len(s.fonts))
	names := make([]string, 0, len(s.fonts))
	for _, f := range s.fonts {
		if !seen[f.family] {
			seen[f.family] = true
			names = append(names, f.family)
		}
	}
	sort.Strings(names)
	return names
}

// FontID implements TextSystem. Family names match case-insensitively.
func (s *FontSystem) FontID(family string) (FontID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byFamily[strings.ToLower(family)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrFontNotFound, family)
	}
	return id, nil
}

func (s *FontSystem) font(id FontID) (*loadedFont, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if int(id) >= len(s.fonts) {
		return nil, fmt.Errorf("%w: id %d", ErrFontNotFound, id)
	}
	return s.fonts[id], nil
}

// GlyphForRune implements TextSystem.
func (s *FontSystem) GlyphForRune(id FontID, r rune) (GlyphID, bool) {
	f, err := s.font(id)
	if err != nil {
		return 0, false
	}
	buf := s.buffers.Get().(*sfnt.Buffer)
	defer s.buffers.Put(buf)

	gi, err := f.sfnt.GlyphIndex(buf, r)
	if err != nil || gi == 0 {
		return 0, false
	}
	return GlyphID(gi), true
}

// Len returns the number of registered fonts.
func (s *FontSystem) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fonts)
}

var _ TextSystem = (*FontSystem)(nil)
