package fontsource

import (
	"bytes"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"sync"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/vector"

	"github.com/gogpu/textatlas"
)

// Sentinel errors for the fontsource package.
var (
	// ErrEmptyFont is returned when font data is empty.
	ErrEmptyFont = errors.New("fontsource: empty font data")

	// ErrUnknownFont is returned when a key references an unregistered font.
	ErrUnknownFont = errors.New("fontsource: font not registered")

	// ErrNotGlyphKey is returned when a custom key reaches the font source.
	ErrNotGlyphKey = errors.New("fontsource: key does not identify a font glyph")
)

var _ textatlas.RasterSource = (*Source)(nil)

// Source rasterizes glyphs from registered fonts.
//
// Registration is safe for concurrent use. Measure and Rasterize share the
// atlas contract: they are driven by the single goroutine preparing a
// frame.
type Source struct {
	subpixelX textatlas.SubpixelMode
	subpixelY textatlas.SubpixelMode

	mu    sync.RWMutex
	fonts map[textatlas.FontID]*font.Face

	rast vector.Rasterizer
}

// Option configures a Source.
type Option func(*Source)

// WithSubpixel sets the subpixel positioning modes used to turn key bins
// back into fractional offsets. They must match the modes the caller used
// when quantizing positions into keys.
func WithSubpixel(x, y textatlas.SubpixelMode) Option {
	return func(s *Source) {
		s.subpixelX = x
		s.subpixelY = y
	}
}

// New creates an empty Source. The default subpixel modes are Subpixel4
// horizontally and none vertically.
func New(opts ...Option) *Source {
	s := &Source{
		subpixelX: textatlas.Subpixel4,
		subpixelY: textatlas.SubpixelNone,
		fonts:     make(map[textatlas.FontID]*font.Face),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register parses TTF or OTF font data and returns its identifier. The
// identifier is a hash of the data, so registering the same bytes twice
// returns the same ID.
func (s *Source) Register(data []byte) (textatlas.FontID, error) {
	if len(data) == 0 {
		return 0, ErrEmptyFont
	}

	id := textatlas.FontID(hashBytes(data))

	// Fast path: already registered.
	s.mu.RLock()
	if _, ok := s.fonts[id]; ok {
		s.mu.RUnlock()
		return id, nil
	}
	s.mu.RUnlock()

	// ParseTTF returns a *Face wrapping the parsed font tables.
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("fontsource: parse font: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock.
	if _, ok := s.fonts[id]; !ok {
		s.fonts[id] = face
	}
	return id, nil
}

// RegisterFile loads and registers a font file.
func (s *Source) RegisterFile(path string) (textatlas.FontID, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("fontsource: read font file: %w", err)
	}
	return s.Register(data)
}

// GlyphFor maps a rune to its glyph ID in the given font via the cmap
// table. The second return is false for unregistered fonts and runes the
// font does not cover.
func (s *Source) GlyphFor(id textatlas.FontID, r rune) (textatlas.GlyphID, bool) {
	face, ok := s.face(id)
	if !ok {
		return 0, false
	}
	gid, ok := face.NominalGlyph(r)
	if !ok {
		return 0, false
	}
	return textatlas.GlyphID(uint16(gid)), true //nolint:gosec // glyph IDs in sfnt fonts are uint16
}

// Rasterize renders the glyph identified by key into a width x height
// bitmap. Outline glyphs produce mask bitmaps, embedded PNG glyphs produce
// color bitmaps, and glyphs with no renderable data produce (nil, nil).
func (s *Source) Rasterize(key textatlas.Key, width, height int) (*textatlas.Bitmap, error) {
	if key.Kind != textatlas.KeyKindGlyph {
		return nil, ErrNotGlyphKey
	}
	if width <= 0 || height <= 0 {
		return nil, nil
	}

	face, ok := s.face(key.Font)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownFont, key.Font)
	}

	scale := float64(key.Size()) / float64(face.Upem())
	dx := key.XBin.Offset(s.subpixelX)
	dy := key.YBin.Offset(s.subpixelY)

	switch data := face.GlyphData(font.GID(key.Glyph)).(type) {
	case font.GlyphOutline:
		return s.maskBitmap(data, scale, dx, dy, width, height), nil
	case font.GlyphBitmap:
		return colorBitmap(data, width, height)
	default:
		// SVG glyphs and fonts without data for this glyph.
		return nil, nil
	}
}

// face returns the parsed face for a registered font.
func (s *Source) face(id textatlas.FontID) (*font.Face, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	face, ok := s.fonts[id]
	return face, ok
}

// hashBytes computes FNV-1a hash of font data.
func hashBytes(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data) // fnv.Write never returns an error
	return h.Sum64()
}
