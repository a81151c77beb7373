package textatlas

import (
	"fmt"
	"math"
)

// FontID is a unique identifier for a registered font, stable for the
// lifetime of the process.
type FontID uint64

// GlyphID is the glyph index within a font.
type GlyphID uint16

// CustomID is a unique identifier for an externally rasterized glyph
// source, such as a vector icon renderer.
type CustomID uint64

// KeyKind discriminates the two glyph identity namespaces.
type KeyKind uint8

const (
	// KeyKindGlyph identifies a font glyph, rasterized by the font engine.
	KeyKindGlyph KeyKind = iota

	// KeyKindCustom identifies an externally rasterized glyph, produced by
	// an application-registered raster source.
	KeyKindCustom
)

// Key uniquely identifies a cacheable glyph bitmap. Keys are comparable and
// serve directly as map keys; two equal keys must always rasterize to
// identical pixels.
//
// A key is either a font glyph (Font, Glyph, SizeBits) or a custom glyph
// (Custom, Width, Height); the unused fields of the other namespace stay
// zero. Both carry subpixel bins. Construct keys with GlyphKey or CustomKey
// rather than filling the struct directly.
type Key struct {
	// Kind selects the identity namespace.
	Kind KeyKind

	// Font identifies the source font for font glyphs.
	Font FontID

	// Glyph is the glyph index within the font.
	Glyph GlyphID

	// SizeBits is the IEEE 754 bit pattern of the font size in pixels.
	// Storing bits keeps the struct comparable while preserving exact
	// float identity.
	SizeBits uint32

	// Custom identifies the raster source for custom glyphs.
	Custom CustomID

	// Width and Height are the requested raster dimensions for custom
	// glyphs. Font glyph dimensions derive from font metrics instead.
	Width  uint16
	Height uint16

	// XBin and YBin are the quantized subpixel positions.
	XBin SubpixelBin
	YBin SubpixelBin
}

// GlyphKey builds the identity of a font glyph at the given pixel size and
// subpixel position.
func GlyphKey(font FontID, glyph GlyphID, size float32, xBin, yBin SubpixelBin) Key {
	return Key{
		Kind:     KeyKindGlyph,
		Font:     font,
		Glyph:    glyph,
		SizeBits: math.Float32bits(size),
		XBin:     xBin,
		YBin:     yBin,
	}
}

// CustomKey builds the identity of an externally rasterized glyph at the
// given dimensions and subpixel position.
func CustomKey(id CustomID, width, height int, xBin, yBin SubpixelBin) Key {
	return Key{
		Kind:   KeyKindCustom,
		Custom: id,
		Width:  uint16(width),
		Height: uint16(height),
		XBin:   xBin,
		YBin:   yBin,
	}
}

// Size returns the font size in pixels for font glyph keys.
func (k Key) Size() float32 {
	return math.Float32frombits(k.SizeBits)
}

// String returns a compact description of the key for logs and errors.
func (k Key) String() string {
	if k.Kind == KeyKindCustom {
		return fmt.Sprintf("custom(id=%d %dx%d bin=%d,%d)", k.Custom, k.Width, k.Height, k.XBin, k.YBin)
	}
	return fmt.Sprintf("glyph(font=%d gid=%d size=%g bin=%d,%d)", k.Font, k.Glyph, k.Size(), k.XBin, k.YBin)
}
