package textatlas

import "fmt"

// Bitmap is the pixel output of a RasterSource.
type Bitmap struct {
	// Data holds exactly width*height*channels bytes, rows packed top to
	// bottom with no padding. The channel count follows Kind.
	Data []byte

	// Kind declares the content class of the pixels: single-channel
	// coverage or four-channel color.
	Kind ContentKind
}

// validate checks that the bitmap carries exactly the bytes promised for
// the given dimensions.
func (b *Bitmap) validate(width, height int) error {
	want := width * height * b.Kind.Channels()
	if len(b.Data) != want {
		return fmt.Errorf("%w: %d bytes for %dx%d %s, want %d",
			ErrInvalidBitmap, len(b.Data), width, height, b.Kind, want)
	}
	return nil
}

// RasterSource produces pixel bitmaps for glyph identities. The font engine
// provides one for font glyphs; applications register another for custom
// glyphs such as vector icons.
//
// Rasterization must be deterministic: the same key and dimensions must
// always yield byte-identical pixels, because the atlas re-invokes the
// source to rebuild its texture after growth and treats any divergence from
// the original result as a contract violation.
type RasterSource interface {
	// Rasterize renders the glyph identified by key at exactly width x
	// height pixels. Returning (nil, nil) marks the glyph intentionally
	// absent; the atlas caches the absence and never asks again.
	Rasterize(key Key, width, height int) (*Bitmap, error)
}

// RasterFunc adapts a plain function to the RasterSource interface.
type RasterFunc func(key Key, width, height int) (*Bitmap, error)

// Rasterize implements RasterSource.
func (f RasterFunc) Rasterize(key Key, width, height int) (*Bitmap, error) {
	return f(key, width, height)
}
