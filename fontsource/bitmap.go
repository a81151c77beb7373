package fontsource

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/go-text/typesetting/font"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/textatlas"
)

// pngSignature is the 8 byte magic prefix of every PNG stream. sbix and
// CBDT strikes both embed PNG; other encodings are not rendered.
var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// bitmapSize computes the target raster dimensions for an embedded bitmap
// glyph: the strike is scaled so its height matches the requested font
// size, preserving aspect ratio.
func bitmapSize(glyph font.GlyphBitmap, size float64) (width, height int, ok bool) {
	if !bytes.HasPrefix(glyph.Data, pngSignature) {
		return 0, 0, false
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(glyph.Data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, false
	}

	height = int(math.Round(size))
	width = int(math.Round(size * float64(cfg.Width) / float64(cfg.Height)))
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}
	return width, height, true
}

// colorBitmap decodes an embedded PNG glyph and scales it to exactly
// width x height RGBA texels. Non-PNG strikes report (nil, nil) so the
// atlas caches the glyph as absent.
func colorBitmap(glyph font.GlyphBitmap, width, height int) (*textatlas.Bitmap, error) {
	if !bytes.HasPrefix(glyph.Data, pngSignature) {
		return nil, nil
	}
	img, err := png.Decode(bytes.NewReader(glyph.Data))
	if err != nil {
		return nil, fmt.Errorf("fontsource: decode bitmap glyph: %w", err)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(rgba, rgba.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return &textatlas.Bitmap{Data: rgba.Pix, Kind: textatlas.ContentColor}, nil
}
