package fontsource

import (
	"image"
	"image/draw"
	"math"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/font/opentype"

	"github.com/gogpu/textatlas"
)

// Metrics describes the raster footprint of a glyph at a given size.
// All pixel values refer to the glyph origin on the baseline.
type Metrics struct {
	// Width and Height are the bitmap dimensions in texels, including a
	// one texel padding ring for antialiasing bleed. Both are zero for
	// glyphs with nothing to draw, such as spaces.
	Width  int
	Height int

	// BearingX is the pixel offset from the origin to the bitmap's left
	// edge.
	BearingX float64

	// BearingY is the pixel distance from the baseline up to the bitmap's
	// top edge.
	BearingY float64

	// Advance is the horizontal pen advance in pixels.
	Advance float64

	// Kind is the content the glyph rasterizes to: ContentMask for
	// outlines, ContentColor for embedded bitmaps.
	Kind textatlas.ContentKind
}

// Measure returns the raster metrics for a glyph at the given size. A
// glyph the font cannot render reports zero Width and Height; the atlas
// caches such requests as absent without rasterizing.
func (s *Source) Measure(id textatlas.FontID, glyph textatlas.GlyphID, size float32) (Metrics, error) {
	face, ok := s.face(id)
	if !ok {
		return Metrics{}, ErrUnknownFont
	}

	scale := float64(size) / float64(face.Upem())
	m := Metrics{
		Advance: float64(face.HorizontalAdvance(font.GID(glyph))) * scale,
		Kind:    textatlas.ContentMask,
	}

	switch data := face.GlyphData(font.GID(glyph)).(type) {
	case font.GlyphOutline:
		box, ok := outlineBounds(data)
		if !ok {
			return m, nil
		}
		left, top, width, height := rasterBox(box, scale)
		m.Width = width
		m.Height = height
		m.BearingX = left
		m.BearingY = -top
	case font.GlyphBitmap:
		width, height, ok := bitmapSize(data, float64(size))
		if !ok {
			return m, nil
		}
		m.Width = width
		m.Height = height
		m.BearingY = emojiAscent(face, scale)
		m.Kind = textatlas.ContentColor
	}
	return m, nil
}

// outlinebox is an outline bounding box in font units, Y axis up.
type outlineBox struct {
	minX, minY float64
	maxX, maxY float64
}

// outlineBounds computes the bounding box over every segment point.
// Control points are included, which bounds the curves conservatively.
func outlineBounds(outline font.GlyphOutline) (outlineBox, bool) {
	if len(outline.Segments) == 0 {
		return outlineBox{}, false
	}

	b := outlineBox{
		minX: math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
	}
	for _, seg := range outline.Segments {
		for _, pt := range seg.ArgsSlice() {
			x, y := float64(pt.X), float64(pt.Y)
			b.minX = math.Min(b.minX, x)
			b.minY = math.Min(b.minY, y)
			b.maxX = math.Max(b.maxX, x)
			b.maxY = math.Max(b.maxY, y)
		}
	}
	return b, true
}

// rasterBox converts a font-unit bounding box to a padded pixel box. The
// returned left and top are the pixel coordinates of the box origin
// relative to the glyph origin, with Y flipped to raster orientation. One
// texel of padding on every side absorbs antialiasing and subpixel
// offsets.
func rasterBox(b outlineBox, scale float64) (left, top float64, width, height int) {
	left = math.Floor(b.minX*scale) - 1
	top = math.Floor(-b.maxY*scale) - 1
	right := math.Ceil(b.maxX*scale) + 1
	bottom := math.Ceil(-b.minY*scale) + 1
	return left, top, int(right - left), int(bottom - top)
}

// maskBitmap renders an outline into a width x height coverage mask.
// dx and dy are fractional subpixel offsets in pixels. Returns nil for
// outlines with no segments.
func (s *Source) maskBitmap(outline font.GlyphOutline, scale, dx, dy float64, width, height int) *textatlas.Bitmap {
	box, ok := outlineBounds(outline)
	if !ok {
		return nil
	}
	left, top, _, _ := rasterBox(box, scale)

	s.rast.Reset(width, height)
	s.rast.DrawOp = draw.Src

	// Font coordinates are Y up; the mask is Y down.
	tx := func(p opentype.SegmentPoint) (float32, float32) {
		return float32(float64(p.X)*scale + dx - left),
			float32(-float64(p.Y)*scale + dy - top)
	}

	for _, seg := range outline.Segments {
		switch seg.Op {
		case opentype.SegmentOpMoveTo:
			x, y := tx(seg.Args[0])
			s.rast.MoveTo(x, y)
		case opentype.SegmentOpLineTo:
			x, y := tx(seg.Args[0])
			s.rast.LineTo(x, y)
		case opentype.SegmentOpQuadTo:
			cx, cy := tx(seg.Args[0])
			x, y := tx(seg.Args[1])
			s.rast.QuadTo(cx, cy, x, y)
		case opentype.SegmentOpCubeTo:
			ax, ay := tx(seg.Args[0])
			bx, by := tx(seg.Args[1])
			x, y := tx(seg.Args[2])
			s.rast.CubeTo(ax, ay, bx, by, x, y)
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	s.rast.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return &textatlas.Bitmap{Data: mask.Pix, Kind: textatlas.ContentMask}
}

// emojiAscent estimates the baseline-to-top distance for bitmap glyphs,
// which carry no outline to measure.
func emojiAscent(face *font.Face, scale float64) float64 {
	if ext, ok := face.FontHExtents(); ok {
		return float64(ext.Ascender) * scale
	}
	return 0
}
