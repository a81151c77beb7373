// Package fontsource rasterizes glyphs from OpenType fonts for a
// textatlas.TextAtlas.
//
// A Source holds parsed fonts and implements textatlas.RasterSource:
// outline glyphs become single-channel coverage masks, embedded PNG
// bitmap glyphs (sbix, CBDT color emoji) become four-channel color
// bitmaps. Glyphs with no renderable data report zero metrics, which the
// atlas caches as absent.
//
// # Usage
//
// Register fonts once, then wire the source into the atlas configuration:
//
//	source := fontsource.New()
//	fontID, err := source.Register(fontData)
//	if err != nil {
//	    // handle parse failure
//	}
//
//	cfg := textatlas.DefaultConfig()
//	cfg.FontSource = source
//	atlas, err := textatlas.NewWithConfig(device, cfg)
//
// Per glyph, measure first and request residency with the measured size:
//
//	m, err := source.Measure(fontID, glyphID, 14)
//	key := textatlas.GlyphKey(fontID, glyphID, 14, xBin, yBin)
//	placement, err := atlas.EnsureResident(key, m.Kind, m.Width, m.Height)
//
// Rasterization is deterministic: the same key and dimensions always
// produce identical bytes, which the atlas relies on when it grows and
// re-uploads resident glyphs.
package fontsource
