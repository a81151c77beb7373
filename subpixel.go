package textatlas

// SubpixelMode controls subpixel glyph positioning.
// Subpixel positioning improves text quality by rasterizing glyphs at
// fractional pixel positions. Each position gets its own atlas entry, so
// higher modes multiply the number of cached glyphs.
type SubpixelMode int

const (
	// SubpixelNone disables subpixel positioning.
	// Glyphs snap to whole pixels. Fastest but lower quality.
	SubpixelNone SubpixelMode = 0

	// Subpixel4 uses 4 subpixel positions (0.0, 0.25, 0.5, 0.75).
	// Good balance of quality and atlas pressure.
	Subpixel4 SubpixelMode = 4

	// Subpixel10 uses 10 subpixel positions (0.0, 0.1, ..., 0.9).
	// Highest quality but 10x atlas entries per glyph.
	Subpixel10 SubpixelMode = 10
)

// String returns the string representation of the subpixel mode.
func (m SubpixelMode) String() string {
	switch m {
	case SubpixelNone:
		return "None"
	case Subpixel4:
		return "Subpixel4"
	case Subpixel10:
		return "Subpixel10"
	default:
		return "Unknown"
	}
}

// IsEnabled returns true if subpixel positioning is enabled.
func (m SubpixelMode) IsEnabled() bool {
	return m > 0
}

// Divisions returns the number of subpixel divisions.
// Returns 1 for SubpixelNone (no divisions).
func (m SubpixelMode) Divisions() int {
	if m <= 0 {
		return 1
	}
	return int(m)
}

// SubpixelBin is a quantized subpixel position, in the range
// [0, mode divisions). Bins are part of the atlas key, so the same glyph at
// different subpixel positions occupies distinct atlas entries.
type SubpixelBin uint8

// Offset returns the fractional rendering offset for the bin.
// For Subpixel4 mode: 0 -> 0.0, 1 -> 0.25, 2 -> 0.5, 3 -> 0.75.
func (b SubpixelBin) Offset(mode SubpixelMode) float64 {
	if !mode.IsEnabled() {
		return 0
	}
	return float64(b) / float64(mode.Divisions())
}

// Quantize converts a fractional position to an integer position and a
// quantized subpixel bin.
//
// For example, with Subpixel4 mode:
//   - pos=10.0 returns (10, 0)
//   - pos=10.25 returns (10, 1)
//   - pos=10.5 returns (10, 2)
//   - pos=10.99 returns (10, 3)
func Quantize(pos float64, mode SubpixelMode) (intPos int, bin SubpixelBin) {
	if !mode.IsEnabled() {
		// No subpixel positioning, round to nearest integer.
		return int(pos + 0.5), 0
	}

	// Floor, correct for negative positions.
	intPart := int(pos)
	if pos < 0 && pos != float64(intPart) {
		intPart--
	}

	frac := pos - float64(intPart)

	divisions := mode.Divisions()
	binInt := int(frac * float64(divisions))

	// Clamp to [0, divisions-1].
	if binInt >= divisions {
		binInt = divisions - 1
	}
	if binInt < 0 {
		binInt = 0
	}

	return intPart, SubpixelBin(binInt)
}

// QuantizePoint quantizes a point along both axes. Vertical subpixel
// positioning is rarely needed for Latin text; pass SubpixelNone for
// modeY to snap Y to whole pixels.
func QuantizePoint(x, y float64, modeX, modeY SubpixelMode) (intX, intY int, binX, binY SubpixelBin) {
	intX, binX = Quantize(x, modeX)
	intY, binY = Quantize(y, modeY)
	return intX, intY, binX, binY
}
