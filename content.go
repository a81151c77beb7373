package textatlas

import "fmt"

// ContentKind classifies the pixel content an atlas plane stores. Each kind
// lives on its own plane with its own texture and packer, so mask coverage
// and color imagery never share pixel real estate.
type ContentKind uint8

const (
	// ContentMask is single-channel alpha coverage, used for ordinary
	// outline glyphs. Stored one byte per pixel.
	ContentMask ContentKind = iota

	// ContentColor is four-channel color imagery, used for emoji and other
	// bitmap glyphs. Stored four bytes per pixel, RGBA order.
	ContentColor
)

// Channels returns the number of byte channels per pixel for the kind.
func (k ContentKind) Channels() int {
	if k == ContentColor {
		return 4
	}
	return 1
}

// String returns a human-readable name for the kind.
func (k ContentKind) String() string {
	switch k {
	case ContentMask:
		return "mask"
	case ContentColor:
		return "color"
	default:
		return fmt.Sprintf("ContentKind(%d)", uint8(k))
	}
}

// ColorMode selects the pixel encoding of the color plane. The mask plane is
// unaffected; coverage has no color space.
type ColorMode uint8

const (
	// ColorModeAccurate stores color glyphs in an sRGB-encoded texture so
	// the GPU performs gamma-correct filtering and blending. This is the
	// default.
	ColorModeAccurate ColorMode = iota

	// ColorModeWeb stores color glyphs in a linear RGBA texture, matching
	// the compositing behavior of web browsers.
	ColorModeWeb
)

// String returns a human-readable name for the mode.
func (m ColorMode) String() string {
	switch m {
	case ColorModeAccurate:
		return "accurate"
	case ColorModeWeb:
		return "web"
	default:
		return fmt.Sprintf("ColorMode(%d)", uint8(m))
	}
}

// TextureFormat specifies the pixel format of an atlas texture. Backends
// translate these to their native format enums when creating textures.
type TextureFormat uint8

const (
	// TextureFormatUndefined is the zero value, representing no format.
	TextureFormatUndefined TextureFormat = iota

	// TextureFormatR8Unorm is 8-bit red channel only, normalized unsigned
	// integer. Used for the mask plane.
	TextureFormatR8Unorm

	// TextureFormatRGBA8Unorm is 8-bit RGBA, normalized unsigned integer.
	TextureFormatRGBA8Unorm

	// TextureFormatRGBA8UnormSRGB is 8-bit RGBA, normalized unsigned
	// integer in sRGB color space.
	TextureFormatRGBA8UnormSRGB

	// TextureFormatBGRA8Unorm is 8-bit BGRA, normalized unsigned integer.
	// Common as a surface format; atlas planes never use it.
	TextureFormatBGRA8Unorm

	// TextureFormatBGRA8UnormSRGB is 8-bit BGRA, normalized unsigned
	// integer in sRGB color space.
	TextureFormatBGRA8UnormSRGB
)

// String returns a human-readable name for the format.
func (f TextureFormat) String() string {
	switch f {
	case TextureFormatUndefined:
		return "Undefined"
	case TextureFormatR8Unorm:
		return "R8Unorm"
	case TextureFormatRGBA8Unorm:
		return "RGBA8Unorm"
	case TextureFormatRGBA8UnormSRGB:
		return "RGBA8UnormSrgb"
	case TextureFormatBGRA8Unorm:
		return "BGRA8Unorm"
	case TextureFormatBGRA8UnormSRGB:
		return "BGRA8UnormSrgb"
	default:
		return fmt.Sprintf("TextureFormat(%d)", uint8(f))
	}
}

// BytesPerPixel returns the number of bytes per pixel for the format.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case TextureFormatR8Unorm:
		return 1
	case TextureFormatRGBA8Unorm, TextureFormatRGBA8UnormSRGB,
		TextureFormatBGRA8Unorm, TextureFormatBGRA8UnormSRGB:
		return 4
	default:
		return 0
	}
}

// planeFormat returns the texture format for a plane holding kind under mode.
func planeFormat(kind ContentKind, mode ColorMode) TextureFormat {
	if kind == ContentMask {
		return TextureFormatR8Unorm
	}
	if mode == ColorModeWeb {
		return TextureFormatRGBA8Unorm
	}
	return TextureFormatRGBA8UnormSRGB
}
