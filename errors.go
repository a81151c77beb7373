package textatlas

import (
	"errors"
	"fmt"
)

// Sentinel errors for the textatlas package.
var (
	// ErrAtlasExhausted indicates that an allocation could not be
	// satisfied even after evicting every entry not in use this frame.
	// EnsureResident recovers by growing the plane; the error escapes
	// only through plane internals and tests.
	ErrAtlasExhausted = errors.New("textatlas: atlas exhausted")

	// ErrAtlasAtMaximumSize indicates that the plane already reached the
	// maximum texture dimension and cannot grow further. The caller must
	// reduce the number of simultaneously visible glyphs.
	ErrAtlasAtMaximumSize = errors.New("textatlas: atlas at maximum size")

	// ErrRasterizationMismatch indicates that a rasterizer returned data
	// inconsistent with a prior successful result for the same key.
	// This is a caller contract violation and fatal for the atlas.
	ErrRasterizationMismatch = errors.New("textatlas: rasterization mismatch")

	// ErrGlyphTooLarge indicates a single glyph larger than the maximum
	// texture dimension. No amount of eviction or growth can place it.
	ErrGlyphTooLarge = errors.New("textatlas: glyph exceeds maximum atlas size")

	// ErrAtlasClosed is returned when operating on a closed atlas.
	ErrAtlasClosed = errors.New("textatlas: atlas is closed")

	// ErrNilDevice is returned when constructing an atlas without a device.
	ErrNilDevice = errors.New("textatlas: device is nil")

	// ErrNoRasterSource is returned when a key routes to a rasterizer
	// that was not configured.
	ErrNoRasterSource = errors.New("textatlas: no raster source for key")

	// ErrInvalidBitmap is returned when a raster source produces a bitmap
	// whose byte length does not match the requested dimensions.
	ErrInvalidBitmap = errors.New("textatlas: bitmap size does not match request")
)

// ConfigError describes an invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("textatlas: invalid config: %s %s", e.Field, e.Reason)
}

// RasterMismatchError reports a rasterizer contract violation for a
// specific key. It wraps ErrRasterizationMismatch for errors.Is checks.
type RasterMismatchError struct {
	Key    Key
	Reason string
}

func (e *RasterMismatchError) Error() string {
	return fmt.Sprintf("textatlas: rasterization mismatch for %s: %s", e.Key, e.Reason)
}

func (e *RasterMismatchError) Unwrap() error {
	return ErrRasterizationMismatch
}
