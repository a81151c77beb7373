package textatlas

// Platform texture limits.
const (
	// DefaultInitialSide is the starting side length of each plane texture.
	DefaultInitialSide = 256

	// MaxTextureSide is the largest side length a plane may grow to,
	// matching the guaranteed maximum 2D texture dimension of current GPUs.
	MaxTextureSide = 16384

	// DefaultGrowthFactor is the side multiplier applied on each grow.
	DefaultGrowthFactor = 2
)

// Config holds configuration for a TextAtlas.
type Config struct {
	// InitialSide is the starting side length of each plane texture.
	// Must be a power of 2. Default: 256.
	InitialSide int

	// MaxSide is the side length at which growth stops.
	// Must be a power of 2, at most 16384. Default: 16384.
	MaxSide int

	// GrowthFactor multiplies the side length on each grow.
	// Default: 2.
	GrowthFactor int

	// ColorMode selects the pixel encoding of the color plane.
	// Default: ColorModeAccurate.
	ColorMode ColorMode

	// FontSource rasterizes font glyph keys. Required before the first
	// font glyph request; requests fail with ErrNoRasterSource without it.
	FontSource RasterSource

	// CustomSource rasterizes custom glyph keys, such as vector icons.
	// Required before the first custom glyph request.
	CustomSource RasterSource
}

// DefaultConfig returns the default atlas configuration.
func DefaultConfig() Config {
	return Config{
		InitialSide:  DefaultInitialSide,
		MaxSide:      MaxTextureSide,
		GrowthFactor: DefaultGrowthFactor,
		ColorMode:    ColorModeAccurate,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.InitialSide < 16 {
		return &ConfigError{Field: "InitialSide", Reason: "must be at least 16"}
	}
	if c.InitialSide&(c.InitialSide-1) != 0 {
		return &ConfigError{Field: "InitialSide", Reason: "must be power of 2"}
	}
	if c.MaxSide < c.InitialSide {
		return &ConfigError{Field: "MaxSide", Reason: "must be at least InitialSide"}
	}
	if c.MaxSide > MaxTextureSide {
		return &ConfigError{Field: "MaxSide", Reason: "must be at most 16384"}
	}
	if c.MaxSide&(c.MaxSide-1) != 0 {
		return &ConfigError{Field: "MaxSide", Reason: "must be power of 2"}
	}
	if c.GrowthFactor < 2 {
		return &ConfigError{Field: "GrowthFactor", Reason: "must be at least 2"}
	}
	if c.ColorMode != ColorModeAccurate && c.ColorMode != ColorModeWeb {
		return &ConfigError{Field: "ColorMode", Reason: "unknown mode"}
	}
	return nil
}
