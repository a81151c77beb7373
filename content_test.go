package textatlas

import "testing"

func TestContentKind_Channels(t *testing.T) {
	if got := ContentMask.Channels(); got != 1 {
		t.Errorf("ContentMask.Channels() = %d, want 1", got)
	}
	if got := ContentColor.Channels(); got != 4 {
		t.Errorf("ContentColor.Channels() = %d, want 4", got)
	}
}

func TestContentKind_String(t *testing.T) {
	tests := []struct {
		kind ContentKind
		want string
	}{
		{ContentMask, "mask"},
		{ContentColor, "color"},
		{ContentKind(9), "ContentKind(9)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestColorMode_String(t *testing.T) {
	tests := []struct {
		mode ColorMode
		want string
	}{
		{ColorModeAccurate, "accurate"},
		{ColorModeWeb, "web"},
		{ColorMode(9), "ColorMode(9)"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTextureFormat_BytesPerPixel(t *testing.T) {
	tests := []struct {
		format TextureFormat
		want   int
	}{
		{TextureFormatR8Unorm, 1},
		{TextureFormatRGBA8Unorm, 4},
		{TextureFormatRGBA8UnormSRGB, 4},
		{TextureFormatBGRA8Unorm, 4},
		{TextureFormatBGRA8UnormSRGB, 4},
		{TextureFormatUndefined, 0},
	}

	for _, tt := range tests {
		if got := tt.format.BytesPerPixel(); got != tt.want {
			t.Errorf("%v.BytesPerPixel() = %d, want %d", tt.format, got, tt.want)
		}
	}
}

func TestPlaneFormat(t *testing.T) {
	tests := []struct {
		name string
		kind ContentKind
		mode ColorMode
		want TextureFormat
	}{
		{"mask accurate", ContentMask, ColorModeAccurate, TextureFormatR8Unorm},
		{"mask web", ContentMask, ColorModeWeb, TextureFormatR8Unorm},
		{"color accurate", ContentColor, ColorModeAccurate, TextureFormatRGBA8UnormSRGB},
		{"color web", ContentColor, ColorModeWeb, TextureFormatRGBA8Unorm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := planeFormat(tt.kind, tt.mode); got != tt.want {
				t.Errorf("planeFormat(%v, %v) = %v, want %v", tt.kind, tt.mode, got, tt.want)
			}
		})
	}
}
