package textatlas

import (
	"errors"
	"fmt"
	"testing"
)

// fakeTexture mirrors uploads into a byte slice so tests can assert on
// texel content.
type fakeTexture struct {
	label     string
	width     uint32
	height    uint32
	format    TextureFormat
	pixels    []byte
	destroyed bool
}

func (t *fakeTexture) Width() uint32         { return t.width }
func (t *fakeTexture) Height() uint32        { return t.height }
func (t *fakeTexture) Format() TextureFormat { return t.format }
func (t *fakeTexture) Destroy()              { t.destroyed = true }

// region returns the pixels of a rectangle, tightly packed.
func (t *fakeTexture) region(x, y, w, h int) []byte {
	bpp := t.format.BytesPerPixel()
	out := make([]byte, 0, w*h*bpp)
	for row := 0; row < h; row++ {
		off := ((y+row)*int(t.width) + x) * bpp
		out = append(out, t.pixels[off:off+w*bpp]...)
	}
	return out
}

type fakeBuffer struct {
	size      uint64
	data      []byte
	writes    int
	destroyed bool
}

func (b *fakeBuffer) Size() uint64 { return b.size }
func (b *fakeBuffer) Destroy()     { b.destroyed = true }

// fakeDevice implements Device in memory.
type fakeDevice struct {
	textures      []*fakeTexture
	buffers       []*fakeBuffer
	failTextures  bool
	textureWrites int
}

func (d *fakeDevice) CreateTexture(desc *TextureDescriptor) (Texture, error) {
	if d.failTextures {
		return nil, errors.New("fake: texture creation refused")
	}
	tex := &fakeTexture{
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
		pixels: make([]byte, int(desc.Width)*int(desc.Height)*desc.Format.BytesPerPixel()),
	}
	d.textures = append(d.textures, tex)
	return tex, nil
}

func (d *fakeDevice) CreateBuffer(desc *BufferDescriptor) (Buffer, error) {
	buf := &fakeBuffer{
		size: desc.Size,
		data: make([]byte, desc.Size),
	}
	d.buffers = append(d.buffers, buf)
	return buf, nil
}

func (d *fakeDevice) WriteTexture(dst Texture, x, y, width, height int, data []byte, bytesPerRow int) error {
	tex, ok := dst.(*fakeTexture)
	if !ok {
		return errors.New("fake: unknown texture")
	}
	d.textureWrites++
	bpp := tex.format.BytesPerPixel()
	for row := 0; row < height; row++ {
		src := data[row*bytesPerRow : row*bytesPerRow+width*bpp]
		off := ((y+row)*int(tex.width) + x) * bpp
		copy(tex.pixels[off:off+width*bpp], src)
	}
	return nil
}

func (d *fakeDevice) WriteBuffer(dst Buffer, offset uint64, data []byte) error {
	buf, ok := dst.(*fakeBuffer)
	if !ok {
		return errors.New("fake: unknown buffer")
	}
	buf.writes++
	copy(buf.data[offset:], data)
	return nil
}

// countingSource produces deterministic bitmaps and records how often each
// key was rasterized.
type countingSource struct {
	kind  ContentKind
	calls map[Key]int
}

func newCountingSource(kind ContentKind) *countingSource {
	return &countingSource{kind: kind, calls: make(map[Key]int)}
}

func (s *countingSource) Rasterize(key Key, width, height int) (*Bitmap, error) {
	s.calls[key]++
	return testBitmap(s.kind, key, width, height), nil
}

// testBitmap builds a bitmap whose bytes depend only on the key, so
// renders are reproducible across calls.
func testBitmap(kind ContentKind, key Key, width, height int) *Bitmap {
	data := make([]byte, width*height*kind.Channels())
	seed := byte(key.Glyph) + byte(key.Custom)
	for i := range data {
		data[i] = seed + byte(i)
	}
	return &Bitmap{Data: data, Kind: kind}
}

func newTestAtlas(t *testing.T, cfg Config) (*TextAtlas, *fakeDevice, *countingSource) {
	t.Helper()
	device := &fakeDevice{}
	source := newCountingSource(ContentMask)
	cfg.FontSource = source
	atlas, err := NewWithConfig(device, cfg)
	if err != nil {
		t.Fatalf("NewWithConfig() error = %v", err)
	}
	return atlas, device, source
}

func glyphN(n int) Key {
	return GlyphKey(1, GlyphID(n), 16, 0, 0)
}

func overlap(a, b *Placement) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width &&
		a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

func TestNewWithConfig_Validation(t *testing.T) {
	device := &fakeDevice{}

	if _, err := NewWithConfig(nil, DefaultConfig()); !errors.Is(err, ErrNilDevice) {
		t.Errorf("nil device error = %v, want ErrNilDevice", err)
	}

	bad := DefaultConfig()
	bad.InitialSide = 100
	if _, err := NewWithConfig(device, bad); err == nil {
		t.Error("non power of 2 InitialSide should fail")
	}
}

func TestNewWithConfig_TextureCreationFails(t *testing.T) {
	device := &fakeDevice{failTextures: true}
	if _, err := New(device); err == nil {
		t.Fatal("New() with failing device should return an error")
	}
}

func TestNew_PlaneFormats(t *testing.T) {
	tests := []struct {
		name      string
		mode      ColorMode
		wantColor TextureFormat
	}{
		{"accurate", ColorModeAccurate, TextureFormatRGBA8UnormSRGB},
		{"web", ColorModeWeb, TextureFormatRGBA8Unorm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := &fakeDevice{}
			atlas, err := NewWithColorMode(device, tt.mode)
			if err != nil {
				t.Fatalf("NewWithColorMode() error = %v", err)
			}
			if got := atlas.ContentTexture(ContentMask).Format(); got != TextureFormatR8Unorm {
				t.Errorf("mask format = %v, want R8Unorm", got)
			}
			if got := atlas.ContentTexture(ContentColor).Format(); got != tt.wantColor {
				t.Errorf("color format = %v, want %v", got, tt.wantColor)
			}
		})
	}
}

// 64 distinct 32x32 glyphs exactly fill a 256-sided plane: no eviction, no
// growth, and no two placements overlap.
func TestEnsureResident_ExactFill(t *testing.T) {
	cfg := DefaultConfig()
	atlas, _, source := newTestAtlas(t, cfg)

	placements := make([]*Placement, 0, 64)
	for i := 0; i < 64; i++ {
		p, err := atlas.EnsureResident(glyphN(i), ContentMask, 32, 32)
		if err != nil {
			t.Fatalf("glyph %d: EnsureResident() error = %v", i, err)
		}
		if p == nil {
			t.Fatalf("glyph %d: placement is nil", i)
		}
		placements = append(placements, p)
	}

	for i := 0; i < len(placements); i++ {
		for j := i + 1; j < len(placements); j++ {
			if overlap(placements[i], placements[j]) {
				t.Fatalf("placements %d and %d overlap: %+v vs %+v", i, j, placements[i], placements[j])
			}
		}
	}

	stats := atlas.Stats()
	if stats.Evictions != 0 {
		t.Errorf("Evictions = %d, want 0", stats.Evictions)
	}
	if stats.Grows != 0 {
		t.Errorf("Grows = %d, want 0", stats.Grows)
	}
	if stats.MaskSide != 256 {
		t.Errorf("MaskSide = %d, want 256", stats.MaskSide)
	}
	if got := stats.MaskUtilization; got != 1.0 {
		t.Errorf("MaskUtilization = %v, want 1.0", got)
	}
	for i := 0; i < 64; i++ {
		if source.calls[glyphN(i)] != 1 {
			t.Errorf("glyph %d rasterized %d times, want 1", i, source.calls[glyphN(i)])
		}
	}
}

// With a full plane whose entries are all in-use, additional requests must
// not evict. The atlas grows the plane instead, and every prior placement
// keeps its coordinates and its pixels.
func TestEnsureResident_GrowsWhenBlocked(t *testing.T) {
	atlas, device, source := newTestAtlas(t, DefaultConfig())

	before := make(map[int]*Placement)
	for i := 0; i < 64; i++ {
		p, err := atlas.EnsureResident(glyphN(i), ContentMask, 32, 32)
		if err != nil {
			t.Fatalf("glyph %d: EnsureResident() error = %v", i, err)
		}
		before[i] = p
	}

	// No Trim: all 64 stay in-use and must survive.
	extra := make([]*Placement, 0, 6)
	for i := 64; i < 70; i++ {
		p, err := atlas.EnsureResident(glyphN(i), ContentMask, 32, 32)
		if err != nil {
			t.Fatalf("glyph %d: EnsureResident() error = %v", i, err)
		}
		extra = append(extra, p)
	}

	stats := atlas.Stats()
	if stats.Evictions != 0 {
		t.Errorf("Evictions = %d, want 0", stats.Evictions)
	}
	if stats.Grows != 1 {
		t.Errorf("Grows = %d, want 1", stats.Grows)
	}
	if stats.MaskSide != 512 {
		t.Errorf("MaskSide = %d, want 512", stats.MaskSide)
	}

	// Coordinates unchanged after growth.
	for i := 0; i < 64; i++ {
		p, err := atlas.EnsureResident(glyphN(i), ContentMask, 32, 32)
		if err != nil {
			t.Fatalf("glyph %d after grow: %v", i, err)
		}
		if p.X != before[i].X || p.Y != before[i].Y {
			t.Errorf("glyph %d moved: (%d,%d) -> (%d,%d)", i, before[i].X, before[i].Y, p.X, p.Y)
		}
	}

	// The new texture holds every original bitmap at its old coordinates.
	tex := atlas.ContentTexture(ContentMask).(*fakeTexture)
	if tex.width != 512 {
		t.Fatalf("texture width = %d, want 512", tex.width)
	}
	for i := 0; i < 64; i++ {
		p := before[i]
		want := testBitmap(ContentMask, glyphN(i), 32, 32).Data
		got := tex.region(p.X, p.Y, 32, 32)
		for b := range want {
			if got[b] != want[b] {
				t.Fatalf("glyph %d: pixels differ at byte %d after re-upload", i, b)
			}
		}
	}

	// The old mask texture was destroyed.
	old := device.textures[0]
	if old.label != "textatlas-mask" || !old.destroyed {
		t.Errorf("old mask texture destroyed = %v (label %q), want true", old.destroyed, old.label)
	}

	// Growth re-invoked the source once per placed glyph.
	for i := 0; i < 64; i++ {
		if source.calls[glyphN(i)] != 2 {
			t.Errorf("glyph %d rasterized %d times, want 2 (initial + re-upload)", i, source.calls[glyphN(i)])
		}
	}
	for _, p := range extra {
		if p == nil {
			t.Error("extra glyph placement is nil")
		}
	}
}

// A re-request after Trim must be a cache hit: same placement, no
// rasterizer call.
func TestEnsureResident_HitAfterTrim(t *testing.T) {
	atlas, _, source := newTestAtlas(t, DefaultConfig())
	key := GlyphKey(7, 42, 14, 1, 0)

	first, err := atlas.EnsureResident(key, ContentMask, 10, 10)
	if err != nil {
		t.Fatalf("EnsureResident() error = %v", err)
	}

	atlas.Trim()

	second, err := atlas.EnsureResident(key, ContentMask, 10, 10)
	if err != nil {
		t.Fatalf("EnsureResident() after trim error = %v", err)
	}
	if second != first {
		t.Errorf("placement changed across trim: %+v -> %+v", first, second)
	}
	if source.calls[key] != 1 {
		t.Errorf("rasterized %d times, want 1", source.calls[key])
	}

	stats := atlas.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("hits=%d misses=%d, want 1 and 1", stats.Hits, stats.Misses)
	}
}

// Requesting A, B, then A again makes B the eviction victim.
func TestEnsureResident_EvictsLeastRecentlyUsed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialSide = 64
	cfg.MaxSide = 64
	atlas, _, source := newTestAtlas(t, cfg)

	// Four 32x32 slots: A, B, C, D fill the plane.
	keys := []Key{glyphN(0), glyphN(1), glyphN(2), glyphN(3)}
	for _, k := range keys {
		if _, err := atlas.EnsureResident(k, ContentMask, 32, 32); err != nil {
			t.Fatalf("fill: %v", err)
		}
	}
	atlas.Trim()

	// Touch A so B becomes least recently used.
	if _, err := atlas.EnsureResident(keys[0], ContentMask, 32, 32); err != nil {
		t.Fatalf("touch A: %v", err)
	}

	// E forces one eviction.
	if _, err := atlas.EnsureResident(glyphN(4), ContentMask, 32, 32); err != nil {
		t.Fatalf("E: %v", err)
	}
	if got := atlas.Stats().Evictions; got != 1 {
		t.Fatalf("Evictions = %d, want 1", got)
	}

	// A survived; B did not.
	if _, err := atlas.EnsureResident(keys[0], ContentMask, 32, 32); err != nil {
		t.Fatalf("A re-request: %v", err)
	}
	if source.calls[keys[0]] != 1 {
		t.Errorf("A rasterized %d times, want 1 (must not have been evicted)", source.calls[keys[0]])
	}

	if _, err := atlas.EnsureResident(keys[1], ContentMask, 32, 32); err != nil {
		t.Fatalf("B re-request: %v", err)
	}
	if source.calls[keys[1]] != 2 {
		t.Errorf("B rasterized %d times, want 2 (evicted and rebuilt)", source.calls[keys[1]])
	}
}

// An in-use entry is never evicted. When the plane cannot grow, the
// request surfaces the terminal capacity error.
func TestEnsureResident_InUseBlocksEviction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialSide = 64
	cfg.MaxSide = 64
	atlas, _, _ := newTestAtlas(t, cfg)

	for i := 0; i < 4; i++ {
		if _, err := atlas.EnsureResident(glyphN(i), ContentMask, 32, 32); err != nil {
			t.Fatalf("fill: %v", err)
		}
	}

	// All four are in-use; no eviction may happen and growth is capped.
	_, err := atlas.EnsureResident(glyphN(4), ContentMask, 32, 32)
	if !errors.Is(err, ErrAtlasAtMaximumSize) {
		t.Fatalf("error = %v, want ErrAtlasAtMaximumSize", err)
	}
	if got := atlas.Stats().Evictions; got != 0 {
		t.Errorf("Evictions = %d, want 0", got)
	}

	// After Trim the same request succeeds by evicting.
	atlas.Trim()
	if _, err := atlas.EnsureResident(glyphN(4), ContentMask, 32, 32); err != nil {
		t.Fatalf("after trim: %v", err)
	}
	if got := atlas.Stats().Evictions; got == 0 {
		t.Error("expected evictions after trim lifted protection")
	}
}

// Zero-area glyphs are cached without consuming allocator space or calling
// the rasterizer.
func TestEnsureResident_ZeroArea(t *testing.T) {
	atlas, _, source := newTestAtlas(t, DefaultConfig())
	key := GlyphKey(1, 99, 12, 0, 0) // a space

	for i := 0; i < 3; i++ {
		p, err := atlas.EnsureResident(key, ContentMask, 0, 12)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if p != nil {
			t.Fatalf("request %d: placement = %+v, want nil", i, p)
		}
	}

	if source.calls[key] != 0 {
		t.Errorf("zero-area glyph rasterized %d times, want 0", source.calls[key])
	}
	stats := atlas.Stats()
	if stats.MaskUtilization != 0 {
		t.Errorf("MaskUtilization = %v, want 0", stats.MaskUtilization)
	}
	if stats.MaskEntries != 1 {
		t.Errorf("MaskEntries = %d, want 1", stats.MaskEntries)
	}
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("hits=%d misses=%d, want 2 and 1", stats.Hits, stats.Misses)
	}
}

// A stale zero-area entry at the cold end of the recency list must not
// stall eviction: the scan drops it and keeps going.
func TestEnsureResident_EvictionSkipsZeroArea(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialSide = 64
	cfg.MaxSide = 64
	atlas, _, _ := newTestAtlas(t, cfg)

	// Oldest entry holds no region.
	if _, err := atlas.EnsureResident(glyphN(100), ContentMask, 0, 5); err != nil {
		t.Fatalf("zero-area: %v", err)
	}
	for i := 0; i < 4; i++ {
		if _, err := atlas.EnsureResident(glyphN(i), ContentMask, 32, 32); err != nil {
			t.Fatalf("fill: %v", err)
		}
	}
	atlas.Trim()

	if _, err := atlas.EnsureResident(glyphN(5), ContentMask, 32, 32); err != nil {
		t.Fatalf("evicting request: %v", err)
	}
	if got := atlas.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

// A glyph wider than the maximum texture side can never be placed.
func TestEnsureResident_GlyphTooLarge(t *testing.T) {
	atlas, _, _ := newTestAtlas(t, DefaultConfig())

	_, err := atlas.EnsureResident(glyphN(0), ContentMask, MaxTextureSide+1, 8)
	if !errors.Is(err, ErrGlyphTooLarge) {
		t.Errorf("error = %v, want ErrGlyphTooLarge", err)
	}
}

func TestEnsureResident_NoSourceConfigured(t *testing.T) {
	device := &fakeDevice{}
	atlas, err := New(device)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := atlas.EnsureResident(glyphN(0), ContentMask, 8, 8); !errors.Is(err, ErrNoRasterSource) {
		t.Errorf("font glyph error = %v, want ErrNoRasterSource", err)
	}

	// Zero-area requests never need a source.
	if _, err := atlas.EnsureResident(glyphN(1), ContentMask, 0, 0); err != nil {
		t.Errorf("zero-area error = %v, want nil", err)
	}
}

// An intentionally absent glyph (source returns nil) is cached as absent
// and holds no space.
func TestEnsureResident_AbsentGlyph(t *testing.T) {
	device := &fakeDevice{}
	cfg := DefaultConfig()
	calls := 0
	cfg.FontSource = RasterFunc(func(key Key, width, height int) (*Bitmap, error) {
		calls++
		return nil, nil
	})
	atlas, err := NewWithConfig(device, cfg)
	if err != nil {
		t.Fatalf("NewWithConfig() error = %v", err)
	}

	key := glyphN(0)
	for i := 0; i < 2; i++ {
		p, err := atlas.EnsureResident(key, ContentMask, 8, 8)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if p != nil {
			t.Fatalf("request %d: placement = %+v, want nil", i, p)
		}
	}
	if calls != 1 {
		t.Errorf("source called %d times, want 1", calls)
	}
	if got := atlas.Stats().MaskUtilization; got != 0 {
		t.Errorf("MaskUtilization = %v, want 0 after absent glyph", got)
	}
}

// A source that lies about dimensions is rejected and the reserved region
// is released.
func TestEnsureResident_InvalidBitmap(t *testing.T) {
	device := &fakeDevice{}
	cfg := DefaultConfig()
	cfg.FontSource = RasterFunc(func(key Key, width, height int) (*Bitmap, error) {
		return &Bitmap{Data: make([]byte, 3), Kind: ContentMask}, nil
	})
	atlas, err := NewWithConfig(device, cfg)
	if err != nil {
		t.Fatalf("NewWithConfig() error = %v", err)
	}

	if _, err := atlas.EnsureResident(glyphN(0), ContentMask, 8, 8); !errors.Is(err, ErrInvalidBitmap) {
		t.Errorf("error = %v, want ErrInvalidBitmap", err)
	}
	if got := atlas.Stats().MaskUtilization; got != 0 {
		t.Errorf("MaskUtilization = %v, want 0 after rejected bitmap", got)
	}
}

// A source that produces the wrong content kind is a contract violation.
func TestEnsureResident_KindMismatch(t *testing.T) {
	device := &fakeDevice{}
	cfg := DefaultConfig()
	cfg.FontSource = RasterFunc(func(key Key, width, height int) (*Bitmap, error) {
		return &Bitmap{Data: make([]byte, width*height*4), Kind: ContentColor}, nil
	})
	atlas, err := NewWithConfig(device, cfg)
	if err != nil {
		t.Fatalf("NewWithConfig() error = %v", err)
	}

	_, err = atlas.EnsureResident(glyphN(0), ContentMask, 8, 8)
	if !errors.Is(err, ErrRasterizationMismatch) {
		t.Errorf("error = %v, want ErrRasterizationMismatch", err)
	}
	var mismatch *RasterMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error %v is not a *RasterMismatchError", err)
	}
	if mismatch.Key != glyphN(0) {
		t.Errorf("mismatch key = %v, want %v", mismatch.Key, glyphN(0))
	}
}

// A source that changes its output between placement and growth re-upload
// is fatal.
func TestGrow_RasterizerContractViolation(t *testing.T) {
	device := &fakeDevice{}
	cfg := DefaultConfig()
	cfg.InitialSide = 64

	calls := 0
	cfg.FontSource = RasterFunc(func(key Key, width, height int) (*Bitmap, error) {
		calls++
		if calls > 4 {
			return nil, nil // vanishes on re-upload
		}
		return testBitmap(ContentMask, key, width, height), nil
	})
	atlas, err := NewWithConfig(device, cfg)
	if err != nil {
		t.Fatalf("NewWithConfig() error = %v", err)
	}

	for i := 0; i < 4; i++ {
		if _, err := atlas.EnsureResident(glyphN(i), ContentMask, 32, 32); err != nil {
			t.Fatalf("fill: %v", err)
		}
	}

	// All in-use, plane full: the atlas grows and replays, and the source
	// breaks its determinism promise.
	_, err = atlas.EnsureResident(glyphN(4), ContentMask, 32, 32)
	if !errors.Is(err, ErrRasterizationMismatch) {
		t.Errorf("error = %v, want ErrRasterizationMismatch", err)
	}
}

func TestEnsureResident_ColorPlane(t *testing.T) {
	device := &fakeDevice{}
	cfg := DefaultConfig()
	colorSource := newCountingSource(ContentColor)
	cfg.CustomSource = colorSource
	atlas, err := NewWithConfig(device, cfg)
	if err != nil {
		t.Fatalf("NewWithConfig() error = %v", err)
	}

	key := CustomKey(3, 16, 16, 0, 0)
	p, err := atlas.EnsureResident(key, ContentColor, 16, 16)
	if err != nil {
		t.Fatalf("EnsureResident() error = %v", err)
	}
	if p.Channels != 4 {
		t.Errorf("Channels = %d, want 4", p.Channels)
	}

	// Mask plane untouched.
	stats := atlas.Stats()
	if stats.MaskEntries != 0 || stats.ColorEntries != 1 {
		t.Errorf("entries mask=%d color=%d, want 0 and 1", stats.MaskEntries, stats.ColorEntries)
	}

	tex := atlas.ContentTexture(ContentColor).(*fakeTexture)
	want := testBitmap(ContentColor, key, 16, 16).Data
	got := tex.region(p.X, p.Y, 16, 16)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("color pixels differ at byte %d", i)
		}
	}
}

func TestTrim_Idempotent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialSide = 64
	cfg.MaxSide = 64
	atlas, _, _ := newTestAtlas(t, cfg)

	for i := 0; i < 4; i++ {
		if _, err := atlas.EnsureResident(glyphN(i), ContentMask, 32, 32); err != nil {
			t.Fatalf("fill: %v", err)
		}
	}

	entries := atlas.Stats().MaskEntries
	atlas.Trim()
	atlas.Trim()
	if got := atlas.Stats().MaskEntries; got != entries {
		t.Errorf("MaskEntries after double trim = %d, want %d", got, entries)
	}

	// Eviction works exactly as after a single trim.
	if _, err := atlas.EnsureResident(glyphN(9), ContentMask, 32, 32); err != nil {
		t.Errorf("request after double trim: %v", err)
	}
}

func TestClose(t *testing.T) {
	atlas, device, _ := newTestAtlas(t, DefaultConfig())

	if _, err := atlas.EnsureResident(glyphN(0), ContentMask, 8, 8); err != nil {
		t.Fatalf("EnsureResident() error = %v", err)
	}

	atlas.Close()
	atlas.Close() // second close is a no-op

	for _, tex := range device.textures {
		if !tex.destroyed {
			t.Errorf("texture %q not destroyed on close", tex.label)
		}
	}

	if _, err := atlas.EnsureResident(glyphN(1), ContentMask, 8, 8); !errors.Is(err, ErrAtlasClosed) {
		t.Errorf("error after close = %v, want ErrAtlasClosed", err)
	}
}

func TestStats_HitRate(t *testing.T) {
	var s Stats
	if got := s.HitRate(); got != 0 {
		t.Errorf("empty HitRate() = %v, want 0", got)
	}
	s.Hits, s.Misses = 3, 1
	if got := s.HitRate(); got != 75 {
		t.Errorf("HitRate() = %v, want 75", got)
	}
}

func TestStats_String(t *testing.T) {
	atlas, _, _ := newTestAtlas(t, DefaultConfig())
	if _, err := atlas.EnsureResident(glyphN(0), ContentMask, 8, 8); err != nil {
		t.Fatalf("EnsureResident() error = %v", err)
	}
	stats := atlas.Stats()
	if stats.Uploads != 1 {
		t.Errorf("Uploads = %d, want 1", stats.Uploads)
	}
	// Exercise the error formatting paths.
	err := &RasterMismatchError{Key: glyphN(0), Reason: "x"}
	if err.Error() == "" || !errors.Is(err, ErrRasterizationMismatch) {
		t.Error("RasterMismatchError must format and unwrap")
	}
	if fmt.Sprint(glyphN(0)) == "" {
		t.Error("Key.String() must not be empty")
	}
}
