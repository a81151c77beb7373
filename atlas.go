package textatlas

import (
	"errors"
	"sync/atomic"
)

// atlasStats aggregates counters across both planes. Counters are atomic so
// Stats can be read from a monitoring goroutine while the render thread
// drives the atlas.
type atlasStats struct {
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	uploads   atomic.Uint64
	grows     atomic.Uint64
}

// Stats is a point-in-time snapshot of atlas activity.
type Stats struct {
	// Hits is the number of requests satisfied from the cache.
	Hits uint64

	// Misses is the number of requests that required rasterization.
	Misses uint64

	// Evictions is the number of entries removed to make room.
	Evictions uint64

	// Uploads is the number of texture region writes, including growth
	// re-uploads.
	Uploads uint64

	// Grows is the number of plane growth events.
	Grows uint64

	// MaskSide and ColorSide are the current plane side lengths in texels.
	MaskSide  int
	ColorSide int

	// MaskEntries and ColorEntries count cached identities per plane,
	// including zero-area entries.
	MaskEntries  int
	ColorEntries int

	// MaskUtilization and ColorUtilization are the fractions of each
	// plane's area holding live placements.
	MaskUtilization  float64
	ColorUtilization float64
}

// HitRate returns the cache hit rate as a percentage.
// Returns 0 if there are no accesses.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// TextAtlas caches rasterized glyphs in two GPU textures, one per content
// kind: a single-channel mask plane for outline coverage and a four-channel
// color plane for emoji and icons. Glyphs are packed into rectangular
// regions, evicted least recently used first when space runs out, and the
// planes double in size when eviction alone cannot make room.
//
// A TextAtlas is driven by the single goroutine preparing a frame's draw
// data; it performs no internal locking. The typical frame is a sequence of
// EnsureResident calls followed by exactly one Trim after the frame's draws
// are recorded. The shared pipeline cache is the one exception: it is safe
// for concurrent use across renderers.
type TextAtlas struct {
	device Device
	config Config

	mask  *plane
	color *plane

	pipelines *PipelineCache

	fontSource   RasterSource
	customSource RasterSource

	stats  atlasStats
	closed bool
}

// New creates an atlas with the default configuration.
func New(device Device) (*TextAtlas, error) {
	return NewWithConfig(device, DefaultConfig())
}

// NewWithColorMode creates an atlas with the default configuration and the
// given color plane encoding.
func NewWithColorMode(device Device, mode ColorMode) (*TextAtlas, error) {
	cfg := DefaultConfig()
	cfg.ColorMode = mode
	return NewWithConfig(device, cfg)
}

// NewWithConfig creates an atlas with the given configuration. The device
// is injected by the host; the atlas never creates its own.
func NewWithConfig(device Device, cfg Config) (*TextAtlas, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &TextAtlas{
		device:       device,
		config:       cfg,
		fontSource:   cfg.FontSource,
		customSource: cfg.CustomSource,
		pipelines:    NewPipelineCache(),
	}

	mask, err := newPlane(device, ContentMask, planeFormat(ContentMask, cfg.ColorMode), cfg, &t.stats)
	if err != nil {
		return nil, err
	}
	t.mask = mask

	color, err := newPlane(device, ContentColor, planeFormat(ContentColor, cfg.ColorMode), cfg, &t.stats)
	if err != nil {
		mask.close()
		return nil, err
	}
	t.color = color

	return t, nil
}

// EnsureResident makes the glyph identified by key resident on the plane
// for kind and returns its placement. A nil placement with a nil error
// means the glyph has no pixels and nothing needs to be drawn.
//
// The returned placement stays valid until the identity is evicted, which
// cannot happen before the next Trim because every EnsureResident marks its
// identity in-use. On exhaustion the atlas grows the plane and retries
// internally; ErrAtlasAtMaximumSize reports that the plane cannot grow
// further and the caller must shed load.
func (t *TextAtlas) EnsureResident(key Key, kind ContentKind, width, height int) (*Placement, error) {
	if t.closed {
		return nil, ErrAtlasClosed
	}

	p := t.planeFor(kind)
	source, _ := t.sourceFor(key)

	for attempt := 0; attempt < growthRetryLimit; attempt++ {
		placement, err := p.ensureResident(key, width, height, source)
		if !errors.Is(err, ErrAtlasExhausted) {
			return placement, err
		}

		slogger().Warn("atlas plane exhausted, growing",
			"plane", kind, "side", p.side, "key", key.String())
		if err := p.grow(t.resolveSource); err != nil {
			return nil, err
		}
	}
	return nil, ErrAtlasExhausted
}

// growthRetryLimit bounds exhaust-grow-retry cycles within a single
// request. Growth doubles the side each cycle, so the plane reaches its
// maximum within log2(MaxSide/InitialSide) attempts.
const growthRetryLimit = 16

// Trim ends the current preparation pass by clearing both planes' in-use
// sets. Call it exactly once per frame, after every draw referencing this
// frame's atlas coordinates has been recorded. Cached placements survive;
// Trim only lifts eviction protection. Trimming twice in a row is the same
// as trimming once.
func (t *TextAtlas) Trim() {
	if t.closed {
		return
	}
	t.mask.trim()
	t.color.trim()
}

// Close destroys both plane textures and drops all cached state. The atlas
// rejects further requests with ErrAtlasClosed.
func (t *TextAtlas) Close() {
	if t.closed {
		return
	}
	t.closed = true
	t.mask.close()
	t.color.close()
}

// SetFontSource installs the rasterizer for font glyph keys.
func (t *TextAtlas) SetFontSource(source RasterSource) {
	t.fontSource = source
}

// SetCustomSource installs the rasterizer for custom glyph keys, such as a
// vector icon renderer.
func (t *TextAtlas) SetCustomSource(source RasterSource) {
	t.customSource = source
}

// ContentTexture returns the live texture backing the plane for kind.
// Growth replaces the texture, so callers should re-fetch it each frame
// rather than hold it across EnsureResident calls.
func (t *TextAtlas) ContentTexture(kind ContentKind) Texture {
	return t.planeFor(kind).texture
}

// Side returns the current side length of the plane for kind, in texels.
func (t *TextAtlas) Side(kind ContentKind) int {
	return t.planeFor(kind).side
}

// Pipelines returns the shared pipeline cache. Unlike the rest of the
// atlas it is safe for concurrent use and may be handed to other renderers.
func (t *TextAtlas) Pipelines() *PipelineCache {
	return t.pipelines
}

// Stats returns a snapshot of atlas activity.
func (t *TextAtlas) Stats() Stats {
	return Stats{
		Hits:             t.stats.hits.Load(),
		Misses:           t.stats.misses.Load(),
		Evictions:        t.stats.evictions.Load(),
		Uploads:          t.stats.uploads.Load(),
		Grows:            t.stats.grows.Load(),
		MaskSide:         t.mask.side,
		ColorSide:        t.color.side,
		MaskEntries:      t.mask.cache.len(),
		ColorEntries:     t.color.cache.len(),
		MaskUtilization:  t.mask.allocator.Utilization(),
		ColorUtilization: t.color.allocator.Utilization(),
	}
}

func (t *TextAtlas) planeFor(kind ContentKind) *plane {
	if kind == ContentColor {
		return t.color
	}
	return t.mask
}

// sourceFor returns the raster source responsible for a key.
func (t *TextAtlas) sourceFor(key Key) (RasterSource, error) {
	var source RasterSource
	if key.Kind == KeyKindCustom {
		source = t.customSource
	} else {
		source = t.fontSource
	}
	if source == nil {
		return nil, ErrNoRasterSource
	}
	return source, nil
}

// resolveSource is sourceFor shaped for plane growth re-upload, where a
// missing source for a previously placed key is a contract violation.
func (t *TextAtlas) resolveSource(key Key) (RasterSource, error) {
	source, err := t.sourceFor(key)
	if err != nil {
		return nil, &RasterMismatchError{
			Key:    key,
			Reason: "raster source removed for a previously placed glyph",
		}
	}
	return source, nil
}
