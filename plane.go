package textatlas

import (
	"fmt"

	"github.com/gogpu/textatlas/packer"
)

// plane binds one content kind's texture, allocator, recency cache, and
// in-use set. The two planes of an atlas are independent: they never share
// texture space and evict separately.
type plane struct {
	kind   ContentKind
	format TextureFormat

	device  Device
	texture Texture

	side         int
	maxSide      int
	growthFactor int

	allocator *packer.Allocator
	cache     *recencyCache
	inUse     inUseSet

	stats *atlasStats
}

func newPlane(device Device, kind ContentKind, format TextureFormat, cfg Config, stats *atlasStats) (*plane, error) {
	texture, err := device.CreateTexture(&TextureDescriptor{
		Label:  fmt.Sprintf("textatlas-%s", kind),
		Width:  uint32(cfg.InitialSide),
		Height: uint32(cfg.InitialSide),
		Format: format,
	})
	if err != nil {
		return nil, fmt.Errorf("textatlas: create %s plane texture: %w", kind, err)
	}

	return &plane{
		kind:         kind,
		format:       format,
		device:       device,
		texture:      texture,
		side:         cfg.InitialSide,
		maxSide:      cfg.MaxSide,
		growthFactor: cfg.GrowthFactor,
		allocator:    packer.NewAllocator(cfg.InitialSide),
		cache:        newRecencyCache(),
		inUse:        make(inUseSet),
		stats:        stats,
	}, nil
}

// ensureResident makes the glyph identified by key resident in the plane
// texture and returns its placement. A nil placement with a nil error means
// the glyph has no pixels.
//
// On a cache hit the entry is promoted and marked in-use without touching
// the rasterizer. On a miss the plane allocates space, evicting least
// recently used entries as needed, rasterizes through source, uploads, and
// records the new entry as most recently used. ErrAtlasExhausted reports
// that eviction could not free enough space; the atlas responds by growing
// the plane and retrying.
func (p *plane) ensureResident(key Key, width, height int, source RasterSource) (*Placement, error) {
	if entry, ok := p.cache.get(key); ok {
		p.inUse.add(key)
		p.stats.hits.Add(1)
		return entry.placement, nil
	}
	p.stats.misses.Add(1)

	// Zero-area glyphs (spaces, empty outlines) are cached as absent so
	// they are never rasterized again. They hold no allocator region.
	if width <= 0 || height <= 0 {
		p.cache.insert(key, nil, packer.NilAllocID)
		p.inUse.add(key)
		return nil, nil
	}

	// A glyph larger than the maximum texture side can never fit, no
	// matter how much is evicted or grown.
	if width > p.maxSide || height > p.maxSide {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrGlyphTooLarge, width, height, p.maxSide)
	}

	if source == nil {
		return nil, ErrNoRasterSource
	}

	alloc, ok := p.allocator.Allocate(width, height)
	if !ok {
		alloc, ok = p.evictUntilFits(width, height)
	}
	if !ok {
		return nil, ErrAtlasExhausted
	}

	bitmap, err := source.Rasterize(key, width, height)
	if err != nil {
		p.allocator.Deallocate(alloc.ID)
		return nil, fmt.Errorf("textatlas: rasterize %s: %w", key, err)
	}
	if bitmap == nil {
		// Intentionally absent glyph: cache the absence, release the
		// region that was reserved for it.
		p.allocator.Deallocate(alloc.ID)
		p.cache.insert(key, nil, packer.NilAllocID)
		p.inUse.add(key)
		return nil, nil
	}
	if bitmap.Kind != p.kind {
		p.allocator.Deallocate(alloc.ID)
		return nil, &RasterMismatchError{
			Key:    key,
			Reason: fmt.Sprintf("produced %s pixels on the %s plane", bitmap.Kind, p.kind),
		}
	}
	if err := bitmap.validate(width, height); err != nil {
		p.allocator.Deallocate(alloc.ID)
		return nil, err
	}

	if err := p.upload(alloc.X, alloc.Y, width, height, bitmap.Data); err != nil {
		p.allocator.Deallocate(alloc.ID)
		return nil, fmt.Errorf("textatlas: upload %s: %w", key, err)
	}

	placement := &Placement{
		X:        alloc.X,
		Y:        alloc.Y,
		Width:    width,
		Height:   height,
		Channels: p.kind.Channels(),
	}
	p.cache.insert(key, placement, alloc.ID)
	p.inUse.add(key)

	slogger().Debug("glyph placed",
		"plane", p.kind, "key", key.String(),
		"x", alloc.X, "y", alloc.Y, "w", width, "h", height)
	return placement, nil
}

// evictUntilFits walks the recency list from least to most recently used,
// evicting entries until an allocation of width x height succeeds.
//
// Zero-area entries hold no region: stale ones are dropped in passing,
// in-use ones are skipped. An in-use entry that does hold a region stops
// the scan cold, because evicting a glyph referenced by the current frame
// would corrupt draws already recorded against its coordinates.
func (p *plane) evictUntilFits(width, height int) (packer.Allocation, bool) {
	scan := p.cache.oldest()
	for scan != nil {
		newer := scan.prev

		if scan.placement == nil {
			if !p.inUse.has(scan.key) {
				p.cache.removeEntry(scan)
			}
			scan = newer
			continue
		}

		if p.inUse.has(scan.key) {
			return packer.Allocation{}, false
		}

		slogger().Debug("glyph evicted", "plane", p.kind, "key", scan.key.String())
		p.allocator.Deallocate(scan.region)
		p.cache.removeEntry(scan)
		p.stats.evictions.Add(1)

		if alloc, ok := p.allocator.Allocate(width, height); ok {
			return alloc, true
		}
		scan = newer
	}
	return packer.Allocation{}, false
}

// grow replaces the plane texture with one growthFactor times larger (capped
// at maxSide), extends the allocator in place, and re-uploads every resident
// bitmap at its original coordinates. Recency order and the in-use set are
// unaffected.
//
// Re-upload re-invokes the raster source for each entry through resolve; a
// source that returns nothing, different dimensions, or a different content
// kind than it originally produced violates its determinism contract, which
// is fatal.
func (p *plane) grow(resolve func(Key) (RasterSource, error)) error {
	if p.side >= p.maxSide {
		return ErrAtlasAtMaximumSize
	}
	newSide := p.side * p.growthFactor
	if newSide > p.maxSide {
		newSide = p.maxSide
	}

	texture, err := p.device.CreateTexture(&TextureDescriptor{
		Label:  fmt.Sprintf("textatlas-%s", p.kind),
		Width:  uint32(newSide),
		Height: uint32(newSide),
		Format: p.format,
	})
	if err != nil {
		return fmt.Errorf("textatlas: create %s plane texture: %w", p.kind, err)
	}

	old := p.texture
	p.texture = texture
	p.side = newSide
	p.allocator.Grow(newSide)

	// Replay every placed entry into the new texture. Coordinates are
	// unchanged; only the backing storage moved.
	for entry := p.cache.head; entry != nil; entry = entry.next {
		if entry.placement == nil {
			continue
		}
		if err := p.reupload(entry, resolve); err != nil {
			old.Destroy()
			return err
		}
	}
	old.Destroy()

	p.stats.grows.Add(1)
	slogger().Info("atlas plane grown",
		"plane", p.kind, "side", newSide, "entries", p.cache.len())
	return nil
}

// reupload regenerates one entry's bitmap and writes it at its stored
// coordinates.
func (p *plane) reupload(entry *atlasEntry, resolve func(Key) (RasterSource, error)) error {
	pl := entry.placement
	source, err := resolve(entry.key)
	if err != nil {
		return err
	}

	bitmap, err := source.Rasterize(entry.key, pl.Width, pl.Height)
	if err != nil {
		return fmt.Errorf("textatlas: re-rasterize %s: %w", entry.key, err)
	}
	if bitmap == nil {
		return &RasterMismatchError{
			Key:    entry.key,
			Reason: "returned no bitmap for a previously placed glyph",
		}
	}
	if bitmap.Kind != p.kind {
		return &RasterMismatchError{
			Key:    entry.key,
			Reason: fmt.Sprintf("content kind changed to %s", bitmap.Kind),
		}
	}
	if want := pl.Width * pl.Height * p.kind.Channels(); len(bitmap.Data) != want {
		return &RasterMismatchError{
			Key:    entry.key,
			Reason: fmt.Sprintf("byte length changed: got %d, want %d", len(bitmap.Data), want),
		}
	}

	if err := p.upload(pl.X, pl.Y, pl.Width, pl.Height, bitmap.Data); err != nil {
		return fmt.Errorf("textatlas: re-upload %s: %w", entry.key, err)
	}
	return nil
}

// upload writes a tightly packed rectangle into the plane texture.
func (p *plane) upload(x, y, width, height int, data []byte) error {
	p.stats.uploads.Add(1)
	return p.device.WriteTexture(p.texture, x, y, width, height, data, width*p.kind.Channels())
}

// trim clears the in-use set. Cached placements are untouched.
func (p *plane) trim() {
	p.inUse.clear()
}

// close destroys the plane texture and drops all cached state.
func (p *plane) close() {
	if p.texture != nil {
		p.texture.Destroy()
		p.texture = nil
	}
	p.cache.clear()
	p.inUse.clear()
	p.allocator.Reset()
}
