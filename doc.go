// Package textatlas caches rasterized glyphs in GPU textures.
//
// Rasterizing glyphs is expensive; a text renderer wants every glyph of a
// frame resident as a GPU-sampleable bitmap so many glyphs draw in one
// pass. TextAtlas manages that residency: it packs glyph bitmaps into two
// bounded textures (a single-channel mask plane and a four-channel color
// plane), evicts least-recently-used entries under memory pressure, and
// doubles the texture size when eviction alone cannot make room.
//
// # Quick start
//
//	device := native.NewDevice(halDevice, halQueue)
//	cfg := textatlas.DefaultConfig()
//	cfg.FontSource = fonts
//	atlas, err := textatlas.NewWithConfig(device, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer atlas.Close()
//
//	// Per frame: make every glyph resident, record draws, then trim.
//	key := textatlas.GlyphKey(fontID, gid, 16, xBin, yBin)
//	p, err := atlas.EnsureResident(key, textatlas.ContentMask, w, h)
//	// ... record draws referencing p.X, p.Y ...
//	atlas.Trim()
//
// # Model
//
// Each content kind owns one plane: a texture, a rectangle packer, an
// LRU recency cache, and an in-use set. EnsureResident promotes hits,
// allocates and uploads misses, and evicts cold entries when the packer
// is full. Entries referenced since the last Trim are protected from
// eviction; a request that could only be satisfied by evicting one of
// them grows the plane instead, and surfaces ErrAtlasAtMaximumSize once
// the platform texture limit is reached. Growth never moves a placement:
// the plane allocates a larger texture and re-uploads every resident
// bitmap at its original coordinates.
//
// All atlas operations must run on the goroutine preparing a frame;
// there is exactly one writer and no internal locking. The only state
// shared between renderer instances, the pipeline-state cache, carries
// its own lock.
package textatlas
