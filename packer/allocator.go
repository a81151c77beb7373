// Package packer implements rectangle packing for glyph atlas textures.
//
// The allocator organizes space in horizontal shelves. Each shelf has a
// fixed height; items are packed left-to-right into free spans. Unlike a
// plain shelf packer, this allocator supports deallocation (freed spans
// are returned to their shelf and coalesced with free neighbors) and
// in-place growth (the packing area is enlarged without moving any live
// allocation).
package packer

// AllocID identifies a live allocation.
// The zero value is never issued and can be used as a sentinel.
type AllocID uint32

// NilAllocID is the invalid allocation ID.
const NilAllocID AllocID = 0

// Allocation describes a granted rectangle.
type Allocation struct {
	// ID identifies the allocation for a later Deallocate call.
	ID AllocID

	// X, Y is the top-left corner in atlas pixels.
	X, Y int

	// Width, Height is the granted size in pixels.
	Width, Height int
}

// span is a free horizontal range within a shelf.
type span struct {
	x, w int
}

// shelf is a horizontal strip of fixed height.
type shelf struct {
	y      int    // Y position of the shelf top
	height int    // Height of the shelf
	free   []span // Free spans, sorted by x, coalesced
	used   int    // Number of live allocations on this shelf
}

// region records where a live allocation sits, keyed by AllocID.
type region struct {
	shelf int // Index into Allocator.shelves
	x     int
	w, h  int
}

// Allocator packs rectangles into a square region of a given side length.
//
// Allocator is not safe for concurrent use; the owning atlas serializes
// access.
type Allocator struct {
	side    int
	shelves []shelf
	nextY   int // Top of the unshelved vertical space
	regions map[AllocID]region
	nextID  AllocID

	usedArea int
}

// NewAllocator creates an allocator covering a side×side pixel square.
func NewAllocator(side int) *Allocator {
	return &Allocator{
		side:    side,
		shelves: make([]shelf, 0, 16),
		regions: make(map[AllocID]region),
		nextID:  1,
	}
}

// Allocate finds space for a w×h rectangle.
// Returns the granted allocation and true, or a zero Allocation and false
// if no space is available. Granted rectangles never overlap.
func (a *Allocator) Allocate(w, h int) (Allocation, bool) {
	if w <= 0 || h <= 0 || w > a.side || h > a.side {
		return Allocation{}, false
	}

	// Best fit: the fitting shelf wasting the least height.
	best := -1
	bestWaste := a.side + 1
	for i := range a.shelves {
		s := &a.shelves[i]
		if h > s.height {
			continue
		}
		if waste := s.height - h; waste < bestWaste && s.fits(w) {
			best = i
			bestWaste = waste
		}
	}

	// Prefer opening a new shelf over wasting more than half the item
	// height on an existing one. Tall shelves stay available for the items
	// that need them.
	if best >= 0 && bestWaste*2 > h && a.nextY+h <= a.side {
		best = -1
	}

	if best >= 0 {
		s := &a.shelves[best]
		x := s.take(w)
		return a.grant(best, x, s.y, w, h), true
	}

	// No shelf fits; open a new one in the unshelved space below.
	if a.nextY+h > a.side {
		return Allocation{}, false
	}
	y := a.nextY
	a.nextY += h
	s := shelf{y: y, height: h}
	if w < a.side {
		s.free = []span{{x: w, w: a.side - w}}
	}
	a.shelves = append(a.shelves, s)
	return a.grant(len(a.shelves)-1, 0, y, w, h), true
}

// grant records a new live region and returns its Allocation.
func (a *Allocator) grant(shelfIdx, x, y, w, h int) Allocation {
	id := a.nextID
	a.nextID++
	a.regions[id] = region{shelf: shelfIdx, x: x, w: w, h: h}
	a.shelves[shelfIdx].used++
	a.usedArea += w * h
	return Allocation{ID: id, X: x, Y: y, Width: w, Height: h}
}

// Deallocate releases a previously granted allocation.
// Unknown IDs are ignored.
func (a *Allocator) Deallocate(id AllocID) {
	r, ok := a.regions[id]
	if !ok {
		return
	}
	delete(a.regions, id)
	a.usedArea -= r.w * r.h

	s := &a.shelves[r.shelf]
	s.used--
	s.release(r.x, r.w)

	// Retire trailing empty shelves so their vertical space can be
	// reshelved at a different height. Interior shelves keep their
	// height and are reused by later fitting allocations.
	for len(a.shelves) > 0 {
		last := &a.shelves[len(a.shelves)-1]
		if last.used != 0 {
			break
		}
		a.nextY = last.y
		a.shelves = a.shelves[:len(a.shelves)-1]
	}
}

// Grow enlarges the packing area to side×side.
// Existing allocations keep their IDs and coordinates. Each shelf's free
// space is extended to the new right edge, and the unshelved vertical
// space extends to the new bottom edge. Values not larger than the
// current side are ignored.
func (a *Allocator) Grow(side int) {
	if side <= a.side {
		return
	}
	extra := side - a.side
	for i := range a.shelves {
		s := &a.shelves[i]
		if n := len(s.free); n > 0 && s.free[n-1].x+s.free[n-1].w == a.side {
			s.free[n-1].w += extra
		} else {
			s.free = append(s.free, span{x: a.side, w: extra})
		}
	}
	a.side = side
}

// Reset clears all allocations, allowing the allocator to be reused.
func (a *Allocator) Reset() {
	a.shelves = a.shelves[:0]
	a.nextY = 0
	a.regions = make(map[AllocID]region)
	a.usedArea = 0
}

// Side returns the current side length of the packing area.
func (a *Allocator) Side() int {
	return a.side
}

// IsEmpty reports whether no allocations are live.
func (a *Allocator) IsEmpty() bool {
	return len(a.regions) == 0
}

// AllocatedArea returns the total area covered by live allocations.
func (a *Allocator) AllocatedArea() int {
	return a.usedArea
}

// Utilization returns the fraction of the packing area in use (0.0 to 1.0).
func (a *Allocator) Utilization() float64 {
	if a.side <= 0 {
		return 0
	}
	return float64(a.usedArea) / float64(a.side*a.side)
}

// ShelfCount returns the number of shelves currently open.
func (a *Allocator) ShelfCount() int {
	return len(a.shelves)
}

// fits reports whether the shelf has a free span at least w wide.
func (s *shelf) fits(w int) bool {
	for _, f := range s.free {
		if f.w >= w {
			return true
		}
	}
	return false
}

// take claims w pixels from the leftmost fitting free span and returns
// the claimed x position. The caller must have checked fits(w).
func (s *shelf) take(w int) int {
	for i := range s.free {
		if s.free[i].w < w {
			continue
		}
		x := s.free[i].x
		s.free[i].x += w
		s.free[i].w -= w
		if s.free[i].w == 0 {
			s.free = append(s.free[:i], s.free[i+1:]...)
		}
		return x
	}
	return -1
}

// release returns [x, x+w) to the shelf's free list, keeping it sorted
// and coalescing adjacent spans.
func (s *shelf) release(x, w int) {
	// Find the insertion point.
	i := 0
	for i < len(s.free) && s.free[i].x < x {
		i++
	}
	s.free = append(s.free, span{})
	copy(s.free[i+1:], s.free[i:])
	s.free[i] = span{x: x, w: w}

	// Coalesce with the right neighbor.
	if i+1 < len(s.free) && s.free[i].x+s.free[i].w == s.free[i+1].x {
		s.free[i].w += s.free[i+1].w
		s.free = append(s.free[:i+1], s.free[i+2:]...)
	}
	// Coalesce with the left neighbor.
	if i > 0 && s.free[i-1].x+s.free[i-1].w == s.free[i].x {
		s.free[i-1].w += s.free[i].w
		s.free = append(s.free[:i], s.free[i+1:]...)
	}
}
