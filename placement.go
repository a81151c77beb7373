package textatlas

// Placement describes where a glyph bitmap resides within a plane's texture.
//
// A nil *Placement is meaningful: it marks a cached zero-area glyph (such as
// a space) that rasterized to nothing, occupies no texture space, and must
// not be rasterized again.
type Placement struct {
	// X, Y are the top-left corner of the region in texels.
	X int
	Y int

	// Width, Height are the region dimensions in texels.
	Width  int
	Height int

	// Channels is the number of byte channels per pixel stored in the
	// region: 1 for mask coverage, 4 for color imagery.
	Channels int
}

// Area returns the region area in texels.
func (p *Placement) Area() int {
	return p.Width * p.Height
}

// UV returns normalized [0, 1] texture coordinates for sampling the region
// from a plane texture with the given side length. Coordinates survive atlas
// growth unchanged, but the side grows, so UVs must be recomputed from the
// current side rather than stored.
func (p *Placement) UV(side int) (u0, v0, u1, v1 float32) {
	s := float32(side)
	u0 = float32(p.X) / s
	v0 = float32(p.Y) / s
	u1 = float32(p.X+p.Width) / s
	v1 = float32(p.Y+p.Height) / s
	return u0, v0, u1, v1
}
