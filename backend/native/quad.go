package native

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/textatlas"
)

// glyphVertexStride is the byte size of one glyph vertex:
// position (vec2<f32>) + tex_coord (vec2<f32>) + plane (f32).
const glyphVertexStride = 20

// MaxQuadsPerDraw is the largest quad count a single draw can index with
// 16-bit indices: 16384 quads use vertices 0 through 65535.
const MaxQuadsPerDraw = 16384

// GlyphQuad is one screen-space rectangle textured from an atlas plane.
// Positions are in pixels with Y down; UVs are normalized atlas
// coordinates. Plane selects the sampled texture: 0 for the mask plane,
// 1 for the color plane.
type GlyphQuad struct {
	X0, Y0 float32
	X1, Y1 float32
	U0, V0 float32
	U1, V1 float32
	Plane  float32
}

// QuadForPlacement builds the quad that draws a placed glyph at pixel
// position (x, y) with the glyph's top-left corner there. side is the
// current atlas side; UVs must come from the live side because growth
// keeps texel coordinates but rescales UV space.
func QuadForPlacement(p *textatlas.Placement, x, y float32, side int) GlyphQuad {
	u0, v0, u1, v1 := p.UV(side)
	plane := float32(0)
	if p.Channels == 4 {
		plane = 1
	}
	return GlyphQuad{
		X0: x, Y0: y,
		X1: x + float32(p.Width), Y1: y + float32(p.Height),
		U0: u0, V0: v0,
		U1: u1, V1: v1,
		Plane: plane,
	}
}

// glyphVertexLayout returns the vertex buffer layout for the glyph blit
// pipeline. Matches VertexInput in glyph_blit.wgsl:
//
//	location 0: position (vec2<f32>)
//	location 1: tex_coord (vec2<f32>)
//	location 2: plane (f32)
func glyphVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: glyphVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32, Offset: 16, ShaderLocation: 2},
			},
		},
	}
}

// BuildVertexData serializes quads into raw vertex bytes for GPU upload.
// Each quad produces 4 vertices x 20 bytes = 80 bytes.
func BuildVertexData(quads []GlyphQuad) []byte {
	if len(quads) == 0 {
		return nil
	}
	data := make([]byte, len(quads)*4*glyphVertexStride)
	off := 0
	for _, q := range quads {
		// Vertex 0: top-left
		writeGlyphVertex(data[off:], q.X0, q.Y0, q.U0, q.V0, q.Plane)
		off += glyphVertexStride
		// Vertex 1: top-right
		writeGlyphVertex(data[off:], q.X1, q.Y0, q.U1, q.V0, q.Plane)
		off += glyphVertexStride
		// Vertex 2: bottom-right
		writeGlyphVertex(data[off:], q.X1, q.Y1, q.U1, q.V1, q.Plane)
		off += glyphVertexStride
		// Vertex 3: bottom-left
		writeGlyphVertex(data[off:], q.X0, q.Y1, q.U0, q.V1, q.Plane)
		off += glyphVertexStride
	}
	return data
}

// writeGlyphVertex writes a single glyph vertex into buf.
func writeGlyphVertex(buf []byte, x, y, u, v, plane float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(x))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(y))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(u))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(plane))
}

// BuildIndexData serializes quad indices into raw bytes for GPU upload.
// Uses the pattern 0,1,2, 2,3,0 for each quad (two triangles).
func BuildIndexData(numQuads int) []byte {
	if numQuads <= 0 {
		return nil
	}
	data := make([]byte, numQuads*6*2)
	for i := 0; i < numQuads; i++ {
		base := i * 12
		vertex := uint16(i * 4) //nolint:gosec // numQuads is bounded by MaxQuadsPerDraw

		binary.LittleEndian.PutUint16(data[base+0:], vertex+0)
		binary.LittleEndian.PutUint16(data[base+2:], vertex+1)
		binary.LittleEndian.PutUint16(data[base+4:], vertex+2)

		binary.LittleEndian.PutUint16(data[base+6:], vertex+2)
		binary.LittleEndian.PutUint16(data[base+8:], vertex+3)
		binary.LittleEndian.PutUint16(data[base+10:], vertex+0)
	}
	return data
}
