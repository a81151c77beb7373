package textatlas

import (
	"encoding/binary"
	"fmt"
	"math"
)

// viewportUniformSize is the byte size of the resolution uniform block:
// two float32 dimensions padded to 16 bytes per uniform alignment rules.
const viewportUniformSize = 16

// Viewport owns the uniform buffer carrying the render target resolution
// for glyph shaders. The buffer is written only when the resolution
// actually changes, so calling Update every frame is free while the window
// size is stable.
//
// Like the atlas, a Viewport belongs to the single goroutine preparing
// frames.
type Viewport struct {
	device Device
	buffer Buffer

	width  uint32
	height uint32
}

// NewViewport creates the resolution uniform buffer. The buffer holds
// zeros until the first Update.
func NewViewport(device Device) (*Viewport, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	buffer, err := device.CreateBuffer(&BufferDescriptor{
		Label: "textatlas-viewport",
		Size:  viewportUniformSize,
		Usage: BufferUsageUniform | BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("textatlas: create viewport buffer: %w", err)
	}
	return &Viewport{device: device, buffer: buffer}, nil
}

// Update uploads the resolution if it differs from the last upload.
func (v *Viewport) Update(width, height uint32) error {
	if width == v.width && height == v.height {
		return nil
	}
	v.width = width
	v.height = height

	var buf [viewportUniformSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(float32(width)))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(float32(height)))
	return v.device.WriteBuffer(v.buffer, 0, buf[:])
}

// Buffer returns the uniform buffer for binding.
func (v *Viewport) Buffer() Buffer {
	return v.buffer
}

// Resolution returns the last uploaded resolution.
func (v *Viewport) Resolution() (width, height uint32) {
	return v.width, v.height
}

// Close destroys the uniform buffer.
func (v *Viewport) Close() {
	if v.buffer != nil {
		v.buffer.Destroy()
		v.buffer = nil
	}
}
