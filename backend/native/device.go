package native

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/textatlas"
)

var (
	// ErrNilHALDevice is returned when wrapping a nil HAL device.
	ErrNilHALDevice = errors.New("native: HAL device is nil")

	// ErrNilHALQueue is returned when wrapping a nil HAL queue.
	ErrNilHALQueue = errors.New("native: HAL queue is nil")

	// ErrNoHALProvider is returned when a shared-device provider does not
	// expose HAL handles.
	ErrNoHALProvider = errors.New("native: provider does not expose HAL types")

	// ErrForeignResource is returned when a texture or buffer was not
	// created by this device.
	ErrForeignResource = errors.New("native: resource created by a different device")

	// ErrTextureDestroyed is returned when writing to a destroyed texture.
	ErrTextureDestroyed = errors.New("native: texture has been destroyed")

	// ErrBufferDestroyed is returned when writing to a destroyed buffer.
	ErrBufferDestroyed = errors.New("native: buffer has been destroyed")
)

// Device implements textatlas.Device over a wgpu HAL device and queue.
//
// Key principle: the device pair is RECEIVED from the host application,
// never created here. This keeps the atlas textures on the same GPU
// device as everything else the host renders with.
//
// All writes go through queue.WriteTexture / queue.WriteBuffer, which are
// synchronous from the caller's viewpoint, matching the atlas's residency
// model.
type Device struct {
	device hal.Device
	queue  hal.Queue
}

var _ textatlas.Device = (*Device)(nil)

// NewDevice wraps a HAL device and queue.
func NewDevice(device hal.Device, queue hal.Queue) (*Device, error) {
	if device == nil {
		return nil, ErrNilHALDevice
	}
	if queue == nil {
		return nil, ErrNilHALQueue
	}
	return &Device{device: device, queue: queue}, nil
}

// FromProvider wraps a shared GPU device exposed by a host framework.
// The provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue; gogpu application contexts do.
func FromProvider(provider any) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}
	return NewDevice(device, queue)
}

// FromContext adapts a gpucontext device provider, the handle gogpu
// applications hold. The provider's concrete type must also expose
// HalDevice() any and HalQueue() any, which gogpu contexts do.
func FromContext(provider gpucontext.DeviceProvider) (*Device, error) {
	if provider == nil {
		return nil, ErrNoHALProvider
	}
	return FromProvider(provider)
}

// HAL returns the wrapped device and queue for callers building further
// GPU state (bind groups, render passes) against the same device.
func (d *Device) HAL() (hal.Device, hal.Queue) {
	return d.device, d.queue
}

// CreateTexture implements textatlas.Device.
func (d *Device) CreateTexture(desc *textatlas.TextureDescriptor) (textatlas.Texture, error) {
	halTex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        convertTextureFormat(desc.Format),
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create texture %q: %w", desc.Label, err)
	}
	return &texture{
		raw:    halTex,
		device: d.device,
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
	}, nil
}

// CreateBuffer implements textatlas.Device.
func (d *Device) CreateBuffer(desc *textatlas.BufferDescriptor) (textatlas.Buffer, error) {
	halBuf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: convertBufferUsage(desc.Usage),
	})
	if err != nil {
		return nil, fmt.Errorf("native: create buffer %q: %w", desc.Label, err)
	}
	return &buffer{
		raw:    halBuf,
		device: d.device,
		size:   desc.Size,
	}, nil
}

// WriteTexture implements textatlas.Device. It uploads the region with
// top-left corner (x, y) via queue.WriteTexture.
func (d *Device) WriteTexture(dst textatlas.Texture, x, y, width, height int, data []byte, bytesPerRow int) error {
	tex, ok := dst.(*texture)
	if !ok {
		return ErrForeignResource
	}
	if tex.destroyed {
		return ErrTextureDestroyed
	}
	if width <= 0 || height <= 0 || len(data) == 0 {
		return nil
	}

	d.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex.raw,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(x), Y: uint32(y), Z: 0},
			Aspect:   gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(bytesPerRow),
			RowsPerImage: uint32(height),
		},
		&hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}

// WriteBuffer implements textatlas.Device.
func (d *Device) WriteBuffer(dst textatlas.Buffer, offset uint64, data []byte) error {
	buf, ok := dst.(*buffer)
	if !ok {
		return ErrForeignResource
	}
	if buf.destroyed {
		return ErrBufferDestroyed
	}
	if len(data) == 0 {
		return nil
	}
	d.queue.WriteBuffer(buf.raw, offset, data)
	return nil
}

// texture wraps a hal.Texture with the metadata the atlas reads back.
// The atlas owns its textures from a single goroutine; only the lazily
// created default view is guarded, because renderers may request it while
// building bind groups.
type texture struct {
	raw    hal.Texture
	device hal.Device
	label  string
	width  uint32
	height uint32
	format textatlas.TextureFormat

	viewOnce sync.Once
	view     hal.TextureView
	viewErr  error

	destroyed bool
}

func (t *texture) Width() uint32                   { return t.width }
func (t *texture) Height() uint32                  { return t.height }
func (t *texture) Format() textatlas.TextureFormat { return t.format }

// Raw returns the underlying HAL texture handle, or nil after Destroy.
func (t *texture) Raw() hal.Texture {
	if t.destroyed {
		return nil
	}
	return t.raw
}

// View returns the default 2D view of the texture, creating it on first
// use. Renderers bind it when sampling the atlas plane.
func (t *texture) View() (hal.TextureView, error) {
	if t.destroyed {
		return nil, ErrTextureDestroyed
	}
	t.viewOnce.Do(func() {
		t.view, t.viewErr = t.device.CreateTextureView(t.raw, &hal.TextureViewDescriptor{
			Label:         t.label + " (view)",
			Format:        gputypes.TextureFormatUndefined,
			Dimension:     gputypes.TextureViewDimension2D,
			Aspect:        gputypes.TextureAspectAll,
			MipLevelCount: 1,
		})
		if t.viewErr != nil {
			t.viewErr = fmt.Errorf("native: create texture view: %w", t.viewErr)
		}
	})
	return t.view, t.viewErr
}

// Destroy implements textatlas.Texture. Idempotent.
func (t *texture) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	t.device.DestroyTexture(t.raw)
	t.raw = nil
}

// buffer wraps a hal.Buffer.
type buffer struct {
	raw       hal.Buffer
	device    hal.Device
	size      uint64
	destroyed bool
}

func (b *buffer) Size() uint64 { return b.size }

// Raw returns the underlying HAL buffer handle, or nil after Destroy.
func (b *buffer) Raw() hal.Buffer {
	if b.destroyed {
		return nil
	}
	return b.raw
}

// Destroy implements textatlas.Buffer. Idempotent.
func (b *buffer) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.device.DestroyBuffer(b.raw)
	b.raw = nil
}

// convertTextureFormat converts textatlas.TextureFormat to gputypes.TextureFormat.
func convertTextureFormat(format textatlas.TextureFormat) gputypes.TextureFormat {
	switch format {
	case textatlas.TextureFormatR8Unorm:
		return gputypes.TextureFormatR8Unorm
	case textatlas.TextureFormatRGBA8Unorm:
		return gputypes.TextureFormatRGBA8Unorm
	case textatlas.TextureFormatRGBA8UnormSRGB:
		return gputypes.TextureFormatRGBA8UnormSrgb
	case textatlas.TextureFormatBGRA8Unorm:
		return gputypes.TextureFormatBGRA8Unorm
	case textatlas.TextureFormatBGRA8UnormSRGB:
		return gputypes.TextureFormatBGRA8UnormSrgb
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

// convertBufferUsage converts textatlas.BufferUsage to gputypes.BufferUsage.
func convertBufferUsage(usage textatlas.BufferUsage) gputypes.BufferUsage {
	var result gputypes.BufferUsage

	if usage&textatlas.BufferUsageCopySrc != 0 {
		result |= gputypes.BufferUsageCopySrc
	}
	if usage&textatlas.BufferUsageCopyDst != 0 {
		result |= gputypes.BufferUsageCopyDst
	}
	if usage&textatlas.BufferUsageUniform != 0 {
		result |= gputypes.BufferUsageUniform
	}
	if usage&textatlas.BufferUsageStorage != 0 {
		result |= gputypes.BufferUsageStorage
	}

	return result
}
