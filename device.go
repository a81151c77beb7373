package textatlas

// TextureDescriptor describes parameters for creating an atlas texture.
type TextureDescriptor struct {
	// Label is an optional debug label for the texture.
	Label string

	// Width is the texture width in pixels.
	Width uint32

	// Height is the texture height in pixels.
	Height uint32

	// Format is the texture pixel format.
	Format TextureFormat
}

// BufferUsage specifies how a buffer can be used.
// These flags can be combined with bitwise OR.
type BufferUsage uint32

const (
	// BufferUsageCopySrc allows the buffer to be used as a copy source.
	BufferUsageCopySrc BufferUsage = 1 << iota

	// BufferUsageCopyDst allows the buffer to be used as a copy destination.
	BufferUsageCopyDst

	// BufferUsageUniform allows the buffer to back a uniform binding.
	BufferUsageUniform

	// BufferUsageStorage allows the buffer to back a storage binding.
	BufferUsageStorage
)

// BufferDescriptor describes parameters for creating a GPU buffer.
type BufferDescriptor struct {
	// Label is an optional debug label for the buffer.
	Label string

	// Size is the buffer size in bytes.
	Size uint64

	// Usage specifies how the buffer will be used.
	Usage BufferUsage
}

// Texture represents a GPU texture resource owned by the atlas.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() uint32

	// Height returns the texture height in pixels.
	Height() uint32

	// Format returns the texture pixel format.
	Format() TextureFormat

	// Destroy releases GPU resources associated with this texture.
	Destroy()
}

// Buffer represents a GPU buffer resource.
type Buffer interface {
	// Size returns the buffer size in bytes.
	Size() uint64

	// Destroy releases GPU resources associated with this buffer.
	Destroy()
}

// Device abstracts the GPU objects the atlas manages. The wgpu-backed
// implementation lives in backend/native; tests substitute an in-memory
// fake. All operations are synchronous from the atlas's viewpoint.
//
// Key principle: the atlas RECEIVES the device from the host, it does NOT
// create one. This keeps GPU resources shared between the atlas and the
// host application.
type Device interface {
	// CreateTexture creates an uninitialized texture.
	CreateTexture(desc *TextureDescriptor) (Texture, error)

	// CreateBuffer creates a buffer.
	CreateBuffer(desc *BufferDescriptor) (Buffer, error)

	// WriteTexture uploads pixel data into the region of dst with top-left
	// corner (x, y) and the given dimensions. Rows of data are bytesPerRow
	// apart; the upload reads width*channels bytes from each.
	WriteTexture(dst Texture, x, y, width, height int, data []byte, bytesPerRow int) error

	// WriteBuffer uploads data into dst starting at offset.
	WriteBuffer(dst Buffer, offset uint64, data []byte) error
}
