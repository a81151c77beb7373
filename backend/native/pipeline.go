package native

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/textatlas"
)

//go:embed shaders/glyph_blit.wgsl
var glyphBlitWGSL string

// compileShader compiles WGSL source to SPIR-V words for hal consumption.
func compileShader(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("native: compile shader: %w", err)
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// GlyphPipeline bundles the GPU objects for drawing placed glyphs as
// textured quads: the compiled shader, bind group layout, pipeline
// layout, render pipeline, and the shared atlas sampler.
//
// Bind group layout:
//
//	binding 0: viewport uniform (vertex + fragment)
//	binding 1: mask plane texture (fragment)
//	binding 2: color plane texture (fragment)
//	binding 3: sampler (fragment)
type GlyphPipeline struct {
	device hal.Device

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler
}

// Pipeline returns the render pipeline handle.
func (p *GlyphPipeline) Pipeline() hal.RenderPipeline { return p.pipeline }

// BindLayout returns the bind group layout for atlas plane bindings.
func (p *GlyphPipeline) BindLayout() hal.BindGroupLayout { return p.bindLayout }

// Sampler returns the sampler used for both atlas planes.
func (p *GlyphPipeline) Sampler() hal.Sampler { return p.sampler }

// Destroy releases all pipeline resources in reverse creation order.
// Safe to call on a partially built pipeline.
func (p *GlyphPipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
	p.device = nil
}

// PipelineBuilder builds glyph blit pipeline variants for a device.
// Pair it with the atlas pipeline cache so each variant compiles once:
//
//	pipe, err := atlas.Pipelines().GetOrCreate(key, builder.BuildFunc(key))
type PipelineBuilder struct {
	device *Device
}

// NewPipelineBuilder creates a builder on the given device.
func NewPipelineBuilder(device *Device) *PipelineBuilder {
	return &PipelineBuilder{device: device}
}

// BuildFunc adapts Build to the textatlas.PipelineCache build callback.
func (b *PipelineBuilder) BuildFunc(key textatlas.PipelineKey) func() (any, error) {
	return func() (any, error) {
		return b.Build(key)
	}
}

// Build compiles the glyph blit shader and creates the pipeline variant
// for key. The caller owns the result and must call Destroy on it.
func (b *PipelineBuilder) Build(key textatlas.PipelineKey) (*GlyphPipeline, error) { //nolint:funlen // GPU pipeline descriptors are inherently verbose
	if b.device == nil {
		return nil, ErrNilHALDevice
	}
	device, _ := b.device.HAL()

	spirv, err := compileShader(glyphBlitWGSL)
	if err != nil {
		return nil, err
	}

	p := &GlyphPipeline{device: device}

	p.shader, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "glyph_blit_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("native: create shader module: %w", err)
	}

	p.bindLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "glyph_blit_bgl",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type: gputypes.BufferBindingTypeUniform,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    3,
				Visibility: gputypes.ShaderStageFragment,
				Sampler: &gputypes.SamplerBindingLayout{
					Type: gputypes.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("native: create bind group layout: %w", err)
	}

	p.pipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "glyph_blit_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("native: create pipeline layout: %w", err)
	}

	// Atlas entries pack edge to edge; linear filtering would sample
	// neighboring glyphs.
	p.sampler, err = device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "glyph_blit_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("native: create sampler: %w", err)
	}

	sampleCount := key.SampleCount
	if sampleCount == 0 {
		sampleCount = 1
	}
	premulBlend := gputypes.BlendStatePremultiplied()

	p.pipeline, err = device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "glyph_blit_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    glyphVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    convertTextureFormat(key.Format),
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("native: create render pipeline: %w", err)
	}

	return p, nil
}
