// Command atlasdemo exercises the glyph atlas end to end: it registers a
// font, makes every glyph of the input text resident, builds the quads a
// renderer would draw, and prints cache statistics over a few simulated
// frames.
//
// By default it runs against the noop HAL backend, which accepts all work
// and validates the full upload path without touching hardware. Pass -gpu
// to open a Vulkan device instead.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/textatlas"
	"github.com/gogpu/textatlas/backend/native"
	"github.com/gogpu/textatlas/fontsource"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

func main() {
	var (
		text   = flag.String("text", "Sphinx of black quartz, judge my vow", "text to make resident")
		size   = flag.Float64("size", 16, "font size in pixels")
		side   = flag.Int("side", textatlas.DefaultInitialSide, "initial atlas side in texels")
		frames = flag.Int("frames", 3, "number of simulated frames")
		useGPU = flag.Bool("gpu", false, "open a Vulkan device instead of the noop backend")
	)
	flag.Parse()

	halDevice, halQueue, cleanup, err := openDevice(*useGPU)
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	defer cleanup()

	device, err := native.NewDevice(halDevice, halQueue)
	if err != nil {
		log.Fatalf("Failed to wrap device: %v", err)
	}

	source := fontsource.New()
	fontID, err := source.Register(goregular.TTF)
	if err != nil {
		log.Fatalf("Failed to register font: %v", err)
	}

	cfg := textatlas.DefaultConfig()
	cfg.InitialSide = *side
	cfg.FontSource = source
	atlas, err := textatlas.NewWithConfig(device, cfg)
	if err != nil {
		log.Fatalf("Failed to create atlas: %v", err)
	}
	defer atlas.Close()

	// Compile the blit pipeline once through the shared cache, the way a
	// renderer would on its first frame.
	builder := native.NewPipelineBuilder(device)
	pipeKey := textatlas.PipelineKey{Format: textatlas.TextureFormatBGRA8Unorm, SampleCount: 1}
	if _, err := atlas.Pipelines().GetOrCreate(pipeKey, builder.BuildFunc(pipeKey)); err != nil {
		log.Fatalf("Failed to build glyph pipeline: %v", err)
	}

	runes := []rune(norm.NFC.String(*text))
	fontSize := float32(*size)

	for frame := 1; frame <= *frames; frame++ {
		quads, err := prepareFrame(atlas, source, fontID, runes, fontSize)
		if err != nil {
			log.Fatalf("Frame %d failed: %v", frame, err)
		}
		// Draws recording atlas coordinates would go here.
		atlas.Trim()
		fmt.Printf("frame %d: %d quads\n", frame, len(quads))
	}

	printStats(atlas.Stats())
}

// prepareFrame makes every glyph resident and lays quads along a
// baseline, the way a text renderer consumes the atlas.
func prepareFrame(atlas *textatlas.TextAtlas, source *fontsource.Source, fontID textatlas.FontID, runes []rune, size float32) ([]native.GlyphQuad, error) {
	quads := make([]native.GlyphQuad, 0, len(runes))
	penX := 16.0
	baseline := float64(size) * 2

	for _, r := range runes {
		gid, ok := source.GlyphFor(fontID, r)
		if !ok {
			continue
		}
		m, err := source.Measure(fontID, gid, size)
		if err != nil {
			return nil, fmt.Errorf("measure %q: %w", r, err)
		}

		key := textatlas.GlyphKey(fontID, gid, size, 0, 0)
		placement, err := atlas.EnsureResident(key, m.Kind, m.Width, m.Height)
		if err != nil {
			return nil, fmt.Errorf("ensure %q: %w", r, err)
		}
		if placement != nil {
			x := float32(penX + m.BearingX)
			y := float32(baseline - m.BearingY)
			quads = append(quads, native.QuadForPlacement(placement, x, y, atlas.Side(m.Kind)))
		}
		penX += m.Advance
	}

	// Serialize exactly what a draw call would upload.
	_ = native.BuildVertexData(quads)
	_ = native.BuildIndexData(len(quads))
	return quads, nil
}

func printStats(stats textatlas.Stats) {
	fmt.Println("\nAtlas statistics:")
	fmt.Printf("  Hits:      %d\n", stats.Hits)
	fmt.Printf("  Misses:    %d\n", stats.Misses)
	fmt.Printf("  Hit rate:  %.1f%%\n", stats.HitRate())
	fmt.Printf("  Evictions: %d\n", stats.Evictions)
	fmt.Printf("  Uploads:   %d\n", stats.Uploads)
	fmt.Printf("  Grows:     %d\n", stats.Grows)
	fmt.Printf("  Mask:      %dx%d, %d entries, %.1f%% used\n",
		stats.MaskSide, stats.MaskSide, stats.MaskEntries, stats.MaskUtilization*100)
	fmt.Printf("  Color:     %dx%d, %d entries, %.1f%% used\n",
		stats.ColorSide, stats.ColorSide, stats.ColorEntries, stats.ColorUtilization*100)
}

// openDevice opens a HAL device and queue with a cleanup function.
func openDevice(useGPU bool) (hal.Device, hal.Queue, func(), error) {
	if !useGPU {
		api := noop.API{}
		instance, err := api.CreateInstance(nil)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("create noop instance: %w", err)
		}
		adapters := instance.EnumerateAdapters(nil)
		openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
		if err != nil {
			instance.Destroy()
			return nil, nil, nil, fmt.Errorf("open noop device: %w", err)
		}
		cleanup := func() {
			openDev.Device.Destroy()
			instance.Destroy()
		}
		return openDev.Device, openDev.Queue, cleanup, nil
	}

	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, nil, nil, fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, nil, nil, fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, nil, nil, fmt.Errorf("open device: %w", err)
	}
	log.Printf("atlasdemo: opened %s", selected.Info.Name)
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup, nil
}
