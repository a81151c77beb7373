// Package native implements the textatlas device contract over gogpu/wgpu
// HAL. It adapts a hal.Device and hal.Queue pair into a textatlas.Device,
// and provides the glyph blit pipeline builder that feeds the shared
// textatlas.PipelineCache.
//
// The atlas receives the HAL pair from the host application, either
// directly via NewDevice or through FromProvider when the host exposes a
// shared gogpu device. The package never creates its own GPU instance;
// device bring-up belongs to the application (see cmd/atlasdemo for the
// standalone path).
//
// Usage:
//
//	dev, err := native.NewDevice(halDevice, halQueue)
//	if err != nil { ... }
//	atlas, err := textatlas.New(dev)
//	if err != nil { ... }
//
//	builder := native.NewPipelineBuilder(dev)
//	pipe, err := atlas.Pipelines().GetOrCreate(key, builder.BuildFunc(key))
package native
