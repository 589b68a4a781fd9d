package blit

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Binding contract. Slot indices, attribute locations and entry point names
// are shared with shaders/blit.wgsl and must change on both sides together.
const (
	// BindGroupIndex is the only bind group the pass uses.
	BindGroupIndex uint32 = 0

	// ImageBinding is the slot of the 2-D source image.
	ImageBinding uint32 = 0

	// SamplerBinding is the slot of the sampler.
	SamplerBinding uint32 = 1

	// PositionLocation is the vertex attribute location of position.
	PositionLocation uint32 = 0

	// TexCoordsLocation is the vertex attribute location of tex_coords.
	TexCoordsLocation uint32 = 1

	// TexCoordsVarying is the location of the tex_coords varying passed
	// from the vertex to the fragment stage.
	TexCoordsVarying uint32 = 0

	// ColorAttachment is the colour attachment written by the fragment stage.
	ColorAttachment uint32 = 0

	// VertexEntryPoint is the vertex stage entry point.
	VertexEntryPoint = "vs_main"

	// FragmentEntryPoint is the fragment stage entry point.
	FragmentEntryPoint = "fs_main"
)

// Config is the struct-of-slots configuration of a pipeline. It is validated
// once, when the pipeline is built.
type Config struct {
	// ImageFormat is the format of the texture bound at ImageBinding.
	ImageFormat gputypes.TextureFormat

	// Sampler is the policy of the sampler bound at SamplerBinding.
	// The zero value means DefaultSampler.
	Sampler SamplerConfig

	// TargetFormat is the format of colour attachment 0.
	TargetFormat gputypes.TextureFormat
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.Sampler.IsZero() {
		c.Sampler = DefaultSampler()
	}
	return c
}

// Validate checks formats and sampler compatibility.
func (c Config) Validate() error {
	c = c.withDefaults()
	if !FormatSupported(c.ImageFormat) {
		return fmt.Errorf("%w: image %s", ErrUnsupportedFormat, FormatName(c.ImageFormat))
	}
	if !FormatSupported(c.TargetFormat) {
		return fmt.Errorf("%w: target %s", ErrUnsupportedFormat, FormatName(c.TargetFormat))
	}
	if err := c.Sampler.CompatibleWith(c.ImageFormat); err != nil {
		return err
	}
	return nil
}

// BindGroupLayoutEntries returns the layout of bind group 0 for c.
//
//	Binding 0: source image (texture_2d, fragment)
//	Binding 1: sampler (fragment)
func (c Config) BindGroupLayoutEntries() []gputypes.BindGroupLayoutEntry {
	c = c.withDefaults()
	return []gputypes.BindGroupLayoutEntry{
		{
			Binding:    ImageBinding,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    SampleType(c.ImageFormat),
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
		{
			Binding:    SamplerBinding,
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: c.Sampler.BindingType()},
		},
	}
}
