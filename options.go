package blit

import "github.com/gogpu/gputypes"

// Option configures a Pipeline or Renderer during creation.
//
// Example:
//
//	// Full-screen triangle instead of the strip quad
//	p, err := blit.NewPipeline(device, cfg, blit.WithTopology(blit.TopologyTriangleList))
type Option func(*options)

// options holds optional configuration for pipeline creation.
type options struct {
	topology    Topology
	writeMask   gputypes.ColorWriteMask
	clearColor  gputypes.Color
	renderScale float32
	flipY       bool
	spirv       bool
	label       string
	sampler     SamplerConfig
}

// defaultOptions returns the default options: strip quad, all channels
// written, white clear, one frame texel per target pixel.
func defaultOptions() options {
	return options{
		topology:    TopologyTriangleStrip,
		writeMask:   gputypes.ColorWriteMaskAll,
		clearColor:  gputypes.Color{R: 1, G: 1, B: 1, A: 1},
		renderScale: 1,
		label:       "blit",
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithTopology selects triangle strip (4-vertex quad, the default) or
// triangle list (3-vertex full-screen triangle) assembly.
func WithTopology(t Topology) Option {
	return func(o *options) {
		o.topology = t
	}
}

// WithWriteMask sets the colour write mask of attachment 0. The default
// writes all channels.
func WithWriteMask(m gputypes.ColorWriteMask) Option {
	return func(o *options) {
		o.writeMask = m
	}
}

// WithClearColor sets the colour the Renderer clears the target to before
// the blit. Only visible where the geometry does not cover the viewport.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clearColor = c
	}
}

// WithRenderScale makes the Renderer's frame smaller than the target by the
// given factor. A scale of 2 renders a 400x300 frame into an 800x600 target.
// Values below 1 are ignored.
func WithRenderScale(scale float32) Option {
	return func(o *options) {
		if scale >= 1 {
			o.renderScale = scale
		}
	}
}

// WithFlipY makes the Renderer use bottom-up texture coordinates.
func WithFlipY(flip bool) Option {
	return func(o *options) {
		o.flipY = flip
	}
}

// WithSampler sets the sampler policy of the Renderer's frame. The default
// is DefaultSampler. Pipelines take their sampler from Config instead.
func WithSampler(s SamplerConfig) Option {
	return func(o *options) {
		o.sampler = s
	}
}

// WithSPIRV compiles the shader to SPIR-V with naga before handing it to the
// device, for backends that do not accept WGSL.
func WithSPIRV(enabled bool) Option {
	return func(o *options) {
		o.spirv = enabled
	}
}

// WithLabel sets the prefix of GPU object labels.
func WithLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.label = label
		}
	}
}
