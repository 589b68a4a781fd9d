//go:build !nogpu

package blit

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Pipeline is the compiled blit program: shader module, the bind group
// layout of group 0, the pipeline layout and the render pipeline.
//
// A Pipeline is immutable after creation. Bind groups and draws may be
// recorded from any goroutine; Destroy must not race with them.
type Pipeline struct {
	device hal.Device
	config Config
	opts   options

	mu         sync.Mutex
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	destroyed  bool
}

// NewPipeline builds the blit pipeline from the embedded WGSL program.
// cfg is validated once here; the shader is checked against the binding
// contract before any GPU object is created.
func NewPipeline(device hal.Device, cfg Config, opts ...Option) (*Pipeline, error) {
	return NewPipelineWithShader(device, cfg, blitShaderSource, opts...)
}

// NewPipelineWithShader builds a pipeline from caller-supplied WGSL. The
// shader must honour the same binding contract as the built-in program;
// it may differ in what the fragment stage does with the sample.
func NewPipelineWithShader(device hal.Device, cfg Config, source string, opts ...Option) (*Pipeline, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := VerifyShader(source); err != nil {
		return nil, err
	}

	p := &Pipeline{
		device: device,
		config: cfg,
		opts:   applyOptions(opts),
	}
	if err := p.createPipeline(source); err != nil {
		p.Destroy()
		return nil, err
	}
	Logger().Debug("blit: pipeline created",
		"label", p.opts.label,
		"image", FormatName(cfg.ImageFormat),
		"target", FormatName(cfg.TargetFormat),
		"sampler", cfg.Sampler.String(),
		"topology", p.opts.topology.String())
	return p, nil
}

// createPipeline creates the shader module, layouts and render pipeline.
func (p *Pipeline) createPipeline(source string) error {
	label := p.opts.label

	shaderDesc := &hal.ShaderModuleDescriptor{
		Label:  label + "_shader",
		Source: hal.ShaderSource{WGSL: source},
	}
	if p.opts.spirv {
		words, err := CompileSPIRV(source)
		if err != nil {
			return err
		}
		shaderDesc.Source = hal.ShaderSource{SPIRV: words}
	}
	shader, err := p.device.CreateShaderModule(shaderDesc)
	if err != nil {
		return fmt.Errorf("blit: create shader module: %w", err)
	}
	p.shader = shader

	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   label + "_bind_layout",
		Entries: p.config.BindGroupLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("blit: create bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("blit: create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	// No blend state: the fragment colour replaces the attachment value.
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: VertexEntryPoint,
			Buffers:    VertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.config.TargetFormat,
					Blend:     nil,
					WriteMask: p.opts.writeMask,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: p.opts.topology.Primitive(),
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("blit: create render pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

// Config returns the validated configuration, with defaults filled in.
func (p *Pipeline) Config() Config { return p.config }

// Topology returns the primitive topology the pipeline was built for.
func (p *Pipeline) Topology() Topology { return p.opts.topology }

// WriteMask returns the colour write mask of attachment 0.
func (p *Pipeline) WriteMask() gputypes.ColorWriteMask { return p.opts.writeMask }

// BindGroupLayout returns the layout of group 0.
func (p *Pipeline) BindGroupLayout() hal.BindGroupLayout {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bindLayout
}

// Destroyed reports whether Destroy has been called.
func (p *Pipeline) Destroyed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.destroyed
}

// handles returns the render pipeline and bind layout, or
// ErrPipelineDestroyed.
func (p *Pipeline) handles() (hal.RenderPipeline, hal.BindGroupLayout, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return nil, nil, ErrPipelineDestroyed
	}
	return p.pipeline, p.bindLayout, nil
}

// Destroy releases all GPU objects in reverse creation order. Safe to call
// multiple times.
func (p *Pipeline) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return
	}
	p.destroyed = true
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
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
}
