//go:build !nogpu

package blit

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Bindings holds the two resources of group 0. Both must stay alive until
// every draw using them has completed on the GPU.
type Bindings struct {
	// Image is a 2-D view of the source texture (binding 0).
	Image hal.TextureView

	// Sampler is the sampler object (binding 1).
	Sampler hal.Sampler
}

func (b Bindings) validate() error {
	if b.Image == nil {
		return fmt.Errorf("%w: group(%d) binding(%d) image", ErrMissingBinding, BindGroupIndex, ImageBinding)
	}
	if b.Sampler == nil {
		return fmt.Errorf("%w: group(%d) binding(%d) sampler", ErrMissingBinding, BindGroupIndex, SamplerBinding)
	}
	return nil
}

// CreateBindGroup creates group 0 for the given image and sampler. The
// caller owns the result and releases it with device.DestroyBindGroup.
func (p *Pipeline) CreateBindGroup(b Bindings) (hal.BindGroup, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	_, layout, err := p.handles()
	if err != nil {
		return nil, err
	}
	bg, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  p.opts.label + "_bind",
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: ImageBinding, Resource: gputypes.TextureViewBinding{
				TextureView: b.Image.NativeHandle(),
			}},
			{Binding: SamplerBinding, Resource: gputypes.SamplerBinding{
				Sampler: b.Sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("blit: create bind group: %w", err)
	}
	return bg, nil
}

// CreateSampler creates a sampler object for s. A zero config creates the
// default sampler.
func CreateSampler(device hal.Device, s SamplerConfig, label string) (hal.Sampler, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if s.IsZero() {
		s = DefaultSampler()
	}
	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        label,
		AddressModeU: s.AddressModeU,
		AddressModeV: s.AddressModeV,
		AddressModeW: s.AddressModeW,
		MagFilter:    s.MagFilter,
		MinFilter:    s.MinFilter,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return nil, fmt.Errorf("blit: create sampler: %w", err)
	}
	return sampler, nil
}

// CreateVertexBuffer uploads vertices into a new vertex buffer.
func CreateVertexBuffer(device hal.Device, queue hal.Queue, vertices []Vertex, label string) (hal.Buffer, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if len(vertices) == 0 {
		return nil, fmt.Errorf("%w: empty vertex buffer", ErrInvalidVertexCount)
	}
	data := EncodeVertices(vertices)
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("blit: create vertex buffer: %w", err)
	}
	if err := queue.WriteBuffer(buf, 0, data); err != nil {
		device.DestroyBuffer(buf)
		return nil, fmt.Errorf("blit: upload vertices: %w", err)
	}
	return buf, nil
}
