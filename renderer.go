//go:build !nogpu

package blit

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Renderer presents a Frame onto a target once per call to Render. It owns
// the pipeline, the full-viewport vertex buffer, the frame and the bind
// group that ties the frame to group 0.
//
// Resize, Render and Destroy are safe for concurrent use. Drawing into the
// frame (Frame().Update) may happen concurrently with Render.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	opts   options

	pipeline    *Pipeline
	vertexBuf   hal.Buffer
	vertexCount uint32

	mu        sync.Mutex
	width     int
	height    int
	frame     *Frame
	bindGroup hal.BindGroup

	// Offscreen attachment for RenderReadback, created on first use.
	offscreenTex  hal.Texture
	offscreenView hal.TextureView
}

// NewRenderer creates a renderer for a width x height target of the given
// format. The frame is width/scale x height/scale (see WithRenderScale).
func NewRenderer(device hal.Device, queue hal.Queue, width, height int, targetFormat gputypes.TextureFormat, opts ...Option) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target %dx%d", ErrInvalidSize, width, height)
	}
	o := applyOptions(opts)

	pipeline, err := NewPipeline(device, Config{
		ImageFormat:  FrameFormat,
		Sampler:      o.sampler,
		TargetFormat: targetFormat,
	}, opts...)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		device:   device,
		queue:    queue,
		opts:     o,
		pipeline: pipeline,
	}

	vertices := FullscreenVertices(o.topology, o.flipY)
	r.vertexBuf, err = CreateVertexBuffer(device, queue, vertices, o.label+"_vertices")
	if err != nil {
		r.Destroy()
		return nil, err
	}
	r.vertexCount = uint32(len(vertices))

	if err := r.Resize(width, height); err != nil {
		r.Destroy()
		return nil, err
	}
	Logger().Info("blit: renderer created",
		"width", width, "height", height,
		"target", FormatName(targetFormat),
		"scale", o.renderScale)
	return r, nil
}

// frameSize returns the frame size for a target size.
func (r *Renderer) frameSize(width, height int) (int, int) {
	fw := int(float32(width) / r.opts.renderScale)
	fh := int(float32(height) / r.opts.renderScale)
	return max(fw, 1), max(fh, 1)
}

// Resize reallocates the frame and bind group for a new target size. The
// new frame starts with the gradient test pattern. A resize to the current
// size is a no-op.
func (r *Renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: target %dx%d", ErrInvalidSize, width, height)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pipeline.Destroyed() {
		return ErrPipelineDestroyed
	}
	if r.frame != nil && width == r.width && height == r.height {
		return nil
	}

	fw, fh := r.frameSize(width, height)
	frame, err := NewFrame(r.device, fw, fh, r.pipeline.Config().Sampler)
	if err != nil {
		return err
	}
	frame.FillGradient()

	bg, err := r.pipeline.CreateBindGroup(frame.Bindings())
	if err != nil {
		frame.Destroy()
		return err
	}

	r.releaseFrame()
	r.releaseOffscreen()
	r.frame, r.bindGroup = frame, bg
	r.width, r.height = width, height
	Logger().Info("blit: renderer resized",
		"width", width, "height", height, "frame_width", fw, "frame_height", fh)
	return nil
}

// LoadImage replaces the frame with one of img's size holding a copy of
// img with straight alpha. The frame always covers the whole target, so the sampler scales an
// image of any other size. A Resize to a new size brings back a gradient
// frame.
func (r *Renderer) LoadImage(img image.Image) error {
	b := img.Bounds()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pipeline.Destroyed() {
		return ErrPipelineDestroyed
	}

	frame, err := NewFrame(r.device, b.Dx(), b.Dy(), r.pipeline.Config().Sampler)
	if err != nil {
		return err
	}
	frame.Update(func(dst *image.NRGBA) {
		CopyNRGBA(dst, img, b.Min)
	})

	bg, err := r.pipeline.CreateBindGroup(frame.Bindings())
	if err != nil {
		frame.Destroy()
		return err
	}
	r.releaseFrame()
	r.frame, r.bindGroup = frame, bg
	Logger().Debug("blit: renderer image loaded", "width", b.Dx(), "height", b.Dy())
	return nil
}

// Size returns the current target size.
func (r *Renderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// Frame returns the current frame. After Resize the previous frame is
// destroyed, so callers should not hold on to it across resizes.
func (r *Renderer) Frame() *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame
}

// Pipeline returns the underlying pipeline.
func (r *Renderer) Pipeline() *Pipeline {
	return r.pipeline
}

// Render uploads the frame and blits it into view, which must be an
// attachment of the target format and size given at creation or Resize.
func (r *Renderer) Render(ctx context.Context, view hal.TextureView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target := Target{View: view, Width: uint32(r.width), Height: uint32(r.height)}
	dc, err := r.prepare()
	if err != nil {
		return err
	}
	return r.pipeline.Execute(ctx, r.queue, target, dc)
}

// RenderReadback renders into an internal offscreen attachment and returns
// its pixels, tightly packed in the target format.
func (r *Renderer) RenderReadback(ctx context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pipeline.Destroyed() {
		return nil, ErrPipelineDestroyed
	}
	if err := r.ensureOffscreen(); err != nil {
		return nil, err
	}
	dc, err := r.prepare()
	if err != nil {
		return nil, err
	}
	target := Target{
		View:    r.offscreenView,
		Texture: r.offscreenTex,
		Width:   uint32(r.width),
		Height:  uint32(r.height),
	}
	return r.pipeline.ExecuteReadback(ctx, r.queue, target, dc)
}

// prepare uploads the frame and returns the draw call. Callers hold r.mu.
func (r *Renderer) prepare() (DrawCall, error) {
	if r.frame == nil || r.bindGroup == nil {
		return DrawCall{}, ErrPipelineDestroyed
	}
	if err := r.frame.Upload(r.queue); err != nil {
		return DrawCall{}, err
	}
	return DrawCall{
		BindGroup:    r.bindGroup,
		VertexBuffer: r.vertexBuf,
		VertexCount:  r.vertexCount,
	}, nil
}

func (r *Renderer) ensureOffscreen() error {
	if r.offscreenTex != nil {
		return nil
	}
	format := r.pipeline.Config().TargetFormat
	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         r.opts.label + "_offscreen",
		Size:          hal.Extent3D{Width: uint32(r.width), Height: uint32(r.height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("blit: create offscreen texture: %w", err)
	}
	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         r.opts.label + "_offscreen_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		r.device.DestroyTexture(tex)
		return fmt.Errorf("blit: create offscreen view: %w", err)
	}
	r.offscreenTex, r.offscreenView = tex, view
	return nil
}

func (r *Renderer) releaseFrame() {
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	if r.frame != nil {
		r.frame.Destroy()
		r.frame = nil
	}
}

func (r *Renderer) releaseOffscreen() {
	if r.offscreenView != nil {
		r.device.DestroyTextureView(r.offscreenView)
		r.offscreenView = nil
	}
	if r.offscreenTex != nil {
		r.device.DestroyTexture(r.offscreenTex)
		r.offscreenTex = nil
	}
}

// Destroy releases every GPU object owned by the renderer. Safe to call
// multiple times.
func (r *Renderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseOffscreen()
	r.releaseFrame()
	if r.vertexBuf != nil {
		r.device.DestroyBuffer(r.vertexBuf)
		r.vertexBuf = nil
	}
	if r.pipeline != nil {
		r.pipeline.Destroy()
	}
}
