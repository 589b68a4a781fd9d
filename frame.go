//go:build !nogpu

package blit

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/math/f32"
)

// FrameFormat is the texture format of a Frame.
const FrameFormat = gputypes.TextureFormatRGBA8Unorm

// Frame is a CPU pixel buffer paired with the GPU texture it is uploaded to.
// The buffer holds straight (non-premultiplied) alpha, the same bytes the
// texture samples. Producers draw into the CPU buffer from any goroutine; the renderer
// uploads it once per presented frame. The buffer and the upload share one
// mutex, so a frame is never uploaded half-written.
type Frame struct {
	device hal.Device
	width  int
	height int

	mu     sync.Mutex
	pixels *image.NRGBA

	texture hal.Texture
	view    hal.TextureView
	sampler hal.Sampler
}

// NewFrame allocates a width x height frame: a zeroed NRGBA buffer, an
// RGBA8Unorm texture usable as copy destination and sampled texture, and a
// sampler with the given policy (zero means DefaultSampler).
func NewFrame(device hal.Device, width, height int, s SamplerConfig) (*Frame, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: frame %dx%d", ErrInvalidSize, width, height)
	}
	if s.IsZero() {
		s = DefaultSampler()
	}
	if err := s.CompatibleWith(FrameFormat); err != nil {
		return nil, err
	}

	f := &Frame{
		device: device,
		width:  width,
		height: height,
		pixels: image.NewNRGBA(image.Rect(0, 0, width, height)),
	}

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "blit_frame",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        FrameFormat,
		Usage:         gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("blit: create frame texture: %w", err)
	}
	f.texture = tex

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "blit_frame_view",
		Format:        FrameFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		f.Destroy()
		return nil, fmt.Errorf("blit: create frame view: %w", err)
	}
	f.view = view

	sampler, err := CreateSampler(device, s, "blit_frame_sampler")
	if err != nil {
		f.Destroy()
		return nil, err
	}
	f.sampler = sampler

	Logger().Debug("blit: frame allocated",
		"width", width, "height", height, "bytes", len(f.pixels.Pix))
	return f, nil
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.width }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.height }

// Update runs fn with exclusive access to the CPU buffer.
func (f *Frame) Update(fn func(img *image.NRGBA)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.pixels)
}

// Snapshot returns a copy of the CPU buffer.
func (f *Frame) Snapshot() *image.NRGBA {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := image.NewNRGBA(f.pixels.Rect)
	copy(out.Pix, f.pixels.Pix)
	return out
}

// Clear fills the CPU buffer with c.
func (f *Frame) Clear(c color.NRGBA) {
	f.Update(func(img *image.NRGBA) { ClearImage(img, c) })
}

// FillGradient paints the start-up test pattern into the CPU buffer.
func (f *Frame) FillGradient() {
	f.Update(FillGradient)
}

// SetColor stores a float colour at (x, y), quantized with ColorToRGBA8.
// Coordinates outside the frame are ignored.
func (f *Frame) SetColor(x, y int, c f32.Vec4) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !(image.Point{X: x, Y: y}.In(f.pixels.Rect)) {
		return
	}
	f.pixels.SetNRGBA(x, y, ColorToRGBA8(c))
}

// Upload copies the CPU buffer into the GPU texture.
func (f *Frame) Upload(queue hal.Queue) error {
	if queue == nil {
		return ErrNilDevice
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.texture == nil {
		return fmt.Errorf("%w: frame texture", ErrMissingBinding)
	}
	w, h := uint32(f.width), uint32(f.height)
	err := queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: f.texture, MipLevel: 0},
		tightPixels(f.pixels),
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("blit: upload frame: %w", err)
	}
	return nil
}

// Bindings returns the frame's view and sampler for group 0.
func (f *Frame) Bindings() Bindings {
	return Bindings{Image: f.view, Sampler: f.sampler}
}

// Destroy releases the GPU objects. The CPU buffer stays readable.
func (f *Frame) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.device == nil {
		return
	}
	if f.sampler != nil {
		f.device.DestroySampler(f.sampler)
		f.sampler = nil
	}
	if f.view != nil {
		f.device.DestroyTextureView(f.view)
		f.view = nil
	}
	if f.texture != nil {
		f.device.DestroyTexture(f.texture)
		f.texture = nil
	}
}
