//go:build !nogpu

package blit

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"golang.org/x/image/math/f32"
)

// recordingQueue is a noop queue that keeps the last texture upload.
type recordingQueue struct {
	*noop.Queue
	uploads int
	data    []byte
	layout  hal.ImageDataLayout
	size    hal.Extent3D
}

func newRecordingQueue() *recordingQueue {
	return &recordingQueue{Queue: &noop.Queue{}}
}

func (q *recordingQueue) WriteTexture(_ *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error {
	q.uploads++
	q.data = append(q.data[:0], data...)
	q.layout, q.size = *layout, *size
	return nil
}

func newTestFrame(t *testing.T, w, h int) (*Frame, *recordingDevice) {
	t.Helper()
	dev := newRecordingDevice()
	f, err := NewFrame(dev, w, h, SamplerConfig{})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	t.Cleanup(f.Destroy)
	return f, dev
}

func TestNewFrame(t *testing.T) {
	f, dev := newTestFrame(t, 6, 4)
	if f.Width() != 6 || f.Height() != 4 {
		t.Errorf("size = %dx%d, want 6x4", f.Width(), f.Height())
	}
	if len(dev.textures) != 1 {
		t.Fatalf("%d textures created", len(dev.textures))
	}
	desc := dev.textures[0]
	if desc.Format != FrameFormat || desc.Size.Width != 6 || desc.Size.Height != 4 {
		t.Errorf("texture = %+v", desc)
	}
	if desc.Usage&gputypes.TextureUsageTextureBinding == 0 || desc.Usage&gputypes.TextureUsageCopyDst == 0 {
		t.Errorf("texture usage = %v", desc.Usage)
	}
	b := f.Bindings()
	if b.Image == nil || b.Sampler == nil {
		t.Errorf("bindings = %+v", b)
	}
	if len(dev.samplers) != 1 || dev.samplers[0].MagFilter != gputypes.FilterModeNearest {
		t.Errorf("frame sampler = %+v", dev.samplers)
	}
}

func TestNewFrameErrors(t *testing.T) {
	if _, err := NewFrame(nil, 1, 1, SamplerConfig{}); !errors.Is(err, ErrNilDevice) {
		t.Errorf("nil device: %v", err)
	}
	if _, err := NewFrame(newRecordingDevice(), 0, 4, SamplerConfig{}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero width: %v", err)
	}
}

func TestFramePixels(t *testing.T) {
	f, _ := newTestFrame(t, 3, 2)
	f.Clear(color.NRGBA{B: 255, A: 255})
	f.SetColor(1, 1, f32.Vec4{1, 0, 0, 1})
	f.SetColor(5, 5, f32.Vec4{0, 1, 0, 1})

	snap := f.Snapshot()
	if got := snap.NRGBAAt(1, 1); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("pixel (1,1) = %v, want red", got)
	}
	if got := snap.NRGBAAt(0, 0); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("pixel (0,0) = %v, want blue", got)
	}

	// The snapshot is a copy.
	snap.SetNRGBA(0, 0, color.NRGBA{})
	f.Update(func(img *image.NRGBA) {
		if img.NRGBAAt(0, 0).B != 255 {
			t.Error("snapshot aliases the frame buffer")
		}
	})

	f.FillGradient()
	if got := f.Snapshot().NRGBAAt(0, 0); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("gradient origin = %v", got)
	}
}

func TestFrameUpload(t *testing.T) {
	f, _ := newTestFrame(t, 3, 2)
	f.SetColor(2, 1, f32.Vec4{0, 1, 0, 1})
	q := newRecordingQueue()

	if err := f.Upload(q); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if q.uploads != 1 || len(q.data) != 3*2*4 {
		t.Fatalf("uploads = %d, %d bytes", q.uploads, len(q.data))
	}
	if q.layout.BytesPerRow != 12 || q.layout.RowsPerImage != 2 {
		t.Errorf("layout = %+v", q.layout)
	}
	if q.size.Width != 3 || q.size.Height != 2 || q.size.DepthOrArrayLayers != 1 {
		t.Errorf("extent = %+v", q.size)
	}
	if got := q.data[(1*3+2)*4+1]; got != 255 {
		t.Errorf("uploaded green = %d, want 255", got)
	}
}

func TestFrameUploadStraightAlpha(t *testing.T) {
	f, _ := newTestFrame(t, 1, 1)
	f.SetColor(0, 0, f32.Vec4{1, 0, 0, 0.5})
	q := newRecordingQueue()
	if err := f.Upload(q); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if got, want := q.data, []byte{255, 0, 0, 127}; string(got) != string(want) {
		t.Errorf("uploaded texel = %v, want %v", got, want)
	}
}

func TestFrameUploadErrors(t *testing.T) {
	f, _ := newTestFrame(t, 2, 2)
	if err := f.Upload(nil); !errors.Is(err, ErrNilDevice) {
		t.Errorf("nil queue: %v", err)
	}
	if err := f.Upload(failingQueue{&noop.Queue{}}); !errors.Is(err, errUpload) {
		t.Errorf("rejected upload: %v", err)
	}
	f.Destroy()
	f.Destroy()
	if err := f.Upload(newRecordingQueue()); !errors.Is(err, ErrMissingBinding) {
		t.Errorf("upload after Destroy: %v", err)
	}
	if f.Snapshot().Bounds().Dx() != 2 {
		t.Error("CPU buffer lost after Destroy")
	}
}
