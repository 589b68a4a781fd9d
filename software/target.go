package software

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/x448/float16"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/internal/color"
)

// Target is colour attachment 0 of a software draw. Pixels hold the linear
// values written by the fragment stage; the format's encoding (sRGB,
// 8-bit quantization, half floats) is applied when the target is read out.
type Target struct {
	width  int
	height int
	format gputypes.TextureFormat
	pixels []f32.Vec4
}

// NewTarget allocates a width x height attachment cleared to transparent
// black.
func NewTarget(width, height int, format gputypes.TextureFormat) (*Target, error) {
	if !blit.FormatSupported(format) {
		return nil, fmt.Errorf("%w: target %s", blit.ErrUnsupportedFormat, blit.FormatName(format))
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target %dx%d", blit.ErrInvalidSize, width, height)
	}
	return &Target{
		width:  width,
		height: height,
		format: format,
		pixels: make([]f32.Vec4, width*height),
	}, nil
}

// Width returns the target width in pixels.
func (t *Target) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *Target) Height() int { return t.height }

// Format returns the attachment format.
func (t *Target) Format() gputypes.TextureFormat { return t.format }

// Clear sets every pixel to c, like a clear load op.
func (t *Target) Clear(c gputypes.Color) {
	v := f32.Vec4{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
	for i := range t.pixels {
		t.pixels[i] = v
	}
}

// At returns the linear value stored at (x, y).
func (t *Target) At(x, y int) f32.Vec4 {
	return t.pixels[y*t.width+x]
}

// write stores c at (x, y), keeping the channels excluded by mask.
func (t *Target) write(x, y int, c f32.Vec4, mask gputypes.ColorWriteMask) {
	p := &t.pixels[y*t.width+x]
	if mask == gputypes.ColorWriteMaskAll {
		*p = c
		return
	}
	if mask&gputypes.ColorWriteMaskRed != 0 {
		p[0] = c[0]
	}
	if mask&gputypes.ColorWriteMaskGreen != 0 {
		p[1] = c[1]
	}
	if mask&gputypes.ColorWriteMaskBlue != 0 {
		p[2] = c[2]
	}
	if mask&gputypes.ColorWriteMaskAlpha != 0 {
		p[3] = c[3]
	}
}

// Bytes returns the attachment contents as the GPU would store them:
// tightly packed rows in the target format, the same layout as a GPU
// readback of a target of that format.
func (t *Target) Bytes() []byte {
	bpt := blit.BytesPerTexel(t.format)
	out := make([]byte, len(t.pixels)*bpt)
	srgb := blit.IsSRGB(t.format)
	bgra := blit.IsBGRA(t.format)
	float := blit.IsFloat(t.format)

	for i, c := range t.pixels {
		p := out[i*bpt : (i+1)*bpt]
		switch {
		case float && bpt == 8:
			for ch := range 4 {
				binary.LittleEndian.PutUint16(p[ch*2:], float16.Fromfloat32(c[ch]).Bits())
			}
		case float:
			for ch := range 4 {
				binary.LittleEndian.PutUint32(p[ch*4:], math.Float32bits(c[ch]))
			}
		default:
			p[0] = color.EncodeUnorm8(c[0], srgb)
			p[1] = color.EncodeUnorm8(c[1], srgb)
			p[2] = color.EncodeUnorm8(c[2], srgb)
			p[3] = color.Unorm8(c[3])
			if bgra {
				p[0], p[2] = p[2], p[0]
			}
		}
	}
	return out
}

// NRGBA converts the target to an 8-bit image for display or encoding.
// sRGB targets are gamma-encoded; all other formats are quantized as-is.
func (t *Target) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.width, t.height))
	srgb := blit.IsSRGB(t.format)
	for i, c := range t.pixels {
		p := img.Pix[i*4 : i*4+4]
		p[0] = color.EncodeUnorm8(c[0], srgb)
		p[1] = color.EncodeUnorm8(c[1], srgb)
		p[2] = color.EncodeUnorm8(c[2], srgb)
		p[3] = color.Unorm8(c[3])
	}
	return img
}
