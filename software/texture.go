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

// Texture is a 2-D image in one of the supported formats. Texels are kept
// as stored: channel values in logical RGBA order, still sRGB-encoded for
// sRGB formats. Fetch applies the format's decode.
type Texture struct {
	width  int
	height int
	format gputypes.TextureFormat
	srgb   bool
	texels []f32.Vec4
}

// NewTexture allocates a zeroed width x height texture.
func NewTexture(width, height int, format gputypes.TextureFormat) (*Texture, error) {
	if !blit.FormatSupported(format) {
		return nil, fmt.Errorf("%w: %s", blit.ErrUnsupportedFormat, blit.FormatName(format))
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: texture %dx%d", blit.ErrInvalidSize, width, height)
	}
	return &Texture{
		width:  width,
		height: height,
		format: format,
		srgb:   blit.IsSRGB(format),
		texels: make([]f32.Vec4, width*height),
	}, nil
}

// Solid returns a width x height texture filled with c.
func Solid(width, height int, format gputypes.TextureFormat, c f32.Vec4) (*Texture, error) {
	t, err := NewTexture(width, height, format)
	if err != nil {
		return nil, err
	}
	for i := range t.texels {
		t.texels[i] = c
	}
	return t, nil
}

// FromImage loads img into a texture of the given format with straight
// alpha, the bytes blit.Renderer.LoadImage uploads for the same image.
// *image.NRGBA pixels are taken byte for byte; other images are converted
// to NRGBA first.
func FromImage(img image.Image, format gputypes.TextureFormat) (*Texture, error) {
	b := img.Bounds()
	t, err := NewTexture(b.Dx(), b.Dy(), format)
	if err != nil {
		return nil, err
	}

	var pix []uint8
	var stride int
	switch src := img.(type) {
	case *image.NRGBA:
		pix, stride = src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride
	default:
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		blit.CopyNRGBA(dst, img, b.Min)
		pix, stride = dst.Pix, dst.Stride
	}

	for y := 0; y < t.height; y++ {
		row := pix[y*stride:]
		for x := 0; x < t.width; x++ {
			p := row[x*4 : x*4+4]
			t.texels[y*t.width+x] = f32.Vec4{
				float32(p[0]) / 255,
				float32(p[1]) / 255,
				float32(p[2]) / 255,
				float32(p[3]) / 255,
			}
		}
	}
	return t, nil
}

// FromBytes decodes tightly packed texel data laid out as the GPU stores
// format: 8-bit channels (BGRA order for BGRA formats), little-endian
// half floats, or little-endian floats.
func FromBytes(data []byte, width, height int, format gputypes.TextureFormat) (*Texture, error) {
	t, err := NewTexture(width, height, format)
	if err != nil {
		return nil, err
	}
	bpt := blit.BytesPerTexel(format)
	if want := width * height * bpt; len(data) != want {
		return nil, fmt.Errorf("software: %s texture %dx%d needs %d bytes, got %d",
			blit.FormatName(format), width, height, want, len(data))
	}

	float := blit.IsFloat(format)
	for i := range t.texels {
		p := data[i*bpt : (i+1)*bpt]
		var c f32.Vec4
		switch {
		case float && bpt == 8:
			for ch := range 4 {
				c[ch] = float16.Frombits(binary.LittleEndian.Uint16(p[ch*2:])).Float32()
			}
		case float:
			for ch := range 4 {
				c[ch] = math.Float32frombits(binary.LittleEndian.Uint32(p[ch*4:]))
			}
		default:
			for ch := range 4 {
				c[ch] = float32(p[ch]) / 255
			}
			if blit.IsBGRA(format) {
				c[0], c[2] = c[2], c[0]
			}
		}
		t.texels[i] = c
	}
	return t, nil
}

// Width returns the texture width in texels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in texels.
func (t *Texture) Height() int { return t.height }

// Format returns the texture format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// SetTexel stores c at (x, y) as-is, without encoding.
func (t *Texture) SetTexel(x, y int, c f32.Vec4) {
	t.texels[y*t.width+x] = c
}

// Texel returns the stored value at (x, y), without decoding.
func (t *Texture) Texel(x, y int) f32.Vec4 {
	return t.texels[y*t.width+x]
}

// Fetch returns the linear value of the texel at (x, y): sRGB formats are
// decoded, others returned unchanged. x and y must be in range.
func (t *Texture) Fetch(x, y int) f32.Vec4 {
	c := t.texels[y*t.width+x]
	if t.srgb {
		c[0] = color.DecodeSRGB(c[0])
		c[1] = color.DecodeSRGB(c[1])
		c[2] = color.DecodeSRGB(c[2])
	}
	return c
}

// NRGBA returns the stored texels as an 8-bit image, quantized without
// decoding. For a texture built from GPU readback bytes this reproduces
// what the attachment holds.
func (t *Texture) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.width, t.height))
	for i, c := range t.texels {
		p := img.Pix[i*4 : i*4+4]
		p[0] = color.Unorm8(c[0])
		p[1] = color.Unorm8(c[1])
		p[2] = color.Unorm8(c[2])
		p[3] = color.Unorm8(c[3])
	}
	return img
}
