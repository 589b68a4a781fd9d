package blit

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f32"
)

// ColorToRGBA8 quantizes a float colour to 8 bits per channel. Channels are
// clamped to [0,1] and truncated, so 0.999 maps to 254 and only 1.0 reaches
// 255. Alpha is straight: colour channels are not scaled by it.
func ColorToRGBA8(c f32.Vec4) color.NRGBA {
	return color.NRGBA{
		R: unorm8(c[0]),
		G: unorm8(c[1]),
		B: unorm8(c[2]),
		A: unorm8(c[3]),
	}
}

func unorm8(v float32) uint8 {
	switch {
	case v != v, v <= 0: // NaN or negative
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v * 255)
}

// FillGradient paints img with the start-up test pattern: red grows
// top to bottom, green grows left to right, blue and alpha are full.
func FillGradient(img *image.NRGBA) {
	b := img.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	for y := 0; y < b.Dy(); y++ {
		r := float32(y) / h
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < b.Dx(); x++ {
			c := ColorToRGBA8(f32.Vec4{r, float32(x) / w, 1, 1})
			row[x*4+0] = c.R
			row[x*4+1] = c.G
			row[x*4+2] = c.B
			row[x*4+3] = c.A
		}
	}
}

// ClearImage fills img with a single colour.
func ClearImage(img *image.NRGBA, c color.NRGBA) {
	b := img.Bounds()
	if b.Empty() {
		return
	}
	start := img.PixOffset(b.Min.X, b.Min.Y)
	row := img.Pix[start : start+b.Dx()*4]
	for x := 0; x < b.Dx(); x++ {
		row[x*4+0] = c.R
		row[x*4+1] = c.G
		row[x*4+2] = c.B
		row[x*4+3] = c.A
	}
	for y := 1; y < b.Dy(); y++ {
		copy(img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):], row)
	}
}

// CopyNRGBA copies src, starting at sp, into dst with straight alpha.
// An *image.NRGBA source is copied byte for byte; any other image goes
// through the NRGBA colour model, which undoes premultiplication.
func CopyNRGBA(dst *image.NRGBA, src image.Image, sp image.Point) {
	r := dst.Bounds()
	n, ok := src.(*image.NRGBA)
	if !ok {
		draw.Draw(dst, r, src, sp, draw.Src)
		return
	}
	sr := image.Rectangle{Min: sp, Max: sp.Add(r.Size())}.Intersect(n.Rect)
	rowBytes := sr.Dx() * 4
	for y := 0; y < sr.Dy(); y++ {
		d := dst.PixOffset(r.Min.X, r.Min.Y+y)
		s := n.PixOffset(sr.Min.X, sr.Min.Y+y)
		copy(dst.Pix[d:d+rowBytes], n.Pix[s:s+rowBytes])
	}
}

// tightPixels returns the pixels of img with rows packed without padding.
func tightPixels(img *image.NRGBA) []byte {
	b := img.Bounds()
	rowBytes := b.Dx() * 4
	if img.Stride == rowBytes && len(img.Pix) == rowBytes*b.Dy() {
		return img.Pix
	}
	out := make([]byte, rowBytes*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*rowBytes:], img.Pix[off:off+rowBytes])
	}
	return out
}
