// Package color implements the sRGB transfer functions applied by texel
// fetch from sRGB images and by writes to sRGB attachments.
//
// Alpha is never gamma-encoded; only the colour channels pass through the
// transfer functions.
//
// References:
//   - sRGB specification: https://www.w3.org/Graphics/Color/sRGB
package color

import "github.com/chewxy/math32"

// SRGBToLinear decodes one sRGB channel in [0,1].
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4)
func SRGBToLinear(s float32) float32 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math32.Pow((s+0.055)/1.055, 2.4)
}

// LinearToSRGB encodes one linear channel. Input is clamped to [0,1].
// Formula: if l <= 0.0031308: l*12.92; else: 1.055*pow(l, 1/2.4)-0.055
func LinearToSRGB(l float32) float32 {
	l = Saturate(l)
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math32.Pow(l, 1.0/2.4) - 0.055
}

// srgb8ToLinear holds the decoded value of every 8-bit sRGB code.
var srgb8ToLinear [256]float32

func init() {
	for i := range srgb8ToLinear {
		srgb8ToLinear[i] = SRGBToLinear(float32(i) / 255)
	}
}

// DecodeSRGB is SRGBToLinear with a table lookup for exact 8-bit codes,
// which covers every texel loaded from 8-bit sRGB data.
func DecodeSRGB(s float32) float32 {
	if s >= 0 && s <= 1 {
		code := math32.Round(s * 255)
		if code/255 == s {
			return srgb8ToLinear[uint8(code)]
		}
	}
	return SRGBToLinear(s)
}

// Saturate clamps v to [0,1]. NaN becomes 0.
func Saturate(v float32) float32 {
	if math32.IsNaN(v) {
		return 0
	}
	return min(max(v, 0), 1)
}

// Unorm8 quantizes v to an 8-bit unsigned normalized value, rounding to
// nearest as colour attachments do.
func Unorm8(v float32) uint8 {
	return uint8(math32.Round(Saturate(v) * 255))
}

// EncodeUnorm8 converts a linear channel to the 8-bit code stored in an
// attachment, applying the sRGB transfer when srgb is set.
func EncodeUnorm8(v float32, srgb bool) uint8 {
	if srgb {
		v = LinearToSRGB(v)
	}
	return Unorm8(v)
}
