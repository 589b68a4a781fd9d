package software

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/blit"
)

// Sample filters tex at normalized coordinates uv the way a WebGPU sampler
// does. There is no mip chain, so lod only selects the filter: MagFilter
// when lod <= 0, MinFilter otherwise.
func Sample(tex *Texture, s blit.SamplerConfig, uv f32.Vec2, lod float32) f32.Vec4 {
	if s.IsZero() {
		s = blit.DefaultSampler()
	}
	filter := s.MagFilter
	if lod > 0 {
		filter = s.MinFilter
	}
	if filter == gputypes.FilterModeLinear {
		return sampleLinear(tex, s, uv)
	}
	return sampleNearest(tex, s, uv)
}

// sampleNearest selects the texel containing uv.
func sampleNearest(tex *Texture, s blit.SamplerConfig, uv f32.Vec2) f32.Vec4 {
	x := int(math32.Floor(uv[0] * float32(tex.width)))
	y := int(math32.Floor(uv[1] * float32(tex.height)))
	return tex.Fetch(
		addressTexel(x, tex.width, s.AddressModeU),
		addressTexel(y, tex.height, s.AddressModeV),
	)
}

// sampleLinear interpolates the four texels around uv. Texel centres sit
// at half-integer coordinates.
func sampleLinear(tex *Texture, s blit.SamplerConfig, uv f32.Vec2) f32.Vec4 {
	fx := uv[0]*float32(tex.width) - 0.5
	fy := uv[1]*float32(tex.height) - 0.5
	x0f, y0f := math32.Floor(fx), math32.Floor(fy)
	tx, ty := fx-x0f, fy-y0f
	x0, y0 := int(x0f), int(y0f)

	xa := addressTexel(x0, tex.width, s.AddressModeU)
	xb := addressTexel(x0+1, tex.width, s.AddressModeU)
	ya := addressTexel(y0, tex.height, s.AddressModeV)
	yb := addressTexel(y0+1, tex.height, s.AddressModeV)

	c00 := tex.Fetch(xa, ya)
	c10 := tex.Fetch(xb, ya)
	c01 := tex.Fetch(xa, yb)
	c11 := tex.Fetch(xb, yb)

	var out f32.Vec4
	for ch := range 4 {
		top := c00[ch] + (c10[ch]-c00[ch])*tx
		bottom := c01[ch] + (c11[ch]-c01[ch])*tx
		out[ch] = top + (bottom-top)*ty
	}
	return out
}

// addressTexel resolves an integer texel coordinate outside [0, n) with
// the address mode.
func addressTexel(i, n int, mode gputypes.AddressMode) int {
	switch mode {
	case gputypes.AddressModeRepeat:
		return ((i % n) + n) % n
	case gputypes.AddressModeMirrorRepeat:
		period := 2 * n
		m := ((i % period) + period) % period
		if m >= n {
			m = period - 1 - m
		}
		return m
	default: // clamp-to-edge
		return min(max(i, 0), n-1)
	}
}

// lodFromDerivatives returns log2 of the larger texel-space footprint of
// one pixel step along x and along y.
func lodFromDerivatives(tex *Texture, dx, dy f32.Vec2) float32 {
	w, h := float32(tex.width), float32(tex.height)
	lx := math32.Hypot(dx[0]*w, dx[1]*h)
	ly := math32.Hypot(dy[0]*w, dy[1]*h)
	rho := math32.Max(lx, ly)
	if rho <= 0 || math32.IsNaN(rho) {
		return math32.Inf(-1)
	}
	return math32.Log2(rho)
}
