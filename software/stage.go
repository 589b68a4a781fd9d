package software

import (
	"golang.org/x/image/math/f32"

	"github.com/gogpu/blit"
)

// VertexOutput is what the vertex stage hands to the rasterizer.
type VertexOutput struct {
	ClipPosition f32.Vec4
	TexCoords    f32.Vec2
}

// VertexStage is vs_main: the position becomes the clip position with w = 1
// and the texture coordinates pass through unchanged.
func VertexStage(v blit.Vertex) VertexOutput {
	return VertexOutput{
		ClipPosition: f32.Vec4{v.Position[0], v.Position[1], v.Position[2], 1},
		TexCoords:    v.TexCoords,
	}
}

// FragmentInput is one rasterized fragment.
type FragmentInput struct {
	// FragCoord is the pixel centre in framebuffer coordinates.
	FragCoord f32.Vec2

	// TexCoords is the perspective-correct interpolated varying.
	TexCoords f32.Vec2

	// LOD is the level of detail derived from neighbouring pixels.
	LOD float32
}

// FragmentStage is fs_main: one sample of img at the interpolated
// coordinates. Filtering and wrapping are the sampler's; sRGB decode is the
// texture's.
func FragmentStage(in FragmentInput, img *Texture, s blit.SamplerConfig) f32.Vec4 {
	return Sample(img, s, in.TexCoords, in.LOD)
}
