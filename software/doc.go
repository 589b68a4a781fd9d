// Package software runs the blit program on the CPU.
//
// It implements the vertex stage, the fragment stage, a WebGPU-style
// sampler (nearest and linear filtering; clamp-to-edge, repeat and
// mirror-repeat addressing; sRGB decode on fetch) and a triangle rasterizer
// with the top-left fill rule and perspective-correct varyings. Output is
// identical for any number of workers.
//
// The package serves two purposes: it is the fallback when no GPU adapter
// is available, and it is the executable reference the GPU path is checked
// against.
//
//	tex, _ := software.FromImage(img, gputypes.TextureFormatRGBA8Unorm)
//	target, _ := software.NewTarget(w, h, gputypes.TextureFormatRGBA8Unorm)
//	b := software.NewBlitter(0)
//	defer b.Close()
//	err := b.Blit(ctx, target, tex, blit.DefaultSampler(), gputypes.Color{A: 1})
package software
