// Package blit presents an off-screen colour image on a target surface by
// drawing one full-viewport primitive textured with that image.
//
// The pass is the terminal stage of a rendering pipeline: whatever was
// produced into an intermediate render target (a ray-traced frame, a video
// frame, a composited layer) is copied and optionally resampled into the
// presentable surface. It runs on gogpu/wgpu (zero CGO) through the hal
// layer.
//
// # Shading program
//
// The program is two pure stages (see shaders/blit.wgsl):
//
//   - vs_main: clip_position = (position, 1.0); tex_coords copied unchanged.
//     No model/view/projection transform is applied. Use [Transform] to bake
//     one into the positions before upload.
//   - fs_main: color = textureSample(image, sampler, tex_coords).
//
// Filtering, addressing (clamp, repeat, mirror) and sRGB decode are properties
// of the bound sampler and image format, never of the shading logic.
//
// # Binding contract
//
// The contract is positional and fixed:
//
//	vertex location 0   position    Float32x3  offset 0
//	vertex location 1   tex_coords  Float32x2  offset 12   (stride 20)
//	group 0 binding 0   texture_2d<f32>
//	group 0 binding 1   sampler (filtering or non-filtering)
//	color attachment 0  vec4<f32>, no blending
//
// [NewPipeline] validates a [Config] (image format, sampler, target format)
// once and reflects the WGSL with gogpu/naga to check that the shader honours
// the same slots. Mismatches are construction-time errors; nothing is looked
// up by name per frame.
//
// # Usage
//
//	pipe, err := blit.NewPipeline(device, queue, blit.Config{
//	    ImageFormat:  gputypes.TextureFormatRGBA8Unorm,
//	    Sampler:      blit.DefaultSampler(),
//	    TargetFormat: gputypes.TextureFormatBGRA8Unorm,
//	})
//	if err != nil {
//	    return err
//	}
//	defer pipe.Destroy()
//
//	group, err := pipe.CreateBindGroup(blit.Bindings{Image: view, Sampler: sampler})
//	verts, err := pipe.CreateVertexBuffer(blit.FullscreenQuad())
//	err = pipe.Execute(ctx, blit.Target{View: surfaceView, Width: w, Height: h},
//	    blit.DrawCall{Bindings: group, Vertices: verts})
//
// [Renderer] bundles a pipeline, a CPU-writable [Frame] and the quad vertex
// buffer for the common "upload a frame, present it" loop.
//
// The software package implements the same two stages on the CPU and is used
// as a fallback when no GPU adapter is available.
//
// # Logging
//
// The package is silent by default. Call [SetLogger] to receive slog records.
package blit
