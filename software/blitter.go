package software

import (
	"context"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/internal/parallel"
)

// DrawCall is one software draw: the vertex buffer contents, how they are
// assembled, and the two resources of group 0.
type DrawCall struct {
	Vertices []blit.Vertex
	Topology blit.Topology

	// Image is bound at group 0 binding 0.
	Image *Texture

	// Sampler is bound at group 0 binding 1. Zero means DefaultSampler.
	Sampler blit.SamplerConfig

	// WriteMask selects the channels written. Zero means all channels.
	WriteMask gputypes.ColorWriteMask
}

func (d DrawCall) validate() error {
	if d.Image == nil {
		return fmt.Errorf("%w: group(%d) binding(%d) image", blit.ErrMissingBinding, blit.BindGroupIndex, blit.ImageBinding)
	}
	s := d.Sampler
	if s.IsZero() {
		s = blit.DefaultSampler()
	}
	if err := s.CompatibleWith(d.Image.Format()); err != nil {
		return err
	}
	return d.Topology.ValidateCount(len(d.Vertices))
}

// Blitter executes draws on the CPU. Fragment shading is split into
// horizontal bands run on a worker pool; bands own disjoint rows, and inside
// a band triangles are drawn in submission order, so the output does not
// depend on the number of workers.
//
// A Blitter may be used from several goroutines as long as their targets
// differ.
type Blitter struct {
	pool       *parallel.WorkerPool
	bandHeight int
}

// NewBlitter creates a blitter with the given number of workers.
// workers <= 0 uses GOMAXPROCS.
func NewBlitter(workers int) *Blitter {
	return &Blitter{
		pool:       parallel.NewWorkerPool(workers),
		bandHeight: parallel.DefaultBandHeight,
	}
}

// Workers returns the number of pool workers.
func (b *Blitter) Workers() int {
	return b.pool.Workers()
}

// Close stops the worker pool. Draws after Close run on the calling
// goroutine.
func (b *Blitter) Close() {
	b.pool.Close()
}

// Draw renders d into target without clearing it first. The context is
// checked once before any pixel is touched.
func (b *Blitter) Draw(ctx context.Context, target *Target, d DrawCall) error {
	if target == nil {
		return fmt.Errorf("%w: target", blit.ErrMissingBinding)
	}
	if err := d.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sampler := d.Sampler
	if sampler.IsZero() {
		sampler = blit.DefaultSampler()
	}
	mask := d.WriteMask
	if mask == 0 {
		mask = gputypes.ColorWriteMaskAll
	}

	tris := assemble(d.Vertices, d.Topology, target.width, target.height)
	blit.Logger().Debug("software: draw",
		"vertices", len(d.Vertices),
		"triangles", len(tris),
		"topology", d.Topology.String(),
		"target", blit.FormatName(target.format),
		"width", target.width, "height", target.height)
	if len(tris) == 0 {
		return nil
	}

	b.pool.ForEachBand(target.height, b.bandHeight, func(band parallel.Band) {
		shade := func(x, y int, in FragmentInput) {
			target.write(x, y, FragmentStage(in, d.Image, sampler), mask)
		}
		for i := range tris {
			tris[i].rasterize(band.Y0, band.Y1, d.Image, shade)
		}
	})
	return nil
}

// Blit clears target to clearColor and draws the full-viewport quad sampling
// img, the software counterpart of one GPU frame.
func (b *Blitter) Blit(ctx context.Context, target *Target, img *Texture, s blit.SamplerConfig, clearColor gputypes.Color) error {
	if target == nil {
		return fmt.Errorf("%w: target", blit.ErrMissingBinding)
	}
	target.Clear(clearColor)
	return b.Draw(ctx, target, DrawCall{
		Vertices: blit.FullscreenQuad(),
		Topology: blit.TopologyTriangleStrip,
		Image:    img,
		Sampler:  s,
	})
}
