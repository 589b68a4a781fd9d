//go:build !nogpu

package blit

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// defaultWaitTimeout bounds the GPU wait when the context has no deadline.
const defaultWaitTimeout = 5 * time.Second

// pollInterval is the sleep between PollCompleted checks.
const pollInterval = 500 * time.Microsecond

// copyPitchAlignment is the WebGPU row pitch alignment for texture copies.
const copyPitchAlignment = 256

// Target describes colour attachment 0.
type Target struct {
	// View is the attachment view the pass renders into.
	View hal.TextureView

	// Texture backs View. Only needed for readback.
	Texture hal.Texture

	// Width and Height are the attachment size in pixels.
	Width, Height uint32
}

// DrawCall is one draw of the pass: a bind group created by
// Pipeline.CreateBindGroup and a vertex buffer in the VertexLayout format.
type DrawCall struct {
	BindGroup    hal.BindGroup
	VertexBuffer hal.Buffer
	VertexCount  uint32
}

func (d DrawCall) validate(t Topology) error {
	if d.BindGroup == nil {
		return fmt.Errorf("%w: bind group", ErrMissingBinding)
	}
	if d.VertexBuffer == nil {
		return fmt.Errorf("%w: vertex buffer", ErrMissingBinding)
	}
	return t.ValidateCount(int(d.VertexCount))
}

// RecordDraw records the draw into an open render pass. The pass is owned
// by the caller, which allows the blit to share a pass with other work.
func (p *Pipeline) RecordDraw(rp hal.RenderPassEncoder, d DrawCall) error {
	if err := d.validate(p.opts.topology); err != nil {
		return err
	}
	pipeline, _, err := p.handles()
	if err != nil {
		return err
	}
	rp.SetPipeline(pipeline)
	rp.SetBindGroup(BindGroupIndex, d.BindGroup, nil)
	rp.SetVertexBuffer(0, d.VertexBuffer, 0)
	rp.Draw(d.VertexCount, 1, 0, 0)
	return nil
}

// encodePass begins a render pass on target that clears to the configured
// clear colour, records the draw and ends the pass.
func (p *Pipeline) encodePass(encoder hal.CommandEncoder, target Target, d DrawCall) error {
	if target.View == nil {
		return fmt.Errorf("%w: target view", ErrMissingBinding)
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: p.opts.label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       target.View,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: p.opts.clearColor,
		}},
	})
	err := p.RecordDraw(rp, d)
	rp.End()
	return err
}

// Execute encodes one blit into target, submits it and waits for the GPU.
// The wait is bounded by the context deadline, or five seconds without one.
func (p *Pipeline) Execute(ctx context.Context, queue hal.Queue, target Target, d DrawCall) error {
	if queue == nil {
		return ErrNilDevice
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	encoder, err := p.beginEncoder("blit_frame")
	if err != nil {
		return err
	}
	if err := p.encodePass(encoder, target, d); err != nil {
		encoder.DiscardEncoding()
		return err
	}
	return p.submitAndWait(ctx, queue, encoder)
}

// ExecuteReadback is Execute followed by a copy of the attachment to host
// memory. The returned slice holds tightly packed rows in the target format.
func (p *Pipeline) ExecuteReadback(ctx context.Context, queue hal.Queue, target Target, d DrawCall) ([]byte, error) {
	if queue == nil {
		return nil, ErrNilDevice
	}
	if target.Texture == nil {
		return nil, fmt.Errorf("%w: target texture", ErrMissingBinding)
	}
	if target.Width == 0 || target.Height == 0 {
		return nil, fmt.Errorf("%w: target %dx%d", ErrInvalidSize, target.Width, target.Height)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	encoder, err := p.beginEncoder("blit_readback")
	if err != nil {
		return nil, err
	}
	if err := p.encodePass(encoder, target, d); err != nil {
		encoder.DiscardEncoding()
		return nil, err
	}

	// Attachment layout must become a copy source before the copy.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: target.Texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	bytesPerRow := target.Width * uint32(BytesPerTexel(p.config.TargetFormat))
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(target.Height)

	staging, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: p.opts.label + "_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("blit: create staging buffer: %w", err)
	}
	defer p.device.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(target.Texture, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: target.Height},
		TextureBase:  hal.ImageCopyTexture{Texture: target.Texture, MipLevel: 0},
		Size:         hal.Extent3D{Width: target.Width, Height: target.Height, DepthOrArrayLayers: 1},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: target.Texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	if err := p.submitAndWait(ctx, queue, encoder); err != nil {
		return nil, err
	}

	readback, err := p.readBuffer(staging, stagingSize)
	if err != nil {
		return nil, err
	}
	return stripRowPadding(readback, bytesPerRow, alignedBytesPerRow, target.Height), nil
}

// readBuffer copies size bytes of a MapRead buffer into host memory.
func (p *Pipeline) readBuffer(buf hal.Buffer, size uint64) ([]byte, error) {
	mapping, err := p.device.MapBuffer(buf, 0, size)
	if err != nil {
		return nil, fmt.Errorf("blit: map staging buffer: %w", err)
	}
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(mapping.Ptr), size))
	if err := p.device.UnmapBuffer(buf); err != nil {
		return nil, fmt.Errorf("blit: unmap staging buffer: %w", err)
	}
	return out, nil
}

func (p *Pipeline) beginEncoder(label string) (hal.CommandEncoder, error) {
	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: p.opts.label + "_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("blit: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("blit: begin encoding: %w", err)
	}
	return encoder, nil
}

func (p *Pipeline) submitAndWait(ctx context.Context, queue hal.Queue, encoder hal.CommandEncoder) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("blit: end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmdBuf)

	index, err := queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("blit: submit: %w", err)
	}
	if err := waitSubmission(ctx, queue, index); err != nil {
		return fmt.Errorf("blit: wait for GPU: %w", err)
	}
	return nil
}

// waitSubmission blocks until the queue reports submission index as
// completed, the context is done, or the wait timeout elapses.
func waitSubmission(ctx context.Context, queue hal.Queue, index uint64) error {
	if queue.PollCompleted() >= index {
		return nil
	}
	timer := time.NewTimer(waitTimeout(ctx))
	defer timer.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return context.DeadlineExceeded
		case <-ticker.C:
			if queue.PollCompleted() >= index {
				return nil
			}
		}
	}
}

// waitTimeout converts the context deadline into a GPU wait timeout.
func waitTimeout(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return defaultWaitTimeout
	}
	if d := time.Until(deadline); d > 0 {
		return d
	}
	return 0
}

// stripRowPadding removes the per-row alignment padding of a readback.
func stripRowPadding(data []byte, bytesPerRow, alignedBytesPerRow, rows uint32) []byte {
	if bytesPerRow == alignedBytesPerRow {
		return data[:int(bytesPerRow)*int(rows)]
	}
	tight := make([]byte, int(bytesPerRow)*int(rows))
	for row := 0; row < int(rows); row++ {
		src := row * int(alignedBytesPerRow)
		dst := row * int(bytesPerRow)
		copy(tight[dst:dst+int(bytesPerRow)], data[src:src+int(bytesPerRow)])
	}
	return tight
}

// IsTimeout reports whether err came from a GPU wait that ran out of time.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
