//go:build !nogpu

package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/software"
)

var errNoAdapter = errors.New("no GPU adapter")

// gpuDevice is an opened HAL device together with the objects that must be
// released after it.
type gpuDevice struct {
	instance hal.Instance
	adapter  hal.Adapter
	device   hal.Device
	queue    hal.Queue
}

// openGPU opens the first Vulkan adapter.
func openGPU(log *slog.Logger) (*gpuDevice, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not registered", errNoAdapter)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{
		Backends: gputypes.BackendsVulkan,
	})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, errNoAdapter
	}
	exposed := adapters[0]
	log.Info("adapter selected", "name", exposed.Info.Name, "driver", exposed.Info.Driver)

	opened, err := exposed.Adapter.Open(0, exposed.Capabilities.Limits)
	if err != nil {
		exposed.Adapter.Destroy()
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	return &gpuDevice{
		instance: instance,
		adapter:  exposed.Adapter,
		device:   opened.Device,
		queue:    opened.Queue,
	}, nil
}

func (g *gpuDevice) close() {
	_ = g.device.WaitIdle()
	g.device.Destroy()
	g.adapter.Destroy()
	g.instance.Destroy()
}

// renderGPU blits src into a width x height offscreen target on the GPU and
// reads it back.
func renderGPU(ctx context.Context, log *slog.Logger, src image.Image, width, height int, s settings) (*image.NRGBA, error) {
	gpu, err := openGPU(log)
	if err != nil {
		return nil, err
	}
	defer gpu.close()

	r, err := blit.NewRenderer(gpu.device, gpu.queue, width, height, s.format, s.options()...)
	if err != nil {
		return nil, err
	}
	defer r.Destroy()

	if err := r.LoadImage(src); err != nil {
		return nil, err
	}
	data, err := r.RenderReadback(ctx)
	if err != nil {
		return nil, err
	}
	tex, err := software.FromBytes(data, width, height, s.format)
	if err != nil {
		return nil, err
	}
	return tex.NRGBA(), nil
}
