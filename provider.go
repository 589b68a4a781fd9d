//go:build !nogpu

package blit

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// halProvider is implemented by hosts that expose their HAL objects, such as
// gogpu windows.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// HALFromProvider extracts the HAL device and queue of a host application.
// Providers whose Device and Queue are HAL objects are used directly;
// others must implement HalDevice and HalQueue.
func HALFromProvider(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	if provider == nil {
		return nil, nil, ErrNilDevice
	}
	if device, ok := provider.Device().(hal.Device); ok && device != nil {
		if queue, ok := provider.Queue().(hal.Queue); ok && queue != nil {
			return device, queue, nil
		}
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, ErrProviderNotHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrProviderNotHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrProviderNotHAL)
	}
	return device, queue, nil
}

// NewRendererFromProvider creates a Renderer that shares the host's device
// and presents to its surface. The target format is the surface format with
// the sRGB suffix removed, so frame bytes reach the screen unchanged.
func NewRendererFromProvider(provider gpucontext.DeviceProvider, width, height int, opts ...Option) (*Renderer, error) {
	device, queue, err := HALFromProvider(provider)
	if err != nil {
		return nil, err
	}
	format := provider.SurfaceFormat()
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}
	return NewRenderer(device, queue, width, height, LinearFormat(format), opts...)
}
