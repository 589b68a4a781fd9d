package blit

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// SamplerConfig is the filtering and addressing policy bound at group 0
// binding 1. Comparison samplers are not representable: the pass samples a
// colour image, never a depth texture.
type SamplerConfig struct {
	// MagFilter applies when the image is magnified (LOD <= 0).
	MagFilter gputypes.FilterMode

	// MinFilter applies when the image is minified (LOD > 0).
	MinFilter gputypes.FilterMode

	// AddressModeU resolves horizontal coordinates outside [0,1].
	AddressModeU gputypes.AddressMode

	// AddressModeV resolves vertical coordinates outside [0,1].
	AddressModeV gputypes.AddressMode

	// AddressModeW is carried for completeness; 2-D images ignore it.
	AddressModeW gputypes.AddressMode
}

// DefaultSampler returns nearest filtering with clamp-to-edge addressing,
// the WebGPU default sampler.
func DefaultSampler() SamplerConfig {
	return SamplerConfig{
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
	}
}

// LinearSampler returns bilinear filtering with clamp-to-edge addressing,
// suited to scaling blits.
func LinearSampler() SamplerConfig {
	s := DefaultSampler()
	s.MagFilter = gputypes.FilterModeLinear
	s.MinFilter = gputypes.FilterModeLinear
	return s
}

// WithAddressMode returns s with the same address mode on every axis.
func (s SamplerConfig) WithAddressMode(m gputypes.AddressMode) SamplerConfig {
	s.AddressModeU, s.AddressModeV, s.AddressModeW = m, m, m
	return s
}

// IsZero reports whether s is the zero value. Pipelines substitute
// DefaultSampler for a zero config.
func (s SamplerConfig) IsZero() bool { return s == SamplerConfig{} }

// Filtering reports whether either filter interpolates between texels.
func (s SamplerConfig) Filtering() bool {
	return s.MagFilter == gputypes.FilterModeLinear || s.MinFilter == gputypes.FilterModeLinear
}

// BindingType returns the sampler binding type for the bind group layout.
func (s SamplerConfig) BindingType() gputypes.SamplerBindingType {
	if s.Filtering() {
		return gputypes.SamplerBindingTypeFiltering
	}
	return gputypes.SamplerBindingTypeNonFiltering
}

// CompatibleWith reports whether s may sample images of format f.
func (s SamplerConfig) CompatibleWith(f gputypes.TextureFormat) error {
	if !FormatSupported(f) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, FormatName(f))
	}
	if s.Filtering() && !IsFilterable(f) {
		return fmt.Errorf("%w: linear filtering on %s", ErrSamplerIncompatible, FormatName(f))
	}
	return nil
}

// String returns a compact description such as "linear/nearest repeat,clamp-to-edge".
func (s SamplerConfig) String() string {
	return fmt.Sprintf("%s/%s %s,%s",
		FilterModeName(s.MagFilter), FilterModeName(s.MinFilter),
		AddressModeName(s.AddressModeU), AddressModeName(s.AddressModeV))
}

// FilterModeName returns the WebGPU name of m.
func FilterModeName(m gputypes.FilterMode) string {
	switch m {
	case gputypes.FilterModeNearest:
		return "nearest"
	case gputypes.FilterModeLinear:
		return "linear"
	default:
		return fmt.Sprintf("FilterMode(%d)", uint32(m))
	}
}

// AddressModeName returns the WebGPU name of m.
func AddressModeName(m gputypes.AddressMode) string {
	switch m {
	case gputypes.AddressModeClampToEdge:
		return "clamp-to-edge"
	case gputypes.AddressModeRepeat:
		return "repeat"
	case gputypes.AddressModeMirrorRepeat:
		return "mirror-repeat"
	default:
		return fmt.Sprintf("AddressMode(%d)", uint32(m))
	}
}

// ParseFilterMode parses "nearest" or "linear".
func ParseFilterMode(name string) (gputypes.FilterMode, error) {
	switch name {
	case "nearest":
		return gputypes.FilterModeNearest, nil
	case "linear":
		return gputypes.FilterModeLinear, nil
	}
	return gputypes.FilterModeNearest, fmt.Errorf("blit: unknown filter mode %q", name)
}

// ParseAddressMode parses "clamp-to-edge", "repeat" or "mirror-repeat".
// The short forms "clamp" and "mirror" are accepted.
func ParseAddressMode(name string) (gputypes.AddressMode, error) {
	switch name {
	case "clamp-to-edge", "clamp":
		return gputypes.AddressModeClampToEdge, nil
	case "repeat":
		return gputypes.AddressModeRepeat, nil
	case "mirror-repeat", "mirror":
		return gputypes.AddressModeMirrorRepeat, nil
	}
	return gputypes.AddressModeClampToEdge, fmt.Errorf("blit: unknown address mode %q", name)
}
