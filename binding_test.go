package blit

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"defaults", Config{ImageFormat: gputypes.TextureFormatRGBA8Unorm, TargetFormat: gputypes.TextureFormatBGRA8Unorm}, nil},
		{"srgb target", Config{ImageFormat: gputypes.TextureFormatRGBA8Unorm, TargetFormat: gputypes.TextureFormatRGBA8UnormSrgb}, nil},
		{"float image", Config{
			ImageFormat:  gputypes.TextureFormatRGBA32Float,
			TargetFormat: gputypes.TextureFormatRGBA16Float,
		}, nil},
		{"filtered float32 image", Config{
			ImageFormat:  gputypes.TextureFormatRGBA32Float,
			Sampler:      LinearSampler(),
			TargetFormat: gputypes.TextureFormatRGBA8Unorm,
		}, ErrSamplerIncompatible},
		{"unsupported image", Config{ImageFormat: gputypes.TextureFormatR8Unorm, TargetFormat: gputypes.TextureFormatRGBA8Unorm}, ErrUnsupportedFormat},
		{"unsupported target", Config{ImageFormat: gputypes.TextureFormatRGBA8Unorm, TargetFormat: gputypes.TextureFormatDepth32Float}, ErrUnsupportedFormat},
		{"undefined target", Config{ImageFormat: gputypes.TextureFormatRGBA8Unorm}, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBindGroupLayoutEntries(t *testing.T) {
	entries := Config{ImageFormat: gputypes.TextureFormatRGBA32Float, TargetFormat: gputypes.TextureFormatRGBA8Unorm}.BindGroupLayoutEntries()
	if len(entries) != 2 {
		t.Fatalf("%d entries, want 2", len(entries))
	}
	img, smp := entries[0], entries[1]
	if img.Binding != ImageBinding || img.Texture == nil || img.Visibility != gputypes.ShaderStageFragment {
		t.Fatalf("image entry = %+v", img)
	}
	if img.Texture.SampleType != gputypes.TextureSampleTypeUnfilterableFloat {
		t.Errorf("float32 image sample type = %v, want unfilterable", img.Texture.SampleType)
	}
	if img.Texture.ViewDimension != gputypes.TextureViewDimension2D {
		t.Errorf("view dimension = %v, want 2d", img.Texture.ViewDimension)
	}
	if smp.Binding != SamplerBinding || smp.Sampler == nil {
		t.Fatalf("sampler entry = %+v", smp)
	}
	// A zero sampler is the non-filtering default.
	if smp.Sampler.Type != gputypes.SamplerBindingTypeNonFiltering {
		t.Errorf("sampler type = %v, want non-filtering", smp.Sampler.Type)
	}

	linear := Config{ImageFormat: gputypes.TextureFormatRGBA8Unorm, Sampler: LinearSampler(), TargetFormat: gputypes.TextureFormatRGBA8Unorm}.BindGroupLayoutEntries()
	if linear[0].Texture.SampleType != gputypes.TextureSampleTypeFloat || linear[1].Sampler.Type != gputypes.SamplerBindingTypeFiltering {
		t.Errorf("linear entries = %+v, %+v", linear[0].Texture, linear[1].Sampler)
	}
}
