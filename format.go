package blit

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// formatInfo describes a texture format the pass can sample from and
// render to.
type formatInfo struct {
	name          string
	bytesPerTexel int
	srgb          bool
	bgra          bool
	float         bool
	filterable    bool
	linear        gputypes.TextureFormat // non-sRGB twin
}

var formatTable = map[gputypes.TextureFormat]formatInfo{
	gputypes.TextureFormatRGBA8Unorm: {
		name: "rgba8unorm", bytesPerTexel: 4, filterable: true,
		linear: gputypes.TextureFormatRGBA8Unorm,
	},
	gputypes.TextureFormatRGBA8UnormSrgb: {
		name: "rgba8unorm-srgb", bytesPerTexel: 4, srgb: true, filterable: true,
		linear: gputypes.TextureFormatRGBA8Unorm,
	},
	gputypes.TextureFormatBGRA8Unorm: {
		name: "bgra8unorm", bytesPerTexel: 4, bgra: true, filterable: true,
		linear: gputypes.TextureFormatBGRA8Unorm,
	},
	gputypes.TextureFormatBGRA8UnormSrgb: {
		name: "bgra8unorm-srgb", bytesPerTexel: 4, srgb: true, bgra: true, filterable: true,
		linear: gputypes.TextureFormatBGRA8Unorm,
	},
	gputypes.TextureFormatRGBA16Float: {
		name: "rgba16float", bytesPerTexel: 8, float: true, filterable: true,
		linear: gputypes.TextureFormatRGBA16Float,
	},
	// Filtering 32-bit float textures needs the float32-filterable feature,
	// which the pass never requests.
	gputypes.TextureFormatRGBA32Float: {
		name: "rgba32float", bytesPerTexel: 16, float: true,
		linear: gputypes.TextureFormatRGBA32Float,
	},
}

// FormatSupported reports whether f can be bound as the source image or used
// as the colour target.
func FormatSupported(f gputypes.TextureFormat) bool {
	_, ok := formatTable[f]
	return ok
}

// IsSRGB reports whether texels of f are sRGB-encoded: decoded to linear on
// sample, encoded on attachment write.
func IsSRGB(f gputypes.TextureFormat) bool { return formatTable[f].srgb }

// IsBGRA reports whether f stores channels in blue, green, red, alpha order.
func IsBGRA(f gputypes.TextureFormat) bool { return formatTable[f].bgra }

// IsFloat reports whether f stores floating-point channels.
func IsFloat(f gputypes.TextureFormat) bool { return formatTable[f].float }

// IsFilterable reports whether f may be sampled with a filtering sampler.
func IsFilterable(f gputypes.TextureFormat) bool { return formatTable[f].filterable }

// BytesPerTexel returns the texel size of f, or 0 for unsupported formats.
func BytesPerTexel(f gputypes.TextureFormat) int { return formatTable[f].bytesPerTexel }

// LinearFormat returns f without its sRGB suffix. Presenting to a linear view
// of an sRGB surface keeps the shader output bit-exact with the source image.
// Unsupported formats are returned unchanged.
func LinearFormat(f gputypes.TextureFormat) gputypes.TextureFormat {
	if info, ok := formatTable[f]; ok {
		return info.linear
	}
	return f
}

// SampleType returns the texture binding sample type for f.
func SampleType(f gputypes.TextureFormat) gputypes.TextureSampleType {
	if IsFilterable(f) {
		return gputypes.TextureSampleTypeFloat
	}
	return gputypes.TextureSampleTypeUnfilterableFloat
}

// FormatName returns the WebGPU name of f.
func FormatName(f gputypes.TextureFormat) string {
	if info, ok := formatTable[f]; ok {
		return info.name
	}
	return fmt.Sprintf("TextureFormat(%d)", uint32(f))
}

// ParseFormat parses a WebGPU texture format name such as "rgba8unorm-srgb".
func ParseFormat(name string) (gputypes.TextureFormat, error) {
	for f, info := range formatTable {
		if info.name == name {
			return f, nil
		}
	}
	return gputypes.TextureFormatUndefined, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}
