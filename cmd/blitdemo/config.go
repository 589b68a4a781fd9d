package main

import (
	"fmt"
	"os"

	"github.com/gogpu/gputypes"
	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/blit"
)

// fileConfig is the TOML settings file. Names follow WebGPU strings:
//
//	format   = "rgba8unorm-srgb"
//	topology = "triangle-strip"
//	flip_y   = false
//	clear    = [1.0, 1.0, 1.0, 1.0]
//	workers  = 0
//
//	[sampler]
//	mag_filter     = "linear"
//	min_filter     = "linear"
//	address_mode_u = "clamp-to-edge"
//	address_mode_v = "repeat"
type fileConfig struct {
	Format   string        `toml:"format"`
	Topology string        `toml:"topology"`
	FlipY    bool          `toml:"flip_y"`
	Clear    []float64     `toml:"clear"`
	Workers  int           `toml:"workers"`
	Sampler  samplerConfig `toml:"sampler"`
}

type samplerConfig struct {
	MagFilter    string `toml:"mag_filter"`
	MinFilter    string `toml:"min_filter"`
	AddressModeU string `toml:"address_mode_u"`
	AddressModeV string `toml:"address_mode_v"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Format:   "rgba8unorm",
		Topology: "triangle-strip",
		Clear:    []float64{1, 1, 1, 1},
		Sampler: samplerConfig{
			MagFilter:    "nearest",
			MinFilter:    "nearest",
			AddressModeU: "clamp-to-edge",
			AddressModeV: "clamp-to-edge",
		},
	}
}

// settings is a validated fileConfig.
type settings struct {
	format   gputypes.TextureFormat
	topology blit.Topology
	flipY    bool
	clear    gputypes.Color
	workers  int
	sampler  blit.SamplerConfig
}

// loadSettings reads path over the defaults. An empty path yields the
// defaults. Unknown keys are errors.
func loadSettings(path string) (settings, error) {
	cfg := defaultFileConfig()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return settings{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg); err != nil {
			return settings{}, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return cfg.resolve()
}

func (c fileConfig) resolve() (settings, error) {
	var s settings
	var err error
	if s.format, err = blit.ParseFormat(c.Format); err != nil {
		return settings{}, err
	}
	if s.topology, err = blit.ParseTopology(c.Topology); err != nil {
		return settings{}, err
	}
	if len(c.Clear) != 4 {
		return settings{}, fmt.Errorf("clear needs 4 components, got %d", len(c.Clear))
	}
	s.clear = gputypes.Color{R: c.Clear[0], G: c.Clear[1], B: c.Clear[2], A: c.Clear[3]}
	s.flipY = c.FlipY
	s.workers = c.Workers

	if s.sampler.MagFilter, err = blit.ParseFilterMode(c.Sampler.MagFilter); err != nil {
		return settings{}, err
	}
	if s.sampler.MinFilter, err = blit.ParseFilterMode(c.Sampler.MinFilter); err != nil {
		return settings{}, err
	}
	if s.sampler.AddressModeU, err = blit.ParseAddressMode(c.Sampler.AddressModeU); err != nil {
		return settings{}, err
	}
	if s.sampler.AddressModeV, err = blit.ParseAddressMode(c.Sampler.AddressModeV); err != nil {
		return settings{}, err
	}
	s.sampler.AddressModeW = gputypes.AddressModeClampToEdge
	return s, nil
}

// options returns the pipeline options for s.
func (s settings) options() []blit.Option {
	return []blit.Option{
		blit.WithTopology(s.topology),
		blit.WithFlipY(s.flipY),
		blit.WithClearColor(s.clear),
		blit.WithSampler(s.sampler),
		blit.WithLabel("blitdemo"),
	}
}
