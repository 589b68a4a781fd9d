// Command blitdemo presents an image through the full-viewport blit pass and
// writes the result as PNG.
//
// The pass runs on the first Vulkan adapter. When no adapter can be opened,
// or with -software, the CPU implementation renders instead.
//
//	blitdemo -input photo.png -width 1280 -height 720 -config linear.toml
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gputypes"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/software"
)

func main() {
	var (
		width      = flag.Int("width", 800, "target width")
		height     = flag.Int("height", 600, "target height")
		input      = flag.String("input", "", "source image (PNG, JPEG, BMP or WebP); gradient when empty")
		output     = flag.String("output", "blit.png", "output PNG")
		configPath = flag.String("config", "", "TOML settings file")
		cpu        = flag.Bool("software", false, "render on the CPU")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	handler := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "blitdemo",
	})
	if *verbose {
		handler.SetLevel(log.DebugLevel)
	}
	logger := slog.New(handler)
	blit.SetLogger(logger)

	if err := run(logger, *width, *height, *input, *output, *configPath, *cpu); err != nil {
		handler.Fatal("blit failed", "err", err)
	}
}

func run(logger *slog.Logger, width, height int, input, output, configPath string, cpu bool) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", blit.ErrInvalidSize, width, height)
	}
	s, err := loadSettings(configPath)
	if err != nil {
		return err
	}
	src, err := loadSource(input, width, height)
	if err != nil {
		return err
	}
	logger.Info("settings",
		"format", blit.FormatName(s.format),
		"topology", s.topology.String(),
		"sampler", s.sampler.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var out *image.NRGBA
	if !cpu {
		out, err = renderGPU(ctx, logger, src, width, height, s)
		if err != nil {
			logger.Warn("GPU unavailable, rendering on the CPU", "err", err)
		}
	}
	if out == nil {
		start := time.Now()
		if out, err = renderSoftware(ctx, src, width, height, s); err != nil {
			return err
		}
		logger.Info("software render", "elapsed", time.Since(start))
	}
	if err := writePNG(output, out); err != nil {
		return err
	}
	logger.Info("wrote image", "path", output, "width", width, "height", height)
	return nil
}

// loadSource decodes path, or paints the gradient test pattern at the
// target size when path is empty. Both render paths read the result with
// straight alpha.
func loadSource(path string, width, height int) (image.Image, error) {
	if path == "" {
		img := image.NewNRGBA(image.Rect(0, 0, width, height))
		blit.FillGradient(img)
		return img, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// renderSoftware runs the pass on the CPU with the same geometry and
// sampler the GPU path uses.
func renderSoftware(ctx context.Context, src image.Image, width, height int, s settings) (*image.NRGBA, error) {
	tex, err := software.FromImage(src, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return nil, err
	}
	target, err := software.NewTarget(width, height, s.format)
	if err != nil {
		return nil, err
	}
	b := software.NewBlitter(s.workers)
	defer b.Close()

	target.Clear(s.clear)
	err = b.Draw(ctx, target, software.DrawCall{
		Vertices: blit.FullscreenVertices(s.topology, s.flipY),
		Topology: s.topology,
		Image:    tex,
		Sampler:  s.sampler,
	})
	if err != nil {
		return nil, err
	}
	return storedNRGBA(target)
}

// storedNRGBA returns the bytes an attachment of the target's format holds,
// as an 8-bit image, the same conversion the GPU path applies to readback.
func storedNRGBA(target *software.Target) (*image.NRGBA, error) {
	tex, err := software.FromBytes(target.Bytes(), target.Width(), target.Height(), target.Format())
	if err != nil {
		return nil, err
	}
	return tex.NRGBA(), nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
