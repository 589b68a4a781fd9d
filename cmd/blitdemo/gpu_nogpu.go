//go:build nogpu

package main

import (
	"context"
	"errors"
	"image"
	"log/slog"
)

func renderGPU(context.Context, *slog.Logger, image.Image, int, int, settings) (*image.NRGBA, error) {
	return nil, errors.New("built without GPU support")
}
