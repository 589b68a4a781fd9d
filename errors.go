package blit

import (
	"errors"
	"fmt"
)

// Construction-time errors. The shading program itself cannot fail; every
// failure is a setup problem reported before any frame is drawn.
var (
	// ErrUnsupportedFormat is returned for image or target formats outside
	// the set the pass can sample from or render to.
	ErrUnsupportedFormat = errors.New("blit: unsupported texture format")

	// ErrSamplerIncompatible is returned when a filtering sampler is paired
	// with an unfilterable image format.
	ErrSamplerIncompatible = errors.New("blit: sampler incompatible with image format")

	// ErrMissingBinding is returned when a bind slot is left empty.
	ErrMissingBinding = errors.New("blit: missing binding")

	// ErrContract is returned when a shader does not honour the binding
	// contract. The concrete error is a *ContractError.
	ErrContract = errors.New("blit: shader contract violation")

	// ErrInvalidVertexCount is returned when the vertex count cannot form
	// at least one primitive of the configured topology.
	ErrInvalidVertexCount = errors.New("blit: invalid vertex count")

	// ErrNilDevice is returned when a nil HAL device or queue is supplied.
	ErrNilDevice = errors.New("blit: nil device or queue")

	// ErrProviderNotHAL is returned when a device provider does not expose
	// HAL device and queue objects.
	ErrProviderNotHAL = errors.New("blit: provider does not expose HAL device")

	// ErrPipelineDestroyed is returned when a destroyed pipeline is used.
	ErrPipelineDestroyed = errors.New("blit: pipeline destroyed")

	// ErrInvalidSize is returned for zero or negative frame dimensions.
	ErrInvalidSize = errors.New("blit: invalid size")
)

// ContractError describes one mismatch between a shader and the binding
// contract.
type ContractError struct {
	// Slot names the contract slot, e.g. "group(0) binding(1)" or
	// "vs_main location(0)".
	Slot string

	// Reason is a short description of the mismatch.
	Reason string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("blit: shader contract: %s: %s", e.Slot, e.Reason)
}

// Unwrap makes errors.Is(err, ErrContract) hold.
func (e *ContractError) Unwrap() error { return ErrContract }

// contractErrors joins mismatches into a single error, or nil.
type contractErrors []*ContractError

func (c *contractErrors) add(slot, format string, args ...any) {
	*c = append(*c, &ContractError{Slot: slot, Reason: fmt.Sprintf(format, args...)})
}

func (c contractErrors) err() error {
	switch len(c) {
	case 0:
		return nil
	case 1:
		return c[0]
	}
	errs := make([]error, len(c))
	for i, e := range c {
		errs[i] = e
	}
	return errors.Join(errs...)
}
