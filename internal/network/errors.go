package network

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("invalid network configuration")

	// ErrEmptyBatch is returned when a mini-batch or training set has no examples.
	ErrEmptyBatch = errors.New("empty mini-batch")
)

// ConfigurationError describes a layer that could not be added to a network,
// or a training schedule that cannot be run.
type ConfigurationError struct {
	Layer  int    // Index the layer would have had; -1 for training settings
	Kind   string // Layer type tag as given by the caller, or "train"
	Reason string // Human-readable description
	Err    error  // Underlying cause, if any
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("layer %d (%s): %s", e.Layer, e.Kind, e.Reason)
	if e.Layer < 0 {
		msg = fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// Unwrap returns the underlying cause.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configErr(layer int, kind, reason string, cause error) *ConfigurationError {
	return &ConfigurationError{Layer: layer, Kind: kind, Reason: reason, Err: cause}
}

func trainErr(reason string, cause error) *ConfigurationError {
	return &ConfigurationError{Layer: -1, Kind: "train", Reason: reason, Err: cause}
}
