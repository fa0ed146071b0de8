// Package nn implements the layers trained by the network package.
//
// This package provides:
//   - Layer interface: the uniform capability set every layer satisfies
//   - Kind: the closed set of layer variants (dense, softmax, conv, deconv)
//   - Dense, Softmax, Conv and Deconv layers
//   - Activations: Sigmoid, ReLU, LeakyReLU, TanH, Softmax, Identity
//   - Costs: QuadraticCost, NegativeLogLikelihood
//   - Gradient bundles and the helpers used to average them over a mini-batch
//
// Layers hold their own parameters and never cache per-example state, so a
// single layer may be used by several goroutines at once as long as Update
// is not called concurrently.
package nn

import (
	"errors"
	"fmt"

	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// ErrUnknownKind is returned by ParseKind for unrecognized layer tags.
var ErrUnknownKind = errors.New("unknown layer type")

// Kind identifies a layer variant.
type Kind int

// Layer variants.
const (
	KindDense Kind = iota
	KindSoftmax
	KindConv
	KindDeconv
)

// String returns the tag used for the kind ("dense", "soft", "conv", "deconv").
func (k Kind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindSoftmax:
		return "soft"
	case KindConv:
		return "conv"
	case KindDeconv:
		return "deconv"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Spatial reports whether layers of this kind consume and produce feature
// maps (depth, height, width) rather than flat vectors.
func (k Kind) Spatial() bool {
	return k == KindConv || k == KindDeconv
}

// ParseKind converts a layer tag into a Kind.
func ParseKind(tag string) (Kind, error) {
	switch tag {
	case "dense":
		return KindDense, nil
	case "soft", "softmax":
		return KindSoftmax, nil
	case "conv":
		return KindConv, nil
	case "deconv":
		return KindDeconv, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, tag)
}

// Layer is the capability set the network uses to drive a layer.
//
// The backprop contract mirrors the forward pass. Given the activation that
// was fed into the layer, the derivative of the previous layer's activation
// function at that point, and the error signal at this layer's
// pre-activations, Backprop returns the parameter gradient and the error
// signal at the previous layer's pre-activations:
//
//	δprev = (∂z/∂a)ᵀ · δ ⊙ derivative
//
// Passing a derivative of all ones yields ∂C/∂input instead.
type Layer interface {
	// Kind returns the layer variant.
	Kind() Kind

	// InputShape returns the shape the layer consumes.
	// Dense and softmax layers use a rank-1 shape.
	InputShape() tensor.Shape

	// OutputShape returns the shape the layer produces.
	OutputShape() tensor.Shape

	// Activation returns the activation function applied to the pre-activations.
	Activation() Activation

	// Feedforward computes Activation(PreActivations(x)).
	Feedforward(x *tensor.Tensor) (*tensor.Tensor, error)

	// PreActivations computes the weighted input before the activation function.
	PreActivations(x *tensor.Tensor) (*tensor.Tensor, error)

	// Backprop returns the gradient of the layer parameters and the error
	// signal for the previous layer.
	Backprop(activation, derivative, delta *tensor.Tensor) (Gradient, *tensor.Tensor, error)

	// Update adds g to the layer parameters.
	Update(g Gradient) error

	// Params returns a copy of the current parameters in the same layout
	// as the gradients returned by Backprop.
	Params() Gradient
}

// feedforward is shared by all layers: apply the activation to the
// pre-activations, keeping the pre-activation shape.
func feedforward(l Layer, x *tensor.Tensor) (*tensor.Tensor, error) {
	z, err := l.PreActivations(x)
	if err != nil {
		return nil, err
	}
	return tensor.Wrap(l.Activation().Apply(z.Data()), z.Shape()), nil
}

// checkLen verifies that t has exactly want elements.
func checkLen(op string, t *tensor.Tensor, want tensor.Shape) error {
	if t.Len() != want.NumElements() {
		return tensor.NewShapeError(op, want, t.Shape())
	}
	return nil
}

// checkShape verifies that t has exactly the shape want.
func checkShape(op string, t *tensor.Tensor, want tensor.Shape) error {
	if !t.Shape().Equal(want) {
		return tensor.NewShapeError(op, want, t.Shape())
	}
	return nil
}

// checkGradient verifies that g matches the parameter counts of a layer.
func checkGradient(op string, g Gradient, weights, biases int) error {
	if len(g.Weights) != weights || len(g.Biases) != biases {
		return fmt.Errorf("%s: gradient has %d weights and %d biases, want %d and %d: %w",
			op, len(g.Weights), len(g.Biases), weights, biases, tensor.ErrShape)
	}
	return nil
}
