// Copyright 2025 The Neural-Nets Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/maxgao11111/Neural-Nets/internal/nn"
	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// Layer is the capability set shared by every layer type.
type Layer = nn.Layer

// Kind tags the type of a layer.
type Kind = nn.Kind

// Layer kinds.
const (
	KindDense   Kind = nn.KindDense
	KindSoftmax Kind = nn.KindSoftmax
	KindConv    Kind = nn.KindConv
	KindDeconv  Kind = nn.KindDeconv
)

// ParseKind parses a layer type tag ("dense", "soft", "conv", "deconv").
func ParseKind(tag string) (Kind, error) {
	return nn.ParseKind(tag)
}

// Gradient holds the weight and bias gradients of one layer.
type Gradient = nn.Gradient

// Gradients is a gradient bundle, index-aligned with a network's layers.
type Gradients = nn.Gradients

// Errors
var (
	// ErrUnknownKind is returned for an unrecognised layer type tag.
	ErrUnknownKind = nn.ErrUnknownKind

	// ErrKernel is returned when a kernel does not fit its input.
	ErrKernel = nn.ErrKernel
)

// Layers

// Dense represents a fully connected layer.
type Dense = nn.Dense

// NewDense creates a dense layer of out units over in inputs. A nil act
// selects Sigmoid and a nil rng the global source.
//
// Example:
//
//	layer := nn.NewDense(784, 30, nn.Sigmoid{}, rand.New(rand.NewSource(1)))
func NewDense(in, out int, act Activation, rng *rand.Rand) *Dense {
	return nn.NewDense(in, out, act, rng)
}

// SoftmaxLayer is a dense layer with a softmax activation.
type SoftmaxLayer = nn.SoftmaxLayer

// NewSoftmax creates a softmax layer of out units over in inputs.
func NewSoftmax(in, out int, rng *rand.Rand) *SoftmaxLayer {
	return nn.NewSoftmax(in, out, rng)
}

// Conv represents a valid (unpadded, stride 1) convolutional layer.
type Conv = nn.Conv

// NewConv creates a convolutional layer over (depth, height, width) inputs
// with kernels of shape (count, depth, kh, kw).
//
// Example:
//
//	conv := nn.NewConv(tensor.Shape{1, 5, 5}, tensor.Shape{2, 1, 2, 2}, nil, rng) // output (2, 4, 4)
func NewConv(input, kernel tensor.Shape, act Activation, rng *rand.Rand) *Conv {
	return nn.NewConv(input, kernel, act, rng)
}

// ConvOutputShape returns the output shape of a convolution, or an error
// wrapping ErrKernel if kernel does not fit input.
func ConvOutputShape(input, kernel tensor.Shape) (tensor.Shape, error) {
	return nn.ConvOutputShape(input, kernel)
}

// Deconv represents a transposed convolutional layer with an explicit
// output size.
type Deconv = nn.Deconv

// NewDeconv creates a transposed convolution from input to output. The
// stride is derived from the three shapes.
//
// Example:
//
//	deconv := nn.NewDeconv(tensor.Shape{1, 2, 2}, tensor.Shape{1, 1, 2, 2}, tensor.Shape{1, 4, 4}, nil, rng) // stride 2
func NewDeconv(input, kernel, output tensor.Shape, act Activation, rng *rand.Rand) *Deconv {
	return nn.NewDeconv(input, kernel, output, act, rng)
}

// DeconvStride returns the per-axis stride mapping input to output with
// the given kernel, or an error wrapping ErrKernel if none exists.
func DeconvStride(input, kernel, output tensor.Shape) ([2]int, error) {
	return nn.DeconvStride(input, kernel, output)
}

// Activations

// Activation is an element-wise activation function with its derivative.
type Activation = nn.Activation

// Activation functions.
type (
	Sigmoid   = nn.Sigmoid
	ReLU      = nn.ReLU
	LeakyReLU = nn.LeakyReLU
	TanH      = nn.TanH
	Softmax   = nn.Softmax
	Identity  = nn.Identity
)

// ParseActivation returns the activation with the given name.
func ParseActivation(name string) (Activation, error) {
	return nn.ParseActivation(name)
}

// Costs

// Cost is a cost function with its output-layer error signal.
type Cost = nn.Cost

// QuadraticCost is ½‖a−y‖².
type QuadraticCost = nn.QuadraticCost

// NegativeLogLikelihood is −Σ y·ln(a), paired with softmax outputs.
type NegativeLogLikelihood = nn.NegativeLogLikelihood
