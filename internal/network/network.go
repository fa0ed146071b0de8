// Package network assembles layers into trainable networks.
//
// This package provides:
//   - Network: a layer stack scored by a local cost function and trained
//     with mini-batch stochastic gradient descent, optionally with momentum
//   - Generator: a layer stack trained through the judgement of a
//     discriminator Network
//   - TrainAdversarial: alternating discriminator/generator training
//
// Both stacks share one forward pass and one reverse pass. Values crossing
// from a conv/deconv layer into a dense/softmax layer are flattened; values
// and error signals crossing the other way are unflattened.
//
// Example:
//
//	net := network.New(tensor.Shape{1, 5, 5}, network.WithRand(rng))
//	_ = net.AddConv(2, 2, 2)  // (1, 5, 5) -> (2, 4, 4)
//	_ = net.AddDense(8)       // 32 -> 8
//	_ = net.AddSoftmax(2)     // 8 -> 2, cost becomes NegativeLogLikelihood
//	err := net.Train(network.TrainConfig{Epochs: 10, StepSize: 0.5, MiniBatchSize: 4}, set)
package network

import (
	"fmt"

	"github.com/maxgao11111/Neural-Nets/internal/nn"
	"github.com/maxgao11111/Neural-Nets/internal/optim"
	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// Network is a feedforward stack of dense, softmax, conv and deconv layers
// with a cost function and optional momentum state.
//
// A Network is not safe for concurrent use; training parallelizes
// internally over the examples of a mini-batch.
type Network struct {
	stack
	cost     nn.Cost
	velocity optim.Velocity
}

// New creates an empty network taking inputs of the given shape.
//
// The cost function starts as QuadraticCost and is rebound by every Add.
//
// Panics if inputShape is empty or has a non-positive dimension.
func New(inputShape tensor.Shape, opts ...Option) *Network {
	return &Network{
		stack: newStack(inputShape, opts),
		cost:  nn.QuadraticCost{},
	}
}

// Add appends a layer built from cfg.
//
// The new layer's input is the previous layer's output (or the network
// input); dense and softmax layers after a spatial layer take its
// depth×height×width elements. Spatial layers derive their kernel depth
// from the input depth.
//
// Every successful call rebinds the cost function: NegativeLogLikelihood
// when the added layer is softmax, QuadraticCost otherwise. The cost of a
// network therefore always follows its last layer.
//
// Returns a *ConfigurationError if the layer cannot be built.
func (n *Network) Add(cfg LayerConfig) error {
	layer, err := n.build(cfg)
	if err != nil {
		return err
	}
	n.layers = append(n.layers, layer)
	n.kinds = append(n.kinds, cfg.Kind)
	n.rebindCost(cfg.Kind)
	return nil
}

// AddLayer appends a caller-built layer after checking that it accepts the
// current output. The cost function is rebound as in Add.
func (n *Network) AddLayer(kind nn.Kind, layer nn.Layer) error {
	if err := n.push(kind, layer); err != nil {
		return err
	}
	n.rebindCost(kind)
	return nil
}

func (n *Network) rebindCost(kind nn.Kind) {
	if kind == nn.KindSoftmax {
		n.cost = nn.NegativeLogLikelihood{}
	} else {
		n.cost = nn.QuadraticCost{}
	}
}

// AddDense appends a dense layer of size units.
func (n *Network) AddDense(size int) error {
	return n.Add(LayerConfig{Kind: nn.KindDense, Size: size})
}

// AddSoftmax appends a softmax output layer of size classes.
func (n *Network) AddSoftmax(size int) error {
	return n.Add(LayerConfig{Kind: nn.KindSoftmax, Size: size})
}

// AddConv appends a convolutional layer of count kernels of height×width.
func (n *Network) AddConv(count, height, width int) error {
	return n.Add(LayerConfig{Kind: nn.KindConv, Kernel: Kernel{count, height, width}})
}

// AddDeconv appends a transposed convolution of count kernels of
// height×width producing (count, outHeight, outWidth) maps.
func (n *Network) AddDeconv(count, height, width, outHeight, outWidth int) error {
	return n.Add(LayerConfig{
		Kind:   nn.KindDeconv,
		Kernel: Kernel{count, height, width},
		Output: Output{outHeight, outWidth},
	})
}

// AddType appends a layer described by a type tag ("dense", "soft",
// "conv" or "deconv"), an output size for dense/softmax layers, a kernel
// (count, height, width) for spatial layers and an output plane
// (height, width) for deconv layers.
func (n *Network) AddType(tag string, size int, kernel, output []int) error {
	cfg, err := configFromTag(len(n.layers), tag, size, kernel, output)
	if err != nil {
		return err
	}
	return n.Add(cfg)
}

func configFromTag(idx int, tag string, size int, kernel, output []int) (LayerConfig, error) {
	kind, err := nn.ParseKind(tag)
	if err != nil {
		return LayerConfig{}, configErr(idx, tag, "unrecognized layer type", err)
	}
	cfg := LayerConfig{Kind: kind, Size: size}
	if kind.Spatial() {
		if len(kernel) != 3 {
			return LayerConfig{}, configErr(idx, tag, fmt.Sprintf("kernel needs 3 values, got %v", kernel), nil)
		}
		cfg.Kernel = Kernel{kernel[0], kernel[1], kernel[2]}
	}
	if kind == nn.KindDeconv {
		if len(output) != 2 {
			return LayerConfig{}, configErr(idx, tag, fmt.Sprintf("output needs 2 values, got %v", output), nil)
		}
		cfg.Output = Output{output[0], output[1]}
	}
	return cfg, nil
}

// Cost returns the current cost function.
func (n *Network) Cost() nn.Cost {
	return n.cost
}

// SetCost replaces the cost function. A later Add rebinds it again.
func (n *Network) SetCost(c nn.Cost) {
	n.cost = c
}

// Backprop returns the gradient of the cost of one example with respect to
// every layer's parameters, index-aligned with Layers.
func (n *Network) Backprop(input, expected *tensor.Tensor) (nn.Gradients, error) {
	grads, _, err := n.backprop(input, n.costDelta(expected))
	return grads, err
}

// InputDelta returns ∂C/∂input for one example: the error signal
// propagated past the first layer. A Generator uses it to learn through a
// discriminator.
func (n *Network) InputDelta(input, expected *tensor.Tensor) (*tensor.Tensor, error) {
	_, delta, err := n.backprop(input, n.costDelta(expected))
	return delta, err
}

func (n *Network) costDelta(expected *tensor.Tensor) deltaFunc {
	return func(output, derivative *tensor.Tensor) (*tensor.Tensor, error) {
		return n.cost.Delta(output, derivative, expected)
	}
}

// String returns a multi-line summary of the layers.
func (n *Network) String() string {
	return n.describe("Network")
}
