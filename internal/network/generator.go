package network

import (
	"fmt"

	"github.com/maxgao11111/Neural-Nets/internal/dataset"
	"github.com/maxgao11111/Neural-Nets/internal/nn"
	"github.com/maxgao11111/Neural-Nets/internal/optim"
	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// Discriminator judges generated samples. *Network satisfies it.
type Discriminator interface {
	// InputDelta returns ∂C/∂x of the discriminator's cost for sample x
	// judged against label.
	InputDelta(x, label *tensor.Tensor) (*tensor.Tensor, error)

	// Feedforward returns the judgement of x.
	Feedforward(x *tensor.Tensor) (*tensor.Tensor, error)

	// Cost returns the discriminator's cost function.
	Cost() nn.Cost
}

// Generator is a layer stack with no cost function of its own. Its error
// signal comes from a Discriminator: the generator learns to move its
// output toward what the discriminator judges as label.
type Generator struct {
	stack
}

// NewGenerator creates an empty generator taking inputs of the given shape.
//
// Panics if inputShape is empty or has a non-positive dimension.
func NewGenerator(inputShape tensor.Shape, opts ...Option) *Generator {
	return &Generator{stack: newStack(inputShape, opts)}
}

// NewGeneratorFromLayers creates a generator from caller-built layers.
// kinds must be index-aligned with layers and each layer must accept the
// previous one's output.
func NewGeneratorFromLayers(inputShape tensor.Shape, kinds []nn.Kind, layers []nn.Layer, opts ...Option) (*Generator, error) {
	if len(kinds) != len(layers) {
		return nil, configErr(0, "", fmt.Sprintf("%d kinds for %d layers", len(kinds), len(layers)), nil)
	}
	g := NewGenerator(inputShape, opts...)
	for i, l := range layers {
		if err := g.push(kinds[i], l); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Add appends a layer built from cfg. Unlike Network.Add there is no cost
// function to rebind.
func (g *Generator) Add(cfg LayerConfig) error {
	layer, err := g.build(cfg)
	if err != nil {
		return err
	}
	g.layers = append(g.layers, layer)
	g.kinds = append(g.kinds, cfg.Kind)
	return nil
}

// AddLayer appends a caller-built layer after checking that it accepts the
// current output.
func (g *Generator) AddLayer(kind nn.Kind, layer nn.Layer) error {
	return g.push(kind, layer)
}

// AddDense appends a dense layer of size units.
func (g *Generator) AddDense(size int) error {
	return g.Add(LayerConfig{Kind: nn.KindDense, Size: size})
}

// AddSoftmax appends a softmax layer of size units.
func (g *Generator) AddSoftmax(size int) error {
	return g.Add(LayerConfig{Kind: nn.KindSoftmax, Size: size})
}

// AddConv appends a convolutional layer of count kernels of height×width.
func (g *Generator) AddConv(count, height, width int) error {
	return g.Add(LayerConfig{Kind: nn.KindConv, Kernel: Kernel{count, height, width}})
}

// AddDeconv appends a transposed convolution producing
// (count, outHeight, outWidth) maps.
func (g *Generator) AddDeconv(count, height, width, outHeight, outWidth int) error {
	return g.Add(LayerConfig{
		Kind:   nn.KindDeconv,
		Kernel: Kernel{count, height, width},
		Output: Output{outHeight, outWidth},
	})
}

// AddType appends a layer described by a type tag; see Network.AddType.
func (g *Generator) AddType(tag string, size int, kernel, output []int) error {
	cfg, err := configFromTag(len(g.layers), tag, size, kernel, output)
	if err != nil {
		return err
	}
	return g.Add(cfg)
}

// Backprop returns the parameter gradients that move the generator's
// output for input toward being judged as label by disc.
//
// The discriminator supplies ∂C/∂output; multiplying by the derivative of
// the generator's final activation gives the error signal at its output
// layer's pre-activations.
func (g *Generator) Backprop(input, label *tensor.Tensor, disc Discriminator) (nn.Gradients, error) {
	grads, _, err := g.backprop(input, discriminatorDelta(disc, label))
	return grads, err
}

func discriminatorDelta(disc Discriminator, label *tensor.Tensor) deltaFunc {
	return func(output, derivative *tensor.Tensor) (*tensor.Tensor, error) {
		d, err := disc.InputDelta(output, label)
		if err != nil {
			return nil, fmt.Errorf("discriminator: %w", err)
		}
		if d.Len() != derivative.Len() {
			return nil, tensor.NewShapeError("generator.Backprop", output.Shape(), d.Shape())
		}
		out := make([]float64, d.Len())
		for i, v := range d.Data() {
			out[i] = v * derivative.Data()[i]
		}
		return tensor.Wrap(out, output.Shape()), nil
	}
}

// UpdateNetwork applies one plain (momentum-free) mini-batch step. Each
// example's Input is a generator input and its Target the label the
// discriminator should assign to the generated sample.
func (g *Generator) UpdateNetwork(stepSize float64, batch dataset.Set, disc Discriminator) error {
	avg, err := g.averageGradients(batch, stepSize, func(ex dataset.Example) (nn.Gradients, error) {
		return g.Backprop(ex.Input, ex.Target, disc)
	})
	if err != nil {
		return err
	}
	return optim.Descend(g.layers, avg)
}

// EvaluateCost returns the mean discriminator cost of the generated
// samples judged against their labels.
func (g *Generator) EvaluateCost(set dataset.Set, disc Discriminator) (float64, error) {
	return g.meanOver(set, func(ex dataset.Example) (float64, error) {
		out, err := g.Feedforward(ex.Input)
		if err != nil {
			return 0, err
		}
		judged, err := disc.Feedforward(out)
		if err != nil {
			return 0, fmt.Errorf("discriminator: %w", err)
		}
		return disc.Cost().Value(judged, ex.Target)
	})
}

// Train runs cfg.Epochs passes of shuffled mini-batch updates over set
// against a fixed discriminator. cfg.Momentum is ignored.
func (g *Generator) Train(cfg TrainConfig, set dataset.Set, disc Discriminator) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	return g.epochs(cfg, set, func(batch dataset.Set) error {
		return g.UpdateNetwork(cfg.StepSize, batch, disc)
	}, func(set dataset.Set) (float64, error) {
		return g.EvaluateCost(set, disc)
	})
}

// String returns a multi-line summary of the layers.
func (g *Generator) String() string {
	return g.describe("Generator")
}
