package nn

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// Gradient holds the weight and bias gradients of one layer.
//
// The layout of both slices is owned by the layer that produced them and
// matches the layout of Layer.Params.
type Gradient struct {
	Weights []float64
	Biases  []float64
}

// Clone returns a deep copy of the gradient.
func (g Gradient) Clone() Gradient {
	return Gradient{
		Weights: append([]float64(nil), g.Weights...),
		Biases:  append([]float64(nil), g.Biases...),
	}
}

// Gradients is an ordered gradient bundle, one entry per layer, index-aligned
// with the layers of the network that produced it.
type Gradients []Gradient

// Clone returns a deep copy of the bundle.
func (gs Gradients) Clone() Gradients {
	if gs == nil {
		return nil
	}
	out := make(Gradients, len(gs))
	for i, g := range gs {
		out[i] = g.Clone()
	}
	return out
}

// Add accumulates other into gs elementwise.
//
// Returns an error wrapping tensor.ErrShape if the bundles are not aligned.
func (gs Gradients) Add(other Gradients) error {
	if len(gs) != len(other) {
		return fmt.Errorf("gradients: cannot add bundle of %d layers to %d layers: %w",
			len(other), len(gs), tensor.ErrShape)
	}
	for i := range gs {
		if len(gs[i].Weights) != len(other[i].Weights) || len(gs[i].Biases) != len(other[i].Biases) {
			return fmt.Errorf("gradients: layer %d parameter counts differ: %w", i, tensor.ErrShape)
		}
		floats.Add(gs[i].Weights, other[i].Weights)
		floats.Add(gs[i].Biases, other[i].Biases)
	}
	return nil
}

// Scale multiplies every gradient in place by c.
func (gs Gradients) Scale(c float64) {
	for i := range gs {
		floats.Scale(c, gs[i].Weights)
		floats.Scale(c, gs[i].Biases)
	}
}

// Negated returns a new bundle holding -gs.
func (gs Gradients) Negated() Gradients {
	out := gs.Clone()
	out.Scale(-1)
	return out
}

// ApplyTo adds each gradient in gs to the matching layer.
func (gs Gradients) ApplyTo(layers []Layer) error {
	if len(gs) != len(layers) {
		return fmt.Errorf("gradients: bundle has %d entries for %d layers: %w",
			len(gs), len(layers), tensor.ErrShape)
	}
	for i, l := range layers {
		if err := l.Update(gs[i]); err != nil {
			return fmt.Errorf("layer %d (%s): %w", i, l.Kind(), err)
		}
	}
	return nil
}
