package nn

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// Dense implements a fully connected layer.
//
// Performs the transformation: z = W·x + b, a = f(z)
// where:
//   - x is the flat input vector with in elements
//   - W is the weight matrix with shape [out, in]
//   - b is the bias vector with out elements
//
// Weights are initialized from N(0, 1)/√in, biases from N(0, 1).
//
// Example:
//
//	layer := nn.NewDense(4, 3, nn.Sigmoid{}, rng)
//	a, err := layer.Feedforward(tensor.Vector(1, 0, 0, 1)) // shape (3)
type Dense struct {
	in, out    int
	activation Activation
	weights    *mat.Dense    // [out, in]
	biases     *mat.VecDense // [out]
}

// NewDense creates a new Dense layer.
//
// Parameters:
//   - in: number of input units
//   - out: number of output units
//   - act: activation function; nil means Sigmoid
//   - rng: random source for initialization; nil uses the global source
//
// Panics if in or out is not positive.
func NewDense(in, out int, act Activation, rng *rand.Rand) *Dense {
	if in <= 0 || out <= 0 {
		panic(fmt.Sprintf("NewDense: sizes must be positive, got in=%d out=%d", in, out))
	}
	if act == nil {
		act = Sigmoid{}
	}
	return &Dense{
		in:         in,
		out:        out,
		activation: act,
		weights:    mat.NewDense(out, in, Gaussian(rng, out*in, in)),
		biases:     mat.NewVecDense(out, GaussianBiases(rng, out)),
	}
}

// Kind returns KindDense.
func (d *Dense) Kind() Kind { return KindDense }

// InputShape returns (in).
func (d *Dense) InputShape() tensor.Shape { return tensor.Shape{d.in} }

// OutputShape returns (out).
func (d *Dense) OutputShape() tensor.Shape { return tensor.Shape{d.out} }

// Activation returns the layer's activation function.
func (d *Dense) Activation() Activation { return d.activation }

// Feedforward computes f(W·x + b).
func (d *Dense) Feedforward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return feedforward(d, x)
}

// PreActivations computes W·x + b.
//
// Any input with in elements is accepted; its shape is ignored.
func (d *Dense) PreActivations(x *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkLen("dense.PreActivations", x, d.InputShape()); err != nil {
		return nil, err
	}

	var z mat.VecDense
	z.MulVec(d.weights, mat.NewVecDense(d.in, x.Data()))
	z.AddVec(&z, d.biases)
	return tensor.Wrap(z.RawVector().Data, d.OutputShape()), nil
}

// Backprop computes the weight gradient δ⊗a, the bias gradient δ and the
// propagated error (Wᵀ·δ) ⊙ derivative.
func (d *Dense) Backprop(activation, derivative, delta *tensor.Tensor) (Gradient, *tensor.Tensor, error) {
	if err := checkLen("dense.Backprop", activation, d.InputShape()); err != nil {
		return Gradient{}, nil, err
	}
	if err := checkLen("dense.Backprop", derivative, d.InputShape()); err != nil {
		return Gradient{}, nil, err
	}
	if err := checkLen("dense.Backprop", delta, d.OutputShape()); err != nil {
		return Gradient{}, nil, err
	}

	a := mat.NewVecDense(d.in, activation.Data())
	dv := mat.NewVecDense(d.out, delta.Data())

	dw := mat.NewDense(d.out, d.in, nil)
	dw.Outer(1, dv, a)

	var prev mat.VecDense
	prev.MulVec(d.weights.T(), dv)
	prevData := prev.RawVector().Data
	floats.Mul(prevData, derivative.Data())

	grad := Gradient{
		Weights: dw.RawMatrix().Data,
		Biases:  append([]float64(nil), delta.Data()...),
	}
	return grad, tensor.Wrap(prevData, d.InputShape()), nil
}

// Update adds g to the weights and biases.
func (d *Dense) Update(g Gradient) error {
	if err := checkGradient("dense.Update", g, d.in*d.out, d.out); err != nil {
		return err
	}
	floats.Add(d.weights.RawMatrix().Data, g.Weights)
	floats.Add(d.biases.RawVector().Data, g.Biases)
	return nil
}

// Params returns a copy of the weights (row-major [out, in]) and biases.
func (d *Dense) Params() Gradient {
	return Gradient{
		Weights: append([]float64(nil), d.weights.RawMatrix().Data...),
		Biases:  append([]float64(nil), d.biases.RawVector().Data...),
	}
}

// SetParams replaces the weights and biases with copies of p.
func (d *Dense) SetParams(p Gradient) error {
	if err := checkGradient("dense.SetParams", p, d.in*d.out, d.out); err != nil {
		return err
	}
	copy(d.weights.RawMatrix().Data, p.Weights)
	copy(d.biases.RawVector().Data, p.Biases)
	return nil
}

// String returns a one-line summary of the layer.
func (d *Dense) String() string {
	return fmt.Sprintf("Dense(in=%d, out=%d, activation=%s)", d.in, d.out, d.activation.Name())
}
