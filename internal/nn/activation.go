package nn

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Activation is an elementwise (or, for Softmax, vector-wise) squashing
// function applied to a layer's pre-activations.
//
// Apply and Derivative always return new slices and never modify z.
type Activation interface {
	// Name returns the identifier accepted by ParseActivation.
	Name() string

	// Apply computes f(z).
	Apply(z []float64) []float64

	// Derivative computes f'(z) elementwise.
	Derivative(z []float64) []float64
}

// Sigmoid squashes values to the range (0, 1): σ(z) = 1 / (1 + exp(-z)).
type Sigmoid struct{}

// Name returns "sigmoid".
func (Sigmoid) Name() string { return "sigmoid" }

// Apply computes σ(z).
func (Sigmoid) Apply(z []float64) []float64 {
	return mapSlice(z, sigmoid)
}

// Derivative computes σ(z)(1 - σ(z)).
func (Sigmoid) Derivative(z []float64) []float64 {
	return mapSlice(z, func(v float64) float64 {
		s := sigmoid(v)
		return s * (1 - s)
	})
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

// ReLU is the rectified linear unit: max(0, z).
type ReLU struct{}

// Name returns "relu".
func (ReLU) Name() string { return "relu" }

// Apply computes max(0, z).
func (ReLU) Apply(z []float64) []float64 {
	return mapSlice(z, func(v float64) float64 { return math.Max(0, v) })
}

// Derivative is 1 for z > 0 and 0 otherwise.
func (ReLU) Derivative(z []float64) []float64 {
	return mapSlice(z, func(v float64) float64 {
		if v > 0 {
			return 1
		}
		return 0
	})
}

// LeakyReLU is ReLU with a small slope for negative inputs.
type LeakyReLU struct {
	// Alpha is the slope for z < 0. Zero means 0.01.
	Alpha float64
}

// Name returns "leakyrelu".
func (LeakyReLU) Name() string { return "leakyrelu" }

func (l LeakyReLU) alpha() float64 {
	if l.Alpha == 0 {
		return 0.01
	}
	return l.Alpha
}

// Apply computes z for z > 0 and alpha*z otherwise.
func (l LeakyReLU) Apply(z []float64) []float64 {
	a := l.alpha()
	return mapSlice(z, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return a * v
	})
}

// Derivative is 1 for z > 0 and alpha otherwise.
func (l LeakyReLU) Derivative(z []float64) []float64 {
	a := l.alpha()
	return mapSlice(z, func(v float64) float64 {
		if v > 0 {
			return 1
		}
		return a
	})
}

// TanH is the hyperbolic tangent.
type TanH struct{}

// Name returns "tanh".
func (TanH) Name() string { return "tanh" }

// Apply computes tanh(z).
func (TanH) Apply(z []float64) []float64 {
	return mapSlice(z, math.Tanh)
}

// Derivative computes 1 - tanh²(z).
func (TanH) Derivative(z []float64) []float64 {
	return mapSlice(z, func(v float64) float64 {
		t := math.Tanh(v)
		return 1 - t*t
	})
}

// Softmax normalizes a vector into a probability distribution.
//
// The maximum is subtracted before exponentiation for numerical stability.
// Derivative returns the diagonal of the Jacobian, s(1 - s); paired with
// NegativeLogLikelihood the output delta is simply a - y and the derivative
// is never needed.
type Softmax struct{}

// Name returns "softmax".
func (Softmax) Name() string { return "softmax" }

// Apply computes exp(z_i - max) / Σ exp(z_j - max).
func (Softmax) Apply(z []float64) []float64 {
	if len(z) == 0 {
		return []float64{}
	}
	maxVal := floats.Max(z)
	out := mapSlice(z, func(v float64) float64 { return math.Exp(v - maxVal) })
	floats.Scale(1/floats.Sum(out), out)
	return out
}

// Derivative computes s_i(1 - s_i).
func (s Softmax) Derivative(z []float64) []float64 {
	out := s.Apply(z)
	for i, v := range out {
		out[i] = v * (1 - v)
	}
	return out
}

// Identity leaves pre-activations unchanged.
type Identity struct{}

// Name returns "identity".
func (Identity) Name() string { return "identity" }

// Apply returns a copy of z.
func (Identity) Apply(z []float64) []float64 {
	return append([]float64(nil), z...)
}

// Derivative returns ones.
func (Identity) Derivative(z []float64) []float64 {
	return mapSlice(z, func(float64) float64 { return 1 })
}

// ParseActivation returns the activation with the given name
// (case-insensitive): sigmoid, relu, leakyrelu, tanh, softmax or identity.
func ParseActivation(name string) (Activation, error) {
	switch strings.ToLower(name) {
	case "sigmoid":
		return Sigmoid{}, nil
	case "relu":
		return ReLU{}, nil
	case "leakyrelu", "leaky_relu":
		return LeakyReLU{}, nil
	case "tanh":
		return TanH{}, nil
	case "softmax":
		return Softmax{}, nil
	case "identity", "linear":
		return Identity{}, nil
	}
	return nil, fmt.Errorf("unknown activation %q", name)
}

func mapSlice(z []float64, f func(float64) float64) []float64 {
	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = f(v)
	}
	return out
}
