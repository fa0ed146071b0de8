package nn

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// Cost measures how far a prediction is from the expected output and
// supplies the error signal that starts backpropagation.
//
// Prediction and expected tensors are compared element by element; only
// their element counts must agree, so a (1, 4, 4) output may be scored
// against a flat target of 16 values.
type Cost interface {
	// Name returns a short identifier for logs.
	Name() string

	// Value returns the scalar cost of prediction against expected.
	Value(prediction, expected *tensor.Tensor) (float64, error)

	// Delta returns ∂C/∂z for the output layer, shaped like activation.
	Delta(activation, derivative, expected *tensor.Tensor) (*tensor.Tensor, error)
}

// QuadraticCost is half the squared Euclidean distance: ½‖a - y‖².
//
// Delta is (a - y) ⊙ f'(z).
type QuadraticCost struct{}

// Name returns "quadratic".
func (QuadraticCost) Name() string { return "quadratic" }

// Value computes ½‖a - y‖².
func (QuadraticCost) Value(prediction, expected *tensor.Tensor) (float64, error) {
	if err := checkLen("cost.Quadratic", expected, prediction.Shape()); err != nil {
		return 0, err
	}
	d := floats.Distance(prediction.Data(), expected.Data(), 2)
	return 0.5 * d * d, nil
}

// Delta computes (a - y) ⊙ f'(z).
func (QuadraticCost) Delta(activation, derivative, expected *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkLen("cost.QuadraticDelta", expected, activation.Shape()); err != nil {
		return nil, err
	}
	if err := checkLen("cost.QuadraticDelta", derivative, activation.Shape()); err != nil {
		return nil, err
	}
	out := make([]float64, activation.Len())
	floats.SubTo(out, activation.Data(), expected.Data())
	floats.Mul(out, derivative.Data())
	return tensor.Wrap(out, activation.Shape()), nil
}

// NegativeLogLikelihood is the cross-entropy of a probability output
// against a one-hot (or soft) target: -Σ y ln a.
//
// Paired with a softmax output layer the delta collapses to a - y and the
// derivative argument is ignored.
type NegativeLogLikelihood struct{}

// probFloor keeps ln(a) finite when a saturates to zero.
const probFloor = 1e-15

// Name returns "nll".
func (NegativeLogLikelihood) Name() string { return "nll" }

// Value computes -Σ y ln a, skipping terms where y is zero.
func (NegativeLogLikelihood) Value(prediction, expected *tensor.Tensor) (float64, error) {
	if err := checkLen("cost.NegativeLogLikelihood", expected, prediction.Shape()); err != nil {
		return 0, err
	}
	a := prediction.Data()
	var sum float64
	for i, y := range expected.Data() {
		if y == 0 {
			continue
		}
		sum -= y * math.Log(math.Max(a[i], probFloor))
	}
	return sum, nil
}

// Delta computes a - y.
func (NegativeLogLikelihood) Delta(activation, _, expected *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkLen("cost.NegativeLogLikelihoodDelta", expected, activation.Shape()); err != nil {
		return nil, err
	}
	out := make([]float64, activation.Len())
	floats.SubTo(out, activation.Data(), expected.Data())
	return tensor.Wrap(out, activation.Shape()), nil
}

// ParseCost returns the cost function with the given name
// (case-insensitive): quadratic or nll.
func ParseCost(name string) (Cost, error) {
	switch strings.ToLower(name) {
	case "quadratic", "mse":
		return QuadraticCost{}, nil
	case "nll", "negative_log_likelihood":
		return NegativeLogLikelihood{}, nil
	}
	return nil, fmt.Errorf("unknown cost %q", name)
}
