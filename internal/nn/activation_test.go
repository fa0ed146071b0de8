package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestSigmoid_Values(t *testing.T) {
	out := Sigmoid{}.Apply([]float64{0, 100, -100})
	assert.InDelta(t, 0.5, out[0], 1e-12)
	assert.InDelta(t, 1.0, out[1], 1e-12)
	assert.InDelta(t, 0.0, out[2], 1e-12)

	d := Sigmoid{}.Derivative([]float64{0})
	assert.InDelta(t, 0.25, d[0], 1e-12)
}

func TestReLU_Values(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 2}, ReLU{}.Apply([]float64{-1, 0, 2}))
	assert.Equal(t, []float64{0, 0, 1}, ReLU{}.Derivative([]float64{-1, 0, 2}))
}

func TestLeakyReLU_DefaultSlope(t *testing.T) {
	out := LeakyReLU{}.Apply([]float64{-2, 3})
	assert.InDelta(t, -0.02, out[0], 1e-12)
	assert.InDelta(t, 3.0, out[1], 1e-12)

	custom := LeakyReLU{Alpha: 0.2}.Derivative([]float64{-1, 1})
	assert.Equal(t, []float64{0.2, 1}, custom)
}

func TestSoftmax_Normalizes(t *testing.T) {
	z := []float64{1, 2, 3, 1000}
	out := Softmax{}.Apply(z)

	assert.InDelta(t, 1.0, floats.Sum(out), 1e-12)
	for _, v := range out {
		assert.False(t, math.IsNaN(v), "softmax produced NaN for large input")
	}
	assert.Equal(t, 3, floats.MaxIdx(out))

	// input untouched
	assert.Equal(t, []float64{1, 2, 3, 1000}, z)
}

// TestActivations_Derivatives checks every elementwise derivative against
// central differences.
func TestActivations_Derivatives(t *testing.T) {
	z := []float64{-1.5, -0.3, 0.4, 2.2}
	for _, act := range []Activation{Sigmoid{}, TanH{}, ReLU{}, LeakyReLU{}, Identity{}} {
		t.Run(act.Name(), func(t *testing.T) {
			d := act.Derivative(z)
			for i, v := range z {
				up := act.Apply([]float64{v + 1e-6})[0]
				down := act.Apply([]float64{v - 1e-6})[0]
				assert.InDelta(t, (up-down)/2e-6, d[i], 1e-6, "z=%v", v)
			}
		})
	}
}

func TestParseActivation(t *testing.T) {
	for _, name := range []string{"sigmoid", "ReLU", "leakyrelu", "tanh", "softmax", "identity"} {
		act, err := ParseActivation(name)
		require.NoError(t, err, name)
		assert.NotNil(t, act)
	}

	_, err := ParseActivation("swish")
	assert.Error(t, err)
}
