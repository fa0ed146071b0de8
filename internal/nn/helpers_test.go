package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

const gradEps = 1e-6

// checkLayerGradients compares Backprop against finite differences of the
// scalar score S = Σ r ⊙ z(x), where r is a fixed random weighting of the
// pre-activations. With derivative = ones the propagated delta is ∂S/∂x.
func checkLayerGradients(t *testing.T, l Layer, x *tensor.Tensor, rng *rand.Rand) {
	t.Helper()

	z, err := l.PreActivations(x)
	require.NoError(t, err)
	r := tensor.Wrap(Gaussian(rng, z.Len(), 1), z.Shape())

	score := func(in *tensor.Tensor) float64 {
		z, err := l.PreActivations(in)
		require.NoError(t, err)
		return floats.Dot(z.Data(), r.Data())
	}

	grad, prev, err := l.Backprop(x, tensor.OnesLike(x), r)
	require.NoError(t, err)
	assert.True(t, prev.Shape().Equal(l.InputShape()), "delta shape %v, want %v", prev.Shape(), l.InputShape())

	base := score(x)
	params := l.Params()
	nudge := func(weights bool, i int, v float64) {
		step := Gradient{
			Weights: make([]float64, len(params.Weights)),
			Biases:  make([]float64, len(params.Biases)),
		}
		if weights {
			step.Weights[i] = v
		} else {
			step.Biases[i] = v
		}
		require.NoError(t, l.Update(step))
	}

	for i := range params.Weights {
		nudge(true, i, gradEps)
		numeric := (score(x) - base) / gradEps
		nudge(true, i, -gradEps)
		assert.InDelta(t, numeric, grad.Weights[i], 1e-4, "weight %d", i)
	}
	for i := range params.Biases {
		nudge(false, i, gradEps)
		numeric := (score(x) - base) / gradEps
		nudge(false, i, -gradEps)
		assert.InDelta(t, numeric, grad.Biases[i], 1e-4, "bias %d", i)
	}
	for i := range x.Data() {
		xp := x.Clone()
		xp.Data()[i] += gradEps
		numeric := (score(xp) - base) / gradEps
		assert.InDelta(t, numeric, prev.Data()[i], 1e-4, "input %d", i)
	}
}

func randomTensor(rng *rand.Rand, shape tensor.Shape) *tensor.Tensor {
	return tensor.Wrap(Gaussian(rng, shape.NumElements(), 1), shape)
}
