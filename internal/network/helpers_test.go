package network_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxgao11111/Neural-Nets/internal/nn"
	"github.com/maxgao11111/Neural-Nets/internal/parallel"
	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

var sequential = parallel.Sequential()

func randomInput(rng *rand.Rand, shape tensor.Shape) *tensor.Tensor {
	t := tensor.Zeros(shape)
	for i := range t.Data() {
		t.Data()[i] = rng.Float64()
	}
	return t
}

// flatten concatenates every weight and bias of a bundle.
func flatten(gs nn.Gradients) []float64 {
	var out []float64
	for _, g := range gs {
		out = append(out, g.Weights...)
		out = append(out, g.Biases...)
	}
	return out
}

func params(layers []nn.Layer) nn.Gradients {
	out := make(nn.Gradients, len(layers))
	for i, l := range layers {
		out[i] = l.Params()
	}
	return out
}

// numericGradients estimates ∂cost/∂θ for every parameter of layers by
// central differences.
func numericGradients(t *testing.T, layers []nn.Layer, cost func() float64) nn.Gradients {
	t.Helper()
	const eps = 1e-5

	out := make(nn.Gradients, len(layers))
	for li, l := range layers {
		p := l.Params()
		out[li] = nn.Gradient{Weights: make([]float64, len(p.Weights)), Biases: make([]float64, len(p.Biases))}

		probe := func(weights bool, i int) float64 {
			step := nn.Gradient{Weights: make([]float64, len(p.Weights)), Biases: make([]float64, len(p.Biases))}
			target := step.Biases
			if weights {
				target = step.Weights
			}

			target[i] = eps
			require.NoError(t, l.Update(step))
			up := cost()
			target[i] = -2 * eps
			require.NoError(t, l.Update(step))
			down := cost()
			target[i] = eps
			require.NoError(t, l.Update(step))
			return (up - down) / (2 * eps)
		}

		for i := range p.Weights {
			out[li].Weights[i] = probe(true, i)
		}
		for i := range p.Biases {
			out[li].Biases[i] = probe(false, i)
		}
	}
	return out
}

func assertGradientsClose(t *testing.T, want, got nn.Gradients, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.Len(t, got[i].Weights, len(want[i].Weights), "layer %d weights", i)
		require.Len(t, got[i].Biases, len(want[i].Biases), "layer %d biases", i)
		for j := range want[i].Weights {
			assert.InDelta(t, want[i].Weights[j], got[i].Weights[j], tol, "layer %d weight %d", i, j)
		}
		for j := range want[i].Biases {
			assert.InDelta(t, want[i].Biases[j], got[i].Biases[j], tol, "layer %d bias %d", i, j)
		}
	}
}
