package optim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxgao11111/Neural-Nets/internal/nn"
	"github.com/maxgao11111/Neural-Nets/internal/optim"
)

// newLayer returns a 1->1 identity dense layer with weight w and bias b.
func newLayer(t *testing.T, w, b float64) *nn.Dense {
	t.Helper()
	layer := nn.NewDense(1, 1, nn.Identity{}, nil)
	require.NoError(t, layer.SetParams(nn.Gradient{Weights: []float64{w}, Biases: []float64{b}}))
	return layer
}

func bundle(w, b float64) nn.Gradients {
	return nn.Gradients{{Weights: []float64{w}, Biases: []float64{b}}}
}

func TestAverage(t *testing.T) {
	g := bundle(4, 8)
	require.NoError(t, optim.Average(g, 0.5, 4))
	assert.Equal(t, []float64{0.5}, g[0].Weights)
	assert.Equal(t, []float64{1}, g[0].Biases)

	// batch of one: step size times the gradient
	g = bundle(3, -2)
	require.NoError(t, optim.Average(g, 0.1, 1))
	assert.InDelta(t, 0.3, g[0].Weights[0], 1e-12)
	assert.InDelta(t, -0.2, g[0].Biases[0], 1e-12)

	assert.Error(t, optim.Average(g, 0.1, 0))
}

func TestDescend(t *testing.T) {
	layer := newLayer(t, 2, 1)
	require.NoError(t, optim.Descend([]nn.Layer{layer}, bundle(0.5, -1)))

	p := layer.Params()
	assert.InDelta(t, 1.5, p.Weights[0], 1e-12)
	assert.InDelta(t, 2.0, p.Biases[0], 1e-12)
}

func TestVelocity_Recurrence(t *testing.T) {
	const friction = 0.9
	var v optim.Velocity
	assert.False(t, v.IsSet())
	assert.Nil(t, v.Value())

	layer := newLayer(t, 0, 0)
	layers := []nn.Layer{layer}

	// v1 = g1
	require.NoError(t, v.Step(layers, bundle(1, 2), friction))
	assert.Equal(t, []float64{1}, v.Value()[0].Weights)
	assert.Equal(t, []float64{2}, v.Value()[0].Biases)

	// v2 = v1*f + g2
	require.NoError(t, v.Step(layers, bundle(10, 20), friction))
	v2 := v.Value()
	assert.InDelta(t, 1*friction+10, v2[0].Weights[0], 1e-12)
	assert.InDelta(t, 2*friction+20, v2[0].Biases[0], 1e-12)

	// parameters moved by -v1 then -v2
	p := layer.Params()
	assert.InDelta(t, -(1 + 10.9), p.Weights[0], 1e-12)
	assert.InDelta(t, -(2 + 21.8), p.Biases[0], 1e-12)

	v.Reset()
	assert.False(t, v.IsSet())
}

func TestVelocity_ValueIsCopy(t *testing.T) {
	var v optim.Velocity
	_, err := v.Accumulate(bundle(1, 1), 0.5)
	require.NoError(t, err)

	got := v.Value()
	got[0].Weights[0] = 100
	assert.Equal(t, []float64{1}, v.Value()[0].Weights)
}

func TestVelocity_AccumulateCopiesFirstUpdate(t *testing.T) {
	var v optim.Velocity
	update := bundle(1, 1)
	_, err := v.Accumulate(update, 0.5)
	require.NoError(t, err)

	update[0].Weights[0] = 42
	assert.Equal(t, []float64{1}, v.Value()[0].Weights)
}

func TestVelocity_MismatchedUpdate(t *testing.T) {
	var v optim.Velocity
	_, err := v.Accumulate(bundle(1, 1), 0.5)
	require.NoError(t, err)

	_, err = v.Accumulate(nn.Gradients{}, 0.5)
	assert.Error(t, err)
}
