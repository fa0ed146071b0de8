package nn

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		tag  string
		want Kind
	}{
		{"dense", KindDense},
		{"soft", KindSoftmax},
		{"conv", KindConv},
		{"deconv", KindDeconv},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.tag)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.tag, got.String())
	}

	_, err := ParseKind("pool")
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestKind_Spatial(t *testing.T) {
	assert.True(t, KindConv.Spatial())
	assert.True(t, KindDeconv.Spatial())
	assert.False(t, KindDense.Spatial())
	assert.False(t, KindSoftmax.Spatial())
}

func TestLayers_SatisfyInterface(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	layers := []Layer{
		NewDense(3, 2, nil, rng),
		NewSoftmax(3, 2, rng),
		NewConv(tensor.Shape{1, 3, 3}, tensor.Shape{1, 1, 2, 2}, nil, rng),
		NewDeconv(tensor.Shape{1, 2, 2}, tensor.Shape{1, 1, 2, 2}, tensor.Shape{1, 4, 4}, nil, rng),
	}
	kinds := []Kind{KindDense, KindSoftmax, KindConv, KindDeconv}
	for i, l := range layers {
		assert.Equal(t, kinds[i], l.Kind())
	}
}

func TestGradients_Arithmetic(t *testing.T) {
	a := Gradients{{Weights: []float64{1, 2}, Biases: []float64{3}}}
	b := Gradients{{Weights: []float64{10, 20}, Biases: []float64{30}}}

	sum := a.Clone()
	require.NoError(t, sum.Add(b))
	assert.Equal(t, []float64{11, 22}, sum[0].Weights)
	assert.Equal(t, []float64{33}, sum[0].Biases)
	assert.Equal(t, []float64{1, 2}, a[0].Weights, "Clone must not share storage")

	sum.Scale(0.5)
	assert.Equal(t, []float64{5.5, 11}, sum[0].Weights)

	neg := a.Negated()
	assert.Equal(t, []float64{-1, -2}, neg[0].Weights)
	assert.Equal(t, []float64{1, 2}, a[0].Weights)

	err := a.Add(Gradients{{Weights: []float64{1}, Biases: []float64{1}}})
	assert.True(t, errors.Is(err, tensor.ErrShape))
	err = a.Add(nil)
	assert.True(t, errors.Is(err, tensor.ErrShape))
}

func TestGradients_ApplyTo(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	layer := NewDense(2, 1, nil, rng)
	before := layer.Params()

	step := Gradients{{Weights: []float64{1, -1}, Biases: []float64{0.5}}}
	require.NoError(t, step.ApplyTo([]Layer{layer}))

	after := layer.Params()
	assert.InDelta(t, before.Weights[0]+1, after.Weights[0], 1e-12)
	assert.InDelta(t, before.Weights[1]-1, after.Weights[1], 1e-12)
	assert.InDelta(t, before.Biases[0]+0.5, after.Biases[0], 1e-12)

	assert.Error(t, step.ApplyTo(nil))
}
