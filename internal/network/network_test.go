package network_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxgao11111/Neural-Nets/internal/dataset"
	"github.com/maxgao11111/Neural-Nets/internal/network"
	"github.com/maxgao11111/Neural-Nets/internal/nn"
	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// convNet builds (1, 5, 5) -> conv 2x2x2 -> (2, 4, 4) -> dense(3).
func convNet(t *testing.T, seed int64) *network.Network {
	t.Helper()
	net := network.New(tensor.Shape{1, 5, 5}, network.WithRand(seeded(seed)), network.WithParallel(sequential))
	require.NoError(t, net.AddConv(2, 2, 2))
	require.NoError(t, net.AddDense(3))
	return net
}

func TestAdd_ShapeChain(t *testing.T) {
	net := convNet(t, 1)

	layers := net.Layers()
	require.Len(t, layers, 2)
	assert.Equal(t, []nn.Kind{nn.KindConv, nn.KindDense}, net.Kinds())

	assert.True(t, layers[0].InputShape().Equal(tensor.Shape{1, 5, 5}))
	assert.True(t, layers[0].OutputShape().Equal(tensor.Shape{2, 4, 4}))
	assert.True(t, layers[1].InputShape().Equal(tensor.Shape{32}))
	assert.True(t, net.OutputShape().Equal(tensor.Shape{3}))

	conv, ok := layers[0].(*nn.Conv)
	require.True(t, ok)
	assert.True(t, conv.KernelShape().Equal(tensor.Shape{2, 1, 2, 2}))
}

func TestFeedforward_ConvToDense(t *testing.T) {
	net := convNet(t, 2)

	out, err := net.Feedforward(randomInput(seeded(3), tensor.Shape{1, 5, 5}))
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(tensor.Shape{3}))

	// a bare image plane is promoted to a single-slice volume
	plane := tensor.Zeros(tensor.Shape{5, 5})
	out, err = net.Feedforward(plane)
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(tensor.Shape{3}))
}

func TestFeedforward_WrongInput(t *testing.T) {
	net := convNet(t, 4)
	_, err := net.Feedforward(tensor.Zeros(tensor.Shape{1, 4, 4}))
	assert.True(t, errors.Is(err, tensor.ErrShape), "err = %v", err)
}

func TestAdd_DeconvAfterDenseNeedsReshape(t *testing.T) {
	net := network.New(tensor.Shape{4}, network.WithRand(seeded(5)))
	require.NoError(t, net.AddDense(8))

	err := net.AddDeconv(1, 2, 2, 4, 4)
	assert.True(t, errors.Is(err, network.ErrConfiguration), "err = %v", err)

	require.NoError(t, net.Add(network.LayerConfig{
		Kind:    nn.KindDeconv,
		Kernel:  network.Kernel{Count: 1, Height: 2, Width: 2},
		Output:  network.Output{Height: 4, Width: 4},
		Reshape: tensor.Shape{2, 2, 2},
	}))
	assert.True(t, net.OutputShape().Equal(tensor.Shape{1, 4, 4}))

	deconv := net.Layers()[1].(*nn.Deconv)
	assert.Equal(t, [2]int{2, 2}, deconv.Stride())
}

func TestAdd_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name  string
		add   func(n *network.Network) error
		cause error
	}{
		{"unknown tag", func(n *network.Network) error { return n.AddType("pool", 0, []int{1, 2, 2}, nil) }, nn.ErrUnknownKind},
		{"missing kernel", func(n *network.Network) error { return n.AddType("conv", 0, nil, nil) }, nil},
		{"zero kernel", func(n *network.Network) error { return n.AddConv(0, 2, 2) }, nil},
		{"kernel too large", func(n *network.Network) error { return n.AddConv(1, 6, 2) }, nn.ErrKernel},
		{"missing output", func(n *network.Network) error { return n.AddType("deconv", 0, []int{1, 2, 2}, nil) }, nil},
		{"unreachable output", func(n *network.Network) error { return n.AddDeconv(1, 2, 2, 7, 7) }, nn.ErrKernel},
		{"zero dense", func(n *network.Network) error { return n.AddDense(0) }, nil},
		{"reshape of maps", func(n *network.Network) error {
			return n.Add(network.LayerConfig{
				Kind:    nn.KindConv,
				Kernel:  network.Kernel{Count: 1, Height: 2, Width: 2},
				Reshape: tensor.Shape{5, 5, 1},
			})
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := network.New(tensor.Shape{1, 5, 5})
			err := tt.add(net)
			require.Error(t, err)
			assert.True(t, errors.Is(err, network.ErrConfiguration), "err = %v", err)
			if tt.cause != nil {
				assert.True(t, errors.Is(err, tt.cause), "err = %v, want cause %v", err, tt.cause)
			}

			var cfgErr *network.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, 0, cfgErr.Layer)
			assert.Empty(t, net.Layers(), "failed Add must not append")
		})
	}
}

func TestAddType(t *testing.T) {
	net := network.New(tensor.Shape{1, 3, 3}, network.WithRand(seeded(6)))
	require.NoError(t, net.AddType("deconv", 0, []int{2, 3, 3}, []int{5, 5}))
	require.NoError(t, net.AddType("conv", 0, []int{1, 2, 2}, nil))
	require.NoError(t, net.AddType("dense", 4, nil, nil))
	require.NoError(t, net.AddType("soft", 2, nil, nil))

	assert.Equal(t, []nn.Kind{nn.KindDeconv, nn.KindConv, nn.KindDense, nn.KindSoftmax}, net.Kinds())
	assert.True(t, net.Layers()[1].InputShape().Equal(tensor.Shape{2, 5, 5}))
	assert.True(t, net.Layers()[2].InputShape().Equal(tensor.Shape{16}))
}

func TestAdd_CostFollowsLastLayer(t *testing.T) {
	net := network.New(tensor.Shape{4}, network.WithRand(seeded(7)))
	assert.IsType(t, nn.QuadraticCost{}, net.Cost())

	require.NoError(t, net.AddDense(3))
	assert.IsType(t, nn.QuadraticCost{}, net.Cost())

	require.NoError(t, net.AddSoftmax(2))
	assert.IsType(t, nn.NegativeLogLikelihood{}, net.Cost())

	// a layer after the softmax reverts the cost
	require.NoError(t, net.AddDense(2))
	assert.IsType(t, nn.QuadraticCost{}, net.Cost())

	require.NoError(t, net.AddLayer(nn.KindSoftmax, nn.NewSoftmax(2, 2, seeded(8))))
	assert.IsType(t, nn.NegativeLogLikelihood{}, net.Cost())
}

func TestAddLayer_Validation(t *testing.T) {
	net := network.New(tensor.Shape{1, 5, 5}, network.WithRand(seeded(9)))

	err := net.AddLayer(nn.KindDense, nn.NewDense(24, 3, nil, nil))
	assert.True(t, errors.Is(err, tensor.ErrShape), "err = %v", err)

	err = net.AddLayer(nn.KindConv, nn.NewDense(25, 3, nil, nil))
	assert.True(t, errors.Is(err, network.ErrConfiguration), "err = %v", err)

	conv := nn.NewConv(tensor.Shape{1, 5, 5}, tensor.Shape{1, 1, 3, 3}, nil, nil)
	require.NoError(t, net.AddLayer(nn.KindConv, conv))
	require.NoError(t, net.AddLayer(nn.KindDense, nn.NewDense(9, 2, nil, nil)))
	assert.Len(t, net.Layers(), 2)
}

func TestBackprop_BundleAlignment(t *testing.T) {
	net := convNet(t, 10)
	require.NoError(t, net.AddSoftmax(2))

	grads, err := net.Backprop(randomInput(seeded(11), tensor.Shape{1, 5, 5}), dataset.OneHot(1, 2))
	require.NoError(t, err)

	layers := net.Layers()
	require.Len(t, grads, len(layers))
	for i, l := range layers {
		p := l.Params()
		assert.Len(t, grads[i].Weights, len(p.Weights), "layer %d", i)
		assert.Len(t, grads[i].Biases, len(p.Biases), "layer %d", i)
	}
}

// TestBackprop_MatchesNumeric checks the full reverse pass, including the
// flatten and unflatten boundaries, against finite differences of the cost.
func TestBackprop_MatchesNumeric(t *testing.T) {
	tests := []struct {
		name   string
		build  func(t *testing.T) *network.Network
		input  tensor.Shape
		target *tensor.Tensor
	}{
		{
			name: "conv dense softmax",
			build: func(t *testing.T) *network.Network {
				net := convNet(t, 12)
				require.NoError(t, net.AddSoftmax(2))
				return net
			},
			input:  tensor.Shape{1, 5, 5},
			target: dataset.OneHot(0, 2),
		},
		{
			name: "dense deconv conv dense",
			build: func(t *testing.T) *network.Network {
				net := network.New(tensor.Shape{4}, network.WithRand(seeded(13)), network.WithParallel(sequential))
				require.NoError(t, net.AddDense(8))
				require.NoError(t, net.Add(network.LayerConfig{
					Kind:    nn.KindDeconv,
					Kernel:  network.Kernel{Count: 1, Height: 2, Width: 2},
					Output:  network.Output{Height: 4, Width: 4},
					Reshape: tensor.Shape{2, 2, 2},
				}))
				require.NoError(t, net.AddConv(1, 2, 2))
				require.NoError(t, net.AddDense(2))
				return net
			},
			input:  tensor.Shape{4},
			target: tensor.Vector(0.2, 0.9),
		},
		{
			name: "deconv output scored against flat target",
			build: func(t *testing.T) *network.Network {
				net := network.New(tensor.Shape{1, 2, 2}, network.WithRand(seeded(14)), network.WithParallel(sequential))
				require.NoError(t, net.AddDeconv(1, 2, 2, 4, 4))
				return net
			},
			input:  tensor.Shape{1, 2, 2},
			target: tensor.Wrap(make([]float64, 16), tensor.Shape{16}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := tt.build(t)
			x := randomInput(seeded(15), tt.input)

			got, err := net.Backprop(x, tt.target)
			require.NoError(t, err)

			want := numericGradients(t, net.Layers(), func() float64 {
				out, err := net.Feedforward(x)
				require.NoError(t, err)
				c, err := net.Cost().Value(out, tt.target)
				require.NoError(t, err)
				return c
			})
			assertGradientsClose(t, want, got, 1e-6)
		})
	}
}

func TestInputDelta_MatchesNumeric(t *testing.T) {
	net := convNet(t, 16)
	require.NoError(t, net.AddSoftmax(2))
	x := randomInput(seeded(17), tensor.Shape{1, 5, 5})
	y := dataset.OneHot(1, 2)

	delta, err := net.InputDelta(x, y)
	require.NoError(t, err)
	require.True(t, delta.Shape().Equal(x.Shape()))

	cost := func(in *tensor.Tensor) float64 {
		out, err := net.Feedforward(in)
		require.NoError(t, err)
		c, err := net.Cost().Value(out, y)
		require.NoError(t, err)
		return c
	}

	const eps = 1e-5
	for i := range x.Data() {
		up, down := x.Clone(), x.Clone()
		up.Data()[i] += eps
		down.Data()[i] -= eps
		numeric := (cost(up) - cost(down)) / (2 * eps)
		assert.InDelta(t, numeric, delta.Data()[i], 1e-6, "input %d", i)
	}
}

func TestBackprop_EmptyNetwork(t *testing.T) {
	net := network.New(tensor.Shape{2})
	_, err := net.Backprop(tensor.Vector(1, 2), tensor.Vector(1, 2))
	assert.True(t, errors.Is(err, network.ErrConfiguration))
}

func TestString(t *testing.T) {
	net := convNet(t, 18)
	s := net.String()
	assert.Contains(t, s, "Network(input=(1, 5, 5))")
	assert.Contains(t, s, "Conv(")
	assert.Contains(t, s, "Dense(in=32, out=3")
}
