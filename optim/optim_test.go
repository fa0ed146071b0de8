// Copyright 2025 The Neural-Nets Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxgao11111/Neural-Nets/network"
	"github.com/maxgao11111/Neural-Nets/nn"
	"github.com/maxgao11111/Neural-Nets/optim"
	"github.com/maxgao11111/Neural-Nets/tensor"
)

func TestManualStepMatchesUpdateNetwork(t *testing.T) {
	build := func() *network.Network {
		net := network.New(tensor.Shape{2}, network.WithRand(rand.New(rand.NewSource(9))))
		require.NoError(t, net.AddDense(2))
		return net
	}
	x, y := tensor.Vector(0.3, -0.7), tensor.Vector(1, 0)

	auto := build()
	batch, err := network.Pair([]*tensor.Tensor{x}, []*tensor.Tensor{y})
	require.NoError(t, err)
	require.NoError(t, auto.UpdateNetwork(0.5, batch, false, 0))

	manual := build()
	grads, err := manual.Backprop(x, y)
	require.NoError(t, err)
	require.NoError(t, optim.Average(grads, 0.5, 1))
	require.NoError(t, optim.Descend(manual.Layers(), grads))

	for i := range auto.Layers() {
		assert.InDeltaSlice(t, auto.Layers()[i].Params().Weights, manual.Layers()[i].Params().Weights, 1e-12)
		assert.InDeltaSlice(t, auto.Layers()[i].Params().Biases, manual.Layers()[i].Params().Biases, 1e-12)
	}
}

func TestVelocity(t *testing.T) {
	layer := nn.NewDense(1, 1, nn.Identity{}, rand.New(rand.NewSource(1)))
	start := layer.Params()

	var v optim.Velocity
	assert.False(t, v.IsSet())
	update := nn.Gradients{{Weights: []float64{1}, Biases: []float64{1}}}
	require.NoError(t, v.Step([]nn.Layer{layer}, update, 0.5))
	require.NoError(t, v.Step([]nn.Layer{layer}, update, 0.5))

	// 1 + (0.5*1 + 1)
	assert.InDelta(t, start.Weights[0]-2.5, layer.Params().Weights[0], 1e-12)
	v.Reset()
	assert.False(t, v.IsSet())

	assert.Error(t, optim.Average(update, 0.1, 0))
}
