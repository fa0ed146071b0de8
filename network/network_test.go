// Copyright 2025 The Neural-Nets Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package network_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxgao11111/Neural-Nets/network"
	"github.com/maxgao11111/Neural-Nets/nn"
	"github.com/maxgao11111/Neural-Nets/tensor"
)

func TestPublicAPI_ConvClassifier(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	net := network.New(tensor.Shape{1, 5, 5}, network.WithRand(rng), network.WithParallel(network.ParallelConfig{}))
	require.NoError(t, net.AddConv(2, 2, 2))
	require.NoError(t, net.AddDense(3))

	out, err := net.Feedforward(tensor.Zeros(tensor.Shape{1, 5, 5}))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3}, out.Shape())

	_, err = net.Feedforward(tensor.Zeros(tensor.Shape{1, 4, 4}))
	var shapeErr *tensor.ShapeError
	assert.True(t, errors.As(err, &shapeErr), "err = %v", err)
}

func TestPublicAPI_Errors(t *testing.T) {
	net := network.New(tensor.Shape{4})
	err := net.Add(network.LayerConfig{Kind: nn.KindConv, Kernel: network.Kernel{Count: 1, Height: 2, Width: 2}})

	var cfgErr *network.ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "err = %v", err)
	assert.Equal(t, 0, cfgErr.Layer)
	assert.True(t, errors.Is(err, network.ErrConfiguration))

	require.NoError(t, net.AddSoftmax(2))
	err = net.StochasticGradientDescent(network.DefaultTrainConfig(), nil, nil)
	assert.True(t, errors.Is(err, network.ErrEmptyBatch))
}

func TestPublicAPI_Train(t *testing.T) {
	net := network.New(tensor.Shape{4}, network.WithRand(rand.New(rand.NewSource(2))))
	require.NoError(t, net.AddDense(3))
	require.NoError(t, net.AddSoftmax(2))

	set, err := network.Pair(
		[]*tensor.Tensor{tensor.Vector(1, 0, 0, 0), tensor.Vector(0, 0, 0, 1)},
		[]*tensor.Tensor{network.OneHot(0, 2), network.OneHot(1, 2)},
	)
	require.NoError(t, err)

	before, err := net.EvaluateCost(set)
	require.NoError(t, err)
	require.NoError(t, net.Train(network.TrainConfig{Epochs: 40, StepSize: 0.5, MiniBatchSize: 1}, set))
	after, err := net.EvaluateCost(set)
	require.NoError(t, err)
	assert.Less(t, after, before)
}
