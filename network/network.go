// Copyright 2025 The Neural-Nets Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package network

import (
	"math/rand"

	"github.com/maxgao11111/Neural-Nets/internal/dataset"
	"github.com/maxgao11111/Neural-Nets/internal/network"
	"github.com/maxgao11111/Neural-Nets/internal/nn"
	"github.com/maxgao11111/Neural-Nets/internal/parallel"
	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// Networks

// Network is a feedforward layer stack with a cost function.
type Network = network.Network

// New creates an empty network taking inputs of the given shape.
//
// Example:
//
//	net := network.New(tensor.Shape{4})
//	_ = net.AddDense(3)
//	_ = net.AddSoftmax(2)
func New(inputShape tensor.Shape, opts ...Option) *Network {
	return network.New(inputShape, opts...)
}

// Generator is a layer stack trained through a Discriminator.
type Generator = network.Generator

// Discriminator judges generated samples. *Network satisfies it.
type Discriminator = network.Discriminator

// NewGenerator creates an empty generator taking inputs of the given shape.
func NewGenerator(inputShape tensor.Shape, opts ...Option) *Generator {
	return network.NewGenerator(inputShape, opts...)
}

// NewGeneratorFromLayers creates a generator from caller-built layers.
func NewGeneratorFromLayers(inputShape tensor.Shape, kinds []nn.Kind, layers []nn.Layer, opts ...Option) (*Generator, error) {
	return network.NewGeneratorFromLayers(inputShape, kinds, layers, opts...)
}

// Layer configuration

// LayerConfig describes a layer to append.
type LayerConfig = network.LayerConfig

// Kernel is the size of the kernels of a conv or deconv layer.
type Kernel = network.Kernel

// Output is the explicit output plane of a deconv layer.
type Output = network.Output

// Options

// Option configures a Network or Generator at construction.
type Option = network.Option

// WithRand sets the random source for initialization and shuffling.
func WithRand(rng *rand.Rand) Option {
	return network.WithRand(rng)
}

// WithActivation sets the default activation of non-softmax layers.
func WithActivation(act nn.Activation) Option {
	return network.WithActivation(act)
}

// ParallelConfig controls the per-example fan-out during training.
type ParallelConfig = parallel.Config

// DefaultParallelConfig returns a fan-out over all CPUs.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// WithParallel sets the fan-out used for gradients and cost evaluation.
//
// Example:
//
//	net := network.New(shape, network.WithParallel(network.ParallelConfig{}))  // sequential
func WithParallel(cfg ParallelConfig) Option {
	return network.WithParallel(cfg)
}

// Training

// TrainConfig holds the hyperparameters of stochastic gradient descent.
type TrainConfig = network.TrainConfig

// EpochStats reports the cost after one epoch.
type EpochStats = network.EpochStats

// DefaultTrainConfig returns a single-epoch, batch-of-one configuration.
func DefaultTrainConfig() TrainConfig {
	return network.DefaultTrainConfig()
}

// AdversarialConfig holds the schedule of TrainAdversarial.
type AdversarialConfig = network.AdversarialConfig

// RoundStats reports the costs after one adversarial round.
type RoundStats = network.RoundStats

// TrainAdversarial alternates discriminator and generator training.
func TrainAdversarial(cfg AdversarialConfig, gen *Generator, disc *Network, real Set) ([]RoundStats, error) {
	return network.TrainAdversarial(cfg, gen, disc, real)
}

// Data

// Example is one (input, target) pair.
type Example = dataset.Example

// Set is an ordered collection of examples.
type Set = dataset.Set

// Pair zips inputs and targets into a Set.
func Pair(inputs, targets []*tensor.Tensor) (Set, error) {
	return dataset.Pair(inputs, targets)
}

// OneHot returns a vector of n zeros with a 1 at label.
func OneHot(label, n int) *tensor.Tensor {
	return dataset.OneHot(label, n)
}

// Errors

// ConfigurationError describes a layer that could not be added.
type ConfigurationError = network.ConfigurationError

// Errors
var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = network.ErrConfiguration

	// ErrEmptyBatch is returned for empty mini-batches and training sets.
	ErrEmptyBatch = network.ErrEmptyBatch
)
