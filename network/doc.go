// Copyright 2025 The Neural-Nets Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package network assembles layers into networks and trains them.
//
// # Overview
//
// This package contains:
//   - Network: dense, softmax, conv and deconv layers scored by a cost
//     function and trained with mini-batch SGD, optionally with momentum
//   - Generator: a layer stack whose error signal comes from a
//     discriminator Network
//   - TrainAdversarial: alternating discriminator and generator rounds
//
// # Basic Usage
//
//	import (
//	    "github.com/maxgao11111/Neural-Nets/network"
//	    "github.com/maxgao11111/Neural-Nets/tensor"
//	)
//
//	func main() {
//	    net := network.New(tensor.Shape{1, 5, 5})
//	    _ = net.AddConv(2, 2, 2)   // (2, 4, 4)
//	    _ = net.AddDense(8)
//	    _ = net.AddSoftmax(2)      // cost: negative log-likelihood
//
//	    cfg := network.TrainConfig{Epochs: 20, StepSize: 0.5, MiniBatchSize: 4, Momentum: true}
//	    if err := net.StochasticGradientDescent(cfg, inputs, outputs); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Cost Selection
//
// Every Add rebinds the cost function from the kind of the layer just
// added: NegativeLogLikelihood after a softmax layer, QuadraticCost
// otherwise. Call SetCost after the last Add to override it.
//
// # Errors
//
// Add returns a *ConfigurationError (matching ErrConfiguration) for layers
// that cannot be built. Feedforward, Backprop and training return
// *tensor.ShapeError for inputs and targets of the wrong size and
// ErrEmptyBatch for empty data.
package network
