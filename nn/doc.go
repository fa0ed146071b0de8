// Copyright 2025 The Neural-Nets Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the layers, activations and costs networks are built
// from.
//
// # Overview
//
// This package contains:
//   - Layers: Dense, SoftmaxLayer, Conv, Deconv
//   - Activations: Sigmoid, ReLU, LeakyReLU, TanH, Softmax, Identity
//   - Costs: QuadraticCost, NegativeLogLikelihood
//   - Gradient bundles: Gradient, Gradients
//
// Most users never build layers directly: network.Network.Add constructs
// them from a LayerConfig and chains their shapes. Build layers here to
// control initialisation or to assemble a network.Generator from parts.
//
// # Layers
//
// Dense: fully connected, weights (out, in), Gaussian initialised with
// 1/sqrt(in) scaling
//
//	layer := nn.NewDense(in, out, nn.ReLU{}, rng)
//
// Conv: valid convolution with stride 1; (d, h, w) to (k, h-kh+1, w-kw+1)
//
//	conv := nn.NewConv(tensor.Shape{d, h, w}, tensor.Shape{k, d, kh, kw}, nil, rng)
//
// Deconv: transposed convolution; the per-axis stride s satisfies
// out = (in-1)*s + k
//
//	deconv := nn.NewDeconv(input, kernel, output, nil, rng)
//
// # Backprop contract
//
// Layer.Backprop takes the value fed into the layer, the derivative of the
// activation that produced it and the error signal at the layer's own
// pre-activations. It returns the parameter gradients and the error signal
// for the previous layer's pre-activations.
package nn
