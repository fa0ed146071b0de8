// Copyright 2025 The Neural-Nets Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/maxgao11111/Neural-Nets/internal/nn"
	"github.com/maxgao11111/Neural-Nets/internal/optim"
)

// Average scales an accumulated gradient sum in place by stepSize/batchSize.
func Average(sum nn.Gradients, stepSize float64, batchSize int) error {
	return optim.Average(sum, stepSize, batchSize)
}

// Descend subtracts update from the parameters of layers.
//
// Example:
//
//	grads, _ := net.Backprop(x, y)
//	_ = optim.Average(grads, 0.1, 1)
//	_ = optim.Descend(net.Layers(), grads)
func Descend(layers []nn.Layer, update nn.Gradients) error {
	return optim.Descend(layers, update)
}

// Velocity is the momentum state of one layer chain. The zero value is
// ready to use.
type Velocity = optim.Velocity
