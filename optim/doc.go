// Copyright 2025 The Neural-Nets Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the parameter update rules of mini-batch gradient
// descent.
//
// # Overview
//
// This package contains:
//   - Average: turn a summed mini-batch gradient into a scaled update
//   - Descend: plain gradient step
//   - Velocity: momentum state with an explicit Reset
//
// network.Network.UpdateNetwork uses these rules; call them directly when
// driving a layer chain by hand.
//
// # Training Loop Pattern
//
//	var v optim.Velocity
//	defer v.Reset()
//	for _, batch := range batches {
//	    sum := ... // per-example gradients of batch, summed
//
//	    // 1. Scale by stepSize / len(batch)
//	    if err := optim.Average(sum, 0.5, len(batch)); err != nil {
//	        return err
//	    }
//
//	    // 2. Update parameters (plain: optim.Descend(layers, sum))
//	    if err := v.Step(layers, sum, 0.9); err != nil {
//	        return err
//	    }
//	}
package optim
