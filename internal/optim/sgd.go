// Package optim implements the parameter update rules used by the network
// package: mini-batch averaging, plain gradient descent and momentum.
//
// Example usage:
//
//	grads := ... // summed per-example gradients of a mini-batch
//	if err := optim.Average(grads, 0.5, len(batch)); err != nil {
//	    return err
//	}
//	if err := optim.Descend(layers, grads); err != nil {
//	    return err
//	}
package optim

import (
	"fmt"

	"github.com/maxgao11111/Neural-Nets/internal/nn"
)

// Average scales an accumulated gradient sum in place by stepSize/batchSize,
// turning it into the averaged, learning-rate-scaled update of one
// mini-batch.
//
// For a batch of one this is stepSize times the single example gradient.
func Average(sum nn.Gradients, stepSize float64, batchSize int) error {
	if batchSize <= 0 {
		return fmt.Errorf("optim: batch size must be positive, got %d", batchSize)
	}
	sum.Scale(stepSize / float64(batchSize))
	return nil
}

// Descend applies a plain gradient step: every layer is updated by the
// negated update.
//
// Update rule:
//
//	param = param - update
func Descend(layers []nn.Layer, update nn.Gradients) error {
	return update.Negated().ApplyTo(layers)
}

// Velocity is the momentum state of one network.
//
// Update rule:
//
//	velocity = update                       (first step after Reset)
//	velocity = friction * velocity + update (later steps)
//	param    = param - velocity
//
// The zero value is an unset velocity, ready to use.
//
// Example:
//
//	var v optim.Velocity
//	for _, batch := range batches {
//	    update := ... // averaged gradient of the batch
//	    if err := v.Step(layers, update, 0.9); err != nil {
//	        return err
//	    }
//	}
//	v.Reset()
type Velocity struct {
	value nn.Gradients
}

// Accumulate folds update into the velocity and returns the new velocity.
//
// The returned bundle is owned by the Velocity; callers must not modify it.
func (v *Velocity) Accumulate(update nn.Gradients, friction float64) (nn.Gradients, error) {
	if v.value == nil {
		v.value = update.Clone()
		return v.value, nil
	}

	next := v.value.Clone()
	next.Scale(friction)
	if err := next.Add(update); err != nil {
		return nil, fmt.Errorf("optim: velocity does not match update: %w", err)
	}
	v.value = next
	return v.value, nil
}

// Step accumulates update and applies the negated velocity to layers.
func (v *Velocity) Step(layers []nn.Layer, update nn.Gradients, friction float64) error {
	velocity, err := v.Accumulate(update, friction)
	if err != nil {
		return err
	}
	return Descend(layers, velocity)
}

// Reset clears the velocity so the next Step starts from scratch.
func (v *Velocity) Reset() {
	v.value = nil
}

// IsSet reports whether a velocity has been accumulated since the last Reset.
func (v *Velocity) IsSet() bool {
	return v.value != nil
}

// Value returns a copy of the current velocity, or nil when unset.
func (v *Velocity) Value() nn.Gradients {
	return v.value.Clone()
}
