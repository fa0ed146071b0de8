package network

import (
	"errors"
	"fmt"

	"github.com/maxgao11111/Neural-Nets/internal/dataset"
	"github.com/maxgao11111/Neural-Nets/internal/nn"
	"github.com/maxgao11111/Neural-Nets/internal/optim"
	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// UpdateNetwork applies one mini-batch step.
//
// The per-example gradients are summed and scaled by stepSize/len(batch).
// Without momentum every layer moves by the negated average. With momentum
// the average is folded into the velocity (velocity = velocity*friction +
// average, or just the average on first use) and every layer moves by the
// negated velocity.
//
// Returns ErrEmptyBatch for an empty batch. The velocity persists across
// calls until ResetVelocity.
func (n *Network) UpdateNetwork(stepSize float64, batch dataset.Set, momentum bool, friction float64) error {
	avg, err := n.averageGradients(batch, stepSize, func(ex dataset.Example) (nn.Gradients, error) {
		return n.Backprop(ex.Input, ex.Target)
	})
	if err != nil {
		return err
	}

	if !momentum {
		return optim.Descend(n.layers, avg)
	}
	return n.velocity.Step(n.layers, avg, friction)
}

// ResetVelocity discards the momentum state.
func (n *Network) ResetVelocity() {
	n.velocity.Reset()
}

// Velocity returns a copy of the momentum state, or nil when unset.
func (n *Network) Velocity() nn.Gradients {
	return n.velocity.Value()
}

// StochasticGradientDescent pairs inputs with outputs and trains on them
// with Train.
//
// Returns a *tensor.ShapeError if the slices differ in length and
// ErrEmptyBatch if they are empty.
func (n *Network) StochasticGradientDescent(cfg TrainConfig, inputs, outputs []*tensor.Tensor) error {
	set, err := dataset.Pair(inputs, outputs)
	if err != nil {
		if errors.Is(err, dataset.ErrEmpty) {
			return fmt.Errorf("%w: %w", ErrEmptyBatch, err)
		}
		return err
	}
	return n.Train(cfg, set)
}

// Train runs cfg.Epochs passes over set. Each pass shuffles set in place,
// cuts it into consecutive mini-batches of cfg.MiniBatchSize (the last may
// be smaller) and applies UpdateNetwork to each.
//
// The velocity is reset when Train returns, whether or not it succeeded.
func (n *Network) Train(cfg TrainConfig, set dataset.Set) error {
	defer n.ResetVelocity()
	if err := cfg.validate(); err != nil {
		return err
	}

	return n.epochs(cfg, set, func(batch dataset.Set) error {
		return n.UpdateNetwork(cfg.StepSize, batch, cfg.Momentum, cfg.Friction)
	}, n.EvaluateCost)
}

// EvaluateCost returns the mean cost over set.
func (n *Network) EvaluateCost(set dataset.Set) (float64, error) {
	return n.meanOver(set, func(ex dataset.Example) (float64, error) {
		out, err := n.Feedforward(ex.Input)
		if err != nil {
			return 0, err
		}
		return n.cost.Value(out, ex.Target)
	})
}

// Accuracy returns the fraction of examples in set whose largest output
// matches the largest target element.
func (n *Network) Accuracy(set dataset.Set) (float64, error) {
	return n.meanOver(set, func(ex dataset.Example) (float64, error) {
		out, err := n.Feedforward(ex.Input)
		if err != nil {
			return 0, err
		}
		if dataset.ArgMax(out) == dataset.ArgMax(ex.Target) {
			return 1, nil
		}
		return 0, nil
	})
}
