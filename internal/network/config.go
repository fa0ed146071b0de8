package network

import (
	"fmt"
	"math/rand"

	"github.com/maxgao11111/Neural-Nets/internal/dataset"
	"github.com/maxgao11111/Neural-Nets/internal/nn"
	"github.com/maxgao11111/Neural-Nets/internal/parallel"
	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// TrainConfig holds the hyperparameters of stochastic gradient descent.
//
// Every field is used as given; start from DefaultTrainConfig for the
// usual values.
type TrainConfig struct {
	Epochs        int     // Passes over the training set; 0 trains nothing
	StepSize      float64 // Learning rate
	MiniBatchSize int     // Examples per update, at least 1
	Momentum      bool    // Update through the momentum velocity
	Friction      float64 // Velocity decay per update; 0 makes momentum a plain step

	// Progress, when set, is called after every epoch with the mean cost
	// over the training set.
	Progress func(EpochStats)
}

// EpochStats reports the state of training after one epoch.
type EpochStats struct {
	Epoch int     // 1-based epoch number
	Cost  float64 // Mean cost over the training set
}

// DefaultTrainConfig returns a single-epoch, batch-of-one configuration.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Epochs:        1,
		StepSize:      0.1,
		MiniBatchSize: 1,
		Friction:      0.9,
	}
}

// validate rejects schedules that cannot be run.
func (c TrainConfig) validate() error {
	if c.Epochs < 0 {
		return trainErr(fmt.Sprintf("negative epoch count %d", c.Epochs), nil)
	}
	if c.MiniBatchSize < 1 {
		return trainErr(fmt.Sprintf("mini-batch size %d", c.MiniBatchSize), dataset.ErrBatchSize)
	}
	return nil
}

// Option configures a Network or Generator at construction.
type Option func(*stack)

// WithRand sets the random source used for weight initialization and
// shuffling. Without it the global math/rand source is used.
func WithRand(rng *rand.Rand) Option {
	return func(s *stack) { s.rng = rng }
}

// WithActivation sets the activation of dense, conv and deconv layers added
// without an explicit one. The default is nn.Sigmoid.
func WithActivation(act nn.Activation) Option {
	return func(s *stack) { s.activation = act }
}

// WithParallel sets the fan-out used for per-example gradients and cost
// evaluation. The default is parallel.DefaultConfig().
func WithParallel(cfg parallel.Config) Option {
	return func(s *stack) { s.parallel = cfg }
}

// AdversarialConfig holds the schedule of TrainAdversarial.
type AdversarialConfig struct {
	Rounds        int         // Alternating rounds (default: 1)
	Discriminator TrainConfig // Discriminator training per round
	Generator     TrainConfig // Generator training per round

	// Noise returns n generator inputs. Nil draws uniform [0, 1) noise of
	// the generator's input shape.
	Noise func(n int) []*tensor.Tensor

	RealLabel *tensor.Tensor // Discriminator target for real samples (default: [1])
	FakeLabel *tensor.Tensor // Discriminator target for generated samples (default: [0])

	// Progress, when set, is called after every round.
	Progress func(RoundStats)
}

// RoundStats reports the costs after one adversarial round.
type RoundStats struct {
	Round             int
	DiscriminatorCost float64 // Mean discriminator cost over real and generated samples
	GeneratorCost     float64 // Mean cost of generated samples judged as real
}
