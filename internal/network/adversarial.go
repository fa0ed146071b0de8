package network

import (
	"fmt"

	"github.com/maxgao11111/Neural-Nets/internal/dataset"
	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// TrainAdversarial alternates discriminator and generator training.
//
// Each round:
//  1. draws len(real) generator inputs from cfg.Noise
//  2. trains disc on the real samples labelled cfg.RealLabel together with
//     the generated samples labelled cfg.FakeLabel
//  3. trains gen against disc on the same inputs labelled cfg.RealLabel
//
// The targets of real are ignored. Returns the costs after every round.
func TrainAdversarial(cfg AdversarialConfig, gen *Generator, disc *Network, real dataset.Set) ([]RoundStats, error) {
	if len(real) == 0 {
		return nil, ErrEmptyBatch
	}

	rounds := cfg.Rounds
	if rounds == 0 {
		rounds = 1
	}
	realLabel, fakeLabel := cfg.RealLabel, cfg.FakeLabel
	if realLabel == nil {
		realLabel = tensor.Vector(1)
	}
	if fakeLabel == nil {
		fakeLabel = tensor.Vector(0)
	}
	noise := cfg.Noise
	if noise == nil {
		noise = func(n int) []*tensor.Tensor {
			return dataset.Noise(n, gen.InputShape(), gen.rng)
		}
	}

	stats := make([]RoundStats, 0, rounds)
	for round := 1; round <= rounds; round++ {
		inputs := noise(len(real))

		discSet := make(dataset.Set, 0, 2*len(real))
		genSet := make(dataset.Set, 0, len(inputs))
		for _, ex := range real {
			discSet = append(discSet, dataset.Example{Input: ex.Input, Target: realLabel})
		}
		for _, z := range inputs {
			fake, err := gen.Feedforward(z)
			if err != nil {
				return stats, fmt.Errorf("round %d: generator: %w", round, err)
			}
			discSet = append(discSet, dataset.Example{Input: fake, Target: fakeLabel})
			genSet = append(genSet, dataset.Example{Input: z, Target: realLabel})
		}

		if err := disc.Train(cfg.Discriminator, discSet); err != nil {
			return stats, fmt.Errorf("round %d: discriminator: %w", round, err)
		}
		if err := gen.Train(cfg.Generator, genSet, disc); err != nil {
			return stats, fmt.Errorf("round %d: generator: %w", round, err)
		}

		discCost, err := disc.EvaluateCost(discSet)
		if err != nil {
			return stats, fmt.Errorf("round %d: %w", round, err)
		}
		genCost, err := gen.EvaluateCost(genSet, disc)
		if err != nil {
			return stats, fmt.Errorf("round %d: %w", round, err)
		}

		s := RoundStats{Round: round, DiscriminatorCost: discCost, GeneratorCost: genCost}
		stats = append(stats, s)
		if cfg.Progress != nil {
			cfg.Progress(s)
		}
	}
	return stats, nil
}
