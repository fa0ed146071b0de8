package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strconv"

	"github.com/maxgao11111/Neural-Nets/internal/dataset"
	"github.com/maxgao11111/Neural-Nets/internal/network"
	"github.com/maxgao11111/Neural-Nets/internal/nn"
	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

const (
	sampleSize = 8 // Length of the real and generated vectors
	noiseSize  = 4 // Length of the generator input
)

func runGAN(args []string) {
	fset := flag.NewFlagSet("gan", flag.ExitOnError)
	rounds := fset.Int("rounds", 20, "Alternating discriminator/generator rounds")
	epochs := fset.Int("epochs", 2, "Epochs per network per round")
	lr := fset.Float64("lr", 0.5, "Step size")
	batchSize := fset.Int("batch", 8, "Mini-batch size")
	samples := fset.Int("samples", 64, "Real samples")
	seed := fset.Int64("seed", 1, "Random seed")
	verbose := fset.Bool("v", false, "Print generator progress every epoch")
	plotFile := fset.String("plot", "", "Write the costs per round to this SVG file")
	exportFile := fset.String("export", "", "Write generated samples and their discriminator scores to this .cnet archive")
	_ = fset.Parse(args)

	//nolint:gosec // Using math/rand for reproducible training (not security-critical)
	rng := rand.New(rand.NewSource(*seed))

	disc := network.New(tensor.Shape{sampleSize}, network.WithRand(rng))
	gen := network.NewGenerator(tensor.Shape{noiseSize}, network.WithRand(rng))
	if err := buildGAN(gen, disc); err != nil {
		log.Fatalf("Failed to build networks: %v", err)
	}
	fmt.Println(disc)
	fmt.Println(gen)

	genCfg := network.TrainConfig{Epochs: *epochs, StepSize: *lr, MiniBatchSize: *batchSize}
	if *verbose {
		genCfg.Progress = func(s network.EpochStats) {
			fmt.Printf("Generator Epoch: %d   Average cost: %f\n", s.Epoch, s.Cost)
		}
	}

	var discCosts, genCosts []float64
	cfg := network.AdversarialConfig{
		Rounds:        *rounds,
		Discriminator: network.TrainConfig{Epochs: *epochs, StepSize: *lr, MiniBatchSize: *batchSize},
		Generator:     genCfg,
		Progress: func(s network.RoundStats) {
			discCosts = append(discCosts, s.DiscriminatorCost)
			genCosts = append(genCosts, s.GeneratorCost)
			fmt.Printf("Round: %d   Discriminator cost: %f   Generator cost: %f\n",
				s.Round, s.DiscriminatorCost, s.GeneratorCost)
		},
	}

	if _, err := network.TrainAdversarial(cfg, gen, disc, dataset.Ramps(*samples, sampleSize, rng)); err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	for _, z := range dataset.Noise(3, gen.InputShape(), rng) {
		out, err := gen.Feedforward(z)
		if err != nil {
			log.Fatalf("Generation failed: %v", err)
		}
		fmt.Printf("Sample: %.3f\n", out.Data())
	}

	if *exportFile != "" {
		set, err := generate(gen, disc, *samples, rng)
		if err != nil {
			log.Fatalf("Generation failed: %v", err)
		}
		if err := set.SaveFile(*exportFile, map[string]string{"rounds": strconv.Itoa(*rounds)}); err != nil {
			log.Fatalf("Failed to export samples: %v", err)
		}
		fmt.Println("Generated samples written to", *exportFile)
	}

	if *plotFile != "" {
		err := savePlot(*plotFile, "Adversarial cost",
			series{"discriminator", discCosts},
			series{"generator", genCosts},
		)
		if err != nil {
			log.Fatalf("Failed to write plot: %v", err)
		}
		fmt.Println("Cost plot written to", *plotFile)
	}
}

// buildGAN adds dense(16) -> dense(8) to gen and dense(8) -> dense(1) to disc.
// The generator's hidden layer is leaky ReLU.
func buildGAN(gen *network.Generator, disc *network.Network) error {
	if err := gen.Add(network.LayerConfig{
		Kind:       nn.KindDense,
		Size:       16,
		Activation: nn.LeakyReLU{Alpha: 0.1},
	}); err != nil {
		return err
	}
	if err := gen.AddDense(sampleSize); err != nil {
		return err
	}
	if err := disc.AddDense(8); err != nil {
		return err
	}
	return disc.AddDense(1)
}

// generate pairs n generated samples with the discriminator's score for each.
func generate(gen *network.Generator, disc *network.Network, n int, rng *rand.Rand) (dataset.Set, error) {
	set := make(dataset.Set, n)
	for i, z := range dataset.Noise(n, gen.InputShape(), rng) {
		out, err := gen.Feedforward(z)
		if err != nil {
			return nil, err
		}
		score, err := disc.Feedforward(out)
		if err != nil {
			return nil, err
		}
		set[i] = dataset.Example{Input: out, Target: score}
	}
	return set, nil
}
