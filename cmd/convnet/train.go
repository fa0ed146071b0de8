package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/maxgao11111/Neural-Nets/internal/dataset"
	"github.com/maxgao11111/Neural-Nets/internal/network"
	"github.com/maxgao11111/Neural-Nets/internal/nn"
	"github.com/maxgao11111/Neural-Nets/internal/parallel"
	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

func runTrain(args []string) {
	fset := flag.NewFlagSet("train", flag.ExitOnError)
	dataPath := fset.String("data", "", "MNIST IDX directory or .cnet dataset archive (empty = synthetic bars)")
	maxSamples := fset.Int("samples", 0, "Max training samples to load (0 = all)")
	epochs := fset.Int("epochs", 10, "Number of training epochs")
	lr := fset.Float64("lr", 0.5, "Step size")
	batchSize := fset.Int("batch", 4, "Mini-batch size")
	momentum := fset.Bool("momentum", false, "Use momentum")
	friction := fset.Float64("friction", 0.9, "Momentum friction")
	seed := fset.Int64("seed", 1, "Random seed")
	workers := fset.Int("workers", 0, "Worker goroutines per mini-batch (0 = all CPUs)")
	costName := fset.String("cost", "", "Cost function override: quadratic or nll")
	plotFile := fset.String("plot", "", "Write the cost per epoch to this SVG file")
	exportFile := fset.String("export", "", "Write the training set to this .cnet dataset archive")
	_ = fset.Parse(args)

	//nolint:gosec // Using math/rand for reproducible training (not security-critical)
	rng := rand.New(rand.NewSource(*seed))

	trainSet, testSet, err := loadClassification(*dataPath, *maxSamples, rng)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !isArchive(*dataPath) {
			fmt.Println("MNIST data files not found in", *dataPath)
			fmt.Println("Expected train-images-idx3-ubyte, train-labels-idx1-ubyte,")
			fmt.Println("t10k-images-idx3-ubyte and t10k-labels-idx1-ubyte (uncompressed).")
			fmt.Println("Run without -data to use the synthetic bars dataset.")
			os.Exit(1)
		}
		log.Fatalf("Failed to load data: %v", err)
	}
	fmt.Printf("Train: %d samples, Test: %d samples\n", len(trainSet), len(testSet))

	if *exportFile != "" {
		meta := map[string]string{"source": sourceName(*dataPath), "seed": strconv.FormatInt(*seed, 10)}
		if err := trainSet.SaveFile(*exportFile, meta); err != nil {
			log.Fatalf("Failed to export data: %v", err)
		}
		fmt.Println("Training set written to", *exportFile)
	}

	net := network.New(inputShape(trainSet),
		network.WithRand(rng),
		network.WithParallel(parallelConfig(*workers)),
	)
	if err := buildClassifier(net, trainSet[0].Target.Len()); err != nil {
		log.Fatalf("Failed to build network: %v", err)
	}
	if *costName != "" {
		c, err := nn.ParseCost(*costName)
		if err != nil {
			log.Fatalf("Invalid cost: %v", err)
		}
		net.SetCost(c)
	}
	fmt.Println(net)

	var costs []float64
	cfg := network.TrainConfig{
		Epochs:        *epochs,
		StepSize:      *lr,
		MiniBatchSize: *batchSize,
		Momentum:      *momentum,
		Friction:      *friction,
		Progress: func(s network.EpochStats) {
			costs = append(costs, s.Cost)
			fmt.Printf("Epoch: %d   Average cost: %f\n", s.Epoch, s.Cost)
		},
	}
	if err := net.Train(cfg, trainSet); err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	acc, err := net.Accuracy(testSet)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
	fmt.Printf("Test accuracy: %.2f%%\n", acc*100)

	if *plotFile != "" {
		if err := savePlot(*plotFile, "Training cost", series{"cost", costs}); err != nil {
			log.Fatalf("Failed to write plot: %v", err)
		}
		fmt.Println("Cost plot written to", *plotFile)
	}
}

// loadClassification returns synthetic bars when path is empty, the last
// fifth of a dataset archive as the test set when path names a .cnet file,
// and MNIST otherwise.
func loadClassification(path string, maxSamples int, rng *rand.Rand) (train, test dataset.Set, err error) {
	switch {
	case path == "":
		n := 200
		if maxSamples > 0 {
			n = maxSamples
		}
		return dataset.Bars(n, 5, rng), dataset.Bars(n/4+1, 5, rng), nil

	case isArchive(path):
		set, _, err := dataset.LoadFile(path)
		if err != nil {
			return nil, nil, err
		}
		if len(set) < 2 {
			return nil, nil, fmt.Errorf("archive %s holds %d examples, need at least 2", path, len(set))
		}
		set.Shuffle(rng)
		if maxSamples > 0 && maxSamples < len(set) {
			set = set[:maxSamples]
		}
		split := len(set) - len(set)/5
		if split == len(set) {
			split--
		}
		return set[:split], set[split:], nil
	}

	train, err = dataset.LoadMNIST(path, true, maxSamples)
	if err != nil {
		return nil, nil, err
	}
	testMax := 0
	if maxSamples > 0 {
		testMax = maxSamples/5 + 1
	}
	test, err = dataset.LoadMNIST(path, false, testMax)
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

func isArchive(path string) bool {
	return strings.HasSuffix(path, ".cnet")
}

func sourceName(path string) string {
	if path == "" {
		return "bars"
	}
	return filepath.Base(path)
}

// buildClassifier adds conv(2x2x2) -> dense(8) -> soft(classes) for small
// images and conv(4x5x5) -> dense(30) -> soft(classes) for MNIST-sized ones.
func buildClassifier(net *network.Network, classes int) error {
	kernel, hidden := []int{2, 2, 2}, 8
	if net.InputShape().Height() >= 20 {
		kernel, hidden = []int{4, 5, 5}, 30
	}
	if err := net.AddType("conv", 0, kernel, nil); err != nil {
		return err
	}
	if err := net.AddType("dense", hidden, nil, nil); err != nil {
		return err
	}
	return net.AddType("soft", classes, nil, nil)
}

func parallelConfig(workers int) parallel.Config {
	cfg := parallel.DefaultConfig()
	if workers > 0 {
		cfg.Enabled = workers > 1
		cfg.NumWorkers = workers
	}
	return cfg
}

// inputShape is the shape of the first input of set.
func inputShape(set dataset.Set) tensor.Shape {
	return set[0].Input.Shape()
}
