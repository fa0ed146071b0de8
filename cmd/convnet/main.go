// Package main provides the convnet CLI: train a convolutional classifier or
// a generator/discriminator pair and report the cost per epoch.
package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("convnet %s\n", version)
	case "train":
		runTrain(os.Args[2:])
	case "gan":
		runGAN(os.Args[2:])
	case "help", "-h", "-help", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "convnet: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("convnet - convolutional and adversarial network training")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  train      Train a classifier (synthetic bars, or MNIST / a .cnet archive with -data)")
	fmt.Println("  gan        Train a generator against a discriminator on synthetic ramps")
	fmt.Println("")
	fmt.Println("Run 'convnet <command> -h' for the flags of a command.")
}
