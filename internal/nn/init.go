package nn

import (
	"math"
	"math/rand"
)

// Gaussian returns n weights drawn from N(0, 1) scaled by 1/√fanIn.
//
// Scaling by the fan-in keeps the variance of the weighted input close to
// one so sigmoid units start out of saturation.
//
// Parameters:
//   - rng: random source; nil uses the global math/rand source
//   - n: number of values to draw
//   - fanIn: number of inputs feeding each output unit
//
// Returns a newly allocated slice of length n.
func Gaussian(rng *rand.Rand, n, fanIn int) []float64 {
	scale := 1.0
	if fanIn > 0 {
		scale = 1 / math.Sqrt(float64(fanIn))
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = normFloat64(rng) * scale
	}
	return out
}

// GaussianBiases returns n biases drawn from N(0, 1).
func GaussianBiases(rng *rand.Rand, n int) []float64 {
	return Gaussian(rng, n, 1)
}

func normFloat64(rng *rand.Rand) float64 {
	if rng == nil {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		return rand.NormFloat64()
	}
	return rng.NormFloat64()
}
