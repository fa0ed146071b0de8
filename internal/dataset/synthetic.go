package dataset

import (
	"fmt"
	"math/rand"

	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// Bars generates n (1, size, size) images holding a single bright bar on a
// dim background, labelled one-hot as vertical (0) or horizontal (1).
//
// This is NOT realistic image data, just enough structure for a
// convolutional network to learn in a few epochs.
//
// Panics if size < 2.
func Bars(n, size int, rng *rand.Rand) Set {
	if size < 2 {
		panic(fmt.Sprintf("dataset.Bars: size must be at least 2, got %d", size))
	}

	set := make(Set, n)
	for i := range set {
		img := tensor.Zeros(tensor.Shape{1, size, size})
		for j := range img.Data() {
			img.Data()[j] = 0.1 * uniform(rng)
		}

		horizontal := i%2 == 1
		pos := intn(rng, size)
		for k := 0; k < size; k++ {
			if horizontal {
				img.Set(0.9, 0, pos, k)
			} else {
				img.Set(0.9, 0, k, pos)
			}
		}

		label := 0
		if horizontal {
			label = 1
		}
		set[i] = Example{Input: img, Target: OneHot(label, 2)}
	}
	return set
}

// Ramps generates n vectors of length size that rise linearly from a random
// low value to a random high value. They serve as the "real" distribution in
// adversarial training demos.
func Ramps(n, size int, rng *rand.Rand) Set {
	set := make(Set, n)
	for i := range set {
		lo := 0.1 + 0.2*uniform(rng)
		hi := 0.7 + 0.2*uniform(rng)
		v := make([]float64, size)
		for j := range v {
			frac := 0.0
			if size > 1 {
				frac = float64(j) / float64(size-1)
			}
			v[j] = lo + (hi-lo)*frac
		}
		set[i] = Example{Input: tensor.Wrap(v, tensor.Shape{size}), Target: tensor.Vector(1)}
	}
	return set
}

// Noise returns n tensors of the given shape with elements drawn uniformly
// from [0, 1).
func Noise(n int, shape tensor.Shape, rng *rand.Rand) []*tensor.Tensor {
	out := make([]*tensor.Tensor, n)
	for i := range out {
		t := tensor.Zeros(shape)
		for j := range t.Data() {
			t.Data()[j] = uniform(rng)
		}
		out[i] = t
	}
	return out
}

//nolint:gosec // Using math/rand for synthetic data (not security-critical)
func uniform(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.Float64()
	}
	return rng.Float64()
}

//nolint:gosec // Using math/rand for synthetic data (not security-critical)
func intn(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.Intn(n)
	}
	return rng.Intn(n)
}
