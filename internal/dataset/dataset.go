// Package dataset holds labelled training examples and the helpers that
// shuffle them and cut them into mini-batches.
package dataset

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// Sentinel errors.
var (
	// ErrEmpty is returned when a set or batch has no examples.
	ErrEmpty = errors.New("empty training set")

	// ErrBatchSize is returned for mini-batch sizes below one.
	ErrBatchSize = errors.New("invalid mini-batch size")
)

// Example is one (input, expected output) pair.
type Example struct {
	Input  *tensor.Tensor
	Target *tensor.Tensor
}

// Set is an ordered collection of examples.
type Set []Example

// Pair zips inputs and targets into a Set.
//
// Returns a *tensor.ShapeError if the slices differ in length and ErrEmpty
// if they are empty.
func Pair(inputs, targets []*tensor.Tensor) (Set, error) {
	if len(inputs) != len(targets) {
		return nil, tensor.NewShapeError("dataset.Pair", tensor.Shape{len(inputs)}, tensor.Shape{len(targets)})
	}
	if len(inputs) == 0 {
		return nil, ErrEmpty
	}

	set := make(Set, len(inputs))
	for i := range inputs {
		set[i] = Example{Input: inputs[i], Target: targets[i]}
	}
	return set, nil
}

// Inputs returns the input tensors in order.
func (s Set) Inputs() []*tensor.Tensor {
	out := make([]*tensor.Tensor, len(s))
	for i, ex := range s {
		out[i] = ex.Input
	}
	return out
}

// Targets returns the target tensors in order.
func (s Set) Targets() []*tensor.Tensor {
	out := make([]*tensor.Tensor, len(s))
	for i, ex := range s {
		out[i] = ex.Target
	}
	return out
}

// Shuffle permutes the set in place. A nil rng uses the global source.
func (s Set) Shuffle(rng *rand.Rand) {
	swap := func(i, j int) { s[i], s[j] = s[j], s[i] }
	if rng == nil {
		rand.Shuffle(len(s), swap)
		return
	}
	rng.Shuffle(len(s), swap)
}

// Batches partitions the set into consecutive mini-batches of size
// examples; the last batch holds the remainder and may be smaller.
//
// The batches share storage with s.
func (s Set) Batches(size int) ([]Set, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBatchSize, size)
	}
	if len(s) == 0 {
		return nil, ErrEmpty
	}

	batches := make([]Set, 0, (len(s)+size-1)/size)
	for start := 0; start < len(s); start += size {
		batches = append(batches, s[start:min(start+size, len(s))])
	}
	return batches, nil
}

// OneHot returns a vector of n zeros with a one at index label.
//
// Panics if label is outside [0, n).
func OneHot(label, n int) *tensor.Tensor {
	if label < 0 || label >= n {
		panic(fmt.Sprintf("dataset.OneHot: label %d out of range [0, %d)", label, n))
	}
	t := tensor.Zeros(tensor.Shape{n})
	t.Data()[label] = 1
	return t
}

// ArgMax returns the index of the largest element of t, ignoring its shape.
func ArgMax(t *tensor.Tensor) int {
	if t.Len() == 0 {
		return -1
	}
	return floats.MaxIdx(t.Data())
}
