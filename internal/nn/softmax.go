package nn

import (
	"fmt"
	"math/rand"
)

// SoftmaxLayer is a Dense layer with a softmax activation, used as the
// probability output of a classifier.
//
// A network whose last layer is a SoftmaxLayer is scored with
// NegativeLogLikelihood.
type SoftmaxLayer struct {
	*Dense
}

// NewSoftmax creates a softmax output layer with in inputs and out classes.
//
// Panics if in or out is not positive.
func NewSoftmax(in, out int, rng *rand.Rand) *SoftmaxLayer {
	return &SoftmaxLayer{Dense: NewDense(in, out, Softmax{}, rng)}
}

// Kind returns KindSoftmax.
func (s *SoftmaxLayer) Kind() Kind { return KindSoftmax }

// String returns a one-line summary of the layer.
func (s *SoftmaxLayer) String() string {
	return fmt.Sprintf("Softmax(in=%d, out=%d)", s.in, s.out)
}
