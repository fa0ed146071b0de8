package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
//
// The network uses three ranks:
//   - rank 1: a flat activation vector (dense and softmax layers)
//   - rank 2: a single image plane [height, width]
//   - rank 3: feature maps [depth, height, width] (conv and deconv layers)
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Depth, Height and Width read a rank-3 shape. Lower ranks are treated as
// having leading dimensions of 1, so a plane [h, w] has depth 1 and a
// vector [n] is a 1x1xn volume.
func (s Shape) Depth() int  { return s.dim(3) }
func (s Shape) Height() int { return s.dim(2) }
func (s Shape) Width() int  { return s.dim(1) }

func (s Shape) dim(fromEnd int) int {
	if len(s) < fromEnd {
		return 1
	}
	return s[len(s)-fromEnd]
}

// String formats the shape as (d0, d1, ...).
func (s Shape) String() string {
	out := "("
	for i, dim := range s {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprint(dim)
	}
	return out + ")"
}
