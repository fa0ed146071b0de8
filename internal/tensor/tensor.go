// Package tensor implements the dense float64 tensors that flow between
// network layers, together with the conversions between the flat vector
// representation used by dense layers and the feature-map representation
// used by convolutional layers.
package tensor

import (
	"fmt"
	"math"
)

// Tensor is a dense, row-major float64 tensor.
//
// A Tensor owns its data slice. Operations in this package never alias the
// data of their inputs unless documented otherwise.
//
// Example:
//
//	image := tensor.Zeros(tensor.Shape{1, 5, 5})
//	image.Set(1.0, 0, 2, 2)
//	v := tensor.Flatten(image) // shape (25)
type Tensor struct {
	shape Shape
	data  []float64
}

// New creates a zero-filled tensor with the given shape.
//
// Panics if the shape has a non-positive dimension.
func New(shape Shape) *Tensor {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("tensor.New: %v", err))
	}
	return &Tensor{
		shape: shape.Clone(),
		data:  make([]float64, shape.NumElements()),
	}
}

// Zeros is an alias of New that reads better at call sites.
func Zeros(shape Shape) *Tensor {
	return New(shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	t := New(shape)
	for i := range t.data {
		t.data[i] = 1
	}
	return t
}

// OnesLike creates a tensor of ones with the same shape as t.
func OnesLike(t *Tensor) *Tensor {
	return Ones(t.shape)
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, NewShapeError("tensor.FromSlice", shape, Shape{len(data)})
	}

	t := New(shape)
	copy(t.data, data)
	return t, nil
}

// Vector creates a rank-1 tensor holding the given values.
func Vector(values ...float64) *Tensor {
	t := &Tensor{shape: Shape{len(values)}, data: make([]float64, len(values))}
	copy(t.data, values)
	return t
}

// Wrap creates a tensor backed directly by data, without copying.
// It is used by layers to hand freshly allocated buffers to callers.
func Wrap(data []float64, shape Shape) *Tensor {
	if shape.NumElements() != len(data) {
		panic(fmt.Sprintf("tensor.Wrap: shape %v requires %d elements, got %d",
			shape, shape.NumElements(), len(data)))
	}
	return &Tensor{shape: shape.Clone(), data: data}
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// Len returns the number of elements.
func (t *Tensor) Len() int {
	return len(t.data)
}

// Data returns the underlying row-major data slice (not a copy).
func (t *Tensor) Data() []float64 {
	return t.data
}

// index converts a multi-dimensional index into an offset.
func (t *Tensor) index(idx []int) int {
	if len(idx) != len(t.shape) {
		panic(fmt.Sprintf("tensor: index %v has rank %d, tensor has rank %d", idx, len(idx), len(t.shape)))
	}
	offset := 0
	for i, n := range idx {
		if n < 0 || n >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %v out of range for shape %v", idx, t.shape))
		}
		offset = offset*t.shape[i] + n
	}
	return offset
}

// At returns the element at the given index.
func (t *Tensor) At(idx ...int) float64 {
	return t.data[t.index(idx)]
}

// Set stores v at the given index.
func (t *Tensor) Set(v float64, idx ...int) {
	t.data[t.index(idx)] = v
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	c := &Tensor{shape: t.shape.Clone(), data: make([]float64, len(t.data))}
	copy(c.data, t.data)
	return c
}

// Reshape returns a copy of the tensor with a new shape holding the same
// number of elements.
func (t *Tensor) Reshape(shape Shape) (*Tensor, error) {
	if shape.NumElements() != len(t.data) {
		return nil, NewShapeError("tensor.Reshape", shape, t.shape)
	}
	c := t.Clone()
	c.shape = shape.Clone()
	return c, nil
}

// Equal reports whether two tensors have the same shape and elements.
func (t *Tensor) Equal(other *Tensor) bool {
	return t.EqualApprox(other, 0)
}

// EqualApprox reports whether two tensors have the same shape and all
// elements differ by at most tol.
func (t *Tensor) EqualApprox(other *Tensor, tol float64) bool {
	if !t.shape.Equal(other.shape) {
		return false
	}
	for i := range t.data {
		if math.Abs(t.data[i]-other.data[i]) > tol {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v%v", t.shape, t.data)
}
