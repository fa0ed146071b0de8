// Copyright 2025 The Neural-Nets Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// Type aliases for public API

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents 2 feature maps of 3×4.
type Shape = tensor.Shape

// Tensor is a dense float64 tensor stored in row-major order.
type Tensor = tensor.Tensor

// ShapeError reports an operation given a tensor of the wrong shape.
type ShapeError = tensor.ShapeError

// ErrShape is matched by every ShapeError.
var ErrShape = tensor.ErrShape

// Creation

// New creates a zero-filled tensor of the given shape.
//
// Panics if shape has a non-positive dimension.
func New(shape Shape) *Tensor {
	return tensor.New(shape)
}

// Zeros creates a zero-filled tensor of the given shape.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// Ones creates a tensor of the given shape filled with 1.
func Ones(shape Shape) *Tensor {
	return tensor.Ones(shape)
}

// FromSlice creates a tensor holding a copy of data.
//
// Returns a *ShapeError if len(data) does not match shape.
//
// Example:
//
//	t, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// Vector creates a rank-1 tensor from values.
//
// Example:
//
//	target := tensor.Vector(0, 1)
func Vector(values ...float64) *Tensor {
	return tensor.Vector(values...)
}

// Shape conversion

// Flatten returns the elements of t as a rank-1 tensor, depth slices
// first, then rows. Tensors of rank <= 1 are returned unchanged.
func Flatten(t *Tensor) *Tensor {
	return tensor.Flatten(t)
}

// Unflatten redistributes a rank-1 tensor into target. A rank-2 tensor is
// promoted to (1, height, width) and tensors of rank >= 3 are returned
// unchanged.
//
// Returns a *ShapeError if the element counts differ.
func Unflatten(t *Tensor, target Shape) (*Tensor, error) {
	return tensor.Unflatten(t, target)
}
