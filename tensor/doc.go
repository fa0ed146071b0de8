// Copyright 2025 The Neural-Nets Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the float64 tensors that flow through a network.
//
// # Overview
//
// A Tensor is a flat row-major []float64 with a Shape. Networks use three
// layouts:
//   - (n): flat vectors, consumed and produced by dense and softmax layers
//   - (height, width): a single plane, promoted to (1, height, width)
//   - (depth, height, width): feature maps of conv and deconv layers
//
// # Basic Usage
//
//	import "github.com/maxgao11111/Neural-Nets/tensor"
//
//	func main() {
//	    img := tensor.Zeros(tensor.Shape{1, 28, 28})
//	    img.Set(0.5, 0, 3, 4)
//
//	    flat := tensor.Flatten(img)                          // (784)
//	    back, err := tensor.Unflatten(flat, img.Shape())     // (1, 28, 28)
//	}
//
// # Shape Conversion
//
// Flatten always yields a rank-1 tensor over the same elements. Unflatten
// restores a rank-1 tensor to a (height, width) or (depth, height, width)
// target and promotes a single plane to one feature map; it returns a
// *ShapeError when the element counts differ.
// Unflatten(Flatten(t), t.Shape()) equals t for every rank-2 and rank-3 t.
//
// # Errors
//
// Shape mismatches anywhere in the module are reported as *ShapeError,
// which matches ErrShape under errors.Is:
//
//	if errors.Is(err, tensor.ErrShape) {
//	    // wrong input or target size
//	}
package tensor
