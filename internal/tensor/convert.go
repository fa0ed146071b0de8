package tensor

// Flatten converts feature maps into a flat vector.
//
// Each depth slice is raveled row by row and the slices are concatenated in
// depth order, so element (z, y, x) of a (d, h, w) tensor lands at index
// z*h*w + y*w + x. Tensors of rank <= 1 are returned unchanged.
//
// Example:
//
//	maps := tensor.Zeros(tensor.Shape{2, 4, 4})
//	v := tensor.Flatten(maps) // shape (32)
func Flatten(t *Tensor) *Tensor {
	if t.Rank() <= 1 {
		return t
	}

	out := make([]float64, 0, t.Len())
	sliceLen := t.Len() / t.shape[0]
	for z := 0; z < t.shape[0]; z++ {
		out = append(out, t.data[z*sliceLen:(z+1)*sliceLen]...)
	}
	return &Tensor{shape: Shape{len(out)}, data: out}
}

// Unflatten converts a flat vector back into feature maps of the target
// shape.
//
// Rules:
//   - a rank-2 tensor (a single plane) is wrapped as a single-slice volume
//     (1, h, w); target is not consulted
//   - a rank-1 tensor is redistributed into target with z outermost, then y,
//     then x; its length must equal target.NumElements()
//   - tensors of rank >= 3 are returned unchanged
//
// Returns a *ShapeError when the element counts differ.
func Unflatten(t *Tensor, target Shape) (*Tensor, error) {
	switch {
	case t.Rank() == 2:
		wrapped := t.Clone()
		wrapped.shape = Shape{1, t.shape[0], t.shape[1]}
		return wrapped, nil
	case t.Rank() >= 3:
		return t, nil
	}

	if target.NumElements() != t.Len() || len(target) == 0 {
		return nil, NewShapeError("tensor.Unflatten", target, t.shape)
	}
	if err := target.Validate(); err != nil {
		return nil, NewShapeError("tensor.Unflatten", target, t.shape)
	}

	out := New(target)
	if len(target) > 3 {
		copy(out.data, t.data)
		return out, nil
	}

	d, h, w := target.Depth(), target.Height(), target.Width()
	counter := 0
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.data[(z*h+y)*w+x] = t.data[counter]
				counter++
			}
		}
	}
	return out, nil
}
