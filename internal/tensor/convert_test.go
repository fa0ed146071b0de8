package tensor

import (
	"errors"
	"testing"
)

func TestFlatten_Order(t *testing.T) {
	// Two 2x2 slices: depth-major, then row-major within each slice.
	x, err := FromSlice([]float64{
		1, 2,
		3, 4,

		5, 6,
		7, 8,
	}, Shape{2, 2, 2})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	flat := Flatten(x)
	assertEqualShape(t, Shape{8}, flat.Shape(), "Flatten")
	for i, v := range flat.Data() {
		if v != float64(i+1) {
			t.Fatalf("Flatten() = %v, want 1..8 in order", flat.Data())
		}
	}
}

func TestFlatten_VectorUnchanged(t *testing.T) {
	v := Vector(1, 2, 3)
	if Flatten(v) != v {
		t.Error("Flatten() of a rank-1 tensor should return it unchanged")
	}
}

func TestUnflatten_Plane(t *testing.T) {
	plane, _ := FromSlice(sequence(6), Shape{2, 3})

	// target is ignored for planes
	out, err := Unflatten(plane, Shape{9, 9, 9})
	if err != nil {
		t.Fatalf("Unflatten failed: %v", err)
	}
	assertEqualShape(t, Shape{1, 2, 3}, out.Shape(), "Unflatten(plane)")
	if out.At(0, 1, 2) != 6 {
		t.Errorf("At(0, 1, 2) = %v, want 6", out.At(0, 1, 2))
	}
}

func TestUnflatten_Order(t *testing.T) {
	out, err := Unflatten(Vector(sequence(12)...), Shape{3, 2, 2})
	if err != nil {
		t.Fatalf("Unflatten failed: %v", err)
	}

	counter := 1.0
	for z := 0; z < 3; z++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				if got := out.At(z, y, x); got != counter {
					t.Errorf("At(%d, %d, %d) = %v, want %v", z, y, x, got, counter)
				}
				counter++
			}
		}
	}
}

func TestUnflatten_CountMismatch(t *testing.T) {
	_, err := Unflatten(Vector(sequence(10)...), Shape{2, 2, 2})
	if !errors.Is(err, ErrShape) {
		t.Fatalf("err = %v, want ErrShape", err)
	}

	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("err = %T, want *ShapeError", err)
	}
	assertEqualShape(t, Shape{2, 2, 2}, shapeErr.Want, "ShapeError.Want")
	assertEqualShape(t, Shape{10}, shapeErr.Got, "ShapeError.Got")
}

func TestFlattenUnflatten_RoundTrip(t *testing.T) {
	shapes := []Shape{
		{1, 1, 1},
		{1, 5, 5},
		{2, 4, 4},
		{3, 2, 7},
		{6, 1, 3},
	}

	for _, shape := range shapes {
		x, err := FromSlice(sequence(shape.NumElements()), shape)
		if err != nil {
			t.Fatalf("FromSlice(%v) failed: %v", shape, err)
		}

		back, err := Unflatten(Flatten(x), shape)
		if err != nil {
			t.Fatalf("Unflatten(%v) failed: %v", shape, err)
		}
		if !back.Equal(x) {
			t.Errorf("round trip of %v: got %v, want %v", shape, back, x)
		}
	}
}
