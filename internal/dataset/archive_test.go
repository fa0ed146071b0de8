package dataset

import (
	"bytes"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxgao11111/Neural-Nets/internal/serialization"
	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	set := Bars(5, 4, rand.New(rand.NewSource(7)))

	var buf bytes.Buffer
	require.NoError(t, set.Save(&buf, map[string]string{"source": "bars"}))

	got, meta, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, "bars", meta["source"])
	require.Len(t, got, len(set))
	for i := range set {
		assert.True(t, set[i].Input.Equal(got[i].Input), "input %d", i)
		assert.True(t, set[i].Target.Equal(got[i].Target), "target %d", i)
	}
}

func TestSaveLoadFile(t *testing.T) {
	set, err := Pair(scalars(1, 2, 3), scalars(-1, -2, -3))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "set.cnet")
	require.NoError(t, set.SaveFile(path, nil))

	got, _, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, got[1].Input.Data())
	assert.Equal(t, []float64{-3}, got[2].Target.Data())

	_, _, err = LoadFile(filepath.Join(t.TempDir(), "missing.cnet"))
	assert.Error(t, err)
}

func TestSave_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, errors.Is(Set(nil).Save(&buf, nil), ErrEmpty))

	mixed := Set{
		{Input: tensor.Vector(1, 2), Target: tensor.Vector(1)},
		{Input: tensor.Vector(1, 2, 3), Target: tensor.Vector(1)},
	}
	var shapeErr *tensor.ShapeError
	assert.True(t, errors.As(mixed.Save(&buf, nil), &shapeErr))
}

func TestLoad_InvalidArchive(t *testing.T) {
	write := func(t *testing.T, kind string, tensors []serialization.Tensor) *bytes.Buffer {
		t.Helper()
		var buf bytes.Buffer
		require.NoError(t, serialization.Write(&buf, serialization.Header{Kind: kind}, tensors))
		return &buf
	}
	targets := serialization.Tensor{Name: "targets", Shape: []int{2, 1}, Data: []float64{0, 1}}

	tests := []struct {
		name    string
		kind    string
		tensors []serialization.Tensor
	}{
		{
			name:    "wrong kind",
			kind:    "weights",
			tensors: []serialization.Tensor{{Name: "inputs", Shape: []int{2, 1}, Data: []float64{1, 2}}, targets},
		},
		{
			name:    "missing inputs",
			kind:    serialization.KindDataset,
			tensors: []serialization.Tensor{targets},
		},
		{
			name:    "unstacked inputs",
			kind:    serialization.KindDataset,
			tensors: []serialization.Tensor{{Name: "inputs", Shape: []int{2}, Data: []float64{1, 2}}, targets},
		},
		{
			name:    "count mismatch",
			kind:    serialization.KindDataset,
			tensors: []serialization.Tensor{{Name: "inputs", Shape: []int{3, 1}, Data: []float64{1, 2, 3}}, targets},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(write(t, tt.kind, tt.tensors))
			assert.True(t, errors.Is(err, ErrArchive), "err = %v", err)
		})
	}
}

func TestLoad_Corrupt(t *testing.T) {
	set := Bars(2, 3, rand.New(rand.NewSource(8)))
	var buf bytes.Buffer
	require.NoError(t, set.Save(&buf, nil))

	raw := buf.Bytes()
	raw[len(raw)-2] ^= 0x20
	_, _, err := Load(bytes.NewReader(raw))
	assert.True(t, errors.Is(err, serialization.ErrChecksumMismatch), "err = %v", err)
}
