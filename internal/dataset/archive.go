package dataset

import (
	"errors"
	"fmt"
	"io"

	"github.com/maxgao11111/Neural-Nets/internal/serialization"
	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// Archive tensor names. Both carry the example count as their first
// dimension.
const (
	archiveInputs  = "inputs"
	archiveTargets = "targets"
)

// ErrArchive is returned when an archive does not hold a dataset.
var ErrArchive = errors.New("invalid dataset archive")

// Save writes s to w as a dataset archive.
//
// Every input must share one shape, and every target another, so the set
// is stored as two stacked tensors.
func (s Set) Save(w io.Writer, metadata map[string]string) error {
	header, tensors, err := s.archive(metadata)
	if err != nil {
		return err
	}
	return serialization.Write(w, header, tensors)
}

// SaveFile writes s to path; see Save.
func (s Set) SaveFile(path string, metadata map[string]string) error {
	header, tensors, err := s.archive(metadata)
	if err != nil {
		return err
	}
	return serialization.WriteFile(path, header, tensors)
}

// Load reads a set written by Set.Save, with the archive metadata.
func Load(r io.Reader) (Set, map[string]string, error) {
	archive, err := serialization.Read(r)
	if err != nil {
		return nil, nil, err
	}
	return setFrom(archive)
}

// LoadFile reads a set from path; see Load.
func LoadFile(path string) (Set, map[string]string, error) {
	archive, err := serialization.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return setFrom(archive)
}

func (s Set) archive(metadata map[string]string) (serialization.Header, []serialization.Tensor, error) {
	if len(s) == 0 {
		return serialization.Header{}, nil, ErrEmpty
	}
	inputs, inShape, err := stack("inputs", s.Inputs())
	if err != nil {
		return serialization.Header{}, nil, err
	}
	targets, outShape, err := stack("targets", s.Targets())
	if err != nil {
		return serialization.Header{}, nil, err
	}

	header := serialization.Header{Kind: serialization.KindDataset, Metadata: metadata}
	tensors := []serialization.Tensor{
		{Name: archiveInputs, Shape: inShape, Data: inputs},
		{Name: archiveTargets, Shape: outShape, Data: targets},
	}
	return header, tensors, nil
}

// stack concatenates ts into one buffer of shape (len(ts), ts[0].Shape()...).
func stack(what string, ts []*tensor.Tensor) ([]float64, []int, error) {
	shape := ts[0].Shape()
	data := make([]float64, 0, len(ts)*shape.NumElements())
	for i, t := range ts {
		if !t.Shape().Equal(shape) {
			return nil, nil, fmt.Errorf("%s %d: %w", what, i,
				tensor.NewShapeError("dataset.Save", shape, t.Shape()))
		}
		data = append(data, t.Data()...)
	}
	return data, append([]int{len(ts)}, shape...), nil
}

func setFrom(archive *serialization.Archive) (Set, map[string]string, error) {
	if kind := archive.Header().Kind; kind != serialization.KindDataset {
		return nil, nil, fmt.Errorf("%w: kind %q", ErrArchive, kind)
	}
	inputs, err := unstack(archive, archiveInputs)
	if err != nil {
		return nil, nil, err
	}
	targets, err := unstack(archive, archiveTargets)
	if err != nil {
		return nil, nil, err
	}
	set, err := Pair(inputs, targets)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrArchive, err)
	}
	return set, archive.Metadata(), nil
}

// unstack splits the named tensor along its first dimension.
func unstack(archive *serialization.Archive, name string) ([]*tensor.Tensor, error) {
	data, shape, err := archive.Tensor(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchive, err)
	}
	if len(shape) < 2 || shape[0] < 1 {
		return nil, fmt.Errorf("%w: %s has shape %v", ErrArchive, name, shape)
	}

	item := tensor.Shape(shape[1:])
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrArchive, name, err)
	}
	size := item.NumElements()
	out := make([]*tensor.Tensor, shape[0])
	for i := range out {
		t, err := tensor.FromSlice(data[i*size:(i+1)*size], item)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %d: %w", ErrArchive, name, i, err)
		}
		out[i] = t
	}
	return out, nil
}
