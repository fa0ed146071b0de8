package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"
)

// Write encodes header and tensors as an archive to w.
//
// The tensor metadata of header is replaced by the layout of tensors, which
// are written in order. FormatVersion, Version and an unset CreatedAt are
// filled in.
func Write(w io.Writer, header Header, tensors []Tensor) error {
	header.FormatVersion = FormatVersion
	header.Version = libraryVersion
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	// Calculate tensor offsets
	var offset int64
	header.Tensors = make([]TensorMeta, 0, len(tensors))
	for _, t := range tensors {
		if want := numElements(t.Shape); want != len(t.Data) {
			return fmt.Errorf("tensor %s: shape %v holds %d values, got %d", t.Name, t.Shape, want, len(t.Data))
		}
		size := int64(len(t.Data) * bytesPerElement)
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   t.Name,
			Shape:  append([]int(nil), t.Shape...),
			Offset: offset,
			Size:   size,
		})
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	data := make([]byte, 0, offset)
	for _, t := range tensors {
		for _, v := range t.Data {
			data = binary.LittleEndian.AppendUint64(data, math.Float64bits(v))
		}
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(len(data)))
	sum := ComputeChecksum(headerJSON, data)
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], sum[:])

	if _, err := w.Write(fixed); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	padding := alignedOffset(int64(len(headerJSON))) - int64(FixedHeaderSize) - int64(len(headerJSON))
	if padding > 0 {
		if _, err := w.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}
	return nil
}

// WriteFile writes an archive to path, replacing any existing file.
func WriteFile(path string, header Header, tensors []Tensor) error {
	//nolint:gosec // G304: File path comes from user input, which is expected for dataset export
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(file, header, tensors); err != nil {
		_ = file.Close() // Best effort close on error
		return err
	}
	return file.Close()
}
