package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
)

// Archive is a decoded archive held in memory.
type Archive struct {
	header Header
	flags  uint32
	data   []byte
	index  map[string]TensorMeta
}

// Read decodes and validates an archive from r.
//
// The checksum covers the header and the tensor data; a mismatch returns
// ErrChecksumMismatch.
func Read(r io.Reader) (*Archive, error) {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, fmt.Errorf("failed to read fixed header: %w", err)
	}
	if string(fixed[0:4]) != MagicBytes {
		return nil, ErrInvalidMagic
	}
	if version := binary.LittleEndian.Uint32(fixed[4:8]); version != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	flags := binary.LittleEndian.Uint32(fixed[8:12])
	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	var stored [32]byte
	copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if headerSize > MaxHeaderSize {
		return nil, ErrHeaderTooLarge
	}
	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize
	padding := alignedOffset(int64(headerSize)) - int64(FixedHeaderSize) - int64(headerSize)
	if _, err := io.CopyN(io.Discard, r, padding); err != nil {
		return nil, fmt.Errorf("failed to skip padding: %w", err)
	}

	// dataSize is untrusted: read through a limit instead of allocating it.
	var buf bytes.Buffer
	//nolint:gosec // G115: an oversized dataSize fails the length check below
	n, err := io.Copy(&buf, io.LimitReader(r, int64(dataSize)))
	if err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if uint64(n) != dataSize {
		return nil, fmt.Errorf("failed to read tensor data: %w", io.ErrUnexpectedEOF)
	}
	data := buf.Bytes()

	if err := ValidateChecksum(ComputeChecksum(headerJSON, data), stored); err != nil {
		return nil, err
	}

	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}
	if err := ValidateHeader(&header, int64(len(data))); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	index := make(map[string]TensorMeta, len(header.Tensors))
	for _, meta := range header.Tensors {
		index[meta.Name] = meta
	}
	return &Archive{header: header, flags: flags, data: data, index: index}, nil
}

// ReadFile reads an archive from path.
func ReadFile(path string) (*Archive, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for dataset loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Header returns the archive header.
func (a *Archive) Header() Header {
	return a.header
}

// Metadata returns the metadata map from the header.
func (a *Archive) Metadata() map[string]string {
	return a.header.Metadata
}

// HasMetadata reports whether the writer flagged custom metadata.
func (a *Archive) HasMetadata() bool {
	return a.flags&FlagHasMetadata != 0
}

// TensorNames returns a list of all tensor names in file order.
func (a *Archive) TensorNames() []string {
	names := make([]string, len(a.header.Tensors))
	for i, meta := range a.header.Tensors {
		names[i] = meta.Name
	}
	return names
}

// Tensor returns the values and shape of the named tensor.
//
// Returns ErrTensorNotFound if the archive has no such tensor.
func (a *Archive) Tensor(name string) ([]float64, []int, error) {
	meta, ok := a.index[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrTensorNotFound, name)
	}

	raw := a.data[meta.Offset : meta.Offset+meta.Size]
	out := make([]float64, meta.Size/bytesPerElement)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*bytesPerElement:]))
	}
	return out, append([]int(nil), meta.Shape...), nil
}
