package serialization

import (
	"time"
)

// Format constants.
const (
	MagicBytes       = "CNET"
	FormatVersion    = 1
	HeaderAlignment  = 64   // Align tensor data to 64 bytes
	FixedHeaderSize  = 64   // Fixed preamble size (0x40 bytes)
	ChecksumSize     = 32   // SHA-256 checksum size (32 bytes)
	ChecksumOffset   = 0x20 // Checksum offset in the fixed preamble
	bytesPerElement  = 8    // float64
	libraryVersion   = "0.1.0"
)

// Flags for the archive format.
const (
	FlagHasMetadata uint32 = 1 << 0 // bit 0: custom metadata included
)

// Archive kinds.
const (
	KindDataset = "dataset"
)

// Header represents the JSON header of an archive.
type Header struct {
	FormatVersion int               `json:"format_version"` // Version of the archive format
	Version       string            `json:"version"`        // Library version that wrote the file
	Kind          string            `json:"kind"`           // What the tensors hold, e.g. KindDataset
	CreatedAt     time.Time         `json:"created_at"`     // When the file was created
	Tensors       []TensorMeta      `json:"tensors"`        // Tensor metadata
	Metadata      map[string]string `json:"metadata"`       // Custom metadata
}

// TensorMeta describes a tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`   // Tensor name (e.g., "inputs")
	Shape  []int  `json:"shape"`  // Tensor shape
	Offset int64  `json:"offset"` // Offset in the data section (bytes from start of tensor data)
	Size   int64  `json:"size"`   // Size in bytes
}

// Tensor is a named slice of values to write.
type Tensor struct {
	Name  string
	Shape []int
	Data  []float64
}

// numElements returns the product of shape, 1 for an empty shape.
func numElements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// alignedOffset returns the data offset for a header of headerSize bytes.
func alignedOffset(headerSize int64) int64 {
	pos := int64(FixedHeaderSize) + headerSize
	padding := (HeaderAlignment - (pos % HeaderAlignment)) % HeaderAlignment
	return pos + padding
}
