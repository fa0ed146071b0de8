// Package serialization provides the archive format for storing named
// float64 tensors on disk.
//
// The format is a fixed binary preamble, a JSON header describing the
// tensors, and the tensor values as float64:
//
//	Format Structure:
//	  [0x00: Magic "CNET"]
//	  [0x04: Version (uint32 LE)]
//	  [0x08: Flags (uint32 LE)]
//	  [0x0C: Reserved (uint32)]
//	  [0x10: Header Size (uint64 LE)]
//	  [0x18: Data Size (uint64 LE)]
//	  [0x20: SHA-256 of header JSON + data (32 bytes)]
//	  [0x40: Header: JSON metadata]
//	  [Tensor data: float64 LE, 64-byte aligned]
//
// The package does not interpret the tensors. dataset.Save stores a Set as
// an "inputs" and a "targets" tensor with the example count leading.
//
// Example usage:
//
//	// Save
//	if err := serialization.WriteFile("bars.cnet", header, tensors); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load
//	archive, err := serialization.ReadFile("bars.cnet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	inputs, shape, err := archive.Tensor("inputs")
package serialization
