package dataset

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// IDX magic numbers for unsigned byte images (rank 3) and labels (rank 1).
const (
	idxImagesMagic = 2051
	idxLabelsMagic = 2049
)

// LoadIDX loads an image/label pair of IDX files (the MNIST format).
//
// Images become (1, rows, cols) tensors with pixels scaled to [0, 1];
// labels become one-hot vectors of length 10.
//
// Parameters:
//   - imagesPath: path to the images file (magic 2051)
//   - labelsPath: path to the labels file (magic 2049)
//   - maxSamples: maximum number of examples to load (0 = load all)
func LoadIDX(imagesPath, labelsPath string, maxSamples int) (Set, error) {
	images, rows, cols, err := readIDXImagesFile(imagesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	labels, err := readIDXLabelsFile(labelsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}
	if len(images) != len(labels) {
		return nil, fmt.Errorf("image count (%d) != label count (%d)", len(images), len(labels))
	}

	n := len(images)
	if maxSamples > 0 && n > maxSamples {
		n = maxSamples
	}
	if n == 0 {
		return nil, ErrEmpty
	}

	set := make(Set, n)
	for i := 0; i < n; i++ {
		pixels := make([]float64, len(images[i]))
		for j, p := range images[i] {
			pixels[j] = float64(p) / 255.0
		}
		if labels[i] > 9 {
			return nil, fmt.Errorf("label out of range [0, 9] at index %d: %d", i, labels[i])
		}
		set[i] = Example{
			Input:  tensor.Wrap(pixels, tensor.Shape{1, rows, cols}),
			Target: OneHot(int(labels[i]), 10),
		}
	}
	return set, nil
}

// LoadMNIST loads the MNIST training (or test) set from dataDir.
//
// Expected files in dataDir:
//   - train-images-idx3-ubyte (or t10k-images-idx3-ubyte for test)
//   - train-labels-idx1-ubyte (or t10k-labels-idx1-ubyte for test)
func LoadMNIST(dataDir string, train bool, maxSamples int) (Set, error) {
	prefix := "t10k"
	if train {
		prefix = "train"
	}
	return LoadIDX(
		filepath.Join(dataDir, prefix+"-images-idx3-ubyte"),
		filepath.Join(dataDir, prefix+"-labels-idx1-ubyte"),
		maxSamples,
	)
}

func readIDXImagesFile(filename string) ([][]byte, int, int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, 0, 0, err
	}
	defer file.Close()
	return readIDXImages(file)
}

func readIDXLabelsFile(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return readIDXLabels(file)
}

// readIDXImages reads images in IDX format.
//
// IDX file format for images:
//
//	magic number: 0x00000803 (2051)
//	number of images: 4 bytes
//	number of rows: 4 bytes
//	number of cols: 4 bytes
//	pixel data: unsigned bytes (0-255)
func readIDXImages(r io.Reader) (images [][]byte, rows, cols int, err error) {
	if err := readIDXMagic(r, idxImagesMagic); err != nil {
		return nil, 0, 0, err
	}
	var header [3]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read header: %w", err)
	}

	numImages, rows, cols := int(header[0]), int(header[1]), int(header[2])
	if rows == 0 || cols == 0 {
		return nil, 0, 0, fmt.Errorf("invalid image size %dx%d", rows, cols)
	}

	images = make([][]byte, numImages)
	for i := range images {
		images[i] = make([]byte, rows*cols)
		if _, err := io.ReadFull(r, images[i]); err != nil {
			return nil, 0, 0, fmt.Errorf("failed to read image %d: %w", i, err)
		}
	}
	return images, rows, cols, nil
}

// readIDXLabels reads labels in IDX format.
//
// IDX file format for labels:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes
//	label data: unsigned bytes (0-9)
func readIDXLabels(r io.Reader) ([]byte, error) {
	if err := readIDXMagic(r, idxLabelsMagic); err != nil {
		return nil, err
	}
	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	labels := make([]byte, count)
	if _, err := io.ReadFull(r, labels); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	return labels, nil
}

// readIDXMagic reads the 4-byte magic number and checks it against want
// before the rest of the header is read.
func readIDXMagic(r io.Reader, want uint32) error {
	var magic uint32
	if err := binary.Read(r, binary.BigEndian, &magic); err != nil {
		return fmt.Errorf("failed to read magic number: %w", err)
	}
	if magic != want {
		return fmt.Errorf("invalid magic number: got %d, want %d", magic, want)
	}
	return nil
}
