package nn

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// Deconv is a transposed convolution that upsamples feature maps.
//
// Every input element scatters a scaled copy of each kernel into the output
// at (y*stride_y, x*stride_x). The stride is derived from the requested
// output size:
//
//	out = (in - 1) * stride + kernel
//
// Input shape:  [depth, height, width]
// Kernel shape: [kernels, depth, kernel_h, kernel_w]
// Output shape: [kernels, out_h, out_w]
//
// Example:
//
//	// 1x2x2 maps to 1x4x4 with a 2x2 kernel (stride 2)
//	deconv := nn.NewDeconv(tensor.Shape{1, 2, 2}, tensor.Shape{1, 1, 2, 2}, tensor.Shape{1, 4, 4}, nil, rng)
type Deconv struct {
	input      tensor.Shape // [d, h, w]
	kernel     tensor.Shape // [k, d, kh, kw]
	output     tensor.Shape // [k, oh, ow]
	stride     [2]int
	activation Activation
	weights    []float64
	biases     []float64
}

// DeconvStride returns the (vertical, horizontal) stride that maps input to
// output with the given kernel.
//
// Returns an error wrapping ErrKernel if the output depth differs from the
// kernel count or no positive integer stride produces the output size.
func DeconvStride(input, kernel, output tensor.Shape) ([2]int, error) {
	if err := checkSpatial(input, kernel); err != nil {
		return [2]int{}, err
	}
	if len(output) != 3 || output.Validate() != nil {
		return [2]int{}, fmt.Errorf("%w: output shape %v is not (kernels, height, width)", ErrKernel, output)
	}
	if output[0] != kernel[0] {
		return [2]int{}, fmt.Errorf("%w: output depth %d does not match kernel count %d",
			ErrKernel, output[0], kernel[0])
	}

	var stride [2]int
	for axis := 0; axis < 2; axis++ {
		in, k, out := input[axis+1], kernel[axis+2], output[axis+1]
		s, ok := deriveStride(in, k, out)
		if !ok {
			return [2]int{}, fmt.Errorf("%w: no stride maps %d to %d with kernel %d", ErrKernel, in, out, k)
		}
		stride[axis] = s
	}
	return stride, nil
}

func deriveStride(in, k, out int) (int, bool) {
	if in == 1 {
		return 1, out == k
	}
	span := out - k
	if span < in-1 || span%(in-1) != 0 {
		return 0, false
	}
	return span / (in - 1), true
}

// NewDeconv creates a transposed convolution layer.
//
// Parameters:
//   - input: input shape (depth, height, width)
//   - kernel: kernel shape (kernels, depth, kernel_h, kernel_w)
//   - output: requested output shape (kernels, out_h, out_w)
//   - act: activation function; nil means Sigmoid
//   - rng: random source for initialization; nil uses the global source
//
// Panics if output cannot be produced (see DeconvStride).
func NewDeconv(input, kernel, output tensor.Shape, act Activation, rng *rand.Rand) *Deconv {
	stride, err := DeconvStride(input, kernel, output)
	if err != nil {
		panic(fmt.Sprintf("NewDeconv: %v", err))
	}
	if act == nil {
		act = Sigmoid{}
	}
	return &Deconv{
		input:      input.Clone(),
		kernel:     kernel.Clone(),
		output:     output.Clone(),
		stride:     stride,
		activation: act,
		weights:    Gaussian(rng, kernel.NumElements(), input[0]*kernel[2]*kernel[3]),
		biases:     GaussianBiases(rng, kernel[0]),
	}
}

// Kind returns KindDeconv.
func (dc *Deconv) Kind() Kind { return KindDeconv }

// InputShape returns (depth, height, width).
func (dc *Deconv) InputShape() tensor.Shape { return dc.input.Clone() }

// OutputShape returns (kernels, out_h, out_w).
func (dc *Deconv) OutputShape() tensor.Shape { return dc.output.Clone() }

// KernelShape returns (kernels, depth, kernel_h, kernel_w).
func (dc *Deconv) KernelShape() tensor.Shape { return dc.kernel.Clone() }

// Stride returns the derived (vertical, horizontal) stride.
func (dc *Deconv) Stride() [2]int { return dc.stride }

// Activation returns the layer's activation function.
func (dc *Deconv) Activation() Activation { return dc.activation }

// Feedforward computes f(deconv(x) + b).
func (dc *Deconv) Feedforward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return feedforward(dc, x)
}

// PreActivations computes deconv(x) + b.
func (dc *Deconv) PreActivations(x *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkShape("deconv.PreActivations", x, dc.input); err != nil {
		return nil, err
	}

	out := make([]float64, dc.output.NumElements())
	plane := dc.output[1] * dc.output[2]
	for f := 0; f < dc.kernel[0]; f++ {
		for p := 0; p < plane; p++ {
			out[f*plane+p] = dc.biases[f]
		}
	}

	in := x.Data()
	dc.scatter(func(inIdx, wIdx, outIdx int) {
		out[outIdx] += in[inIdx] * dc.weights[wIdx]
	})
	return tensor.Wrap(out, dc.output), nil
}

// Backprop computes the kernel and bias gradients and the error signal at
// the previous layer.
func (dc *Deconv) Backprop(activation, derivative, delta *tensor.Tensor) (Gradient, *tensor.Tensor, error) {
	if err := checkShape("deconv.Backprop", activation, dc.input); err != nil {
		return Gradient{}, nil, err
	}
	if err := checkLen("deconv.Backprop", derivative, dc.input); err != nil {
		return Gradient{}, nil, err
	}
	if err := checkShape("deconv.Backprop", delta, dc.output); err != nil {
		return Gradient{}, nil, err
	}

	a, dl := activation.Data(), delta.Data()
	dw := make([]float64, len(dc.weights))
	db := make([]float64, dc.kernel[0])
	prev := make([]float64, dc.input.NumElements())

	plane := dc.output[1] * dc.output[2]
	for f := range db {
		db[f] = floats.Sum(dl[f*plane : (f+1)*plane])
	}
	dc.scatter(func(inIdx, wIdx, outIdx int) {
		dw[wIdx] += dl[outIdx] * a[inIdx]
		prev[inIdx] += dl[outIdx] * dc.weights[wIdx]
	})
	floats.Mul(prev, derivative.Data())

	return Gradient{Weights: dw, Biases: db}, tensor.Wrap(prev, dc.input), nil
}

// scatter visits every (input element, kernel weight, output element)
// triple linked by the transposed convolution.
func (dc *Deconv) scatter(visit func(inIdx, wIdx, outIdx int)) {
	d, h, w := dc.input[0], dc.input[1], dc.input[2]
	k, kh, kw := dc.kernel[0], dc.kernel[2], dc.kernel[3]
	oh, ow := dc.output[1], dc.output[2]
	sy, sx := dc.stride[0], dc.stride[1]

	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				inIdx := (z*h+y)*w + x
				for f := 0; f < k; f++ {
					for i := 0; i < kh; i++ {
						wRow := ((f*d+z)*kh + i) * kw
						outRow := (f*oh+y*sy+i)*ow + x*sx
						for j := 0; j < kw; j++ {
							visit(inIdx, wRow+j, outRow+j)
						}
					}
				}
			}
		}
	}
}

// Update adds g to the kernels and biases.
func (dc *Deconv) Update(g Gradient) error {
	if err := checkGradient("deconv.Update", g, len(dc.weights), len(dc.biases)); err != nil {
		return err
	}
	floats.Add(dc.weights, g.Weights)
	floats.Add(dc.biases, g.Biases)
	return nil
}

// Params returns a copy of the kernels (layout [kernels, depth, kh, kw]) and biases.
func (dc *Deconv) Params() Gradient {
	return Gradient{Weights: append([]float64(nil), dc.weights...), Biases: append([]float64(nil), dc.biases...)}
}

// SetParams replaces the kernels and biases with copies of p.
func (dc *Deconv) SetParams(p Gradient) error {
	if err := checkGradient("deconv.SetParams", p, len(dc.weights), len(dc.biases)); err != nil {
		return err
	}
	copy(dc.weights, p.Weights)
	copy(dc.biases, p.Biases)
	return nil
}

// String returns a one-line summary of the layer.
func (dc *Deconv) String() string {
	return fmt.Sprintf("Deconv(input=%v, kernel=%v, output=%v, stride=%v, activation=%s)",
		dc.input, dc.kernel, dc.output, dc.stride, dc.activation.Name())
}
