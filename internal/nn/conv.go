package nn

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// ErrKernel is returned when a kernel does not fit the input it is applied to.
var ErrKernel = errors.New("invalid kernel")

// Conv is a valid-mode 2D convolution (cross-correlation) with stride 1.
//
// Input shape:  [depth, height, width]
// Kernel shape: [kernels, depth, kernel_h, kernel_w]
// Bias shape:   [kernels]
// Output shape: [kernels, height - kernel_h + 1, width - kernel_w + 1]
//
// Example:
//
//	// 1x5x5 image, two 2x2 kernels
//	conv := nn.NewConv(tensor.Shape{1, 5, 5}, tensor.Shape{2, 1, 2, 2}, nn.Sigmoid{}, rng)
//	out, err := conv.Feedforward(image) // shape (2, 4, 4)
type Conv struct {
	input      tensor.Shape // [d, h, w]
	kernel     tensor.Shape // [k, d, kh, kw]
	output     tensor.Shape // [k, oh, ow]
	activation Activation
	weights    []float64
	biases     []float64
}

// ConvOutputShape returns the output shape of a valid convolution of input
// (depth, height, width) with kernel (kernels, depth, kernel_h, kernel_w).
//
// Returns an error wrapping ErrKernel if the kernel depth differs from the
// input depth or the kernel is larger than the input.
func ConvOutputShape(input, kernel tensor.Shape) (tensor.Shape, error) {
	if err := checkSpatial(input, kernel); err != nil {
		return nil, err
	}
	if kernel[2] > input[1] || kernel[3] > input[2] {
		return nil, fmt.Errorf("%w: %dx%d kernel does not fit %dx%d input",
			ErrKernel, kernel[2], kernel[3], input[1], input[2])
	}
	return tensor.Shape{kernel[0], input[1] - kernel[2] + 1, input[2] - kernel[3] + 1}, nil
}

func checkSpatial(input, kernel tensor.Shape) error {
	if len(input) != 3 || input.Validate() != nil {
		return fmt.Errorf("%w: input shape %v is not (depth, height, width)", ErrKernel, input)
	}
	if len(kernel) != 4 || kernel.Validate() != nil {
		return fmt.Errorf("%w: kernel shape %v is not (kernels, depth, height, width)", ErrKernel, kernel)
	}
	if kernel[1] != input[0] {
		return fmt.Errorf("%w: kernel depth %d does not match input depth %d", ErrKernel, kernel[1], input[0])
	}
	return nil
}

// NewConv creates a convolutional layer.
//
// Parameters:
//   - input: input shape (depth, height, width)
//   - kernel: kernel shape (kernels, depth, kernel_h, kernel_w)
//   - act: activation function; nil means Sigmoid
//   - rng: random source for initialization; nil uses the global source
//
// Panics if the kernel does not fit the input (see ConvOutputShape).
func NewConv(input, kernel tensor.Shape, act Activation, rng *rand.Rand) *Conv {
	output, err := ConvOutputShape(input, kernel)
	if err != nil {
		panic(fmt.Sprintf("NewConv: %v", err))
	}
	if act == nil {
		act = Sigmoid{}
	}
	fanIn := kernel[1] * kernel[2] * kernel[3]
	return &Conv{
		input:      input.Clone(),
		kernel:     kernel.Clone(),
		output:     output,
		activation: act,
		weights:    Gaussian(rng, kernel.NumElements(), fanIn),
		biases:     GaussianBiases(rng, kernel[0]),
	}
}

// Kind returns KindConv.
func (c *Conv) Kind() Kind { return KindConv }

// InputShape returns (depth, height, width).
func (c *Conv) InputShape() tensor.Shape { return c.input.Clone() }

// OutputShape returns (kernels, out_h, out_w).
func (c *Conv) OutputShape() tensor.Shape { return c.output.Clone() }

// KernelShape returns (kernels, depth, kernel_h, kernel_w).
func (c *Conv) KernelShape() tensor.Shape { return c.kernel.Clone() }

// Activation returns the layer's activation function.
func (c *Conv) Activation() Activation { return c.activation }

// Feedforward computes f(conv(x) + b).
func (c *Conv) Feedforward(x *tensor.Tensor) (*tensor.Tensor, error) {
	return feedforward(c, x)
}

// PreActivations computes conv(x) + b.
func (c *Conv) PreActivations(x *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkShape("conv.PreActivations", x, c.input); err != nil {
		return nil, err
	}

	d, h, w := c.input[0], c.input[1], c.input[2]
	k, kh, kw := c.kernel[0], c.kernel[2], c.kernel[3]
	oh, ow := c.output[1], c.output[2]
	in := x.Data()
	out := make([]float64, c.output.NumElements())

	for f := 0; f < k; f++ {
		for y := 0; y < oh; y++ {
			for xo := 0; xo < ow; xo++ {
				sum := c.biases[f]
				for z := 0; z < d; z++ {
					for i := 0; i < kh; i++ {
						wRow := ((f*d+z)*kh + i) * kw
						inRow := (z*h+y+i)*w + xo
						for j := 0; j < kw; j++ {
							sum += c.weights[wRow+j] * in[inRow+j]
						}
					}
				}
				out[(f*oh+y)*ow+xo] = sum
			}
		}
	}
	return tensor.Wrap(out, c.output), nil
}

// Backprop computes the kernel and bias gradients and the error signal at
// the previous layer.
//
//	∂W[f,z,i,j] = Σ δ[f,y,x] · a[z,y+i,x+j]
//	∂b[f]       = Σ δ[f,y,x]
//	δprev       = full-correlation(δ, W) ⊙ derivative
func (c *Conv) Backprop(activation, derivative, delta *tensor.Tensor) (Gradient, *tensor.Tensor, error) {
	if err := checkShape("conv.Backprop", activation, c.input); err != nil {
		return Gradient{}, nil, err
	}
	if err := checkLen("conv.Backprop", derivative, c.input); err != nil {
		return Gradient{}, nil, err
	}
	if err := checkShape("conv.Backprop", delta, c.output); err != nil {
		return Gradient{}, nil, err
	}

	d, h, w := c.input[0], c.input[1], c.input[2]
	k, kh, kw := c.kernel[0], c.kernel[2], c.kernel[3]
	oh, ow := c.output[1], c.output[2]
	a, dl := activation.Data(), delta.Data()

	dw := make([]float64, len(c.weights))
	db := make([]float64, k)
	prev := make([]float64, c.input.NumElements())

	for f := 0; f < k; f++ {
		for y := 0; y < oh; y++ {
			for xo := 0; xo < ow; xo++ {
				g := dl[(f*oh+y)*ow+xo]
				if g == 0 {
					continue
				}
				db[f] += g
				for z := 0; z < d; z++ {
					for i := 0; i < kh; i++ {
						wRow := ((f*d+z)*kh + i) * kw
						inRow := (z*h+y+i)*w + xo
						for j := 0; j < kw; j++ {
							dw[wRow+j] += g * a[inRow+j]
							prev[inRow+j] += g * c.weights[wRow+j]
						}
					}
				}
			}
		}
	}
	floats.Mul(prev, derivative.Data())

	return Gradient{Weights: dw, Biases: db}, tensor.Wrap(prev, c.input), nil
}

// Update adds g to the kernels and biases.
func (c *Conv) Update(g Gradient) error {
	if err := checkGradient("conv.Update", g, len(c.weights), len(c.biases)); err != nil {
		return err
	}
	floats.Add(c.weights, g.Weights)
	floats.Add(c.biases, g.Biases)
	return nil
}

// Params returns a copy of the kernels (layout [kernels, depth, kh, kw]) and biases.
func (c *Conv) Params() Gradient {
	return Gradient{Weights: append([]float64(nil), c.weights...), Biases: append([]float64(nil), c.biases...)}
}

// SetParams replaces the kernels and biases with copies of p.
func (c *Conv) SetParams(p Gradient) error {
	if err := checkGradient("conv.SetParams", p, len(c.weights), len(c.biases)); err != nil {
		return err
	}
	copy(c.weights, p.Weights)
	copy(c.biases, p.Biases)
	return nil
}

// String returns a one-line summary of the layer.
func (c *Conv) String() string {
	return fmt.Sprintf("Conv(input=%v, kernel=%v, output=%v, activation=%s)",
		c.input, c.kernel, c.output, c.activation.Name())
}
