package network

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/maxgao11111/Neural-Nets/internal/dataset"
	"github.com/maxgao11111/Neural-Nets/internal/nn"
	"github.com/maxgao11111/Neural-Nets/internal/optim"
	"github.com/maxgao11111/Neural-Nets/internal/parallel"
	"github.com/maxgao11111/Neural-Nets/internal/tensor"
)

// Kernel is the size of the kernels of a conv or deconv layer.
type Kernel struct {
	Count  int // Number of kernels, i.e. output depth
	Height int
	Width  int
}

// Output is the explicit output plane of a deconv layer.
type Output struct {
	Height int
	Width  int
}

// LayerConfig describes a layer to append.
type LayerConfig struct {
	Kind nn.Kind

	// Size is the number of units of a dense or softmax layer.
	Size int

	// Kernel is required for conv and deconv layers.
	Kernel Kernel

	// Output is required for deconv layers.
	Output Output

	// Reshape is the (depth, height, width) view of a flat input taken by a
	// conv or deconv layer that follows a dense layer.
	Reshape tensor.Shape

	// Activation overrides the network default. Ignored for softmax layers.
	Activation nn.Activation
}

// stack is the ordered layer chain shared by Network and Generator: layer
// construction, the forward pass and the reverse pass.
type stack struct {
	input      tensor.Shape
	layers     []nn.Layer
	kinds      []nn.Kind
	rng        *rand.Rand
	activation nn.Activation
	parallel   parallel.Config
}

func newStack(input tensor.Shape, opts []Option) stack {
	if err := input.Validate(); err != nil || len(input) == 0 {
		panic(fmt.Sprintf("network: invalid input shape %v", input))
	}
	s := stack{
		input:      input.Clone(),
		activation: nn.Sigmoid{},
		parallel:   parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Layers returns the layers in order. The slice is a copy; the layers are shared.
func (s *stack) Layers() []nn.Layer {
	return append([]nn.Layer(nil), s.layers...)
}

// Kinds returns the layer type tags, index-aligned with Layers.
func (s *stack) Kinds() []nn.Kind {
	return append([]nn.Kind(nil), s.kinds...)
}

// InputShape returns the declared input shape.
func (s *stack) InputShape() tensor.Shape {
	return s.input.Clone()
}

// OutputShape returns the output shape of the last layer, or the input
// shape of an empty network.
func (s *stack) OutputShape() tensor.Shape {
	return s.nextInput()
}

func (s *stack) nextInput() tensor.Shape {
	if len(s.layers) == 0 {
		return s.input.Clone()
	}
	return s.layers[len(s.layers)-1].OutputShape()
}

// build constructs the layer described by cfg on top of the current chain.
func (s *stack) build(cfg LayerConfig) (nn.Layer, error) {
	idx, tag := len(s.layers), cfg.Kind.String()
	prev := s.nextInput()
	act := cfg.Activation
	if act == nil {
		act = s.activation
	}

	switch cfg.Kind {
	case nn.KindDense, nn.KindSoftmax:
		if cfg.Size <= 0 {
			return nil, configErr(idx, tag, fmt.Sprintf("size must be positive, got %d", cfg.Size), nil)
		}
		if cfg.Kind == nn.KindSoftmax {
			return nn.NewSoftmax(prev.NumElements(), cfg.Size, s.rng), nil
		}
		return nn.NewDense(prev.NumElements(), cfg.Size, act, s.rng), nil

	case nn.KindConv, nn.KindDeconv:
		k := cfg.Kernel
		if k.Count <= 0 || k.Height <= 0 || k.Width <= 0 {
			return nil, configErr(idx, tag, fmt.Sprintf("missing kernel size %dx%dx%d", k.Count, k.Height, k.Width), nil)
		}
		input, err := spatialInput(prev, cfg.Reshape)
		if err != nil {
			return nil, configErr(idx, tag, err.Error(), nil)
		}
		kernel := tensor.Shape{k.Count, input[0], k.Height, k.Width}

		if cfg.Kind == nn.KindConv {
			if _, err := nn.ConvOutputShape(input, kernel); err != nil {
				return nil, configErr(idx, tag, "kernel does not fit input", err)
			}
			return nn.NewConv(input, kernel, act, s.rng), nil
		}

		if cfg.Output.Height <= 0 || cfg.Output.Width <= 0 {
			return nil, configErr(idx, tag, fmt.Sprintf("missing output size %dx%d", cfg.Output.Height, cfg.Output.Width), nil)
		}
		output := tensor.Shape{k.Count, cfg.Output.Height, cfg.Output.Width}
		if _, err := nn.DeconvStride(input, kernel, output); err != nil {
			return nil, configErr(idx, tag, "output not reachable", err)
		}
		return nn.NewDeconv(input, kernel, output, act, s.rng), nil
	}

	return nil, configErr(idx, tag, "unknown layer type", nn.ErrUnknownKind)
}

// spatialInput returns the (depth, height, width) shape a spatial layer
// consumes when fed prev.
func spatialInput(prev, reshape tensor.Shape) (tensor.Shape, error) {
	switch {
	case len(prev) == 2:
		prev = tensor.Shape{1, prev[0], prev[1]}
	case len(prev) == 1:
		if len(reshape) != 3 || reshape.Validate() != nil {
			return nil, fmt.Errorf("flat input %v needs a (depth, height, width) reshape", prev)
		}
		if reshape.NumElements() != prev.NumElements() {
			return nil, fmt.Errorf("reshape %v does not hold %d elements", reshape, prev.NumElements())
		}
		return reshape.Clone(), nil
	case len(prev) > 3:
		return nil, fmt.Errorf("input %v has more than three dimensions", prev)
	}
	if reshape != nil && !reshape.Equal(prev) {
		return nil, fmt.Errorf("reshape %v of feature maps %v is not supported", reshape, prev)
	}
	return prev, nil
}

// push validates a caller-built layer against the chain and appends it.
func (s *stack) push(kind nn.Kind, layer nn.Layer) error {
	idx := len(s.layers)
	if layer == nil {
		return configErr(idx, kind.String(), "nil layer", nil)
	}
	if layer.Kind() != kind {
		return configErr(idx, kind.String(), fmt.Sprintf("layer reports kind %s", layer.Kind()), nil)
	}

	prev, want := s.nextInput(), layer.InputShape()
	ok := prev.NumElements() == want.NumElements()
	if ok && kind.Spatial() && len(prev) >= 2 {
		in, err := spatialInput(prev, nil)
		ok = err == nil && in.Equal(want)
	}
	if !ok {
		return tensor.NewShapeError("network.AddLayer", prev, want)
	}

	s.layers = append(s.layers, layer)
	s.kinds = append(s.kinds, kind)
	return nil
}

// conform converts a value flowing into layer l: flat for dense and softmax
// layers, feature maps for conv and deconv layers.
func conform(x *tensor.Tensor, l nn.Layer) (*tensor.Tensor, error) {
	if !l.Kind().Spatial() {
		return tensor.Flatten(x), nil
	}
	if x.Rank() < 3 {
		return tensor.Unflatten(x, l.InputShape())
	}
	return x, nil
}

// conformDelta converts an error signal arriving at layer l from above.
func conformDelta(delta *tensor.Tensor, l nn.Layer) (*tensor.Tensor, error) {
	if !l.Kind().Spatial() {
		return tensor.Flatten(delta), nil
	}
	if delta.Rank() == 1 {
		return tensor.Unflatten(delta, l.OutputShape())
	}
	return delta, nil
}

// Feedforward returns the network output for input.
func (s *stack) Feedforward(input *tensor.Tensor) (*tensor.Tensor, error) {
	a := input
	for i, l := range s.layers {
		x, err := conform(a, l)
		if err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, s.kinds[i], err)
		}
		if a, err = l.Feedforward(x); err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, s.kinds[i], err)
		}
	}
	return a, nil
}

// trace is the per-example record of a forward pass.
//
// activations[i] and derivatives[i] are the value fed into layer i and the
// derivative of the activation that produced it; index 0 is the raw input
// with a derivative of ones. The last entries belong to the network output.
type trace struct {
	activations []*tensor.Tensor
	derivatives []*tensor.Tensor
}

func (t *trace) output() (*tensor.Tensor, *tensor.Tensor) {
	n := len(t.activations) - 1
	return t.activations[n], t.derivatives[n]
}

func (s *stack) record(input *tensor.Tensor) (*trace, error) {
	tr := &trace{
		activations: make([]*tensor.Tensor, 0, len(s.layers)+1),
		derivatives: make([]*tensor.Tensor, 0, len(s.layers)+1),
	}
	tr.activations = append(tr.activations, input)
	tr.derivatives = append(tr.derivatives, tensor.OnesLike(input))

	a := input
	for i, l := range s.layers {
		x, err := conform(a, l)
		if err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, s.kinds[i], err)
		}
		z, err := l.PreActivations(x)
		if err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, s.kinds[i], err)
		}
		act := l.Activation()
		a = tensor.Wrap(act.Apply(z.Data()), z.Shape())
		tr.activations = append(tr.activations, a)
		tr.derivatives = append(tr.derivatives, tensor.Wrap(act.Derivative(z.Data()), z.Shape()))
	}
	return tr, nil
}

// deltaFunc supplies the error signal at the output layer's pre-activations
// from the network output and its activation derivative.
type deltaFunc func(output, derivative *tensor.Tensor) (*tensor.Tensor, error)

// backprop runs one example through the chain and walks it in reverse.
//
// It returns the gradient bundle, index-aligned with the layers, and the
// error signal propagated past the first layer (∂C/∂input).
func (s *stack) backprop(input *tensor.Tensor, initial deltaFunc) (nn.Gradients, *tensor.Tensor, error) {
	if len(s.layers) == 0 {
		return nil, nil, configErr(0, "", "network has no layers", nil)
	}

	tr, err := s.record(input)
	if err != nil {
		return nil, nil, err
	}
	delta, err := initial(tr.output())
	if err != nil {
		return nil, nil, fmt.Errorf("output delta: %w", err)
	}

	grads := make(nn.Gradients, len(s.layers))
	for i := len(s.layers) - 1; i >= 0; i-- {
		l := s.layers[i]
		if delta, err = conformDelta(delta, l); err != nil {
			return nil, nil, fmt.Errorf("layer %d (%s): %w", i, s.kinds[i], err)
		}
		a, err := conform(tr.activations[i], l)
		if err != nil {
			return nil, nil, fmt.Errorf("layer %d (%s): %w", i, s.kinds[i], err)
		}
		d, err := conform(tr.derivatives[i], l)
		if err != nil {
			return nil, nil, fmt.Errorf("layer %d (%s): %w", i, s.kinds[i], err)
		}
		if grads[i], delta, err = l.Backprop(a, d, delta); err != nil {
			return nil, nil, fmt.Errorf("layer %d (%s): %w", i, s.kinds[i], err)
		}
	}
	return grads, delta, nil
}

// averageGradients backpropagates every example of batch, sums the bundles
// in example order and scales the sum by stepSize/len(batch).
//
// Examples may be processed concurrently; each writes its own slot, so the
// result does not depend on scheduling.
func (s *stack) averageGradients(batch dataset.Set, stepSize float64,
	backprop func(ex dataset.Example) (nn.Gradients, error),
) (nn.Gradients, error) {
	if len(batch) == 0 {
		return nil, ErrEmptyBatch
	}

	slots := make([]nn.Gradients, len(batch))
	err := parallel.ForErr(len(batch), func(i int) error {
		g, err := backprop(batch[i])
		if err != nil {
			return fmt.Errorf("example %d: %w", i, err)
		}
		slots[i] = g
		return nil
	}, s.parallel)
	if err != nil {
		return nil, err
	}

	sum := slots[0]
	for _, g := range slots[1:] {
		if err := sum.Add(g); err != nil {
			return nil, err
		}
	}
	if err := optim.Average(sum, stepSize, len(batch)); err != nil {
		return nil, err
	}
	return sum, nil
}

// meanOver evaluates f on every example of set and returns the mean.
func (s *stack) meanOver(set dataset.Set, f func(ex dataset.Example) (float64, error)) (float64, error) {
	if len(set) == 0 {
		return 0, ErrEmptyBatch
	}
	total, err := parallel.Sum(len(set), func(i int) (float64, error) {
		return f(set[i])
	}, s.parallel)
	if err != nil {
		return 0, err
	}
	return total / float64(len(set)), nil
}

// epochs runs cfg.Epochs passes of shuffle, batch and update over set.
func (s *stack) epochs(cfg TrainConfig, set dataset.Set,
	update func(batch dataset.Set) error,
	evaluate func(set dataset.Set) (float64, error),
) error {
	if len(set) == 0 {
		return ErrEmptyBatch
	}

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		set.Shuffle(s.rng)
		batches, err := set.Batches(cfg.MiniBatchSize)
		if err != nil {
			return fmt.Errorf("epoch %d: %w", epoch, err)
		}
		for b, batch := range batches {
			if err := update(batch); err != nil {
				return fmt.Errorf("epoch %d, batch %d: %w", epoch, b, err)
			}
		}

		if cfg.Progress != nil {
			cost, err := evaluate(set)
			if err != nil {
				return fmt.Errorf("epoch %d: %w", epoch, err)
			}
			cfg.Progress(EpochStats{Epoch: epoch, Cost: cost})
		}
	}
	return nil
}

func (s *stack) describe(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(input=%v)", name, s.input)
	for i, l := range s.layers {
		fmt.Fprintf(&b, "\n  %d: %v", i, l)
	}
	return b.String()
}
