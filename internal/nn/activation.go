package nn

import (
	"fmt"

	"github.com/fathom-ml/fathom/internal/autodiff"
	"github.com/fathom-ml/fathom/internal/tensor"
)

// ReLUBackend is the capability interface for backends with a ReLU kernel.
type ReLUBackend interface {
	ReLU(x *tensor.RawTensor) *tensor.RawTensor
}

// SigmoidBackend is the capability interface for backends with a sigmoid
// kernel.
type SigmoidBackend interface {
	Sigmoid(x *tensor.RawTensor) *tensor.RawTensor
}

// LogSoftmaxBackend is the capability interface for backends with a
// log-softmax kernel.
type LogSoftmaxBackend interface {
	LogSoftmax(x *tensor.RawTensor) *tensor.RawTensor
}

// ReLU applies max(0, x) element-wise.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] { return &ReLU[B]{} }

func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B], _ autodiff.Mode) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	rb, ok := any(backend).(ReLUBackend)
	if !ok {
		panic(fmt.Sprintf("nn: backend %s does not support ReLU", backend.Name()))
	}
	return tensor.New[float32](rb.ReLU(input.Raw()), backend)
}

func (r *ReLU[B]) Parameters() []*Parameter[B] { return nil }

// Sigmoid applies the logistic function element-wise.
type Sigmoid[B tensor.Backend] struct{}

// NewSigmoid creates a sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] { return &Sigmoid[B]{} }

func (s *Sigmoid[B]) Forward(input *tensor.Tensor[float32, B], _ autodiff.Mode) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	sb, ok := any(backend).(SigmoidBackend)
	if !ok {
		panic(fmt.Sprintf("nn: backend %s does not support Sigmoid", backend.Name()))
	}
	return tensor.New[float32](sb.Sigmoid(input.Raw()), backend)
}

func (s *Sigmoid[B]) Parameters() []*Parameter[B] { return nil }

// LogSoftmax applies log(softmax(x)) over the last dimension of a 2D input.
// Pair it with NLLLoss; for the common case prefer the fused
// CrossEntropyLoss, which never materializes probabilities.
type LogSoftmax[B tensor.Backend] struct{}

// NewLogSoftmax creates a log-softmax module.
func NewLogSoftmax[B tensor.Backend]() *LogSoftmax[B] { return &LogSoftmax[B]{} }

func (l *LogSoftmax[B]) Forward(input *tensor.Tensor[float32, B], _ autodiff.Mode) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	lb, ok := any(backend).(LogSoftmaxBackend)
	if !ok {
		panic(fmt.Sprintf("nn: backend %s does not support LogSoftmax", backend.Name()))
	}
	return tensor.New[float32](lb.LogSoftmax(input.Raw()), backend)
}

func (l *LogSoftmax[B]) Parameters() []*Parameter[B] { return nil }
