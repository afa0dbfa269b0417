package nn

import (
	"fmt"

	"github.com/fathom-ml/fathom/internal/tensor"
)

// CrossEntropyBackend is the capability interface for backends with a fused
// log-softmax + negative log-likelihood kernel.
type CrossEntropyBackend interface {
	CrossEntropy(logits, labels *tensor.RawTensor) *tensor.RawTensor
}

// NLLBackend is the capability interface for backends with a negative
// log-likelihood kernel over log-probabilities.
type NLLBackend interface {
	NLLLoss(logProbs, labels *tensor.RawTensor) *tensor.RawTensor
}

// CrossEntropyLoss computes the mean cross-entropy between logits and class
// labels. It consumes raw logits: the log-softmax is fused into the loss
// with max-subtraction, so probabilities are never materialized and the
// log of a vanishing probability cannot blow up.
type CrossEntropyLoss[B tensor.Backend] struct{}

// NewCrossEntropyLoss creates a cross-entropy loss module.
func NewCrossEntropyLoss[B tensor.Backend]() *CrossEntropyLoss[B] { return &CrossEntropyLoss[B]{} }

// Forward computes the scalar loss for logits [batch, classes] and labels
// [batch].
func (c *CrossEntropyLoss[B]) Forward(logits *tensor.Tensor[float32, B], labels *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	backend := logits.Backend()
	cb, ok := any(backend).(CrossEntropyBackend)
	if !ok {
		panic(fmt.Sprintf("nn: backend %s does not support CrossEntropy", backend.Name()))
	}
	return tensor.New[float32](cb.CrossEntropy(logits.Raw(), labels.Raw()), backend)
}

// NLLLoss computes the mean negative log-likelihood of log-probabilities
// (the output of LogSoftmax) against class labels.
type NLLLoss[B tensor.Backend] struct{}

// NewNLLLoss creates a negative log-likelihood loss module.
func NewNLLLoss[B tensor.Backend]() *NLLLoss[B] { return &NLLLoss[B]{} }

// Forward computes the scalar loss for logProbs [batch, classes] and labels
// [batch].
func (n *NLLLoss[B]) Forward(logProbs *tensor.Tensor[float32, B], labels *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	backend := logProbs.Backend()
	nb, ok := any(backend).(NLLBackend)
	if !ok {
		panic(fmt.Sprintf("nn: backend %s does not support NLLLoss", backend.Name()))
	}
	return tensor.New[float32](nb.NLLLoss(logProbs.Raw(), labels.Raw()), backend)
}

// MSELoss computes the mean squared error between predictions and targets.
type MSELoss[B tensor.Backend] struct{}

// NewMSELoss creates a mean-squared-error loss module.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] { return &MSELoss[B]{} }

// Forward computes mean((pred - target)^2) as a scalar tensor.
func (m *MSELoss[B]) Forward(pred, target *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return pred.Sub(target).Pow(2).Mean()
}
