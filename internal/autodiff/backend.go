// Package autodiff implements reverse-mode automatic differentiation as a
// decorator over a compute backend.
//
// Wrapping a backend with New gives a tensor.Backend that records every
// differentiable operation onto a Graph while in Training mode. Backward
// then traverses the graph in reverse topological order from a scalar root
// and accumulates gradients for the watched leaves.
//
//	backend := autodiff.New(cpu.New())
//	w := tensor.Randn[float32](tensor.Shape{4, 2}, backend)
//	w.RequireGrad()
//
//	loss := model.Forward(x).Mean()
//	grads, err := backend.Backward(loss.Raw())
package autodiff

import (
	"fmt"

	"github.com/fathom-ml/fathom/internal/autodiff/ops"
	"github.com/fathom-ml/fathom/internal/tensor"
)

// activationKernels is the kernel surface the recording backend needs from
// its inner backend beyond tensor.Backend. The CPU backend implements it.
type activationKernels interface {
	ReLU(x *tensor.RawTensor) *tensor.RawTensor
	Sigmoid(x *tensor.RawTensor) *tensor.RawTensor
	LogSoftmax(x *tensor.RawTensor) *tensor.RawTensor
	NLLLoss(logProbs, labels *tensor.RawTensor) *tensor.RawTensor
	CrossEntropy(logits, labels *tensor.RawTensor) *tensor.RawTensor
}

// Backend wraps an inner compute backend and records operations for the
// backward pass. It implements tensor.Backend, so typed tensors and nn
// modules run on it unchanged.
//
// While recording, operation inputs are pinned for the duration of the
// forward call so the inner backend cannot reuse their buffers in place:
// the backward rules re-read captured forward values.
//
// Reshape, Transpose, Pow, Sum and Mean are recorded; Exp, Log, MulScalar,
// SumDim and Argmax pass through unrecorded and must not sit on a path that
// needs gradients.
type Backend[B tensor.Backend] struct {
	inner B
	graph *Graph
	mode  Mode
}

// New wraps a compute backend with gradient recording in Training mode.
func New[B tensor.Backend](inner B) *Backend[B] {
	return &Backend[B]{
		inner: inner,
		graph: NewGraph(),
	}
}

// Inner returns the wrapped compute backend.
func (a *Backend[B]) Inner() B { return a.inner }

// Graph returns the recording graph.
func (a *Backend[B]) Graph() *Graph { return a.graph }

// Mode returns the current execution mode.
func (a *Backend[B]) Mode() Mode { return a.mode }

// SetMode switches between Training (recording) and Inference.
func (a *Backend[B]) SetMode(m Mode) { a.mode = m }

// Watch marks a tensor as a differentiable leaf. Implements
// tensor.GradientRecorder, so Tensor.RequireGrad reaches it.
func (a *Backend[B]) Watch(t *tensor.RawTensor) { a.graph.Watch(t) }

// Name returns the backend name.
func (a *Backend[B]) Name() string { return "Autodiff(" + a.inner.Name() + ")" }

// Device returns the inner backend's device.
func (a *Backend[B]) Device() tensor.Device { return a.inner.Device() }

func (a *Backend[B]) recording() bool { return a.mode == Training }

// Add performs element-wise addition, recording the operation.
func (a *Backend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	if !a.recording() {
		return a.inner.Add(x, y)
	}
	defer x.Pin()()
	defer y.Pin()()
	out := a.inner.Add(x, y)
	a.graph.Record(ops.NewAdd(x, y, out))
	return out
}

// Sub performs element-wise subtraction, recording the operation.
func (a *Backend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	if !a.recording() {
		return a.inner.Sub(x, y)
	}
	defer x.Pin()()
	defer y.Pin()()
	out := a.inner.Sub(x, y)
	a.graph.Record(ops.NewSub(x, y, out))
	return out
}

// Mul performs element-wise multiplication, recording the operation.
func (a *Backend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	if !a.recording() {
		return a.inner.Mul(x, y)
	}
	defer x.Pin()()
	defer y.Pin()()
	out := a.inner.Mul(x, y)
	a.graph.Record(ops.NewMul(x, y, out))
	return out
}

// Div performs element-wise division, recording the operation.
func (a *Backend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	if !a.recording() {
		return a.inner.Div(x, y)
	}
	defer x.Pin()()
	defer y.Pin()()
	out := a.inner.Div(x, y)
	a.graph.Record(ops.NewDiv(x, y, out))
	return out
}

// MatMul performs matrix multiplication, recording the operation.
func (a *Backend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	if !a.recording() {
		return a.inner.MatMul(x, y)
	}
	defer x.Pin()()
	defer y.Pin()()
	out := a.inner.MatMul(x, y)
	a.graph.Record(ops.NewMatMul(x, y, out))
	return out
}

// Pow raises elements to a scalar power, recording the operation.
func (a *Backend[B]) Pow(x *tensor.RawTensor, exponent float64) *tensor.RawTensor {
	if !a.recording() {
		return a.inner.Pow(x, exponent)
	}
	defer x.Pin()()
	out := a.inner.Pow(x, exponent)
	a.graph.Record(ops.NewPow(x, out, exponent))
	return out
}

// Exp passes through unrecorded.
func (a *Backend[B]) Exp(x *tensor.RawTensor) *tensor.RawTensor { return a.inner.Exp(x) }

// Log passes through unrecorded.
func (a *Backend[B]) Log(x *tensor.RawTensor) *tensor.RawTensor { return a.inner.Log(x) }

// MulScalar passes through unrecorded.
func (a *Backend[B]) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return a.inner.MulScalar(x, scalar)
}

// Reshape changes the tensor's shape, recording the operation.
func (a *Backend[B]) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if !a.recording() {
		return a.inner.Reshape(x, newShape)
	}
	defer x.Pin()()
	out := a.inner.Reshape(x, newShape)
	a.graph.Record(ops.NewReshape(x, out))
	return out
}

// Transpose permutes dimensions, recording the operation.
func (a *Backend[B]) Transpose(x *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	if len(axes) == 0 {
		ndim := len(x.Shape())
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if !a.recording() {
		return a.inner.Transpose(x, axes...)
	}
	defer x.Pin()()
	out := a.inner.Transpose(x, axes...)
	a.graph.Record(ops.NewTranspose(x, out, axes))
	return out
}

// Sum reduces to a one-element tensor, recording the operation.
func (a *Backend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	if !a.recording() {
		return a.inner.Sum(x)
	}
	defer x.Pin()()
	out := a.inner.Sum(x)
	a.graph.Record(ops.NewSum(x, out))
	return out
}

// SumDim passes through unrecorded.
func (a *Backend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return a.inner.SumDim(x, dim, keepDim)
}

// Mean reduces to a one-element tensor, recording the operation.
func (a *Backend[B]) Mean(x *tensor.RawTensor) *tensor.RawTensor {
	if !a.recording() {
		return a.inner.Mean(x)
	}
	defer x.Pin()()
	out := a.inner.Mean(x)
	a.graph.Record(ops.NewMean(x, out))
	return out
}

// Argmax passes through unrecorded.
func (a *Backend[B]) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return a.inner.Argmax(x, dim)
}

// ReLU computes max(0, x), recording the operation.
func (a *Backend[B]) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	k := a.kernels("relu")
	if !a.recording() {
		return k.ReLU(x)
	}
	defer x.Pin()()
	out := k.ReLU(x)
	a.graph.Record(ops.NewReLU(x, out))
	return out
}

// Sigmoid computes the logistic function, recording the operation.
func (a *Backend[B]) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	k := a.kernels("sigmoid")
	if !a.recording() {
		return k.Sigmoid(x)
	}
	defer x.Pin()()
	out := k.Sigmoid(x)
	a.graph.Record(ops.NewSigmoid(x, out))
	return out
}

// LogSoftmax computes log-softmax over the last dimension of a 2D tensor,
// recording the operation.
func (a *Backend[B]) LogSoftmax(x *tensor.RawTensor) *tensor.RawTensor {
	k := a.kernels("logsoftmax")
	if !a.recording() {
		return k.LogSoftmax(x)
	}
	defer x.Pin()()
	out := k.LogSoftmax(x)
	a.graph.Record(ops.NewLogSoftmax(x, out))
	return out
}

// NLLLoss computes the mean negative log-likelihood, recording the
// operation. Labels carry no gradient.
func (a *Backend[B]) NLLLoss(logProbs, labels *tensor.RawTensor) *tensor.RawTensor {
	k := a.kernels("nllloss")
	if !a.recording() {
		return k.NLLLoss(logProbs, labels)
	}
	defer logProbs.Pin()()
	defer labels.Pin()()
	out := k.NLLLoss(logProbs, labels)
	a.graph.Record(ops.NewNLLLoss(logProbs, labels, out))
	return out
}

// CrossEntropy computes the fused log-softmax + NLL loss over logits,
// recording a single operation. The intermediate log-probabilities are
// captured for the backward rule but never enter the graph.
func (a *Backend[B]) CrossEntropy(logits, labels *tensor.RawTensor) *tensor.RawTensor {
	k := a.kernels("crossentropy")
	if !a.recording() {
		return k.CrossEntropy(logits, labels)
	}
	defer logits.Pin()()
	defer labels.Pin()()
	logProbs := k.LogSoftmax(logits)
	defer logProbs.Pin()()
	out := k.NLLLoss(logProbs, labels)
	a.graph.Record(ops.NewCrossEntropy(logits, labels, out, logProbs))
	return out
}

func (a *Backend[B]) kernels(op string) activationKernels {
	k, ok := any(a.inner).(activationKernels)
	if !ok {
		panic(fmt.Sprintf("autodiff: inner backend %s does not implement %s", a.inner.Name(), op))
	}
	return k
}
