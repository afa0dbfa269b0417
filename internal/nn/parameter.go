package nn

import "github.com/fathom-ml/fathom/internal/tensor"

// Parameter is a trainable tensor: a weight or bias updated by the
// optimizer. Creating a Parameter marks the tensor as a differentiable leaf
// so the backward pass materializes its gradient.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
	grad   *tensor.Tensor[float32, B]
}

// NewParameter wraps an initialized tensor as a trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	t.RequireGrad()
	return &Parameter[B]{name: name, tensor: t}
}

// Name returns the parameter name, e.g. "weight".
func (p *Parameter[B]) Name() string { return p.name }

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] { return p.tensor }

// Grad returns the most recent gradient, or nil if none has been stored
// since the last ZeroGrad.
func (p *Parameter[B]) Grad() *tensor.Tensor[float32, B] { return p.grad }

// SetGrad stores a gradient. Called by the optimizer after a backward pass.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[float32, B]) { p.grad = grad }

// ZeroGrad drops the stored gradient. Must be called before the next
// backward pass; stale gradients are never silently reused.
func (p *Parameter[B]) ZeroGrad() { p.grad = nil }
