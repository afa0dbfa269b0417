package autodiff

import "github.com/fathom-ml/fathom/internal/tensor"

// BackwardCapable is the interface of backends that can run a backward pass.
// The recording Backend implements it.
type BackwardCapable interface {
	tensor.Backend
	RunBackward(root *tensor.RawTensor, opts ...BackwardOption) (Gradients, error)
}

// RunBackward implements BackwardCapable.
func (a *Backend[B]) RunBackward(root *tensor.RawTensor, opts ...BackwardOption) (Gradients, error) {
	return a.Backward(root, opts...)
}

// Backward computes gradients of a typed scalar tensor. It is the
// convenience entry point used by training code:
//
//	grads, err := autodiff.Backward(loss, backend)
//	optimizer.Step(grads)
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B, opts ...BackwardOption) (Gradients, error) {
	return backend.RunBackward(t.Raw(), opts...)
}
