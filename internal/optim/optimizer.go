// Package optim implements gradient-descent optimizers over nn parameters.
//
// An optimizer owns the parameter list and consumes the gradient map
// produced by a backward pass:
//
//	grads, err := backend.Backward(loss.Raw())
//	if err != nil { ... }
//	opt.Step(grads)
//	opt.ZeroGrad()
package optim

import (
	"github.com/fathom-ml/fathom/internal/nn"
	"github.com/fathom-ml/fathom/internal/tensor"
)

// Optimizer is the interface shared by all optimization algorithms.
//
// Step applies one update from a gradient map keyed by parameter RawTensor.
// Parameters without an entry in the map did not participate in the forward
// pass and are skipped without error. ZeroGrad clears per-parameter gradient
// state and must be called before the next backward pass.
type Optimizer interface {
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)
	ZeroGrad()
	GetLR() float32
}

// getGradient looks up the gradient recorded for a parameter, nil if the
// parameter was not part of the computation graph.
func getGradient[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor().Raw()]
}
