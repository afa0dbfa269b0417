// Package nn implements neural network building blocks: the Module
// interface, trainable parameters, the Linear layer, activations, loss
// functions and the Sequential container.
//
// Modules take the execution mode explicitly. There is no global toggle:
// whether a forward pass records a computation graph is decided per call,
// and the same decision is passed to the backend by the caller.
//
//	model := nn.NewSequential[B](
//	    nn.NewLinear(2, 16, backend),
//	    nn.NewReLU[B](),
//	    nn.NewLinear(16, 2, backend),
//	)
//	logits := model.Forward(x, autodiff.Training)
package nn

import (
	"github.com/fathom-ml/fathom/internal/autodiff"
	"github.com/fathom-ml/fathom/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Forward computes the module's output; the mode says whether this pass is
// part of training (gradients will be requested) or inference. Parameters
// returns every trainable parameter, including those of nested modules, and
// is empty for stateless modules like activations.
type Module[B tensor.Backend] interface {
	Forward(input *tensor.Tensor[float32, B], mode autodiff.Mode) *tensor.Tensor[float32, B]
	Parameters() []*Parameter[B]
}
