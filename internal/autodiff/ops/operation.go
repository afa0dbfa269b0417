// Package ops defines the operations recorded on the computation graph
// during a forward pass. Each operation captures the tensors its backward
// rule needs and produces the gradients of its inputs from the gradient of
// its output.
package ops

import "github.com/fathom-ml/fathom/internal/tensor"

// Operation is a recorded graph node. Backward receives the gradient flowing
// into the operation's output and returns one gradient per input, positionally
// aligned with Inputs. A nil entry marks a non-differentiable input (class
// labels, for example) for which no gradient flows.
//
// The backend passed to Backward must be a plain compute backend, not a
// recording one: backward computations do not extend the graph.
type Operation interface {
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor
	Inputs() []*tensor.RawTensor
	Output() *tensor.RawTensor
	Name() string
}
