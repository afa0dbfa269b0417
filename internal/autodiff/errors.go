package autodiff

import (
	"errors"
	"fmt"

	"github.com/fathom-ml/fathom/internal/tensor"
)

// ErrStaleGraph is returned when Backward is called on a graph that a
// previous backward pass already consumed. Operations capture forward values
// without copying, so a second traversal could read buffers that later
// computations have reused. Record a new forward pass (or opt in with
// WithRetainGraph) instead.
var ErrStaleGraph = errors.New("autodiff: graph already consumed by a backward pass")

// ErrUntrackedRoot is returned when the backward root was not produced by a
// recorded operation, typically because the forward pass ran in inference
// mode.
var ErrUntrackedRoot = errors.New("autodiff: root tensor is not part of the recorded graph")

// NonScalarRootError is returned when Backward is started from a tensor with
// more than one element. Gradients are defined here only for scalar roots;
// reduce the output (Mean, Sum, a loss) first.
type NonScalarRootError struct {
	Shape tensor.Shape
}

func (e *NonScalarRootError) Error() string {
	return fmt.Sprintf("autodiff: backward requires a scalar root, got shape %v", e.Shape)
}

// CycleError is returned when the recorded graph contains a dependency
// cycle. A well-formed forward pass always yields a DAG; a cycle means an
// operation's output was rewired as its own transitive input.
type CycleError struct {
	Op string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("autodiff: cycle detected in computation graph at %q", e.Op)
}
