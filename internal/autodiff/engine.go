package autodiff

import (
	"fmt"

	"github.com/fathom-ml/fathom/internal/autodiff/ops"
	"github.com/fathom-ml/fathom/internal/tensor"
)

// Gradients maps a watched tensor to its accumulated gradient.
type Gradients map[*tensor.RawTensor]*tensor.RawTensor

// BackwardOption configures a backward pass.
type BackwardOption func(*backwardConfig)

type backwardConfig struct {
	retainGraph bool
}

// WithRetainGraph keeps the graph alive after the backward pass so it can be
// traversed again. The caller takes responsibility for not mutating any
// tensor the graph captured between the two passes.
func WithRetainGraph() BackwardOption {
	return func(c *backwardConfig) { c.retainGraph = true }
}

// Backward computes the gradients of root with respect to every watched
// leaf. The root must hold exactly one element; the traversal visits only
// operations the root transitively depends on, in reverse topological order,
// and sums gradients where a tensor feeds several operations.
//
// The graph is consumed: a second Backward on the same recording returns
// ErrStaleGraph unless WithRetainGraph was given. Backward itself runs on
// the inner backend and records nothing.
func (a *Backend[B]) Backward(root *tensor.RawTensor, opts ...BackwardOption) (Gradients, error) {
	var cfg backwardConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if !root.IsScalar() {
		return nil, &NonScalarRootError{Shape: root.Shape().Clone()}
	}

	g := a.graph
	g.mu.Lock()
	if g.consumed && !cfg.retainGraph {
		g.mu.Unlock()
		return nil, ErrStaleGraph
	}
	if _, watched := g.watched[root]; g.creators[root] == nil && !watched {
		g.mu.Unlock()
		return nil, ErrUntrackedRoot
	}

	order, err := topoOrder(g, root)
	if err != nil {
		g.mu.Unlock()
		return nil, err
	}
	if !cfg.retainGraph {
		g.consumed = true
	}
	watched := make(map[*tensor.RawTensor]struct{}, len(g.watched))
	for t := range g.watched {
		watched[t] = struct{}{}
	}
	g.mu.Unlock()

	grads := make(Gradients, len(order)+1)
	grads[root] = onesRaw(root)

	for i := len(order) - 1; i >= 0; i-- {
		op := order[i]
		outGrad, ok := grads[op.Output()]
		if !ok {
			// No gradient reached this output; nothing flows further.
			continue
		}

		release := outGrad.Pin()
		inGrads := op.Backward(outGrad, a.inner)
		release()

		inputs := op.Inputs()
		if len(inGrads) != len(inputs) {
			return nil, fmt.Errorf("autodiff: op %q returned %d gradients for %d inputs",
				op.Name(), len(inGrads), len(inputs))
		}
		for j, in := range inputs {
			contrib := inGrads[j]
			if contrib == nil {
				continue
			}
			if acc, exists := grads[in]; exists {
				grads[in] = a.inner.Add(acc, contrib)
			} else {
				grads[in] = contrib
			}
		}
	}

	// Keep gradients only for watched leaves; intermediate gradients are
	// traversal state, not results.
	result := make(Gradients, len(watched))
	for t := range watched {
		if grad, ok := grads[t]; ok {
			result[t] = grad
		}
	}
	return result, nil
}

// topoOrder collects the operations root depends on in topological order
// (inputs before outputs) via depth-first search over creator links.
// Callers hold g.mu.
func topoOrder(g *Graph, root *tensor.RawTensor) ([]ops.Operation, error) {
	const (
		inProgress = 1
		done       = 2
	)
	state := make(map[*tensor.RawTensor]int)
	order := make([]ops.Operation, 0, len(g.records))

	var visit func(t *tensor.RawTensor) error
	visit = func(t *tensor.RawTensor) error {
		switch state[t] {
		case done:
			return nil
		case inProgress:
			op := g.creators[t]
			return &CycleError{Op: op.Name()}
		}
		state[t] = inProgress
		if op := g.creators[t]; op != nil {
			for _, in := range op.Inputs() {
				if err := visit(in); err != nil {
					return err
				}
			}
			order = append(order, op)
		}
		state[t] = done
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}

// onesRaw allocates the seed gradient d(root)/d(root) = 1.
func onesRaw(root *tensor.RawTensor) *tensor.RawTensor {
	seed, err := tensor.NewRaw(root.Shape(), root.DType(), root.Device())
	if err != nil {
		panic(fmt.Sprintf("autodiff: seed allocation failed: %v", err))
	}
	switch root.DType() {
	case tensor.Float32:
		seed.AsFloat32()[0] = 1
	case tensor.Float64:
		seed.AsFloat64()[0] = 1
	default:
		panic(fmt.Sprintf("autodiff: unsupported root dtype %s (only float32/float64 supported)", root.DType()))
	}
	return seed
}
