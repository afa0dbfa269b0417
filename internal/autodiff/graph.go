package autodiff

import (
	"sync"

	"github.com/fathom-ml/fathom/internal/autodiff/ops"
	"github.com/fathom-ml/fathom/internal/tensor"
)

// Mode selects whether forward operations are recorded on the graph.
type Mode int

const (
	// Training records every differentiable operation so Backward can run.
	Training Mode = iota
	// Inference executes operations without recording; Backward is
	// unavailable for tensors produced in this mode.
	Inference
)

// String returns the mode name.
func (m Mode) String() string {
	if m == Training {
		return "training"
	}
	return "inference"
}

// Graph holds the operations recorded during a forward pass, indexed by the
// tensor each operation produced. It also tracks the watched leaves:
// gradients are materialized only for watched tensors.
//
// A Graph is safe for concurrent recording, though a single forward pass is
// normally sequential. One backward pass consumes the graph; Reset starts
// the next step's recording. Watched leaves (parameters) survive Reset.
type Graph struct {
	mu       sync.Mutex
	records  []ops.Operation
	creators map[*tensor.RawTensor]ops.Operation
	watched  map[*tensor.RawTensor]struct{}
	consumed bool
}

// NewGraph creates an empty computation graph.
func NewGraph() *Graph {
	return &Graph{
		creators: make(map[*tensor.RawTensor]ops.Operation),
		watched:  make(map[*tensor.RawTensor]struct{}),
	}
}

// Record appends an operation and indexes it as the creator of its output.
func (g *Graph) Record(op ops.Operation) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.records = append(g.records, op)
	g.creators[op.Output()] = op
}

// Watch marks a tensor as a differentiable leaf.
func (g *Graph) Watch(t *tensor.RawTensor) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.watched[t] = struct{}{}
}

// IsWatched reports whether t is a watched leaf.
func (g *Graph) IsWatched(t *tensor.RawTensor) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.watched[t]
	return ok
}

// Creator returns the operation that produced t, or nil for leaves.
func (g *Graph) Creator(t *tensor.RawTensor) ops.Operation {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.creators[t]
}

// NumOps returns the number of recorded operations.
func (g *Graph) NumOps() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.records)
}

// Reset discards the recorded operations and clears the consumed flag so a
// new forward pass can be recorded. Watched leaves are kept: parameters stay
// watched for the lifetime of the model.
func (g *Graph) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.records = g.records[:0]
	g.creators = make(map[*tensor.RawTensor]ops.Operation)
	g.consumed = false
}
