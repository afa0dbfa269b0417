// Copyright 2026 Fathom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// Wrapping a compute backend with New yields a backend that records every
// differentiable operation onto a computation graph while in Training mode.
// Backward traverses the graph from a scalar root in reverse topological
// order and returns gradients for the watched leaves.
//
//	base := cpu.New()
//	backend := autodiff.New(base)
//
//	x := tensor.Scalar[float32](3, backend).RequireGrad()
//	y := x.Mul(x)
//	grads, err := backend.Backward(y.Raw())
package autodiff

import (
	"github.com/fathom-ml/fathom/internal/autodiff"
	"github.com/fathom-ml/fathom/internal/tensor"
)

// Backend wraps a compute backend with gradient recording.
type Backend[B tensor.Backend] = autodiff.Backend[B]

// New creates a recording backend around base, starting in Training mode.
func New[B tensor.Backend](base B) *Backend[B] {
	return autodiff.New(base)
}

// Mode selects whether forward operations are recorded.
type Mode = autodiff.Mode

// Execution modes.
const (
	Training  Mode = autodiff.Training
	Inference Mode = autodiff.Inference
)

// Graph holds the operations recorded during a forward pass.
type Graph = autodiff.Graph

// NewGraph creates an empty computation graph.
func NewGraph() *Graph {
	return autodiff.NewGraph()
}

// Gradients maps watched tensors to their accumulated gradients.
type Gradients = autodiff.Gradients

// BackwardOption configures a backward pass.
type BackwardOption = autodiff.BackwardOption

// WithRetainGraph keeps the graph traversable after the backward pass.
func WithRetainGraph() BackwardOption {
	return autodiff.WithRetainGraph()
}

// BackwardCapable is the interface of backends that can run a backward pass.
type BackwardCapable = autodiff.BackwardCapable

// Errors returned by Backward.
var (
	ErrStaleGraph    = autodiff.ErrStaleGraph
	ErrUntrackedRoot = autodiff.ErrUntrackedRoot
)

// NonScalarRootError reports a backward pass started from a non-scalar.
type NonScalarRootError = autodiff.NonScalarRootError

// CycleError reports a dependency cycle in the recorded graph.
type CycleError = autodiff.CycleError

// Backward computes gradients of a typed scalar tensor.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B, opts ...BackwardOption) (Gradients, error) {
	return autodiff.Backward(t, backend, opts...)
}
