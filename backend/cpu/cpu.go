// Copyright 2026 Fathom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the CPU compute backend.
//
// Dense linear algebra is delegated to gonum; element-wise kernels run as
// Go loops parallelized across worker goroutines for large tensors.
//
//	backend := cpu.New()
//	x := tensor.Randn[float32](tensor.Shape{32, 784}, backend)
package cpu

import (
	"github.com/fathom-ml/fathom/internal/backend/cpu"
)

// Backend is the CPU implementation of tensor.Backend.
type Backend = cpu.Backend

// New creates a CPU backend with default parallelism.
func New() *Backend {
	return cpu.New()
}

// NewSequential creates a CPU backend with intra-op parallelism disabled.
func NewSequential() *Backend {
	return cpu.NewSequential()
}
