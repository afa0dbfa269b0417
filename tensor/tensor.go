// Copyright 2026 Fathom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor operations in the
// Fathom ML framework.
//
// The package defines the core types for type-safe tensor computation:
//   - Tensor[T, B]: generic typed tensor bound to a compute backend
//   - RawTensor: dtype-erased tensor the graph and backends operate on
//   - Backend: interface for compute implementations
//   - Shape, DataType, Device: core definitions
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)
package tensor

import (
	"github.com/fathom-ml/fathom/internal/tensor"
)

// DType is the constraint for tensor element types: float32, float64,
// int32, int64.
type DType = tensor.DType

// Float is the constraint for floating-point element types.
type Float = tensor.Float

// DataType identifies the runtime data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
)

// Device identifies where tensor data lives.
type Device = tensor.Device

// CPU is the only supported device.
const CPU Device = tensor.CPU

// Shape holds the dimensions of a tensor. Shape{2, 3} is a 2x3 matrix.
type Shape = tensor.Shape

// Backend is the compute interface tensors run on.
type Backend = tensor.Backend

// GradientRecorder is implemented by graph-building backends; RequireGrad
// registers tensors through it.
type GradientRecorder = tensor.GradientRecorder

// RawTensor is the dtype-erased tensor representation.
type RawTensor = tensor.RawTensor

// ShapeError reports incompatible operand shapes, raised at
// forward-evaluation time before any graph node is created.
type ShapeError = tensor.ShapeError

// Tensor is a typed tensor bound to a compute backend.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Ones[T, B](shape, b)
}

// Full creates a tensor filled with value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// Randn creates a float tensor with values drawn from N(0, 1).
func Randn[T Float, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Randn[T, B](shape, b)
}

// Scalar creates a single-element tensor with shape {1}.
func Scalar[T DType, B Backend](value T, b B) *Tensor[T, B] {
	return tensor.Scalar[T, B](value, b)
}

// FromSlice creates a tensor by copying data into fresh memory.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T, B](data, shape, b)
}

// New wraps a RawTensor in a typed tensor. Low-level; prefer the creation
// functions.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// NewRaw allocates a zero-filled RawTensor. Low-level.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// BroadcastShapes computes the NumPy-style broadcast of two shapes. The
// bool reports whether the first operand needs broadcasting.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}
