package ops

import (
	"fmt"

	"github.com/fathom-ml/fathom/internal/tensor"
)

// reduceGrad sums a gradient down to the shape of the input it belongs to,
// undoing broadcasting: extra leading dimensions are summed away and
// broadcast (size-1) dimensions are summed with keepDim. When no reduction
// is needed the gradient is returned as a shared view, which also prevents
// the backend from reusing its buffer in place during accumulation.
func reduceGrad(grad *tensor.RawTensor, inShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(inShape) {
		return grad.Clone()
	}

	for len(grad.Shape()) > len(inShape) {
		grad = backend.SumDim(grad, 0, false)
	}
	for i, s := range inShape {
		if s == 1 && grad.Shape()[i] != 1 {
			grad = backend.SumDim(grad, i, true)
		}
	}
	if !grad.Shape().Equal(inShape) {
		grad = backend.Reshape(grad, inShape)
	}
	return grad
}

// newRaw allocates a zero-filled tensor matching the given metadata.
func newRaw(shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	r, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("ops: allocation failed: %v", err))
	}
	return r
}

// zerosLike allocates a zero-filled tensor with t's shape and dtype.
func zerosLike(t *tensor.RawTensor) *tensor.RawTensor {
	return newRaw(t.Shape(), t.DType(), t.Device())
}

// fullLike allocates a tensor with t's shape and dtype, filled with value.
func fullLike(t *tensor.RawTensor, value float64) *tensor.RawTensor {
	r := zerosLike(t)
	switch r.DType() {
	case tensor.Float32:
		data := r.AsFloat32()
		v := float32(value)
		for i := range data {
			data[i] = v
		}
	case tensor.Float64:
		data := r.AsFloat64()
		for i := range data {
			data[i] = value
		}
	default:
		panic(fmt.Sprintf("ops: fullLike unsupported dtype %s", r.DType()))
	}
	return r
}

// scalarValue reads the single element of a one-element float tensor.
func scalarValue(t *tensor.RawTensor) float64 {
	if !t.IsScalar() {
		panic(fmt.Sprintf("ops: expected scalar, got shape %v", t.Shape()))
	}
	switch t.DType() {
	case tensor.Float32:
		return float64(t.AsFloat32()[0])
	case tensor.Float64:
		return t.AsFloat64()[0]
	default:
		panic(fmt.Sprintf("ops: scalarValue unsupported dtype %s", t.DType()))
	}
}

// labelAt reads the i-th class index from an integer label tensor.
func labelAt(labels *tensor.RawTensor, i int) int {
	switch labels.DType() {
	case tensor.Int32:
		return int(labels.AsInt32()[i])
	case tensor.Int64:
		return int(labels.AsInt64()[i])
	default:
		panic(fmt.Sprintf("ops: labels must be int32 or int64, got %s", labels.DType()))
	}
}
