package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/fathom-ml/fathom/internal/parallel"
	"github.com/fathom-ml/fathom/internal/tensor"
)

// number mirrors the tensor.DType constraint for kernel helpers.
type number interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// binaryInplace computes a op= b for same-shape operands, overwriting a.
// The float64 path uses gonum's vectorized kernels.
func binaryInplace(kind binaryKind, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float64:
		x, y := a.AsFloat64(), b.AsFloat64()
		switch kind {
		case kindAdd:
			floats.Add(x, y)
		case kindSub:
			floats.Sub(x, y)
		case kindMul:
			floats.Mul(x, y)
		case kindDiv:
			floats.Div(x, y)
		}
	case tensor.Float32:
		inplaceLoop(kind, a.AsFloat32(), b.AsFloat32())
	case tensor.Int32:
		inplaceLoop(kind, a.AsInt32(), b.AsInt32())
	case tensor.Int64:
		inplaceLoop(kind, a.AsInt64(), b.AsInt64())
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", kind, a.DType()))
	}
}

// binarySameShape computes dst = a op b for same-shape operands.
func binarySameShape(kind binaryKind, dst, a, b *tensor.RawTensor, par parallel.Config) {
	switch a.DType() {
	case tensor.Float64:
		d, x, y := dst.AsFloat64(), a.AsFloat64(), b.AsFloat64()
		switch kind {
		case kindAdd:
			floats.AddTo(d, x, y)
		case kindSub:
			floats.SubTo(d, x, y)
		case kindMul:
			floats.MulTo(d, x, y)
		case kindDiv:
			floats.DivTo(d, x, y)
		}
	case tensor.Float32:
		vectorLoop(kind, dst.AsFloat32(), a.AsFloat32(), b.AsFloat32(), par)
	case tensor.Int32:
		vectorLoop(kind, dst.AsInt32(), a.AsInt32(), b.AsInt32(), par)
	case tensor.Int64:
		vectorLoop(kind, dst.AsInt64(), a.AsInt64(), b.AsInt64(), par)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", kind, a.DType()))
	}
}

// binaryBroadcast computes dst = a op b where the operands were broadcast to
// outShape.
func binaryBroadcast(kind binaryKind, dst, a, b *tensor.RawTensor, outShape tensor.Shape, par parallel.Config) {
	switch a.DType() {
	case tensor.Float32:
		broadcastLoop(kind, dst.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, par)
	case tensor.Float64:
		broadcastLoop(kind, dst.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, par)
	case tensor.Int32:
		broadcastLoop(kind, dst.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape, par)
	case tensor.Int64:
		broadcastLoop(kind, dst.AsInt64(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape, par)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", kind, a.DType()))
	}
}

func inplaceLoop[T number](kind binaryKind, a, b []T) {
	switch kind {
	case kindAdd:
		for i := range a {
			a[i] += b[i]
		}
	case kindSub:
		for i := range a {
			a[i] -= b[i]
		}
	case kindMul:
		for i := range a {
			a[i] *= b[i]
		}
	case kindDiv:
		for i := range a {
			a[i] /= b[i]
		}
	}
}

func vectorLoop[T number](kind binaryKind, dst, a, b []T, par parallel.Config) {
	parallel.ForRange(len(dst), par, func(start, end int) {
		switch kind {
		case kindAdd:
			for i := start; i < end; i++ {
				dst[i] = a[i] + b[i]
			}
		case kindSub:
			for i := start; i < end; i++ {
				dst[i] = a[i] - b[i]
			}
		case kindMul:
			for i := start; i < end; i++ {
				dst[i] = a[i] * b[i]
			}
		case kindDiv:
			for i := start; i < end; i++ {
				dst[i] = a[i] / b[i]
			}
		}
	})
}

func broadcastLoop[T number](kind binaryKind, dst, a, b []T, aShape, bShape, outShape tensor.Shape, par parallel.Config) {
	outStrides := outShape.Strides()
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)

	parallel.ForRange(len(dst), par, func(start, end int) {
		for i := start; i < end; i++ {
			av := a[flatIndex(i, outStrides, aStrides)]
			bv := b[flatIndex(i, outStrides, bStrides)]
			switch kind {
			case kindAdd:
				dst[i] = av + bv
			case kindSub:
				dst[i] = av - bv
			case kindMul:
				dst[i] = av * bv
			case kindDiv:
				dst[i] = av / bv
			}
		}
	})
}

// broadcastStrides computes strides for indexing inShape as if it had been
// expanded to outShape: broadcast (size-1 or missing) dimensions get stride 0.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)
	offset := outDim - len(inShape)
	orig := inShape.Strides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0:
			strides[i] = 0
		case inShape[inIdx] == 1:
			strides[i] = 0
		default:
			strides[i] = orig[inIdx]
		}
	}
	return strides
}

// flatIndex maps a flat output index to the flat source index under
// broadcast-adjusted strides.
func flatIndex(outIdx int, outStrides, inStrides []int) int {
	idx := 0
	for i := range outStrides {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		idx += coord * inStrides[i]
	}
	return idx
}
