package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/fathom-ml/fathom/internal/tensor"
)

// Sum reduces the tensor to a single-element tensor holding the total.
func (c *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := mustRaw(tensor.Shape{1}, x.DType(), c.device)
	switch x.DType() {
	case tensor.Float32:
		var total float32
		for _, v := range x.AsFloat32() {
			total += v
		}
		result.AsFloat32()[0] = total
	case tensor.Float64:
		result.AsFloat64()[0] = floats.Sum(x.AsFloat64())
	case tensor.Int32:
		var total int32
		for _, v := range x.AsInt32() {
			total += v
		}
		result.AsInt32()[0] = total
	case tensor.Int64:
		var total int64
		for _, v := range x.AsInt64() {
			total += v
		}
		result.AsInt64()[0] = total
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}
	return result
}

// Mean reduces the tensor to a single-element tensor holding the arithmetic
// mean. Only floating-point dtypes are supported.
func (c *Backend) Mean(x *tensor.RawTensor) *tensor.RawTensor {
	n := x.NumElements()
	result := mustRaw(tensor.Shape{1}, x.DType(), c.device)
	switch x.DType() {
	case tensor.Float32:
		var total float32
		for _, v := range x.AsFloat32() {
			total += v
		}
		result.AsFloat32()[0] = total / float32(n)
	case tensor.Float64:
		result.AsFloat64()[0] = floats.Sum(x.AsFloat64()) / float64(n)
	default:
		panic(fmt.Sprintf("mean: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}
	return result
}

// SumDim reduces along a single dimension. With keepDim the reduced dimension
// stays in the shape with size 1; otherwise it is removed.
func (c *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("sumdim: dim %d out of range for %dD tensor", dim, ndim))
	}

	outShape := reducedShape(shape, dim, keepDim)
	result := mustRaw(outShape, x.DType(), c.device)

	// Iterate as (outer, reduced, inner) so both contiguous and strided
	// reductions run over flat indices.
	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < ndim; i++ {
		inner *= shape[i]
	}
	red := shape[dim]

	switch x.DType() {
	case tensor.Float32:
		sumDimLoop(result.AsFloat32(), x.AsFloat32(), outer, red, inner)
	case tensor.Float64:
		sumDimLoop(result.AsFloat64(), x.AsFloat64(), outer, red, inner)
	case tensor.Int32:
		sumDimLoop(result.AsInt32(), x.AsInt32(), outer, red, inner)
	case tensor.Int64:
		sumDimLoop(result.AsInt64(), x.AsInt64(), outer, red, inner)
	default:
		panic(fmt.Sprintf("sumdim: unsupported dtype %s", x.DType()))
	}
	return result
}

// Argmax returns the index of the maximum along dim as an Int32 tensor, with
// the reduced dimension removed. Ties resolve to the lowest index.
func (c *Backend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("argmax: dim %d out of range for %dD tensor", dim, ndim))
	}

	outShape := reducedShape(shape, dim, false)
	result := mustRaw(outShape, tensor.Int32, c.device)

	outer, inner := 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < ndim; i++ {
		inner *= shape[i]
	}
	red := shape[dim]

	switch x.DType() {
	case tensor.Float32:
		argmaxLoop(result.AsInt32(), x.AsFloat32(), outer, red, inner)
	case tensor.Float64:
		argmaxLoop(result.AsInt32(), x.AsFloat64(), outer, red, inner)
	case tensor.Int32:
		argmaxLoop(result.AsInt32(), x.AsInt32(), outer, red, inner)
	case tensor.Int64:
		argmaxLoop(result.AsInt32(), x.AsInt64(), outer, red, inner)
	default:
		panic(fmt.Sprintf("argmax: unsupported dtype %s", x.DType()))
	}
	return result
}

func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	out := make(tensor.Shape, 0, len(shape))
	for i, s := range shape {
		if i == dim {
			if keepDim {
				out = append(out, 1)
			}
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		out = tensor.Shape{1}
	}
	return out
}

func sumDimLoop[T number](dst, src []T, outer, red, inner int) {
	for o := 0; o < outer; o++ {
		for r := 0; r < red; r++ {
			base := (o*red + r) * inner
			dbase := o * inner
			for i := 0; i < inner; i++ {
				dst[dbase+i] += src[base+i]
			}
		}
	}
}

func argmaxLoop[T number](dst []int32, src []T, outer, red, inner int) {
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			best := src[o*red*inner+i]
			bestIdx := int32(0)
			for r := 1; r < red; r++ {
				v := src[(o*red+r)*inner+i]
				if v > best {
					best = v
					bestIdx = int32(r)
				}
			}
			dst[o*inner+i] = bestIdx
		}
	}
}
