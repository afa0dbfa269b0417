package cpu

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/fathom-ml/fathom/internal/parallel"
	"github.com/fathom-ml/fathom/internal/tensor"
)

// Pow raises every element to the given power.
func (c *Backend) Pow(x *tensor.RawTensor, exponent float64) *tensor.RawTensor {
	return c.unary("pow", x, func(v float64) float64 { return math.Pow(v, exponent) })
}

// Exp computes the element-wise exponential.
func (c *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary("exp", x, math.Exp)
}

// Log computes the element-wise natural logarithm.
func (c *Backend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary("log", x, math.Log)
}

// MulScalar multiplies every element by a scalar.
func (c *Backend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	result := mustRaw(x.Shape(), x.DType(), c.device)
	switch x.DType() {
	case tensor.Float64:
		floats.ScaleTo(result.AsFloat64(), scalar, x.AsFloat64())
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		s := float32(scalar)
		parallel.ForRange(len(src), c.par, func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = src[i] * s
			}
		})
	default:
		panic(fmt.Sprintf("mulscalar: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}
	return result
}

// unary applies f element-wise, dispatching on dtype.
func (c *Backend) unary(op string, x *tensor.RawTensor, f func(float64) float64) *tensor.RawTensor {
	result := mustRaw(x.Shape(), x.DType(), c.device)
	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		parallel.ForRange(len(src), c.par, func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = float32(f(float64(src[i])))
			}
		})
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		parallel.ForRange(len(src), c.par, func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = f(src[i])
			}
		})
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32/float64 supported)", op, x.DType()))
	}
	return result
}
