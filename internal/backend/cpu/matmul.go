package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/mat"

	"github.com/fathom-ml/fathom/internal/tensor"
)

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) -> (M, N).
// Float kernels are delegated to gonum gemm; integer matmul is not supported.
func (c *Backend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(&tensor.ShapeError{Op: "matmul", Want: aShape.Clone(), Got: bShape.Clone(),
			Msg: "only 2D tensors supported"})
	}

	m, k := aShape[0], aShape[1]
	if bShape[0] != k {
		panic(&tensor.ShapeError{Op: "matmul", Want: aShape.Clone(), Got: bShape.Clone(),
			Msg: fmt.Sprintf("inner dimensions differ: %d vs %d", k, bShape[0])})
	}
	n := bShape[1]

	result := mustRaw(tensor.Shape{m, n}, a.DType(), c.device)

	switch a.DType() {
	case tensor.Float32:
		gemm32(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n)
	case tensor.Float64:
		gemm64(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s (only float32/float64 supported)", a.DType()))
	}

	return result
}

// gemm32 computes C = A @ B via single-precision BLAS.
func gemm32(cData, aData, bData []float32, m, k, n int) {
	aMat := blas32.General{Rows: m, Cols: k, Stride: k, Data: aData}
	bMat := blas32.General{Rows: k, Cols: n, Stride: n, Data: bData}
	cMat := blas32.General{Rows: m, Cols: n, Stride: n, Data: cData}
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, aMat, bMat, 0, cMat)
}

// gemm64 computes C = A @ B by wrapping the flat slices in mat.Dense views;
// mat.Dense shares the slice memory, so the product lands directly in cData.
func gemm64(cData, aData, bData []float64, m, k, n int) {
	aMat := mat.NewDense(m, k, aData)
	bMat := mat.NewDense(k, n, bData)
	cMat := mat.NewDense(m, n, cData)
	cMat.Mul(aMat, bMat)
}
