package ops

import "github.com/fathom-ml/fathom/internal/tensor"

// MatMulOp records c = a @ b for 2D operands.
type MatMulOp struct {
	a, b, out *tensor.RawTensor
}

// NewMatMul creates a matrix-multiplication record.
func NewMatMul(a, b, out *tensor.RawTensor) *MatMulOp {
	return &MatMulOp{a: a, b: b, out: out}
}

func (op *MatMulOp) Name() string { return "matmul" }

func (op *MatMulOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

func (op *MatMulOp) Output() *tensor.RawTensor { return op.out }

// Backward applies the matrix calculus identities
// dA = dC @ B^T and dB = A^T @ dC.
func (op *MatMulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradA := backend.MatMul(outputGrad, backend.Transpose(op.b))
	gradB := backend.MatMul(backend.Transpose(op.a), outputGrad)
	return []*tensor.RawTensor{gradA, gradB}
}
