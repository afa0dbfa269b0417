package ops

import "github.com/fathom-ml/fathom/internal/tensor"

// MulOp records c = a * b (element-wise, broadcasting).
type MulOp struct {
	a, b, out *tensor.RawTensor
}

// NewMul creates a multiplication record. Both inputs are captured: each
// input's gradient needs the other operand's forward value.
func NewMul(a, b, out *tensor.RawTensor) *MulOp {
	return &MulOp{a: a, b: b, out: out}
}

func (op *MulOp) Name() string { return "mul" }

func (op *MulOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

func (op *MulOp) Output() *tensor.RawTensor { return op.out }

func (op *MulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradA := backend.Mul(outputGrad, op.b)
	gradB := backend.Mul(outputGrad, op.a)
	return []*tensor.RawTensor{
		reduceGrad(gradA, op.a.Shape(), backend),
		reduceGrad(gradB, op.b.Shape(), backend),
	}
}
