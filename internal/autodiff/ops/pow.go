package ops

import "github.com/fathom-ml/fathom/internal/tensor"

// PowOp records y = x^p for a fixed scalar exponent.
type PowOp struct {
	x, out   *tensor.RawTensor
	exponent float64
}

// NewPow creates a power record. The input is captured because the gradient
// p * x^(p-1) re-reads it.
func NewPow(x, out *tensor.RawTensor, exponent float64) *PowOp {
	return &PowOp{x: x, out: out, exponent: exponent}
}

func (op *PowOp) Name() string { return "pow" }

func (op *PowOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }

func (op *PowOp) Output() *tensor.RawTensor { return op.out }

func (op *PowOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := backend.Pow(op.x, op.exponent-1)
	grad = backend.MulScalar(grad, op.exponent)
	grad = backend.Mul(grad, outputGrad)
	return []*tensor.RawTensor{grad}
}
