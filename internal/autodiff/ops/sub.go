package ops

import "github.com/fathom-ml/fathom/internal/tensor"

// SubOp records c = a - b with broadcasting.
type SubOp struct {
	a, b, out *tensor.RawTensor
}

// NewSub creates a subtraction record.
func NewSub(a, b, out *tensor.RawTensor) *SubOp {
	return &SubOp{a: a, b: b, out: out}
}

func (op *SubOp) Name() string { return "sub" }

func (op *SubOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

func (op *SubOp) Output() *tensor.RawTensor { return op.out }

func (op *SubOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	negGrad := backend.MulScalar(outputGrad, -1)
	return []*tensor.RawTensor{
		reduceGrad(outputGrad, op.a.Shape(), backend),
		reduceGrad(negGrad, op.b.Shape(), backend),
	}
}
