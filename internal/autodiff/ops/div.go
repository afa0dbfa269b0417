package ops

import "github.com/fathom-ml/fathom/internal/tensor"

// DivOp records c = a / b (element-wise, broadcasting).
type DivOp struct {
	a, b, out *tensor.RawTensor
}

// NewDiv creates a division record. The output is captured as well: the
// denominator gradient -a/b^2 is computed as -out/b.
func NewDiv(a, b, out *tensor.RawTensor) *DivOp {
	return &DivOp{a: a, b: b, out: out}
}

func (op *DivOp) Name() string { return "div" }

func (op *DivOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

func (op *DivOp) Output() *tensor.RawTensor { return op.out }

func (op *DivOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradA := backend.Div(outputGrad, op.b)

	gradB := backend.Mul(outputGrad, op.out)
	gradB = backend.Div(gradB, op.b)
	gradB = backend.MulScalar(gradB, -1)

	return []*tensor.RawTensor{
		reduceGrad(gradA, op.a.Shape(), backend),
		reduceGrad(gradB, op.b.Shape(), backend),
	}
}
