package ops

import "github.com/fathom-ml/fathom/internal/tensor"

// AddOp records c = a + b with broadcasting.
type AddOp struct {
	a, b, out *tensor.RawTensor
}

// NewAdd creates an addition record.
func NewAdd(a, b, out *tensor.RawTensor) *AddOp {
	return &AddOp{a: a, b: b, out: out}
}

func (op *AddOp) Name() string { return "add" }

func (op *AddOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

func (op *AddOp) Output() *tensor.RawTensor { return op.out }

// Backward passes the output gradient through to both inputs, reduced over
// any broadcast dimensions.
func (op *AddOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		reduceGrad(outputGrad, op.a.Shape(), backend),
		reduceGrad(outputGrad, op.b.Shape(), backend),
	}
}
