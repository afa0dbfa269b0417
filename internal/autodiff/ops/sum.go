package ops

import "github.com/fathom-ml/fathom/internal/tensor"

// SumOp records the full reduction y = sum(x) to a one-element tensor.
type SumOp struct {
	x, out *tensor.RawTensor
}

// NewSum creates a sum-reduction record.
func NewSum(x, out *tensor.RawTensor) *SumOp {
	return &SumOp{x: x, out: out}
}

func (op *SumOp) Name() string { return "sum" }

func (op *SumOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }

func (op *SumOp) Output() *tensor.RawTensor { return op.out }

// Backward broadcasts g over the input's shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{fullLike(op.x, scalarValue(outputGrad))}
}
