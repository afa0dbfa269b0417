package ops

import "github.com/fathom-ml/fathom/internal/tensor"

// MeanOp records the full reduction y = mean(x) to a one-element tensor.
type MeanOp struct {
	x, out *tensor.RawTensor
}

// NewMean creates a mean-reduction record.
func NewMean(x, out *tensor.RawTensor) *MeanOp {
	return &MeanOp{x: x, out: out}
}

func (op *MeanOp) Name() string { return "mean" }

func (op *MeanOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }

func (op *MeanOp) Output() *tensor.RawTensor { return op.out }

// Backward spreads g/N uniformly over the input's shape.
func (op *MeanOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	n := op.x.NumElements()
	grad := fullLike(op.x, scalarValue(outputGrad)/float64(n))
	return []*tensor.RawTensor{grad}
}
