package ops

import "github.com/fathom-ml/fathom/internal/tensor"

// ReshapeOp records y = reshape(x, newShape).
type ReshapeOp struct {
	x, out *tensor.RawTensor
}

// NewReshape creates a reshape record.
func NewReshape(x, out *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{x: x, out: out}
}

func (op *ReshapeOp) Name() string { return "reshape" }

func (op *ReshapeOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }

func (op *ReshapeOp) Output() *tensor.RawTensor { return op.out }

// Backward reshapes the gradient back to the input's shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Reshape(outputGrad, op.x.Shape())}
}
