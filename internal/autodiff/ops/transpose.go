package ops

import "github.com/fathom-ml/fathom/internal/tensor"

// TransposeOp records y = transpose(x, axes).
type TransposeOp struct {
	x, out *tensor.RawTensor
	axes   []int
}

// NewTranspose creates a transpose record. axes must already be resolved to
// an explicit permutation (no empty shorthand).
func NewTranspose(x, out *tensor.RawTensor, axes []int) *TransposeOp {
	return &TransposeOp{x: x, out: out, axes: axes}
}

func (op *TransposeOp) Name() string { return "transpose" }

func (op *TransposeOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }

func (op *TransposeOp) Output() *tensor.RawTensor { return op.out }

// Backward transposes the gradient with the inverse permutation.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inverse := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverse[ax] = i
	}
	return []*tensor.RawTensor{backend.Transpose(outputGrad, inverse...)}
}
