package ops

import "github.com/fathom-ml/fathom/internal/tensor"

// SigmoidOp records y = sigmoid(x). Only the output is captured: the
// gradient is y * (1 - y), so the input is not needed.
type SigmoidOp struct {
	x, out *tensor.RawTensor
}

// NewSigmoid creates a sigmoid record.
func NewSigmoid(x, out *tensor.RawTensor) *SigmoidOp {
	return &SigmoidOp{x: x, out: out}
}

func (op *SigmoidOp) Name() string { return "sigmoid" }

func (op *SigmoidOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }

func (op *SigmoidOp) Output() *tensor.RawTensor { return op.out }

func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	oneMinus := fullLike(op.out, 1)
	oneMinus = backend.Sub(oneMinus, op.out)
	grad := backend.Mul(oneMinus, op.out)
	grad = backend.Mul(grad, outputGrad)
	return []*tensor.RawTensor{grad}
}
