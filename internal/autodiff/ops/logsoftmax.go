package ops

import "github.com/fathom-ml/fathom/internal/tensor"

// LogSoftmaxOp records y = log(softmax(x)) along the last dimension of a 2D
// tensor. Only the output is captured: softmax(x) is recovered as exp(y).
type LogSoftmaxOp struct {
	x, out *tensor.RawTensor
}

// NewLogSoftmax creates a log-softmax record.
func NewLogSoftmax(x, out *tensor.RawTensor) *LogSoftmaxOp {
	return &LogSoftmaxOp{x: x, out: out}
}

func (op *LogSoftmaxOp) Name() string { return "logsoftmax" }

func (op *LogSoftmaxOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }

func (op *LogSoftmaxOp) Output() *tensor.RawTensor { return op.out }

// Backward computes dx = g - softmax(x) * rowsum(g).
func (op *LogSoftmaxOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	softmax := backend.Exp(op.out)
	rowSums := backend.SumDim(outputGrad, 1, true)
	scaled := backend.Mul(softmax, rowSums)
	grad := backend.Sub(outputGrad, scaled)
	return []*tensor.RawTensor{grad}
}
