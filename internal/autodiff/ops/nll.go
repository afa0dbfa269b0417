package ops

import (
	"fmt"

	"github.com/fathom-ml/fathom/internal/tensor"
)

// NLLLossOp records the mean negative log-likelihood of 2D log-probabilities
// against integer class labels. Labels are an input but carry no gradient.
type NLLLossOp struct {
	logProbs, labels, out *tensor.RawTensor
}

// NewNLLLoss creates a negative log-likelihood record.
func NewNLLLoss(logProbs, labels, out *tensor.RawTensor) *NLLLossOp {
	return &NLLLossOp{logProbs: logProbs, labels: labels, out: out}
}

func (op *NLLLossOp) Name() string { return "nllloss" }

func (op *NLLLossOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.logProbs, op.labels}
}

func (op *NLLLossOp) Output() *tensor.RawTensor { return op.out }

// Backward scatters -g/N into the label column of each row. The labels slot
// is nil: class indices are not differentiable.
func (op *NLLLossOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	shape := op.logProbs.Shape()
	rows, cols := shape[0], shape[1]
	scale := -scalarValue(outputGrad) / float64(rows)

	grad := zerosLike(op.logProbs)
	switch op.logProbs.DType() {
	case tensor.Float32:
		dst := grad.AsFloat32()
		for i := 0; i < rows; i++ {
			dst[i*cols+labelAt(op.labels, i)] = float32(scale)
		}
	case tensor.Float64:
		dst := grad.AsFloat64()
		for i := 0; i < rows; i++ {
			dst[i*cols+labelAt(op.labels, i)] = scale
		}
	default:
		panic(fmt.Sprintf("nllloss backward: unsupported dtype %s", op.logProbs.DType()))
	}
	return []*tensor.RawTensor{grad, nil}
}
