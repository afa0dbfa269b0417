package ops

import (
	"fmt"

	"github.com/fathom-ml/fathom/internal/tensor"
)

// CrossEntropyOp records the fused log-softmax + NLL loss over 2D logits.
// The log-probabilities computed during the forward pass are captured so the
// backward rule (softmax - onehot) / N does not recompute the softmax.
type CrossEntropyOp struct {
	logits, labels, out *tensor.RawTensor
	logProbs            *tensor.RawTensor
}

// NewCrossEntropy creates a cross-entropy record.
func NewCrossEntropy(logits, labels, out, logProbs *tensor.RawTensor) *CrossEntropyOp {
	return &CrossEntropyOp{logits: logits, labels: labels, out: out, logProbs: logProbs}
}

func (op *CrossEntropyOp) Name() string { return "crossentropy" }

func (op *CrossEntropyOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.logits, op.labels}
}

func (op *CrossEntropyOp) Output() *tensor.RawTensor { return op.out }

// Backward computes d(logits) = g * (softmax(logits) - onehot(labels)) / N.
func (op *CrossEntropyOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	shape := op.logits.Shape()
	rows, cols := shape[0], shape[1]
	scale := scalarValue(outputGrad) / float64(rows)

	grad := backend.Exp(op.logProbs)
	switch grad.DType() {
	case tensor.Float32:
		dst := grad.AsFloat32()
		s := float32(scale)
		for i := 0; i < rows; i++ {
			dst[i*cols+labelAt(op.labels, i)] -= 1
			for j := 0; j < cols; j++ {
				dst[i*cols+j] *= s
			}
		}
	case tensor.Float64:
		dst := grad.AsFloat64()
		for i := 0; i < rows; i++ {
			dst[i*cols+labelAt(op.labels, i)] -= 1
			for j := 0; j < cols; j++ {
				dst[i*cols+j] *= scale
			}
		}
	default:
		panic(fmt.Sprintf("crossentropy backward: unsupported dtype %s", grad.DType()))
	}
	return []*tensor.RawTensor{grad, nil}
}
