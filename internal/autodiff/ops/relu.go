package ops

import (
	"fmt"

	"github.com/fathom-ml/fathom/internal/tensor"
)

// ReLUOp records y = max(0, x). The input is captured; its sign is the mask
// the backward pass applies to the upstream gradient.
type ReLUOp struct {
	x, out *tensor.RawTensor
}

// NewReLU creates a ReLU record.
func NewReLU(x, out *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{x: x, out: out}
}

func (op *ReLUOp) Name() string { return "relu" }

func (op *ReLUOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.x} }

func (op *ReLUOp) Output() *tensor.RawTensor { return op.out }

func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := zerosLike(op.x)
	switch op.x.DType() {
	case tensor.Float32:
		x, g, dst := op.x.AsFloat32(), outputGrad.AsFloat32(), grad.AsFloat32()
		for i := range x {
			if x[i] > 0 {
				dst[i] = g[i]
			}
		}
	case tensor.Float64:
		x, g, dst := op.x.AsFloat64(), outputGrad.AsFloat64(), grad.AsFloat64()
		for i := range x {
			if x[i] > 0 {
				dst[i] = g[i]
			}
		}
	default:
		panic(fmt.Sprintf("relu backward: unsupported dtype %s", op.x.DType()))
	}
	return []*tensor.RawTensor{grad}
}
