package cpu

import (
	"fmt"
	"math"

	"github.com/fathom-ml/fathom/internal/parallel"
	"github.com/fathom-ml/fathom/internal/tensor"
)

// ReLU computes max(0, x) element-wise.
func (c *Backend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary("relu", x, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Sigmoid computes 1 / (1 + exp(-x)) element-wise.
func (c *Backend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unary("sigmoid", x, func(v float64) float64 {
		return 1 / (1 + math.Exp(-v))
	})
}

// LogSoftmax computes log(softmax(x)) along the last dimension of a 2D
// tensor. The row maximum is subtracted before exponentiation so large logits
// do not overflow.
func (c *Backend) LogSoftmax(x *tensor.RawTensor) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 2 {
		panic(&tensor.ShapeError{Op: "logsoftmax", Got: shape.Clone(),
			Msg: "only 2D tensors supported"})
	}
	rows, cols := shape[0], shape[1]
	result := mustRaw(shape, x.DType(), c.device)

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		parallel.ForRange(rows, c.par, func(start, end int) {
			for r := start; r < end; r++ {
				logSoftmaxRow32(dst[r*cols:(r+1)*cols], src[r*cols:(r+1)*cols])
			}
		})
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		parallel.ForRange(rows, c.par, func(start, end int) {
			for r := start; r < end; r++ {
				logSoftmaxRow64(dst[r*cols:(r+1)*cols], src[r*cols:(r+1)*cols])
			}
		})
	default:
		panic(fmt.Sprintf("logsoftmax: unsupported dtype %s", x.DType()))
	}
	return result
}

// Softmax computes softmax(x) along the last dimension of a 2D tensor.
func (c *Backend) Softmax(x *tensor.RawTensor) *tensor.RawTensor {
	return c.Exp(c.LogSoftmax(x))
}

// NLLLoss computes the mean negative log-likelihood of 2D log-probabilities
// given Int32 or Int64 class labels: -mean(logProbs[i, labels[i]]).
func (c *Backend) NLLLoss(logProbs, labels *tensor.RawTensor) *tensor.RawTensor {
	shape := logProbs.Shape()
	if len(shape) != 2 {
		panic(&tensor.ShapeError{Op: "nllloss", Got: shape.Clone(),
			Msg: "log-probabilities must be 2D"})
	}
	rows, cols := shape[0], shape[1]
	if labels.NumElements() != rows {
		panic(&tensor.ShapeError{Op: "nllloss", Want: tensor.Shape{rows}, Got: labels.Shape().Clone(),
			Msg: "one label per row required"})
	}

	result := mustRaw(tensor.Shape{1}, logProbs.DType(), c.device)
	var total float64
	for i := 0; i < rows; i++ {
		cls := labelAt(labels, i)
		if cls < 0 || cls >= cols {
			panic(fmt.Sprintf("nllloss: label %d out of range [0, %d)", cls, cols))
		}
		switch logProbs.DType() {
		case tensor.Float32:
			total += float64(logProbs.AsFloat32()[i*cols+cls])
		case tensor.Float64:
			total += logProbs.AsFloat64()[i*cols+cls]
		default:
			panic(fmt.Sprintf("nllloss: unsupported dtype %s", logProbs.DType()))
		}
	}
	loss := -total / float64(rows)

	switch logProbs.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = float32(loss)
	case tensor.Float64:
		result.AsFloat64()[0] = loss
	}
	return result
}

// CrossEntropy computes the mean cross-entropy of 2D logits against class
// labels. It is the fused equivalent of LogSoftmax followed by NLLLoss.
func (c *Backend) CrossEntropy(logits, labels *tensor.RawTensor) *tensor.RawTensor {
	return c.NLLLoss(c.LogSoftmax(logits), labels)
}

// labelAt reads the i-th class index from an integer label tensor.
func labelAt(labels *tensor.RawTensor, i int) int {
	switch labels.DType() {
	case tensor.Int32:
		return int(labels.AsInt32()[i])
	case tensor.Int64:
		return int(labels.AsInt64()[i])
	default:
		panic(fmt.Sprintf("labels must be int32 or int64, got %s", labels.DType()))
	}
}

func logSoftmaxRow64(dst, src []float64) {
	max := src[0]
	for _, v := range src[1:] {
		if v > max {
			max = v
		}
	}
	var sum float64
	for i, v := range src {
		dst[i] = v - max
		sum += math.Exp(dst[i])
	}
	logSum := math.Log(sum)
	for i := range dst {
		dst[i] -= logSum
	}
}

func logSoftmaxRow32(dst, src []float32) {
	max := src[0]
	for _, v := range src[1:] {
		if v > max {
			max = v
		}
	}
	var sum float64
	for i, v := range src {
		dst[i] = v - max
		sum += math.Exp(float64(dst[i]))
	}
	logSum := float32(math.Log(sum))
	for i := range dst {
		dst[i] -= logSum
	}
}
