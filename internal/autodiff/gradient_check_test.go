package autodiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathom-ml/fathom/internal/backend/cpu"
	"github.com/fathom-ml/fathom/internal/tensor"
)

// Gradient checking compares analytic gradients from the backward pass
// against central finite differences computed on the plain CPU backend.

const (
	fdEpsilon   = 1e-6
	fdTolerance = 1e-5
)

// numericalGradient perturbs each element of params and evaluates f twice.
func numericalGradient(f func() float64, params []float64) []float64 {
	grad := make([]float64, len(params))
	for i := range params {
		orig := params[i]
		params[i] = orig + fdEpsilon
		plus := f()
		params[i] = orig - fdEpsilon
		minus := f()
		params[i] = orig
		grad[i] = (plus - minus) / (2 * fdEpsilon)
	}
	return grad
}

func TestGradientCheckSigmoidMatMul(t *testing.T) {
	xData := []float64{0.5, -1.2, 0.3, 1.1, 0.7, -0.4}
	wData := []float64{0.2, -0.5, 0.8, 0.1, -0.3, 0.6}

	plain := cpu.New()
	x := raw64(t, tensor.Shape{2, 3}, xData)
	w := raw64(t, tensor.Shape{3, 2}, wData)

	// f(w) = mean(sigmoid(x @ w)), evaluated without recording.
	f := func() float64 {
		return plain.Mean(plain.Sigmoid(plain.MatMul(x, w))).AsFloat64()[0]
	}
	numeric := numericalGradient(f, w.AsFloat64())

	be := newTestBackend()
	be.Watch(w)
	loss := be.Mean(be.Sigmoid(be.MatMul(x, w)))
	grads, err := be.Backward(loss)
	require.NoError(t, err)

	analytic := grads[w]
	require.NotNil(t, analytic)
	assert.InDeltaSlice(t, numeric, analytic.AsFloat64(), fdTolerance)
}

func TestGradientCheckCrossEntropy(t *testing.T) {
	logitData := []float64{1.5, -0.5, 0.2, 0.1, 2.2, -1.0}
	labelData := []int32{2, 1}

	plain := cpu.New()
	logits := raw64(t, tensor.Shape{2, 3}, logitData)
	labels := rawLabels(t, labelData)

	f := func() float64 {
		return plain.CrossEntropy(logits, labels).AsFloat64()[0]
	}
	numeric := numericalGradient(f, logits.AsFloat64())

	be := newTestBackend()
	be.Watch(logits)
	loss := be.CrossEntropy(logits, labels)
	grads, err := be.Backward(loss)
	require.NoError(t, err)

	analytic := grads[logits]
	require.NotNil(t, analytic)
	assert.InDeltaSlice(t, numeric, analytic.AsFloat64(), fdTolerance)
}

func TestGradientCheckReLUChain(t *testing.T) {
	xData := []float64{-0.8, 0.4, 1.2, -0.1, 0.9, -1.5}

	plain := cpu.New()
	x := raw64(t, tensor.Shape{6}, xData)

	f := func() float64 {
		return plain.Mean(plain.ReLU(plain.Pow(x, 2))).AsFloat64()[0]
	}
	numeric := numericalGradient(f, x.AsFloat64())

	be := newTestBackend()
	be.Watch(x)
	loss := be.Mean(be.ReLU(be.Pow(x, 2)))
	grads, err := be.Backward(loss)
	require.NoError(t, err)

	analytic := grads[x]
	require.NotNil(t, analytic)
	assert.InDeltaSlice(t, numeric, analytic.AsFloat64(), fdTolerance)
}

func raw64(t *testing.T, shape tensor.Shape, data []float64) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	copy(r.AsFloat64(), data)
	return r
}

func rawLabels(t *testing.T, labels []int32) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(tensor.Shape{len(labels)}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	copy(r.AsInt32(), labels)
	return r
}
