package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathom-ml/fathom/internal/autodiff"
	"github.com/fathom-ml/fathom/internal/backend/cpu"
	"github.com/fathom-ml/fathom/internal/tensor"
)

type testBackend = *autodiff.Backend[*cpu.Backend]

func newTestBackend() testBackend {
	return autodiff.New(cpu.New())
}

func TestLinearForwardKnownWeights(t *testing.T) {
	be := newTestBackend()
	layer := NewLinear(2, 3, be)

	// W = [[1,0],[0,1],[1,1]], b = [0.5, -0.5, 0]
	copy(layer.Weight().Tensor().Data(), []float32{1, 0, 0, 1, 1, 1})
	copy(layer.Bias().Tensor().Data(), []float32{0.5, -0.5, 0})

	x, err := tensor.FromSlice([]float32{2, 3}, tensor.Shape{1, 2}, be)
	require.NoError(t, err)

	out := layer.Forward(x, autodiff.Inference)
	assert.Equal(t, tensor.Shape{1, 3}, out.Shape())
	assert.Equal(t, []float32{2.5, 2.5, 5}, out.Data())
}

func TestLinearRejectsWrongFeatureCount(t *testing.T) {
	be := newTestBackend()
	layer := NewLinear(4, 2, be)

	x, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{1, 3}, be)
	require.NoError(t, err)

	assert.Panics(t, func() { layer.Forward(x, autodiff.Inference) })
}

func TestLinearGradientsFlowToParameters(t *testing.T) {
	be := newTestBackend()
	layer := NewLinear(2, 1, be)

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, be)
	require.NoError(t, err)

	loss := layer.Forward(x, autodiff.Training).Mean()
	grads, err := be.Backward(loss.Raw())
	require.NoError(t, err)

	assert.Contains(t, grads, layer.Weight().Tensor().Raw())
	assert.Contains(t, grads, layer.Bias().Tensor().Raw())

	// d(mean(xW^T + b))/dW = mean of x over the batch.
	wGrad := grads[layer.Weight().Tensor().Raw()]
	assert.InDeltaSlice(t, []float32{2, 3}, wGrad.AsFloat32(), 1e-6)
	// d/db = 1.
	bGrad := grads[layer.Bias().Tensor().Raw()]
	assert.InDeltaSlice(t, []float32{1}, bGrad.AsFloat32(), 1e-6)
}

func TestSequentialCollectsParameters(t *testing.T) {
	be := newTestBackend()
	model := NewSequential[testBackend](
		NewLinear(4, 8, be),
		NewReLU[testBackend](),
		NewLinear(8, 2, be),
	)

	params := model.Parameters()
	assert.Len(t, params, 4) // two weights, two biases
}

func TestSequentialForwardChains(t *testing.T) {
	be := newTestBackend()
	model := NewSequential[testBackend](
		NewLinear(2, 2, be),
		NewReLU[testBackend](),
	)

	x, err := tensor.FromSlice([]float32{1, -1}, tensor.Shape{1, 2}, be)
	require.NoError(t, err)

	out := model.Forward(x, autodiff.Inference)
	assert.Equal(t, tensor.Shape{1, 2}, out.Shape())
	for _, v := range out.Data() {
		assert.GreaterOrEqual(t, v, float32(0), "ReLU output must be non-negative")
	}
}

func TestReLUForward(t *testing.T) {
	be := newTestBackend()
	x, err := tensor.FromSlice([]float32{-2, 0, 3}, tensor.Shape{3}, be)
	require.NoError(t, err)

	out := NewReLU[testBackend]().Forward(x, autodiff.Inference)
	assert.Equal(t, []float32{0, 0, 3}, out.Data())
}

func TestSigmoidForward(t *testing.T) {
	be := newTestBackend()
	x, err := tensor.FromSlice([]float32{0}, tensor.Shape{1}, be)
	require.NoError(t, err)

	out := NewSigmoid[testBackend]().Forward(x, autodiff.Inference)
	assert.InDelta(t, 0.5, float64(out.Data()[0]), 1e-6)
}

func TestCrossEntropyMatchesLogSoftmaxNLL(t *testing.T) {
	be := newTestBackend()
	be.SetMode(autodiff.Inference)

	logits, err := tensor.FromSlice([]float32{2, 1, 0.5, 0.1, 3, 1}, tensor.Shape{2, 3}, be)
	require.NoError(t, err)
	labels, err := tensor.FromSlice([]int32{0, 1}, tensor.Shape{2}, be)
	require.NoError(t, err)

	fused := NewCrossEntropyLoss[testBackend]().Forward(logits, labels)
	logProbs := NewLogSoftmax[testBackend]().Forward(logits, autodiff.Inference)
	composed := NewNLLLoss[testBackend]().Forward(logProbs, labels)

	assert.InDelta(t, float64(composed.Item()), float64(fused.Item()), 1e-6)
}

func TestMSELoss(t *testing.T) {
	be := newTestBackend()
	be.SetMode(autodiff.Inference)

	pred, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, be)
	require.NoError(t, err)
	target, err := tensor.FromSlice([]float32{2, 2, 5}, tensor.Shape{3}, be)
	require.NoError(t, err)

	loss := NewMSELoss[testBackend]().Forward(pred, target)
	// ((1)^2 + 0 + (2)^2) / 3
	assert.InDelta(t, 5.0/3.0, float64(loss.Item()), 1e-6)
}

func TestXavierBounds(t *testing.T) {
	be := newTestBackend()
	w := Xavier(100, 50, tensor.Shape{50, 100}, be)

	limit := float32(math.Sqrt(6.0 / 150.0))
	for _, v := range w.Data() {
		assert.LessOrEqual(t, v, limit)
		assert.GreaterOrEqual(t, v, -limit)
	}
}

func TestLinearStateDictRoundTrip(t *testing.T) {
	be := newTestBackend()
	src := NewLinear(3, 2, be)
	dst := NewLinear(3, 2, be)

	require.NoError(t, dst.LoadStateDict(src.StateDict()))
	assert.Equal(t, src.Weight().Tensor().Data(), dst.Weight().Tensor().Data())
	assert.Equal(t, src.Bias().Tensor().Data(), dst.Bias().Tensor().Data())

	other := NewLinear(4, 2, be)
	assert.Error(t, dst.LoadStateDict(other.StateDict()))
}
