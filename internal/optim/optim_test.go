package optim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathom-ml/fathom/internal/autodiff"
	"github.com/fathom-ml/fathom/internal/backend/cpu"
	"github.com/fathom-ml/fathom/internal/nn"
	"github.com/fathom-ml/fathom/internal/tensor"
)

type testBackend = *autodiff.Backend[*cpu.Backend]

func newTestBackend() testBackend {
	return autodiff.New(cpu.New())
}

func newParam(t *testing.T, be testBackend, data []float32) *nn.Parameter[testBackend] {
	t.Helper()
	tn, err := tensor.FromSlice(data, tensor.Shape{len(data)}, be)
	require.NoError(t, err)
	return nn.NewParameter("p", tn)
}

func gradsFor(t *testing.T, param *nn.Parameter[testBackend], data []float32) map[*tensor.RawTensor]*tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(tensor.Shape{len(data)}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(raw.AsFloat32(), data)
	return map[*tensor.RawTensor]*tensor.RawTensor{param.Tensor().Raw(): raw}
}

func TestSGDRejectsInvalidConfig(t *testing.T) {
	_, err := NewSGD[testBackend](nil, SGDConfig{LR: 0})
	assert.Error(t, err)
	_, err = NewSGD[testBackend](nil, SGDConfig{LR: -0.1})
	assert.Error(t, err)
	_, err = NewSGD[testBackend](nil, SGDConfig{LR: 0.1, Momentum: 1})
	assert.Error(t, err)
}

func TestSGDStepExactUpdate(t *testing.T) {
	be := newTestBackend()
	param := newParam(t, be, []float32{1, 2, 3})

	opt, err := NewSGD([]*nn.Parameter[testBackend]{param}, SGDConfig{LR: 0.5})
	require.NoError(t, err)

	opt.Step(gradsFor(t, param, []float32{2, 2, 2}))
	assert.Equal(t, []float32{0, 1, 2}, param.Tensor().Data())
}

func TestSGDMomentumAccumulatesVelocity(t *testing.T) {
	be := newTestBackend()
	param := newParam(t, be, []float32{0})

	opt, err := NewSGD([]*nn.Parameter[testBackend]{param}, SGDConfig{LR: 1, Momentum: 0.5})
	require.NoError(t, err)

	// First step: v = 1, p = -1. Second: v = 0.5 + 1 = 1.5, p = -2.5.
	opt.Step(gradsFor(t, param, []float32{1}))
	assert.InDelta(t, -1, float64(param.Tensor().Data()[0]), 1e-6)
	opt.Step(gradsFor(t, param, []float32{1}))
	assert.InDelta(t, -2.5, float64(param.Tensor().Data()[0]), 1e-6)
}

func TestSGDSkipsParameterWithoutGradient(t *testing.T) {
	be := newTestBackend()
	updated := newParam(t, be, []float32{1})
	untouched := newParam(t, be, []float32{5})

	opt, err := NewSGD([]*nn.Parameter[testBackend]{updated, untouched}, SGDConfig{LR: 1})
	require.NoError(t, err)

	opt.Step(gradsFor(t, updated, []float32{1}))
	assert.Equal(t, []float32{0}, updated.Tensor().Data())
	assert.Equal(t, []float32{5}, untouched.Tensor().Data(), "no gradient, no update")
}

func TestSGDZeroGradClearsParameters(t *testing.T) {
	be := newTestBackend()
	param := newParam(t, be, []float32{1})
	param.SetGrad(tensor.Ones[float32](tensor.Shape{1}, be))

	opt, err := NewSGD([]*nn.Parameter[testBackend]{param}, SGDConfig{LR: 1})
	require.NoError(t, err)

	opt.ZeroGrad()
	assert.Nil(t, param.Grad())
}

func TestAdamRejectsInvalidLR(t *testing.T) {
	_, err := NewAdam[testBackend](nil, AdamConfig{LR: 0})
	assert.Error(t, err)
}

func TestAdamFirstStepMovesByLR(t *testing.T) {
	be := newTestBackend()
	param := newParam(t, be, []float32{1})

	opt, err := NewAdam([]*nn.Parameter[testBackend]{param}, AdamConfig{LR: 0.1})
	require.NoError(t, err)

	// With bias correction, the first update is ~lr * sign(grad).
	opt.Step(gradsFor(t, param, []float32{3}))
	assert.InDelta(t, 0.9, float64(param.Tensor().Data()[0]), 1e-4)
}

func TestAdamConvergesOnQuadratic(t *testing.T) {
	be := newTestBackend()
	param := newParam(t, be, []float32{5})

	opt, err := NewAdam([]*nn.Parameter[testBackend]{param}, AdamConfig{LR: 0.3})
	require.NoError(t, err)

	// Minimize f(p) = p^2 with analytic gradient 2p.
	for i := 0; i < 200; i++ {
		p := param.Tensor().Data()[0]
		opt.Step(gradsFor(t, param, []float32{2 * p}))
	}
	assert.InDelta(t, 0, float64(param.Tensor().Data()[0]), 0.05)
}
