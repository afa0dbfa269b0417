package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathom-ml/fathom/internal/tensor"
)

func raw64(t *testing.T, shape tensor.Shape, data []float64) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	copy(r.AsFloat64(), data)
	return r
}

func raw32(t *testing.T, shape tensor.Shape, data []float32) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(r.AsFloat32(), data)
	return r
}

func TestAddSameShape(t *testing.T) {
	be := New()
	a := raw64(t, tensor.Shape{2, 2}, []float64{1, 2, 3, 4})
	b := raw64(t, tensor.Shape{2, 2}, []float64{10, 20, 30, 40})

	// Pin a so the in-place fast path cannot consume it.
	defer a.Pin()()
	out := be.Add(a, b)

	assert.Equal(t, []float64{11, 22, 33, 44}, out.AsFloat64())
	assert.Equal(t, []float64{1, 2, 3, 4}, a.AsFloat64())
}

func TestAddInplaceReusesUniqueBuffer(t *testing.T) {
	be := New()
	a := raw64(t, tensor.Shape{3}, []float64{1, 2, 3})
	b := raw64(t, tensor.Shape{3}, []float64{1, 1, 1})

	out := be.Add(a, b)
	assert.Same(t, a, out)
	assert.Equal(t, []float64{2, 3, 4}, out.AsFloat64())
}

func TestAddBroadcastRowVector(t *testing.T) {
	be := New()
	a := raw64(t, tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	b := raw64(t, tensor.Shape{3}, []float64{10, 20, 30})

	out := be.Add(a, b)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, []float64{11, 22, 33, 14, 25, 36}, out.AsFloat64())
}

func TestSubMulDiv(t *testing.T) {
	be := New()
	a := raw64(t, tensor.Shape{4}, []float64{8, 6, 4, 2})
	b := raw64(t, tensor.Shape{4}, []float64{2, 2, 2, 2})

	defer a.Pin()()
	assert.Equal(t, []float64{6, 4, 2, 0}, be.Sub(a, b).AsFloat64())
	assert.Equal(t, []float64{16, 12, 8, 4}, be.Mul(a, b).AsFloat64())
	assert.Equal(t, []float64{4, 3, 2, 1}, be.Div(a, b).AsFloat64())
}

func TestBinaryShapeMismatchPanics(t *testing.T) {
	be := New()
	a := raw64(t, tensor.Shape{2, 3}, make([]float64, 6))
	b := raw64(t, tensor.Shape{4}, make([]float64, 4))

	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*tensor.ShapeError)
		assert.True(t, ok, "expected *tensor.ShapeError, got %T", r)
	}()
	be.Add(a, b)
}

func TestMatMulFloat64(t *testing.T) {
	be := New()
	a := raw64(t, tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	b := raw64(t, tensor.Shape{3, 2}, []float64{7, 8, 9, 10, 11, 12})

	out := be.MatMul(a, b)
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float64{58, 64, 139, 154}, out.AsFloat64())
}

func TestMatMulFloat32(t *testing.T) {
	be := New()
	a := raw32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	b := raw32(t, tensor.Shape{2, 2}, []float32{5, 6, 7, 8})

	out := be.MatMul(a, b)
	assert.Equal(t, []float32{19, 22, 43, 50}, out.AsFloat32())
}

func TestMatMulInnerDimMismatchPanics(t *testing.T) {
	be := New()
	a := raw64(t, tensor.Shape{2, 3}, make([]float64, 6))
	b := raw64(t, tensor.Shape{4, 2}, make([]float64, 8))

	assert.Panics(t, func() { be.MatMul(a, b) })
}

func TestUnaryMath(t *testing.T) {
	be := New()
	x := raw64(t, tensor.Shape{3}, []float64{1, 2, 3})

	assert.Equal(t, []float64{1, 4, 9}, be.Pow(x, 2).AsFloat64())
	assert.InDeltaSlice(t, []float64{2.718281828, 7.389056099, 20.085536923},
		be.Exp(x).AsFloat64(), 1e-8)
	assert.InDeltaSlice(t, []float64{0, 0.693147181, 1.098612289},
		be.Log(x).AsFloat64(), 1e-8)
	assert.Equal(t, []float64{2.5, 5, 7.5}, be.MulScalar(x, 2.5).AsFloat64())
}

func TestSumAndMean(t *testing.T) {
	be := New()
	x := raw64(t, tensor.Shape{2, 2}, []float64{1, 2, 3, 4})

	sum := be.Sum(x)
	assert.Equal(t, tensor.Shape{1}, sum.Shape())
	assert.Equal(t, 10.0, sum.AsFloat64()[0])

	mean := be.Mean(x)
	assert.Equal(t, tensor.Shape{1}, mean.Shape())
	assert.Equal(t, 2.5, mean.AsFloat64()[0])
}

func TestSumDim(t *testing.T) {
	be := New()
	x := raw64(t, tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})

	cols := be.SumDim(x, 0, false)
	assert.Equal(t, tensor.Shape{3}, cols.Shape())
	assert.Equal(t, []float64{5, 7, 9}, cols.AsFloat64())

	rows := be.SumDim(x, 1, true)
	assert.Equal(t, tensor.Shape{2, 1}, rows.Shape())
	assert.Equal(t, []float64{6, 15}, rows.AsFloat64())
}

func TestArgmax(t *testing.T) {
	be := New()
	x := raw64(t, tensor.Shape{2, 3}, []float64{0.1, 0.7, 0.2, 0.9, 0.05, 0.05})

	idx := be.Argmax(x, 1)
	assert.Equal(t, tensor.Shape{2}, idx.Shape())
	assert.Equal(t, []int32{1, 0}, idx.AsInt32())
}

func TestReshape(t *testing.T) {
	be := New()
	x := raw64(t, tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})

	out := be.Reshape(x, tensor.Shape{3, 2})
	assert.Equal(t, tensor.Shape{3, 2}, out.Shape())
	assert.Equal(t, x.AsFloat64(), out.AsFloat64())

	assert.Panics(t, func() { be.Reshape(x, tensor.Shape{4}) })
}

func TestTranspose2D(t *testing.T) {
	be := New()
	x := raw64(t, tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})

	out := be.Transpose(x)
	assert.Equal(t, tensor.Shape{3, 2}, out.Shape())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, out.AsFloat64())
}

func TestTranspose3DAxes(t *testing.T) {
	be := New()
	x := raw64(t, tensor.Shape{2, 1, 3}, []float64{1, 2, 3, 4, 5, 6})

	out := be.Transpose(x, 1, 0, 2)
	assert.Equal(t, tensor.Shape{1, 2, 3}, out.Shape())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, out.AsFloat64())
}
