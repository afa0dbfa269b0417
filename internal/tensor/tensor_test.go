package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend satisfies Backend for tests that never run kernels.
type fakeBackend struct {
	Backend
	watched []*RawTensor
}

func (f *fakeBackend) Device() Device     { return CPU }
func (f *fakeBackend) Watch(r *RawTensor) { f.watched = append(f.watched, r) }

func TestNewRawValidatesShape(t *testing.T) {
	_, err := NewRaw(Shape{2, 0}, Float32, CPU)
	assert.Error(t, err)

	r, err := NewRaw(Shape{2, 3}, Float64, CPU)
	require.NoError(t, err)
	assert.Equal(t, 6, r.NumElements())
	assert.Len(t, r.AsFloat64(), 6)
}

func TestRawTensorDTypeGuards(t *testing.T) {
	r, err := NewRaw(Shape{2}, Float32, CPU)
	require.NoError(t, err)
	assert.Panics(t, func() { r.AsFloat64() })
	assert.NotPanics(t, func() { r.AsFloat32() })
}

func TestCloneSharesBufferCopyOnWrite(t *testing.T) {
	r, err := NewRaw(Shape{3}, Float32, CPU)
	require.NoError(t, err)
	assert.True(t, r.IsUnique())

	view := r.Clone()
	assert.False(t, r.IsUnique(), "clone shares the buffer")
	view.AsFloat32()[0] = 7
	assert.Equal(t, float32(7), r.AsFloat32()[0], "views alias the same memory")
}

func TestPinBlocksInplaceReuse(t *testing.T) {
	r, err := NewRaw(Shape{3}, Float32, CPU)
	require.NoError(t, err)

	release := r.Pin()
	assert.False(t, r.IsUnique())
	release()
	assert.True(t, r.IsUnique())
}

func TestFromSliceAndAccessors(t *testing.T) {
	be := &fakeBackend{}
	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, be)
	require.NoError(t, err)

	assert.Equal(t, Float32, x.DType())
	assert.Equal(t, float32(6), x.At(1, 2))
	x.Set(9, 0, 1)
	assert.Equal(t, float32(9), x.At(0, 1))
	assert.Panics(t, func() { x.At(2, 0) })
}

func TestFromSliceRejectsLengthMismatch(t *testing.T) {
	be := &fakeBackend{}
	_, err := FromSlice([]float32{1, 2, 3}, Shape{2, 2}, be)
	assert.Error(t, err)
}

func TestItemRequiresScalar(t *testing.T) {
	be := &fakeBackend{}
	s := Scalar[float64](2.5, be)
	assert.Equal(t, 2.5, s.Item())

	v, err := FromSlice([]float64{1, 2}, Shape{2}, be)
	require.NoError(t, err)
	assert.Panics(t, func() { v.Item() })
}

func TestRequireGradRegistersWithRecorder(t *testing.T) {
	be := &fakeBackend{}
	x := Zeros[float32](Shape{2}, be)

	x.RequireGrad()
	assert.True(t, x.RequiresGrad())
	require.Len(t, be.watched, 1)
	assert.Same(t, x.Raw(), be.watched[0])

	d := x.Detach()
	assert.False(t, d.RequiresGrad())
	assert.Same(t, x.Raw(), d.Raw())
}

func TestCreationHelpers(t *testing.T) {
	be := &fakeBackend{}

	ones := Ones[float32](Shape{2, 2}, be)
	assert.Equal(t, []float32{1, 1, 1, 1}, ones.Data())

	full := Full[int32](Shape{3}, 7, be)
	assert.Equal(t, []int32{7, 7, 7}, full.Data())

	randn := Randn[float64](Shape{100}, be)
	var sum float64
	for _, v := range randn.Data() {
		sum += v
	}
	assert.InDelta(t, 0, sum/100, 0.5, "sample mean of N(0,1) draws")
}
