package train

import (
	"io"
	"log"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathom-ml/fathom/internal/autodiff"
	"github.com/fathom-ml/fathom/internal/backend/cpu"
	"github.com/fathom-ml/fathom/internal/nn"
	"github.com/fathom-ml/fathom/internal/optim"
	"github.com/fathom-ml/fathom/internal/tensor"
)

type testBackend = *autodiff.Backend[*cpu.Backend]

func newTestBackend() testBackend {
	return autodiff.New(cpu.New())
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// twoBlobs generates a linearly separable two-class dataset: class 0 around
// (-1, -1), class 1 around (1, 1).
func twoBlobs(n int, seed int64) ([]float32, []int32) {
	rng := rand.New(rand.NewSource(seed))
	features := make([]float32, 0, n*2)
	labels := make([]int32, 0, n)
	for i := 0; i < n; i++ {
		cls := int32(i % 2)
		center := float32(-1)
		if cls == 1 {
			center = 1
		}
		features = append(features,
			center+float32(rng.NormFloat64())*0.3,
			center+float32(rng.NormFloat64())*0.3)
		labels = append(labels, cls)
	}
	return features, labels
}

func TestSliceDatasetBatching(t *testing.T) {
	be := newTestBackend()
	features := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	labels := []int32{0, 1, 0, 1, 0}

	ds, err := NewSliceDataset(be, features, labels, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, ds.NumExamples())
	assert.Equal(t, 3, ds.NumBatches())

	sizes := []int{}
	for {
		b, ok := ds.NextBatch()
		if !ok {
			break
		}
		sizes = append(sizes, b.X.Shape()[0])
		assert.Equal(t, b.X.Shape()[0], b.Y.Shape()[0])
	}
	assert.Equal(t, []int{2, 2, 1}, sizes)

	// A fresh pass yields batches again.
	ds.Reset()
	b, ok := ds.NextBatch()
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3, 4}, b.X.Data())
}

func TestSliceDatasetValidation(t *testing.T) {
	be := newTestBackend()
	_, err := NewSliceDataset(be, []float32{1, 2, 3}, []int32{0}, 2, 1)
	assert.Error(t, err, "features do not divide into rows")
	_, err = NewSliceDataset(be, []float32{1, 2}, []int32{0, 1}, 2, 1)
	assert.Error(t, err, "label count mismatch")
	_, err = NewSliceDataset(be, []float32{1, 2}, []int32{0}, 2, 0)
	assert.Error(t, err, "batch size")
	_, err = NewSliceDataset(be, nil, nil, 2, 1)
	assert.Error(t, err, "empty dataset")
}

func TestSliceDatasetShuffleKeepsPairs(t *testing.T) {
	be := newTestBackend()
	// Feature value i encodes its label i%2 so pairing survives any order.
	n := 64
	features := make([]float32, n)
	labels := make([]int32, n)
	for i := range labels {
		features[i] = float32(i)
		labels[i] = int32(i % 2)
	}

	ds, err := NewSliceDataset(be, features, labels, 1, 8)
	require.NoError(t, err)
	ds.Shuffle(42)

	seen := map[float32]bool{}
	for {
		b, ok := ds.NextBatch()
		if !ok {
			break
		}
		for i, x := range b.X.Data() {
			assert.Equal(t, int32(int(x)%2), b.Y.Data()[i])
			seen[x] = true
		}
	}
	assert.Len(t, seen, n, "every example appears exactly once per pass")
}

func TestLoopRejectsInvalidConfig(t *testing.T) {
	be := newTestBackend()
	model := nn.NewLinear(2, 2, be)
	opt, err := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1})
	require.NoError(t, err)

	_, err = NewLoop[*cpu.Backend](be, model, opt, Config{Epochs: 0})
	assert.Error(t, err)
}

func TestLoopTrainsTwoBlobClassifier(t *testing.T) {
	be := newTestBackend()
	model := nn.NewSequential[testBackend](
		nn.NewLinear(2, 8, be),
		nn.NewReLU[testBackend](),
		nn.NewLinear(8, 2, be),
	)
	opt, err := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1, Momentum: 0.9})
	require.NoError(t, err)

	features, labels := twoBlobs(200, 7)
	ds, err := NewSliceDataset(be, features, labels, 2, 32)
	require.NoError(t, err)
	ds.Shuffle(7)

	loop, err := NewLoop[*cpu.Backend](be, model, opt, Config{Epochs: 30, LogEvery: 0, Logger: quietLogger()})
	require.NoError(t, err)

	history, err := loop.Run(ds)
	require.NoError(t, err)
	require.Len(t, history, 30)
	assert.Less(t, history[len(history)-1], history[0], "loss should decrease")

	acc, err := loop.Evaluate(ds)
	require.NoError(t, err)
	assert.Greater(t, acc, 0.9, "separable blobs should be learned")
}

// mismatchedModule multiplies by a weight whose inner dimension cannot match
// the input, forcing a shape error inside the forward pass.
type mismatchedModule struct {
	w *tensor.Tensor[float32, testBackend]
}

func (m *mismatchedModule) Forward(input *tensor.Tensor[float32, testBackend], _ autodiff.Mode) *tensor.Tensor[float32, testBackend] {
	return input.MatMul(m.w)
}

func (m *mismatchedModule) Parameters() []*nn.Parameter[testBackend] { return nil }

func TestLoopSurfacesShapeErrors(t *testing.T) {
	be := newTestBackend()
	model := &mismatchedModule{w: tensor.Ones[float32](tensor.Shape{5, 2}, be)}
	param := nn.NewParameter("w", model.w)
	opt, err := optim.NewSGD([]*nn.Parameter[testBackend]{param}, optim.SGDConfig{LR: 0.1})
	require.NoError(t, err)

	features, labels := twoBlobs(8, 1)
	ds, dsErr := NewSliceDataset(be, features, labels, 2, 4)
	require.NoError(t, dsErr)

	loop, err := NewLoop[*cpu.Backend](be, model, opt, Config{Epochs: 1, Logger: quietLogger()})
	require.NoError(t, err)

	_, err = loop.Run(ds)
	require.Error(t, err)
	var shapeErr *tensor.ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}
