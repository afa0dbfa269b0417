// Package train provides the training loop: batching, the
// forward/backward/step cycle, and evaluation.
package train

import (
	"fmt"
	"math/rand"

	"github.com/fathom-ml/fathom/internal/tensor"
)

// Batch is one mini-batch of classification data: features [batch, dim] and
// integer class labels [batch].
type Batch[B tensor.Backend] struct {
	X *tensor.Tensor[float32, B]
	Y *tensor.Tensor[int32, B]
}

// DataSource yields mini-batches for one pass over a dataset. NextBatch
// returns ok=false when the pass is exhausted; Reset starts the next pass.
type DataSource[B tensor.Backend] interface {
	NextBatch() (*Batch[B], bool)
	Reset()
	NumBatches() int
}

// SliceDataset serves mini-batches from in-memory feature and label slices.
// Features are stored row-major, featureDim values per example. The final
// batch of a pass may be smaller than the configured batch size.
type SliceDataset[B tensor.Backend] struct {
	backend    B
	features   []float32
	labels     []int32
	featureDim int
	batchSize  int
	perm       []int
	pos        int
	rng        *rand.Rand
}

// NewSliceDataset creates a dataset over row-major features and one label
// per example.
func NewSliceDataset[B tensor.Backend](backend B, features []float32, labels []int32, featureDim, batchSize int) (*SliceDataset[B], error) {
	if featureDim <= 0 {
		return nil, fmt.Errorf("train: feature dimension must be positive, got %d", featureDim)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("train: batch size must be positive, got %d", batchSize)
	}
	if len(features)%featureDim != 0 {
		return nil, fmt.Errorf("train: %d feature values do not divide into rows of %d", len(features), featureDim)
	}
	n := len(features) / featureDim
	if n != len(labels) {
		return nil, fmt.Errorf("train: %d examples but %d labels", n, len(labels))
	}
	if n == 0 {
		return nil, fmt.Errorf("train: empty dataset")
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return &SliceDataset[B]{
		backend:    backend,
		features:   features,
		labels:     labels,
		featureDim: featureDim,
		batchSize:  batchSize,
		perm:       perm,
	}, nil
}

// Shuffle enables example shuffling, reseeding the order on every Reset.
func (d *SliceDataset[B]) Shuffle(seed int64) {
	d.rng = rand.New(rand.NewSource(seed))
	d.reshuffle()
}

func (d *SliceDataset[B]) reshuffle() {
	if d.rng == nil {
		return
	}
	d.rng.Shuffle(len(d.perm), func(i, j int) {
		d.perm[i], d.perm[j] = d.perm[j], d.perm[i]
	})
}

// NumExamples returns the number of examples.
func (d *SliceDataset[B]) NumExamples() int { return len(d.perm) }

// NumBatches returns the number of batches per pass.
func (d *SliceDataset[B]) NumBatches() int {
	return (len(d.perm) + d.batchSize - 1) / d.batchSize
}

// NextBatch gathers the next mini-batch into fresh tensors.
func (d *SliceDataset[B]) NextBatch() (*Batch[B], bool) {
	if d.pos >= len(d.perm) {
		return nil, false
	}
	end := d.pos + d.batchSize
	if end > len(d.perm) {
		end = len(d.perm)
	}
	rows := d.perm[d.pos:end]
	d.pos = end

	xData := make([]float32, 0, len(rows)*d.featureDim)
	yData := make([]int32, 0, len(rows))
	for _, r := range rows {
		xData = append(xData, d.features[r*d.featureDim:(r+1)*d.featureDim]...)
		yData = append(yData, d.labels[r])
	}

	x, err := tensor.FromSlice(xData, tensor.Shape{len(rows), d.featureDim}, d.backend)
	if err != nil {
		panic(fmt.Sprintf("train: batch allocation failed: %v", err))
	}
	y, err := tensor.FromSlice(yData, tensor.Shape{len(rows)}, d.backend)
	if err != nil {
		panic(fmt.Sprintf("train: batch allocation failed: %v", err))
	}
	return &Batch[B]{X: x, Y: y}, true
}

// Reset starts a new pass, reshuffling if shuffling is enabled.
func (d *SliceDataset[B]) Reset() {
	d.pos = 0
	d.reshuffle()
}
