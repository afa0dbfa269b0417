// Copyright 2026 Fathom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train provides the public API for the training loop.
//
//	loop, err := train.NewLoop(backend, model, opt, train.Config{Epochs: 20})
//	history, err := loop.Run(dataset)
//	acc, err := loop.Evaluate(dataset)
package train

import (
	"github.com/fathom-ml/fathom/internal/autodiff"
	"github.com/fathom-ml/fathom/internal/nn"
	"github.com/fathom-ml/fathom/internal/optim"
	"github.com/fathom-ml/fathom/internal/tensor"
	"github.com/fathom-ml/fathom/internal/train"
)

// Batch is one mini-batch of classification data.
type Batch[B tensor.Backend] = train.Batch[B]

// DataSource yields mini-batches for one pass over a dataset.
type DataSource[B tensor.Backend] = train.DataSource[B]

// SliceDataset serves mini-batches from in-memory slices.
type SliceDataset[B tensor.Backend] = train.SliceDataset[B]

// NewSliceDataset creates a dataset over row-major features and one label
// per example.
func NewSliceDataset[B tensor.Backend](backend B, features []float32, labels []int32, featureDim, batchSize int) (*SliceDataset[B], error) {
	return train.NewSliceDataset(backend, features, labels, featureDim, batchSize)
}

// Config holds training-loop settings.
type Config = train.Config

// Loop drives the forward/backward/step cycle.
type Loop[B tensor.Backend] = train.Loop[B]

// NewLoop creates a training loop for a model running on a recording
// backend.
func NewLoop[B tensor.Backend](
	backend *autodiff.Backend[B],
	model nn.Module[*autodiff.Backend[B]],
	optimizer optim.Optimizer,
	cfg Config,
) (*Loop[B], error) {
	return train.NewLoop(backend, model, optimizer, cfg)
}
