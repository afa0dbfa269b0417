package train

import (
	"fmt"
	"log"

	"github.com/fathom-ml/fathom/internal/autodiff"
	"github.com/fathom-ml/fathom/internal/nn"
	"github.com/fathom-ml/fathom/internal/optim"
	"github.com/fathom-ml/fathom/internal/tensor"
)

// Config holds training-loop settings.
type Config struct {
	Epochs   int         // number of passes over the dataset, must be > 0
	LogEvery int         // log mean loss every N epochs; 0 disables logging
	Logger   *log.Logger // destination for progress logs; nil means log.Default()
}

func (c Config) validate() error {
	if c.Epochs <= 0 {
		return fmt.Errorf("train: epochs must be positive, got %d", c.Epochs)
	}
	if c.LogEvery < 0 {
		return fmt.Errorf("train: LogEvery must be non-negative, got %d", c.LogEvery)
	}
	return nil
}

// Loop drives training of a classification model: for every batch it resets
// the graph, clears gradients, runs the forward pass in Training mode,
// computes the cross-entropy loss, backpropagates and applies an optimizer
// step.
type Loop[B tensor.Backend] struct {
	backend   *autodiff.Backend[B]
	model     nn.Module[*autodiff.Backend[B]]
	loss      *nn.CrossEntropyLoss[*autodiff.Backend[B]]
	optimizer optim.Optimizer
	cfg       Config
	logger    *log.Logger
}

// NewLoop creates a training loop.
func NewLoop[B tensor.Backend](
	backend *autodiff.Backend[B],
	model nn.Module[*autodiff.Backend[B]],
	optimizer optim.Optimizer,
	cfg Config,
) (*Loop[B], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Loop[B]{
		backend:   backend,
		model:     model,
		loss:      nn.NewCrossEntropyLoss[*autodiff.Backend[B]](),
		optimizer: optimizer,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Run trains for the configured number of epochs and returns the mean loss
// per epoch. A shape error in any batch aborts the run with an error
// identifying the batch; other panics propagate.
func (l *Loop[B]) Run(data DataSource[*autodiff.Backend[B]]) ([]float64, error) {
	history := make([]float64, 0, l.cfg.Epochs)

	for epoch := 1; epoch <= l.cfg.Epochs; epoch++ {
		data.Reset()
		var epochLoss float64
		batches := 0

		for {
			batch, ok := data.NextBatch()
			if !ok {
				break
			}
			loss, err := l.trainBatch(batch)
			if err != nil {
				return history, fmt.Errorf("epoch %d, batch %d: %w", epoch, batches, err)
			}
			epochLoss += loss
			batches++
		}

		if batches == 0 {
			return history, fmt.Errorf("train: epoch %d yielded no batches", epoch)
		}
		mean := epochLoss / float64(batches)
		history = append(history, mean)

		if l.cfg.LogEvery > 0 && epoch%l.cfg.LogEvery == 0 {
			l.logger.Printf("epoch %d/%d: loss=%.6f lr=%g", epoch, l.cfg.Epochs, mean, l.optimizer.GetLR())
		}
	}
	return history, nil
}

// trainBatch runs one forward/backward/step cycle and returns the batch
// loss. Shape panics from the kernels are converted to errors; the graph is
// left reset either way.
func (l *Loop[B]) trainBatch(batch *Batch[*autodiff.Backend[B]]) (loss float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			shapeErr, ok := r.(*tensor.ShapeError)
			if !ok {
				panic(r)
			}
			err = shapeErr
		}
	}()

	l.optimizer.ZeroGrad()
	l.backend.Graph().Reset()
	l.backend.SetMode(autodiff.Training)

	logits := l.model.Forward(batch.X, autodiff.Training)
	lossTensor := l.loss.Forward(logits, batch.Y)

	grads, err := l.backend.Backward(lossTensor.Raw())
	if err != nil {
		return 0, err
	}
	l.optimizer.Step(grads)

	return float64(lossTensor.Item()), nil
}

// Evaluate runs the model over a dataset in Inference mode and returns the
// fraction of examples whose argmax prediction matches the label.
func (l *Loop[B]) Evaluate(data DataSource[*autodiff.Backend[B]]) (float64, error) {
	l.backend.SetMode(autodiff.Inference)
	defer l.backend.SetMode(autodiff.Training)

	data.Reset()
	correct, total := 0, 0
	for {
		batch, ok := data.NextBatch()
		if !ok {
			break
		}
		logits := l.model.Forward(batch.X, autodiff.Inference)
		pred := l.backend.Argmax(logits.Raw(), 1).AsInt32()
		labels := batch.Y.Data()
		for i := range labels {
			if pred[i] == labels[i] {
				correct++
			}
			total++
		}
	}
	if total == 0 {
		return 0, fmt.Errorf("train: evaluation dataset is empty")
	}
	return float64(correct) / float64(total), nil
}
