// Copyright 2026 Fathom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the public API for optimizers.
//
//	opt, err := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1})
//	grads, err := backend.Backward(loss.Raw())
//	opt.Step(grads)
//	opt.ZeroGrad()
package optim

import (
	"github.com/fathom-ml/fathom/internal/nn"
	"github.com/fathom-ml/fathom/internal/optim"
	"github.com/fathom-ml/fathom/internal/tensor"
)

// Optimizer is the interface shared by all optimization algorithms.
type Optimizer = optim.Optimizer

// SGD implements stochastic gradient descent with optional momentum.
type SGD[B tensor.Backend] = optim.SGD[B]

// SGDConfig holds SGD hyperparameters.
type SGDConfig = optim.SGDConfig

// NewSGD creates an SGD optimizer over the given parameters.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig) (*SGD[B], error) {
	return optim.NewSGD(params, config)
}

// Adam implements the Adam optimizer.
type Adam[B tensor.Backend] = optim.Adam[B]

// AdamConfig holds Adam hyperparameters.
type AdamConfig = optim.AdamConfig

// NewAdam creates an Adam optimizer over the given parameters.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], config AdamConfig) (*Adam[B], error) {
	return optim.NewAdam(params, config)
}
