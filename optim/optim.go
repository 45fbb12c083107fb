// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim implements parameter optimizers for the Ember ML framework.
//
// An optimizer updates a layer's parameters in place using the gradients
// the layer recorded during its most recent backward pass. Optimizers stay
// decoupled from layer internals: they only see the Params/Grads pairing
// the Layer contract exposes, zipped positionally.
//
// Example usage:
//
//	optimizer, err := optim.NewGradientDescent(0.1)
//
//	for epoch := 0; epoch < epochs; epoch++ {
//	    predicted, _ := model.Forward(x)
//	    gradient, _ := lossFn.Gradient(predicted, y)
//	    model.Backward(gradient)
//	    optimizer.Step(model)
//	}
package optim

import (
	"fmt"

	"github.com/ember-ml/ember/nn"
	"github.com/ember-ml/ember/tensor"
)

// Optimizer updates a layer's parameters in place, using information known
// by either the layer (its gradients) or the optimizer (its own state).
//
// Optimizers must not retain the parameter tensors beyond the Step call;
// they may only keep state they own themselves.
type Optimizer interface {
	// Step applies one update to every parameter of the layer, reading the
	// layer's Params and Grads pairwise.
	Step(layer nn.Layer) error
}

// paramPairs validates and returns the layer's positional parameter and
// gradient sequences. A nil gradient means backward has not run since the
// layer was constructed.
func paramPairs(layer nn.Layer) ([]*tensor.Tensor, []*tensor.Tensor, error) {
	params := layer.Params()
	grads := layer.Grads()
	if len(params) != len(grads) {
		return nil, nil, fmt.Errorf("optim: layer returned %d params but %d grads: %w",
			len(params), len(grads), nn.ErrShapeMismatch)
	}
	for i, grad := range grads {
		if grad == nil {
			return nil, nil, fmt.Errorf("optim: parameter %d has no gradient: %w", i, nn.ErrNoForward)
		}
	}
	return params, grads, nil
}
