// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"fmt"

	"github.com/ember-ml/ember/nn"
	"github.com/ember-ml/ember/tensor"
)

// GradientDescent is plain gradient descent.
//
// Update rule, applied element-wise and in place:
//
//	param = param - lr * gradient
type GradientDescent struct {
	lr float64
}

// NewGradientDescent creates a gradient descent optimizer with the given
// learning rate. A non-positive rate is an invalid-configuration error.
func NewGradientDescent(lr float64) (*GradientDescent, error) {
	if lr <= 0 {
		return nil, fmt.Errorf("NewGradientDescent: learning rate %v must be positive: %w",
			lr, nn.ErrInvalidConfig)
	}
	return &GradientDescent{lr: lr}, nil
}

// LR returns the learning rate.
func (g *GradientDescent) LR() float64 { return g.lr }

// Step applies one gradient step to every parameter of the layer, mutating
// each parameter tensor in place.
func (g *GradientDescent) Step(layer nn.Layer) error {
	params, grads, err := paramPairs(layer)
	if err != nil {
		return err
	}
	for i, param := range params {
		updated, err := tensor.Combine(func(p, grad float64) float64 {
			return p - grad*g.lr
		}, param, grads[i])
		if err != nil {
			return fmt.Errorf("GradientDescent.Step: parameter %d: %w", i, err)
		}
		if err := param.CopyFrom(updated); err != nil {
			return fmt.Errorf("GradientDescent.Step: parameter %d: %w", i, err)
		}
	}
	return nil
}
