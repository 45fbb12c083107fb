// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"fmt"

	"github.com/ember-ml/ember/nn"
	"github.com/ember-ml/ember/tensor"
)

// Momentum is gradient descent smoothed by an exponential moving average of
// the gradients.
//
// Update rule per parameter, element-wise and in place:
//
//	velocity = mo * velocity + (1 - mo) * gradient
//	param    = param - lr * velocity
//
// The velocity buffers are allocated lazily as zero tensors shaped like the
// gradients on the first Step call. They are keyed by position, not by
// parameter identity: changing the layer's parameter count or order after
// the first Step is undefined behavior, and a count change is reported as
// an error.
type Momentum struct {
	lr         float64
	mo         float64
	velocities []*tensor.Tensor
}

// NewMomentum creates a momentum optimizer with the given learning rate and
// momentum coefficient. The rate must be positive and the coefficient in
// [0, 1).
func NewMomentum(lr, momentum float64) (*Momentum, error) {
	if lr <= 0 {
		return nil, fmt.Errorf("NewMomentum: learning rate %v must be positive: %w",
			lr, nn.ErrInvalidConfig)
	}
	if momentum < 0 || momentum >= 1 {
		return nil, fmt.Errorf("NewMomentum: momentum %v outside [0, 1): %w",
			momentum, nn.ErrInvalidConfig)
	}
	return &Momentum{lr: lr, mo: momentum}, nil
}

// LR returns the learning rate.
func (m *Momentum) LR() float64 { return m.lr }

// Momentum returns the momentum coefficient.
func (m *Momentum) Momentum() float64 { return m.mo }

// Step updates every velocity buffer from the layer's gradients, then
// applies a gradient step along the velocities, mutating each parameter
// tensor in place.
func (m *Momentum) Step(layer nn.Layer) error {
	params, grads, err := paramPairs(layer)
	if err != nil {
		return err
	}

	if m.velocities == nil {
		m.velocities = make([]*tensor.Tensor, len(grads))
		for i, grad := range grads {
			m.velocities[i] = tensor.ZerosLike(grad)
		}
	}
	if len(m.velocities) != len(params) {
		return fmt.Errorf("Momentum.Step: layer has %d parameters, optimizer state has %d: %w",
			len(params), len(m.velocities), nn.ErrShapeMismatch)
	}

	for i, param := range params {
		velocity := m.velocities[i]

		// Exponential moving average of the gradients.
		updated, err := tensor.Combine(func(u, grad float64) float64 {
			return m.mo*u + (1-m.mo)*grad
		}, velocity, grads[i])
		if err != nil {
			return fmt.Errorf("Momentum.Step: parameter %d: %w", i, err)
		}
		if err := velocity.CopyFrom(updated); err != nil {
			return fmt.Errorf("Momentum.Step: parameter %d: %w", i, err)
		}

		stepped, err := tensor.Combine(func(p, u float64) float64 {
			return p - m.lr*u
		}, param, velocity)
		if err != nil {
			return fmt.Errorf("Momentum.Step: parameter %d: %w", i, err)
		}
		if err := param.CopyFrom(stepped); err != nil {
			return fmt.Errorf("Momentum.Step: parameter %d: %w", i, err)
		}
	}
	return nil
}
