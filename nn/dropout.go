// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ember-ml/ember/tensor"
)

// Dropout randomly zeroes units during training as regularization.
//
// In training mode, Forward draws a fresh 0/1 mask per element (0 with
// probability p) and multiplies the input by it; the following Backward
// propagates gradient only through the kept units. In evaluation mode,
// Forward deterministically scales the input by 1-p (the expected value of
// the mask) and Backward is a usage error.
//
// Train is part of the layer's public contract: orchestration code flips it
// between training and evaluation phases. It defaults to true.
type Dropout struct {
	NoParams
	p     float64
	Train bool

	mask *tensor.Tensor
	rng  *rand.Rand
}

// NewDropout creates a Dropout layer that zeroes each unit with probability
// p during training. A probability outside [0, 1] is an
// invalid-configuration error.
func NewDropout(p float64) (*Dropout, error) {
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("NewDropout: probability %v outside [0, 1]: %w", p, ErrInvalidConfig)
	}
	return &Dropout{
		p:     p,
		Train: true,
		//nolint:gosec // math/rand is fine for dropout masks (not security-critical)
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// P returns the drop probability.
func (d *Dropout) P() float64 { return d.p }

// Forward masks the input in training mode, or scales it by 1-p in
// evaluation mode. Each training-mode call regenerates the mask.
func (d *Dropout) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if !d.Train {
		return input.Apply(func(x float64) float64 {
			return x * (1 - d.p)
		}), nil
	}
	d.mask = input.Apply(func(float64) float64 {
		if d.rng.Float64() < d.p {
			return 0
		}
		return 1
	})
	return tensor.Combine(func(x, m float64) float64 { return x * m }, input, d.mask)
}

// Backward propagates the gradient only where the cached mask kept the
// unit. Calling it in evaluation mode, or before a training-mode Forward
// has drawn a mask, is an invalid state transition.
func (d *Dropout) Backward(gradient *tensor.Tensor) (*tensor.Tensor, error) {
	if !d.Train {
		return nil, fmt.Errorf("Dropout.Backward: %w", ErrEvalBackward)
	}
	if d.mask == nil {
		return nil, fmt.Errorf("Dropout.Backward: %w", ErrNoForward)
	}
	return tensor.Combine(func(g, m float64) float64 { return g * m }, gradient, d.mask)
}
