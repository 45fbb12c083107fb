// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn implements neural network layers and loss functions for the
// Ember ML framework.
//
// Networks are composed of Layers, each of which knows how to compute its
// output in the forward direction and propagate gradients in the backward
// direction. There is no computation graph and no automatic differentiation:
// every layer derives its own gradients by hand and caches whatever it needs
// from its forward pass.
//
// Example:
//
//	hidden, _ := nn.NewLinear(2, 2)
//	output, _ := nn.NewLinear(2, 1)
//	model := nn.NewSequential(hidden, nn.NewSigmoid(), output, nn.NewSigmoid())
//
//	predicted, err := model.Forward(x)
package nn

import (
	"github.com/ember-ml/ember/tensor"
)

// Layer is the contract every network component implements.
//
// A Layer may cache values between a Forward call and the subsequent
// Backward call; each Forward overwrites the previous cache, so exactly one
// example may be in flight per layer instance. Backward must not be called
// before the first Forward.
//
// Params and Grads return owned tensors in the same positional order, so
// optimizers can zip them pairwise. Layers without trainable parameters
// return empty sequences from both.
type Layer interface {
	// Forward computes the layer's output from an input tensor.
	Forward(input *tensor.Tensor) (*tensor.Tensor, error)

	// Backward takes the gradient of the loss with respect to this layer's
	// output and returns the gradient with respect to its input, recording
	// parameter gradients along the way.
	Backward(gradient *tensor.Tensor) (*tensor.Tensor, error)

	// Params returns the layer's trainable parameter tensors.
	Params() []*tensor.Tensor

	// Grads returns the parameter gradients computed by the most recent
	// Backward call, in the same order as Params.
	Grads() []*tensor.Tensor
}

// NoParams is an embeddable helper for layers without trainable parameters.
// It supplies empty Params and Grads.
type NoParams struct{}

// Params returns an empty parameter sequence.
func (NoParams) Params() []*tensor.Tensor { return nil }

// Grads returns an empty gradient sequence.
func (NoParams) Grads() []*tensor.Tensor { return nil }

// Unimplemented is an embeddable scaffold for layers under construction. Its
// Forward and Backward fail with ErrNotImplemented at call time, so a
// partially implemented layer can still be constructed and composed.
type Unimplemented struct {
	NoParams
}

// Forward fails with ErrNotImplemented.
func (Unimplemented) Forward(*tensor.Tensor) (*tensor.Tensor, error) {
	return nil, ErrNotImplemented
}

// Backward fails with ErrNotImplemented.
func (Unimplemented) Backward(*tensor.Tensor) (*tensor.Tensor, error) {
	return nil, ErrNotImplemented
}
