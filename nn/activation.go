// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"fmt"
	"math"

	"github.com/ember-ml/ember/tensor"
)

// Sigmoid is an element-wise sigmoid activation layer.
//
// Applies σ(x) = 1 / (1 + exp(-x)), squashing values into (0, 1).
//
// Forward caches the output rather than the input: the derivative
// σ'(x) = σ(x)(1 - σ(x)) only needs the activation itself.
type Sigmoid struct {
	NoParams
	sigmoids *tensor.Tensor
}

// NewSigmoid creates a new Sigmoid activation layer.
func NewSigmoid() *Sigmoid { return &Sigmoid{} }

// Forward applies sigmoid to each element of the input tensor and saves the
// result for backpropagation.
func (s *Sigmoid) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	s.sigmoids = input.Apply(sigmoid)
	return s.sigmoids, nil
}

// Backward scales the incoming gradient by σ(1-σ) using the cached outputs.
func (s *Sigmoid) Backward(gradient *tensor.Tensor) (*tensor.Tensor, error) {
	if s.sigmoids == nil {
		return nil, fmt.Errorf("Sigmoid.Backward: %w", ErrNoForward)
	}
	return tensor.Combine(func(sig, grad float64) float64 {
		return sig * (1 - sig) * grad
	}, s.sigmoids, gradient)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Tanh is an element-wise hyperbolic tangent activation layer.
//
// Values are squashed into (-1, 1). Inputs with |x| > 100 are clamped to ±1
// exactly, since exp would overflow long before tanh visibly differs from
// its asymptote.
type Tanh struct {
	NoParams
	tanhs *tensor.Tensor
}

// NewTanh creates a new Tanh activation layer.
func NewTanh() *Tanh { return &Tanh{} }

// Forward applies tanh to each element and saves the result for
// backpropagation.
func (t *Tanh) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	t.tanhs = input.Apply(tanh)
	return t.tanhs, nil
}

// Backward scales the incoming gradient by 1 - tanh² using the cached
// outputs.
func (t *Tanh) Backward(gradient *tensor.Tensor) (*tensor.Tensor, error) {
	if t.tanhs == nil {
		return nil, fmt.Errorf("Tanh.Backward: %w", ErrNoForward)
	}
	return tensor.Combine(func(th, grad float64) float64 {
		return (1 - th*th) * grad
	}, t.tanhs, gradient)
}

func tanh(x float64) float64 {
	switch {
	case x < -100:
		return -1
	case x > 100:
		return 1
	}
	em2x := math.Exp(-2 * x)
	return (1 - em2x) / (1 + em2x)
}

// ReLU is an element-wise rectified linear activation layer: f(x) = max(x, 0).
//
// Unlike Sigmoid and Tanh it caches the input, since the derivative depends
// on the sign of the pre-activation. The gradient is blocked at exactly
// x = 0.
type ReLU struct {
	NoParams
	input *tensor.Tensor
}

// NewReLU creates a new ReLU activation layer.
func NewReLU() *ReLU { return &ReLU{} }

// Forward saves the input and returns max(x, 0) per element.
func (r *ReLU) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	r.input = input
	return input.Apply(func(x float64) float64 {
		return math.Max(x, 0)
	}), nil
}

// Backward passes the gradient through where the cached input was positive
// and blocks it elsewhere.
func (r *ReLU) Backward(gradient *tensor.Tensor) (*tensor.Tensor, error) {
	if r.input == nil {
		return nil, fmt.Errorf("ReLU.Backward: %w", ErrNoForward)
	}
	return tensor.Combine(func(x, grad float64) float64 {
		if x > 0 {
			return grad
		}
		return 0
	}, r.input, gradient)
}
