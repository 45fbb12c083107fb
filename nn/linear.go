// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"fmt"

	"github.com/ember-ml/ember/tensor"
)

// Linear implements a fully connected (affine) layer.
//
// A layer of outFeatures neurons, each with inFeatures weights and a bias:
//
//	output[o] = dot(input, weight[o]) + bias[o]
//
// where weight has shape [outFeatures, inFeatures] and bias has shape
// [outFeatures]. Inputs and outputs are rank-1 tensors; there is no
// batching.
//
// Example:
//
//	layer, err := nn.NewLinear(784, 30)
//	output, err := layer.Forward(image) // length-30 tensor
type Linear struct {
	inFeatures  int
	outFeatures int

	weight *tensor.Tensor // [outFeatures, inFeatures]
	bias   *tensor.Tensor // [outFeatures]

	// Cache between Forward and the following Backward. Overwritten on
	// every Forward.
	input      *tensor.Tensor
	weightGrad *tensor.Tensor
	biasGrad   *tensor.Tensor
}

// NewLinear creates a Linear layer with Xavier-initialized weights and
// biases.
func NewLinear(inFeatures, outFeatures int) (*Linear, error) {
	return NewLinearInit(inFeatures, outFeatures, tensor.InitXavier)
}

// NewLinearInit creates a Linear layer using the given initialization
// scheme for both weights and biases.
//
// Non-positive dimensions or an unrecognized scheme are
// invalid-configuration errors.
func NewLinearInit(inFeatures, outFeatures int, init tensor.Init) (*Linear, error) {
	if inFeatures <= 0 || outFeatures <= 0 {
		return nil, fmt.Errorf("NewLinear: dimensions %dx%d must be positive: %w",
			inFeatures, outFeatures, ErrInvalidConfig)
	}
	weight, err := tensor.Random(tensor.Shape{outFeatures, inFeatures}, init)
	if err != nil {
		return nil, fmt.Errorf("NewLinear: %w", err)
	}
	bias, err := tensor.Random(tensor.Shape{outFeatures}, init)
	if err != nil {
		return nil, fmt.Errorf("NewLinear: %w", err)
	}
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
	}, nil
}

// Forward computes the vector of neuron outputs for a rank-1 input of
// length inFeatures, saving the input for the backward pass.
func (l *Linear) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if !input.Shape().Equal(tensor.Shape{l.inFeatures}) {
		return nil, fmt.Errorf("Linear.Forward: input shape %v, want [%d]: %w",
			input.Shape(), l.inFeatures, ErrShapeMismatch)
	}
	l.input = input

	out := tensor.New(tensor.Shape{l.outFeatures})
	x := input.Data()
	w := l.weight.Data()
	b := l.bias.Data()
	y := out.Data()
	for o := 0; o < l.outFeatures; o++ {
		row := w[o*l.inFeatures : (o+1)*l.inFeatures]
		sum := b[o]
		for i, xi := range x {
			sum += xi * row[i]
		}
		y[o] = sum
	}
	return out, nil
}

// Backward takes the gradient with respect to the output (rank-1, length
// outFeatures) and returns the gradient with respect to the input.
//
// The bias gradient is the output gradient unchanged; the weight gradient
// is the outer product of the cached input and the output gradient; the
// input gradient propagates back through the same weights used forward
// (transpose-matrix/vector product).
func (l *Linear) Backward(gradient *tensor.Tensor) (*tensor.Tensor, error) {
	if l.input == nil {
		return nil, fmt.Errorf("Linear.Backward: %w", ErrNoForward)
	}
	if !gradient.Shape().Equal(tensor.Shape{l.outFeatures}) {
		return nil, fmt.Errorf("Linear.Backward: gradient shape %v, want [%d]: %w",
			gradient.Shape(), l.outFeatures, ErrShapeMismatch)
	}

	l.biasGrad = gradient.Clone()

	l.weightGrad = tensor.New(tensor.Shape{l.outFeatures, l.inFeatures})
	x := l.input.Data()
	g := gradient.Data()
	wg := l.weightGrad.Data()
	for o := 0; o < l.outFeatures; o++ {
		row := wg[o*l.inFeatures : (o+1)*l.inFeatures]
		for i, xi := range x {
			row[i] = xi * g[o]
		}
	}

	inputGrad := tensor.New(tensor.Shape{l.inFeatures})
	w := l.weight.Data()
	ig := inputGrad.Data()
	for o := 0; o < l.outFeatures; o++ {
		row := w[o*l.inFeatures : (o+1)*l.inFeatures]
		for i := range ig {
			ig[i] += row[i] * g[o]
		}
	}
	return inputGrad, nil
}

// Params returns [weight, bias].
func (l *Linear) Params() []*tensor.Tensor {
	return []*tensor.Tensor{l.weight, l.bias}
}

// Grads returns [weightGrad, biasGrad], in the same order as Params. The
// entries are nil until the first Backward call.
func (l *Linear) Grads() []*tensor.Tensor {
	return []*tensor.Tensor{l.weightGrad, l.biasGrad}
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int { return l.inFeatures }

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int { return l.outFeatures }

// Weight returns the weight tensor, shaped [outFeatures, inFeatures].
func (l *Linear) Weight() *tensor.Tensor { return l.weight }

// Bias returns the bias tensor, shaped [outFeatures].
func (l *Linear) Bias() *tensor.Tensor { return l.bias }
