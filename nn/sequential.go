// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"fmt"

	"github.com/ember-ml/ember/tensor"
)

// Sequential is a layer consisting of a sequence of other layers.
//
// Forward threads the input through the sub-layers in declaration order;
// Backward threads the gradient through them in reverse. It is up to the
// caller to make sure the output of each layer makes sense as the input to
// the next.
//
// Example:
//
//	model := nn.NewSequential(hidden, nn.NewSigmoid(), output, nn.NewSigmoid())
type Sequential struct {
	layers []Layer
}

// NewSequential creates a Sequential layer from the given sub-layers.
func NewSequential(layers ...Layer) *Sequential {
	return &Sequential{layers: layers}
}

// Add appends a sub-layer to the sequence.
func (s *Sequential) Add(layer Layer) {
	s.layers = append(s.layers, layer)
}

// Len returns the number of sub-layers.
func (s *Sequential) Len() int { return len(s.layers) }

// Layer returns the sub-layer at the given index. Panics if the index is
// out of bounds.
func (s *Sequential) Layer(index int) Layer {
	if index < 0 || index >= len(s.layers) {
		panic("Sequential.Layer: index out of bounds")
	}
	return s.layers[index]
}

// Forward passes the input through the sub-layers in order; each layer's
// output becomes the next layer's input.
func (s *Sequential) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	output := input
	for i, layer := range s.layers {
		var err error
		output, err = layer.Forward(output)
		if err != nil {
			return nil, fmt.Errorf("Sequential layer %d: %w", i, err)
		}
	}
	return output, nil
}

// Backward propagates the gradient through the sub-layers in reverse order
// and returns the gradient with respect to the original input.
func (s *Sequential) Backward(gradient *tensor.Tensor) (*tensor.Tensor, error) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		var err error
		gradient, err = s.layers[i].Backward(gradient)
		if err != nil {
			return nil, fmt.Errorf("Sequential layer %d: %w", i, err)
		}
	}
	return gradient, nil
}

// Params returns the parameters of every sub-layer, flattened in sub-layer
// order. Layers without parameters contribute nothing.
func (s *Sequential) Params() []*tensor.Tensor {
	var params []*tensor.Tensor
	for _, layer := range s.layers {
		params = append(params, layer.Params()...)
	}
	return params
}

// Grads returns the gradients of every sub-layer, flattened in the same
// order as Params.
func (s *Sequential) Grads() []*tensor.Tensor {
	var grads []*tensor.Tensor
	for _, layer := range s.layers {
		grads = append(grads, layer.Grads()...)
	}
	return grads
}
