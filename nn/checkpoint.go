// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ember-ml/ember/tensor"
)

// SaveWeights writes a layer's parameters to a JSON file.
//
// The file holds a single JSON array with one nested numeric array per
// parameter tensor, in Params() iteration order. The format carries no
// architecture information: loading requires a model whose parameters
// already have the same shapes in the same order.
func SaveWeights(layer Layer, path string) error {
	params := layer.Params()
	weights := make([]any, len(params))
	for i, param := range params {
		weights[i] = param.Nested()
	}
	data, err := json.Marshal(weights)
	if err != nil {
		return fmt.Errorf("SaveWeights: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("SaveWeights: %w", err)
	}
	return nil
}

// LoadWeights reads a JSON weight file written by SaveWeights and assigns
// the values into the layer's parameters.
//
// Every stored tensor is shape-checked against the live parameter at the
// same position before anything is overwritten; a count or shape mismatch
// is a fatal configuration error and leaves the model untouched. Values are
// then assigned element-wise in place, preserving tensor identity for every
// other holder of the same parameter (optimizer state, saved references).
func LoadWeights(layer Layer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("LoadWeights: %w", err)
	}
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("LoadWeights: %w", err)
	}

	params := layer.Params()
	if len(raw) != len(params) {
		return fmt.Errorf("LoadWeights: file holds %d tensors, model has %d parameters: %w",
			len(raw), len(params), ErrShapeMismatch)
	}

	weights := make([]*tensor.Tensor, len(params))
	for i, entry := range raw {
		weight, err := tensor.FromNested(entry)
		if err != nil {
			return fmt.Errorf("LoadWeights: tensor %d: %w", i, err)
		}
		if !weight.Shape().Equal(params[i].Shape()) {
			return fmt.Errorf("LoadWeights: tensor %d has shape %v, parameter has %v: %w",
				i, weight.Shape(), params[i].Shape(), ErrShapeMismatch)
		}
		weights[i] = weight
	}

	for i, param := range params {
		if err := param.CopyFrom(weights[i]); err != nil {
			return fmt.Errorf("LoadWeights: tensor %d: %w", i, err)
		}
	}
	return nil
}
