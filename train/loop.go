// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train provides the example-at-a-time training loop driver and the
// label encoders used by the runnable examples.
package train

import (
	"fmt"

	"github.com/schollz/progressbar/v3"

	"github.com/ember-ml/ember/nn"
	"github.com/ember-ml/ember/optim"
	"github.com/ember-ml/ember/tensor"
)

// Result accumulates the running metrics of one pass over a dataset.
type Result struct {
	Examples  int
	Correct   int
	TotalLoss float64
}

// Accuracy returns the fraction of examples whose argmax prediction matched
// the argmax of the target.
func (r Result) Accuracy() float64 {
	if r.Examples == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Examples)
}

// AvgLoss returns the mean loss per example.
func (r Result) AvgLoss() float64 {
	if r.Examples == 0 {
		return 0
	}
	return r.TotalLoss / float64(r.Examples)
}

// Loop runs one pass over the dataset, one example at a time.
//
// For each example it predicts, scores argmax accuracy, and accumulates
// loss. If an optimizer is supplied it also backpropagates the loss
// gradient and steps the optimizer; passing a nil optimizer makes this an
// evaluation run that never touches the model's weights.
//
// Each example is processed fully before the next begins; there is no
// batching. Any shape or state error from the model, loss, or optimizer
// aborts the pass.
func Loop(model nn.Layer, inputs, targets []*tensor.Tensor, lossFn nn.Loss, optimizer optim.Optimizer) (Result, error) {
	if len(inputs) != len(targets) {
		return Result{}, fmt.Errorf("train: %d inputs but %d targets: %w",
			len(inputs), len(targets), nn.ErrShapeMismatch)
	}

	bar := progressbar.Default(int64(len(inputs)))
	defer func() {
		_ = bar.Finish()
	}()

	var result Result
	for i := range inputs {
		predicted, err := model.Forward(inputs[i])
		if err != nil {
			return result, fmt.Errorf("train: example %d: %w", i, err)
		}
		if Argmax(predicted) == Argmax(targets[i]) {
			result.Correct++
		}

		loss, err := lossFn.Loss(predicted, targets[i])
		if err != nil {
			return result, fmt.Errorf("train: example %d: %w", i, err)
		}
		result.TotalLoss += loss
		result.Examples++

		if optimizer != nil {
			gradient, err := lossFn.Gradient(predicted, targets[i])
			if err != nil {
				return result, fmt.Errorf("train: example %d: %w", i, err)
			}
			if _, err := model.Backward(gradient); err != nil {
				return result, fmt.Errorf("train: example %d: %w", i, err)
			}
			if err := optimizer.Step(model); err != nil {
				return result, fmt.Errorf("train: example %d: %w", i, err)
			}
		}

		bar.Describe(fmt.Sprintf("loss: %.3f acc: %.3f", result.AvgLoss(), result.Accuracy()))
		_ = bar.Add(1)
	}
	return result, nil
}
