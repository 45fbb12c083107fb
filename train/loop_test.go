// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package train

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ember-ml/ember/nn"
	"github.com/ember-ml/ember/optim"
	"github.com/ember-ml/ember/tensor"
)

// identityModel builds a 2x2 Linear layer that passes its input through.
func identityModel(t *testing.T) *nn.Linear {
	t.Helper()
	layer, err := nn.NewLinear(2, 2)
	require.NoError(t, err)
	w, err := tensor.FromNested([][]float64{{1, 0}, {0, 1}})
	require.NoError(t, err)
	require.NoError(t, layer.Weight().CopyFrom(w))
	require.NoError(t, layer.Bias().CopyFrom(tensor.New(tensor.Shape{2})))
	return layer
}

func identityDataset(t *testing.T) (inputs, targets []*tensor.Tensor) {
	t.Helper()
	for _, row := range [][2][]float64{
		{{1, 0}, {1, 0}},
		{{0, 1}, {0, 1}},
	} {
		in, err := tensor.FromNested(row[0])
		require.NoError(t, err)
		out, err := tensor.FromNested(row[1])
		require.NoError(t, err)
		inputs = append(inputs, in)
		targets = append(targets, out)
	}
	return inputs, targets
}

func TestLoopEvaluation(t *testing.T) {
	model := identityModel(t)
	inputs, targets := identityDataset(t)
	before := model.Weight().Clone()

	result, err := Loop(model, inputs, targets, nn.NewSSE(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Examples)
	assert.Equal(t, 1.0, result.Accuracy())
	assert.InDelta(t, 0.0, result.AvgLoss(), 1e-12)

	// An evaluation run never touches the weights.
	assert.True(t, model.Weight().ApproxEqual(before, 0))
}

func TestLoopTraining(t *testing.T) {
	layer, err := nn.NewLinear(2, 2)
	require.NoError(t, err)
	inputs, targets := identityDataset(t)
	before := layer.Weight().Clone()

	gd, err := optim.NewGradientDescent(0.1)
	require.NoError(t, err)

	result, err := Loop(layer, inputs, targets, nn.NewSSE(), gd)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Examples)
	assert.False(t, layer.Weight().ApproxEqual(before, 0), "training left weights unchanged")
}

func TestLoopTrainingReducesLoss(t *testing.T) {
	layer, err := nn.NewLinear(2, 2)
	require.NoError(t, err)
	inputs, targets := identityDataset(t)

	gd, err := optim.NewGradientDescent(0.1)
	require.NoError(t, err)

	first, err := Loop(layer, inputs, targets, nn.NewSSE(), gd)
	require.NoError(t, err)
	var last Result
	for epoch := 0; epoch < 50; epoch++ {
		last, err = Loop(layer, inputs, targets, nn.NewSSE(), gd)
		require.NoError(t, err)
	}
	assert.Less(t, last.AvgLoss(), first.AvgLoss())
}

func TestLoopLengthMismatch(t *testing.T) {
	model := identityModel(t)
	inputs, targets := identityDataset(t)
	_, err := Loop(model, inputs, targets[:1], nn.NewSSE(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, nn.ErrShapeMismatch))
}

func TestLoopPropagatesModelErrors(t *testing.T) {
	model := identityModel(t)
	bad := []*tensor.Tensor{tensor.New(tensor.Shape{5})}
	_, err := Loop(model, bad, bad, nn.NewSSE(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, nn.ErrShapeMismatch))
}

func TestResultEmpty(t *testing.T) {
	var r Result
	assert.Equal(t, 0.0, r.Accuracy())
	assert.Equal(t, 0.0, r.AvgLoss())
}
