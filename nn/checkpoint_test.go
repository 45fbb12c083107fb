// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ember-ml/ember/tensor"
)

func newTestModel(t *testing.T) *Sequential {
	t.Helper()
	first, err := NewLinear(4, 3)
	require.NoError(t, err)
	second, err := NewLinear(3, 2)
	require.NoError(t, err)
	return NewSequential(first, NewTanh(), second)
}

func TestWeightsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")

	original := newTestModel(t)
	require.NoError(t, SaveWeights(original, path))

	restored := newTestModel(t)
	require.NoError(t, LoadWeights(restored, path))

	input := tensor.Uniform(tensor.Shape{4})
	want, err := original.Forward(input)
	require.NoError(t, err)
	got, err := restored.Forward(input)
	require.NoError(t, err)
	assert.True(t, want.ApproxEqual(got, 1e-12))
}

func TestLoadWeightsShapeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	require.NoError(t, SaveWeights(newTestModel(t), path))

	other, err := NewLinear(4, 3)
	require.NoError(t, err)

	// Wrong parameter count.
	err = LoadWeights(other, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	// Right count, wrong shapes.
	smaller, err := NewLinear(2, 2)
	require.NoError(t, err)
	bigger, err := NewLinear(5, 5)
	require.NoError(t, err)
	wrong := NewSequential(smaller, bigger)
	err = LoadWeights(wrong, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestLoadWeightsLeavesModelUntouchedOnMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	require.NoError(t, SaveWeights(newTestModel(t), path))

	victim, err := NewLinear(2, 2)
	require.NoError(t, err)
	before := victim.Weight().Clone()

	require.Error(t, LoadWeights(victim, path))
	assert.True(t, victim.Weight().ApproxEqual(before, 0))
}

func TestLoadWeightsPreservesTensorIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")

	source := newTestModel(t)
	require.NoError(t, SaveWeights(source, path))

	target := newTestModel(t)
	// Another holder of the parameter tensor, as an optimizer would be.
	alias := target.Params()[0]

	require.NoError(t, LoadWeights(target, path))
	assert.Same(t, alias, target.Params()[0])
	assert.True(t, alias.ApproxEqual(source.Params()[0], 0))
}

func TestLoadWeightsMissingFile(t *testing.T) {
	model := newTestModel(t)
	err := LoadWeights(model, filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
