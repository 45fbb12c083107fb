// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ember-ml/ember/tensor"
)

// setLinear overwrites a layer's parameters with known values.
func setLinear(t *testing.T, layer *Linear, weight [][]float64, bias []float64) {
	t.Helper()
	w, err := tensor.FromNested(weight)
	require.NoError(t, err)
	require.NoError(t, layer.Weight().CopyFrom(w))
	b, err := tensor.FromNested(bias)
	require.NoError(t, err)
	require.NoError(t, layer.Bias().CopyFrom(b))
}

func TestLinearShapes(t *testing.T) {
	layer, err := NewLinear(2, 3)
	require.NoError(t, err)

	assert.True(t, layer.Weight().Shape().Equal(tensor.Shape{3, 2}))
	assert.True(t, layer.Bias().Shape().Equal(tensor.Shape{3}))

	out, err := layer.Forward(tensor.New(tensor.Shape{2}))
	require.NoError(t, err)
	assert.True(t, out.Shape().Equal(tensor.Shape{3}))

	back, err := layer.Backward(tensor.New(tensor.Shape{3}))
	require.NoError(t, err)
	assert.True(t, back.Shape().Equal(tensor.Shape{2}))

	grads := layer.Grads()
	require.Len(t, grads, 2)
	assert.True(t, grads[0].Shape().Equal(tensor.Shape{3, 2}))
	assert.True(t, grads[1].Shape().Equal(tensor.Shape{3}))
}

func TestLinearForwardValues(t *testing.T) {
	layer, err := NewLinear(2, 3)
	require.NoError(t, err)
	setLinear(t, layer, [][]float64{{1, 2}, {3, 4}, {5, 6}}, []float64{1, 1, 1})

	input, err := tensor.FromNested([]float64{1, 2})
	require.NoError(t, err)
	out, err := layer.Forward(input)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 12, 18}, out.Data())
}

func TestLinearBackwardValues(t *testing.T) {
	layer, err := NewLinear(2, 3)
	require.NoError(t, err)
	setLinear(t, layer, [][]float64{{1, 2}, {3, 4}, {5, 6}}, []float64{1, 1, 1})

	input, err := tensor.FromNested([]float64{1, 2})
	require.NoError(t, err)
	_, err = layer.Forward(input)
	require.NoError(t, err)

	grad, err := tensor.FromNested([]float64{1, 1, 1})
	require.NoError(t, err)
	inputGrad, err := layer.Backward(grad)
	require.NoError(t, err)

	// Bias gradient is the output gradient unchanged.
	assert.Equal(t, []float64{1, 1, 1}, layer.Grads()[1].Data())
	// Weight gradient is the outer product input x gradient.
	assert.Equal(t, []float64{1, 2, 1, 2, 1, 2}, layer.Grads()[0].Data())
	// Input gradient is the transpose-weight/vector product.
	assert.Equal(t, []float64{9, 12}, inputGrad.Data())
}

// TestLinearGradientNumerically checks the analytic weight and bias
// gradients against central finite differences of the SSE loss.
func TestLinearGradientNumerically(t *testing.T) {
	tensor.Seed(7)

	layer, err := NewLinear(3, 2)
	require.NoError(t, err)
	lossFn := NewSSE()

	input := tensor.Uniform(tensor.Shape{3})
	target := tensor.Uniform(tensor.Shape{2})

	out, err := layer.Forward(input)
	require.NoError(t, err)
	grad, err := lossFn.Gradient(out, target)
	require.NoError(t, err)
	_, err = layer.Backward(grad)
	require.NoError(t, err)

	const eps = 1e-6
	lossAt := func() float64 {
		predicted, err := layer.Forward(input)
		require.NoError(t, err)
		loss, err := lossFn.Loss(predicted, target)
		require.NoError(t, err)
		return loss
	}

	for pi, param := range layer.Params() {
		analytic := layer.Grads()[pi]
		data := param.Data()
		for i := range data {
			saved := data[i]
			data[i] = saved + eps
			plus := lossAt()
			data[i] = saved - eps
			minus := lossAt()
			data[i] = saved

			numeric := (plus - minus) / (2 * eps)
			assert.InDelta(t, numeric, analytic.Data()[i], 1e-4,
				"param %d element %d", pi, i)
		}
	}
}

func TestLinearShapeErrors(t *testing.T) {
	layer, err := NewLinear(2, 3)
	require.NoError(t, err)

	_, err = layer.Forward(tensor.New(tensor.Shape{5}))
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	_, err = layer.Forward(tensor.New(tensor.Shape{2, 1}))
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	_, err = layer.Backward(tensor.New(tensor.Shape{3}))
	assert.True(t, errors.Is(err, ErrNoForward))

	_, err = layer.Forward(tensor.New(tensor.Shape{2}))
	require.NoError(t, err)
	_, err = layer.Backward(tensor.New(tensor.Shape{4}))
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestLinearConfigErrors(t *testing.T) {
	_, err := NewLinear(0, 3)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = NewLinear(2, -1)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = NewLinearInit(2, 3, "glorot")
	assert.True(t, errors.Is(err, tensor.ErrUnknownInit))
}

func TestLinearParamGradOrder(t *testing.T) {
	layer, err := NewLinear(2, 2)
	require.NoError(t, err)

	params := layer.Params()
	require.Len(t, params, 2)
	assert.Same(t, layer.Weight(), params[0])
	assert.Same(t, layer.Bias(), params[1])
}
