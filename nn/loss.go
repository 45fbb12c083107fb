// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"fmt"
	"math"

	"github.com/ember-ml/ember/tensor"
)

// logEpsilon guards log(0) when the target probability for a class is
// exactly zero (one-hot targets).
const logEpsilon = 1e-30

// Loss scores predictions against targets and differentiates that score.
//
// Both methods take a predicted tensor and an actual (target) tensor of
// identical shape. Implementations are stateless pure functions.
type Loss interface {
	// Loss returns a scalar measure of how bad the predictions are; larger
	// numbers are worse.
	Loss(predicted, actual *tensor.Tensor) (float64, error)

	// Gradient returns the gradient of the loss with respect to the
	// predictions, shaped like the predicted tensor.
	Gradient(predicted, actual *tensor.Tensor) (*tensor.Tensor, error)
}

// SSE is the sum-of-squared-errors loss.
type SSE struct{}

// NewSSE creates a sum-of-squared-errors loss.
func NewSSE() *SSE { return &SSE{} }

// Loss returns the sum over elements of (predicted - actual)².
func (*SSE) Loss(predicted, actual *tensor.Tensor) (float64, error) {
	squared, err := tensor.Combine(func(p, a float64) float64 {
		d := p - a
		return d * d
	}, predicted, actual)
	if err != nil {
		return 0, fmt.Errorf("SSE.Loss: %w", err)
	}
	return squared.Sum(), nil
}

// Gradient returns 2·(predicted - actual) per element.
func (*SSE) Gradient(predicted, actual *tensor.Tensor) (*tensor.Tensor, error) {
	grad, err := tensor.Combine(func(p, a float64) float64 {
		return 2 * (p - a)
	}, predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("SSE.Gradient: %w", err)
	}
	return grad, nil
}

// Softmax normalizes the tensor's innermost dimension into a probability
// distribution. The largest value of each row is subtracted before
// exponentiating, so enormous logits do not overflow.
func Softmax(t *tensor.Tensor) *tensor.Tensor {
	out := tensor.ZerosLike(t)
	shape := t.Shape()
	rowLen := shape[len(shape)-1]
	in := t.Data()
	probs := out.Data()
	for start := 0; start < len(in); start += rowLen {
		row := in[start : start+rowLen]
		largest := row[0]
		for _, x := range row[1:] {
			if x > largest {
				largest = x
			}
		}
		sum := 0.0
		for i, x := range row {
			e := math.Exp(x - largest)
			probs[start+i] = e
			sum += e
		}
		for i := range row {
			probs[start+i] /= sum
		}
	}
	return out
}

// SoftmaxCrossEntropy is the negative log-likelihood of the observed
// values under the softmax of the predictions. Minimizing it maximizes the
// likelihood of the observed data.
//
// Unlike SSE it expects raw logits: the loss applies softmax itself, and
// the gradient uses the standard softmax-cross-entropy simplification
// probability - actual, with no softmax Jacobian needed.
type SoftmaxCrossEntropy struct{}

// NewSoftmaxCrossEntropy creates a softmax cross-entropy loss.
func NewSoftmaxCrossEntropy() *SoftmaxCrossEntropy { return &SoftmaxCrossEntropy{} }

// Loss returns -sum(actual * log(softmax(predicted) + ε)).
func (*SoftmaxCrossEntropy) Loss(predicted, actual *tensor.Tensor) (float64, error) {
	probabilities := Softmax(predicted)
	likelihoods, err := tensor.Combine(func(p, act float64) float64 {
		return math.Log(p+logEpsilon) * act
	}, probabilities, actual)
	if err != nil {
		return 0, fmt.Errorf("SoftmaxCrossEntropy.Loss: %w", err)
	}
	return -likelihoods.Sum(), nil
}

// Gradient returns softmax(predicted) - actual per element.
func (*SoftmaxCrossEntropy) Gradient(predicted, actual *tensor.Tensor) (*tensor.Tensor, error) {
	probabilities := Softmax(predicted)
	grad, err := tensor.Combine(func(p, act float64) float64 {
		return p - act
	}, probabilities, actual)
	if err != nil {
		return nil, fmt.Errorf("SoftmaxCrossEntropy.Gradient: %w", err)
	}
	return grad, nil
}
