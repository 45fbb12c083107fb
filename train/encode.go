// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package train

import (
	"fmt"

	"github.com/ember-ml/ember/nn"
	"github.com/ember-ml/ember/tensor"
)

// OneHot returns a rank-1 tensor of length numLabels with a 1 at the label
// index and 0 elsewhere.
func OneHot(label, numLabels int) (*tensor.Tensor, error) {
	if numLabels <= 0 || label < 0 || label >= numLabels {
		return nil, fmt.Errorf("train: OneHot: label %d outside [0, %d): %w",
			label, numLabels, nn.ErrInvalidConfig)
	}
	t := tensor.New(tensor.Shape{numLabels})
	t.Data()[label] = 1
	return t, nil
}

// Argmax returns the flat index of the largest element. Ties go to the
// earliest index.
func Argmax(t *tensor.Tensor) int {
	data := t.Data()
	best := 0
	for i, x := range data {
		if x > data[best] {
			best = i
		}
	}
	return best
}

// BinaryEncode returns the 10 low-order bits of n as a rank-1 tensor,
// least significant bit first.
func BinaryEncode(n int) *tensor.Tensor {
	t := tensor.New(tensor.Shape{10})
	data := t.Data()
	for i := range data {
		data[i] = float64(n >> i & 1)
	}
	return t
}

// FizzBuzzEncode one-hot encodes n's fizz-buzz class as a length-4 tensor:
// [n, fizz, buzz, fizzbuzz].
func FizzBuzzEncode(n int) *tensor.Tensor {
	t := tensor.New(tensor.Shape{4})
	switch {
	case n%15 == 0:
		t.Data()[3] = 1
	case n%5 == 0:
		t.Data()[2] = 1
	case n%3 == 0:
		t.Data()[1] = 1
	default:
		t.Data()[0] = 1
	}
	return t
}
