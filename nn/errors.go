// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"errors"

	"github.com/ember-ml/ember/tensor"
)

// ErrShapeMismatch reports tensors of incompatible shape reaching a layer,
// loss, or weight-loading operation. It aliases the tensor package's
// sentinel so errors.Is matches across packages.
var ErrShapeMismatch = tensor.ErrShapeMismatch

// ErrInvalidConfig reports an out-of-range hyperparameter at construction
// time, such as a negative dropout probability.
var ErrInvalidConfig = errors.New("nn: invalid configuration")

// ErrNoForward reports Backward being called before any Forward populated
// the layer's cache.
var ErrNoForward = errors.New("nn: backward called before forward")

// ErrEvalBackward reports Backward being called on a Dropout layer in
// evaluation mode, where no mask exists to propagate through.
var ErrEvalBackward = errors.New("nn: backward called in evaluation mode")

// ErrNotImplemented reports a layer, loss, or optimizer variant that does
// not implement the operation being invoked.
var ErrNotImplemented = errors.New("nn: not implemented")
