// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// ErrUnknownInit reports an unrecognized initialization scheme selector.
var ErrUnknownInit = errors.New("tensor: unknown init scheme")

// Init selects a random initialization scheme for weight tensors.
type Init string

// Supported initialization schemes.
const (
	// InitUniform draws independent U(0, 1) samples per element.
	InitUniform Init = "uniform"
	// InitNormal draws independent standard normal samples per element.
	InitNormal Init = "normal"
	// InitXavier draws normal samples with variance rank/sum(dims), scaling
	// by fan-in and fan-out to stabilize early-training signal magnitude.
	InitXavier Init = "xavier"
)

//nolint:gosec // math/rand is fine for weight initialization (not security-critical)
var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

// Seed reseeds the package random source used by the initializers, for
// reproducible runs.
func Seed(seed int64) {
	rng = rand.New(rand.NewSource(seed))
}

// Uniform creates a tensor whose elements are independent U(0, 1) draws.
func Uniform(shape Shape) *Tensor {
	t := New(shape)
	for i := range t.data {
		t.data[i] = rng.Float64()
	}
	return t
}

// Normal creates a tensor whose elements are independent draws from a
// normal distribution with the given mean and variance. Samples come from
// an inverse-CDF transform of a uniform draw.
func Normal(shape Shape, mean, variance float64) *Tensor {
	std := math.Sqrt(variance)
	t := New(shape)
	for i := range t.data {
		t.data[i] = mean + std*inverseNormalCDF(rng.Float64())
	}
	return t
}

// Xavier creates a tensor initialized with Glorot-scaled normal samples:
// variance = rank / sum(dims). For a 2-D weight matrix this is the familiar
// 2/(fan_in + fan_out).
func Xavier(shape Shape) *Tensor {
	sum := 0
	for _, dim := range shape {
		sum += dim
	}
	variance := float64(len(shape)) / float64(sum)
	return Normal(shape, 0, variance)
}

// Random creates a tensor initialized according to the given scheme.
//
// An unrecognized scheme is an invalid-configuration error.
func Random(shape Shape, init Init) (*Tensor, error) {
	switch init {
	case InitUniform:
		return Uniform(shape), nil
	case InitNormal:
		return Normal(shape, 0, 1), nil
	case InitXavier:
		return Xavier(shape), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownInit, init)
	}
}

func normalCDF(x float64) float64 {
	return (1 + math.Erf(x/math.Sqrt2)) / 2
}

// inverseNormalCDF inverts the standard normal CDF by bisection. The search
// interval covers far beyond any probability float64 can distinguish.
func inverseNormalCDF(p float64) float64 {
	lo, hi := -10.0, 10.0
	for i := 0; i < 80; i++ {
		mid := (lo + hi) / 2
		if normalCDF(mid) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
