// Copyright 2025 Ember ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the core tensor type for the Ember ML framework.
//
// A Tensor is a uniformly nested numeric array of rank >= 1, stored as a
// flat float64 slice plus a Shape. The nested-array view is preserved at the
// boundaries: FromNested builds a tensor from nested Go slices (as produced
// by dataset loaders or encoding/json) and Nested converts back.
//
// Tensors have an immutable shape and mutable contents. In-place updates go
// through the backing slice (Data, CopyFrom), so every holder of the same
// *Tensor observes them. This is what optimizers and the weight loader rely
// on when they mutate parameters owned by a layer.
//
// Example:
//
//	w := tensor.Xavier(tensor.Shape{3, 2})
//	g := tensor.ZerosLike(w)
//	sum := w.Sum()
package tensor

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrShapeMismatch reports two tensors of incompatible shape being combined,
// or ragged nesting where a uniform shape is required.
var ErrShapeMismatch = errors.New("tensor: shape mismatch")

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3} is a 2×3 matrix, Shape{5} a vector of length 5.
type Shape []int

// Equal reports whether two shapes have the same rank and dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i, dim := range s {
		if dim != other[i] {
			return false
		}
	}
	return true
}

// NumElements returns the total number of scalar elements a tensor of this
// shape holds.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

func (s Shape) String() string {
	return fmt.Sprintf("%v", []int(s))
}

// Tensor is a uniformly nested numeric array.
//
// The shape is fixed at construction; the contents are mutable. Scalars are
// stored row-major in a flat backing slice.
type Tensor struct {
	shape Shape
	data  []float64
}

// New creates a zero-filled tensor with the given shape.
//
// Panics if the shape has rank 0 or a non-positive dimension; a standalone
// rank-0 tensor does not exist in this framework.
func New(shape Shape) *Tensor {
	if len(shape) == 0 {
		panic("tensor: New: rank-0 shape")
	}
	for _, dim := range shape {
		if dim <= 0 {
			panic(fmt.Sprintf("tensor: New: invalid shape %v", shape))
		}
	}
	dims := make(Shape, len(shape))
	copy(dims, shape)
	return &Tensor{shape: dims, data: make([]float64, dims.NumElements())}
}

// FromSlice creates a tensor with the given shape from a flat row-major
// slice. The data is copied.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	t := New(shape)
	if len(data) != len(t.data) {
		return nil, fmt.Errorf("tensor: FromSlice: %d elements for shape %v: %w",
			len(data), shape, ErrShapeMismatch)
	}
	copy(t.data, data)
	return t, nil
}

// FromNested builds a tensor from a nested numeric array: nested Go slices
// of any numeric element type, or the []any trees produced by
// encoding/json. Every sibling sub-array at a given depth must have the same
// shape; ragged nesting is a shape-mismatch error.
func FromNested(v any) (*Tensor, error) {
	shape, err := nestedShape(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	t := New(shape)
	t.data = t.data[:0]
	if err := appendLeaves(&t.data, reflect.ValueOf(v), len(shape)); err != nil {
		return nil, err
	}
	return t, nil
}

// nestedShape descends through the outermost nesting, recording the length
// at each level and verifying that siblings agree.
func nestedShape(v reflect.Value) (Shape, error) {
	v = indirect(v)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("tensor: FromNested: not a nested array (got %s)", v.Kind())
	}
	if v.Len() == 0 {
		return nil, fmt.Errorf("tensor: FromNested: empty dimension: %w", ErrShapeMismatch)
	}
	first := indirect(v.Index(0))
	if first.Kind() != reflect.Slice && first.Kind() != reflect.Array {
		// Rank-1 base case: the elements are scalars.
		return Shape{v.Len()}, nil
	}
	sub, err := nestedShape(v.Index(0))
	if err != nil {
		return nil, err
	}
	for i := 1; i < v.Len(); i++ {
		sibling, err := nestedShape(v.Index(i))
		if err != nil {
			return nil, err
		}
		if !sub.Equal(sibling) {
			return nil, fmt.Errorf("tensor: FromNested: ragged nesting (%v vs %v): %w",
				sub, sibling, ErrShapeMismatch)
		}
	}
	return append(Shape{v.Len()}, sub...), nil
}

func appendLeaves(dst *[]float64, v reflect.Value, rank int) error {
	v = indirect(v)
	if rank == 1 {
		for i := 0; i < v.Len(); i++ {
			x, err := toFloat(indirect(v.Index(i)))
			if err != nil {
				return err
			}
			*dst = append(*dst, x)
		}
		return nil
	}
	for i := 0; i < v.Len(); i++ {
		if err := appendLeaves(dst, v.Index(i), rank-1); err != nil {
			return err
		}
	}
	return nil
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return v
}

func toFloat(v reflect.Value) (float64, error) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	default:
		return 0, fmt.Errorf("tensor: FromNested: non-numeric leaf of type %s", v.Kind())
	}
}

// Nested returns the nested-array view of the tensor: a []float64 for a
// rank-1 tensor, otherwise a []any of nested sub-arrays. The result shares
// no storage with the tensor and marshals to the expected JSON.
func (t *Tensor) Nested() any {
	return nested(t.data, t.shape)
}

func nested(data []float64, shape Shape) any {
	if len(shape) == 1 {
		leaf := make([]float64, len(data))
		copy(leaf, data)
		return leaf
	}
	stride := Shape(shape[1:]).NumElements()
	out := make([]any, shape[0])
	for i := range out {
		out[i] = nested(data[i*stride:(i+1)*stride], shape[1:])
	}
	return out
}

// Shape returns the tensor's dimensions. The returned slice must not be
// modified.
func (t *Tensor) Shape() Shape { return t.shape }

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int { return len(t.shape) }

// IsVector reports whether the tensor is rank-1, a flat numeric sequence.
func (t *Tensor) IsVector() bool { return len(t.shape) == 1 }

// NumElements returns the number of scalar elements.
func (t *Tensor) NumElements() int { return len(t.data) }

// Data returns the flat row-major backing slice. Writing through it mutates
// the tensor in place.
func (t *Tensor) Data() []float64 { return t.data }

// At returns the element at the given multi-dimensional index.
func (t *Tensor) At(indices ...int) float64 {
	return t.data[t.offset(indices)]
}

// SetAt stores a value at the given multi-dimensional index.
func (t *Tensor) SetAt(value float64, indices ...int) {
	t.data[t.offset(indices)] = value
}

func (t *Tensor) offset(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("tensor: %d indices for rank-%d tensor", len(indices), len(t.shape)))
	}
	off := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %v out of range for shape %v", indices, t.shape))
		}
		off = off*t.shape[i] + idx
	}
	return off
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	c := New(t.shape)
	copy(c.data, t.data)
	return c
}

// CopyFrom assigns src's elements into t in place, preserving t's identity
// so that every holder of t observes the new values. The shapes must match.
func (t *Tensor) CopyFrom(src *Tensor) error {
	if !t.shape.Equal(src.shape) {
		return fmt.Errorf("tensor: CopyFrom: %v into %v: %w", src.shape, t.shape, ErrShapeMismatch)
	}
	copy(t.data, src.data)
	return nil
}

// Apply applies f element-wise, returning a new tensor of identical shape.
func (t *Tensor) Apply(f func(float64) float64) *Tensor {
	out := New(t.shape)
	for i, x := range t.data {
		out.data[i] = f(x)
	}
	return out
}

// Combine applies a binary scalar function element-wise across two tensors
// of identical shape, pairing elements positionally. Unequal shapes are a
// shape-mismatch error rather than a silent zip-shortest.
func Combine(f func(a, b float64) float64, t1, t2 *Tensor) (*Tensor, error) {
	if !t1.shape.Equal(t2.shape) {
		return nil, fmt.Errorf("tensor: Combine: %v vs %v: %w", t1.shape, t2.shape, ErrShapeMismatch)
	}
	out := New(t1.shape)
	for i := range t1.data {
		out.data[i] = f(t1.data[i], t2.data[i])
	}
	return out, nil
}

// Sum returns the sum of all scalar elements.
func (t *Tensor) Sum() float64 {
	total := 0.0
	for _, x := range t.data {
		total += x
	}
	return total
}

// ZerosLike returns a zero-filled tensor with the same shape as t.
func ZerosLike(t *Tensor) *Tensor {
	return New(t.shape)
}

// ApproxEqual reports whether two tensors have equal shape and every pair of
// elements differs by at most tol.
func (t *Tensor) ApproxEqual(other *Tensor, tol float64) bool {
	if !t.shape.Equal(other.shape) {
		return false
	}
	for i := range t.data {
		diff := t.data[i] - other.data[i]
		if diff < -tol || diff > tol {
			return false
		}
	}
	return true
}
