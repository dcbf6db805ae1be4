// Package vector provides the fixed-length numeric vector primitive shared
// by every index type: arithmetic, dot product, L2 norm, and in-place
// normalization.
package vector

import (
	"fmt"
	"math"

	"github.com/anndex/anndex/internal/simd"
	"gonum.org/v1/gonum/floats"
)

// Float is the set of real element types a Vector may hold.
type Float interface {
	~float32 | ~float64
}

// ErrLengthMismatch is returned when two vectors of different lengths are
// combined.
type ErrLengthMismatch struct {
	A, B int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("vector: length mismatch: %d vs %d", e.A, e.B)
}

// Vector is a fixed-length sequence of T. It owns no storage beyond the
// underlying slice; copying a Vector copies the slice header, not the data.
type Vector[T Float] []T

// New wraps data as a Vector. data is not copied.
func New[T Float](data []T) Vector[T] {
	return Vector[T](data)
}

// Clone returns an independent copy of v.
func (v Vector[T]) Clone() Vector[T] {
	out := make(Vector[T], len(v))
	copy(out, v)
	return out
}

// Dim returns the number of elements.
func (v Vector[T]) Dim() int {
	return len(v)
}

// Equal reports whether v and other are component-wise exactly equal.
func (v Vector[T]) Equal(other Vector[T]) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if v[i] != other[i] {
			return false
		}
	}
	return true
}

// AddScalar returns v + s, element-wise.
func (v Vector[T]) AddScalar(s T) Vector[T] {
	out := make(Vector[T], len(v))
	for i, x := range v {
		out[i] = x + s
	}
	return out
}

// SubScalar returns v - s, element-wise.
func (v Vector[T]) SubScalar(s T) Vector[T] {
	return v.AddScalar(-s)
}

// Scale returns v * s, element-wise.
func (v Vector[T]) Scale(s T) Vector[T] {
	out := make(Vector[T], len(v))
	for i, x := range v {
		out[i] = x * s
	}
	return out
}

// Div returns v / s, element-wise.
func (v Vector[T]) Div(s T) Vector[T] {
	return v.Scale(1 / s)
}

// Add returns v + other, element-wise. Returns *ErrLengthMismatch when
// lengths differ.
func (v Vector[T]) Add(other Vector[T]) (Vector[T], error) {
	if len(v) != len(other) {
		return nil, &ErrLengthMismatch{A: len(v), B: len(other)}
	}
	out := make(Vector[T], len(v))
	for i := range v {
		out[i] = v[i] + other[i]
	}
	return out, nil
}

// Sub returns v - other, element-wise.
func (v Vector[T]) Sub(other Vector[T]) (Vector[T], error) {
	if len(v) != len(other) {
		return nil, &ErrLengthMismatch{A: len(v), B: len(other)}
	}
	out := make(Vector[T], len(v))
	for i := range v {
		out[i] = v[i] - other[i]
	}
	return out, nil
}

// Dot returns the dot product of v and other. Callers are responsible for
// matching lengths (hot path, no bounds check beyond what the runtime gives
// for free).
func (v Vector[T]) Dot(other Vector[T]) T {
	return Dot(v, other)
}

// Dot is the free-function form, used internally where an allocation-free
// call site is preferred over a method value.
func Dot[T Float](a, b []T) T {
	switch va := any(a).(type) {
	case []float64:
		vb, _ := any(b).([]float64)
		return T(floats.Dot(va, vb))
	case []float32:
		vb, _ := any(b).([]float32)
		n := len(va)
		if len(vb) < n {
			n = len(vb)
		}
		return T(simd.Dot(va[:n], vb[:n]))
	default:
		var sum T
		n := len(a)
		if len(b) < n {
			n = len(b)
		}
		for i := 0; i < n; i++ {
			sum += a[i] * b[i]
		}
		return sum
	}
}

// NormSquared returns the squared L2 norm (sum of squared elements).
func (v Vector[T]) NormSquared() T {
	return Dot[T](v, v)
}

// Norm returns the L2 norm (vector length).
func (v Vector[T]) Norm() T {
	n2 := v.NormSquared()
	return T(math.Sqrt(float64(n2)))
}

// NormalizeInPlace divides v by its L2 norm, in place. Returns false (and
// leaves v unmodified) if v has zero norm.
func (v Vector[T]) NormalizeInPlace() bool {
	n2 := v.NormSquared()
	if n2 == 0 {
		return false
	}
	inv := T(1 / math.Sqrt(float64(n2)))
	for i := range v {
		v[i] *= inv
	}
	return true
}

// NormalizeCopy returns a normalized copy of v, and false if v has zero
// norm (in which case the copy is returned unmodified).
func (v Vector[T]) NormalizeCopy() (Vector[T], bool) {
	out := v.Clone()
	ok := out.NormalizeInPlace()
	return out, ok
}
