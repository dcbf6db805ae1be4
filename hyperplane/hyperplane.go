// Package hyperplane implements the oriented hyperplane used to split a
// point set: a unit normal and an intercept, tested by the sign of a
// point's margin.
package hyperplane

import (
	"math"

	"github.com/anndex/anndex/vector"
)

// Hyperplane is the set of points v satisfying dot(Normal, v) + Intercept = 0.
// Normal is expected to be unit-length; callers that build one with a
// non-normalized direction get a hyperplane whose Margin/Distance are
// scaled accordingly but whose Side test remains correct.
type Hyperplane[T vector.Float] struct {
	Normal    vector.Vector[T]
	Intercept T
}

// Through builds the hyperplane with the given unit normal passing
// through the origin (Intercept = 0).
func Through[T vector.Float](normal vector.Vector[T]) Hyperplane[T] {
	return Hyperplane[T]{Normal: normal, Intercept: 0}
}

// ThroughPoint builds the hyperplane with the given unit normal passing
// through point, i.e. Intercept = -dot(normal, point).
func ThroughPoint[T vector.Float](normal vector.Vector[T], point vector.Vector[T]) Hyperplane[T] {
	return Hyperplane[T]{Normal: normal, Intercept: -normal.Dot(point)}
}

// ThroughMidpoint builds the hyperplane orthogonal to (b - a) and passing
// through the midpoint of a and b. This is the construction used to split
// a pair of sampled points in a random-projection tree.
func ThroughMidpoint[T vector.Float](a, b vector.Vector[T]) Hyperplane[T] {
	diff, _ := b.Sub(a)
	diff.NormalizeInPlace()

	mid := make(vector.Vector[T], len(a))
	for i := range a {
		mid[i] = (a[i] + b[i]) / 2
	}
	return ThroughPoint(diff, mid)
}

// Margin returns dot(Normal, v) + Intercept: the signed distance of v from
// the hyperplane when Normal is unit-length.
func (h Hyperplane[T]) Margin(v vector.Vector[T]) T {
	return h.Normal.Dot(v) + h.Intercept
}

// Side reports which side of the hyperplane v lies on: true for
// margin >= 0, false otherwise.
func (h Hyperplane[T]) Side(v vector.Vector[T]) bool {
	return h.Margin(v) >= 0
}

// Distance returns the unsigned distance of v from the hyperplane.
func (h Hyperplane[T]) Distance(v vector.Vector[T]) T {
	m := h.Margin(v)
	if m < 0 {
		return -m
	}
	return m
}

// IsUnitNormal reports whether Normal has L2 norm within tol of 1. It is a
// debug-time invariant check, not used on any hot path.
func (h Hyperplane[T]) IsUnitNormal(tol float64) bool {
	n := float64(h.Normal.Norm())
	return math.Abs(n-1) <= tol
}
