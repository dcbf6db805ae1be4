// Package floateq implements approximate float equality: a relative
// tolerance around the larger operand's magnitude, with an absolute
// fallback near zero where relative tolerance is meaningless.
package floateq

import "math"

// DefaultEpsilon is the tolerance callers pass to Equal when they need no
// specific one.
const DefaultEpsilon = 1e-9

// Equal reports whether a and b are equal within epsilon, using a relative
// comparison scaled by the larger magnitude and falling back to an
// absolute comparison when both operands are close to zero.
func Equal(a, b, epsilon float64) bool {
	diff := math.Abs(a - b)
	if diff <= epsilon {
		return true
	}
	largest := math.Max(math.Abs(a), math.Abs(b))
	return diff <= largest*epsilon
}
