// Package metric defines the distance metrics indexes are built against:
// an identifier enum, a per-type function provider, and the L2/cosine
// implementations themselves.
package metric

import (
	"fmt"
	"math"

	"github.com/anndex/anndex/vector"
)

// ID names a supported distance metric.
type ID int

const (
	// L2 is Euclidean distance.
	L2 ID = iota
	// L2Squared is squared Euclidean distance. Monotonic with L2 and
	// avoids a square root, so it ranks neighbors in the same order as L2.
	L2Squared
	// Cosine is 1 minus cosine similarity, so that smaller is closer,
	// consistent with the other metrics.
	Cosine
)

func (id ID) String() string {
	switch id {
	case L2Squared:
		return "L2Squared"
	case L2:
		return "L2"
	case Cosine:
		return "Cosine"
	default:
		return fmt.Sprintf("Unknown(%d)", int(id))
	}
}

// ErrUnsupportedMetric is returned by Provider for an ID it does not know.
type ErrUnsupportedMetric struct {
	ID ID
}

func (e *ErrUnsupportedMetric) Error() string {
	return fmt.Sprintf("metric: unsupported metric %v", e.ID)
}

// Func computes the distance between two equal-length vectors. Callers
// are responsible for matching lengths.
type Func[T vector.Float] func(a, b []T) T

// Provider returns the distance function for id. An *ErrUnsupportedMetric
// is returned for an unrecognized id.
func Provider[T vector.Float](id ID) (Func[T], error) {
	switch id {
	case L2Squared:
		return SquaredL2[T], nil
	case L2:
		return L2Distance[T], nil
	case Cosine:
		return CosineDistance[T], nil
	default:
		return nil, &ErrUnsupportedMetric{ID: id}
	}
}

// SquaredL2 returns the squared Euclidean distance between a and b.
func SquaredL2[T vector.Float](a, b []T) T {
	var sum T
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// L2Distance returns the Euclidean distance between a and b.
func L2Distance[T vector.Float](a, b []T) T {
	return sqrtT(SquaredL2(a, b))
}

// CosineDistance returns 1 - cosine_similarity(a, b). Returns 1 (maximal
// distance) when either vector has zero magnitude.
func CosineDistance[T vector.Float](a, b []T) T {
	dot := vector.Dot(a, b)
	magA := sqrtT(vector.Dot(a, a))
	magB := sqrtT(vector.Dot(b, b))
	if magA == 0 || magB == 0 {
		return 1
	}
	return 1 - dot/(magA*magB)
}

func sqrtT[T vector.Float](x T) T {
	return T(math.Sqrt(float64(x)))
}
