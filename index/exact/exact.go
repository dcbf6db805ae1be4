// Package exact implements the linear-scan index: no build-time
// structure beyond storing the matrix, used as a correctness oracle for
// the approximate variants and as a practical choice for small N.
package exact

import (
	"sort"

	"github.com/anndex/anndex/index"
	"github.com/anndex/anndex/matrix"
	"github.com/anndex/anndex/metric"
	"github.com/anndex/anndex/vector"
)

// Index is the exact (brute-force) nearest-neighbor index.
type Index[T vector.Float] struct {
	metricID metric.ID
	distFn   metric.Func[T]
	data     *matrix.Matrix[T]
}

// New constructs an unfitted exact index over the given metric.
func New[T vector.Float](metricID metric.ID) (*Index[T], error) {
	distFn, err := metric.Provider[T](metricID)
	if err != nil {
		return nil, err
	}
	return &Index[T]{metricID: metricID, distFn: distFn}, nil
}

// Kind reports index.Exact.
func (idx *Index[T]) Kind() index.Kind { return index.Exact }

// Fit stores rows as the index's matrix. It may be called only once.
func (idx *Index[T]) Fit(rows [][]T) error {
	m, err := matrix.New(rows)
	if err != nil {
		if _, ok := err.(*matrix.ErrRaggedRows); ok {
			return err
		}
		return index.ErrEmptyDataset
	}
	idx.data = m
	return nil
}

func (idx *Index[T]) checkQuery(q []T) error {
	if idx.data == nil {
		return index.ErrNotFitted
	}
	if len(q) != idx.data.NumCols() {
		return &index.ErrDimensionMismatch{Expected: idx.data.NumCols(), Actual: len(q)}
	}
	return nil
}

// KNNQuery scans every row, stable-sorts by distance, and returns the
// first min(k, N) indices.
func (idx *Index[T]) KNNQuery(q []T, k int) ([]index.SearchResult[T], error) {
	if err := idx.checkQuery(q); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}
	if k > idx.data.NumRows() {
		k = idx.data.NumRows()
	}

	results := idx.allDistances(q)
	sort.SliceStable(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	return results[:k], nil
}

// RadiusQuery scans every row and returns those within r, ascending by
// distance. r < 0 yields an empty result.
func (idx *Index[T]) RadiusQuery(q []T, r T) ([]index.SearchResult[T], error) {
	if err := idx.checkQuery(q); err != nil {
		return nil, err
	}
	if r < 0 {
		return nil, nil
	}

	all := idx.allDistances(q)
	out := all[:0:0]
	for _, res := range all {
		if res.Distance <= r {
			out = append(out, res)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out, nil
}

func (idx *Index[T]) allDistances(q []T) []index.SearchResult[T] {
	n := idx.data.NumRows()
	out := make([]index.SearchResult[T], n)
	for i := 0; i < n; i++ {
		row := idx.data.Row(i)
		out[i] = index.SearchResult[T]{ID: uint32(i), Distance: idx.distFn(q, row.Raw())}
	}
	return out
}
