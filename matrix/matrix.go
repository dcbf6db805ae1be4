// Package matrix provides the N×d dense matrix primitive: an immutable,
// contiguously-stored collection of equal-length rows, with borrowed row
// views and a builder that rejects ragged input.
package matrix

import (
	"fmt"

	"github.com/anndex/anndex/vector"
	"gonum.org/v1/gonum/mat"
)

// ErrRaggedRows is returned when the rows passed to New do not all share
// the same length.
type ErrRaggedRows struct {
	RowIndex     int
	Expected     int
	Actual       int
}

func (e *ErrRaggedRows) Error() string {
	return fmt.Sprintf("matrix: ragged rows: row %d has length %d, expected %d", e.RowIndex, e.Actual, e.Expected)
}

// ErrEmptyDataset is returned when New is called with zero rows.
var ErrEmptyDataset = fmt.Errorf("matrix: dataset must contain at least one row")

// Matrix holds N rows of dimension d in one contiguous allocation. Apart
// from NormalizeRowsInPlace, it has no mutation API, only read access.
type Matrix[T vector.Float] struct {
	data []T
	rows int
	cols int
}

// New builds a Matrix from an ordered sequence of equal-length rows. Rows
// are copied into one contiguous backing array. Returns ErrEmptyDataset for
// zero rows, and *ErrRaggedRows if row lengths differ.
func New[T vector.Float](rows [][]T) (*Matrix[T], error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	d := len(rows[0])
	data := make([]T, 0, len(rows)*d)
	for i, row := range rows {
		if len(row) != d {
			return nil, &ErrRaggedRows{RowIndex: i, Expected: d, Actual: len(row)}
		}
		data = append(data, row...)
	}
	return &Matrix[T]{data: data, rows: len(rows), cols: d}, nil
}

// NumRows returns N.
func (m *Matrix[T]) NumRows() int {
	return m.rows
}

// NumCols returns d.
func (m *Matrix[T]) NumCols() int {
	return m.cols
}

// Row returns a borrowed view onto row i. The view must not outlive m.
func (m *Matrix[T]) Row(i int) vector.View[T] {
	start := i * m.cols
	return vector.NewView(m.data[start : start+m.cols : start+m.cols])
}

// Rows returns an iterator-free slice of all row views, in index order.
func (m *Matrix[T]) Rows() []vector.View[T] {
	out := make([]vector.View[T], m.rows)
	for i := 0; i < m.rows; i++ {
		out[i] = m.Row(i)
	}
	return out
}

// NormalizeRowsInPlace L2-normalizes every row in place. Rows with zero
// norm are left unchanged (normalization is a no-op for them).
func (m *Matrix[T]) NormalizeRowsInPlace() {
	for i := 0; i < m.rows; i++ {
		m.Row(i).Vector().NormalizeInPlace()
	}
}

// AsDense returns a gonum mat.Dense view of the matrix for T = float64.
// It is only meaningful for the float64 specialization; callers using
// float32 should convert explicitly if they need gonum interop.
func AsDense(m *Matrix[float64]) *mat.Dense {
	return mat.NewDense(m.rows, m.cols, m.data)
}
