package matrix_test

import (
	"testing"

	"github.com/anndex/anndex/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndRows(t *testing.T) {
	m, err := matrix.New([][]float32{
		{1, 2, 3},
		{4, 5, 6},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumRows())
	assert.Equal(t, 3, m.NumCols())

	row0 := m.Row(0)
	assert.Equal(t, float32(1), row0.At(0))
	assert.Equal(t, float32(3), row0.At(2))

	rows := m.Rows()
	assert.Len(t, rows, 2)
	assert.Equal(t, float32(4), rows[1].At(0))
}

func TestRaggedRowsRejected(t *testing.T) {
	_, err := matrix.New([][]float32{
		{1, 2, 3},
		{4, 5},
	})
	require.Error(t, err)
	var ragged *matrix.ErrRaggedRows
	require.ErrorAs(t, err, &ragged)
	assert.Equal(t, 1, ragged.RowIndex)
	assert.Equal(t, 3, ragged.Expected)
	assert.Equal(t, 2, ragged.Actual)
}

func TestEmptyDatasetRejected(t *testing.T) {
	_, err := matrix.New[float32](nil)
	require.ErrorIs(t, err, matrix.ErrEmptyDataset)
}

func TestNormalizeRowsInPlace(t *testing.T) {
	m, err := matrix.New([][]float32{
		{3, 4},
		{0, 0},
	})
	require.NoError(t, err)
	m.NormalizeRowsInPlace()

	assert.InDelta(t, 1.0, m.Row(0).Vector().Norm(), 1e-6)
	assert.Equal(t, float32(0), m.Row(1).At(0))
}

func TestAsDenseDimensions(t *testing.T) {
	m, err := matrix.New([][]float64{
		{1, 2},
		{3, 4},
		{5, 6},
	})
	require.NoError(t, err)

	dense := matrix.AsDense(m)
	r, c := dense.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 4.0, dense.At(1, 1))
}
