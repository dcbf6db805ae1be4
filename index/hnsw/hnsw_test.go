package hnsw_test

import (
	"math/rand"
	"testing"

	"github.com/anndex/anndex/index"
	"github.com/anndex/anndex/index/hnsw"
	"github.com/anndex/anndex/metric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func axisCross(t *testing.T) *hnsw.Index[float64] {
	t.Helper()
	idx, err := hnsw.New[float64](metric.L2, hnsw.WithM(4), hnsw.WithEFConstruction(20), hnsw.WithEFSearch(20), hnsw.WithSeed(42))
	require.NoError(t, err)
	require.NoError(t, idx.Fit([][]float64{
		{1, 0},
		{0, 1},
		{-1, 0},
		{0, -1},
	}))
	return idx
}

func uniformVectors(n, d int, seed int64) [][]float64 {
	r := rand.New(rand.NewSource(seed))
	rows := make([][]float64, n)
	for i := range rows {
		row := make([]float64, d)
		for j := range row {
			row[j] = r.Float64()
		}
		rows[i] = row
	}
	return rows
}

func TestQueryReturnsItselfAmongLargeUniformSet(t *testing.T) {
	rows := uniformVectors(10000, 16, 7)
	idx, err := hnsw.New[float64](metric.L2, hnsw.WithSeed(7))
	require.NoError(t, err)
	require.NoError(t, idx.Fit(rows))

	q := append([]float64(nil), rows[1234]...)
	res, err := idx.KNNQuery(q, 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, uint32(1234), res[0].ID)
	assert.InDelta(t, 0, res[0].Distance, 1e-9)
}

func TestKNNReturnsClosestOnSmallSet(t *testing.T) {
	idx := axisCross(t)
	res, err := idx.KNNQuery([]float64{5, 0}, 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, uint32(0), res[0].ID)
}

func TestKNNKZeroIsEmpty(t *testing.T) {
	idx := axisCross(t)
	res, err := idx.KNNQuery([]float64{0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestKNNClampsToPopulationSize(t *testing.T) {
	idx := axisCross(t)
	res, err := idx.KNNQuery([]float64{0, 0}, 1000)
	require.NoError(t, err)
	assert.Len(t, res, 4)
}

func TestDimensionMismatch(t *testing.T) {
	idx := axisCross(t)
	_, err := idx.KNNQuery([]float64{0, 0, 0}, 1)
	require.Error(t, err)
	var mismatch *index.ErrDimensionMismatch
	require.ErrorAs(t, err, &mismatch)
}

func TestRadiusQueryUnsupported(t *testing.T) {
	idx := axisCross(t)
	_, err := idx.RadiusQuery([]float64{0, 0}, 1.0)
	require.Error(t, err)
	var unsupported *index.ErrUnsupportedOperation
	require.ErrorAs(t, err, &unsupported)
}

func TestQueryBeforeFitReturnsNotFitted(t *testing.T) {
	idx, err := hnsw.New[float64](metric.L2)
	require.NoError(t, err)
	_, err = idx.KNNQuery([]float64{0, 0}, 1)
	require.ErrorIs(t, err, index.ErrNotFitted)
}

func TestCosineClustering(t *testing.T) {
	idx, err := hnsw.New[float64](metric.Cosine, hnsw.WithSeed(99))
	require.NoError(t, err)

	clusterA := [][]float64{{-5, -5}, {-5.1, -4.9}, {-4.9, -5.1}, {-5.2, -5}}
	clusterB := [][]float64{{5, 5}, {5.1, 4.9}, {4.9, 5.1}, {5.2, 5}}
	data := append(append([][]float64{}, clusterA...), clusterB...)
	require.NoError(t, idx.Fit(data))

	res, err := idx.KNNQuery([]float64{-5, -5}, len(clusterA))
	require.NoError(t, err)
	require.Len(t, res, len(clusterA))
	for _, r := range res {
		assert.Less(t, r.ID, uint32(len(clusterA)))
	}
}

func TestSinglePointDataset(t *testing.T) {
	idx, err := hnsw.New[float64](metric.L2)
	require.NoError(t, err)
	require.NoError(t, idx.Fit([][]float64{{3, 4}}))
	res, err := idx.KNNQuery([]float64{0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, uint32(0), res[0].ID)
}

func TestFitRejectsEmptyDataset(t *testing.T) {
	idx, err := hnsw.New[float64](metric.L2)
	require.NoError(t, err)
	err = idx.Fit(nil)
	require.ErrorIs(t, err, index.ErrEmptyDataset)
}

func TestFitRejectsRaggedRows(t *testing.T) {
	idx, err := hnsw.New[float64](metric.L2)
	require.NoError(t, err)
	err = idx.Fit([][]float64{{1, 2}, {1, 2, 3}})
	require.Error(t, err)
}
