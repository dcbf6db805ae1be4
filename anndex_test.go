package anndex_test

import (
	"testing"

	"github.com/anndex/anndex"
	"github.com/anndex/anndex/index"
	"github.com/anndex/anndex/index/hnsw"
	"github.com/anndex/anndex/index/kdtree"
	"github.com/anndex/anndex/metric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExactRoundTrip(t *testing.T) {
	idx, err := anndex.New[float64](index.Exact, metric.L2, nil)
	require.NoError(t, err)
	require.NoError(t, idx.Fit([][]float64{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}))

	res, err := idx.KNNQuery([]float64{5, 0}, 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, uint32(0), res[0].ID)
}

func TestNewKdTreeAppliesIndexOptions(t *testing.T) {
	idx, err := anndex.New[float64](index.KdTree, metric.L2, []any{kdtree.WithLeafSize(1)})
	require.NoError(t, err)
	require.NoError(t, idx.Fit([][]float64{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}))

	res, err := idx.KNNQuery([]float64{5, 0}, 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, uint32(0), res[0].ID)
}

func TestNewRejectsMismatchedOptionType(t *testing.T) {
	_, err := anndex.New[float64](index.KdTree, metric.L2, []any{hnsw.WithM(8)})
	require.Error(t, err)
}

func TestNewRejectsUnknownKind(t *testing.T) {
	_, err := anndex.New[float64](index.Kind(99), metric.L2, nil)
	require.Error(t, err)
}

func TestNewRecordsMetricsAndLogs(t *testing.T) {
	mc := &anndex.BasicMetricsCollector{}
	idx, err := anndex.New[float64](index.Exact, metric.L2, nil,
		anndex.WithMetricsCollector(mc),
		anndex.WithLogger(anndex.NoopLogger()),
	)
	require.NoError(t, err)
	require.NoError(t, idx.Fit([][]float64{{1, 0}, {0, 1}}))
	_, err = idx.KNNQuery([]float64{1, 0}, 1)
	require.NoError(t, err)

	assert.EqualValues(t, 1, mc.FitCount)
	assert.EqualValues(t, 1, mc.KNNQueryCount)
}
