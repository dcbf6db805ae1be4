package graph_test

import (
	"testing"

	"github.com/anndex/anndex/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertEdgeIsUndirected(t *testing.T) {
	g := graph.New()
	a := g.InsertVertex()
	b := g.InsertVertex()

	require.NoError(t, g.InsertEdge(a, b))
	assert.Equal(t, 1, g.NumEdges())

	na, err := g.Neighbors(a)
	require.NoError(t, err)
	assert.Equal(t, []uint32{b}, na)

	nb, err := g.Neighbors(b)
	require.NoError(t, err)
	assert.Equal(t, []uint32{a}, nb)
}

func TestInsertEdgeIdempotent(t *testing.T) {
	g := graph.New()
	a := g.InsertVertex()
	b := g.InsertVertex()

	require.NoError(t, g.InsertEdge(a, b))
	require.NoError(t, g.InsertEdge(a, b))
	assert.Equal(t, 1, g.NumEdges())
}

func TestSelfLoopIsNoop(t *testing.T) {
	g := graph.New()
	a := g.InsertVertex()
	require.NoError(t, g.InsertEdge(a, a))
	assert.Equal(t, 0, g.NumEdges())
}

func TestDeleteEdge(t *testing.T) {
	g := graph.New()
	a := g.InsertVertex()
	b := g.InsertVertex()
	require.NoError(t, g.InsertEdge(a, b))
	require.NoError(t, g.DeleteEdge(a, b))
	assert.Equal(t, 0, g.NumEdges())

	na, err := g.Neighbors(a)
	require.NoError(t, err)
	assert.Empty(t, na)
}

func TestDeleteVertexRemovesIncidentEdges(t *testing.T) {
	g := graph.New()
	a := g.InsertVertex()
	b := g.InsertVertex()
	c := g.InsertVertex()
	require.NoError(t, g.InsertEdge(a, b))
	require.NoError(t, g.InsertEdge(a, c))

	require.NoError(t, g.DeleteVertex(a))
	assert.Equal(t, 0, g.NumEdges())

	nb, err := g.Neighbors(b)
	require.NoError(t, err)
	assert.Empty(t, nb)
}

func TestUnknownVertex(t *testing.T) {
	g := graph.New()
	_, err := g.Neighbors(7)
	require.Error(t, err)
	var unknown *graph.ErrUnknownVertex
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, uint32(7), unknown.ID)
}

func TestNewVisitedSizedToVertexCount(t *testing.T) {
	g := graph.New()
	g.InsertVertex()
	g.InsertVertex()
	v := g.NewVisited()
	assert.Equal(t, uint(2), v.Len())
}
