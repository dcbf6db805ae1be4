// Package graph implements the undirected adjacency-list graph shared by
// the proximity-graph index types: vertices identified by a dense uint32
// id, edges stored as sorted neighbor lists, and a bitset-backed visited
// marker for traversal.
package graph

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// ErrUnknownVertex is returned when an operation references a vertex id
// that has not been inserted.
type ErrUnknownVertex struct {
	ID uint32
}

func (e *ErrUnknownVertex) Error() string {
	return fmt.Sprintf("graph: unknown vertex %d", e.ID)
}

// Graph is an undirected adjacency-list graph over dense uint32 vertex
// ids. It has no notion of edge weight; the caller's distance function
// supplies that externally.
type Graph struct {
	neighbors [][]uint32
	numEdges  int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// InsertVertex allocates and returns the next vertex id.
func (g *Graph) InsertVertex() uint32 {
	id := uint32(len(g.neighbors))
	g.neighbors = append(g.neighbors, nil)
	return id
}

// NumVertices returns the number of vertices inserted so far.
func (g *Graph) NumVertices() int {
	return len(g.neighbors)
}

// NumEdges returns the number of undirected edges currently present.
func (g *Graph) NumEdges() int {
	return g.numEdges
}

func (g *Graph) checkVertex(id uint32) error {
	if int(id) >= len(g.neighbors) {
		return &ErrUnknownVertex{ID: id}
	}
	return nil
}

// Neighbors returns the sorted neighbor list of id. The returned slice
// must not be mutated by the caller.
func (g *Graph) Neighbors(id uint32) ([]uint32, error) {
	if err := g.checkVertex(id); err != nil {
		return nil, err
	}
	return g.neighbors[id], nil
}

// Degree returns the number of neighbors of id.
func (g *Graph) Degree(id uint32) (int, error) {
	n, err := g.Neighbors(id)
	if err != nil {
		return 0, err
	}
	return len(n), nil
}

// InsertEdge adds an undirected edge between a and b. Self-loops and
// duplicate edges are no-ops.
func (g *Graph) InsertEdge(a, b uint32) error {
	if err := g.checkVertex(a); err != nil {
		return err
	}
	if err := g.checkVertex(b); err != nil {
		return err
	}
	if a == b {
		return nil
	}
	if g.addDirected(a, b) {
		g.addDirected(b, a)
		g.numEdges++
	}
	return nil
}

func (g *Graph) addDirected(from, to uint32) bool {
	list := g.neighbors[from]
	i := sort.Search(len(list), func(i int) bool { return list[i] >= to })
	if i < len(list) && list[i] == to {
		return false
	}
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = to
	g.neighbors[from] = list
	return true
}

// DeleteEdge removes the undirected edge between a and b, if present.
func (g *Graph) DeleteEdge(a, b uint32) error {
	if err := g.checkVertex(a); err != nil {
		return err
	}
	if err := g.checkVertex(b); err != nil {
		return err
	}
	if g.removeDirected(a, b) {
		g.removeDirected(b, a)
		g.numEdges--
	}
	return nil
}

func (g *Graph) removeDirected(from, to uint32) bool {
	list := g.neighbors[from]
	i := sort.Search(len(list), func(i int) bool { return list[i] >= to })
	if i >= len(list) || list[i] != to {
		return false
	}
	g.neighbors[from] = append(list[:i], list[i+1:]...)
	return true
}

// DeleteVertex removes id and every edge incident to it. Vertex ids are
// never reused, so the graph's id space develops a hole.
func (g *Graph) DeleteVertex(id uint32) error {
	if err := g.checkVertex(id); err != nil {
		return err
	}
	for _, n := range g.neighbors[id] {
		if g.removeDirected(n, id) {
			g.numEdges--
		}
	}
	g.neighbors[id] = nil
	return nil
}

// NewVisited returns a bitset sized to the graph's current vertex count,
// used to mark vertices seen during a traversal.
func (g *Graph) NewVisited() *bitset.BitSet {
	return bitset.New(uint(len(g.neighbors)))
}
