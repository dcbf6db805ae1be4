// Package hnsw implements a hierarchical navigable small-world graph: a
// tower of proximity graphs of geometrically decreasing size, searched
// top-down with a single greedy descent per level above the base layer and
// a width-ef best-first expansion at the base.
package hnsw

import (
	"math"
	mathrand "math/rand"
	"sort"

	"github.com/anndex/anndex/graph"
	"github.com/anndex/anndex/index"
	"github.com/anndex/anndex/internal/rng"
	"github.com/anndex/anndex/matrix"
	"github.com/anndex/anndex/metric"
	"github.com/anndex/anndex/queue"
	"github.com/anndex/anndex/vector"
)

// Defaults for the graph's build parameters.
const (
	DefaultM              = 16
	DefaultEFConstruction = 100
	DefaultEFSearch       = 100
	DefaultMaxLevel       = 4
)

// Options configures a new Index.
type Options struct {
	// M is the number of neighbors a newly inserted node links to at every
	// layer it participates in, except layer 0 where up to 2*M are kept.
	M int
	// EFConstruction is the candidate list width used while inserting.
	EFConstruction int
	// EFSearch is the candidate list width used at the base layer during
	// a query.
	EFSearch int
	// MaxLevel caps how many layers above the base the graph may grow.
	MaxLevel int
	// Heuristic selects the diversity-filtering neighbor heuristic over
	// plain closest-M selection.
	Heuristic bool
	Seed      int64
	seeded    bool
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the default build parameters. Seed is left
// unset; New draws one from OS entropy unless WithSeed is given.
func DefaultOptions() Options {
	return Options{
		M:              DefaultM,
		EFConstruction: DefaultEFConstruction,
		EFSearch:       DefaultEFSearch,
		MaxLevel:       DefaultMaxLevel,
		Heuristic:      false,
	}
}

// WithM overrides the per-layer neighbor count.
func WithM(m int) Option { return func(o *Options) { o.M = m } }

// WithEFConstruction overrides the build-time candidate list width.
func WithEFConstruction(ef int) Option { return func(o *Options) { o.EFConstruction = ef } }

// WithEFSearch overrides the query-time base-layer candidate list width.
func WithEFSearch(ef int) Option { return func(o *Options) { o.EFSearch = ef } }

// WithMaxLevel overrides the maximum layer index.
func WithMaxLevel(l int) Option { return func(o *Options) { o.MaxLevel = l } }

// WithHeuristic toggles the diversity-filtering neighbor heuristic.
func WithHeuristic(on bool) Option { return func(o *Options) { o.Heuristic = on } }

// WithSeed fixes the RNG seed used to draw node levels, for reproducible
// builds.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed; o.seeded = true }
}

// Index is the HNSW approximate nearest-neighbor index.
type Index[T vector.Float] struct {
	opts     Options
	metricID metric.ID
	distFn   metric.Func[T]
	mL       float64
	rng      *mathrand.Rand

	vectors    [][]T
	layers     []*graph.Graph
	levelOf    []int
	entryPoint uint32
	maxLevel   int
}

// New constructs an unfitted HNSW index.
func New[T vector.Float](metricID metric.ID, optFns ...Option) (*Index[T], error) {
	distFn, err := metric.Provider[T](metricID)
	if err != nil {
		return nil, err
	}
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.M < 2 {
		opts.M = DefaultM
	}
	if opts.EFConstruction < 1 {
		opts.EFConstruction = DefaultEFConstruction
	}
	if opts.EFSearch < 1 {
		opts.EFSearch = DefaultEFSearch
	}
	if opts.MaxLevel < 1 {
		opts.MaxLevel = DefaultMaxLevel
	}
	seed := opts.Seed
	if !opts.seeded {
		seed = rng.NewEntropySeed()
	}
	return &Index[T]{
		opts:     opts,
		metricID: metricID,
		distFn:   distFn,
		mL:       1 / math.Log(float64(opts.M)),
		rng:      rng.New(seed),
		maxLevel: -1,
	}, nil
}

// Kind reports index.Hnsw.
func (idx *Index[T]) Kind() index.Kind { return index.Hnsw }

// Fit builds the graph by inserting rows in order. For the cosine metric,
// every row is L2-normalized before insertion.
func (idx *Index[T]) Fit(rows [][]T) error {
	m, err := matrix.New(rows)
	if err != nil {
		if _, ok := err.(*matrix.ErrRaggedRows); ok {
			return err
		}
		return index.ErrEmptyDataset
	}
	if idx.metricID == metric.Cosine {
		m.NormalizeRowsInPlace()
	}

	idx.vectors = nil
	idx.layers = nil
	idx.levelOf = nil
	idx.maxLevel = -1

	for _, row := range m.Rows() {
		idx.insert(append([]T(nil), row.Raw()...))
	}
	return nil
}

func (idx *Index[T]) drawLevel() int {
	u := idx.rng.Float64()
	if u <= 0 {
		u = math.SmallestNonzeroFloat64
	}
	level := int(math.Floor(-math.Log(u) * idx.mL))
	if level > idx.opts.MaxLevel {
		level = idx.opts.MaxLevel
	}
	return level
}

// ensureLayer grows idx.layers so layer l exists, backfilling any new
// graph with one vertex per point already present.
func (idx *Index[T]) ensureLayer(l int) {
	for len(idx.layers) <= l {
		g := graph.New()
		for i := 0; i < len(idx.vectors); i++ {
			g.InsertVertex()
		}
		idx.layers = append(idx.layers, g)
	}
}

func (idx *Index[T]) insert(v []T) {
	id := uint32(len(idx.vectors))
	idx.vectors = append(idx.vectors, v)

	for _, g := range idx.layers {
		g.InsertVertex()
	}

	level := idx.drawLevel()
	idx.levelOf = append(idx.levelOf, level)
	idx.ensureLayer(level)

	if idx.maxLevel == -1 {
		idx.maxLevel = level
		idx.entryPoint = id
		return
	}

	ep := []uint32{idx.entryPoint}
	for l := idx.maxLevel; l > level; l-- {
		w := idx.searchLayer(idx.layers[l], v, ep, 1)
		if len(w) > 0 {
			ep = []uint32{w[0].ID}
		}
	}

	top := level
	if idx.maxLevel < top {
		top = idx.maxLevel
	}
	for l := top; l >= 0; l-- {
		w := idx.searchLayer(idx.layers[l], v, ep, idx.opts.EFConstruction)
		neighbors := idx.selectNeighbors(w, idx.opts.M)
		for _, nb := range neighbors {
			idx.layers[l].InsertEdge(id, nb)
		}
		cap := idx.opts.M
		if l == 0 {
			cap = 2 * idx.opts.M
		}
		for _, nb := range neighbors {
			idx.shrink(l, nb, cap)
		}
		ep = make([]uint32, len(w))
		for i, it := range w {
			ep[i] = it.ID
		}
	}

	if level > idx.maxLevel {
		idx.maxLevel = level
		idx.entryPoint = id
	}
}

// shrink trims id's neighbor list at layer l down to cap closest vertices,
// by id's own vector, when it has grown past cap.
func (idx *Index[T]) shrink(l int, id uint32, cap int) {
	neighbors, err := idx.layers[l].Neighbors(id)
	if err != nil || len(neighbors) <= cap {
		return
	}
	type pair struct {
		id uint32
		d  T
	}
	pairs := make([]pair, len(neighbors))
	for i, n := range neighbors {
		pairs[i] = pair{n, idx.distFn(idx.vectors[id], idx.vectors[n])}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].d < pairs[j].d })
	for _, p := range pairs[cap:] {
		idx.layers[l].DeleteEdge(id, p.id)
	}
}

// selectNeighbors picks up to m ids from w, an ascending-by-distance
// candidate list. With Heuristic on, a candidate is rejected when it is
// closer to an already-selected neighbor than to the query, a diversity
// filter that avoids clustering all M links on one side of the query;
// rejected candidates still backfill the list if fewer than m survive the
// filter.
func (idx *Index[T]) selectNeighbors(w []queue.Item[T], m int) []uint32 {
	if !idx.opts.Heuristic {
		n := m
		if n > len(w) {
			n = len(w)
		}
		out := make([]uint32, n)
		for i := 0; i < n; i++ {
			out[i] = w[i].ID
		}
		return out
	}

	var selected []uint32
	var leftover []uint32
	for _, cand := range w {
		if len(selected) >= m {
			break
		}
		keep := true
		for _, s := range selected {
			if idx.distFn(idx.vectors[s], idx.vectors[cand.ID]) < cand.Distance {
				keep = false
				break
			}
		}
		if keep {
			selected = append(selected, cand.ID)
		} else {
			leftover = append(leftover, cand.ID)
		}
	}
	for i := 0; len(selected) < m && i < len(leftover); i++ {
		selected = append(selected, leftover[i])
	}
	return selected
}

// searchLayer performs best-first expansion from entryPoints over g,
// returning up to ef nearest items ascending by distance.
func (idx *Index[T]) searchLayer(g *graph.Graph, q []T, entryPoints []uint32, ef int) []queue.Item[T] {
	visited := g.NewVisited()
	w := queue.NewBounded[T](ef)
	cand := queue.New[T](false)

	for _, id := range entryPoints {
		if visited.Test(uint(id)) {
			continue
		}
		visited.Set(uint(id))
		d := idx.distFn(q, idx.vectors[id])
		w.Push(id, d)
		cand.PushItem(id, d)
	}

	for cand.Len() > 0 {
		c := cand.PopItem()
		if c.Distance > w.Worst() {
			break
		}
		neighbors, err := g.Neighbors(c.ID)
		if err != nil {
			continue
		}
		for _, n := range neighbors {
			if visited.Test(uint(n)) {
				continue
			}
			visited.Set(uint(n))
			d := idx.distFn(q, idx.vectors[n])
			if w.Push(n, d) {
				cand.PushItem(n, d)
			}
		}
	}
	return w.Drain()
}

func (idx *Index[T]) checkQuery(q []T) error {
	if idx.maxLevel == -1 {
		return index.ErrNotFitted
	}
	if len(q) != len(idx.vectors[0]) {
		return &index.ErrDimensionMismatch{Expected: len(idx.vectors[0]), Actual: len(q)}
	}
	return nil
}

func (idx *Index[T]) prepareQuery(q []T) []T {
	if idx.metricID != metric.Cosine {
		return q
	}
	cp := vector.New(append([]T(nil), q...))
	cp.NormalizeInPlace()
	return cp
}

// KNNQuery greedily descends the upper layers to a single entry point,
// then performs a width-EFSearch best-first expansion at the base layer.
func (idx *Index[T]) KNNQuery(q []T, k int) ([]index.SearchResult[T], error) {
	if err := idx.checkQuery(q); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	qq := idx.prepareQuery(q)
	ep := []uint32{idx.entryPoint}
	for l := idx.maxLevel; l >= 1; l-- {
		w := idx.searchLayer(idx.layers[l], qq, ep, 1)
		if len(w) > 0 {
			ep = []uint32{w[0].ID}
		}
	}

	w := idx.searchLayer(idx.layers[0], qq, ep, idx.opts.EFSearch)
	if k > len(w) {
		k = len(w)
	}
	out := make([]index.SearchResult[T], k)
	for i := 0; i < k; i++ {
		out[i] = index.SearchResult[T]{ID: w[i].ID, Distance: w[i].Distance}
	}
	return out, nil
}

// RadiusQuery is not supported: the layered graph has no guarantee of
// reaching every point within r of q, only of approximating the k nearest.
func (idx *Index[T]) RadiusQuery(q []T, r T) ([]index.SearchResult[T], error) {
	return nil, &index.ErrUnsupportedOperation{Kind: index.Hnsw, Operation: "radius query"}
}
