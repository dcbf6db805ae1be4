// Package rpforest implements a forest of independent random-projection
// trees: each internal node splits its point set by a randomly chosen
// hyperplane, and queries perform a margin-ordered best-first walk
// across all trees at once, capped by a total candidate budget.
package rpforest

import (
	"container/heap"
	mathrand "math/rand"
	"sort"

	"github.com/anndex/anndex/hyperplane"
	"github.com/anndex/anndex/index"
	"github.com/anndex/anndex/internal/floateq"
	"github.com/anndex/anndex/internal/rng"
	"github.com/anndex/anndex/matrix"
	"github.com/anndex/anndex/metric"
	"github.com/anndex/anndex/vector"
)

// Defaults for the forest's build parameters.
const (
	DefaultNumTrees = 100
	DefaultLeafSize = 40
	// maxSplitAttempts bounds how many random pairs a node tries before
	// concluding every point in its set is equal and emitting a leaf.
	maxSplitAttempts = 3
)

// Options configures a new Index.
type Options struct {
	NumTrees int
	LeafSize int
	Seed     int64
	seeded   bool
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the default build parameters. Seed is left
// unset; New draws one from OS entropy unless WithSeed is given.
func DefaultOptions() Options {
	return Options{NumTrees: DefaultNumTrees, LeafSize: DefaultLeafSize}
}

// WithNumTrees overrides the number of trees in the forest.
func WithNumTrees(n int) Option {
	return func(o *Options) { o.NumTrees = n }
}

// WithLeafSize overrides the leaf capacity.
func WithLeafSize(n int) Option {
	return func(o *Options) { o.LeafSize = n }
}

// WithSeed fixes the RNG seed, for reproducible builds.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Seed = seed; o.seeded = true }
}

type node[T vector.Float] struct {
	isLeaf  bool
	plane   hyperplane.Hyperplane[T]
	left    int32
	right   int32
	indices []uint32
}

type tree[T vector.Float] struct {
	nodes []node[T]
	root  int32
}

// Index is the RP-forest approximate nearest-neighbor index.
type Index[T vector.Float] struct {
	opts     Options
	metricID metric.ID
	distFn   metric.Func[T]
	data     *matrix.Matrix[T]
	trees    []tree[T]
	rng      *mathrand.Rand
}

// New constructs an unfitted RP-forest index.
func New[T vector.Float](metricID metric.ID, optFns ...Option) (*Index[T], error) {
	distFn, err := metric.Provider[T](metricID)
	if err != nil {
		return nil, err
	}
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.NumTrees < 1 {
		opts.NumTrees = DefaultNumTrees
	}
	if opts.LeafSize < 1 {
		opts.LeafSize = DefaultLeafSize
	}
	seed := opts.Seed
	if !opts.seeded {
		seed = rng.NewEntropySeed()
	}
	return &Index[T]{opts: opts, metricID: metricID, distFn: distFn, rng: rng.New(seed)}, nil
}

// Kind reports index.RpForest.
func (idx *Index[T]) Kind() index.Kind { return index.RpForest }

// Fit builds the forest over rows. For the cosine metric, every row is
// L2-normalized in place before any tree is built.
func (idx *Index[T]) Fit(rows [][]T) error {
	m, err := matrix.New(rows)
	if err != nil {
		if _, ok := err.(*matrix.ErrRaggedRows); ok {
			return err
		}
		return index.ErrEmptyDataset
	}
	idx.data = m
	if idx.metricID == metric.Cosine {
		idx.data.NormalizeRowsInPlace()
	}

	all := make([]uint32, m.NumRows())
	for i := range all {
		all[i] = uint32(i)
	}

	idx.trees = make([]tree[T], idx.opts.NumTrees)
	for t := range idx.trees {
		b := &builder[T]{idx: idx}
		root := b.build(all)
		idx.trees[t] = tree[T]{nodes: b.nodes, root: root}
	}
	return nil
}

// builder constructs a single tree's arena.
type builder[T vector.Float] struct {
	idx   *Index[T]
	nodes []node[T]
}

func (b *builder[T]) build(indices []uint32) int32 {
	if len(indices) <= b.idx.opts.LeafSize {
		return b.leaf(indices)
	}

	plane, left, right, ok := b.split(indices)
	if !ok {
		return b.leaf(indices)
	}

	leftIdx := b.build(left)
	rightIdx := b.build(right)
	b.nodes = append(b.nodes, node[T]{plane: plane, left: leftIdx, right: rightIdx})
	return int32(len(b.nodes) - 1)
}

func (b *builder[T]) leaf(indices []uint32) int32 {
	b.nodes = append(b.nodes, node[T]{isLeaf: true, indices: indices})
	return int32(len(b.nodes) - 1)
}

func (b *builder[T]) split(indices []uint32) (hyperplane.Hyperplane[T], []uint32, []uint32, bool) {
	n := len(indices)
	var pa, pb vector.Vector[T]
	found := false
	for attempt := 0; attempt < maxSplitAttempts; attempt++ {
		i := b.idx.rng.Intn(n)
		j := b.idx.rng.Intn(n)
		if i == j {
			continue
		}
		a := b.idx.data.Row(int(indices[i])).Vector()
		c := b.idx.data.Row(int(indices[j])).Vector()
		if !vectorsEqual(a, c) {
			pa, pb = a, c
			found = true
			break
		}
	}
	if !found {
		return hyperplane.Hyperplane[T]{}, nil, nil, false
	}

	var plane hyperplane.Hyperplane[T]
	if b.idx.metricID == metric.Cosine {
		diff, _ := pb.Sub(pa)
		diff.NormalizeInPlace()
		plane = hyperplane.Through(diff)
	} else {
		plane = hyperplane.ThroughMidpoint(pa, pb)
	}

	var left, right []uint32
	for _, id := range indices {
		if plane.Side(b.idx.data.Row(int(id)).Vector()) {
			right = append(right, id)
		} else {
			left = append(left, id)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return hyperplane.Hyperplane[T]{}, nil, nil, false
	}
	return plane, left, right, true
}

func vectorsEqual[T vector.Float](a, b vector.Vector[T]) bool {
	for i := range a {
		if !floateq.Equal(float64(a[i]), float64(b[i]), floateq.DefaultEpsilon) {
			return false
		}
	}
	return true
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

// prepareQuery normalizes q for cosine, matching fit-time row
// normalization; other metrics return q unchanged.
func (idx *Index[T]) prepareQuery(q []T) []T {
	if idx.metricID != metric.Cosine {
		return q
	}
	cp := vector.New(append([]T(nil), q...))
	cp.NormalizeInPlace()
	return cp
}

// walkItem is one entry of the cross-tree traversal heap: a pending node
// keyed by a signed priority (margin, or its negation for a deferred
// opposite branch).
type walkItem[T vector.Float] struct {
	priority T
	tree     int
	node     int32
}

type walkHeap[T vector.Float] []walkItem[T]

func (h walkHeap[T]) Len() int            { return len(h) }
func (h walkHeap[T]) Less(i, j int) bool  { return h[i].priority > h[j].priority }
func (h walkHeap[T]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *walkHeap[T]) Push(x any)         { *h = append(*h, x.(walkItem[T])) }
func (h *walkHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// candidateSet is an insertion-ordered set of row indices capped at a
// fixed size, matching the unique_priority_queue's duplicate-suppression
// semantics without imposing a distance-based eviction policy: this set
// just stops accepting once full.
type candidateSet struct {
	seen map[uint32]struct{}
	ids  []uint32
	cap  int
}

func newCandidateSet(cap int) *candidateSet {
	return &candidateSet{seen: make(map[uint32]struct{}), cap: cap}
}

func (c *candidateSet) add(id uint32) {
	if len(c.ids) >= c.cap {
		return
	}
	if _, ok := c.seen[id]; ok {
		return
	}
	c.seen[id] = struct{}{}
	c.ids = append(c.ids, id)
}

func (c *candidateSet) full() bool { return len(c.ids) >= c.cap }

// traverse walks every tree with the opposite-branch predicate supplied
// by takeOpposite, collecting candidate row indices into a set capped at
// capacity.
func (idx *Index[T]) traverse(q []T, capacity int, takeOpposite func(margin T) bool) []uint32 {
	h := &walkHeap[T]{}
	heap.Init(h)
	for t := range idx.trees {
		tr := &idx.trees[t]
		m := idx.margin(tr, tr.root, q)
		heap.Push(h, walkItem[T]{priority: m, tree: t, node: tr.root})
	}

	candidates := newCandidateSet(capacity)
	for h.Len() > 0 && !candidates.full() {
		item := heap.Pop(h).(walkItem[T])
		tr := &idx.trees[item.tree]
		n := &tr.nodes[item.node]
		if n.isLeaf {
			for _, id := range n.indices {
				candidates.add(id)
			}
			continue
		}

		m := n.plane.Margin(vector.New(q))
		good, opposite := n.right, n.left
		if m < 0 {
			good, opposite = n.left, n.right
		}
		absM := m
		if absM < 0 {
			absM = -absM
		}
		heap.Push(h, walkItem[T]{priority: absM, tree: item.tree, node: good})
		if takeOpposite(absM) {
			heap.Push(h, walkItem[T]{priority: -absM, tree: item.tree, node: opposite})
		}
	}
	return candidates.ids
}

func (idx *Index[T]) margin(tr *tree[T], nodeIdx int32, q []T) T {
	n := &tr.nodes[nodeIdx]
	if n.isLeaf {
		return 0
	}
	return n.plane.Margin(vector.New(q))
}

func (idx *Index[T]) rankByDistance(q []T, ids []uint32) []index.SearchResult[T] {
	out := make([]index.SearchResult[T], len(ids))
	for i, id := range ids {
		out[i] = index.SearchResult[T]{ID: id, Distance: idx.distFn(q, idx.data.Row(int(id)).Raw())}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

// KNNQuery performs the margin-ordered cross-tree traversal, capping
// collected candidates at k * NumTrees, then exact-ranks them.
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

	pq := idx.prepareQuery(q)
	capacity := k * idx.opts.NumTrees
	ids := idx.traverse(pq, capacity, func(T) bool { return true })

	ranked := idx.rankByDistance(pq, ids)
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked, nil
}

// RadiusQuery performs the margin-ordered traversal with the opposite
// branch enqueued only when its margin could still hold a point within
// r, then exact-filters and ranks the collected candidates.
func (idx *Index[T]) RadiusQuery(q []T, r T) ([]index.SearchResult[T], error) {
	if err := idx.checkQuery(q); err != nil {
		return nil, err
	}
	if r < 0 {
		return nil, nil
	}

	pq := idx.prepareQuery(q)
	capacity := idx.data.NumRows()
	ids := idx.traverse(pq, capacity, func(margin T) bool { return margin <= r })

	ranked := idx.rankByDistance(pq, ids)
	out := ranked[:0:0]
	for _, res := range ranked {
		if res.Distance <= r {
			out = append(out, res)
		}
	}
	return out, nil
}
