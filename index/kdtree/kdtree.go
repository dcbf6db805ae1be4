// Package kdtree implements a median-split KD-tree with branch-and-bound
// k-NN and radius traversal. It is exact for the Euclidean metric; axis-
// aligned pruning does not hold under cosine, so cosine is rejected by
// New.
package kdtree

import (
	"math"
	"sort"

	"github.com/anndex/anndex/index"
	"github.com/anndex/anndex/matrix"
	"github.com/anndex/anndex/metric"
	"github.com/anndex/anndex/queue"
	"github.com/anndex/anndex/vector"
)

// DefaultLeafSize is the maximum number of indices stored in a leaf
// before it is split further.
const DefaultLeafSize = 40

// Options configures a new Index.
type Options struct {
	LeafSize int
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the default build parameters.
func DefaultOptions() Options {
	return Options{LeafSize: DefaultLeafSize}
}

// WithLeafSize overrides the leaf capacity.
func WithLeafSize(n int) Option {
	return func(o *Options) { o.LeafSize = n }
}

// node is either an internal split node (left/right index into nodes,
// -1 for none) or a leaf holding row indices directly.
type node[T vector.Float] struct {
	isLeaf     bool
	dim        int
	splitValue T
	splitIndex uint32
	left       int32
	right      int32
	indices    []uint32
}

// Index is the KD-tree nearest-neighbor index.
type Index[T vector.Float] struct {
	opts     Options
	metricID metric.ID
	distFn   metric.Func[T]
	data     *matrix.Matrix[T]
	nodes    []node[T]
	root     int32
}

// New constructs an unfitted KD-tree index. Only metric.L2 and
// metric.L2Squared are supported; any other id returns
// *index.ErrUnsupportedOperation.
func New[T vector.Float](metricID metric.ID, optFns ...Option) (*Index[T], error) {
	if metricID != metric.L2 && metricID != metric.L2Squared {
		return nil, &index.ErrUnsupportedOperation{Kind: index.KdTree, Operation: metricID.String() + " metric"}
	}
	distFn, err := metric.Provider[T](metricID)
	if err != nil {
		return nil, err
	}
	opts := DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.LeafSize < 1 {
		opts.LeafSize = DefaultLeafSize
	}
	return &Index[T]{opts: opts, metricID: metricID, distFn: distFn, root: -1}, nil
}

// Kind reports index.KdTree.
func (idx *Index[T]) Kind() index.Kind { return index.KdTree }

// Fit builds the tree over rows.
func (idx *Index[T]) Fit(rows [][]T) error {
	m, err := matrix.New(rows)
	if err != nil {
		if _, ok := err.(*matrix.ErrRaggedRows); ok {
			return err
		}
		return index.ErrEmptyDataset
	}
	idx.data = m
	idx.nodes = idx.nodes[:0]

	all := make([]uint32, m.NumRows())
	for i := range all {
		all[i] = uint32(i)
	}
	idx.root = idx.build(all, 0, 0)
	return nil
}

// build splits indices recursively. stalled counts consecutive dimensions
// that failed to separate the current point set (every remaining point
// shares that coordinate); once it reaches d, further splitting cannot
// help and a leaf is emitted instead of recursing forever.
func (idx *Index[T]) build(indices []uint32, depth, stalled int) int32 {
	d := idx.data.NumCols()
	if len(indices) <= idx.opts.LeafSize || stalled >= d {
		idx.nodes = append(idx.nodes, node[T]{isLeaf: true, indices: indices})
		return int32(len(idx.nodes) - 1)
	}

	dim := depth % d

	sort.Slice(indices, func(i, j int) bool {
		return idx.data.Row(int(indices[i])).At(dim) < idx.data.Row(int(indices[j])).At(dim)
	})

	medianPos := len(indices) / 2
	splitIndex := indices[medianPos]
	splitValue := idx.data.Row(int(splitIndex)).At(dim)

	var left, right []uint32
	for _, id := range indices {
		if idx.data.Row(int(id)).At(dim) < splitValue {
			left = append(left, id)
		} else {
			right = append(right, id)
		}
	}

	if len(left) == 0 {
		return idx.build(indices, depth+1, stalled+1)
	}

	leftIdx := idx.build(left, depth+1, 0)
	rightIdx := idx.build(right, depth+1, 0)

	idx.nodes = append(idx.nodes, node[T]{
		dim:        dim,
		splitValue: splitValue,
		splitIndex: splitIndex,
		left:       leftIdx,
		right:      rightIdx,
	})
	return int32(len(idx.nodes) - 1)
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

// KNNQuery performs branch-and-bound k-NN traversal.
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

	cand := queue.NewBounded[T](k)
	idx.knnVisit(idx.root, q, cand, make(map[uint32]struct{}))

	items := cand.Drain()
	out := make([]index.SearchResult[T], len(items))
	for i, it := range items {
		out[i] = index.SearchResult[T]{ID: it.ID, Distance: it.Distance}
	}
	return out, nil
}

// knnVisit offers each row it reaches to cand once: a split point also lies
// in its node's right subtree, so seen skips the second encounter.
func (idx *Index[T]) knnVisit(nodeIdx int32, q []T, cand *queue.Bounded[T], seen map[uint32]struct{}) {
	if nodeIdx < 0 {
		return
	}
	push := func(id uint32) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		cand.Push(id, idx.distFn(q, idx.data.Row(int(id)).Raw()))
	}
	n := &idx.nodes[nodeIdx]
	if n.isLeaf {
		for _, id := range n.indices {
			push(id)
		}
		return
	}

	push(n.splitIndex)

	near, far := n.left, n.right
	if q[n.dim] >= n.splitValue {
		near, far = n.right, n.left
	}
	idx.knnVisit(near, q, cand, seen)

	var worst T
	if cand.Full() {
		worst = cand.Worst()
	} else {
		worst = T(math.Inf(1))
	}
	diff := q[n.dim] - n.splitValue
	if diff < 0 {
		diff = -diff
	}
	// Under L2Squared, worst is a squared distance; square the gap too.
	if idx.metricID == metric.L2Squared {
		diff *= diff
	}
	if diff < worst {
		idx.knnVisit(far, q, cand, seen)
	}
}

// RadiusQuery returns every index within r of q, ascending by distance.
func (idx *Index[T]) RadiusQuery(q []T, r T) ([]index.SearchResult[T], error) {
	if err := idx.checkQuery(q); err != nil {
		return nil, err
	}
	if r < 0 {
		return nil, nil
	}

	var out []index.SearchResult[T]
	idx.radiusVisit(idx.root, q, r, make(map[uint32]struct{}), &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out, nil
}

// radiusVisit appends each row within r that it reaches to out once, using
// seen the same way knnVisit does.
func (idx *Index[T]) radiusVisit(nodeIdx int32, q []T, r T, seen map[uint32]struct{}, out *[]index.SearchResult[T]) {
	if nodeIdx < 0 {
		return
	}
	visit := func(id uint32) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		d := idx.distFn(q, idx.data.Row(int(id)).Raw())
		if d <= r {
			*out = append(*out, index.SearchResult[T]{ID: id, Distance: d})
		}
	}
	n := &idx.nodes[nodeIdx]
	if n.isLeaf {
		for _, id := range n.indices {
			visit(id)
		}
		return
	}

	visit(n.splitIndex)

	near, far := n.left, n.right
	if q[n.dim] >= n.splitValue {
		near, far = n.right, n.left
	}
	idx.radiusVisit(near, q, r, seen, out)

	diff := q[n.dim] - n.splitValue
	if diff < 0 {
		diff = -diff
	}
	// Under L2Squared, r is a squared distance; square the gap too.
	if idx.metricID == metric.L2Squared {
		diff *= diff
	}
	if diff < r {
		idx.radiusVisit(far, q, r, seen, out)
	}
}
