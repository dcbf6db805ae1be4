// Package anndex ties the four index packages together behind one
// dynamic-dispatch entry point and wraps the result with structured
// logging, metrics, and a build identity stamped once per New call.
package anndex

import (
	"fmt"
	"time"

	"github.com/anndex/anndex/index"
	"github.com/anndex/anndex/index/exact"
	"github.com/anndex/anndex/index/hnsw"
	"github.com/anndex/anndex/index/kdtree"
	"github.com/anndex/anndex/index/rpforest"
	"github.com/anndex/anndex/metric"
	"github.com/anndex/anndex/vector"
	"github.com/google/uuid"
)

// New builds an unfitted index of the given kind, wrapped with the
// instrumentation configured by opts. indexOptFns holds the target
// package's own Option values (kdtree.Option, rpforest.Option, hnsw.Option);
// it is ignored for index.Exact, which takes none. Passing an Option that
// does not match kind returns an error.
func New[T vector.Float](kind index.Kind, metricID metric.ID, indexOptFns []any, opts ...Option) (index.Index[T], error) {
	var idx index.Index[T]
	var err error

	switch kind {
	case index.Exact:
		idx, err = exact.New[T](metricID)
	case index.KdTree:
		var kdOpts []kdtree.Option
		kdOpts, err = asOptions[kdtree.Option](indexOptFns)
		if err == nil {
			idx, err = kdtree.New[T](metricID, kdOpts...)
		}
	case index.RpForest:
		var rpOpts []rpforest.Option
		rpOpts, err = asOptions[rpforest.Option](indexOptFns)
		if err == nil {
			idx, err = rpforest.New[T](metricID, rpOpts...)
		}
	case index.Hnsw:
		var hnswOpts []hnsw.Option
		hnswOpts, err = asOptions[hnsw.Option](indexOptFns)
		if err == nil {
			idx, err = hnsw.New[T](metricID, hnswOpts...)
		}
	default:
		return nil, fmt.Errorf("anndex: unknown index kind %v", kind)
	}
	if err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	return &instrumented[T]{
		idx:     idx,
		kind:    kind.String(),
		metrics: o.metricsCollector,
		logger:  o.logger.WithBuildID(uuid.NewString()),
	}, nil
}

func asOptions[O any](raw []any) ([]O, error) {
	out := make([]O, 0, len(raw))
	for _, r := range raw {
		opt, ok := r.(O)
		if !ok {
			return nil, fmt.Errorf("anndex: option %T does not match expected type %T", r, *new(O))
		}
		out = append(out, opt)
	}
	return out, nil
}

// instrumented wraps an index.Index, recording logs and metrics around
// each call without altering its results or errors.
type instrumented[T vector.Float] struct {
	idx     index.Index[T]
	kind    string
	metrics MetricsCollector
	logger  *Logger
}

func (w *instrumented[T]) Kind() index.Kind { return w.idx.Kind() }

func (w *instrumented[T]) Fit(rows [][]T) error {
	start := time.Now()
	err := w.idx.Fit(rows)
	w.metrics.RecordFit(w.kind, len(rows), time.Since(start), err)
	w.logger.LogFit(w.kind, len(rows), err)
	return err
}

func (w *instrumented[T]) KNNQuery(q []T, k int) ([]index.SearchResult[T], error) {
	start := time.Now()
	res, err := w.idx.KNNQuery(q, k)
	w.metrics.RecordKNNQuery(w.kind, k, len(res), time.Since(start), err)
	w.logger.LogKNNQuery(w.kind, k, len(res), err)
	return res, err
}

func (w *instrumented[T]) RadiusQuery(q []T, r T) ([]index.SearchResult[T], error) {
	start := time.Now()
	res, err := w.idx.RadiusQuery(q, r)
	w.metrics.RecordRadiusQuery(w.kind, len(res), time.Since(start), err)
	w.logger.LogRadiusQuery(w.kind, len(res), err)
	return res, err
}
