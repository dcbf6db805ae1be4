// Package anndex provides approximate nearest-neighbor search over dense
// numeric vectors, with four interchangeable index structures: an exact
// linear scan, a KD-tree, a random-projection forest, and an HNSW graph.
//
// # Quick start
//
//	idx, err := anndex.New[float32](index.KdTree, metric.L2, []any{kdtree.WithLeafSize(16)})
//	err = idx.Fit(rows)
//	results, err := idx.KNNQuery(query, 10)
//
// Each index is built once via Fit and is then immutable: concurrent
// KNNQuery/RadiusQuery calls from multiple goroutines are safe, but there is
// no API to mutate a fitted index, and no persistence layer. The randomized
// indexes (rpforest and hnsw) each own their random source, seeded from OS
// entropy unless WithSeed is given to the underlying subpackage's Option.
//
// # Observability
//
// New accepts WithLogger and WithMetricsCollector to wrap the returned index
// with structured logging and metrics recording around Fit/KNNQuery/
// RadiusQuery; see package prometheusmetrics for a Prometheus-backed
// MetricsCollector.
package anndex
