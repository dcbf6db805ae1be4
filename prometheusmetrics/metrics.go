// Package prometheusmetrics implements anndex.MetricsCollector on top of
// github.com/prometheus/client_golang, registering one counter/histogram
// family per operation via promauto.
package prometheusmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records Fit/KNNQuery/RadiusQuery calls as Prometheus metrics,
// labeled by index kind.
type Collector struct {
	FitTotal      *prometheus.CounterVec
	FitErrors     *prometheus.CounterVec
	FitDuration   *prometheus.HistogramVec
	FitRows       *prometheus.GaugeVec
	QueryTotal    *prometheus.CounterVec
	QueryErrors   *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	QueryFound    *prometheus.HistogramVec
}

// New registers and returns a Collector. namespace prefixes every metric
// name (e.g. "anndex" yields "anndex_fit_total").
func New(namespace string) *Collector {
	return &Collector{
		FitTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fit_total",
			Help:      "Total number of Fit calls.",
		}, []string{"kind"}),
		FitErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fit_errors_total",
			Help:      "Total number of Fit calls that returned an error.",
		}, []string{"kind"}),
		FitDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fit_duration_seconds",
			Help:      "Fit call duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		FitRows: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fit_rows",
			Help:      "Number of rows passed to the most recent Fit call.",
		}, []string{"kind"}),
		QueryTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_total",
			Help:      "Total number of KNNQuery/RadiusQuery calls.",
		}, []string{"kind", "op"}),
		QueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_errors_total",
			Help:      "Total number of KNNQuery/RadiusQuery calls that returned an error.",
		}, []string{"kind", "op"}),
		QueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Query call duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind", "op"}),
		QueryFound: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_results_found",
			Help:      "Number of results returned per query call.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 500},
		}, []string{"kind", "op"}),
	}
}

// RecordFit implements anndex.MetricsCollector.
func (c *Collector) RecordFit(kind string, n int, duration time.Duration, err error) {
	c.FitTotal.WithLabelValues(kind).Inc()
	c.FitDuration.WithLabelValues(kind).Observe(duration.Seconds())
	c.FitRows.WithLabelValues(kind).Set(float64(n))
	if err != nil {
		c.FitErrors.WithLabelValues(kind).Inc()
	}
}

// RecordKNNQuery implements anndex.MetricsCollector.
func (c *Collector) RecordKNNQuery(kind string, k, found int, duration time.Duration, err error) {
	c.record(kind, "knn", found, duration, err)
}

// RecordRadiusQuery implements anndex.MetricsCollector.
func (c *Collector) RecordRadiusQuery(kind string, found int, duration time.Duration, err error) {
	c.record(kind, "radius", found, duration, err)
}

func (c *Collector) record(kind, op string, found int, duration time.Duration, err error) {
	c.QueryTotal.WithLabelValues(kind, op).Inc()
	c.QueryDuration.WithLabelValues(kind, op).Observe(duration.Seconds())
	c.QueryFound.WithLabelValues(kind, op).Observe(float64(found))
	if err != nil {
		c.QueryErrors.WithLabelValues(kind, op).Inc()
	}
}
