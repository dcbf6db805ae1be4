package anndex

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures New's instrumentation. Index-specific build parameters
// (leaf size, number of trees, M, ef_construction, ef_search) are configured
// through each subpackage's own Option type, passed to New via indexOptFns.
type Option func(*options)

// WithMetricsCollector attaches a metrics collector recording Fit/KNNQuery/
// RadiusQuery calls. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) { o.metricsCollector = mc }
}

// WithLogger attaches a structured logger. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) { o.logger = logger }
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
