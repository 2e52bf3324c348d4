// Package metrics exports upload outcomes as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/gobeaver/intake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "intake").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for item duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "intake",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Result label values.
const (
	ResultUploaded = "uploaded"
	ResultSkipped  = "skipped"
	ResultFailed   = "failed"
)

// Collector implements intake.Observer.
//
// Metrics collected:
//   - intake_items_total: Counter of finished items by field and result
//   - intake_failures_total: Counter of failed items by kind and transport reason
//   - intake_item_duration_seconds: Histogram of item processing time by result
//   - intake_bytes_committed_total: Counter of bytes committed
type Collector struct {
	items     *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	committed prometheus.Counter
}

var _ intake.Observer = (*Collector)(nil)

// New registers the collector's metrics and returns it.
func New(opts ...Option) *Collector {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Buckets == nil {
		cfg.Buckets = prometheus.DefBuckets
	}

	factory := promauto.With(cfg.Registry)

	return &Collector{
		items: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "items_total",
			Help:        "Total number of upload items processed",
			ConstLabels: cfg.ConstLabels,
		}, []string{"field", "result"}),

		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "failures_total",
			Help:        "Total number of failed upload items by kind",
			ConstLabels: cfg.ConstLabels,
		}, []string{"kind", "reason"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "item_duration_seconds",
			Help:        "Upload item processing duration in seconds",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"result"}),

		committed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "bytes_committed_total",
			Help:        "Total number of bytes committed to target directories",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

// Observe records one finished item.
func (c *Collector) Observe(o intake.Outcome, elapsed time.Duration) {
	result := Result(o)

	c.items.WithLabelValues(o.FieldKey(), result).Inc()
	c.duration.WithLabelValues(result).Observe(elapsed.Seconds())

	if f, ok := o.Failure(); ok {
		c.failures.WithLabelValues(string(f.Kind), string(f.Reason)).Inc()
		return
	}
	if s, ok := o.Success(); ok && s.Uploaded {
		c.committed.Add(float64(s.Size))
	}
}

// Result returns the result label for an outcome.
func Result(o intake.Outcome) string {
	switch {
	case !o.OK():
		return ResultFailed
	case o.Uploaded():
		return ResultUploaded
	default:
		return ResultSkipped
	}
}
