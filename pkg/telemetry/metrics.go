package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/woby/internal/errors"
	"github.com/vango-dev/woby/pkg/dom"
	"github.com/vango-dev/woby/pkg/reactive"
	"github.com/vango-dev/woby/pkg/reconcile"
	"github.com/vango-dev/woby/pkg/suspense"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "woby").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for reconciliation duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures Metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "woby",
		// Reconciliations are sub-millisecond; DefBuckets starts at 5ms.
		Buckets:  prometheus.ExponentialBuckets(1e-6, 4, 10),
		Registry: prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors.
type Metrics struct {
	reconciles *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	errors     *prometheus.CounterVec
	mutations  *prometheus.CounterVec
	suspended  prometheus.Gauge
}

// NewMetrics creates and registers the collectors:
//
//   - woby_reconciles_total: reconciliations by path and status
//   - woby_reconcile_duration_seconds: reconciliation duration by path
//   - woby_reconcile_errors_total: failed reconciliations by error code
//   - woby_dom_mutations_total: DOM mutations by kind
//   - woby_suspended_boundaries: suspense boundaries currently suspended
//
// Registering twice on the same registry panics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		reconciles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reconciles_total",
			Help:        "Total number of slot reconciliations",
			ConstLabels: config.ConstLabels,
		}, []string{"path", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reconcile_duration_seconds",
			Help:        "Slot reconciliation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"path"}),

		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reconcile_errors_total",
			Help:        "Total number of failed reconciliations",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dom_mutations_total",
			Help:        "Total DOM mutations by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		suspended: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "suspended_boundaries",
			Help:        "Number of suspense boundaries currently suspended",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObserveReconcile implements reconcile.Observer.
func (m *Metrics) ObserveReconcile(path reconcile.Path, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		m.errors.WithLabelValues(errorCode(err)).Inc()
	}
	m.reconciles.WithLabelValues(path.String(), status).Inc()
	m.duration.WithLabelValues(path.String()).Observe(elapsed.Seconds())
}

// ObserveDocument counts every mutation recorded by doc until the returned
// function is called.
func (m *Metrics) ObserveDocument(doc *dom.Document) (stop func()) {
	return doc.Observe(func(mu dom.Mutation) {
		m.mutations.WithLabelValues(mu.Kind.String()).Inc()
	})
}

// TrackBoundary keeps the suspended gauge in step with d until the current
// owner is disposed.
func (m *Metrics) TrackBoundary(d *suspense.Data) {
	suspended := false
	reactive.Subscribe(func() {
		active := d.Active()
		switch {
		case active && !suspended:
			m.suspended.Inc()
		case !active && suspended:
			m.suspended.Dec()
		}
		suspended = active
	})
	reactive.OnCleanup(func() {
		if suspended {
			m.suspended.Dec()
			suspended = false
		}
	})
}

// errorCode keeps the label set small: coded errors report their code,
// everything else is "internal".
func errorCode(err error) string {
	if code := errors.Code(err); code != "" {
		return code
	}
	return "internal"
}
