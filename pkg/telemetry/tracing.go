package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/woby/pkg/reconcile"
)

// Default tracer name.
const defaultTracerName = "woby"

// TracingConfig configures Tracing.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "woby").
	TracerName string

	// Provider supplies the tracer. Default: otel.GetTracerProvider().
	Provider trace.TracerProvider

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// TracingOption configures Tracing.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(p trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = p
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// Tracing records one span per reconciliation.
type Tracing struct {
	tracer trace.Tracer
	attrs  []attribute.KeyValue
}

// NewTracing creates a Tracing from the global provider unless overridden.
func NewTracing(opts ...TracingOption) *Tracing {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	return &Tracing{
		tracer: config.Provider.Tracer(config.TracerName),
		attrs:  config.Attributes,
	}
}

// ObserveReconcile implements reconcile.Observer. The span is recorded
// after the fact with the reconciliation's real start and end times.
func (t *Tracing) ObserveReconcile(path reconcile.Path, elapsed time.Duration, err error) {
	end := time.Now()
	attrs := make([]attribute.KeyValue, 0, len(t.attrs)+1)
	attrs = append(attrs, attribute.String("woby.path", path.String()))
	attrs = append(attrs, t.attrs...)

	_, span := t.tracer.Start(
		context.Background(),
		"woby.reconcile",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(end.Add(-elapsed)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("woby.error_code", errorCode(err)))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(end))
}

// Multi fans one reconciliation out to several observers. Nil observers are
// skipped.
func Multi(observers ...reconcile.Observer) reconcile.Observer {
	list := make([]reconcile.Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return reconcile.ObserverFunc(func(path reconcile.Path, elapsed time.Duration, err error) {
		for _, o := range list {
			o.ObserveReconcile(path, elapsed, err)
		}
	})
}
