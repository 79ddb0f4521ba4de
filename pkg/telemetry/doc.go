// Package telemetry reports reconciliation activity to Prometheus and
// OpenTelemetry.
//
// Both Metrics and Tracing implement reconcile.Observer and can be combined
// with Multi:
//
//	m := telemetry.NewMetrics(telemetry.WithNamespace("woby"))
//	tr := telemetry.NewTracing()
//	r := &reconcile.Reconciler{Observer: telemetry.Multi(m, tr)}
//	stop := m.ObserveDocument(doc)
//	defer stop()
package telemetry
