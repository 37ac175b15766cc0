// Package metrics provides build metrics for weave runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never requires nil checks:
//
//	d := build.NewDispatcher(build.WithRecorder(metrics.NoopRecorder{}))
//
// PrometheusRecorder registers its collectors on a caller-supplied registry.
// A CLI run is too short-lived to be scraped, so the registry is written once
// at the end of the run in the node_exporter textfile format (see WriteTextfile).
package metrics
