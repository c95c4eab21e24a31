// Package metrics provides observability hooks for composition, asset
// resolution and the editor.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics stay optional:
//
//	c := compose.New(compose.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The serve command wires a PrometheusRecorder and exposes it through
// HTTPHandler on /metrics.
package metrics
