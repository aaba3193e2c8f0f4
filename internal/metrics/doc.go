// Package metrics records build and page generation metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so call sites never check for nil:
//
//	b := site.NewBuilder(cfg, site.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The preview server exposes the Prometheus registry through HTTPHandler.
package metrics
