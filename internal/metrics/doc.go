// Package metrics provides build metrics for docnav.
//
// Components receive a Recorder; NoopRecorder is the default so call sites
// never check for nil. The preview server swaps in a PrometheusRecorder and
// exposes it through HTTPHandler when monitoring.metrics.enabled is set:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	b := build.New(cfg, build.WithRecorder(rec))
//	mux.Handle(cfg.Monitoring.Metrics.Path, metrics.HTTPHandler(reg))
package metrics
