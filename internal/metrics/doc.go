// Package metrics provides build observability for the content pipeline.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	recorder := metrics.Recorder(metrics.NoopRecorder{})
//	if cfg.Build.MetricsFile != "" {
//	    reg := prometheus.NewRegistry()
//	    recorder = metrics.NewPrometheusRecorder(reg)
//	    defer metrics.WriteTextfile(reg, cfg.MetricsPath())
//	}
//
// The preview server exposes the same registry at /metrics via HTTPHandler.
package metrics
