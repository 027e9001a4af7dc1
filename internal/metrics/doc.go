// Package metrics provides observability hooks for link validation runs.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default so callers never nil-check; PrometheusRecorder registers the
// doclinks_* metric family on a registry, which WriteTextfile can dump in the
// node-exporter textfile format for CI jobs without a scrape endpoint.
//
//	reg := prometheus.NewRegistry()
//	v := linkcheck.NewValidator(fsys, root, linkcheck.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//	...
//	_ = metrics.WriteTextfile(reg, "/var/lib/node_exporter/doclinks.prom")
package metrics
