// Package metrics provides observability hooks for docpipe runs.
//
// Components receive a Recorder and default to NoopRecorder, so metrics can
// be enabled without nil checks at call sites:
//
//	builder := build.New(cfg, build.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// Runs are batch jobs, so there is no scrape endpoint. WriteTextfile dumps a
// registry in the Prometheus text format for the node_exporter textfile
// collector.
package metrics
