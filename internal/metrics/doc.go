// Package metrics provides build observability hooks for collectionbuilder.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metric calls never need nil checks:
//
//	builder := collection.NewBuilder(defs, tr, collection.WithRecorder(metrics.NoopRecorder{}))
//
// When a textfile path is configured the CLI swaps in a PrometheusRecorder and
// writes the gathered families with WriteTextfile after each build, for pickup
// by the node_exporter textfile collector.
package metrics
