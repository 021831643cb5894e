// Package metrics exposes Prometheus counters for the handoff.
//
// A Collector is both a consumer.Recorder and a resource.Observer:
//
//	reg := prometheus.NewRegistry()
//	m, _ := metrics.New(reg)
//	sink.Table().Subscribe(m)
//	c := consumer.New(p, sink, consumer.WithRecorder(m))
package metrics
