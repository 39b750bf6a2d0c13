// Package metrics exposes Prometheus counters for synchronization runs.
//
// A Recorder keeps its own registry so tests can create isolated instances.
// The start command serves it on /metrics when metrics.enabled is set.
package metrics
