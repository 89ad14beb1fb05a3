// Package metrics provides Prometheus metrics for the zoneshift pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Drop reasons recorded by the pipeline. Exported so stages and tests
// agree on label values.
const (
	DropNoIdentity    = "no_identity"
	DropNoHeight      = "no_height"
	DropMissingBounds = "missing_bounds"
	DropMalformedZone = "malformed_zone"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	// Fetch metrics
	pitchesFetched prometheus.Counter
	chunksFetched  prometheus.Counter
	chunksFailed   prometheus.Counter

	// Enrichment metrics
	pitchesDropped    *prometheus.CounterVec
	pitchesClassified prometheus.Counter

	// Stage timings
	stageDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithRegistry sets a custom Prometheus registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// NewManager creates a new metrics manager and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "zoneshift",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.pitchesFetched = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "pitches_fetched_total",
		Help:      "Raw pitch records returned by the tracking source.",
	})
	m.chunksFetched = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "fetch_chunks_total",
		Help:      "Fetch sub-ranges attempted.",
	})
	m.chunksFailed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "fetch_chunk_failures_total",
		Help:      "Fetch sub-ranges that failed and were skipped.",
	})
	m.pitchesDropped = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "pitches_dropped_total",
		Help:      "Pitches dropped during enrichment, by reason.",
	}, []string{"reason"})
	m.pitchesClassified = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "pitches_classified_total",
		Help:      "Pitches that received both zone classifications.",
	})
	m.stageDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "stage_duration_seconds",
		Help:      "Wall-clock duration of each pipeline stage.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})

	return m
}

// Handler returns an HTTP handler serving this manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordFetchedPitches adds to the fetched-pitch counter.
func (m *Manager) RecordFetchedPitches(n int) {
	m.pitchesFetched.Add(float64(n))
}

// RecordChunk records one attempted sub-range fetch.
func (m *Manager) RecordChunk(failed bool) {
	m.chunksFetched.Inc()
	if failed {
		m.chunksFailed.Inc()
	}
}

// RecordDrop records n pitches dropped for the given reason.
func (m *Manager) RecordDrop(reason string, n int) {
	m.pitchesDropped.WithLabelValues(reason).Add(float64(n))
}

// RecordClassified adds to the classified-pitch counter.
func (m *Manager) RecordClassified(n int) {
	m.pitchesClassified.Add(float64(n))
}

// ObserveStage records a stage duration.
func (m *Manager) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Global metrics manager instance.
var globalManager = NewManager() //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Default returns the global metrics manager.
func Default() *Manager {
	return globalManager
}

// Package-level helpers forwarding to the global manager.

func RecordFetchedPitches(n int)                   { globalManager.RecordFetchedPitches(n) }
func RecordChunk(failed bool)                      { globalManager.RecordChunk(failed) }
func RecordDrop(reason string, n int)              { globalManager.RecordDrop(reason, n) }
func RecordClassified(n int)                       { globalManager.RecordClassified(n) }
func ObserveStage(stage string, d time.Duration)   { globalManager.ObserveStage(stage, d) }

// Handler serves the global manager's registry.
func Handler() http.Handler { return globalManager.Handler() }
