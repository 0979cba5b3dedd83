package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes the engine's operational metrics via Prometheus.
type Recorder struct {
	simulationRuns    *prometheus.CounterVec
	simulationLatency prometheus.Histogram
	snapshotLatency   *prometheus.HistogramVec
	cacheHits         *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		simulationRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "growth_engine_simulation_runs_total",
				Help: "Total simulation runs by outcome",
			},
			[]string{"outcome"},
		),
		simulationLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "growth_engine_simulation_duration_seconds",
				Help:    "End-to-end simulation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		snapshotLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "growth_engine_snapshot_fetch_duration_seconds",
				Help:    "Duration of upstream snapshot fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"collection"},
		),
		cacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "growth_engine_cache_requests_total",
				Help: "Simulation cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// RecordRun records one simulation run: outcome is ok, insufficient_data or
// error.
func (r *Recorder) RecordRun(outcome string, elapsed time.Duration) {
	r.simulationRuns.WithLabelValues(outcome).Inc()
	r.simulationLatency.Observe(elapsed.Seconds())
}

// RecordSnapshotFetch records the latency of one upstream collection fetch.
func (r *Recorder) RecordSnapshotFetch(collection string, elapsed time.Duration) {
	r.snapshotLatency.WithLabelValues(collection).Observe(elapsed.Seconds())
}

// RecordCacheLookup records a cache lookup result: hit or miss.
func (r *Recorder) RecordCacheLookup(result string) {
	r.cacheHits.WithLabelValues(result).Inc()
}
