package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the simulation's Prometheus collectors. Build/compaction
// are timed per frame; collisions are counted as they're resolved.
type Metrics struct {
	BuildDuration      prometheus.Histogram
	CompactDuration    prometheus.Histogram
	CompactionRatio    prometheus.Histogram
	CollisionsResolved prometheus.Counter
}

// NewMetrics registers the simulation's collectors against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "nbody_tree_build_seconds",
			Help:    "Time to build the octree for one frame.",
			Buckets: prometheus.DefBuckets,
		}),
		CompactDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "nbody_tree_compact_seconds",
			Help:    "Time to compact the octree for one frame.",
			Buckets: prometheus.DefBuckets,
		}),
		CompactionRatio: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "nbody_tree_compaction_ratio",
			Help:    "Ratio of live to total internal node slots before compaction.",
			Buckets: prometheus.LinearBuckets(0.5, 0.05, 10),
		}),
		CollisionsResolved: factory.NewCounter(prometheus.CounterOpts{
			Name: "nbody_collisions_resolved_total",
			Help: "Number of inelastic collisions resolved across all frames.",
		}),
	}
}

// Serve starts a blocking HTTP server exposing /metrics on addr. Callers
// typically run this in its own goroutine.
func Serve(addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return http.ListenAndServe(addr, mux)
}
