// Package metrics exports search statistics as Prometheus metrics.
//
// A SearchMetrics is created once per registry, and fed with the statistics
// of every finished search through Observe. Metrics are labelled by engine
// name, so several engines (like the two contestants of an arena) can share
// the same collectors.
package metrics

import (
	"github.com/IlikeChooros/arbor-mcts/pkg/mcts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "arbor"
	searchSubsystem  = "search"
)

// Outcome label values
const (
	OutcomeCompleted = "completed"
	OutcomeTimeout   = "timeout"
)

type SearchMetrics struct {
	SearchesTotal       *prometheus.CounterVec
	IterationsTotal     *prometheus.CounterVec
	DurationSeconds     *prometheus.HistogramVec
	TreeSize            *prometheus.GaugeVec
	MaxDepth            *prometheus.GaugeVec
	IterationsPerSecond *prometheus.GaugeVec
	PoolReuseRatio      *prometheus.GaugeVec
}

// NewSearchMetrics registers the search collectors on 'reg'. Registering twice
// on the same registry panics, like promauto does.
func NewSearchMetrics(reg prometheus.Registerer) *SearchMetrics {
	factory := promauto.With(reg)
	labels := []string{"engine"}

	return &SearchMetrics{
		SearchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "searches_total",
			Help:      "Total number of finished searches by engine and outcome",
		}, []string{"engine", "outcome"}),
		IterationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "iterations_total",
			Help:      "Total number of search iterations",
		}, labels),
		DurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "duration_seconds",
			Help:      "Search duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}, labels),
		TreeSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "tree_size_nodes",
			Help:      "Tree size after the last search",
		}, labels),
		MaxDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "max_depth",
			Help:      "Maximum selection depth reached by the last search",
		}, labels),
		IterationsPerSecond: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "iterations_per_second",
			Help:      "Iteration throughput of the last search",
		}, labels),
		PoolReuseRatio: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "node_pool_reuse_ratio",
			Help:      "Recycled to allocated node ratio of the engine's pool",
		}, labels),
	}
}

// Record the statistics of a finished search
func (m *SearchMetrics) Observe(engine string, stats mcts.SearchStatistics) {
	outcome := OutcomeCompleted
	if stats.StoppedEarly {
		outcome = OutcomeTimeout
	}

	m.SearchesTotal.WithLabelValues(engine, outcome).Inc()
	m.IterationsTotal.WithLabelValues(engine).Add(float64(stats.Iterations))
	m.DurationSeconds.WithLabelValues(engine).Observe(stats.TotalTime.Seconds())
	m.TreeSize.WithLabelValues(engine).Set(float64(stats.TreeSize))
	m.MaxDepth.WithLabelValues(engine).Set(float64(stats.MaxDepth))
	m.IterationsPerSecond.WithLabelValues(engine).Set(stats.IterationsPerSecond())

	if stats.NodePool != nil {
		m.PoolReuseRatio.WithLabelValues(engine).Set(stats.NodePool.ReuseRatio())
	}
}
