package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLayoutMetrics() {
	r.LayoutRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphscape_layout_runs_total",
			Help: "Total number of layout runs by outcome",
		},
		[]string{"outcome"},
	)

	r.LayoutRunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphscape_layout_run_duration_seconds",
			Help:    "Layout run duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
	)

	r.LayoutIterations = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphscape_layout_iterations",
			Help:    "Simulation iterations consumed per layout run",
			Buckets: []float64{10, 50, 100, 250, 500, 1000},
		},
	)

	r.LayoutFinalEnergy = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphscape_layout_final_energy",
			Help:    "Total kinetic energy at termination",
			Buckets: prometheus.ExponentialBuckets(0.001, 10, 7),
		},
	)

	r.LayoutNodesProcessed = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphscape_layout_nodes",
			Help:    "Node count per layout run",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000},
		},
	)
}

func (r *Registry) initGraphMetrics() {
	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphscape_graph_nodes",
			Help: "Nodes in the current snapshot",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphscape_graph_edges",
			Help: "Edges in the current snapshot",
		},
	)
}
