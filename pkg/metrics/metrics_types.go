// Package metrics exposes prometheus collectors for the layout engine,
// the background dispatcher, and the camera controller.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the engine
type Registry struct {
	// Layout Metrics
	LayoutRunsTotal      *prometheus.CounterVec // outcome: converged|exhausted
	LayoutRunDuration    prometheus.Histogram
	LayoutIterations     prometheus.Histogram
	LayoutFinalEnergy    prometheus.Histogram
	LayoutNodesProcessed prometheus.Histogram

	// Dispatch Metrics
	DispatchRequestsTotal   *prometheus.CounterVec // operation, status: ok|timeout|fault|error
	DispatchRequestDuration *prometheus.HistogramVec
	DispatchPendingRequests prometheus.Gauge
	DispatchWorkerFaults    prometheus.Counter

	// Camera Metrics
	CameraTransitionsTotal *prometheus.CounterVec // trigger
	CameraOverridesTotal   prometheus.Counter

	// Graph Metrics
	GraphNodesTotal prometheus.Gauge
	GraphEdgesTotal prometheus.Gauge

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all collectors initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}
	r.initLayoutMetrics()
	r.initDispatchMetrics()
	r.initCameraMetrics()
	r.initGraphMetrics()
	return r
}

// PrometheusRegistry exposes the underlying registry for scraping setups
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}
