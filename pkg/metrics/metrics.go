package metrics

import (
	"time"
)

// RecordLayoutRun records a completed layout run
func (r *Registry) RecordLayoutRun(outcome string, duration time.Duration, iterations, nodes int, finalEnergy float64) {
	r.LayoutRunsTotal.WithLabelValues(outcome).Inc()
	r.LayoutRunDuration.Observe(duration.Seconds())
	r.LayoutIterations.Observe(float64(iterations))
	r.LayoutNodesProcessed.Observe(float64(nodes))
	r.LayoutFinalEnergy.Observe(finalEnergy)
}

// RecordDispatchRequest records a dispatcher request round trip
func (r *Registry) RecordDispatchRequest(operation, status string, duration time.Duration) {
	r.DispatchRequestsTotal.WithLabelValues(operation, status).Inc()
	r.DispatchRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCameraTransition records a camera transition by trigger name
func (r *Registry) RecordCameraTransition(trigger string) {
	r.CameraTransitionsTotal.WithLabelValues(trigger).Inc()
}

// UpdateGraphSize updates the snapshot size gauges
func (r *Registry) UpdateGraphSize(nodes, edges int) {
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphEdgesTotal.Set(float64(edges))
}
