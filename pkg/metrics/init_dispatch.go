package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDispatchMetrics() {
	r.DispatchRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphscape_dispatch_requests_total",
			Help: "Total dispatcher requests by operation and status",
		},
		[]string{"operation", "status"},
	)

	r.DispatchRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphscape_dispatch_request_duration_seconds",
			Help:    "Dispatcher request round-trip duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
		[]string{"operation"},
	)

	r.DispatchPendingRequests = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphscape_dispatch_pending_requests",
			Help: "Requests currently awaiting a worker response",
		},
	)

	r.DispatchWorkerFaults = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graphscape_dispatch_worker_faults_total",
			Help: "Worker-level faults that rejected all pending requests",
		},
	)
}

func (r *Registry) initCameraMetrics() {
	r.CameraTransitionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphscape_camera_transitions_total",
			Help: "Camera transitions by trigger",
		},
		[]string{"trigger"},
	)

	r.CameraOverridesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graphscape_camera_user_overrides_total",
			Help: "Times user input overrode automatic camera control",
		},
	)
}
