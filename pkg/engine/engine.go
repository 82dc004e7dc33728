// Package engine is the facade the host application talks to: it owns
// the current snapshot, the background dispatcher, the camera
// controller, and the caches of derived results (positions, clusters,
// metrics, strengths). Derived maps are replaced wholesale on every
// recomputation, never merged.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/dd0wney/graphscape/pkg/camera"
	"github.com/dd0wney/graphscape/pkg/config"
	"github.com/dd0wney/graphscape/pkg/dispatch"
	"github.com/dd0wney/graphscape/pkg/graph"
	"github.com/dd0wney/graphscape/pkg/layout"
	"github.com/dd0wney/graphscape/pkg/logging"
	"github.com/dd0wney/graphscape/pkg/metrics"
	"github.com/dd0wney/graphscape/pkg/pubsub"
)

// Engine coordinates the layout and analysis subsystems for one
// logical session
type Engine struct {
	mu    sync.RWMutex
	nodes []graph.Node
	edges []graph.Edge

	result       *layout.Result
	graphMetrics *graph.Metrics
	strengths    map[string]float64

	cfg        *config.Config
	dispatcher *dispatch.Dispatcher
	camera     *camera.Controller
	bus        *pubsub.Bus
	logger     logging.Logger
	metrics    *metrics.Registry
}

// New starts an engine with its worker pool and camera controller
func New(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	dispatcher, err := dispatch.NewDispatcher(cfg.Dispatch.Workers, cfg.Dispatch.RequestTimeout)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:        cfg,
		dispatcher: dispatcher,
		camera:     camera.NewController(cameraConfig(cfg.Camera)),
		bus:        pubsub.NewBus(),
		logger:     logging.DefaultLogger().With(logging.Component("engine")),
		metrics:    metrics.DefaultRegistry(),
		strengths:  map[string]float64{},
	}

	e.camera.OnChange(func(state camera.State, ps camera.PositioningState) {
		e.bus.Publish(pubsub.TopicCameraState, CameraEvent{State: state, Positioning: ps})
	})
	return e, nil
}

// CameraEvent is published on TopicCameraState after pose changes
type CameraEvent struct {
	State       camera.State            `json:"state"`
	Positioning camera.PositioningState `json:"positioning"`
}

// Bus exposes the engine's event bus for progress and state topics
func (e *Engine) Bus() *pubsub.Bus { return e.bus }

// Camera exposes the framing controller for direct interaction events
func (e *Engine) Camera() *camera.Controller { return e.camera }

// SetSnapshot replaces the graph wholesale and invalidates every
// cached derived result. The input slices are copied on the way into
// worker payloads and never mutated.
func (e *Engine) SetSnapshot(nodes []graph.Node, edges []graph.Edge) {
	e.mu.Lock()
	e.nodes = nodes
	e.edges = edges
	e.result = nil
	e.graphMetrics = nil
	e.strengths = map[string]float64{}
	e.mu.Unlock()

	e.metrics.UpdateGraphSize(len(nodes), len(edges))
	e.bus.Publish(pubsub.TopicSnapshot, len(nodes))
	e.logger.Info("snapshot replaced",
		logging.Count(len(nodes)),
		logging.Int("edges", len(edges)))
}

// snapshotInputs returns the current node/edge slices for payloads
func (e *Engine) snapshotInputs() ([]graph.Node, []graph.Edge) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.nodes, e.edges
}

// RecomputeLayout runs a full background layout, caches the result,
// republishes worker progress on the event bus, and reframes the
// camera on the new positions. Blocks until the run finishes; callers
// wanting async behavior run it in a goroutine and watch the bus.
func (e *Engine) RecomputeLayout(ctx context.Context) (*layout.Result, error) {
	nodes, edges := e.snapshotInputs()
	started := time.Now()

	result, err := e.dispatcher.Layout(ctx, nodes, edges, e.layoutConfig(), func(p layout.Progress) {
		e.bus.Publish(pubsub.TopicLayoutProgress, p)
	})
	if err != nil {
		return nil, err
	}
	e.metrics.RecordLayoutRun(string(result.Outcome), time.Since(started),
		result.Iterations, len(nodes), result.FinalEnergy)

	e.mu.Lock()
	e.result = result
	e.mu.Unlock()

	e.bus.Publish(pubsub.TopicLayoutDone, result.Outcome)
	e.camera.NotifyNodeSetChanged(positionList(result.Positions, nil))
	return result, nil
}

// layoutConfig maps the YAML-facing config onto the simulation config
func (e *Engine) layoutConfig() layout.Config {
	l := e.cfg.Layout
	cfg := layout.DefaultConfig()
	cfg.Iterations = l.Iterations
	cfg.RepulsionStrength = l.RepulsionStrength
	cfg.SpringStrength = l.SpringStrength
	cfg.DampingFactor = l.DampingFactor
	cfg.Spacing = l.Spacing
	cfg.ClusterSeparation = l.ClusterSeparation
	cfg.TimeSpread = l.TimeSpread
	cfg.SimilarityThreshold = l.SimilarityThreshold
	cfg.QuickLayout = l.QuickLayout
	return cfg
}

// Positions returns the cached node positions, empty before the first
// completed layout
func (e *Engine) Positions() map[string]graph.Vector3 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.result == nil {
		return map[string]graph.Vector3{}
	}
	return e.result.Positions
}

// Clusters returns the cached cluster list from the last layout run
func (e *Engine) Clusters() []graph.Cluster {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.result == nil {
		return nil
	}
	return e.result.Clusters
}

// Metrics computes (and caches) aggregate metrics for the current
// snapshot
func (e *Engine) Metrics(ctx context.Context) (graph.Metrics, error) {
	e.mu.RLock()
	cached := e.graphMetrics
	e.mu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	nodes, edges := e.snapshotInputs()
	m, err := e.dispatcher.Metrics(ctx, nodes, edges)
	if err != nil {
		return graph.Metrics{}, err
	}

	e.mu.Lock()
	e.graphMetrics = &m
	e.mu.Unlock()
	return m, nil
}

// ShortestPath answers a connectivity query against the current
// snapshot. nil result means no path.
func (e *Engine) ShortestPath(ctx context.Context, startID, endID string) ([]string, error) {
	nodes, edges := e.snapshotInputs()
	return e.dispatcher.ShortestPath(ctx, nodes, edges, startID, endID)
}

// ConnectedNodes answers a bounded-reachability query against the
// current snapshot
func (e *Engine) ConnectedNodes(ctx context.Context, nodeID string, maxDepth int) ([]string, error) {
	nodes, edges := e.snapshotInputs()
	return e.dispatcher.ConnectedNodes(ctx, nodes, edges, nodeID, maxDepth)
}

// UpdateStrengths recomputes and caches relevance scores between the
// focus set and the connected set
func (e *Engine) UpdateStrengths(ctx context.Context, focusIDs, connectedIDs []string) (map[string]float64, error) {
	nodes, edges := e.snapshotInputs()
	scores, err := e.dispatcher.Strengths(ctx, nodes, edges, focusIDs, connectedIDs)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.strengths = scores
	e.mu.Unlock()
	return scores, nil
}

// Strengths returns the cached relevance scores
func (e *Engine) Strengths() map[string]float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.strengths
}

// SelectionChanged reframes the camera on the selected nodes
func (e *Engine) SelectionChanged(selectedIDs []string) {
	e.camera.NotifySelectionChanged(positionList(e.Positions(), selectedIDs))
}

// FilterChanged reframes the camera on the filtered node subset
func (e *Engine) FilterChanged(visibleIDs []string) {
	e.camera.NotifyFilterChanged(positionList(e.Positions(), visibleIDs))
}

// OptimizeCamera forces a reframe on the full node set
func (e *Engine) OptimizeCamera() {
	e.camera.RequestOptimize(positionList(e.Positions(), nil))
}

// ResetCamera forces a reframe even during a user override
func (e *Engine) ResetCamera() {
	e.camera.ResetToOptimal(positionList(e.Positions(), nil))
}

// CameraState returns the current pose and controller state
func (e *Engine) CameraState() (camera.State, camera.PositioningState) {
	return e.camera.State(), e.camera.PositioningState()
}

// Close shuts down the dispatcher, camera timers, and event bus
func (e *Engine) Close() {
	e.camera.Close()
	e.dispatcher.Close()
	e.bus.Shutdown()
}

// positionList extracts position vectors, optionally restricted to a
// subset of IDs. IDs with no known position are skipped.
func positionList(positions map[string]graph.Vector3, ids []string) []graph.Vector3 {
	if ids == nil {
		out := make([]graph.Vector3, 0, len(positions))
		for _, p := range positions {
			out = append(out, p)
		}
		return out
	}
	out := make([]graph.Vector3, 0, len(ids))
	for _, id := range ids {
		if p, ok := positions[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// cameraConfig maps the YAML-facing camera config onto the controller
func cameraConfig(c config.CameraConfig) camera.PositioningConfig {
	return camera.PositioningConfig{
		AutoEnabled:         c.AutoEnabled,
		TransitionDuration:  c.TransitionDuration,
		UserOverrideTimeout: c.UserOverrideTimeout,
		AllowManualOverride: c.AllowManualOverride,
		PaddingFactor:       c.PaddingFactor,
		MinDistance:         c.MinDistance,
		MaxDistance:         c.MaxDistance,
		FieldOfView:         c.FieldOfView,
		PreventCloseUp:      c.PreventCloseUp,
		MaintainOrientation: c.MaintainOrientation,
	}
}
