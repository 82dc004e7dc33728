// Package camera computes optimal framing poses for the current node
// set and mediates between automatic positioning and user-driven
// control with a small state machine: Stable, Transitioning,
// UserOverride.
package camera

import (
	"sync"
	"time"

	"github.com/dd0wney/graphscape/pkg/graph"
	"github.com/dd0wney/graphscape/pkg/logging"
	"github.com/dd0wney/graphscape/pkg/metrics"
)

// coalesceWindow batches trigger bursts (rapid selection changes) into
// a single pending transition instead of restarting on every event
const coalesceWindow = 120 * time.Millisecond

// Controller owns the camera state machine. It is cheap relative to
// layout and runs on the caller's goroutine; only its timers fire
// elsewhere, guarded by the mutex.
type Controller struct {
	mu  sync.Mutex
	cfg PositioningConfig

	mode        Mode
	state       State
	goal        State
	lastTrigger Trigger

	pendingPositions []graph.Vector3
	pendingTrigger   Trigger
	pending          bool

	coalesceTimer   *time.Timer
	transitionTimer *time.Timer
	overrideTimer   *time.Timer

	// onChange, when set, is invoked (without the lock held) after
	// every mode or pose change.
	onChange func(State, PositioningState)

	logger  logging.Logger
	metrics *metrics.Registry
	closed  bool
}

// NewController creates a camera controller in the Stable state
func NewController(cfg PositioningConfig) *Controller {
	return &Controller{
		cfg:  cfg,
		mode: ModeStable,
		state: State{
			Position: graph.Vector3{Z: cfg.MinDistance},
			Up:       graph.Vector3{Y: 1},
			FOV:      cfg.FieldOfView,
			Near:     0.1,
			Far:      cfg.MaxDistance * 10,
		},
		logger:  logging.DefaultLogger().With(logging.Component("camera")),
		metrics: metrics.DefaultRegistry(),
	}
}

// OnChange installs a callback for pose and mode changes
func (c *Controller) OnChange(fn func(State, PositioningState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// State returns the current camera pose
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// PositioningState returns the externally visible controller state
func (c *Controller) PositioningState() PositioningState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return PositioningState{Mode: c.mode, Pending: c.pending, LastTrigger: c.lastTrigger}
}

// NotifyNodeSetChanged schedules reframing for a new node set
func (c *Controller) NotifyNodeSetChanged(positions []graph.Vector3) {
	c.trigger(TriggerNodeSet, positions)
}

// NotifySelectionChanged schedules reframing for a selection change
func (c *Controller) NotifySelectionChanged(positions []graph.Vector3) {
	c.trigger(TriggerSelection, positions)
}

// NotifyFilterChanged schedules reframing for a filter change
func (c *Controller) NotifyFilterChanged(positions []graph.Vector3) {
	c.trigger(TriggerFilter, positions)
}

// RequestOptimize schedules reframing on explicit request
func (c *Controller) RequestOptimize(positions []graph.Vector3) {
	c.trigger(TriggerOptimize, positions)
}

// trigger coalesces framing triggers: the first one opens a short
// window, later ones inside the window just replace the pending
// positions. UserOverride swallows triggers until it expires.
func (c *Controller) trigger(t Trigger, positions []graph.Vector3) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.cfg.AutoEnabled || c.mode == ModeUserOverride {
		return
	}

	c.pendingPositions = positions
	c.pendingTrigger = t
	if c.pending {
		return
	}
	c.pending = true
	c.coalesceTimer = time.AfterFunc(coalesceWindow, c.flushPending)
}

// flushPending starts the transition for the coalesced trigger
func (c *Controller) flushPending() {
	c.mu.Lock()
	if c.closed || !c.pending || c.mode == ModeUserOverride {
		c.pending = false
		c.mu.Unlock()
		return
	}
	c.pending = false
	c.beginTransitionLocked(c.pendingTrigger, c.pendingPositions)
	state, ps := c.state, PositioningState{Mode: c.mode, Pending: c.pending, LastTrigger: c.lastTrigger}
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(state, ps)
	}
}

// beginTransitionLocked computes the goal pose and arms the transition
// timer. Caller holds the lock.
func (c *Controller) beginTransitionLocked(t Trigger, positions []graph.Vector3) {
	c.goal = FrameNodes(positions, c.state, c.cfg)
	c.mode = ModeTransitioning
	c.lastTrigger = t
	c.metrics.RecordCameraTransition(string(t))
	c.logger.Debug("camera transition", logging.String("trigger", string(t)))

	if c.transitionTimer != nil {
		c.transitionTimer.Stop()
	}
	c.transitionTimer = time.AfterFunc(c.cfg.TransitionDuration, c.completeTransition)
}

// completeTransition lands the camera on the goal pose
func (c *Controller) completeTransition() {
	c.mu.Lock()
	if c.closed || c.mode != ModeTransitioning {
		c.mu.Unlock()
		return
	}
	c.state = c.goal
	c.mode = ModeStable
	state, ps := c.state, PositioningState{Mode: c.mode, LastTrigger: c.lastTrigger}
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(state, ps)
	}
}

// NotifyUserInteraction records a manual camera manipulation. Any
// state moves to UserOverride (when permitted); automatic control
// resumes after UserOverrideTimeout of inactivity.
func (c *Controller) NotifyUserInteraction(pose State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.cfg.AllowManualOverride {
		return
	}

	c.state = pose
	if c.mode != ModeUserOverride {
		c.metrics.CameraOverridesTotal.Inc()
		c.logger.Debug("user override engaged")
	}
	c.mode = ModeUserOverride
	c.pending = false
	if c.transitionTimer != nil {
		c.transitionTimer.Stop()
	}
	if c.overrideTimer != nil {
		c.overrideTimer.Stop()
	}
	c.overrideTimer = time.AfterFunc(c.cfg.UserOverrideTimeout, c.overrideExpired)
}

// overrideExpired reverts to automatic control and runs a fresh
// framing cycle with the last known positions
func (c *Controller) overrideExpired() {
	c.mu.Lock()
	if c.closed || c.mode != ModeUserOverride {
		c.mu.Unlock()
		return
	}
	c.mode = ModeStable
	c.beginTransitionLocked(TriggerOverrideExpired, c.pendingPositions)
	c.mu.Unlock()
}

// ResetToOptimal forces a transition regardless of override state
func (c *Controller) ResetToOptimal(positions []graph.Vector3) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.overrideTimer != nil {
		c.overrideTimer.Stop()
	}
	c.mode = ModeStable
	c.pending = false
	c.beginTransitionLocked(TriggerReset, positions)
	c.mu.Unlock()
}

// Close stops all timers; the controller ignores further events
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, t := range []*time.Timer{c.coalesceTimer, c.transitionTimer, c.overrideTimer} {
		if t != nil {
			t.Stop()
		}
	}
}
