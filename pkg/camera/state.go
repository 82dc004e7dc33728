package camera

import (
	"time"

	"github.com/dd0wney/graphscape/pkg/graph"
)

// State is a full camera pose
type State struct {
	Position graph.Vector3 `json:"position"`
	Target   graph.Vector3 `json:"target"`
	Up       graph.Vector3 `json:"up"`
	FOV      float64       `json:"fov"`
	Near     float64       `json:"near"`
	Far      float64       `json:"far"`
}

// PositioningConfig controls automatic camera framing
type PositioningConfig struct {
	AutoEnabled         bool
	TransitionDuration  time.Duration
	UserOverrideTimeout time.Duration
	AllowManualOverride bool
	PaddingFactor       float64
	MinDistance         float64
	MaxDistance         float64
	FieldOfView         float64
	PreventCloseUp      bool
	MaintainOrientation bool
}

// Mode is the controller's state-machine state
type Mode string

const (
	// ModeStable means automatic control holds the current pose
	ModeStable Mode = "stable"
	// ModeTransitioning means the camera is moving to a new pose
	ModeTransitioning Mode = "transitioning"
	// ModeUserOverride means user input controls the camera
	ModeUserOverride Mode = "user_override"
)

// Trigger names what caused a transition
type Trigger string

const (
	TriggerNodeSet         Trigger = "node_set"
	TriggerSelection       Trigger = "selection"
	TriggerFilter          Trigger = "filter"
	TriggerOptimize        Trigger = "optimize"
	TriggerReset           Trigger = "reset"
	TriggerOverrideExpired Trigger = "override_expired"
)

// PositioningState is the externally visible controller state
type PositioningState struct {
	Mode        Mode    `json:"mode"`
	Pending     bool    `json:"pending"`
	LastTrigger Trigger `json:"last_trigger,omitempty"`
}
