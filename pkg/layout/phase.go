package layout

// Phase identifies where a layout run is in its lifecycle.
// A run moves Initializing → Clustering → InitialPlacement → Simulating
// and terminates in either Converged or Exhausted.
type Phase string

const (
	PhaseInitializing     Phase = "initializing"
	PhaseClustering       Phase = "clustering"
	PhaseInitialPlacement Phase = "initial_placement"
	PhaseSimulating       Phase = "simulating"
	PhaseConverged        Phase = "converged"
	PhaseExhausted        Phase = "exhausted"
)

// Terminal reports whether the phase ends a run
func (p Phase) Terminal() bool {
	return p == PhaseConverged || p == PhaseExhausted
}

// Progress is a discrete milestone reported during a run so a caller
// can drive a loading indicator
type Progress struct {
	Phase   Phase   `json:"phase"`
	Percent float64 `json:"percent"` // 0-100 across the whole run
}

// ProgressFunc receives progress milestones. It is called on the
// layout goroutine and must return quickly.
type ProgressFunc func(Progress)
