package layout

import (
	"github.com/dd0wney/graphscape/pkg/graph"
)

// Result is the self-contained output of one layout run. Derived maps
// replace any previous result wholesale; nothing is merged.
type Result struct {
	// Positions maps node ID to its final coordinate, recentered so
	// the bounding-box center sits at the origin.
	Positions map[string]graph.Vector3 `json:"positions"`
	// Clusters are the structural clusters (size >= 2) with geometry
	// computed from the final positions.
	Clusters []graph.Cluster `json:"clusters"`
	// Assignments maps node ID to cluster ID for clustered nodes.
	Assignments map[string]string `json:"assignments"`
	// Outcome is PhaseConverged or PhaseExhausted. Exhaustion is an
	// accepted partial result, not an error.
	Outcome Phase `json:"outcome"`
	// Iterations actually consumed.
	Iterations int `json:"iterations"`
	// FinalEnergy is the total kinetic energy at termination.
	FinalEnergy float64 `json:"final_energy"`
}
