package layout

import (
	"github.com/dd0wney/graphscape/pkg/graph"
)

// nodeForce is the per-node scratch record of a simulation run. The
// arena owns all mutable state; the input snapshot is never touched.
type nodeForce struct {
	id       string
	position graph.Vector3
	force    graph.Vector3
	velocity graph.Vector3
	mass     float64
	cluster  int // placement group index, -1 before clustering
}

// arena is the simulation scratch space: an index-keyed slice of
// nodeForce records plus the edge list resolved to indices. Created at
// the start of a run and discarded once positions are finalized.
type arena struct {
	nodes   []nodeForce
	byID    map[string]int
	springs []spring
}

// spring is one live edge resolved to arena indices with its ideal
// rest length precomputed
type spring struct {
	a, b  int
	ideal float64
}

// newArena builds scratch records for every node in the snapshot.
// Mass grows with connection count and quality score so well-connected,
// high-quality nodes resist displacement.
func newArena(s *graph.Snapshot, degrees map[string]int, cfg Config) *arena {
	a := &arena{
		nodes: make([]nodeForce, 0, s.NodeCount()),
		byID:  make(map[string]int, s.NodeCount()),
	}
	for _, n := range s.Nodes() {
		a.byID[n.ID] = len(a.nodes)
		a.nodes = append(a.nodes, nodeForce{
			id:       n.ID,
			position: n.Position,
			mass:     1 + 0.5*float64(degrees[n.ID]) + n.Metadata.QualityScore/100,
			cluster:  -1,
		})
	}
	for _, e := range s.Edges() {
		ai, ok := a.byID[e.SourceID]
		if !ok {
			continue
		}
		bi, ok := a.byID[e.TargetID]
		if !ok || ai == bi {
			continue
		}
		// Stronger edges pull nodes closer
		strength := e.StrengthOrDefault(0.5)
		a.springs = append(a.springs, spring{
			a:     ai,
			b:     bi,
			ideal: cfg.Spacing * (1 - strength*0.5),
		})
	}
	return a
}

// totalKineticEnergy sums velocity magnitudes across all nodes
func (a *arena) totalKineticEnergy() float64 {
	total := 0.0
	for i := range a.nodes {
		total += a.nodes[i].velocity.Length()
	}
	return total
}

// positions extracts the final position map
func (a *arena) positions() map[string]graph.Vector3 {
	out := make(map[string]graph.Vector3, len(a.nodes))
	for i := range a.nodes {
		out[a.nodes[i].id] = a.nodes[i].position
	}
	return out
}
