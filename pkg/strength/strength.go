// Package strength derives a 0-1 relevance score between a set of
// focus nodes and their neighbors, used by the rendering layer for
// highlighting. Scores are structural: they come from edge strength
// values, not from any text analysis.
package strength

import (
	"github.com/dd0wney/graphscape/pkg/graph"
)

// NeutralStrength is substituted when an edge links two nodes but
// carries no usable strength value. A weak-but-unmeasured connection
// is distinct from no connection at all, which scores exactly 0.
const NeutralStrength = 0.5

// boostPerEdge is the multiplicative bonus applied for every
// qualifying edge beyond the first
const boostPerEdge = 0.1

// Scores computes a relevance score for each connected node against
// the focus set. A node with no edges into the focus set scores 0.
// A single qualifying edge contributes its resolved strength
// unmodified; multiple edges average and gain a +10% boost per extra
// edge, capped at 1.0.
func Scores(s *graph.Snapshot, focusIDs, connectedIDs []string) map[string]float64 {
	focus := make(map[string]bool, len(focusIDs))
	for _, id := range focusIDs {
		focus[id] = true
	}

	// Group qualifying edges by the connected node they touch
	edgesFor := make(map[string][]*graph.Edge)
	edges := s.LiveEdges()
	for i := range edges {
		e := &edges[i]
		switch {
		case focus[e.SourceID] && !focus[e.TargetID]:
			edgesFor[e.TargetID] = append(edgesFor[e.TargetID], e)
		case focus[e.TargetID] && !focus[e.SourceID]:
			edgesFor[e.SourceID] = append(edgesFor[e.SourceID], e)
		}
	}

	scores := make(map[string]float64, len(connectedIDs))
	for _, id := range connectedIDs {
		scores[id] = scoreFor(edgesFor[id])
	}
	return scores
}

// scoreFor averages the resolved strengths of the qualifying edges and
// applies the multi-edge boost
func scoreFor(edges []*graph.Edge) float64 {
	if len(edges) == 0 {
		return 0
	}

	sum := 0.0
	for _, e := range edges {
		sum += e.StrengthOrDefault(NeutralStrength)
	}
	score := sum / float64(len(edges))

	if len(edges) > 1 {
		score *= 1 + boostPerEdge*float64(len(edges)-1)
	}
	if score > 1 {
		score = 1
	}
	return score
}
