// Package algorithms provides pure, stateless structural queries over a
// graph snapshot: bounded reachability, shortest paths, connected-component
// clustering, and aggregate metrics. All queries are total functions —
// unknown IDs and degenerate graphs yield empty or neutral results, never
// errors.
package algorithms

import (
	"github.com/dd0wney/graphscape/pkg/graph"
)

// Index is an adjacency structure built once per snapshot. Edges are
// treated as undirected; inert edges (missing endpoint) are skipped.
type Index struct {
	snapshot  *Snapshot
	neighbors map[string]map[string]bool
}

// Snapshot aliases the graph snapshot type for package-local brevity
type Snapshot = graph.Snapshot

// NewIndex builds the adjacency map in O(E)
func NewIndex(s *Snapshot) *Index {
	idx := &Index{
		snapshot:  s,
		neighbors: make(map[string]map[string]bool, s.NodeCount()),
	}
	for _, n := range s.Nodes() {
		idx.neighbors[n.ID] = make(map[string]bool)
	}
	for _, e := range s.Edges() {
		if !s.HasNode(e.SourceID) || !s.HasNode(e.TargetID) {
			continue
		}
		if e.SourceID == e.TargetID {
			continue
		}
		idx.neighbors[e.SourceID][e.TargetID] = true
		idx.neighbors[e.TargetID][e.SourceID] = true
	}
	return idx
}

// Degree returns the undirected degree of a node, 0 for unknown IDs
func (idx *Index) Degree(nodeID string) int {
	return len(idx.neighbors[nodeID])
}

// Neighbors returns the neighbor set of a node. Callers must not
// mutate the returned map.
func (idx *Index) Neighbors(nodeID string) map[string]bool {
	return idx.neighbors[nodeID]
}

// Snapshot returns the snapshot the index was built from
func (idx *Index) Snapshot() *Snapshot { return idx.snapshot }
