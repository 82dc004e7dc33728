package graph

// Snapshot is an immutable view of the graph at one point in time.
// The upstream pipeline supplies nodes and edges wholesale on every
// content change; the engine never mutates a snapshot, it only derives
// new position and cluster maps from it.
//
// An edge whose source or target is absent from the node set is inert:
// it stays in the snapshot but is skipped by every algorithm.
type Snapshot struct {
	nodes   []Node
	edges   []Edge
	nodeIdx map[string]int
}

// NewSnapshot copies the supplied nodes and edges into an immutable
// snapshot. Duplicate node IDs keep the first occurrence.
func NewSnapshot(nodes []Node, edges []Edge) *Snapshot {
	s := &Snapshot{
		nodes:   make([]Node, 0, len(nodes)),
		edges:   make([]Edge, len(edges)),
		nodeIdx: make(map[string]int, len(nodes)),
	}
	for _, n := range nodes {
		if _, dup := s.nodeIdx[n.ID]; dup {
			continue
		}
		s.nodeIdx[n.ID] = len(s.nodes)
		s.nodes = append(s.nodes, n)
	}
	copy(s.edges, edges)
	return s
}

// NodeCount returns the number of nodes in the snapshot
func (s *Snapshot) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges, including inert ones
func (s *Snapshot) EdgeCount() int { return len(s.edges) }

// Node returns the node with the given ID, or nil if unknown
func (s *Snapshot) Node(id string) *Node {
	i, ok := s.nodeIdx[id]
	if !ok {
		return nil
	}
	return &s.nodes[i]
}

// HasNode reports whether a node with the given ID exists
func (s *Snapshot) HasNode(id string) bool {
	_, ok := s.nodeIdx[id]
	return ok
}

// Nodes returns the snapshot's nodes. Callers must treat the returned
// slice as read-only.
func (s *Snapshot) Nodes() []Node { return s.nodes }

// Edges returns the snapshot's edges. Callers must treat the returned
// slice as read-only.
func (s *Snapshot) Edges() []Edge { return s.edges }

// LiveEdges returns the edges whose endpoints both exist in the node
// set, i.e. the edges the algorithms operate on.
func (s *Snapshot) LiveEdges() []Edge {
	live := make([]Edge, 0, len(s.edges))
	for _, e := range s.edges {
		if s.HasNode(e.SourceID) && s.HasNode(e.TargetID) {
			live = append(live, e)
		}
	}
	return live
}
