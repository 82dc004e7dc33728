package dispatch

import (
	"github.com/dd0wney/graphscape/pkg/graph"
	"github.com/dd0wney/graphscape/pkg/layout"
)

// GraphPayload is the serialized snapshot carried inside requests.
// Workers rebuild an immutable snapshot from it, so concurrent
// requests never share mutable state.
type GraphPayload struct {
	Nodes []graph.Node `json:"nodes"`
	Edges []graph.Edge `json:"edges"`
}

// Snapshot rebuilds the immutable snapshot on the worker side
func (p *GraphPayload) Snapshot() *graph.Snapshot {
	return graph.NewSnapshot(p.Nodes, p.Edges)
}

// LayoutRequest asks for a full layout run
type LayoutRequest struct {
	Graph  GraphPayload  `json:"graph"`
	Config layout.Config `json:"config"`
}

// MetricsRequest asks for aggregate graph metrics
type MetricsRequest struct {
	Graph GraphPayload `json:"graph"`
}

// ClustersRequest asks for structural clusters above a threshold
type ClustersRequest struct {
	Graph           GraphPayload `json:"graph"`
	MinStrength     float64      `json:"min_strength"`
	DefaultStrength float64      `json:"default_strength"`
}

// ClustersResponse carries the detected clusters
type ClustersResponse struct {
	Clusters []graph.Cluster `json:"clusters"`
}

// ShortestPathRequest asks for the path between two nodes
type ShortestPathRequest struct {
	Graph   GraphPayload `json:"graph"`
	StartID string       `json:"start_id"`
	EndID   string       `json:"end_id"`
}

// ShortestPathResponse carries the ordered path, nil when unreachable
type ShortestPathResponse struct {
	Path []string `json:"path"`
}

// ConnectedNodesRequest asks for the bounded neighborhood of a node
type ConnectedNodesRequest struct {
	Graph    GraphPayload `json:"graph"`
	NodeID   string       `json:"node_id"`
	MaxDepth int          `json:"max_depth"`
}

// ConnectedNodesResponse carries the reachable node IDs
type ConnectedNodesResponse struct {
	NodeIDs []string `json:"node_ids"`
}

// StrengthsRequest asks for relevance scores against a focus set
type StrengthsRequest struct {
	Graph        GraphPayload `json:"graph"`
	FocusIDs     []string     `json:"focus_ids"`
	ConnectedIDs []string     `json:"connected_ids"`
}

// StrengthsResponse carries the per-node scores
type StrengthsResponse struct {
	Scores map[string]float64 `json:"scores"`
}
