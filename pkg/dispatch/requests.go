package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dd0wney/graphscape/pkg/graph"
	"github.com/dd0wney/graphscape/pkg/layout"
)

// Typed wrappers over Submit for each standard operation. Each takes
// the raw node/edge sets rather than a *graph.Snapshot because the
// snapshot is rebuilt on the worker side from the serialized payload.

// Layout runs a full layout in the background. The progress callback,
// when non-nil, receives milestones forwarded from the worker.
func (d *Dispatcher) Layout(ctx context.Context, nodes []graph.Node, edges []graph.Edge, cfg layout.Config, progress layout.ProgressFunc) (*layout.Result, error) {
	raw, err := d.Submit(ctx, OpLayout, LayoutRequest{
		Graph:  GraphPayload{Nodes: nodes, Edges: edges},
		Config: cfg,
	}, progress)
	if err != nil {
		return nil, err
	}
	var result layout.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding layout result: %w", err)
	}
	return &result, nil
}

// Metrics computes aggregate graph metrics in the background
func (d *Dispatcher) Metrics(ctx context.Context, nodes []graph.Node, edges []graph.Edge) (graph.Metrics, error) {
	raw, err := d.Submit(ctx, OpMetrics, MetricsRequest{
		Graph: GraphPayload{Nodes: nodes, Edges: edges},
	}, nil)
	if err != nil {
		return graph.Metrics{}, err
	}
	var m graph.Metrics
	if err := json.Unmarshal(raw, &m); err != nil {
		return graph.Metrics{}, fmt.Errorf("decoding metrics: %w", err)
	}
	return m, nil
}

// Clusters detects structural clusters in the background
func (d *Dispatcher) Clusters(ctx context.Context, nodes []graph.Node, edges []graph.Edge, minStrength, defaultStrength float64) ([]graph.Cluster, error) {
	raw, err := d.Submit(ctx, OpClusters, ClustersRequest{
		Graph:           GraphPayload{Nodes: nodes, Edges: edges},
		MinStrength:     minStrength,
		DefaultStrength: defaultStrength,
	}, nil)
	if err != nil {
		return nil, err
	}
	var resp ClustersResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decoding clusters: %w", err)
	}
	return resp.Clusters, nil
}

// ShortestPath finds a path between two nodes in the background.
// A nil path with nil error means no path exists.
func (d *Dispatcher) ShortestPath(ctx context.Context, nodes []graph.Node, edges []graph.Edge, startID, endID string) ([]string, error) {
	raw, err := d.Submit(ctx, OpShortestPath, ShortestPathRequest{
		Graph:   GraphPayload{Nodes: nodes, Edges: edges},
		StartID: startID,
		EndID:   endID,
	}, nil)
	if err != nil {
		return nil, err
	}
	var resp ShortestPathResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decoding path: %w", err)
	}
	return resp.Path, nil
}

// ConnectedNodes finds the bounded neighborhood of a node in the
// background
func (d *Dispatcher) ConnectedNodes(ctx context.Context, nodes []graph.Node, edges []graph.Edge, nodeID string, maxDepth int) ([]string, error) {
	raw, err := d.Submit(ctx, OpConnectedNodes, ConnectedNodesRequest{
		Graph:    GraphPayload{Nodes: nodes, Edges: edges},
		NodeID:   nodeID,
		MaxDepth: maxDepth,
	}, nil)
	if err != nil {
		return nil, err
	}
	var resp ConnectedNodesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decoding connected nodes: %w", err)
	}
	return resp.NodeIDs, nil
}

// Strengths computes relevance scores against a focus set in the
// background
func (d *Dispatcher) Strengths(ctx context.Context, nodes []graph.Node, edges []graph.Edge, focusIDs, connectedIDs []string) (map[string]float64, error) {
	raw, err := d.Submit(ctx, OpStrengths, StrengthsRequest{
		Graph:        GraphPayload{Nodes: nodes, Edges: edges},
		FocusIDs:     focusIDs,
		ConnectedIDs: connectedIDs,
	}, nil)
	if err != nil {
		return nil, err
	}
	var resp StrengthsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decoding strengths: %w", err)
	}
	return resp.Scores, nil
}
