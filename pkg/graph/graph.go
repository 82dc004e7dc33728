// Package graph defines the passive data model shared by the layout and
// analysis components: nodes, edges, clusters, and immutable snapshots.
package graph

import "time"

// NodeType categorizes the content a node represents
type NodeType string

const (
	TypeDocument NodeType = "document"
	TypeNote     NodeType = "note"
	TypeAnalysis NodeType = "analysis"
	TypeReport   NodeType = "report"
	TypeSource   NodeType = "source"
	TypeEntity   NodeType = "entity"
)

// Metadata carries enrichment attributes attached to a node by the
// upstream content pipeline. None of these are mutated by the engine.
type Metadata struct {
	Confidence   float64   `json:"confidence"` // 0-1
	LastModified time.Time `json:"last_modified"`
	Source       string    `json:"source"`
	Tags         []string  `json:"tags,omitempty"`
	Weight       float64   `json:"weight"`        // prioritization when culling
	QualityScore float64   `json:"quality_score"` // 0-100
	CreatedAt    time.Time `json:"created_at"`
}

// Node represents one knowledge item in the graph
type Node struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Type          NodeType `json:"type"`
	Position      Vector3  `json:"position"`
	Size          float64  `json:"size"`  // presentation only
	Color         string   `json:"color"` // presentation only
	ConnectionIDs []string `json:"connection_ids,omitempty"`
	Metadata      Metadata `json:"metadata"`
}

// Edge represents a weighted relationship between two nodes.
// Strength is nil when the relationship has no measured confidence;
// RawWeight and RawScore are legacy fields used as strength fallbacks.
type Edge struct {
	ID        string   `json:"id"`
	SourceID  string   `json:"source_id"`
	TargetID  string   `json:"target_id"`
	Strength  *float64 `json:"strength,omitempty"` // 0-1
	Type      string   `json:"type"`
	RawWeight *float64 `json:"raw_weight,omitempty"`
	RawScore  *float64 `json:"raw_score,omitempty"`
}

// StrengthOrDefault resolves the edge's strength through the ordered
// fallback chain: explicit strength, raw weight, raw score. Missing or
// non-positive values yield def. Values above 1 are treated as
// percentages and rescaled.
func (e *Edge) StrengthOrDefault(def float64) float64 {
	for _, v := range []*float64{e.Strength, e.RawWeight, e.RawScore} {
		if v == nil || *v <= 0 {
			continue
		}
		s := *v
		if s > 1 {
			s = s / 100
			if s > 1 {
				s = 1
			}
		}
		return s
	}
	return def
}

// Cluster is a group of two or more structurally connected nodes
type Cluster struct {
	ID      string   `json:"id"`
	NodeIDs []string `json:"node_ids"` // ordered, len >= 2
	Center  Vector3  `json:"center"`
	Radius  float64  `json:"radius"`
	Color   string   `json:"color,omitempty"` // cosmetic
	Label   string   `json:"label,omitempty"` // cosmetic
}

// Metrics holds aggregate structural measurements of a snapshot
type Metrics struct {
	NodeCount        int     `json:"node_count"`
	EdgeCount        int     `json:"edge_count"`
	AverageDegree    float64 `json:"average_degree"`
	Density          float64 `json:"density"`
	Clustering       float64 `json:"clustering"`        // mean clustering coefficient
	DiameterEstimate float64 `json:"diameter_estimate"` // heuristic, not exact
}
