package graph

import (
	"math"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

// TestVector3_Basics tests the vector helpers the simulation leans on
func TestVector3_Basics(t *testing.T) {
	a := Vector3{X: 1, Y: 2, Z: 2}

	if got := a.Length(); got != 3 {
		t.Errorf("Expected length 3, got %f", got)
	}

	b := a.Normalize()
	if math.Abs(b.Length()-1) > 1e-9 {
		t.Errorf("Expected unit length, got %f", b.Length())
	}

	if got := (Vector3{}).Normalize(); !got.IsZero() {
		t.Errorf("Expected zero vector to normalize to itself, got %+v", got)
	}

	if got := a.Sub(a); !got.IsZero() {
		t.Errorf("Expected a-a to be zero, got %+v", got)
	}

	if got := (Vector3{X: 3}).Distance(Vector3{X: -1}); got != 4 {
		t.Errorf("Expected distance 4, got %f", got)
	}
}

// TestEdge_StrengthFallbackChain tests the ordered accessor chain
func TestEdge_StrengthFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		edge Edge
		want float64
	}{
		{"explicit strength", Edge{Strength: floatPtr(0.7)}, 0.7},
		{"raw weight fallback", Edge{RawWeight: floatPtr(0.3)}, 0.3},
		{"raw score fallback", Edge{RawScore: floatPtr(0.9)}, 0.9},
		{"strength wins over weight", Edge{Strength: floatPtr(0.2), RawWeight: floatPtr(0.8)}, 0.2},
		{"missing uses default", Edge{}, 0.5},
		{"non-positive uses default", Edge{Strength: floatPtr(0)}, 0.5},
		{"negative skips to next field", Edge{Strength: floatPtr(-1), RawWeight: floatPtr(0.6)}, 0.6},
		{"percentage rescaled", Edge{Strength: floatPtr(80)}, 0.8},
		{"huge percentage clamped", Edge{Strength: floatPtr(250)}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.edge.StrengthOrDefault(0.5); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.want, got)
			}
		})
	}
}

// TestSnapshot_Immutability tests that the snapshot copies its inputs
func TestSnapshot_Immutability(t *testing.T) {
	nodes := []Node{{ID: "a"}, {ID: "b"}}
	edges := []Edge{{ID: "e1", SourceID: "a", TargetID: "b"}}
	s := NewSnapshot(nodes, edges)

	nodes[0].ID = "mutated"
	edges[0].SourceID = "mutated"

	if s.Node("a") == nil {
		t.Error("Expected node a to survive caller mutation")
	}
	if s.Edges()[0].SourceID != "a" {
		t.Errorf("Expected edge source a, got %s", s.Edges()[0].SourceID)
	}
}

// TestSnapshot_DuplicateNodesKeepFirst tests duplicate ID handling
func TestSnapshot_DuplicateNodesKeepFirst(t *testing.T) {
	s := NewSnapshot([]Node{
		{ID: "a", Title: "first"},
		{ID: "a", Title: "second"},
	}, nil)

	if s.NodeCount() != 1 {
		t.Fatalf("Expected 1 node, got %d", s.NodeCount())
	}
	if s.Node("a").Title != "first" {
		t.Errorf("Expected first occurrence kept, got %s", s.Node("a").Title)
	}
}

// TestSnapshot_LiveEdges tests that dangling edges are inert
func TestSnapshot_LiveEdges(t *testing.T) {
	s := NewSnapshot(
		[]Node{{ID: "a"}, {ID: "b"}},
		[]Edge{
			{ID: "live", SourceID: "a", TargetID: "b"},
			{ID: "dangling", SourceID: "a", TargetID: "ghost"},
		},
	)

	if s.EdgeCount() != 2 {
		t.Errorf("Expected both edges retained, got %d", s.EdgeCount())
	}
	live := s.LiveEdges()
	if len(live) != 1 || live[0].ID != "live" {
		t.Errorf("Expected only the live edge, got %v", live)
	}
}
