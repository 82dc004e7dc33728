package layout

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/dd0wney/graphscape/pkg/graph"
)

func strengthPtr(v float64) *float64 { return &v }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	return cfg
}

// TestRun_EmptySnapshot tests that an empty graph converges trivially
func TestRun_EmptySnapshot(t *testing.T) {
	engine := NewEngine(testConfig())

	result := engine.Run(graph.NewSnapshot(nil, nil))
	if result.Outcome != PhaseConverged {
		t.Errorf("Expected converged outcome, got %s", result.Outcome)
	}
	if len(result.Positions) != 0 || len(result.Clusters) != 0 {
		t.Errorf("Expected empty result, got %+v", result)
	}
}

// TestRun_SingleNode tests the degenerate one-node layout
func TestRun_SingleNode(t *testing.T) {
	engine := NewEngine(testConfig())

	result := engine.Run(graph.NewSnapshot([]graph.Node{{ID: "only"}}, nil))
	if len(result.Positions) != 1 {
		t.Fatalf("Expected 1 position, got %d", len(result.Positions))
	}
	if _, ok := result.Positions["only"]; !ok {
		t.Error("Expected a position for the only node")
	}
	if len(result.Clusters) != 0 {
		t.Errorf("Expected no clusters for a singleton, got %d", len(result.Clusters))
	}
}

// TestRun_DeterministicWithSeed tests that a fixed seed reproduces the
// exact layout
func TestRun_DeterministicWithSeed(t *testing.T) {
	snapshot := graph.NewSnapshot(
		[]graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		[]graph.Edge{
			{ID: "ab", SourceID: "a", TargetID: "b", Strength: strengthPtr(0.8)},
			{ID: "bc", SourceID: "b", TargetID: "c", Strength: strengthPtr(0.8)},
		},
	)

	first := NewEngine(testConfig()).Run(snapshot)
	second := NewEngine(testConfig()).Run(snapshot)

	for id, p := range first.Positions {
		q := second.Positions[id]
		if p != q {
			t.Errorf("Expected identical position for %s, got %+v and %+v", id, p, q)
		}
	}
	if first.Iterations != second.Iterations {
		t.Errorf("Expected identical iteration counts, got %d and %d",
			first.Iterations, second.Iterations)
	}
}

// TestRun_RecentersBoundingBox tests that the final bounding box is
// centered on the origin
func TestRun_RecentersBoundingBox(t *testing.T) {
	nodes := []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	engine := NewEngine(testConfig())

	result := engine.Run(graph.NewSnapshot(nodes, nil))

	min := graph.Vector3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max := graph.Vector3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, p := range result.Positions {
		min.X, max.X = math.Min(min.X, p.X), math.Max(max.X, p.X)
		min.Y, max.Y = math.Min(min.Y, p.Y), math.Max(max.Y, p.Y)
		min.Z, max.Z = math.Min(min.Z, p.Z), math.Max(max.Z, p.Z)
	}
	center := min.Add(max).Scale(0.5)
	if center.Length() > 1e-6 {
		t.Errorf("Expected bounding box centered on origin, center %+v", center)
	}
}

// TestRun_QuickLayoutCapsIterations tests the interactive iteration cap
func TestRun_QuickLayoutCapsIterations(t *testing.T) {
	cfg := testConfig()
	cfg.QuickLayout = true
	cfg.Iterations = 300
	engine := NewEngine(cfg)

	nodes := make([]graph.Node, 20)
	for i := range nodes {
		nodes[i] = graph.Node{ID: string(rune('a' + i))}
	}
	result := engine.Run(graph.NewSnapshot(nodes, nil))

	if result.Iterations > 50 {
		t.Errorf("Expected quick layout capped at 50 iterations, ran %d", result.Iterations)
	}
}

// TestRun_ProgressMilestones tests that milestones are ordered and
// terminal
func TestRun_ProgressMilestones(t *testing.T) {
	engine := NewEngine(testConfig())
	milestones := []Progress{}
	engine.SetProgress(func(p Progress) { milestones = append(milestones, p) })

	engine.Run(graph.NewSnapshot(
		[]graph.Node{{ID: "a"}, {ID: "b"}},
		[]graph.Edge{{ID: "ab", SourceID: "a", TargetID: "b"}},
	))

	if len(milestones) < 3 {
		t.Fatalf("Expected several milestones, got %d", len(milestones))
	}
	if milestones[0].Phase != PhaseInitializing || milestones[0].Percent != 0 {
		t.Errorf("Expected run to start at initializing 0%%, got %+v", milestones[0])
	}
	last := milestones[len(milestones)-1]
	if !last.Phase.Terminal() || last.Percent != 100 {
		t.Errorf("Expected terminal milestone at 100%%, got %+v", last)
	}
	for i := 1; i < len(milestones); i++ {
		if milestones[i].Percent < milestones[i-1].Percent {
			t.Errorf("Expected non-decreasing percent, got %f after %f",
				milestones[i].Percent, milestones[i-1].Percent)
		}
	}
}

// TestStep_RepulsionSeparatesNodes tests that with springs disabled two
// nearby nodes separate monotonically
func TestStep_RepulsionSeparatesNodes(t *testing.T) {
	cfg := testConfig()
	cfg.SpringStrength = 0
	cfg.Bounds = 0 // No clamping, so separation is purely force-driven
	engine := NewEngine(cfg)

	a := &arena{
		nodes: []nodeForce{
			{id: "a", position: graph.Vector3{X: -1}, mass: 1, cluster: 0},
			{id: "b", position: graph.Vector3{X: 1}, mass: 1, cluster: 1},
		},
		byID: map[string]int{"a": 0, "b": 1},
	}

	prev := a.nodes[0].position.Distance(a.nodes[1].position)
	for i := 0; i < 10; i++ {
		engine.step(a)
		dist := a.nodes[0].position.Distance(a.nodes[1].position)
		if dist <= prev {
			t.Fatalf("Expected separation to grow at step %d, went %f -> %f", i, prev, dist)
		}
		prev = dist
	}
}

// TestStep_CoincidentNodesGetNudged tests the deterministic nudge for
// stacked nodes
func TestStep_CoincidentNodesGetNudged(t *testing.T) {
	cfg := testConfig()
	cfg.SpringStrength = 0
	engine := NewEngine(cfg)

	a := &arena{
		nodes: []nodeForce{
			{id: "a", position: graph.Vector3{X: 5, Y: 5}, mass: 1, cluster: 0},
			{id: "b", position: graph.Vector3{X: 5, Y: 5}, mass: 1, cluster: 1},
		},
		byID: map[string]int{"a": 0, "b": 1},
	}

	engine.step(a)
	if dist := a.nodes[0].position.Distance(a.nodes[1].position); dist == 0 {
		t.Error("Expected coincident nodes to separate after one step")
	}
}

// TestRun_StrongSpringsKeepClusterCompact tests that a densely
// connected group settles with bounded spread
func TestRun_StrongSpringsKeepClusterCompact(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	nodes := make([]graph.Node, len(ids))
	for i, id := range ids {
		nodes[i] = graph.Node{ID: id}
	}
	edges := []graph.Edge{}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			edges = append(edges, graph.Edge{
				ID:       ids[i] + ids[j],
				SourceID: ids[i],
				TargetID: ids[j],
				Strength: strengthPtr(1.0),
			})
		}
	}

	cfg := testConfig()
	cfg.SpringStrength = 0.5
	result := NewEngine(cfg).Run(graph.NewSnapshot(nodes, edges))

	maxDist := 0.0
	for _, p := range result.Positions {
		for _, q := range result.Positions {
			if d := p.Distance(q); d > maxDist {
				maxDist = d
			}
		}
	}
	// Equilibrium sits where spring pull balances repulsion; anything
	// beyond a few multiples of the spacing means the springs lost
	if maxDist > 6*cfg.Spacing {
		t.Errorf("Expected compact cluster, max pairwise distance %f", maxDist)
	}
}

// TestRun_BuildsClustersAndAssignments tests cluster output over two
// disconnected components
func TestRun_BuildsClustersAndAssignments(t *testing.T) {
	nodes := []graph.Node{
		{ID: "a"}, {ID: "b"},
		{ID: "c"}, {ID: "d"},
		{ID: "lonely"},
	}
	edges := []graph.Edge{
		{ID: "ab", SourceID: "a", TargetID: "b", Strength: strengthPtr(0.9)},
		{ID: "cd", SourceID: "c", TargetID: "d", Strength: strengthPtr(0.9)},
	}

	result := NewEngine(testConfig()).Run(graph.NewSnapshot(nodes, edges))

	if len(result.Clusters) != 2 {
		t.Fatalf("Expected 2 clusters, got %d", len(result.Clusters))
	}
	if result.Assignments["a"] != result.Assignments["b"] {
		t.Error("Expected a and b in the same cluster")
	}
	if result.Assignments["a"] == result.Assignments["c"] {
		t.Error("Expected a and c in different clusters")
	}
	if _, assigned := result.Assignments["lonely"]; assigned {
		t.Error("Expected singleton to have no cluster assignment")
	}
}

// TestClusterCenters_Distribution tests the three placement regimes
func TestClusterCenters_Distribution(t *testing.T) {
	if got := clusterCenters(1, 40); !got[0].IsZero() {
		t.Errorf("Expected single cluster at origin, got %+v", got[0])
	}

	cube := clusterCenters(5, 40)
	seen := map[graph.Vector3]bool{}
	for _, c := range cube {
		if seen[c] {
			t.Errorf("Expected distinct cube centers, duplicate %+v", c)
		}
		seen[c] = true
		if math.Abs(c.Length()-40*math.Sqrt(3)) > 1e-9 {
			t.Errorf("Expected cube vertex at radius 40*sqrt(3), got %f", c.Length())
		}
	}

	sphere := clusterCenters(12, 40)
	for _, c := range sphere {
		if math.Abs(c.Length()-40) > 1e-6 {
			t.Errorf("Expected lattice point at radius 40, got %f", c.Length())
		}
	}
}

// TestApplyTemporalAxis_OrdersByCreation tests that older nodes land
// behind newer ones on the Z axis
func TestApplyTemporalAxis_OrdersByCreation(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	nodes := []graph.Node{
		{ID: "newest", Metadata: graph.Metadata{CreatedAt: base.AddDate(0, 2, 0)}},
		{ID: "oldest", Metadata: graph.Metadata{CreatedAt: base}},
		{ID: "middle", Metadata: graph.Metadata{CreatedAt: base.AddDate(0, 1, 0)}},
	}
	s := graph.NewSnapshot(nodes, nil)
	a := newArena(s, map[string]int{}, testConfig())

	a.applyTemporalAxis(s, 30)

	z := func(id string) float64 { return a.nodes[a.byID[id]].position.Z }
	if !(z("oldest") < z("middle") && z("middle") < z("newest")) {
		t.Errorf("Expected Z ordered by creation time, got oldest=%f middle=%f newest=%f",
			z("oldest"), z("middle"), z("newest"))
	}
	if z("oldest") != -15 || z("newest") != 15 {
		t.Errorf("Expected spread across [-15, 15], got %f and %f", z("oldest"), z("newest"))
	}
}

// TestPlaceGroups_SeparatesComponents tests that distinct groups start
// around distinct centers
func TestPlaceGroups_SeparatesComponents(t *testing.T) {
	s := graph.NewSnapshot([]graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}, nil)
	cfg := testConfig()
	a := newArena(s, map[string]int{}, cfg)

	groups := [][]string{{"a", "b"}, {"c", "d"}}
	a.placeGroups(groups, cfg, rand.New(rand.NewSource(1)))

	if a.nodes[a.byID["a"]].cluster != a.nodes[a.byID["b"]].cluster {
		t.Error("Expected a and b in the same placement group")
	}
	if a.nodes[a.byID["a"]].cluster == a.nodes[a.byID["c"]].cluster {
		t.Error("Expected a and c in different placement groups")
	}

	// Group centers sit at cube vertices separated by well over the
	// in-group grid spacing
	gap := a.nodes[a.byID["a"]].position.Distance(a.nodes[a.byID["c"]].position)
	if gap < cfg.ClusterSeparation {
		t.Errorf("Expected inter-group gap >= %f, got %f", cfg.ClusterSeparation, gap)
	}
}

// TestNewArena_MassAndSprings tests mass weighting and spring rest
// lengths
func TestNewArena_MassAndSprings(t *testing.T) {
	nodes := []graph.Node{
		{ID: "hub", Metadata: graph.Metadata{QualityScore: 100}},
		{ID: "leaf"},
	}
	edges := []graph.Edge{
		{ID: "e", SourceID: "hub", TargetID: "leaf", Strength: strengthPtr(1.0)},
	}
	cfg := testConfig()
	a := newArena(graph.NewSnapshot(nodes, edges), map[string]int{"hub": 1, "leaf": 1}, cfg)

	hub := a.nodes[a.byID["hub"]]
	if math.Abs(hub.mass-2.5) > 1e-9 { // 1 + 0.5*degree + quality/100
		t.Errorf("Expected hub mass 2.5, got %f", hub.mass)
	}

	if len(a.springs) != 1 {
		t.Fatalf("Expected 1 spring, got %d", len(a.springs))
	}
	if math.Abs(a.springs[0].ideal-cfg.Spacing*0.5) > 1e-9 {
		t.Errorf("Expected full-strength rest length %f, got %f",
			cfg.Spacing*0.5, a.springs[0].ideal)
	}
}
