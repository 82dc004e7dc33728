package layout

import (
	"math"
	"math/rand"
	"sort"

	"github.com/dd0wney/graphscape/pkg/graph"
)

// cubeVertices are the unit-cube corner directions used for up to
// eight cluster centers
var cubeVertices = [8]graph.Vector3{
	{X: -1, Y: -1, Z: -1},
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: -1},
	{X: 1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1},
	{X: 1, Y: -1, Z: 1},
	{X: -1, Y: 1, Z: 1},
	{X: 1, Y: 1, Z: 1},
}

// clusterCenters assigns each placement group a center from a fixed
// geometric distribution: a single group sits at the origin, up to
// eight go to cube vertices, and beyond that centers are spread on a
// spherical Fibonacci lattice. Everything scales by ClusterSeparation.
func clusterCenters(count int, separation float64) []graph.Vector3 {
	centers := make([]graph.Vector3, count)
	switch {
	case count == 1:
		centers[0] = graph.Vector3{}
	case count <= 8:
		for i := 0; i < count; i++ {
			centers[i] = cubeVertices[i].Scale(separation)
		}
	default:
		for i := 0; i < count; i++ {
			centers[i] = fibonacciSphere(i, count).Scale(separation)
		}
	}
	return centers
}

// fibonacciSphere returns the i-th of n near-uniform points on the
// unit sphere
func fibonacciSphere(i, n int) graph.Vector3 {
	golden := math.Pi * (3 - math.Sqrt(5))
	y := 1 - 2*(float64(i)+0.5)/float64(n)
	r := math.Sqrt(1 - y*y)
	theta := golden * float64(i)
	return graph.Vector3{
		X: r * math.Cos(theta),
		Y: y,
		Z: r * math.Sin(theta),
	}
}

// placeGroups positions each group's members on a square grid around
// the group center, jittered so the repulsion term has asymmetry to
// work with.
func (a *arena) placeGroups(groups [][]string, cfg Config, rng *rand.Rand) {
	centers := clusterCenters(len(groups), cfg.ClusterSeparation)

	for gi, member := range groups {
		side := int(math.Ceil(math.Sqrt(float64(len(member)))))
		if side == 0 {
			continue
		}
		for mi, id := range member {
			idx, ok := a.byID[id]
			if !ok {
				continue
			}
			row := mi / side
			col := mi % side
			jitter := graph.Vector3{
				X: (rng.Float64() - 0.5) * cfg.Spacing * 0.5,
				Y: (rng.Float64() - 0.5) * cfg.Spacing * 0.5,
				Z: (rng.Float64() - 0.5) * cfg.Spacing * 0.5,
			}
			a.nodes[idx].position = centers[gi].Add(graph.Vector3{
				X: (float64(col) - float64(side-1)/2) * cfg.Spacing,
				Y: (float64(row) - float64(side-1)/2) * cfg.Spacing,
			}).Add(jitter)
			a.nodes[idx].cluster = gi
		}
	}
}

// applyTemporalAxis sorts nodes by creation timestamp and maps the
// sort rank linearly onto the Z axis, overriding the depth coordinate
// so time reads front to back.
func (a *arena) applyTemporalAxis(s *graph.Snapshot, spread float64) {
	if spread <= 0 || len(a.nodes) < 2 {
		return
	}

	order := make([]int, len(a.nodes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		nx := s.Node(a.nodes[order[x]].id)
		ny := s.Node(a.nodes[order[y]].id)
		return nx.Metadata.CreatedAt.Before(ny.Metadata.CreatedAt)
	})

	step := spread / float64(len(order)-1)
	for rank, idx := range order {
		a.nodes[idx].position.Z = -spread/2 + float64(rank)*step
	}
}
