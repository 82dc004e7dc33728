package algorithms

import (
	"fmt"
	"sort"

	"github.com/dd0wney/graphscape/pkg/graph"
)

// ClusterOptions restricts which edges participate in clustering
type ClusterOptions struct {
	// MinStrength drops edges whose resolved strength is below the
	// threshold. Zero admits every live edge.
	MinStrength float64
	// DefaultStrength is substituted for edges with no measured
	// strength before the threshold check.
	DefaultStrength float64
}

// Clusters finds connected components via iterative flood fill and
// reports each component of size >= 2 as a cluster. Singleton
// components are not clusters and are discarded. For each cluster the
// center is the mean of member positions and the radius the max
// distance from the center to any member.
func (idx *Index) Clusters(opts ClusterOptions) []graph.Cluster {
	adjacency := idx.neighbors
	if opts.MinStrength > 0 {
		adjacency = idx.thresholdAdjacency(opts)
	}

	// Deterministic iteration order for stable cluster IDs
	nodeIDs := make([]string, 0, len(adjacency))
	for id := range adjacency {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Strings(nodeIDs)

	visited := make(map[string]bool, len(nodeIDs))
	clusters := make([]graph.Cluster, 0)

	for _, startID := range nodeIDs {
		if visited[startID] {
			continue
		}

		// Flood fill this component
		member := []string{}
		stack := []string{startID}
		visited[startID] = true
		for len(stack) > 0 {
			nodeID := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			member = append(member, nodeID)

			for neighborID := range adjacency[nodeID] {
				if !visited[neighborID] {
					visited[neighborID] = true
					stack = append(stack, neighborID)
				}
			}
		}

		if len(member) < 2 {
			continue
		}
		sort.Strings(member)

		cluster := graph.Cluster{
			ID:      fmt.Sprintf("cluster-%d", len(clusters)),
			NodeIDs: member,
		}
		cluster.Center, cluster.Radius = clusterGeometry(idx.snapshot, member)
		clusters = append(clusters, cluster)
	}

	return clusters
}

// Components returns every connected component under the given options,
// singletons included. The layout engine uses this for placement
// groups, where isolated nodes still need a slot.
func (idx *Index) Components(opts ClusterOptions) [][]string {
	adjacency := idx.neighbors
	if opts.MinStrength > 0 {
		adjacency = idx.thresholdAdjacency(opts)
	}

	nodeIDs := make([]string, 0, len(adjacency))
	for id := range adjacency {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Strings(nodeIDs)

	visited := make(map[string]bool, len(nodeIDs))
	components := make([][]string, 0)

	for _, startID := range nodeIDs {
		if visited[startID] {
			continue
		}
		member := []string{}
		stack := []string{startID}
		visited[startID] = true
		for len(stack) > 0 {
			nodeID := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			member = append(member, nodeID)
			for neighborID := range adjacency[nodeID] {
				if !visited[neighborID] {
					visited[neighborID] = true
					stack = append(stack, neighborID)
				}
			}
		}
		sort.Strings(member)
		components = append(components, member)
	}

	return components
}

// thresholdAdjacency rebuilds the neighbor map using only edges whose
// strength clears the threshold
func (idx *Index) thresholdAdjacency(opts ClusterOptions) map[string]map[string]bool {
	adjacency := make(map[string]map[string]bool, idx.snapshot.NodeCount())
	for _, n := range idx.snapshot.Nodes() {
		adjacency[n.ID] = make(map[string]bool)
	}
	for _, e := range idx.snapshot.Edges() {
		if !idx.snapshot.HasNode(e.SourceID) || !idx.snapshot.HasNode(e.TargetID) {
			continue
		}
		if e.SourceID == e.TargetID {
			continue
		}
		if e.StrengthOrDefault(opts.DefaultStrength) < opts.MinStrength {
			continue
		}
		adjacency[e.SourceID][e.TargetID] = true
		adjacency[e.TargetID][e.SourceID] = true
	}
	return adjacency
}

// clusterGeometry computes the mean center and max-distance radius of
// a member set
func clusterGeometry(s *Snapshot, memberIDs []string) (graph.Vector3, float64) {
	var center graph.Vector3
	for _, id := range memberIDs {
		center = center.Add(s.Node(id).Position)
	}
	center = center.Scale(1 / float64(len(memberIDs)))

	radius := 0.0
	for _, id := range memberIDs {
		if d := center.Distance(s.Node(id).Position); d > radius {
			radius = d
		}
	}
	return center, radius
}
