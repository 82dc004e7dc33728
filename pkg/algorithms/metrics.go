package algorithms

import (
	"math"

	"github.com/dd0wney/graphscape/pkg/graph"
)

// Metrics computes aggregate structural measurements over the indexed
// snapshot. All divisions and logarithms are guarded: a graph with one
// node, or no edges, yields zero values rather than NaN or Inf.
//
// DiameterEstimate is a log(N)/log(avgDegree) heuristic carried over
// from the original analysis pipeline — it approximates the diameter
// of a random graph with the same degree distribution and must not be
// relied on as an exact diameter.
func (idx *Index) Metrics() graph.Metrics {
	nodeCount := idx.snapshot.NodeCount()

	// Count live edges from the adjacency map: each undirected edge
	// contributes two entries
	degreeSum := 0
	for _, neighbors := range idx.neighbors {
		degreeSum += len(neighbors)
	}
	edgeCount := degreeSum / 2

	m := graph.Metrics{
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
	}
	if nodeCount == 0 {
		return m
	}

	m.AverageDegree = 2 * float64(edgeCount) / float64(nodeCount)

	if nodeCount > 1 {
		possible := float64(nodeCount) * float64(nodeCount-1) / 2
		m.Density = float64(edgeCount) / possible
	}

	m.Clustering = idx.averageClusteringCoefficient()

	if nodeCount > 1 && m.AverageDegree > 1 {
		m.DiameterEstimate = math.Log(float64(nodeCount)) / math.Log(m.AverageDegree)
	}

	return m
}

// averageClusteringCoefficient computes, for each node with degree
// k >= 2, 2*triangles/(k*(k-1)), and averages over qualifying nodes
func (idx *Index) averageClusteringCoefficient() float64 {
	sum := 0.0
	qualifying := 0

	for _, neighbors := range idx.neighbors {
		k := len(neighbors)
		if k < 2 {
			continue
		}

		neighborList := make([]string, 0, k)
		for n := range neighbors {
			neighborList = append(neighborList, n)
		}

		triangles := 0
		for i := 0; i < len(neighborList); i++ {
			for j := i + 1; j < len(neighborList); j++ {
				if idx.neighbors[neighborList[i]][neighborList[j]] {
					triangles++
				}
			}
		}

		sum += 2 * float64(triangles) / (float64(k) * float64(k-1))
		qualifying++
	}

	if qualifying == 0 {
		return 0
	}
	return sum / float64(qualifying)
}
