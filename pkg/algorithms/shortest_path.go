package algorithms

// ShortestPath finds an unweighted shortest path between two nodes
// using Dijkstra-style relaxation with uniform edge cost 1.
// It returns the ordered node-ID path including both endpoints, or nil
// when either ID is unknown or no path exists.
func (idx *Index) ShortestPath(startID, endID string) []string {
	if _, ok := idx.neighbors[startID]; !ok {
		return nil
	}
	if _, ok := idx.neighbors[endID]; !ok {
		return nil
	}
	if startID == endID {
		return []string{startID}
	}

	distances := map[string]float64{startID: 0}
	parent := map[string]string{startID: startID}
	settled := make(map[string]bool)

	type pqItem struct {
		nodeID   string
		distance float64
	}
	pq := []pqItem{{startID, 0}}

	for len(pq) > 0 {
		// Extract min (linear scan; frontier stays small for the
		// graph sizes this engine handles)
		minIdx := 0
		for i := 1; i < len(pq); i++ {
			if pq[i].distance < pq[minIdx].distance {
				minIdx = i
			}
		}
		current := pq[minIdx]
		pq = append(pq[:minIdx], pq[minIdx+1:]...)

		if settled[current.nodeID] {
			continue
		}
		settled[current.nodeID] = true

		if current.nodeID == endID {
			return reconstructPath(startID, endID, parent)
		}

		for neighborID := range idx.neighbors[current.nodeID] {
			newDist := current.distance + 1
			if oldDist, seen := distances[neighborID]; !seen || newDist < oldDist {
				distances[neighborID] = newDist
				parent[neighborID] = current.nodeID
				pq = append(pq, pqItem{neighborID, newDist})
			}
		}
	}

	return nil // No path found
}

// reconstructPath builds the path from start to end via parent links
func reconstructPath(startID, endID string, parent map[string]string) []string {
	path := make([]string, 0)
	node := endID
	for node != startID {
		path = append(path, node)
		node = parent[node]
	}
	path = append(path, startID)

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
