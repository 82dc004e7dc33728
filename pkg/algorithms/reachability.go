package algorithms

type bfsEntry struct {
	nodeID string
	hop    int
}

// ConnectedNodes performs a breadth-first traversal from nodeID,
// visiting each node at most once and stopping expansion past maxDepth
// hops. The seed node is never included in the result. An unknown
// nodeID or a non-positive maxDepth yields an empty result.
func (idx *Index) ConnectedNodes(nodeID string, maxDepth int) []string {
	result := make([]string, 0)
	if maxDepth <= 0 {
		return result
	}
	if _, known := idx.neighbors[nodeID]; !known {
		return result
	}

	visited := map[string]bool{nodeID: true}
	queue := []bfsEntry{{nodeID: nodeID, hop: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.hop >= maxDepth {
			continue
		}

		for neighborID := range idx.neighbors[current.nodeID] {
			if visited[neighborID] {
				continue
			}
			visited[neighborID] = true
			result = append(result, neighborID)
			queue = append(queue, bfsEntry{nodeID: neighborID, hop: current.hop + 1})
		}
	}

	return result
}
