package kdag

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Validation limits to prevent pathological cases
const (
	MaxNodes           = 1 << 20
	MaxDepth           = 10000
	MaxChildrenPerNode = 4096
)

// Validate performs all topology validations.
// Returns early on first error.
func (g *Graph) Validate() error {
	if len(g.Nodes) > MaxNodes {
		return fmt.Errorf("%w: node count %d exceeds maximum %d",
			ErrInvalidTopology, len(g.Nodes), MaxNodes)
	}

	if err := g.detectCycles(); err != nil {
		return fmt.Errorf("DAG validation failed: %w", err)
	}

	return nil
}

// detectCycles uses Depth-First Search (DFS) to find cycles in the DAG.
// Returns ErrCycleDetected if any cycle is found.
// Time complexity: O(V + E) where V is vertices and E is edges.
func (g *Graph) detectCycles() error {
	visited := make(map[NodeID]bool, len(g.Nodes))
	recStack := make(map[NodeID]bool, len(g.Nodes))

	var dfs func(NodeID, []NodeID, int) error
	dfs = func(nodeID NodeID, path []NodeID, depth int) error {
		if depth > MaxDepth {
			return fmt.Errorf("%w: maximum depth %d exceeded", ErrInvalidTopology, MaxDepth)
		}

		visited[nodeID] = true
		recStack[nodeID] = true
		path = append(path, nodeID)

		node := g.Nodes[nodeID]
		if len(node.Children) > MaxChildrenPerNode {
			return fmt.Errorf("%w: node %s has %d children, exceeds maximum %d",
				ErrInvalidTopology, nodeID, len(node.Children), MaxChildrenPerNode)
		}

		for _, childID := range node.Children {
			if !visited[childID] {
				if err := dfs(childID, path, depth+1); err != nil {
					return err
				}
			} else if recStack[childID] {
				cyclePath := append(path, childID)
				pathStr := make([]string, len(cyclePath))
				for i, id := range cyclePath {
					pathStr[i] = id.String()
				}
				return fmt.Errorf("%w: %s", ErrCycleDetected, strings.Join(pathStr, " -> "))
			}
		}

		recStack[nodeID] = false
		return nil
	}

	for _, nodeID := range g.sortedIDs() {
		if !visited[nodeID] {
			if err := dfs(nodeID, nil, 0); err != nil {
				return err
			}
		}
	}

	return nil
}

func (g *Graph) sortedIDs() []NodeID {
	ids := maps.Keys(g.Nodes)
	slices.SortFunc(ids, NodeID.Less)
	return ids
}

// insertSorted inserts an item into a sorted slice maintaining sort order.
// Time complexity: O(log n + n) for binary search + insert.
func insertSorted(slice []NodeID, item NodeID) []NodeID {
	idx, _ := slices.BinarySearchFunc(slice, item, func(a, b NodeID) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return slices.Insert(slice, idx, item)
}

// TopologicalSort returns all nodes so that every parent precedes its
// children. Ties are broken by NodeID.
func (g *Graph) TopologicalSort() ([]NodeID, error) {
	return g.topologicalSort()
}

// ReverseTopologicalSort returns nodes in reverse topological order.
// This means children come before parents.
func (g *Graph) ReverseTopologicalSort() ([]NodeID, error) {
	order, err := g.topologicalSort()
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// topologicalSort creates a deterministic topological ordering using Kahn's algorithm.
// Time complexity: O(V log V + E) where V is vertices and E is edges.
// The log V factor comes from maintaining sorted order for determinism.
func (g *Graph) topologicalSort() ([]NodeID, error) {
	inDegree := make(map[NodeID]int, len(g.Nodes))
	for nodeID, node := range g.Nodes {
		inDegree[nodeID] = len(node.Parents)
	}

	queue := make([]NodeID, 0, len(g.Nodes)/4)
	for nodeID, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, nodeID)
		}
	}
	slices.SortFunc(queue, NodeID.Less)

	result := make([]NodeID, 0, len(g.Nodes))
	for len(queue) > 0 {
		nodeID := queue[0]
		queue = queue[1:]
		result = append(result, nodeID)

		// Children are kept sorted by AddEdge.
		for _, childID := range g.Nodes[nodeID].Children {
			inDegree[childID]--
			if inDegree[childID] == 0 {
				queue = insertSorted(queue, childID)
			}
		}
	}

	if len(result) != len(g.Nodes) {
		return nil, fmt.Errorf("%w: topological sort failed", ErrCycleDetected)
	}

	return result, nil
}
