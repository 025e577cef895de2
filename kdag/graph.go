package kdag

import (
	"errors"
	"fmt"

	"github.com/birdayz/kgraph/knode"
)

// NodeID identifies a node instance.
type NodeID = knode.NodeID

// Node is a vertex of the topology.
type Node struct {
	ID NodeID

	// Parent edges (incoming), sorted
	Parents []NodeID

	// Child edges (outgoing), sorted
	Children []NodeID
}

type edge struct {
	parent, child NodeID
}

// Graph is the data-flow topology of a node set.
type Graph struct {
	Nodes map[NodeID]*Node

	// Number of connections backing each edge
	edges map[edge]int
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes: make(map[NodeID]*Node),
		edges: make(map[edge]int),
	}
}

// AddNode adds an isolated node.
func (g *Graph) AddNode(id NodeID) error {
	if !id.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidNodeID, id)
	}
	if _, exists := g.Nodes[id]; exists {
		return fmt.Errorf("%w: %s", ErrNodeAlreadyExists, id)
	}
	if len(g.Nodes) >= MaxNodes {
		return fmt.Errorf("%w: node count exceeds maximum %d", ErrInvalidTopology, MaxNodes)
	}
	g.Nodes[id] = &Node{
		ID:       id,
		Parents:  []NodeID{},
		Children: []NodeID{},
	}
	return nil
}

// MustAddNode is like AddNode but panics on error.
func (g *Graph) MustAddNode(id NodeID) {
	must(g.AddNode(id))
}

// RemoveNode removes a node together with all of its edges.
func (g *Graph) RemoveNode(id NodeID) error {
	node, ok := g.Nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	for _, parentID := range node.Parents {
		parent := g.Nodes[parentID]
		parent.Children = remove(parent.Children, id)
		delete(g.edges, edge{parentID, id})
	}
	for _, childID := range node.Children {
		child := g.Nodes[childID]
		child.Parents = remove(child.Parents, id)
		delete(g.edges, edge{id, childID})
	}
	delete(g.Nodes, id)
	return nil
}

// AddEdge records one connection from parent to child. It fails with
// ErrCycleDetected when child already reaches parent.
func (g *Graph) AddEdge(parentID, childID NodeID) error {
	parent, ok := g.Nodes[parentID]
	if !ok {
		return fmt.Errorf("%w: parent %s", ErrNodeNotFound, parentID)
	}
	child, ok := g.Nodes[childID]
	if !ok {
		return fmt.Errorf("%w: child %s", ErrNodeNotFound, childID)
	}

	e := edge{parentID, childID}
	if g.edges[e] > 0 {
		g.edges[e]++
		return nil
	}

	if parentID == childID || g.Reaches(childID, parentID) {
		return fmt.Errorf("%w: %s -> %s", ErrCycleDetected, parentID, childID)
	}
	if len(parent.Children) >= MaxChildrenPerNode {
		return fmt.Errorf("%w: node %s has %d children, exceeds maximum %d",
			ErrInvalidTopology, parentID, len(parent.Children), MaxChildrenPerNode)
	}

	g.edges[e] = 1
	parent.Children = insertSorted(parent.Children, childID)
	child.Parents = insertSorted(child.Parents, parentID)
	return nil
}

// RemoveEdge removes one connection from parent to child.
func (g *Graph) RemoveEdge(parentID, childID NodeID) error {
	e := edge{parentID, childID}
	n, ok := g.edges[e]
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrEdgeNotFound, parentID, childID)
	}
	if n > 1 {
		g.edges[e] = n - 1
		return nil
	}

	delete(g.edges, e)
	parent := g.Nodes[parentID]
	parent.Children = remove(parent.Children, childID)
	child := g.Nodes[childID]
	child.Parents = remove(child.Parents, parentID)
	return nil
}

// Connections returns how many connections back the edge parent -> child.
func (g *Graph) Connections(parentID, childID NodeID) int {
	return g.edges[edge{parentID, childID}]
}

// Reaches reports whether to is reachable from from.
func (g *Graph) Reaches(from, to NodeID) bool {
	visited := make(map[NodeID]bool)
	stack := []NodeID{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == to {
			return true
		}
		if visited[id] {
			continue
		}
		visited[id] = true
		if node, ok := g.Nodes[id]; ok {
			stack = append(stack, node.Children...)
		}
	}
	return false
}

func remove(ids []NodeID, id NodeID) []NodeID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Sentinel errors for common failure cases.
var (
	ErrNodeAlreadyExists = errors.New("node already exists")
	ErrNodeNotFound      = errors.New("node not found")
	ErrEdgeNotFound      = errors.New("edge not found")
	ErrCycleDetected     = errors.New("cycle detected in DAG")
	ErrInvalidNodeID     = errors.New("invalid node ID")
	ErrInvalidTopology   = errors.New("invalid topology")
)
