// Package kdag tracks the data-flow topology of the node instances in a node
// set.
//
// # Overview
//
// Every data connection from an output of node A to an input of node B adds
// the edge A -> B. The render pass must execute A's kernel before B's, so the
// graph has to stay acyclic: AddEdge rejects any edge that would close a
// cycle, and TopologicalSort returns the order the render pass schedules
// kernels in.
//
// Several connections may exist between the same pair of nodes. The graph
// counts them, and the edge disappears once the last connection is removed.
//
// # Basic Usage
//
//	g := kdag.NewGraph()
//	g.MustAddNode(a)
//	g.MustAddNode(b)
//
//	if err := g.AddEdge(a, b); errors.Is(err, kdag.ErrCycleDetected) {
//	    // b already feeds a
//	}
//
//	order, err := g.TopologicalSort()
//
// # Determinism
//
// The order is deterministic: among nodes that are ready at the same time the
// one with the lower NodeID comes first (Kahn's algorithm over a sorted
// queue).
//
// # Validation
//
// Validate checks the whole graph:
//
//   - **Cycle Detection**: DFS over all components
//   - **Size Limits**: MaxNodes, MaxDepth, MaxChildrenPerNode
//
// All validation errors use sentinel errors (ErrCycleDetected,
// ErrInvalidTopology, etc.) that can be checked with errors.Is().
//
// # Thread Safety
//
// Graph is NOT safe for concurrent use.
package kdag
