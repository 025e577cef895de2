// Package kgraph instantiates and connects node definitions completed by
// kgraphgen, and runs their graph kernels.
//
// # Overview
//
// A NodeSet owns node instances. Create allocates the node data and kernel
// state a definition's traits describe and returns a typed handle:
//
//	set := kgraph.New(kgraph.WithLogr(log))
//	defer set.Close()
//
//	osc, err := kgraph.Create[Osc](set)
//	gain, err := kgraph.Create[Gain](set)
//
// Ports are named through the registered definition instance:
//
//	_, err = kgraph.ConnectData(set,
//	    osc, osc.Def().KernelPorts.Out,
//	    gain, gain.Def().KernelPorts.In)
//
// # Messages
//
// SendMessage calls the handler the virtual table binds to a message input.
// Messages emitted by the handler are delivered to every connected input
// before SendMessage returns. Message connections may form loops; the
// nesting depth is bounded by WithMaxMessageDepth.
//
// # Render pass
//
// Update runs the Update hook of every node, then schedules the graph kernel
// of every node on the job scheduler. A kernel starts once the kernels of
// all nodes feeding its data inputs finished, so data connections must form
// a DAG and ConnectData rejects cycles with ErrCycleDetected.
//
// # Thread Safety
//
// NodeSet is NOT safe for concurrent use. Only the kernels of one render
// pass run in parallel.
package kgraph
