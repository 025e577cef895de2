// Package knode declares the contract between node definitions, the kgraphgen
// code generator and the kgraph runtime.
//
// # Overview
//
// A node definition is a named struct that embeds exactly one shape template:
//
//   - NodeDefinition: a naked node with no ports
//   - SimulationNode[S]: message and DSL ports, handled on the simulation thread
//   - KernelNode[K]: data ports, processed by a graph kernel during the render pass
//   - SimulationKernelNode[S, K]: both of the above
//
// The remaining parts of a node (its aspects) are declared as ordinary types in
// the same package. Each aspect names the definition it belongs to by embedding
// a marker parameterized by that definition:
//
//	type Osc struct {
//	    knode.SimulationKernelNode[OscSimPorts, OscKernelPorts]
//	}
//
//	type OscData struct {
//	    knode.IsNodeData[Osc]
//	    phase float64
//	}
//
//	type OscSimPorts struct {
//	    knode.IsSimulationPorts[Osc]
//	    Freq knode.MessageInput[Osc, float64]
//	}
//
//	type OscKernelData struct {
//	    knode.IsKernelData[Osc]
//	    Freq float64
//	}
//
//	type OscKernelPorts struct {
//	    knode.IsKernelPorts[Osc]
//	    Out knode.DataOutput[Osc, float64]
//	}
//
//	type OscKernel struct {
//	    knode.IsGraphKernel[Osc]
//	}
//
//	func (k *OscKernel) Execute(ctx *knode.RenderContext, data *OscKernelData, ports *OscKernelPorts) {
//	    ports.Out.Set(data.Freq)
//	}
//
//	func (d *OscData) HandleFreq(ctx *knode.MessageContext, freq float64) {
//	    knode.SetKernelData(ctx, OscKernelData{Freq: freq})
//	}
//
// # Generated code
//
// kgraphgen writes a kgraph_gen.go file next to the definitions. It holds the
// traits of every definition, the port initialization and binding methods, the
// virtual table installation and an init function registering the definition
// with this package. Nothing in this package uses reflection to discover ports or
// handlers: everything the runtime dispatches through is installed by generated
// code calling the generic Install and Bind functions declared here.
//
// # Directives
//
//   - //kgraph:managed on the node data type selects heap storage for node data
//   - //kgraph:abstract on a definition excludes it from generation
//
// Names starting with KG_ or kg_ are reserved for generated code.
package knode
