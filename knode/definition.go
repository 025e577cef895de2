package knode

// NodeDefinition is the root of every node definition. Embedded directly it
// declares a naked node.
type NodeDefinition struct{}

func (NodeDefinition) isNodeDefinition() {}

func (NodeDefinition) NodeKind() Kind { return KindNaked }

// SimulationNode declares a node with simulation ports S.
type SimulationNode[S any] struct {
	NodeDefinition
	SimulationPorts S
}

func (SimulationNode[S]) NodeKind() Kind { return KindSimulation }

// KernelNode declares a node with kernel ports K.
type KernelNode[K any] struct {
	NodeDefinition
	KernelPorts K
}

func (KernelNode[K]) NodeKind() Kind { return KindKernel }

// SimulationKernelNode declares a node with simulation ports S and kernel
// ports K.
type SimulationKernelNode[S, K any] struct {
	NodeDefinition
	SimulationPorts S
	KernelPorts     K
}

func (SimulationKernelNode[S, K]) NodeKind() Kind { return KindSimulationKernel }

// Definition is implemented by node definitions completed by kgraphgen.
type Definition interface {
	isNodeDefinition()
	NodeKind() Kind
	KG_BaseTraits() *Traits
	KG_SimulationStorageTraits() SimulationStorageTraits
	KG_KernelStorageTraits() KernelStorageTraits
	KG_Install(vt *VirtualTable)
}

// SimulationPortDefinition is implemented by generated simulation port structs.
type SimulationPortDefinition interface {
	KG_InitPorts()
}

// KernelPortDefinition is implemented by generated kernel port structs.
type KernelPortDefinition interface {
	KG_InitPorts()
	KG_BindPorts(b *PortBinder)
}

// DSLConnection describes a DSL link between two nodes.
type DSLConnection struct {
	Source     NodeID
	SourcePort PortID
	Dest       NodeID
	DestPort   PortID
}

// DSLHandler is notified when DSL ports are connected or disconnected.
type DSLHandler interface {
	Connect(c DSLConnection)
	Disconnect(c DSLConnection)
}
