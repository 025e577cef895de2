package knode

// IsNodeData marks the per-instance simulation data of definition TDef.
type IsNodeData[TDef any] struct{}

func (IsNodeData[TDef]) nodeDataOf(*TDef) {}

// IsSimulationPorts marks the simulation port struct of definition TDef.
type IsSimulationPorts[TDef any] struct{}

func (IsSimulationPorts[TDef]) simulationPortsOf(*TDef) {}

// IsKernelData marks the per-instance kernel parameters of definition TDef.
type IsKernelData[TDef any] struct{}

func (IsKernelData[TDef]) kernelDataOf(*TDef) {}

// IsKernelPorts marks the kernel port struct of definition TDef.
type IsKernelPorts[TDef any] struct{}

func (IsKernelPorts[TDef]) kernelPortsOf(*TDef) {}

// IsGraphKernel marks the graph kernel of definition TDef.
type IsGraphKernel[TDef any] struct{}

func (IsGraphKernel[TDef]) graphKernelOf(*TDef) {}

// NodeDataOf is satisfied by types embedding IsNodeData[TDef].
type NodeDataOf[TDef any] interface {
	nodeDataOf(*TDef)
}

// SimulationPortsOf is satisfied by types embedding IsSimulationPorts[TDef].
type SimulationPortsOf[TDef any] interface {
	simulationPortsOf(*TDef)
}

// KernelDataOf is satisfied by types embedding IsKernelData[TDef].
type KernelDataOf[TDef any] interface {
	kernelDataOf(*TDef)
}

// KernelPortsOf is satisfied by types embedding IsKernelPorts[TDef].
type KernelPortsOf[TDef any] interface {
	kernelPortsOf(*TDef)
}

// GraphKernelOf is satisfied by types embedding IsGraphKernel[TDef].
type GraphKernelOf[TDef any] interface {
	graphKernelOf(*TDef)
}

// GraphKernel processes one node instance during the render pass.
type GraphKernel[TKernelData, TKernelPorts any] interface {
	Execute(ctx *RenderContext, data *TKernelData, ports *TKernelPorts)
}

// Initializer is implemented by node data that reacts to node creation.
type Initializer interface {
	Init(ctx *InitContext)
}

// Updater is implemented by node data that runs once per simulation update.
type Updater interface {
	Update(ctx *UpdateContext)
}

// Destroyer is implemented by node data that reacts to node destruction.
type Destroyer interface {
	Destroy(ctx *DestroyContext)
}

// MessageHandler handles every message input of payload type T that has no
// dedicated HandleXxx method.
type MessageHandler[T any] interface {
	HandleMessage(ctx *MessageContext, msg T)
}
