package invalid

import "github.com/birdayz/kgraph/knode"

// KG0001
type NoShape struct{}

type NoShapeData struct {
	knode.IsNodeData[NoShape]
}

// KG0002
type TwoShapes struct {
	knode.NodeDefinition
	knode.SimulationNode[TwoShapesPorts]
}

type TwoShapesPorts struct {
	knode.IsSimulationPorts[TwoShapes]
}

// KG0003
type DupData struct {
	knode.NodeDefinition
}

type DupDataA struct {
	knode.IsNodeData[DupData]
}

type DupDataB struct {
	knode.IsNodeData[DupData]
}

// KG0004
type HalfKernel struct {
	knode.KernelNode[HalfKernelPorts]
}

type HalfKernelData struct {
	knode.IsKernelData[HalfKernel]
}

type HalfKernelPorts struct {
	knode.IsKernelPorts[HalfKernel]
}

// KG0005
type SimWithKernel struct {
	knode.SimulationNode[SimWithKernelPorts]
}

type SimWithKernelPorts struct {
	knode.IsSimulationPorts[SimWithKernel]
}

type SimWithKernelData struct {
	knode.IsKernelData[SimWithKernel]
}

// KG0006
type WrongArg struct {
	knode.SimulationNode[OtherPorts]
}

type WrongArgPorts struct {
	knode.IsSimulationPorts[WrongArg]
}

type OtherPorts struct{}

// KG0007
type BadExec struct {
	knode.KernelNode[BadExecPorts]
}

type BadExecData struct {
	knode.IsKernelData[BadExec]
}

type BadExecPorts struct {
	knode.IsKernelPorts[BadExec]
}

type BadExecKernel struct {
	knode.IsGraphKernel[BadExec]
}

func (k *BadExecKernel) Execute(ctx *knode.RenderContext, data *BadExecData) {}

// KG0008
type TwoCtors struct {
	knode.NodeDefinition
}

type TwoCtorsData struct {
	knode.IsNodeData[TwoCtors]
}

func NewTwoCtors() *TwoCtors { return &TwoCtors{} }

func NewTwoCtorsFrom(n int) *TwoCtors { return &TwoCtors{} }

// KG0009
type Reserved struct {
	knode.NodeDefinition
}

type ReservedData struct {
	knode.IsNodeData[Reserved]
	KG_state int
}

// KG0010
type NoHandler struct {
	knode.SimulationNode[NoHandlerPorts]
}

type NoHandlerPorts struct {
	knode.IsSimulationPorts[NoHandler]
	In knode.MessageInput[NoHandler, int]
}

type NoHandlerData struct {
	knode.IsNodeData[NoHandler]
}

// KG0011
type Ambiguous struct {
	knode.SimulationNode[AmbiguousPorts]
}

type AmbiguousPorts struct {
	knode.IsSimulationPorts[Ambiguous]
	In knode.MessageInput[Ambiguous, int]
}

type AmbiguousData struct {
	knode.IsNodeData[Ambiguous]
}

func (d *AmbiguousData) HandleInt(ctx *knode.MessageContext, n int) {}

func (d *AmbiguousData) HandleMessage(ctx *knode.MessageContext, n int) {}

// KG0012
type DupHandler struct {
	knode.SimulationNode[DupHandlerPorts]
}

type DupHandlerPorts struct {
	knode.IsSimulationPorts[DupHandler]
	In knode.MessageInput[DupHandler, int]
}

type DupHandlerData struct {
	knode.IsNodeData[DupHandler]
}

func (d *DupHandlerData) HandleA(ctx *knode.MessageContext, n int) {}

func (d *DupHandlerData) HandleB(ctx *knode.MessageContext, n int) {}

// KG0013
type BadField struct {
	knode.SimulationNode[BadFieldPorts]
}

type BadFieldPorts struct {
	knode.IsSimulationPorts[BadField]
	Count int
}

// KG0014
type SharedField struct {
	knode.SimulationNode[SharedFieldPorts]
}

type SharedFieldPorts struct {
	knode.IsSimulationPorts[SharedField]
	Out *knode.MessageOutput[SharedField, int]
}

// KG0015
type WrongOwner struct {
	knode.SimulationNode[WrongOwnerPorts]
}

type WrongOwnerPorts struct {
	knode.IsSimulationPorts[WrongOwner]
	Out knode.MessageOutput[Ambiguous, int]
}

// KG0016
type WrongClass struct {
	knode.SimulationNode[WrongClassPorts]
}

type WrongClassPorts struct {
	knode.IsSimulationPorts[WrongClass]
	In knode.DataInput[WrongClass, float64]
}

// KG0018
type Deferred[T any] struct {
	knode.SimulationNode[DeferredPorts]
	v T
}

type DeferredPorts struct{}

// KG0019
type Empty struct {
	knode.NodeDefinition
}

// KG0020
type Sloppy struct {
	knode.SimulationNode[SloppyPorts]
}

type SloppyPorts struct {
	knode.IsSimulationPorts[Sloppy]
}

type SloppyData struct {
	knode.IsNodeData[Sloppy]
}

func (d *SloppyData) Update() {}

// KG0021
type PtrSim struct {
	*knode.SimulationNode[PtrSimPorts]
}

type PtrSimPorts struct {
	knode.IsSimulationPorts[PtrSim]
}

// KG0021
type PtrDeep struct {
	*PtrBase
}

//kgraph:abstract
type PtrBase struct {
	knode.NodeDefinition
}

type PtrDeepData struct {
	knode.IsNodeData[PtrDeep]
}

// Fine has no findings.
type Fine struct {
	knode.SimulationKernelNode[FinePorts, FineKernelPorts]
}

type FinePorts struct {
	knode.IsSimulationPorts[Fine]
	In  knode.MessageInput[Fine, float64]
	Out knode.MessageOutput[Fine, float64]
}

type FineData struct {
	knode.IsNodeData[Fine]
	v float64
}

func (d *FineData) HandleMessage(ctx *knode.MessageContext, v float64) {
	d.v = v
}

type FineKernelData struct {
	knode.IsKernelData[Fine]
}

type FineKernelPorts struct {
	knode.IsKernelPorts[Fine]
	In  knode.DataInput[Fine, float64]
	Out knode.DataOutput[Fine, float64]
}

type FineKernel struct {
	knode.IsGraphKernel[Fine]
}

func (k *FineKernel) Execute(ctx *knode.RenderContext, data *FineKernelData, ports *FineKernelPorts) {
	ports.Out.Set(ports.In.Get())
}

func NewFine() *Fine { return &Fine{} }
