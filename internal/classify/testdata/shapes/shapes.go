package shapes

import "github.com/birdayz/kgraph/knode"

type Twice struct {
	knode.SimulationNode[TwicePorts]
	knode.KernelNode[TwicePorts]
}

type TwicePorts struct {
	knode.IsSimulationPorts[Twice]
}

type Deep struct {
	Middle
}

//kgraph:abstract
type Middle struct {
	Root
}

//kgraph:abstract
type Root struct {
	knode.NodeDefinition
}

type DeepData struct {
	knode.IsNodeData[Root]
}

type Dup struct {
	knode.SimulationNode[DupA]
}

type DupA struct {
	knode.IsSimulationPorts[Dup]
}

type DupB struct {
	knode.IsSimulationPorts[Dup]
}

type Generic[T any] struct {
	knode.SimulationNode[GenericPorts]
	value T
}

type GenericPorts struct{}

type Loose int

type LooseData struct {
	knode.IsNodeData[Loose]
}

type Fields struct {
	knode.SimulationNode[FieldPorts]
}

type FieldPorts struct {
	knode.IsSimulationPorts[Fields]
	A      knode.MessageInput[Fields, int]
	Count  int
	Shared *knode.MessageOutput[Fields, int]
	knode.MessageOutput[Fields, string]
	B      knode.PortArray[knode.MessageInput[Fields, int]]
	C      knode.DSLInput[Fields, int]
	D      knode.MessageInput[Fields, string]
	Nested knode.PortArray[knode.PortArray[knode.MessageInput[Fields, int]]]
}

type FieldsData struct {
	knode.IsNodeData[Fields]
}

func (d *FieldsData) HandleInt(ctx *knode.MessageContext, n int)        {}
func (d *FieldsData) HandleString(ctx *knode.MessageContext, s string)  {}
func (d *FieldsData) HandleBroken(n int)                                 {}
func (d *FieldsData) Init()                                              {}
func (d *FieldsData) Handler(ctx *knode.MessageContext, n int)           {}
func (d *FieldsData) HandleResult(ctx *knode.MessageContext, n int) bool { return false }

func NewFields() *Fields              { return &Fields{} }
func NewFieldsWith(n int) *Fields     { return &Fields{} }
func NewOther() *Deep                 { return &Deep{} }
func KG_helper()                      {}
func kg_NewFields() *Fields           { return nil }
func newFieldsUnexported() *Fields    { return nil }
var _, _ = kg_NewFields, newFieldsUnexported
