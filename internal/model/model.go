// Package model holds what the classifiers found out about node definitions.
// Validation and synthesis only read it.
package model

import (
	"go/token"
	"go/types"

	"github.com/birdayz/kgraph/knode"
)

// Aspect is one of the five aspect slots of a definition.
type Aspect int

const (
	NodeData Aspect = iota
	SimulationPorts
	KernelData
	KernelPorts
	GraphKernel
	numAspects
)

// Aspects lists all aspect slots in declaration order.
var Aspects = []Aspect{NodeData, SimulationPorts, KernelData, KernelPorts, GraphKernel}

func (a Aspect) String() string {
	switch a {
	case NodeData:
		return "NodeData"
	case SimulationPorts:
		return "SimulationPorts"
	case KernelData:
		return "KernelData"
	case KernelPorts:
		return "KernelPorts"
	case GraphKernel:
		return "GraphKernel"
	default:
		return "Aspect?"
	}
}

// Marker returns the knode marker type embedded by implementations of a.
func (a Aspect) Marker() string {
	switch a {
	case NodeData:
		return "IsNodeData"
	case SimulationPorts:
		return "IsSimulationPorts"
	case KernelData:
		return "IsKernelData"
	case KernelPorts:
		return "IsKernelPorts"
	case GraphKernel:
		return "IsGraphKernel"
	default:
		return ""
	}
}

// TypeRef points at a named type declared in source.
type TypeRef struct {
	Name  *types.TypeName
	Named *types.Named
	Pos   token.Position
	// Exported is false for types another package cannot see.
	Exported bool
}

func (r *TypeRef) String() string {
	if r == nil {
		return "<nil>"
	}
	return r.Name.Name()
}

// Type returns the named type, or nil.
func (r *TypeRef) Type() types.Type {
	if r == nil {
		return nil
	}
	return r.Named
}

// Shape is the resolved shape of a definition.
type Shape struct {
	Kind  knode.Kind
	Arity knode.TraitsArity

	// Template arguments of SimulationNode / KernelNode / SimulationKernelNode.
	SimulationArg types.Type
	KernelArg     types.Type

	NodeData        *TypeRef
	SimulationPorts *TypeRef
	KernelData      *TypeRef
	KernelPorts     *TypeRef
	GraphKernel     *TypeRef

	// Managed selects heap storage for node data.
	Managed bool
}

// Get returns the implementation of aspect a, or nil.
func (s *Shape) Get(a Aspect) *TypeRef {
	switch a {
	case NodeData:
		return s.NodeData
	case SimulationPorts:
		return s.SimulationPorts
	case KernelData:
		return s.KernelData
	case KernelPorts:
		return s.KernelPorts
	case GraphKernel:
		return s.GraphKernel
	}
	return nil
}

func (s *Shape) set(a Aspect, ref *TypeRef) {
	switch a {
	case NodeData:
		s.NodeData = ref
	case SimulationPorts:
		s.SimulationPorts = ref
	case KernelData:
		s.KernelData = ref
	case KernelPorts:
		s.KernelPorts = ref
	case GraphKernel:
		s.GraphKernel = ref
	}
}

// ComputeArity derives the traits arity from the kind and the aspects present.
// It returns ArityNone when no traits constructor fits.
func (s *Shape) ComputeArity() knode.TraitsArity {
	data := s.NodeData != nil
	kernel := s.KernelData != nil && s.KernelPorts != nil && s.GraphKernel != nil
	switch s.Kind {
	case knode.KindSimulation:
		if s.SimulationPorts == nil {
			return knode.ArityNone
		}
		if data {
			return knode.Arity2
		}
		return knode.Arity1
	case knode.KindKernel, knode.KindSimulationKernel:
		if !kernel {
			return knode.ArityNone
		}
		if s.Kind == knode.KindSimulationKernel && s.SimulationPorts == nil {
			return knode.ArityNone
		}
		if data {
			return knode.Arity4
		}
		return knode.Arity3
	case knode.KindNaked:
		if data {
			return knode.Arity5
		}
	}
	return knode.ArityNone
}

// PortSet tells which port struct a port belongs to.
type PortSet int

const (
	SimulationPortSet PortSet = iota
	KernelPortSet
)

func (p PortSet) String() string {
	if p == KernelPortSet {
		return "kernel ports"
	}
	return "simulation ports"
}

// PortDescriptor is one accepted port field.
type PortDescriptor struct {
	Name    string
	Class   knode.PortClass
	IsArray bool
	Ordinal uint16
	Set     PortSet
	// Owner is the definition argument of the port template.
	Owner types.Type
	// Payload is the message or data type, or the DSL handler type.
	Payload types.Type
	Pos     token.Position
}

func (p PortDescriptor) ID() knode.PortID {
	return knode.PortID{Class: p.Class, Index: p.Ordinal, Array: p.IsArray}
}

// PortIssueKind classifies a rejected port field.
type PortIssueKind int

const (
	// NotAPort is a field whose type is not a port template.
	NotAPort PortIssueKind = iota
	// SharedPort is a pointer to a port or an embedded port.
	SharedPort
)

// PortIssue is a port struct field the port classifier rejected.
type PortIssue struct {
	Kind  PortIssueKind
	Field string
	Type  types.Type
	Set   PortSet
	Pos   token.Position
}

// Handler is a message handler method found on the node data.
type Handler struct {
	Method string
	// Generic is set for HandleMessage, which satisfies knode.MessageHandler.
	Generic bool
	Payload types.Type
	Pos     token.Position
}

// MalformedMethod is a method named like a handler or lifecycle hook whose
// signature does not fit.
type MalformedMethod struct {
	Method string
	Want   string
	Pos    token.Position
}

// Lifecycle lists the lifecycle hooks implemented by the node data.
type Lifecycle struct {
	Init    bool
	Update  bool
	Destroy bool
}

// MessageHandlerBinding ties a message input port to its handler.
type MessageHandlerBinding struct {
	Port    PortDescriptor
	Method  string
	Generic bool
	Payload types.Type
}

// Constructor is an exported NewXxx function returning the definition.
type Constructor struct {
	Name    string
	Params  int
	Pointer bool
	Pos     token.Position
}

// Member is a named field or method of the definition or one of its aspects.
type Member struct {
	Owner string
	Name  string
	Pos   token.Position
}

// Candidate is a type found to embed an aspect marker for a definition level.
type Candidate struct {
	Ref *TypeRef
	// Level is the definition or base definition named by the marker.
	Level types.Type
}

// Definition is everything classification found out about one definition.
type Definition struct {
	Ref     *TypeRef
	Package string
	// Generic definitions are skipped.
	Generic bool

	Shape Shape
	// AmbiguousShape is set when two templates were found at the same depth.
	AmbiguousShape []string
	// Bases are the user definitions embedded on the path to the template,
	// nearest first.
	Bases []types.Type
	// PointerEmbeds are the embedded pointer fields on the path to the
	// template, outermost first.
	PointerEmbeds []string

	// Candidates per aspect. A slot with more than one candidate is a
	// duplicate and left nil in Shape.
	Candidates [numAspects][]Candidate
	// Inaccessible aspect candidates, which are treated as absent.
	Inaccessible []Candidate

	SimulationPorts []PortDescriptor
	KernelPorts     []PortDescriptor
	PortIssues      []PortIssue

	Lifecycle Lifecycle
	Handlers  []Handler
	Malformed []MalformedMethod
	Bindings  []MessageHandlerBinding

	// Execute is the Execute method of the graph kernel, if any.
	Execute *types.Signature
	// ExecutePos points at the Execute method.
	ExecutePos token.Position

	Constructors []Constructor
	Members      []Member
}

func (d *Definition) Name() string {
	return d.Ref.Name.Name()
}

// SetAspect stores the single accepted implementation of a.
func (d *Definition) SetAspect(a Aspect, ref *TypeRef) {
	d.Shape.set(a, ref)
}

// Ports returns all accepted ports, simulation ports first.
func (d *Definition) Ports() []PortDescriptor {
	ports := make([]PortDescriptor, 0, len(d.SimulationPorts)+len(d.KernelPorts))
	ports = append(ports, d.SimulationPorts...)
	return append(ports, d.KernelPorts...)
}

// MessageInputs returns the message input ports.
func (d *Definition) MessageInputs() []PortDescriptor {
	var ports []PortDescriptor
	for _, p := range d.SimulationPorts {
		if p.Class == knode.MessageInputClass {
			ports = append(ports, p)
		}
	}
	return ports
}

// IsLevel reports whether t is the definition or one of its bases.
func (d *Definition) IsLevel(t types.Type) bool {
	if types.Identical(t, d.Ref.Named) {
		return true
	}
	for _, b := range d.Bases {
		if types.Identical(t, b) {
			return true
		}
	}
	return false
}
