package knode

import "fmt"

// Kind is the shape of a node definition, resolved from the template it embeds.
type Kind int

const (
	KindUnknown Kind = iota
	KindSimulation
	KindKernel
	KindSimulationKernel
	KindNaked
)

func (k Kind) String() string {
	switch k {
	case KindSimulation:
		return "Simulation"
	case KindKernel:
		return "Kernel"
	case KindSimulationKernel:
		return "SimulationKernel"
	case KindNaked:
		return "Naked"
	default:
		return "Unknown"
	}
}

// HasSimulationPorts reports whether definitions of this kind declare a
// simulation port struct.
func (k Kind) HasSimulationPorts() bool {
	return k == KindSimulation || k == KindSimulationKernel
}

// HasKernel reports whether definitions of this kind execute a graph kernel.
func (k Kind) HasKernel() bool {
	return k == KindKernel || k == KindSimulationKernel
}

// TraitsArity selects which NewTraits constructor describes a definition.
type TraitsArity int

const (
	ArityNone TraitsArity = iota
	// Arity1 carries simulation ports only.
	Arity1
	// Arity2 carries node data and simulation ports.
	Arity2
	// Arity3 carries kernel data, kernel ports and the graph kernel.
	Arity3
	// Arity4 carries node data plus the kernel triple.
	Arity4
	// Arity5 carries node data only.
	Arity5
)

func (a TraitsArity) String() string {
	if a == ArityNone {
		return "none"
	}
	return fmt.Sprintf("Traits%d", int(a))
}

// PortClass is the category of a port.
type PortClass uint8

const (
	PortClassInvalid PortClass = iota
	MessageInputClass
	MessageOutputClass
	DataInputClass
	DataOutputClass
	DSLInputClass
	DSLOutputClass
)

func (c PortClass) String() string {
	switch c {
	case MessageInputClass:
		return "MessageInput"
	case MessageOutputClass:
		return "MessageOutput"
	case DataInputClass:
		return "DataInput"
	case DataOutputClass:
		return "DataOutput"
	case DSLInputClass:
		return "DSLInput"
	case DSLOutputClass:
		return "DSLOutput"
	default:
		return "Invalid"
	}
}

// IsInput reports whether ports of this class receive values.
func (c PortClass) IsInput() bool {
	return c == MessageInputClass || c == DataInputClass || c == DSLInputClass
}

// IsSimulation reports whether ports of this class belong in a simulation port
// struct. Data ports belong in the kernel port struct.
func (c PortClass) IsSimulation() bool {
	switch c {
	case MessageInputClass, MessageOutputClass, DSLInputClass, DSLOutputClass:
		return true
	}
	return false
}

// PortID identifies a port within its definition. Ordinals are assigned per
// class in declaration order, so two ports of different classes may share an
// index.
type PortID struct {
	Class PortClass
	Index uint16
	Array bool
}

func (id PortID) IsValid() bool {
	return id.Class != PortClassInvalid
}

func (id PortID) String() string {
	if id.Array {
		return fmt.Sprintf("%s[]#%d", id.Class, id.Index)
	}
	return fmt.Sprintf("%s#%d", id.Class, id.Index)
}

// NodeID identifies a node instance within a node set. The version changes
// every time the slot is reused, so a stale id never resolves to a new node.
type NodeID struct {
	Index   uint32
	Version uint32
}

func (id NodeID) IsValid() bool {
	return id.Version != 0
}

func (id NodeID) String() string {
	return fmt.Sprintf("node(%d.%d)", id.Index, id.Version)
}

// Less orders node ids by slot, then version.
func (id NodeID) Less(other NodeID) bool {
	if id.Index != other.Index {
		return id.Index < other.Index
	}
	return id.Version < other.Version
}
