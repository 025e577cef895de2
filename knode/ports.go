package knode

// Port is implemented by every port type and by PortArray.
type Port interface {
	PortID() PortID
}

// MessageInput receives messages of type T on the simulation thread.
type MessageInput[TDef, T any] struct {
	port uint16
}

func (p MessageInput[TDef, T]) PortID() PortID {
	return PortID{Class: MessageInputClass, Index: p.port}
}

// MessageOutput emits messages of type T to connected message inputs.
type MessageOutput[TDef, T any] struct {
	port uint16
}

func (p MessageOutput[TDef, T]) PortID() PortID {
	return PortID{Class: MessageOutputClass, Index: p.port}
}

// DataInput reads a value of type T produced by a connected data output
// during the render pass. An unconnected input yields its own value, which
// is set with kgraph.SetData.
type DataInput[TDef, T any] struct {
	port uint16
	src  *T
	own  T
}

func (p DataInput[TDef, T]) PortID() PortID {
	return PortID{Class: DataInputClass, Index: p.port}
}

// Get returns the value of the connected output, or the input's own value.
func (p DataInput[TDef, T]) Get() T {
	if p.src != nil {
		return *p.src
	}
	return p.own
}

// Connected reports whether a data output feeds this input.
func (p DataInput[TDef, T]) Connected() bool {
	return p.src != nil
}

// DataOutput holds the value of type T a kernel produced in the current
// render pass.
type DataOutput[TDef, T any] struct {
	port  uint16
	value T
}

func (p DataOutput[TDef, T]) PortID() PortID {
	return PortID{Class: DataOutputClass, Index: p.port}
}

func (p *DataOutput[TDef, T]) Set(v T) {
	p.value = v
}

func (p DataOutput[TDef, T]) Value() T {
	return p.value
}

// DSLInput is the receiving end of a DSL link served by handler type H.
type DSLInput[TDef, H any] struct {
	port uint16
}

func (p DSLInput[TDef, H]) PortID() PortID {
	return PortID{Class: DSLInputClass, Index: p.port}
}

// DSLOutput is the sending end of a DSL link served by handler type H.
type DSLOutput[TDef, H any] struct {
	port uint16
}

func (p DSLOutput[TDef, H]) PortID() PortID {
	return PortID{Class: DSLOutputClass, Index: p.port}
}

// PortArray groups a resizable number of ports of type P under one ordinal.
// Only data port arrays keep per-element state; message and DSL array sizes
// are tracked by the node set.
type PortArray[P any] struct {
	port  uint16
	items []P
}

func (a PortArray[P]) PortID() PortID {
	id := PortID{Index: a.port, Array: true}
	if p, ok := any(*new(P)).(Port); ok {
		id.Class = p.PortID().Class
	}
	return id
}

// Len returns the current size of a data port array.
func (a PortArray[P]) Len() int {
	return len(a.items)
}

// Item returns element i of a data port array. It panics when i is out of
// range, like a slice index.
func (a *PortArray[P]) Item(i int) *P {
	return &a.items[i]
}

func (a *PortArray[P]) resize(n int) {
	if n == len(a.items) {
		return
	}
	items := make([]P, n)
	copy(items, a.items)
	a.items = items
}

func NewMessageInput[TDef, T any](index uint16) MessageInput[TDef, T] {
	return MessageInput[TDef, T]{port: index}
}

func NewMessageInputArray[TDef, T any](index uint16) PortArray[MessageInput[TDef, T]] {
	return PortArray[MessageInput[TDef, T]]{port: index}
}

func NewMessageOutput[TDef, T any](index uint16) MessageOutput[TDef, T] {
	return MessageOutput[TDef, T]{port: index}
}

func NewMessageOutputArray[TDef, T any](index uint16) PortArray[MessageOutput[TDef, T]] {
	return PortArray[MessageOutput[TDef, T]]{port: index}
}

func NewDataInput[TDef, T any](index uint16) DataInput[TDef, T] {
	return DataInput[TDef, T]{port: index}
}

func NewDataInputArray[TDef, T any](index uint16) PortArray[DataInput[TDef, T]] {
	return PortArray[DataInput[TDef, T]]{port: index}
}

func NewDataOutput[TDef, T any](index uint16) DataOutput[TDef, T] {
	return DataOutput[TDef, T]{port: index}
}

func NewDataOutputArray[TDef, T any](index uint16) PortArray[DataOutput[TDef, T]] {
	return PortArray[DataOutput[TDef, T]]{port: index}
}

func NewDSLInput[TDef, H any](index uint16) DSLInput[TDef, H] {
	return DSLInput[TDef, H]{port: index}
}

func NewDSLInputArray[TDef, H any](index uint16) PortArray[DSLInput[TDef, H]] {
	return PortArray[DSLInput[TDef, H]]{port: index}
}

func NewDSLOutput[TDef, H any](index uint16) DSLOutput[TDef, H] {
	return DSLOutput[TDef, H]{port: index}
}

func NewDSLOutputArray[TDef, H any](index uint16) PortArray[DSLOutput[TDef, H]] {
	return PortArray[DSLOutput[TDef, H]]{port: index}
}
