package knode

import (
	"fmt"
	"unsafe"
)

// Host is implemented by the runtime that owns the node instances.
type Host interface {
	// EmitMessage routes msg from an output port of node from to every
	// connected message input.
	EmitMessage(from NodeID, port PortID, index int, msg any)
	// KernelData returns the *KernelData of node, or nil.
	KernelData(node NodeID) any
	// Fail records an error raised by node code that has no error return.
	Fail(node NodeID, err error)
}

type nodeContext struct {
	node NodeID
	host Host
}

func (c *nodeContext) context() *nodeContext { return c }

// Node returns the id of the node the context was created for.
func (c *nodeContext) Node() NodeID { return c.node }

// Context is implemented by the simulation contexts that may emit messages and
// update kernel data.
type Context interface {
	context() *nodeContext
	Node() NodeID
}

type InitContext struct{ nodeContext }

type UpdateContext struct{ nodeContext }

type MessageContext struct {
	nodeContext
	Port       PortID
	ArrayIndex int
}

// DestroyContext only identifies the node. A node being destroyed can no
// longer emit messages.
type DestroyContext struct {
	node NodeID
}

func (c *DestroyContext) Node() NodeID { return c.node }

func NewInitContext(host Host, node NodeID) *InitContext {
	return &InitContext{nodeContext{node: node, host: host}}
}

func NewUpdateContext(host Host, node NodeID) *UpdateContext {
	return &UpdateContext{nodeContext{node: node, host: host}}
}

func NewMessageContext(host Host, node NodeID, port PortID, index int) *MessageContext {
	return &MessageContext{nodeContext: nodeContext{node: node, host: host}, Port: port, ArrayIndex: index}
}

func NewDestroyContext(node NodeID) *DestroyContext {
	return &DestroyContext{node: node}
}

// EmitMessage sends msg through a message output of the context's node.
func EmitMessage[TDef, T any](ctx Context, port MessageOutput[TDef, T], msg T) {
	c := ctx.context()
	c.host.EmitMessage(c.node, port.PortID(), 0, msg)
}

// EmitMessageToArray sends msg through element index of a message output array.
func EmitMessageToArray[TDef, T any](ctx Context, port PortArray[MessageOutput[TDef, T]], index int, msg T) {
	c := ctx.context()
	c.host.EmitMessage(c.node, port.PortID(), index, msg)
}

// SetKernelData replaces the kernel data of the context's node. The next
// render pass observes the new value.
func SetKernelData[TKernelData any](ctx Context, data TKernelData) {
	c := ctx.context()
	dst, ok := c.host.KernelData(c.node).(*TKernelData)
	if !ok || dst == nil {
		c.host.Fail(c.node, fmt.Errorf("%w: %s does not hold %T", ErrKernelDataUnavailable, c.node, data))
		return
	}
	*dst = data
}

// RenderContext is passed to graph kernels during the render pass.
type RenderContext struct {
	Node NodeID
	Tick uint64
}

// KernelPointers are the addresses of one node's kernel data, kernel ports and
// graph kernel instance.
type KernelPointers struct {
	Data   unsafe.Pointer
	Ports  unsafe.Pointer
	Kernel unsafe.Pointer
}

// KernelFunc executes a graph kernel through its pointers.
type KernelFunc func(ctx *RenderContext, p KernelPointers)
