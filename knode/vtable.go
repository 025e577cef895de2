package knode

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// VirtualTable holds the type-erased entry points of one definition. It is
// filled by the generated KG_Install method and sealed before use.
type VirtualTable struct {
	init     func(data any, ctx *InitContext)
	update   func(data any, ctx *UpdateContext)
	destroy  func(data any, ctx *DestroyContext)
	messages map[uint16]MessageEntry
	sealed   bool
}

func NewVirtualTable() *VirtualTable {
	return &VirtualTable{messages: map[uint16]MessageEntry{}}
}

// MessageEntry dispatches messages arriving on one message input port.
type MessageEntry struct {
	Array   bool
	Generic bool
	handle  func(data any, ctx *MessageContext, msg any) error
}

func (e MessageEntry) Invoke(data any, ctx *MessageContext, msg any) error {
	return e.handle(data, ctx, msg)
}

func (vt *VirtualTable) Seal()        { vt.sealed = true }
func (vt *VirtualTable) Sealed() bool { return vt.sealed }

func (vt *VirtualTable) HasInit() bool    { return vt.init != nil }
func (vt *VirtualTable) HasUpdate() bool  { return vt.update != nil }
func (vt *VirtualTable) HasDestroy() bool { return vt.destroy != nil }

func (vt *VirtualTable) InvokeInit(data any, ctx *InitContext) {
	if vt.init != nil {
		vt.init(data, ctx)
	}
}

func (vt *VirtualTable) InvokeUpdate(data any, ctx *UpdateContext) {
	if vt.update != nil {
		vt.update(data, ctx)
	}
}

func (vt *VirtualTable) InvokeDestroy(data any, ctx *DestroyContext) {
	if vt.destroy != nil {
		vt.destroy(data, ctx)
	}
}

// Message returns the handler entry of message input port index.
func (vt *VirtualTable) Message(port uint16) (MessageEntry, bool) {
	e, ok := vt.messages[port]
	return e, ok
}

// MessagePorts returns the message input ordinals with an installed handler.
func (vt *VirtualTable) MessagePorts() []uint16 {
	ports := maps.Keys(vt.messages)
	slices.Sort(ports)
	return ports
}

func (vt *VirtualTable) mustBeOpen() {
	if vt.sealed {
		panic(ErrVirtualTableSealed)
	}
}

func (vt *VirtualTable) installMessage(port uint16, e MessageEntry) {
	vt.mustBeOpen()
	if _, exists := vt.messages[port]; exists {
		panic(fmt.Sprintf("knode: message input %d installed twice", port))
	}
	vt.messages[port] = e
}

func InstallInit[TDef, TData any, PT interface {
	*TData
	NodeDataOf[TDef]
	Initializer
}](vt *VirtualTable) {
	vt.mustBeOpen()
	vt.init = func(data any, ctx *InitContext) {
		PT(data.(*TData)).Init(ctx)
	}
}

func InstallUpdate[TDef, TData any, PT interface {
	*TData
	NodeDataOf[TDef]
	Updater
}](vt *VirtualTable) {
	vt.mustBeOpen()
	vt.update = func(data any, ctx *UpdateContext) {
		PT(data.(*TData)).Update(ctx)
	}
}

func InstallDestroy[TDef, TData any, PT interface {
	*TData
	NodeDataOf[TDef]
	Destroyer
}](vt *VirtualTable) {
	vt.mustBeOpen()
	vt.destroy = func(data any, ctx *DestroyContext) {
		PT(data.(*TData)).Destroy(ctx)
	}
}

func typedMessage[T any](msg any) (T, error) {
	m, ok := msg.(T)
	if !ok {
		return m, fmt.Errorf("%w: want %T, got %T", ErrMessageTypeMismatch, m, msg)
	}
	return m, nil
}

// InstallMessageHandler binds message input port to the dedicated handler h.
func InstallMessageHandler[TDef, TData, TMsg any, PT interface {
	*TData
	NodeDataOf[TDef]
}](vt *VirtualTable, port uint16, h func(*TData, *MessageContext, TMsg)) {
	vt.installMessage(port, MessageEntry{handle: func(data any, ctx *MessageContext, msg any) error {
		m, err := typedMessage[TMsg](msg)
		if err != nil {
			return err
		}
		h(data.(*TData), ctx, m)
		return nil
	}})
}

// InstallArrayMessageHandler binds message input array port to h.
func InstallArrayMessageHandler[TDef, TData, TMsg any, PT interface {
	*TData
	NodeDataOf[TDef]
}](vt *VirtualTable, port uint16, h func(*TData, *MessageContext, TMsg)) {
	vt.installMessage(port, MessageEntry{Array: true, handle: func(data any, ctx *MessageContext, msg any) error {
		m, err := typedMessage[TMsg](msg)
		if err != nil {
			return err
		}
		h(data.(*TData), ctx, m)
		return nil
	}})
}

// InstallGenericMessageHandler binds message input port to the HandleMessage
// method of the node data.
func InstallGenericMessageHandler[TDef, TData, TMsg any, PT interface {
	*TData
	NodeDataOf[TDef]
	MessageHandler[TMsg]
}](vt *VirtualTable, port uint16) {
	vt.installMessage(port, MessageEntry{Generic: true, handle: func(data any, ctx *MessageContext, msg any) error {
		m, err := typedMessage[TMsg](msg)
		if err != nil {
			return err
		}
		PT(data.(*TData)).HandleMessage(ctx, m)
		return nil
	}})
}

// InstallGenericArrayMessageHandler binds message input array port to the
// HandleMessage method of the node data.
func InstallGenericArrayMessageHandler[TDef, TData, TMsg any, PT interface {
	*TData
	NodeDataOf[TDef]
	MessageHandler[TMsg]
}](vt *VirtualTable, port uint16) {
	vt.installMessage(port, MessageEntry{Array: true, Generic: true, handle: func(data any, ctx *MessageContext, msg any) error {
		m, err := typedMessage[TMsg](msg)
		if err != nil {
			return err
		}
		PT(data.(*TData)).HandleMessage(ctx, m)
		return nil
	}})
}
