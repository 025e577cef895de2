package kgraph

import (
	"fmt"
	"reflect"

	"golang.org/x/exp/slices"

	"github.com/birdayz/kgraph/knode"
)

// Connection links element SourceIndex of an output port to element
// DestIndex of an input port of the same class. Indices are 0 for ports that
// are not arrays.
type Connection struct {
	id          uint64
	Source      knode.NodeID
	SourcePort  knode.PortID
	SourceIndex int
	Dest        knode.NodeID
	DestPort    knode.PortID
	DestIndex   int

	handler reflect.Type
}

func (c *Connection) String() string {
	return fmt.Sprintf("%s.%s[%d] -> %s.%s[%d]", c.Source, c.SourcePort, c.SourceIndex, c.Dest, c.DestPort, c.DestIndex)
}

func (c *Connection) sameEnds(o *Connection) bool {
	return c.Source == o.Source && c.SourcePort == o.SourcePort && c.SourceIndex == o.SourceIndex &&
		c.Dest == o.Dest && c.DestPort == o.DestPort && c.DestIndex == o.DestIndex
}

func (c *Connection) dsl() knode.DSLConnection {
	return knode.DSLConnection{Source: c.Source, SourcePort: c.SourcePort, Dest: c.Dest, DestPort: c.DestPort}
}

// Connections returns the connections of the node set in creation order.
func (s *NodeSet) Connections() []Connection {
	res := make([]Connection, 0, len(s.connections))
	for _, c := range s.connections {
		res = append(res, *c)
	}
	return res
}

// ConnectData feeds a data input from a data output. The data-flow graph must
// stay acyclic.
func ConnectData[TSrc, TDst, T any](s *NodeSet, src Node[TSrc], out knode.DataOutput[TSrc, T], dst Node[TDst], in knode.DataInput[TDst, T]) (Connection, error) {
	return s.connect(&Connection{Source: src.ID, SourcePort: out.PortID(), Dest: dst.ID, DestPort: in.PortID()})
}

// ConnectDataToArray feeds element index of a data input array.
func ConnectDataToArray[TSrc, TDst, T any](s *NodeSet, src Node[TSrc], out knode.DataOutput[TSrc, T], dst Node[TDst], in knode.PortArray[knode.DataInput[TDst, T]], index int) (Connection, error) {
	return s.connect(&Connection{Source: src.ID, SourcePort: out.PortID(), Dest: dst.ID, DestPort: in.PortID(), DestIndex: index})
}

// ConnectDataFromArray feeds a data input from element index of a data output
// array.
func ConnectDataFromArray[TSrc, TDst, T any](s *NodeSet, src Node[TSrc], out knode.PortArray[knode.DataOutput[TSrc, T]], index int, dst Node[TDst], in knode.DataInput[TDst, T]) (Connection, error) {
	return s.connect(&Connection{Source: src.ID, SourcePort: out.PortID(), SourceIndex: index, Dest: dst.ID, DestPort: in.PortID()})
}

// ConnectMessage routes messages emitted on out to in.
func ConnectMessage[TSrc, TDst, T any](s *NodeSet, src Node[TSrc], out knode.MessageOutput[TSrc, T], dst Node[TDst], in knode.MessageInput[TDst, T]) (Connection, error) {
	return s.connect(&Connection{Source: src.ID, SourcePort: out.PortID(), Dest: dst.ID, DestPort: in.PortID()})
}

// ConnectMessageToArray routes messages emitted on out to element index of a
// message input array.
func ConnectMessageToArray[TSrc, TDst, T any](s *NodeSet, src Node[TSrc], out knode.MessageOutput[TSrc, T], dst Node[TDst], in knode.PortArray[knode.MessageInput[TDst, T]], index int) (Connection, error) {
	return s.connect(&Connection{Source: src.ID, SourcePort: out.PortID(), Dest: dst.ID, DestPort: in.PortID(), DestIndex: index})
}

// ConnectMessageFromArray routes messages emitted on element index of a
// message output array to in.
func ConnectMessageFromArray[TSrc, TDst, T any](s *NodeSet, src Node[TSrc], out knode.PortArray[knode.MessageOutput[TSrc, T]], index int, dst Node[TDst], in knode.MessageInput[TDst, T]) (Connection, error) {
	return s.connect(&Connection{Source: src.ID, SourcePort: out.PortID(), SourceIndex: index, Dest: dst.ID, DestPort: in.PortID()})
}

// ConnectDSL links two DSL ports served by handler type H. The node set keeps
// one H per handler type and notifies it of every link.
func ConnectDSL[TSrc, TDst, H any](s *NodeSet, src Node[TSrc], out knode.DSLOutput[TSrc, H], dst Node[TDst], in knode.DSLInput[TDst, H]) (Connection, error) {
	return s.connect(&Connection{
		Source:     src.ID,
		SourcePort: out.PortID(),
		Dest:       dst.ID,
		DestPort:   in.PortID(),
		handler:    reflect.TypeOf((*H)(nil)).Elem(),
	})
}

// DSLHandler returns the handler instance the node set notifies about links
// served by H, creating it on first use.
func DSLHandler[H any](s *NodeSet) (H, error) {
	var zero H
	h, err := s.dslHandler(reflect.TypeOf((*H)(nil)).Elem())
	if err != nil {
		return zero, err
	}
	return h.(H), nil
}

func (s *NodeSet) dslHandler(t reflect.Type) (knode.DSLHandler, error) {
	if h, ok := s.dsl[t]; ok {
		return h, nil
	}
	var v reflect.Value
	if t.Kind() == reflect.Pointer {
		v = reflect.New(t.Elem())
	} else {
		v = reflect.New(t).Elem()
	}
	h, ok := v.Interface().(knode.DSLHandler)
	if !ok {
		return nil, fmt.Errorf("%w: %s does not implement knode.DSLHandler", knode.ErrPortTypeMismatch, t)
	}
	s.dsl[t] = h
	return h, nil
}

func (s *NodeSet) connect(c *Connection) (Connection, error) {
	if s.closed {
		return Connection{}, ErrNodeSetClosed
	}
	src, err := s.lookup(c.Source)
	if err != nil {
		return Connection{}, err
	}
	dst, err := s.lookup(c.Dest)
	if err != nil {
		return Connection{}, err
	}
	if err := s.checkIndex(src, c.SourcePort, c.SourceIndex); err != nil {
		return Connection{}, err
	}
	if err := s.checkIndex(dst, c.DestPort, c.DestIndex); err != nil {
		return Connection{}, err
	}
	for _, e := range s.connections {
		if e.sameEnds(c) {
			return Connection{}, fmt.Errorf("%w: %s", ErrAlreadyConnected, c)
		}
		if c.DestPort.Class == knode.DataInputClass && e.Dest == c.Dest && e.DestPort == c.DestPort && e.DestIndex == c.DestIndex {
			return Connection{}, fmt.Errorf("%w: %s", ErrInputAlreadyConnected, e)
		}
	}

	switch c.DestPort.Class {
	case knode.DataInputClass:
		if err := s.graph.AddEdge(c.Source, c.Dest); err != nil {
			return Connection{}, err
		}
		if err := s.attach(src, dst, c); err != nil {
			_ = s.graph.RemoveEdge(c.Source, c.Dest)
			return Connection{}, err
		}
	case knode.MessageInputClass:
		if _, ok := dst.reg.VTable.Message(c.DestPort.Index); !ok {
			return Connection{}, fmt.Errorf("%w: %s has no handler for %s", ErrPortNotFound, dst.reg.Name(), c.DestPort)
		}
	case knode.DSLInputClass:
		h, err := s.dslHandler(c.handler)
		if err != nil {
			return Connection{}, err
		}
		h.Connect(c.dsl())
	default:
		return Connection{}, fmt.Errorf("%w: %s", ErrPortNotFound, c.DestPort)
	}

	s.nextConn++
	c.id = s.nextConn
	s.connections = append(s.connections, c)
	s.log.V(1).Info("Connected", "connection", c.String())
	return *c, nil
}

func (s *NodeSet) attach(src, dst *node, c *Connection) error {
	if src.kernel == nil || dst.kernel == nil {
		return fmt.Errorf("%w: data ports need kernel ports on both ends", ErrPortNotFound)
	}
	ptr, err := src.kernel.Ports.Source(c.SourcePort, c.SourceIndex)
	if err != nil {
		return err
	}
	return dst.kernel.Ports.Attach(c.DestPort, c.DestIndex, ptr)
}

// Disconnect removes a connection returned by one of the Connect functions.
func (s *NodeSet) Disconnect(c Connection) error {
	i := slices.IndexFunc(s.connections, func(e *Connection) bool { return e.id == c.id })
	if c.id == 0 || i < 0 {
		return fmt.Errorf("%w: %s", ErrNotConnected, &c)
	}
	return s.disconnect(s.connections[i])
}

func (s *NodeSet) disconnect(c *Connection) error {
	i := slices.Index(s.connections, c)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotConnected, c)
	}
	s.connections = slices.Delete(s.connections, i, i+1)

	var err error
	switch c.DestPort.Class {
	case knode.DataInputClass:
		if dst, lerr := s.lookup(c.Dest); lerr == nil && dst.kernel != nil {
			err = dst.kernel.Ports.Detach(c.DestPort, c.DestIndex)
		}
		if rerr := s.graph.RemoveEdge(c.Source, c.Dest); err == nil {
			err = rerr
		}
	case knode.DSLInputClass:
		s.dsl[c.handler].Disconnect(c.dsl())
	}
	s.log.V(1).Info("Disconnected", "connection", c.String())
	return err
}

// checkIndex validates index against the current size of port on n.
func (s *NodeSet) checkIndex(n *node, port knode.PortID, index int) error {
	size := 1
	if port.Array {
		var err error
		if size, err = s.arraySize(n, port); err != nil {
			return err
		}
	}
	if index < 0 || index >= size {
		return fmt.Errorf("%w: %s.%s[%d] (size %d)", knode.ErrPortIndexOutOfRange, n.id, port, index, size)
	}
	return nil
}

func (s *NodeSet) arraySize(n *node, port knode.PortID) (int, error) {
	switch port.Class {
	case knode.DataInputClass, knode.DataOutputClass:
		if n.kernel == nil {
			return 0, fmt.Errorf("%w: %s", ErrPortNotFound, port)
		}
		return n.kernel.Ports.Len(port)
	default:
		return n.arrays[port], nil
	}
}

// SetPortArraySize resizes a port array of node n. Shrinking fails while
// connections use elements beyond the new size.
func SetPortArraySize[TDef, P any](s *NodeSet, n Node[TDef], port knode.PortArray[P], size int) error {
	return s.resize(n.ID, port.PortID(), size)
}

func (s *NodeSet) resize(id knode.NodeID, port knode.PortID, size int) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	if size < 0 {
		return fmt.Errorf("%w: negative size %d", knode.ErrPortIndexOutOfRange, size)
	}
	for _, c := range s.connections {
		if (c.Source == id && c.SourcePort == port && c.SourceIndex >= size) ||
			(c.Dest == id && c.DestPort == port && c.DestIndex >= size) {
			return fmt.Errorf("%w: %s", ErrConnectionsOutOfRange, c)
		}
	}

	switch port.Class {
	case knode.DataInputClass:
		if n.kernel == nil {
			return fmt.Errorf("%w: %s", ErrPortNotFound, port)
		}
		return n.kernel.Ports.Resize(port, size)
	case knode.DataOutputClass:
		if n.kernel == nil {
			return fmt.Errorf("%w: %s", ErrPortNotFound, port)
		}
		if err := n.kernel.Ports.Resize(port, size); err != nil {
			return err
		}
		// Consumers point into the reallocated storage.
		for _, c := range s.connections {
			if c.Source != id || c.SourcePort != port {
				continue
			}
			dst, err := s.lookup(c.Dest)
			if err != nil {
				return err
			}
			if err := s.attach(n, dst, c); err != nil {
				return err
			}
		}
		return nil
	case knode.PortClassInvalid:
		return fmt.Errorf("%w: %s", ErrPortNotFound, port)
	default:
		n.arrays[port] = size
		return nil
	}
}

// SetData sets the value an unconnected data input yields.
func SetData[TDef, T any](s *NodeSet, n Node[TDef], port knode.DataInput[TDef, T], v T) error {
	return s.setData(n.ID, port.PortID(), 0, v)
}

// SetArrayData sets the value element index of a data input array yields
// while unconnected.
func SetArrayData[TDef, T any](s *NodeSet, n Node[TDef], port knode.PortArray[knode.DataInput[TDef, T]], index int, v T) error {
	return s.setData(n.ID, port.PortID(), index, v)
}

func (s *NodeSet) setData(id knode.NodeID, port knode.PortID, index int, v any) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	if n.kernel == nil {
		return fmt.Errorf("%w: %s", ErrPortNotFound, port)
	}
	return n.kernel.Ports.SetValue(port, index, v)
}

// ReadOutput returns the value a data output held after the last render pass.
func ReadOutput[TDef, T any](s *NodeSet, n Node[TDef], port knode.DataOutput[TDef, T]) (T, error) {
	return readOutput[T](s, n.ID, port.PortID(), 0)
}

// ReadArrayOutput returns the value of element index of a data output array.
func ReadArrayOutput[TDef, T any](s *NodeSet, n Node[TDef], port knode.PortArray[knode.DataOutput[TDef, T]], index int) (T, error) {
	return readOutput[T](s, n.ID, port.PortID(), index)
}

func readOutput[T any](s *NodeSet, id knode.NodeID, port knode.PortID, index int) (T, error) {
	var zero T
	n, err := s.lookup(id)
	if err != nil {
		return zero, err
	}
	if n.kernel == nil {
		return zero, fmt.Errorf("%w: %s", ErrPortNotFound, port)
	}
	v, err := n.kernel.Ports.Value(port, index)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: want %T, got %T", knode.ErrPortTypeMismatch, zero, v)
	}
	return t, nil
}
