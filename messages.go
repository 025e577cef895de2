package kgraph

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/birdayz/kgraph/knode"
)

// host is the knode.Host view of a node set handed to node code.
type host struct {
	s *NodeSet
}

func (s *NodeSet) host() knode.Host {
	return host{s: s}
}

func (h host) EmitMessage(from knode.NodeID, port knode.PortID, index int, msg any) {
	s := h.s
	n, err := s.lookup(from)
	if err != nil {
		s.fail(from, err)
		return
	}
	if port.Array {
		if size := n.arrays[port]; index < 0 || index >= size {
			s.fail(from, fmt.Errorf("%w: %s[%d] (size %d)", knode.ErrPortIndexOutOfRange, port, index, size))
			return
		}
	}
	for _, c := range s.connections {
		if c.Source != from || c.SourcePort != port || c.SourceIndex != index {
			continue
		}
		dst, err := s.lookup(c.Dest)
		if err != nil {
			s.fail(from, err)
			continue
		}
		if err := s.dispatch(dst, c.DestPort, c.DestIndex, msg); err != nil {
			s.fail(c.Dest, err)
		}
	}
}

func (h host) KernelData(id knode.NodeID) any {
	n, err := h.s.lookup(id)
	if err != nil || n.kernel == nil {
		return nil
	}
	return n.kernel.Data()
}

func (h host) Fail(id knode.NodeID, err error) {
	h.s.fail(id, err)
}

func (s *NodeSet) fail(id knode.NodeID, err error) {
	s.log.V(1).Info("Node reported failure", "node", id, "error", err.Error())
	s.failures = multierr.Append(s.failures, err)
}

// dispatch delivers msg to message input port of n through its virtual table.
func (s *NodeSet) dispatch(n *node, port knode.PortID, index int, msg any) error {
	entry, ok := n.reg.VTable.Message(port.Index)
	if !ok || entry.Array != port.Array || port.Class != knode.MessageInputClass {
		return fmt.Errorf("%w: %s has no handler for %s", ErrPortNotFound, n.reg.Name(), port)
	}
	if n.data == nil {
		return fmt.Errorf("%w: %s", ErrNoNodeData, n.id)
	}
	if s.depth >= s.maxMessageDepth {
		return fmt.Errorf("%w: %d nested deliveries at %s", ErrMessageDepthExceeded, s.depth, n.id)
	}
	s.depth++
	defer func() { s.depth-- }()
	return entry.Invoke(n.data, knode.NewMessageContext(s.host(), n.id, port, index), msg)
}

// SendMessage delivers msg to a message input of node n. Messages the
// handler emits are delivered before SendMessage returns, and failures
// reported on the way are returned.
func SendMessage[TDef, T any](s *NodeSet, n Node[TDef], port knode.MessageInput[TDef, T], msg T) error {
	return s.send(n.ID, port.PortID(), 0, msg)
}

// SendMessageToArray delivers msg to element index of a message input array.
func SendMessageToArray[TDef, T any](s *NodeSet, n Node[TDef], port knode.PortArray[knode.MessageInput[TDef, T]], index int, msg T) error {
	return s.send(n.ID, port.PortID(), index, msg)
}

func (s *NodeSet) send(id knode.NodeID, port knode.PortID, index int, msg any) error {
	if s.closed {
		return ErrNodeSetClosed
	}
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	if err := s.checkIndex(n, port, index); err != nil {
		return err
	}
	return s.collect(func() error {
		return s.dispatch(n, port, index, msg)
	})
}
