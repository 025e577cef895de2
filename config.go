package kgraph

import (
	"github.com/go-logr/logr"

	"github.com/birdayz/kgraph/kkernel"
)

// DefaultMaxMessageDepth bounds how deep messages may recurse through
// connected message ports within one dispatch.
const DefaultMaxMessageDepth = 64

// Option is a function that configures a NodeSet
type Option func(*NodeSet)

// WithWorkersCount sets the number of render workers
var WithWorkersCount = func(n int) Option {
	return func(s *NodeSet) {
		s.workers = n
	}
}

// WithLogr sets the logger for the node set
var WithLogr = func(log logr.Logger) Option {
	return func(s *NodeSet) {
		s.log = log
	}
}

// WithInvoker sets the invoker that resolves kernel entries. The process-wide
// kkernel.Default() is used otherwise.
var WithInvoker = func(inv *kkernel.Invoker) Option {
	return func(s *NodeSet) {
		s.invoker = inv
	}
}

// WithMaxMessageDepth sets how many nested message deliveries one SendMessage
// may trigger before ErrMessageDepthExceeded is reported.
var WithMaxMessageDepth = func(depth int) Option {
	return func(s *NodeSet) {
		s.maxMessageDepth = depth
	}
}
