package kgraph

import (
	"errors"

	"github.com/birdayz/kgraph/kdag"
)

var (
	ErrNodeNotFound          = errors.New("kgraph: node not found")
	ErrPortNotFound          = errors.New("kgraph: port not found")
	ErrCycleDetected         = kdag.ErrCycleDetected
	ErrAlreadyConnected      = errors.New("kgraph: ports already connected")
	ErrInputAlreadyConnected = errors.New("kgraph: data input already has a source")
	ErrNotConnected          = errors.New("kgraph: connection not found")
	ErrConnectionsOutOfRange = errors.New("kgraph: connections exist beyond the new array size")
	ErrMessageDepthExceeded  = errors.New("kgraph: message depth exceeded")
	ErrNoNodeData            = errors.New("kgraph: node has no node data")
	ErrNodeSetClosed         = errors.New("kgraph: node set closed")
)
