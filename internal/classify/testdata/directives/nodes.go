package directives

import "github.com/birdayz/kgraph/knode"

type Pool struct {
	knode.NodeDefinition
}

// PoolData keeps its buffers between messages.
//
//note: don't pool this
//kgraph:managed
type PoolData struct {
	knode.IsNodeData[Pool]
	buf []byte
}

type Loose struct {
	knode.NodeDefinition
}

// LooseData carries a directive that does not parse.
//
//kgraph:managed "unterminated
type LooseData struct {
	knode.IsNodeData[Loose]
}
