package warn

import "github.com/birdayz/kgraph/knode"

type Sloppy struct {
	knode.NodeDefinition
}

type SloppyData struct {
	knode.IsNodeData[Sloppy]
}

func (d *SloppyData) Destroy() {}
