package broken

import "github.com/birdayz/kgraph/knode"

type Deaf struct {
	knode.SimulationNode[DeafPorts]
}

type DeafPorts struct {
	knode.IsSimulationPorts[Deaf]
	In knode.MessageInput[Deaf, string]
}

type Lonely struct {
	knode.NodeDefinition
}
