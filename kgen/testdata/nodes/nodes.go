package nodes

import "github.com/birdayz/kgraph/knode"

// Counter counts the messages it receives and forwards the total.
type Counter struct {
	knode.SimulationNode[CounterPorts]
}

type CounterData struct {
	knode.IsNodeData[Counter]
	total int
}

func (d *CounterData) HandleMessage(ctx *knode.MessageContext, n int) {
	d.total += n
	knode.EmitMessage(ctx, knode.Get[Counter]().SimulationPorts.Total, d.total)
}

type CounterPorts struct {
	knode.IsSimulationPorts[Counter]
	In    knode.MessageInput[Counter, int]
	Total knode.MessageOutput[Counter, int]
}

// Scale multiplies its input.
type Scale struct {
	knode.KernelNode[ScalePorts]
}

type ScaleData struct {
	knode.IsKernelData[Scale]
	Factor float64
}

type ScalePorts struct {
	knode.IsKernelPorts[Scale]
	In  knode.DataInput[Scale, float64]
	Out knode.DataOutput[Scale, float64]
}

type ScaleKernel struct {
	knode.IsGraphKernel[Scale]
}

func (k *ScaleKernel) Execute(ctx *knode.RenderContext, data *ScaleData, ports *ScalePorts) {
	ports.Out.Set(ports.In.Get() * data.Factor)
}
