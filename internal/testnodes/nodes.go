// Package testnodes holds node definitions exercised by the runtime tests.
package testnodes

//go:generate go run github.com/birdayz/kgraph/cmd/kgraphgen

import (
	"fmt"

	"github.com/birdayz/kgraph/knode"
)

// Counter sums the integers it receives and emits the running total.
type Counter struct {
	knode.SimulationNode[CounterPorts]
}

type CounterPorts struct {
	knode.IsSimulationPorts[Counter]
	In    knode.MessageInput[Counter, int]
	Total knode.MessageOutput[Counter, int]
}

type CounterData struct {
	knode.IsNodeData[Counter]
	Total   int
	Inits   int
	Updates int
}

func (d *CounterData) Init(ctx *knode.InitContext) {
	d.Inits++
}

func (d *CounterData) Update(ctx *knode.UpdateContext) {
	d.Updates++
}

func (d *CounterData) HandleMessage(ctx *knode.MessageContext, n int) {
	d.Total += n
	knode.EmitMessage(ctx, knode.Get[Counter]().SimulationPorts.Total, d.Total)
}

// Relay forwards strings from input element i to output element i.
type Relay struct {
	knode.SimulationNode[RelayPorts]
}

type RelayPorts struct {
	knode.IsSimulationPorts[Relay]
	In  knode.PortArray[knode.MessageInput[Relay, string]]
	Out knode.PortArray[knode.MessageOutput[Relay, string]]
}

//kgraph:managed
type RelayData struct {
	knode.IsNodeData[Relay]
	Seen []string
}

func (d *RelayData) HandleText(ctx *knode.MessageContext, s string) {
	d.Seen = append(d.Seen, fmt.Sprintf("%d:%s", ctx.ArrayIndex, s))
	knode.EmitMessageToArray(ctx, knode.Get[Relay]().SimulationPorts.Out, ctx.ArrayIndex, s)
}

// Log records strings and passes them on.
type Log struct {
	knode.SimulationNode[LogPorts]
}

type LogPorts struct {
	knode.IsSimulationPorts[Log]
	In  knode.MessageInput[Log, string]
	Out knode.MessageOutput[Log, string]
}

type LogData struct {
	knode.IsNodeData[Log]
	Lines []string
}

func (d *LogData) HandleMessage(ctx *knode.MessageContext, s string) {
	d.Lines = append(d.Lines, s)
	knode.EmitMessage(ctx, knode.Get[Log]().SimulationPorts.Out, s)
}

// Source publishes the last level it was sent on its data output.
type Source struct {
	knode.SimulationKernelNode[SourcePorts, SourceKernelPorts]
}

type SourcePorts struct {
	knode.IsSimulationPorts[Source]
	Level knode.MessageInput[Source, float64]
}

type SourceData struct {
	knode.IsNodeData[Source]
}

func (d *SourceData) HandleLevel(ctx *knode.MessageContext, v float64) {
	knode.SetKernelData(ctx, SourceKernelData{Level: v})
}

type SourceKernelData struct {
	knode.IsKernelData[Source]
	Level float64
}

type SourceKernelPorts struct {
	knode.IsKernelPorts[Source]
	Out knode.DataOutput[Source, float64]
}

type SourceKernel struct {
	knode.IsGraphKernel[Source]
}

func (k *SourceKernel) Execute(ctx *knode.RenderContext, data *SourceKernelData, ports *SourceKernelPorts) {
	ports.Out.Set(data.Level)
}

// Gain multiplies its input by Factor.
type Gain struct {
	knode.KernelNode[GainPorts]
}

type GainData struct {
	knode.IsKernelData[Gain]
	Factor float64
}

type GainPorts struct {
	knode.IsKernelPorts[Gain]
	In  knode.DataInput[Gain, float64]
	Out knode.DataOutput[Gain, float64]
}

type GainKernel struct {
	knode.IsGraphKernel[Gain]
}

func (k *GainKernel) Execute(ctx *knode.RenderContext, data *GainData, ports *GainPorts) {
	ports.Out.Set(ports.In.Get() * data.Factor)
}

// Sum adds all elements of its input array.
type Sum struct {
	knode.KernelNode[SumPorts]
}

type SumData struct {
	knode.IsKernelData[Sum]
}

type SumPorts struct {
	knode.IsKernelPorts[Sum]
	In  knode.PortArray[knode.DataInput[Sum, float64]]
	Out knode.DataOutput[Sum, float64]
}

type SumKernel struct {
	knode.IsGraphKernel[Sum]
}

func (k *SumKernel) Execute(ctx *knode.RenderContext, data *SumData, ports *SumPorts) {
	var total float64
	for i := 0; i < ports.In.Len(); i++ {
		total += ports.In.Item(i).Get()
	}
	ports.Out.Set(total)
}

// Spread writes In*(i+1) to output element i.
type Spread struct {
	knode.KernelNode[SpreadPorts]
}

type SpreadData struct {
	knode.IsKernelData[Spread]
}

type SpreadPorts struct {
	knode.IsKernelPorts[Spread]
	In  knode.DataInput[Spread, float64]
	Out knode.PortArray[knode.DataOutput[Spread, float64]]
}

type SpreadKernel struct {
	knode.IsGraphKernel[Spread]
}

func (k *SpreadKernel) Execute(ctx *knode.RenderContext, data *SpreadData, ports *SpreadPorts) {
	for i := 0; i < ports.Out.Len(); i++ {
		ports.Out.Item(i).Set(ports.In.Get() * float64(i+1))
	}
}

// Probe only has node data and records its destruction.
type Probe struct {
	knode.NodeDefinition
}

type ProbeData struct {
	knode.IsNodeData[Probe]
	Label string
}

// ProbeDestroyed counts destroyed probes. Tests reset it.
var ProbeDestroyed int

func (d *ProbeData) Destroy(ctx *knode.DestroyContext) {
	ProbeDestroyed++
}

func NewProbe() *Probe {
	return &Probe{}
}

// Wire links nodes through a Bus.
type Wire struct {
	knode.SimulationNode[WirePorts]
}

type WirePorts struct {
	knode.IsSimulationPorts[Wire]
	Out knode.DSLOutput[Wire, *Bus]
	In  knode.DSLInput[Wire, *Bus]
}

// Bus is the DSL handler of Wire links.
type Bus struct {
	Links []knode.DSLConnection
}

func (b *Bus) Connect(c knode.DSLConnection) {
	b.Links = append(b.Links, c)
}

func (b *Bus) Disconnect(c knode.DSLConnection) {
	for i, l := range b.Links {
		if l == c {
			b.Links = append(b.Links[:i], b.Links[i+1:]...)
			return
		}
	}
}
