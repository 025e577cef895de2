package valid

import "github.com/birdayz/kgraph/knode"

// Osc uses every aspect.
type Osc struct {
	knode.SimulationKernelNode[OscSimPorts, OscKernelPorts]
}

//kgraph:managed
type OscData struct {
	knode.IsNodeData[Osc]
	freq  float64
	notes int
}

func (d *OscData) Init(ctx *knode.InitContext)     {}
func (d *OscData) Update(ctx *knode.UpdateContext) {}

func (d *OscData) HandleFreq(ctx *knode.MessageContext, f float64) {
	d.freq = f
	knode.SetKernelData(ctx, OscKernelData{Freq: f})
}

func (d *OscData) HandleMessage(ctx *knode.MessageContext, note int) {
	d.notes += note
}

type OscSimPorts struct {
	knode.IsSimulationPorts[Osc]
	Freq  knode.MessageInput[Osc, float64]
	Notes knode.PortArray[knode.MessageInput[Osc, int]]
	Done  knode.MessageOutput[Osc, bool]
	Link  knode.DSLOutput[Osc, *Link]
}

type OscKernelData struct {
	knode.IsKernelData[Osc]
	Freq float64
}

type OscKernelPorts struct {
	knode.IsKernelPorts[Osc]
	Phase knode.DataInput[Osc, float64]
	Mods  knode.PortArray[knode.DataInput[Osc, float64]]
	Out   knode.DataOutput[Osc, float64]
}

type OscKernel struct {
	knode.IsGraphKernel[Osc]
}

func (k *OscKernel) Execute(ctx *knode.RenderContext, data *OscKernelData, ports *OscKernelPorts) {
	ports.Out.Set(ports.Phase.Get() * data.Freq)
}

func NewOsc() *Osc {
	return &Osc{}
}

// Link is a DSL handler.
type Link struct{}

func (*Link) Connect(knode.DSLConnection)    {}
func (*Link) Disconnect(knode.DSLConnection) {}

// Ticker has simulation ports only.
type Ticker struct {
	knode.SimulationNode[TickerPorts]
}

type TickerPorts struct {
	knode.IsSimulationPorts[Ticker]
	Tick knode.MessageOutput[Ticker, int]
}

// Gain is a kernel without node data.
type Gain struct {
	knode.KernelNode[GainPorts]
}

type GainData struct {
	knode.IsKernelData[Gain]
	Factor float64
}

type GainPorts struct {
	knode.IsKernelPorts[Gain]
	In   knode.DataInput[Gain, float64]
	Out  knode.DataOutput[Gain, float64]
	Taps knode.PortArray[knode.DataOutput[Gain, float64]]
}

type GainKernel struct {
	knode.IsGraphKernel[Gain]
}

func (k *GainKernel) Execute(ctx *knode.RenderContext, data *GainData, ports *GainPorts) {}

// Probe is naked.
type Probe struct {
	knode.NodeDefinition
}

type ProbeData struct {
	knode.IsNodeData[Probe]
}

func (d *ProbeData) Destroy(ctx *knode.DestroyContext) {}

func NewProbe() Probe {
	return Probe{}
}

//kgraph:abstract
type RelayBase struct {
	knode.SimulationNode[RelayPorts]
}

type RelayData struct {
	knode.IsNodeData[RelayBase]
	last string
}

func (d *RelayData) HandleText(ctx *knode.MessageContext, s string) {
	d.last = s
}

// Relay gets its shape and node data from RelayBase.
type Relay struct {
	RelayBase
}

type RelayPorts struct {
	knode.IsSimulationPorts[Relay]
	In  knode.MessageInput[RelayBase, string]
	Out knode.MessageOutput[Relay, string]
}

// plain is not a node definition.
type plain struct {
	n int
}

var _ = plain{}

// Console declares every port class, scalar and array.
type Console struct {
	knode.SimulationKernelNode[ConsolePorts, ConsoleKernelPorts]
}

type ConsoleData struct {
	knode.IsNodeData[Console]
	count int
	lines []string
}

func (d *ConsoleData) HandleCount(ctx *knode.MessageContext, n int) {
	d.count += n
}

func (d *ConsoleData) HandleLine(ctx *knode.MessageContext, line string) {
	d.lines = append(d.lines, line)
}

type ConsolePorts struct {
	knode.IsSimulationPorts[Console]
	Count knode.MessageInput[Console, int]
	Acks  knode.PortArray[knode.MessageOutput[Console, bool]]
	Bus   knode.DSLInput[Console, *Link]
	Lines knode.PortArray[knode.MessageInput[Console, string]]
	Tap   knode.DSLOutput[Console, *Link]
	Buses knode.PortArray[knode.DSLInput[Console, *Link]]
	Total knode.MessageOutput[Console, int]
	Taps  knode.PortArray[knode.DSLOutput[Console, *Link]]
}

type ConsoleKernelData struct {
	knode.IsKernelData[Console]
}

type ConsoleKernelPorts struct {
	knode.IsKernelPorts[Console]
	Meters knode.PortArray[knode.DataOutput[Console, float64]]
	Level  knode.DataInput[Console, float64]
	Peak   knode.DataOutput[Console, float64]
	Mix    knode.PortArray[knode.DataInput[Console, float64]]
}

type ConsoleKernel struct {
	knode.IsGraphKernel[Console]
}

func (k *ConsoleKernel) Execute(ctx *knode.RenderContext, data *ConsoleKernelData, ports *ConsoleKernelPorts) {
	ports.Peak.Set(ports.Level.Get())
}
