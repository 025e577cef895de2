package synth

import (
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"golang.org/x/tools/go/packages"

	"github.com/birdayz/kgraph/internal/classify"
	"github.com/birdayz/kgraph/internal/diag"
	"github.com/birdayz/kgraph/internal/loader"
	"github.com/birdayz/kgraph/internal/model"
	"github.com/birdayz/kgraph/internal/validate"
	"github.com/birdayz/kgraph/knode"
)

func loadValid(t *testing.T) (*packages.Package, []*model.Definition) {
	t.Helper()
	pkgs, diags, err := loader.Load(loader.Config{Dir: filepath.Join("..", "classify", "testdata", "valid")})
	assert.NoError(t, err)
	assert.False(t, diags.HasErrors(), "%v", diags)
	defs, internal := classify.Package(pkgs[0])
	assert.Equal(t, 0, len(internal))
	assert.Equal(t, 0, len(validate.All(defs)), "%v", validate.All(defs))
	return pkgs[0], defs
}

func TestPackage(t *testing.T) {
	pkg, defs := loadValid(t)
	out, diags := Package(pkg.Types, defs)
	assert.Equal(t, 0, len(diags), "%v", diags)
	src := string(out)

	assert.True(t, strings.HasPrefix(src, "// "+Header+"\n"), src)
	_, err := parser.ParseFile(token.NewFileSet(), "kgraph_gen.go", out, parser.AllErrors)
	assert.NoError(t, err)

	for _, want := range []string{
		"var kg_OscTraits = knode.NewTraits4[OscData, OscKernelData, OscKernelPorts, OscKernel]()",
		"var kg_TickerTraits = knode.NewTraits1[TickerPorts]()",
		"var kg_GainTraits = knode.NewTraits3[GainData, GainPorts, GainKernel]()",
		"var kg_ProbeTraits = knode.NewTraits5[ProbeData]()",
		"var kg_RelayTraits = knode.NewTraits2[RelayData, RelayPorts]()",

		"func (*Osc) KG_BaseTraits() *knode.Traits {\n\treturn kg_OscTraits\n}",
		"return knode.ManagedSimulationStorage[OscData]()",
		"return knode.ValueSimulationStorage[ProbeData]()",
		"return knode.NoSimulationStorage()",
		"return kg_OscTraits.KernelStorage()",
		"return knode.NoKernelStorage()",

		"d := NewOsc()",
		"v := NewProbe()\n\td := &v",
		"d := &Gain{}",
		"d.SimulationPorts.KG_InitPorts()\n\td.KernelPorts.KG_InitPorts()",

		"knode.InstallInit[Osc, OscData](vt)",
		"knode.InstallUpdate[Osc, OscData](vt)",
		"knode.InstallDestroy[Probe, ProbeData](vt)",
		"knode.InstallMessageHandler[Osc, OscData, float64](vt, 0, (*OscData).HandleFreq)",
		"knode.InstallGenericArrayMessageHandler[Osc, OscData, int](vt, 1)",
		"knode.InstallMessageHandler[RelayBase, RelayData, string](vt, 0, (*RelayData).HandleText)",

		"p.Freq = knode.NewMessageInput[Osc, float64](0)",
		"p.Notes = knode.NewMessageInputArray[Osc, int](1)",
		"p.Done = knode.NewMessageOutput[Osc, bool](0)",
		"p.Link = knode.NewDSLOutput[Osc, *Link](0)",
		"p.Mods = knode.NewDataInputArray[Osc, float64](1)",
		"p.In = knode.NewMessageInput[RelayBase, string](0)",
		"p.Out = knode.NewMessageOutput[Relay, string](0)",
		"knode.BindDataInputArray(b, &p.Mods)",
		"knode.BindDataOutputArray(b, &p.Taps)",

		"p.Bus = knode.NewDSLInput[Console, *Link](0)",
		"p.Buses = knode.NewDSLInputArray[Console, *Link](1)",
		"p.Tap = knode.NewDSLOutput[Console, *Link](0)",
		"p.Taps = knode.NewDSLOutputArray[Console, *Link](1)",
		"p.Acks = knode.NewMessageOutputArray[Console, bool](0)",
		"p.Total = knode.NewMessageOutput[Console, int](1)",
		"p.Meters = knode.NewDataOutputArray[Console, float64](0)",
		"p.Peak = knode.NewDataOutput[Console, float64](1)",
		"knode.InstallArrayMessageHandler[Console, ConsoleData, string](vt, 1, (*ConsoleData).HandleLine)",
		"knode.BindDataInputArray(b, &p.Mix)",
		"knode.BindDataOutput(b, &p.Peak)",

		"(*GainKernel)(p.Kernel).Execute(ctx, (*GainData)(p.Data), (*GainPorts)(p.Ports))",
		"knode.Register(kg_NewProbe)",
		"kkernel.RegisterCompiled[OscKernelData, OscKernelPorts, OscKernel](kg_ExecOsc)",
	} {
		assert.Contains(t, src, want)
	}

	assert.Equal(t, 1, strings.Count(src, "func init()"))
	assert.Equal(t, 1, strings.Count(src, "func (p *OscKernelPorts) KG_BindPorts("))
	assert.False(t, strings.Contains(src, "func (p *OscSimPorts) KG_BindPorts("))
	assert.False(t, strings.Contains(src, "kg_ExecTicker"))
	assert.True(t, strings.Index(src, "kg_OscTraits") < strings.Index(src, "kg_TickerTraits"), "source order")
}

func TestPackageIsDeterministic(t *testing.T) {
	pkg, defs := loadValid(t)
	first, diags := Package(pkg.Types, defs)
	assert.Equal(t, 0, len(diags))

	pkg2, again := loadValid(t)
	second, diags := Package(pkg2.Types, again)
	assert.Equal(t, 0, len(diags))
	assert.Equal(t, string(first), string(second))
}

func TestPackageWithoutDefinitions(t *testing.T) {
	out, diags := Package(types.NewPackage("example.com/empty", "empty"), nil)
	assert.Equal(t, 0, len(out))
	assert.Equal(t, 0, len(diags))
}

func TestUnexpectedDefinition(t *testing.T) {
	pkg := types.NewPackage("example.com/nodes", "nodes")
	obj := types.NewTypeName(token.NoPos, pkg, "Broken", nil)
	named := types.NewNamed(obj, types.NewStruct(nil, nil), nil)
	def := &model.Definition{Ref: &model.TypeRef{Name: obj, Named: named, Exported: true}}
	def.Shape.Kind = knode.KindSimulation

	out, diags := Package(pkg, []*model.Definition{def})
	assert.Equal(t, 0, len(out))
	assert.Equal(t, 1, diags.Count(diag.UnexpectedImplementation))
	assert.True(t, diags.HasInternal())
}

func TestTypeCode(t *testing.T) {
	pkg := types.NewPackage("example.com/nodes", "nodes")
	named := types.NewNamed(types.NewTypeName(token.NoPos, pkg, "Item", nil), types.NewStruct(nil, nil), nil)

	tests := []struct {
		name string
		typ  types.Type
		ok   bool
	}{
		{"basic", types.Typ[types.Float64], true},
		{"named", named, true},
		{"pointer", types.NewPointer(named), true},
		{"slice", types.NewSlice(types.Typ[types.String]), true},
		{"array", types.NewArray(types.Typ[types.Int], 4), true},
		{"map", types.NewMap(types.Typ[types.String], named), true},
		{"any", types.NewInterfaceType(nil, nil), true},
		{"chan", types.NewChan(types.SendRecv, types.Typ[types.Int]), false},
		{"untyped", types.Typ[types.UntypedInt], false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := typeCode(tt.typ)
			assert.Equal(t, tt.ok, err == nil, "%v", err)
		})
	}
}
