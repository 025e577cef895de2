package classify

import (
	"go/types"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/birdayz/kgraph/internal/diag"
	"github.com/birdayz/kgraph/internal/loader"
	"github.com/birdayz/kgraph/internal/model"
	"github.com/birdayz/kgraph/knode"
)

func classifyFixture(t *testing.T, name string) map[string]*model.Definition {
	t.Helper()
	pkgs, diags, err := loader.Load(loader.Config{Dir: filepath.Join("testdata", name)})
	assert.NoError(t, err)
	assert.False(t, diags.HasErrors(), "%v", diags)
	assert.Equal(t, 1, len(pkgs))

	defs, internal := Package(pkgs[0])
	assert.Equal(t, 0, len(internal), "%v", internal)

	byName := map[string]*model.Definition{}
	for _, d := range defs {
		byName[d.Name()] = d
	}
	return byName
}

func portNames(ports []model.PortDescriptor) []string {
	names := make([]string, 0, len(ports))
	for _, p := range ports {
		names = append(names, p.Name)
	}
	return names
}

func TestClassifyValid(t *testing.T) {
	defs := classifyFixture(t, "valid")

	t.Run("definitions", func(t *testing.T) {
		assert.Equal(t, 6, len(defs))
		for _, name := range []string{"Osc", "Ticker", "Gain", "Probe", "Relay", "Console"} {
			_, ok := defs[name]
			assert.True(t, ok, "missing %s", name)
		}
		_, ok := defs["RelayBase"]
		assert.False(t, ok, "abstract definitions are skipped")
	})

	t.Run("shapes", func(t *testing.T) {
		tests := []struct {
			name  string
			kind  knode.Kind
			arity knode.TraitsArity
		}{
			{"Osc", knode.KindSimulationKernel, knode.Arity4},
			{"Ticker", knode.KindSimulation, knode.Arity1},
			{"Gain", knode.KindKernel, knode.Arity3},
			{"Probe", knode.KindNaked, knode.Arity5},
			{"Relay", knode.KindSimulation, knode.Arity2},
			{"Console", knode.KindSimulationKernel, knode.Arity4},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				d := defs[tt.name]
				assert.Equal(t, tt.kind, d.Shape.Kind)
				assert.Equal(t, tt.arity, d.Shape.Arity)
				assert.False(t, d.Generic)
				assert.Equal(t, 0, len(d.AmbiguousShape))
			})
		}
	})

	t.Run("aspects", func(t *testing.T) {
		osc := defs["Osc"]
		assert.Equal(t, "OscData", osc.Shape.NodeData.String())
		assert.Equal(t, "OscSimPorts", osc.Shape.SimulationPorts.String())
		assert.Equal(t, "OscKernelData", osc.Shape.KernelData.String())
		assert.Equal(t, "OscKernelPorts", osc.Shape.KernelPorts.String())
		assert.Equal(t, "OscKernel", osc.Shape.GraphKernel.String())
		assert.True(t, osc.Shape.Managed)
		assert.True(t, types.Identical(osc.Shape.SimulationArg, osc.Shape.SimulationPorts.Named))
		assert.True(t, types.Identical(osc.Shape.KernelArg, osc.Shape.KernelPorts.Named))
		assert.True(t, osc.Lifecycle.Init)
		assert.True(t, osc.Lifecycle.Update)
		assert.False(t, osc.Lifecycle.Destroy)
		assert.True(t, osc.Execute != nil)

		assert.False(t, defs["Relay"].Shape.Managed)
		assert.True(t, defs["Probe"].Lifecycle.Destroy)
	})

	t.Run("ports", func(t *testing.T) {
		osc := defs["Osc"]
		assert.Equal(t, []string{"Freq", "Notes", "Done", "Link"}, portNames(osc.SimulationPorts))
		assert.Equal(t, []string{"Phase", "Mods", "Out"}, portNames(osc.KernelPorts))
		assert.Equal(t, 0, len(osc.PortIssues))

		want := []knode.PortID{
			{Class: knode.MessageInputClass, Index: 0},
			{Class: knode.MessageInputClass, Index: 1, Array: true},
			{Class: knode.MessageOutputClass, Index: 0},
			{Class: knode.DSLOutputClass, Index: 0},
			{Class: knode.DataInputClass, Index: 0},
			{Class: knode.DataInputClass, Index: 1, Array: true},
			{Class: knode.DataOutputClass, Index: 0},
		}
		for i, p := range osc.Ports() {
			assert.Equal(t, want[i], p.ID(), "port %s", p.Name)
		}
		link, ok := osc.SimulationPorts[3].Payload.(*types.Pointer)
		assert.True(t, ok)
		assert.Equal(t, "Link", link.Elem().(*types.Named).Obj().Name())
	})

	t.Run("every port class", func(t *testing.T) {
		console := defs["Console"]
		assert.Equal(t, 0, len(console.PortIssues))
		want := []struct {
			name string
			id   knode.PortID
		}{
			{"Count", knode.PortID{Class: knode.MessageInputClass, Index: 0}},
			{"Acks", knode.PortID{Class: knode.MessageOutputClass, Index: 0, Array: true}},
			{"Bus", knode.PortID{Class: knode.DSLInputClass, Index: 0}},
			{"Lines", knode.PortID{Class: knode.MessageInputClass, Index: 1, Array: true}},
			{"Tap", knode.PortID{Class: knode.DSLOutputClass, Index: 0}},
			{"Buses", knode.PortID{Class: knode.DSLInputClass, Index: 1, Array: true}},
			{"Total", knode.PortID{Class: knode.MessageOutputClass, Index: 1}},
			{"Taps", knode.PortID{Class: knode.DSLOutputClass, Index: 1, Array: true}},
			{"Meters", knode.PortID{Class: knode.DataOutputClass, Index: 0, Array: true}},
			{"Level", knode.PortID{Class: knode.DataInputClass, Index: 0}},
			{"Peak", knode.PortID{Class: knode.DataOutputClass, Index: 1}},
			{"Mix", knode.PortID{Class: knode.DataInputClass, Index: 1, Array: true}},
		}
		ports := console.Ports()
		assert.Equal(t, len(want), len(ports))
		for i, p := range ports {
			assert.Equal(t, want[i].name, p.Name)
			assert.Equal(t, want[i].id, p.ID(), "port %s", p.Name)
			assert.Equal(t, want[i].id.Class, p.Class)
			assert.Equal(t, want[i].id.Array, p.IsArray)
		}
		assert.Equal(t, 8, len(console.SimulationPorts))
		assert.Equal(t, 4, len(console.KernelPorts))

		buses, ok := console.SimulationPorts[5].Payload.(*types.Pointer)
		assert.True(t, ok)
		assert.Equal(t, "Link", buses.Elem().(*types.Named).Obj().Name())
	})

	t.Run("handlers", func(t *testing.T) {
		osc := defs["Osc"]
		assert.Equal(t, 2, len(osc.Bindings))
		assert.Equal(t, "Freq", osc.Bindings[0].Port.Name)
		assert.Equal(t, "HandleFreq", osc.Bindings[0].Method)
		assert.False(t, osc.Bindings[0].Generic)
		assert.Equal(t, "Notes", osc.Bindings[1].Port.Name)
		assert.Equal(t, "HandleMessage", osc.Bindings[1].Method)
		assert.True(t, osc.Bindings[1].Generic)
		assert.Equal(t, 0, len(osc.Malformed))
	})

	t.Run("base definitions", func(t *testing.T) {
		relay := defs["Relay"]
		assert.Equal(t, 1, len(relay.Bases))
		assert.Equal(t, "RelayData", relay.Shape.NodeData.String())
		assert.Equal(t, 1, len(relay.Candidates[model.NodeData]))
		assert.Equal(t, "RelayBase", relay.Candidates[model.NodeData][0].Level.(*types.Named).Obj().Name())
		assert.True(t, relay.IsLevel(relay.SimulationPorts[0].Owner))
		assert.Equal(t, 1, len(relay.Bindings))
		assert.Equal(t, "HandleText", relay.Bindings[0].Method)
	})

	t.Run("constructors", func(t *testing.T) {
		assert.Equal(t, []model.Constructor{{Name: "NewOsc", Pointer: true, Pos: defs["Osc"].Constructors[0].Pos}}, defs["Osc"].Constructors)
		assert.Equal(t, 1, len(defs["Probe"].Constructors))
		assert.False(t, defs["Probe"].Constructors[0].Pointer)
		assert.Equal(t, 0, len(defs["Gain"].Constructors))
	})
}

func TestClassifyShapes(t *testing.T) {
	defs := classifyFixture(t, "shapes")

	t.Run("ambiguous template", func(t *testing.T) {
		d := defs["Twice"]
		assert.Equal(t, knode.KindUnknown, d.Shape.Kind)
		assert.Equal(t, knode.ArityNone, d.Shape.Arity)
		assert.Equal(t, 2, len(d.AmbiguousShape))
	})

	t.Run("template through base chain", func(t *testing.T) {
		d := defs["Deep"]
		assert.Equal(t, knode.KindNaked, d.Shape.Kind)
		assert.Equal(t, knode.Arity5, d.Shape.Arity)
		assert.Equal(t, 2, len(d.Bases))
		assert.Equal(t, "DeepData", d.Shape.NodeData.String())
		assert.Equal(t, 1, len(d.Constructors))
		assert.Equal(t, "NewOther", d.Constructors[0].Name)
		_, ok := defs["Middle"]
		assert.False(t, ok)
	})

	t.Run("duplicate aspect", func(t *testing.T) {
		d := defs["Dup"]
		assert.Equal(t, 2, len(d.Candidates[model.SimulationPorts]))
		assert.True(t, d.Shape.SimulationPorts == nil)
		assert.Equal(t, knode.ArityNone, d.Shape.Arity)
	})

	t.Run("generic definition", func(t *testing.T) {
		d := defs["Generic"]
		assert.True(t, d.Generic)
	})

	t.Run("non struct owner", func(t *testing.T) {
		d := defs["Loose"]
		assert.Equal(t, knode.KindUnknown, d.Shape.Kind)
		assert.Equal(t, "LooseData", d.Shape.NodeData.String())
	})

	t.Run("port fields", func(t *testing.T) {
		d := defs["Fields"]
		assert.Equal(t, []string{"A", "B", "C", "D"}, portNames(d.SimulationPorts))

		ids := map[string]knode.PortID{}
		for _, p := range d.SimulationPorts {
			ids[p.Name] = p.ID()
		}
		assert.Equal(t, knode.PortID{Class: knode.MessageInputClass, Index: 0}, ids["A"])
		assert.Equal(t, knode.PortID{Class: knode.MessageInputClass, Index: 1, Array: true}, ids["B"])
		assert.Equal(t, knode.PortID{Class: knode.DSLInputClass, Index: 0}, ids["C"])
		assert.Equal(t, knode.PortID{Class: knode.MessageInputClass, Index: 2}, ids["D"])

		issues := map[string]model.PortIssueKind{}
		for _, is := range d.PortIssues {
			issues[is.Field] = is.Kind
		}
		assert.Equal(t, map[string]model.PortIssueKind{
			"Count":         model.NotAPort,
			"Shared":        model.SharedPort,
			"MessageOutput": model.SharedPort,
			"Nested":        model.NotAPort,
		}, issues)
	})

	t.Run("handler methods", func(t *testing.T) {
		d := defs["Fields"]
		malformed := map[string]bool{}
		for _, m := range d.Malformed {
			malformed[m.Method] = true
		}
		assert.Equal(t, map[string]bool{"HandleBroken": true, "Init": true, "HandleResult": true}, malformed)
		assert.False(t, d.Lifecycle.Init)
		assert.Equal(t, 2, len(d.Handlers))
		assert.Equal(t, 3, len(d.Bindings))
	})

	t.Run("constructors and reserved names", func(t *testing.T) {
		d := defs["Fields"]
		assert.Equal(t, 2, len(d.Constructors))
		assert.Equal(t, "NewFields", d.Constructors[0].Name)
		assert.Equal(t, 1, d.Constructors[1].Params)

		assert.Equal(t, 1, len(d.Members))
		assert.Equal(t, "kg_NewFields", d.Members[0].Name)
	})
}

func TestClassifyDirectives(t *testing.T) {
	pkgs, diags, err := loader.Load(loader.Config{Dir: filepath.Join("testdata", "directives")})
	assert.NoError(t, err)
	assert.False(t, diags.HasErrors(), "%v", diags)

	defs, found := Package(pkgs[0])
	assert.Equal(t, 2, len(defs))
	assert.Equal(t, "Pool", defs[0].Name())
	assert.True(t, defs[0].Shape.Managed)
	assert.Equal(t, "Loose", defs[1].Name())
	assert.False(t, defs[1].Shape.Managed)

	assert.Equal(t, 1, len(found), "%v", found)
	assert.Equal(t, diag.MalformedDirective, found[0].Rule)
	assert.Equal(t, diag.Warning, found[0].Severity())
	assert.Equal(t, 24, found[0].Pos.Line)
	assert.False(t, found.HasInternal())
	assert.False(t, found.HasErrors())
}

func TestIsHandlerName(t *testing.T) {
	for name, want := range map[string]bool{
		"HandleMessage": true,
		"HandleFreq":    true,
		"Handle2":       true,
		"Handle":        false,
		"Handler":       false,
		"handleX":       false,
		"OnMessage":     false,
	} {
		assert.Equal(t, want, isHandlerName(name), name)
	}
}

func TestGeneratedNames(t *testing.T) {
	assert.Equal(t, []string{"kg_OscTraits", "kg_NewOsc", "kg_ExecOsc"}, GeneratedNames("Osc"))
}
