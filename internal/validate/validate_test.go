package validate

import (
	"go/token"
	"go/types"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"golang.org/x/exp/slices"

	"github.com/birdayz/kgraph/internal/classify"
	"github.com/birdayz/kgraph/internal/diag"
	"github.com/birdayz/kgraph/internal/loader"
	"github.com/birdayz/kgraph/internal/model"
	"github.com/birdayz/kgraph/knode"
)

func loadDefinitions(t *testing.T, dir string) []*model.Definition {
	t.Helper()
	pkgs, diags, err := loader.Load(loader.Config{Dir: filepath.Join("testdata", dir)})
	assert.NoError(t, err)
	assert.False(t, diags.HasErrors(), "%v", diags)
	defs, internal := classify.Package(pkgs[0])
	assert.Equal(t, 0, len(internal), "%v", internal)
	return defs
}

func ruleIDs(l diag.List) []string {
	ids := []string{}
	for _, d := range l {
		ids = append(ids, d.Rule.ID)
	}
	return ids
}

func TestDefinitionRules(t *testing.T) {
	want := map[string][]string{
		"NoShape":       {"KG0001"},
		"TwoShapes":     {"KG0002"},
		"DupData":       {"KG0003"},
		"HalfKernel":    {"KG0004"},
		"SimWithKernel": {"KG0005"},
		"WrongArg":      {"KG0006"},
		"BadExec":       {"KG0007"},
		"TwoCtors":      {"KG0008"},
		"Reserved":      {"KG0009"},
		"NoHandler":     {"KG0010"},
		"Ambiguous":     {"KG0011"},
		"DupHandler":    {"KG0012"},
		"BadField":      {"KG0013"},
		"SharedField":   {"KG0014"},
		"WrongOwner":    {"KG0015"},
		"WrongClass":    {"KG0016"},
		"Deferred":      {"KG0018"},
		"Empty":         {"KG0019"},
		"Sloppy":        {"KG0020"},
		"PtrSim":        {"KG0021"},
		"PtrDeep":       {"KG0021"},
		"Fine":          {},
	}

	defs := loadDefinitions(t, "invalid")
	seen := map[string]bool{}
	for _, def := range defs {
		def := def
		t.Run(def.Name(), func(t *testing.T) {
			expected, ok := want[def.Name()]
			assert.True(t, ok, "unexpected definition %s", def.Name())
			got := Definition(def)
			assert.Equal(t, expected, ruleIDs(got), "%v", got)
			for _, d := range got {
				assert.Equal(t, def.Name(), d.Context[len(d.Context)-1])
				assert.True(t, d.Pos.IsValid(), "%v", d)
			}
		})
		seen[def.Name()] = true
	}
	assert.Equal(t, len(want), len(seen))
}

func TestSeverities(t *testing.T) {
	defs := loadDefinitions(t, "invalid")
	all := All(defs)

	warnings := all.Filter(diag.Warning)
	assert.Equal(t, []string{"KG0018", "KG0020"}, sortedIDs(warnings))
	assert.True(t, all.HasErrors())
	assert.False(t, all.HasInternal())
	assert.Error(t, all.Err())

	for i := 1; i < len(all); i++ {
		a, b := all[i-1].Pos, all[i].Pos
		if a.Filename == b.Filename {
			assert.True(t, a.Line <= b.Line, "%v before %v", all[i-1], all[i])
		}
	}
}

func TestPointerEmbeddedTemplate(t *testing.T) {
	byName := map[string]*model.Definition{}
	for _, def := range loadDefinitions(t, "invalid") {
		byName[def.Name()] = def
	}

	sim := byName["PtrSim"]
	assert.Equal(t, knode.KindSimulation, sim.Shape.Kind)
	assert.Equal(t, []string{"*SimulationNode"}, sim.PointerEmbeds)

	deep := byName["PtrDeep"]
	assert.Equal(t, knode.KindNaked, deep.Shape.Kind)
	assert.Equal(t, []string{"*PtrBase"}, deep.PointerEmbeds)

	got := Definition(deep)
	assert.Equal(t, 1, len(got))
	assert.Equal(t, diag.PointerEmbedding, got[0].Rule)
	assert.Equal(t, []string{"*PtrBase", "PtrDeep"}, got[0].Context)

	assert.Equal(t, 0, len(byName["Fine"].PointerEmbeds))
}

func sortedIDs(l diag.List) []string {
	ids := ruleIDs(l)
	slices.Sort(ids)
	return ids
}

func namedRef(pkg *types.Package, name string) *model.TypeRef {
	obj := types.NewTypeName(token.NoPos, pkg, name, nil)
	named := types.NewNamed(obj, types.NewStruct(nil, nil), nil)
	return &model.TypeRef{
		Name:     obj,
		Named:    named,
		Pos:      token.Position{Filename: pkg.Name() + ".go", Line: 1, Column: 1},
		Exported: obj.Exported(),
	}
}

func TestInaccessibleAspect(t *testing.T) {
	pkg := types.NewPackage("example.com/nodes", "nodes")
	other := types.NewPackage("example.com/other", "other")

	def := &model.Definition{Ref: namedRef(pkg, "Node")}
	def.Shape.Kind = knode.KindNaked
	data := namedRef(pkg, "NodeData")
	def.Candidates[model.NodeData] = []model.Candidate{{Ref: data, Level: def.Ref.Named}}
	def.SetAspect(model.NodeData, data)
	def.Inaccessible = []model.Candidate{{Ref: namedRef(other, "hidden"), Level: def.Ref.Named}}
	def.Shape.Arity = def.Shape.ComputeArity()

	got := Definition(def)
	assert.Equal(t, []string{"KG0017"}, ruleIDs(got))
	assert.Equal(t, diag.Warning, got[0].Severity())
	assert.Contains(t, got[0].Message, "hidden")
}

func TestInaccessibleNodeDataLeavesNakedEmpty(t *testing.T) {
	pkg := types.NewPackage("example.com/nodes", "nodes")
	other := types.NewPackage("example.com/other", "other")

	def := &model.Definition{Ref: namedRef(pkg, "Node")}
	def.Shape.Kind = knode.KindNaked
	def.Inaccessible = []model.Candidate{{Ref: namedRef(other, "data"), Level: def.Ref.Named}}

	assert.Equal(t, []string{"KG0017", "KG0019"}, ruleIDs(Definition(def)))
}
