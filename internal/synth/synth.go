// Package synth renders the companion code of validated node definitions:
// traits, port initializers, the virtual table installer and the compiled
// kernel entry point.
package synth

import (
	"bytes"
	"fmt"
	"go/token"
	"go/types"

	"github.com/dave/jennifer/jen"

	"github.com/birdayz/kgraph/internal/classify"
	"github.com/birdayz/kgraph/internal/diag"
	"github.com/birdayz/kgraph/internal/loader"
	"github.com/birdayz/kgraph/internal/model"
	"github.com/birdayz/kgraph/knode"
)

// Header is the first line of every generated file.
const Header = "Code generated by kgraphgen. DO NOT EDIT."

var (
	knodePath   = loader.KnodePath
	kkernelPath = loader.KkernelPath
)

var newPortFuncs = map[knode.PortClass]string{
	knode.MessageInputClass:  "NewMessageInput",
	knode.MessageOutputClass: "NewMessageOutput",
	knode.DataInputClass:     "NewDataInput",
	knode.DataOutputClass:    "NewDataOutput",
	knode.DSLInputClass:      "NewDSLInput",
	knode.DSLOutputClass:     "NewDSLOutput",
}

var bindPortFuncs = map[knode.PortClass]string{
	knode.DataInputClass:  "BindDataInput",
	knode.DataOutputClass: "BindDataOutput",
}

type generator struct {
	pkg   *types.Package
	file  *jen.File
	diags diag.List

	portStructs map[*types.TypeName]bool
	kernels     map[*types.TypeName]bool
	inits       []jen.Code
}

// Package renders the generated file for defs, which must all belong to the
// package pkg and have passed validation. It returns nil when defs is
// empty or when an internal error was found.
func Package(pkg *types.Package, defs []*model.Definition) ([]byte, diag.List) {
	if len(defs) == 0 {
		return nil, nil
	}
	g := &generator{
		pkg:         pkg,
		file:        jen.NewFilePathName(pkg.Path(), pkg.Name()),
		portStructs: map[*types.TypeName]bool{},
		kernels:     map[*types.TypeName]bool{},
	}
	g.file.HeaderComment(Header)
	g.file.ImportName(knodePath, "knode")
	g.file.ImportName(kkernelPath, "kkernel")

	for _, def := range defs {
		g.definition(def)
	}
	if len(g.diags) > 0 {
		return nil, g.diags
	}
	g.file.Func().Id("init").Params().Block(g.inits...)

	var buf bytes.Buffer
	if err := g.file.Render(&buf); err != nil {
		return nil, diag.List{diag.New(diag.UnexpectedImplementation, token.Position{Filename: pkg.Path()},
			"rendering generated code: %v", err)}
	}
	return buf.Bytes(), nil
}

func (g *generator) fail(rule diag.Rule, def *model.Definition, pos token.Position, format string, args ...any) {
	g.diags = append(g.diags, diag.New(rule, pos, format, args...).With(def.Name()))
}

// codes renders ts for def, reporting a missing symbol on failure.
func (g *generator) codes(def *model.Definition, ts ...types.Type) ([]jen.Code, bool) {
	codes, err := typeCodes(ts...)
	if err != nil {
		g.fail(diag.SymbolNotFound, def, def.Ref.Pos, "%v", err)
		return nil, false
	}
	return codes, true
}

func (g *generator) definition(def *model.Definition) {
	shape := def.Shape
	if shape.Arity == knode.ArityNone || def.Generic {
		g.fail(diag.UnexpectedImplementation, def, def.Ref.Pos,
			"%s reached synthesis without a traits arity", def.Name())
		return
	}
	names := classify.GeneratedNames(def.Name())
	traitsName, newName, execName := names[0], names[1], names[2]

	var traitsArgs []types.Type
	switch shape.Arity {
	case knode.Arity1:
		traitsArgs = []types.Type{shape.SimulationPorts.Type()}
	case knode.Arity2:
		traitsArgs = []types.Type{shape.NodeData.Type(), shape.SimulationPorts.Type()}
	case knode.Arity3:
		traitsArgs = []types.Type{shape.KernelData.Type(), shape.KernelPorts.Type(), shape.GraphKernel.Type()}
	case knode.Arity4:
		traitsArgs = []types.Type{shape.NodeData.Type(), shape.KernelData.Type(), shape.KernelPorts.Type(), shape.GraphKernel.Type()}
	case knode.Arity5:
		traitsArgs = []types.Type{shape.NodeData.Type()}
	}
	args, ok := g.codes(def, traitsArgs...)
	if !ok {
		return
	}
	defType, ok := g.codes(def, def.Ref.Named)
	if !ok {
		return
	}
	hasSim := shape.Kind.HasSimulationPorts()
	hasKernel := shape.Kind.HasKernel()

	g.file.Var().Id(traitsName).Op("=").Qual(knodePath, fmt.Sprintf("NewTraits%d", int(shape.Arity))).Types(args...).Call()

	// Constructor path.
	body := []jen.Code{g.construct(def, defType[0])}
	if hasSim {
		body = append(body, jen.Id("d").Dot("SimulationPorts").Dot("KG_InitPorts").Call())
	}
	if hasKernel {
		body = append(body, jen.Id("d").Dot("KernelPorts").Dot("KG_InitPorts").Call())
	}
	body = append(body, jen.Return(jen.Id("d")))
	g.file.Func().Id(newName).Params().Op("*").Add(defType[0]).Block(body...)

	recv := jen.Op("*").Add(defType[0])
	g.file.Func().Params(recv.Clone()).Id("KG_BaseTraits").Params().Op("*").Qual(knodePath, "Traits").Block(
		jen.Return(jen.Id(traitsName)),
	)
	if code, ok := g.simulationStorage(def); ok {
		g.file.Func().Params(recv.Clone()).Id("KG_SimulationStorageTraits").Params().Qual(knodePath, "SimulationStorageTraits").Block(
			jen.Return(code),
		)
	}
	kernelStorage := jen.Qual(knodePath, "NoKernelStorage").Call()
	if hasKernel {
		kernelStorage = jen.Id(traitsName).Dot("KernelStorage").Call()
	}
	g.file.Func().Params(recv.Clone()).Id("KG_KernelStorageTraits").Params().Qual(knodePath, "KernelStorageTraits").Block(
		jen.Return(kernelStorage),
	)
	if install, ok := g.install(def); ok {
		g.file.Func().Params(recv.Clone()).Id("KG_Install").Params(jen.Id("vt").Op("*").Qual(knodePath, "VirtualTable")).Block(install...)
	}

	if hasSim {
		g.ports(def, shape.SimulationPorts, def.SimulationPorts, false)
	}
	if hasKernel {
		g.ports(def, shape.KernelPorts, def.KernelPorts, true)
	}

	g.inits = append(g.inits, jen.Qual(knodePath, "Register").Call(jen.Id(newName)))
	if hasKernel {
		g.kernel(def, execName)
	}
}

// construct declares d, calling the user constructor when there is one.
func (g *generator) construct(def *model.Definition, defType jen.Code) jen.Code {
	for _, ctor := range def.Constructors {
		if ctor.Params > 0 {
			continue
		}
		if ctor.Pointer {
			return jen.Id("d").Op(":=").Id(ctor.Name).Call()
		}
		return jen.Id("v").Op(":=").Id(ctor.Name).Call().Line().Id("d").Op(":=").Op("&").Id("v")
	}
	return jen.Id("d").Op(":=").Op("&").Add(defType).Values()
}

func (g *generator) simulationStorage(def *model.Definition) (jen.Code, bool) {
	nd := def.Shape.NodeData
	if nd == nil {
		return jen.Qual(knodePath, "NoSimulationStorage").Call(), true
	}
	codes, ok := g.codes(def, nd.Type())
	if !ok {
		return nil, false
	}
	fn := "ValueSimulationStorage"
	if def.Shape.Managed {
		fn = "ManagedSimulationStorage"
	}
	return jen.Qual(knodePath, fn).Types(codes...).Call(), true
}

// install renders the virtual table installer. Install calls name the
// definition level the node data marker was declared for, which may be a
// base definition.
func (g *generator) install(def *model.Definition) ([]jen.Code, bool) {
	nd := def.Shape.NodeData
	if nd == nil {
		return nil, true
	}
	cands := def.Candidates[model.NodeData]
	if len(cands) != 1 {
		g.fail(diag.UnexpectedImplementation, def, nd.Pos,
			"node data %s has %d marker candidates", nd, len(cands))
		return nil, false
	}
	head, ok := g.codes(def, cands[0].Level, nd.Type())
	if !ok {
		return nil, false
	}

	var stmts []jen.Code
	lifecycle := []struct {
		on bool
		fn string
	}{
		{def.Lifecycle.Init, "InstallInit"},
		{def.Lifecycle.Update, "InstallUpdate"},
		{def.Lifecycle.Destroy, "InstallDestroy"},
	}
	for _, l := range lifecycle {
		if l.on {
			stmts = append(stmts, jen.Qual(knodePath, l.fn).Types(head...).Call(jen.Id("vt")))
		}
	}

	for _, b := range def.Bindings {
		payload, ok := g.codes(def, b.Payload)
		if !ok {
			return nil, false
		}
		targs := append(append([]jen.Code{}, head...), payload...)
		fn := "Install"
		if b.Generic {
			fn += "Generic"
		}
		if b.Port.IsArray {
			fn += "Array"
		}
		fn += "MessageHandler"

		params := []jen.Code{jen.Id("vt"), jen.Lit(int(b.Port.Ordinal))}
		if !b.Generic {
			params = append(params, jen.Parens(jen.Op("*").Add(head[1])).Dot(b.Method))
		}
		stmts = append(stmts, jen.Qual(knodePath, fn).Types(targs...).Call(params...))
	}
	return stmts, true
}

// ports renders KG_InitPorts, plus KG_BindPorts for kernel ports, once per
// port struct.
func (g *generator) ports(def *model.Definition, ref *model.TypeRef, ports []model.PortDescriptor, kernel bool) {
	if g.portStructs[ref.Name] {
		return
	}
	g.portStructs[ref.Name] = true

	if ref.Name.Pkg().Path() != g.pkg.Path() {
		if !hasMethod(ref.Named, "KG_InitPorts") {
			g.fail(diag.SymbolNotFound, def, ref.Pos,
				"%s is declared in %s and has no KG_InitPorts method", ref, ref.Name.Pkg().Path())
		}
		return
	}

	var initStmts, bindStmts []jen.Code
	for _, p := range ports {
		targs, ok := g.codes(def, p.Owner, p.Payload)
		if !ok {
			return
		}
		fn := newPortFuncs[p.Class]
		if p.IsArray {
			fn += "Array"
		}
		initStmts = append(initStmts,
			jen.Id("p").Dot(p.Name).Op("=").Qual(knodePath, fn).Types(targs...).Call(jen.Lit(int(p.Ordinal))))

		if bind, ok := bindPortFuncs[p.Class]; ok && kernel {
			if p.IsArray {
				bind += "Array"
			}
			bindStmts = append(bindStmts, jen.Qual(knodePath, bind).Call(jen.Id("b"), jen.Op("&").Id("p").Dot(p.Name)))
		}
	}

	recv := jen.Id("p").Op("*").Id(ref.Name.Name())
	g.file.Func().Params(recv.Clone()).Id("KG_InitPorts").Params().Block(initStmts...)
	if kernel {
		g.file.Func().Params(recv.Clone()).Id("KG_BindPorts").Params(jen.Id("b").Op("*").Qual(knodePath, "PortBinder")).Block(bindStmts...)
	}
}

// kernel renders the compiled entry point, once per kernel type.
func (g *generator) kernel(def *model.Definition, execName string) {
	shape := def.Shape
	if g.kernels[shape.GraphKernel.Name] {
		return
	}
	g.kernels[shape.GraphKernel.Name] = true

	codes, ok := g.codes(def, shape.KernelData.Type(), shape.KernelPorts.Type(), shape.GraphKernel.Type())
	if !ok {
		return
	}
	kd, kp, k := codes[0], codes[1], codes[2]
	g.file.Func().Id(execName).Params(
		jen.Id("ctx").Op("*").Qual(knodePath, "RenderContext"),
		jen.Id("p").Qual(knodePath, "KernelPointers"),
	).Block(
		jen.Parens(jen.Op("*").Add(k)).Call(jen.Id("p").Dot("Kernel")).Dot("Execute").Call(
			jen.Id("ctx"),
			jen.Parens(jen.Op("*").Add(kd)).Call(jen.Id("p").Dot("Data")),
			jen.Parens(jen.Op("*").Add(kp)).Call(jen.Id("p").Dot("Ports")),
		),
	)
	g.inits = append(g.inits, jen.Qual(kkernelPath, "RegisterCompiled").Types(kd, kp, k).Call(jen.Id(execName)))
}

func hasMethod(t types.Type, name string) bool {
	obj, _, _ := types.LookupFieldOrMethod(types.NewPointer(t), false, nil, name)
	_, ok := obj.(*types.Func)
	return ok
}
