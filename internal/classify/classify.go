// Package classify implements the type and port classifiers. They resolve the
// shape, aspects, ports and handlers of every node definition declared in a
// package.
package classify

import (
	"errors"
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/go/packages"

	"github.com/birdayz/kgraph/internal/diag"
	"github.com/birdayz/kgraph/internal/loader"
	"github.com/birdayz/kgraph/internal/model"
	"github.com/birdayz/kgraph/knode"
)

// ReservedPrefixes are the name prefixes owned by generated code.
var ReservedPrefixes = []string{"KG_", "kg_"}

type candidate struct {
	aspect model.Aspect
	level  types.Type
	ref    *model.TypeRef
}

type classifier struct {
	pkg   *packages.Package
	docs  map[*types.TypeName]*ast.CommentGroup
	diags diag.List

	scanned    map[*types.Package]bool
	candidates []candidate
	// types whose malformed directives were reported
	malformed map[*types.TypeName]bool
}

// Package classifies the node definitions declared in pkg, in source order.
// The returned diagnostics are internal errors and malformed directive
// warnings; user errors are found by the validator from the returned
// definitions.
func Package(pkg *packages.Package) ([]*model.Definition, diag.List) {
	c := &classifier{
		pkg:     pkg,
		docs:    loader.TypeDocs(pkg),
		scanned:   map[*types.Package]bool{},
		malformed: map[*types.TypeName]bool{},
	}
	c.scan(pkg.Types)

	var defs []*model.Definition
	for _, obj := range c.typeNames(pkg.Types) {
		if def := c.definition(obj); def != nil {
			defs = append(defs, def)
		}
	}
	return defs, c.diags
}

func (c *classifier) position(pos token.Pos) token.Position {
	return c.pkg.Fset.Position(pos)
}

// directive reports whether the doc of obj carries //kgraph:name. Malformed
// directives are reported once per type.
func (c *classifier) directive(obj *types.TypeName, name string) bool {
	doc := c.docs[obj]
	ok, err := loader.HasDirective(doc, name)
	if err == nil || c.malformed[obj] {
		return ok
	}
	c.malformed[obj] = true
	for _, e := range multierr.Errors(err) {
		pos := doc.Pos()
		var de *loader.DirectiveError
		if errors.As(e, &de) {
			pos = de.Pos
		}
		c.diags = append(c.diags, diag.New(diag.MalformedDirective, c.position(pos),
			"%s: %v", obj.Name(), e).With(obj.Name()))
	}
	return ok
}

func (c *classifier) ref(obj *types.TypeName) *model.TypeRef {
	named, _ := obj.Type().(*types.Named)
	return &model.TypeRef{
		Name:     obj,
		Named:    named,
		Pos:      c.position(obj.Pos()),
		Exported: obj.Exported() || obj.Pkg() == c.pkg.Types,
	}
}

// typeNames returns the non-alias type names of p in source order.
func (c *classifier) typeNames(p *types.Package) []*types.TypeName {
	scope := p.Scope()
	var names []*types.TypeName
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || obj.IsAlias() {
			continue
		}
		if _, ok := obj.Type().(*types.Named); !ok {
			continue
		}
		names = append(names, obj)
	}
	slices.SortStableFunc(names, func(a, b *types.TypeName) bool {
		return a.Pos() < b.Pos()
	})
	return names
}

// scan records every type of p that embeds an aspect marker.
func (c *classifier) scan(p *types.Package) {
	if p == nil || c.scanned[p] {
		return
	}
	c.scanned[p] = true
	for _, obj := range c.typeNames(p) {
		named := obj.Type().(*types.Named)
		if named.TypeParams().Len() > 0 {
			continue
		}
		st, ok := named.Underlying().(*types.Struct)
		if !ok {
			continue
		}
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			if !f.Embedded() {
				continue
			}
			if aspect, level, ok := markerOf(f.Type()); ok {
				c.candidates = append(c.candidates, candidate{aspect: aspect, level: level, ref: c.ref(obj)})
			}
		}
	}
}

// ownsAspects reports whether some marker names t as its definition.
func (c *classifier) ownsAspects(t types.Type) bool {
	for _, cand := range c.candidates {
		if types.Identical(cand.level, t) {
			return true
		}
	}
	return false
}

func (c *classifier) definition(obj *types.TypeName) *model.Definition {
	named := obj.Type().(*types.Named)
	if isKnode(named, obj.Name()) {
		return nil
	}
	def := &model.Definition{
		Ref:     c.ref(obj),
		Package: c.pkg.PkgPath,
	}

	st, isStruct := named.Underlying().(*types.Struct)
	if !isStruct {
		// Not a struct, so no template; only of interest if aspects point at it.
		if !c.ownsAspects(named) {
			return nil
		}
		c.collect(def)
		return def
	}

	res := c.findTemplate(named, st)
	if named.TypeParams().Len() > 0 {
		if !res.found && len(res.ambiguous) == 0 {
			return nil
		}
		def.Generic = true
		return def
	}
	if !res.found && len(res.ambiguous) == 0 && !c.ownsAspects(named) {
		return nil
	}
	if c.directive(obj, loader.DirectiveAbstract) {
		return nil
	}

	def.AmbiguousShape = res.ambiguous
	def.Bases = res.bases
	def.PointerEmbeds = res.pointers
	if res.found {
		def.Shape.Kind = res.tmpl.kind
		switch res.tmpl.kind {
		case knode.KindSimulation:
			def.Shape.SimulationArg = c.arg(def, res.tmpl, 0, 1)
		case knode.KindKernel:
			def.Shape.KernelArg = c.arg(def, res.tmpl, 0, 1)
		case knode.KindSimulationKernel:
			def.Shape.SimulationArg = c.arg(def, res.tmpl, 0, 2)
			def.Shape.KernelArg = c.arg(def, res.tmpl, 1, 2)
		}
	}
	for _, base := range def.Bases {
		if n, ok := base.(*types.Named); ok {
			c.scan(n.Obj().Pkg())
		}
	}

	c.collect(def)
	return def
}

func (c *classifier) arg(def *model.Definition, tmpl template, i, want int) types.Type {
	if len(tmpl.args) != want {
		c.diags = append(c.diags, diag.New(diag.UnparseableDerivation, def.Ref.Pos,
			"%s embeds %s with %d type arguments, want %d", def.Name(), tmpl.name, len(tmpl.args), want))
		return nil
	}
	return tmpl.args[i]
}

type templateResult struct {
	tmpl      template
	found     bool
	ambiguous []string
	bases     []types.Type
	// pointers on the path to tmpl
	pointers []string
}

type embedLevel struct {
	st       *types.Struct
	pointers []string
}

// findTemplate walks the embedded fields breadth first. The first depth
// holding a template decides the shape; two templates there are ambiguous.
func (c *classifier) findTemplate(named *types.Named, st *types.Struct) templateResult {
	var res templateResult
	visited := map[*types.Named]bool{named: true}
	current := []embedLevel{{st: st}}

	for depth := 0; len(current) > 0 && depth < 64; depth++ {
		var found []template
		var foundPointers [][]string
		var next []embedLevel
		for _, lvl := range current {
			for i := 0; i < lvl.st.NumFields(); i++ {
				f := lvl.st.Field(i)
				if !f.Embedded() {
					continue
				}
				pointers := lvl.pointers
				if _, ok := types.Unalias(f.Type()).(*types.Pointer); ok {
					pointers = append(slices.Clip(pointers), "*"+f.Name())
				}
				ft := deref(f.Type())
				if tmpl, ok := templateOf(ft); ok {
					found = append(found, tmpl)
					foundPointers = append(foundPointers, pointers)
					continue
				}
				if _, ok := knodeNamed(ft); ok {
					continue
				}
				base, ok := types.Unalias(ft).(*types.Named)
				if !ok || visited[base] {
					continue
				}
				bst, ok := base.Underlying().(*types.Struct)
				if !ok {
					continue
				}
				visited[base] = true
				res.bases = append(res.bases, base)
				next = append(next, embedLevel{st: bst, pointers: pointers})
			}
		}
		switch {
		case len(found) == 1:
			res.tmpl = found[0]
			res.found = true
			res.pointers = foundPointers[0]
			return res
		case len(found) > 1:
			for _, t := range found {
				res.ambiguous = append(res.ambiguous, t.name)
			}
			return res
		}
		current = next
	}
	return res
}

// collect fills aspects, ports, handlers, constructors and members of def.
func (c *classifier) collect(def *model.Definition) {
	levels := append([]types.Type{def.Ref.Named}, def.Bases...)
	for _, cand := range c.candidates {
		matches := false
		for _, l := range levels {
			if types.Identical(cand.level, l) {
				matches = true
				break
			}
		}
		if !matches {
			continue
		}
		mc := model.Candidate{Ref: cand.ref, Level: cand.level}
		if !cand.ref.Exported {
			def.Inaccessible = append(def.Inaccessible, mc)
			continue
		}
		def.Candidates[cand.aspect] = append(def.Candidates[cand.aspect], mc)
	}
	for _, a := range model.Aspects {
		if cands := def.Candidates[a]; len(cands) == 1 {
			def.SetAspect(a, cands[0].Ref)
		}
	}

	if nd := def.Shape.NodeData; nd != nil && nd.Name.Pkg() == c.pkg.Types {
		def.Shape.Managed = c.directive(nd.Name, loader.DirectiveManaged)
	}
	def.Shape.Arity = def.Shape.ComputeArity()

	if sp := def.Shape.SimulationPorts; sp != nil {
		c.classifyPorts(def, sp, model.SimulationPortSet)
	}
	if kp := def.Shape.KernelPorts; kp != nil {
		c.classifyPorts(def, kp, model.KernelPortSet)
	}
	if nd := def.Shape.NodeData; nd != nil {
		c.classifyHandlers(def, nd)
	}
	c.bind(def)
	if gk := def.Shape.GraphKernel; gk != nil {
		c.classifyExecute(def, gk)
	}
	c.constructors(def)
	c.members(def)
}

func (c *classifier) classifyExecute(def *model.Definition, gk *model.TypeRef) {
	obj, _, _ := types.LookupFieldOrMethod(types.NewPointer(gk.Named), false, gk.Name.Pkg(), "Execute")
	fn, ok := obj.(*types.Func)
	if !ok {
		return
	}
	def.Execute = fn.Type().(*types.Signature)
	def.ExecutePos = c.position(fn.Pos())
}

// constructors finds exported New functions returning the definition.
func (c *classifier) constructors(def *model.Definition) {
	scope := c.pkg.Types.Scope()
	for _, name := range scope.Names() {
		fn, ok := scope.Lookup(name).(*types.Func)
		if !ok || !fn.Exported() || !strings.HasPrefix(name, "New") {
			continue
		}
		sig := fn.Type().(*types.Signature)
		if sig.Results().Len() != 1 || sig.TypeParams().Len() > 0 {
			continue
		}
		res := types.Unalias(sig.Results().At(0).Type())
		pointer := false
		if p, ok := res.(*types.Pointer); ok {
			res, pointer = p.Elem(), true
		}
		if !types.Identical(res, def.Ref.Named) {
			continue
		}
		def.Constructors = append(def.Constructors, model.Constructor{
			Name:    name,
			Params:  sig.Params().Len(),
			Pointer: pointer,
			Pos:     c.position(fn.Pos()),
		})
	}
	slices.SortFunc(def.Constructors, func(a, b model.Constructor) bool {
		return a.Name < b.Name
	})
}

func isReserved(name string) bool {
	for _, p := range ReservedPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// members records reserved names on the definition and its aspects, and
// package level names taken by the generated code of def.
func (c *classifier) members(def *model.Definition) {
	owners := []*model.TypeRef{def.Ref}
	for _, a := range model.Aspects {
		if ref := def.Shape.Get(a); ref != nil && ref.Name.Pkg() == c.pkg.Types {
			owners = append(owners, ref)
		}
	}
	for _, owner := range owners {
		if owner.Named == nil {
			continue
		}
		if st, ok := owner.Named.Underlying().(*types.Struct); ok {
			for i := 0; i < st.NumFields(); i++ {
				f := st.Field(i)
				if isReserved(f.Name()) {
					def.Members = append(def.Members, model.Member{Owner: owner.Name.Name(), Name: f.Name(), Pos: c.position(f.Pos())})
				}
			}
		}
		for i := 0; i < owner.Named.NumMethods(); i++ {
			m := owner.Named.Method(i)
			if isReserved(m.Name()) {
				def.Members = append(def.Members, model.Member{Owner: owner.Name.Name(), Name: m.Name(), Pos: c.position(m.Pos())})
			}
		}
	}

	scope := c.pkg.Types.Scope()
	for _, name := range GeneratedNames(def.Name()) {
		if obj := scope.Lookup(name); obj != nil {
			def.Members = append(def.Members, model.Member{Name: name, Pos: c.position(obj.Pos())})
		}
	}
}

// GeneratedNames returns the package level identifiers generated for the
// definition called name.
func GeneratedNames(name string) []string {
	return []string{"kg_" + name + "Traits", "kg_New" + name, "kg_Exec" + name}
}
