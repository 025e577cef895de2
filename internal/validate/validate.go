// Package validate implements the consistency validator. It is a pure
// function of the classifier findings and never touches source.
package validate

import (
	"go/types"
	"strings"

	"github.com/birdayz/kgraph/internal/diag"
	"github.com/birdayz/kgraph/internal/loader"
	"github.com/birdayz/kgraph/internal/model"
	"github.com/birdayz/kgraph/knode"
)

// All validates every definition and returns the diagnostics sorted by
// position.
func All(defs []*model.Definition) diag.List {
	var out diag.List
	for _, def := range defs {
		out = append(out, Definition(def)...)
	}
	out.Sort()
	return out
}

type checker struct {
	def *model.Definition
	out diag.List
}

func (c *checker) report(d diag.Diagnostic) {
	c.out = append(c.out, d.With(c.def.Name()))
}

// Definition runs every rule against def. Findings accumulate; no rule stops
// the others unless its input is missing.
func Definition(def *model.Definition) diag.List {
	c := &checker{def: def}
	if def.Generic {
		c.report(diag.New(diag.GenericDeferred, def.Ref.Pos,
			"generic definition %s is skipped until it is instantiated", def.Name()))
		return c.out
	}

	c.shape()
	c.aspects()
	if def.Shape.Kind != knode.KindUnknown {
		c.kernelTriple()
		c.allowedAspects()
		c.shapeArguments()
		c.emptyNaked()
	}
	c.execute()
	c.ports()
	c.handlers()
	c.constructors()
	c.reserved()
	return c.out
}

func (c *checker) shape() {
	def := c.def
	switch {
	case len(def.AmbiguousShape) > 0:
		c.report(diag.New(diag.AmbiguousShape, def.Ref.Pos,
			"%s embeds more than one node template at the same depth", def.Name()).
			With(def.AmbiguousShape...))
	case def.Shape.Kind == knode.KindUnknown:
		c.report(diag.New(diag.UnknownShape, def.Ref.Pos,
			"%s owns node aspects but embeds no node template", def.Name()))
	}
	if len(def.PointerEmbeds) > 0 {
		c.report(diag.New(diag.PointerEmbedding, def.Ref.Pos,
			"%s reaches its node template through an embedded pointer, embed it by value", def.Name()).
			With(def.PointerEmbeds...))
	}
}

func (c *checker) aspects() {
	for _, a := range model.Aspects {
		cands := c.def.Candidates[a]
		if len(cands) < 2 {
			continue
		}
		names := make([]string, 0, len(cands))
		for _, cand := range cands {
			names = append(names, cand.Ref.String())
		}
		c.report(diag.New(diag.DuplicateAspect, cands[1].Ref.Pos,
			"%s has %d %s implementations", c.def.Name(), len(cands), a).With(names...))
	}
	for _, cand := range c.def.Inaccessible {
		c.report(diag.New(diag.InaccessibleAspect, cand.Ref.Pos,
			"%s is not exported and is ignored", cand.Ref))
	}
}

// present reports whether some candidate implements a, duplicates included.
func (c *checker) present(a model.Aspect) bool {
	return len(c.def.Candidates[a]) > 0
}

func (c *checker) kernelTriple() {
	kind := c.def.Shape.Kind
	if kind != knode.KindKernel && kind != knode.KindSimulationKernel {
		return
	}
	var missing []string
	for _, a := range []model.Aspect{model.KernelData, model.KernelPorts, model.GraphKernel} {
		if !c.present(a) {
			missing = append(missing, a.String())
		}
	}
	if len(missing) > 0 {
		c.report(diag.New(diag.KernelTripleIncomplete, c.def.Ref.Pos,
			"%s node %s is missing %s", kind, c.def.Name(), strings.Join(missing, ", ")))
	}
}

func (c *checker) allowedAspects() {
	var forbidden []model.Aspect
	switch c.def.Shape.Kind {
	case knode.KindSimulation:
		forbidden = []model.Aspect{model.KernelData, model.KernelPorts, model.GraphKernel}
	case knode.KindKernel:
		forbidden = []model.Aspect{model.SimulationPorts}
	case knode.KindNaked:
		forbidden = []model.Aspect{model.SimulationPorts, model.KernelData, model.KernelPorts, model.GraphKernel}
	}
	for _, a := range forbidden {
		for _, cand := range c.def.Candidates[a] {
			c.report(diag.New(diag.KernelAspectNotAllowed, cand.Ref.Pos,
				"%s is a %s but %s is a %s node", cand.Ref, a, c.def.Name(), c.def.Shape.Kind))
		}
	}
}

// shapeArguments checks the template arguments against the declared port
// aspects, simulation and kernel side independently.
func (c *checker) shapeArguments() {
	kind := c.def.Shape.Kind
	if kind.HasSimulationPorts() && len(c.def.Candidates[model.SimulationPorts]) < 2 {
		c.shapeArgument(c.def.Shape.SimulationArg, c.def.Shape.SimulationPorts, model.SimulationPorts)
	}
	if kind.HasKernel() && len(c.def.Candidates[model.KernelPorts]) == 1 {
		c.shapeArgument(c.def.Shape.KernelArg, c.def.Shape.KernelPorts, model.KernelPorts)
	}
}

func (c *checker) shapeArgument(arg types.Type, ref *model.TypeRef, a model.Aspect) {
	if arg == nil {
		return
	}
	if ref == nil {
		c.report(diag.New(diag.ShapeArgumentMismatch, c.def.Ref.Pos,
			"%s declares %s as %s, which does not embed knode.%s[%s]",
			c.def.Name(), typeString(arg), a, a.Marker(), c.def.Name()))
		return
	}
	if !types.Identical(arg, ref.Named) {
		c.report(diag.New(diag.ShapeArgumentMismatch, c.def.Ref.Pos,
			"%s declares %s as %s but %s implements it", c.def.Name(), typeString(arg), a, ref))
	}
}

func (c *checker) emptyNaked() {
	if c.def.Shape.Kind == knode.KindNaked && !c.present(model.NodeData) {
		c.report(diag.New(diag.EmptyNakedDefinition, c.def.Ref.Pos,
			"naked definition %s has no node data", c.def.Name()))
	}
}

func (c *checker) execute() {
	shape := c.def.Shape
	if shape.GraphKernel == nil || shape.KernelData == nil || shape.KernelPorts == nil {
		return
	}
	want := "Execute(*knode.RenderContext, *" + shape.KernelData.String() + ", *" + shape.KernelPorts.String() + ")"
	sig := c.def.Execute
	if sig == nil {
		c.report(diag.New(diag.ExecuteSignature, shape.GraphKernel.Pos,
			"%s has no Execute method, want %s", shape.GraphKernel, want))
		return
	}
	params := sig.Params()
	ok := params.Len() == 3 && sig.Results().Len() == 0 && !sig.Variadic() &&
		isKnodePointer(params.At(0).Type(), "RenderContext") &&
		isPointerTo(params.At(1).Type(), shape.KernelData.Named) &&
		isPointerTo(params.At(2).Type(), shape.KernelPorts.Named)
	if !ok {
		c.report(diag.New(diag.ExecuteSignature, c.def.ExecutePos,
			"%s.Execute has signature %s, want %s", shape.GraphKernel, typeString(sig), want))
	}
}

func (c *checker) ports() {
	for _, issue := range c.def.PortIssues {
		rule := diag.InvalidPortField
		msg := "field %s of %s has type %s, which is not a port"
		if issue.Kind == model.SharedPort {
			rule = diag.SharedPortField
			msg = "field %s of %s has type %s; ports must be plain fields"
		}
		c.report(diag.New(rule, issue.Pos, msg, issue.Field, issue.Set, typeString(issue.Type)))
	}
	for _, p := range c.def.Ports() {
		if !c.def.IsLevel(p.Owner) {
			c.report(diag.New(diag.PortOwnerMismatch, p.Pos,
				"port %s belongs to %s, not %s", p.Name, typeString(p.Owner), c.def.Name()))
		}
		if p.Class.IsSimulation() != (p.Set == model.SimulationPortSet) {
			c.report(diag.New(diag.PortClassNotAllowed, p.Pos,
				"%s port %s cannot be declared in %s", p.Class, p.Name, p.Set))
		}
	}
}

func (c *checker) handlers() {
	for _, m := range c.def.Malformed {
		c.report(diag.New(diag.MalformedMethod, m.Pos,
			"%s is ignored, want %s", m.Method, m.Want))
	}

	type variants struct {
		plain   []model.Handler
		generic []model.Handler
	}
	var payloads []types.Type
	byPayload := map[int]*variants{}
	index := func(t types.Type) int {
		for i, p := range payloads {
			if types.Identical(p, t) {
				return i
			}
		}
		payloads = append(payloads, t)
		byPayload[len(payloads)-1] = &variants{}
		return len(payloads) - 1
	}
	for _, h := range c.def.Handlers {
		v := byPayload[index(h.Payload)]
		if h.Generic {
			v.generic = append(v.generic, h)
		} else {
			v.plain = append(v.plain, h)
		}
	}
	for i, t := range payloads {
		v := byPayload[i]
		switch {
		case len(v.plain) > 1:
			c.report(diag.New(diag.DuplicateHandler, v.plain[1].Pos,
				"%s and %s both handle %s", v.plain[0].Method, v.plain[1].Method, typeString(t)))
		case len(v.plain) == 1 && len(v.generic) == 1:
			c.report(diag.New(diag.AmbiguousHandler, v.plain[0].Pos,
				"%s and %s both handle %s", v.plain[0].Method, v.generic[0].Method, typeString(t)))
		}
	}

	for _, p := range c.def.MessageInputs() {
		found := false
		for _, h := range c.def.Handlers {
			if types.Identical(h.Payload, p.Payload) {
				found = true
				break
			}
		}
		if !found {
			c.report(diag.New(diag.MissingHandler, p.Pos,
				"message input %s has no handler for %s", p.Name, typeString(p.Payload)))
		}
	}
}

func (c *checker) constructors() {
	ctors := c.def.Constructors
	for i, ctor := range ctors {
		switch {
		case ctor.Params > 0:
			c.report(diag.New(diag.BadConstructor, ctor.Pos,
				"constructor %s of %s must not take parameters", ctor.Name, c.def.Name()))
		case i > 0:
			c.report(diag.New(diag.BadConstructor, ctor.Pos,
				"%s has more than one constructor", c.def.Name()).With(ctors[0].Name, ctor.Name))
		}
	}
}

func (c *checker) reserved() {
	for _, m := range c.def.Members {
		name := m.Name
		if m.Owner != "" {
			name = m.Owner + "." + m.Name
		}
		c.report(diag.New(diag.ReservedName, m.Pos,
			"%s collides with a generated name", name))
	}
}

func typeString(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string { return p.Name() })
}

func isKnodePointer(t types.Type, name string) bool {
	p, ok := types.Unalias(t).(*types.Pointer)
	if !ok {
		return false
	}
	n, ok := types.Unalias(p.Elem()).(*types.Named)
	if !ok || n.Obj().Pkg() == nil {
		return false
	}
	return n.Obj().Pkg().Path() == loader.KnodePath && n.Obj().Name() == name
}

func isPointerTo(t types.Type, elem types.Type) bool {
	p, ok := types.Unalias(t).(*types.Pointer)
	return ok && types.Identical(p.Elem(), elem)
}
