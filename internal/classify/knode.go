package classify

import (
	"go/types"

	"github.com/birdayz/kgraph/internal/loader"
	"github.com/birdayz/kgraph/internal/model"
	"github.com/birdayz/kgraph/knode"
)

// knodeNamed returns t as a named type declared in package knode.
func knodeNamed(t types.Type) (*types.Named, bool) {
	n, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return nil, false
	}
	obj := n.Obj()
	if obj.Pkg() == nil || obj.Pkg().Path() != loader.KnodePath {
		return nil, false
	}
	return n, true
}

// isKnode reports whether t is the knode type called name.
func isKnode(t types.Type, name string) bool {
	n, ok := knodeNamed(t)
	return ok && n.Obj().Name() == name
}

// isKnodePointer reports whether t is a pointer to the knode type called name.
func isKnodePointer(t types.Type, name string) bool {
	p, ok := types.Unalias(t).(*types.Pointer)
	return ok && isKnode(p.Elem(), name)
}

var markerAspects = map[string]model.Aspect{
	"IsNodeData":        model.NodeData,
	"IsSimulationPorts": model.SimulationPorts,
	"IsKernelData":      model.KernelData,
	"IsKernelPorts":     model.KernelPorts,
	"IsGraphKernel":     model.GraphKernel,
}

// markerOf returns the aspect and definition argument of a marker type.
func markerOf(t types.Type) (model.Aspect, types.Type, bool) {
	n, ok := knodeNamed(t)
	if !ok {
		return 0, nil, false
	}
	aspect, ok := markerAspects[n.Obj().Name()]
	if !ok || n.TypeArgs().Len() != 1 {
		return 0, nil, false
	}
	return aspect, n.TypeArgs().At(0), true
}

type template struct {
	kind knode.Kind
	args []types.Type
	name string
}

var templateKinds = map[string]knode.Kind{
	"NodeDefinition":       knode.KindNaked,
	"SimulationNode":       knode.KindSimulation,
	"KernelNode":           knode.KindKernel,
	"SimulationKernelNode": knode.KindSimulationKernel,
}

// templateOf recognizes the shape templates.
func templateOf(t types.Type) (template, bool) {
	n, ok := knodeNamed(t)
	if !ok {
		return template{}, false
	}
	kind, ok := templateKinds[n.Obj().Name()]
	if !ok {
		return template{}, false
	}
	tmpl := template{kind: kind, name: types.TypeString(n, nil)}
	for i := 0; i < n.TypeArgs().Len(); i++ {
		tmpl.args = append(tmpl.args, n.TypeArgs().At(i))
	}
	return tmpl, true
}

var portClasses = map[string]knode.PortClass{
	"MessageInput":  knode.MessageInputClass,
	"MessageOutput": knode.MessageOutputClass,
	"DataInput":     knode.DataInputClass,
	"DataOutput":    knode.DataOutputClass,
	"DSLInput":      knode.DSLInputClass,
	"DSLOutput":     knode.DSLOutputClass,
}

type portType struct {
	class   knode.PortClass
	array   bool
	owner   types.Type
	payload types.Type
}

// portOf recognizes the six port templates and PortArray of one of them.
func portOf(t types.Type) (portType, bool) {
	n, ok := knodeNamed(t)
	if !ok {
		return portType{}, false
	}
	if n.Obj().Name() == "PortArray" {
		if n.TypeArgs().Len() != 1 {
			return portType{}, false
		}
		elem, ok := scalarPortOf(n.TypeArgs().At(0))
		if !ok {
			return portType{}, false
		}
		elem.array = true
		return elem, true
	}
	return scalarPortOf(n)
}

func scalarPortOf(t types.Type) (portType, bool) {
	n, ok := knodeNamed(t)
	if !ok {
		return portType{}, false
	}
	class, ok := portClasses[n.Obj().Name()]
	if !ok || n.TypeArgs().Len() != 2 {
		return portType{}, false
	}
	return portType{
		class:   class,
		owner:   n.TypeArgs().At(0),
		payload: n.TypeArgs().At(1),
	}, true
}

func deref(t types.Type) types.Type {
	if p, ok := types.Unalias(t).(*types.Pointer); ok {
		return p.Elem()
	}
	return t
}
