package classify

import (
	"go/types"

	"github.com/birdayz/kgraph/internal/model"
	"github.com/birdayz/kgraph/knode"
)

// classifyPorts walks the fields of a port struct in declaration order and
// assigns per-class ordinals to the accepted ports. Scalar ports and port
// arrays of the same class share one counter.
func (c *classifier) classifyPorts(def *model.Definition, ref *model.TypeRef, set model.PortSet) {
	st, ok := ref.Named.Underlying().(*types.Struct)
	if !ok {
		def.PortIssues = append(def.PortIssues, model.PortIssue{
			Kind: model.NotAPort,
			Type: ref.Named,
			Set:  set,
			Pos:  ref.Pos,
		})
		return
	}

	counters := map[knode.PortClass]uint16{}
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		ft := types.Unalias(f.Type())
		issue := model.PortIssue{Field: f.Name(), Type: ft, Set: set, Pos: c.position(f.Pos())}

		if f.Embedded() {
			if _, _, ok := markerOf(ft); ok {
				continue
			}
			issue.Kind = model.NotAPort
			if _, ok := portOf(deref(ft)); ok {
				issue.Kind = model.SharedPort
			}
			def.PortIssues = append(def.PortIssues, issue)
			continue
		}

		if p, ok := ft.(*types.Pointer); ok {
			issue.Kind = model.NotAPort
			if _, ok := portOf(p.Elem()); ok {
				issue.Kind = model.SharedPort
			}
			def.PortIssues = append(def.PortIssues, issue)
			continue
		}

		pt, ok := portOf(ft)
		if !ok {
			issue.Kind = model.NotAPort
			def.PortIssues = append(def.PortIssues, issue)
			continue
		}

		desc := model.PortDescriptor{
			Name:    f.Name(),
			Class:   pt.class,
			IsArray: pt.array,
			Ordinal: counters[pt.class],
			Set:     set,
			Owner:   pt.owner,
			Payload: pt.payload,
			Pos:     issue.Pos,
		}
		counters[pt.class]++

		if set == model.SimulationPortSet {
			def.SimulationPorts = append(def.SimulationPorts, desc)
		} else {
			def.KernelPorts = append(def.KernelPorts, desc)
		}
	}
}
