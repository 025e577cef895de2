package knode

import (
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/exp/slices"
)

// Registration is everything the runtime needs to instantiate a definition.
type Registration struct {
	Type       reflect.Type
	Kind       Kind
	Traits     *Traits
	Simulation SimulationStorageTraits
	Kernel     KernelStorageTraits
	VTable     *VirtualTable
	// Definition is the *TDef instance with initialized ports.
	Definition Definition
}

func (r *Registration) Name() string {
	return r.Type.String()
}

var (
	registryMu sync.RWMutex
	registry   = map[reflect.Type]*Registration{}
)

// Register records a generated definition. It is called from the init
// function of generated code and panics when a definition is registered
// twice.
func Register[TDef any, PT interface {
	*TDef
	Definition
}](newDefinition func() *TDef) *Registration {
	def := PT(newDefinition())
	vt := NewVirtualTable()
	def.KG_Install(vt)
	vt.Seal()

	reg := &Registration{
		Type:       typeOf[TDef](),
		Kind:       def.NodeKind(),
		Traits:     def.KG_BaseTraits(),
		Simulation: def.KG_SimulationStorageTraits(),
		Kernel:     def.KG_KernelStorageTraits(),
		VTable:     vt,
		Definition: def,
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[reg.Type]; exists {
		panic(fmt.Errorf("%w: %s", ErrAlreadyRegistered, reg.Type))
	}
	registry[reg.Type] = reg
	return reg
}

// Lookup returns the registration of TDef.
func Lookup[TDef any]() (*Registration, error) {
	t := typeOf[TDef]()
	if reg, ok := LookupType(t); ok {
		return reg, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotRegistered, t)
}

// LookupType returns the registration of definition type t.
func LookupType(t reflect.Type) (*Registration, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := registry[t]
	return reg, ok
}

// Get returns the registered instance of TDef, whose port fields identify the
// definition's ports. It panics when TDef was not generated.
func Get[TDef any]() *TDef {
	reg, err := Lookup[TDef]()
	if err != nil {
		panic(err)
	}
	return any(reg.Definition).(*TDef)
}

// Registrations returns all registered definitions ordered by name.
func Registrations() []*Registration {
	registryMu.RLock()
	regs := make([]*Registration, 0, len(registry))
	for _, reg := range registry {
		regs = append(regs, reg)
	}
	registryMu.RUnlock()

	slices.SortFunc(regs, func(a, b *Registration) bool {
		return a.Name() < b.Name()
	})
	return regs
}
