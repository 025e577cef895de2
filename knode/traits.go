package knode

import (
	"reflect"
	"unsafe"
)

// Traits is the set of aspect types of a definition.
type Traits struct {
	arity           TraitsArity
	nodeData        reflect.Type
	simulationPorts reflect.Type
	kernelData      reflect.Type
	kernelPorts     reflect.Type
	graphKernel     reflect.Type
	kernel          KernelStorageTraits
}

func (t *Traits) Arity() TraitsArity                 { return t.arity }
func (t *Traits) NodeData() reflect.Type             { return t.nodeData }
func (t *Traits) SimulationPorts() reflect.Type      { return t.simulationPorts }
func (t *Traits) KernelData() reflect.Type           { return t.kernelData }
func (t *Traits) KernelPorts() reflect.Type          { return t.kernelPorts }
func (t *Traits) GraphKernel() reflect.Type          { return t.graphKernel }
func (t *Traits) KernelStorage() KernelStorageTraits { return t.kernel }

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// NewTraits1 describes a definition with simulation ports only.
func NewTraits1[TSimPorts any]() *Traits {
	return &Traits{
		arity:           Arity1,
		simulationPorts: typeOf[TSimPorts](),
		kernel:          NoKernelStorage(),
	}
}

// NewTraits2 describes a definition with node data and simulation ports.
func NewTraits2[TNodeData, TSimPorts any]() *Traits {
	return &Traits{
		arity:           Arity2,
		nodeData:        typeOf[TNodeData](),
		simulationPorts: typeOf[TSimPorts](),
		kernel:          NoKernelStorage(),
	}
}

// NewTraits3 describes a definition with a kernel and no node data.
func NewTraits3[
	TKernelData, TKernelPorts, TKernel any,
	PKP interface {
		*TKernelPorts
		KernelPortDefinition
	},
	PK interface {
		*TKernel
		GraphKernel[TKernelData, TKernelPorts]
	},
]() *Traits {
	return &Traits{
		arity:       Arity3,
		kernelData:  typeOf[TKernelData](),
		kernelPorts: typeOf[TKernelPorts](),
		graphKernel: typeOf[TKernel](),
		kernel:      NewKernelStorage[TKernelData, TKernelPorts, TKernel, PKP, PK](),
	}
}

// NewTraits4 describes a definition with node data and a kernel.
func NewTraits4[
	TNodeData, TKernelData, TKernelPorts, TKernel any,
	PKP interface {
		*TKernelPorts
		KernelPortDefinition
	},
	PK interface {
		*TKernel
		GraphKernel[TKernelData, TKernelPorts]
	},
]() *Traits {
	return &Traits{
		arity:       Arity4,
		nodeData:    typeOf[TNodeData](),
		kernelData:  typeOf[TKernelData](),
		kernelPorts: typeOf[TKernelPorts](),
		graphKernel: typeOf[TKernel](),
		kernel:      NewKernelStorage[TKernelData, TKernelPorts, TKernel, PKP, PK](),
	}
}

// NewTraits5 describes a definition with node data only.
func NewTraits5[TNodeData any]() *Traits {
	return &Traits{
		arity:    Arity5,
		nodeData: typeOf[TNodeData](),
		kernel:   NoKernelStorage(),
	}
}

// KernelStorageTraits describes how kernel state of a definition is allocated
// and executed. The zero value describes a pure definition without a kernel.
type KernelStorageTraits struct {
	Kernel      reflect.Type
	KernelData  reflect.Type
	KernelPorts reflect.Type

	newInstance func() *KernelInstance
	managed     KernelFunc
}

func NoKernelStorage() KernelStorageTraits {
	return KernelStorageTraits{}
}

// NewKernelStorage builds kernel storage traits for the given kernel triple.
func NewKernelStorage[
	TKernelData, TKernelPorts, TKernel any,
	PKP interface {
		*TKernelPorts
		KernelPortDefinition
	},
	PK interface {
		*TKernel
		GraphKernel[TKernelData, TKernelPorts]
	},
]() KernelStorageTraits {
	return KernelStorageTraits{
		Kernel:      typeOf[TKernel](),
		KernelData:  typeOf[TKernelData](),
		KernelPorts: typeOf[TKernelPorts](),
		newInstance: func() *KernelInstance {
			data := new(TKernelData)
			ports := PKP(new(TKernelPorts))
			ports.KG_InitPorts()
			binder := NewPortBinder()
			ports.KG_BindPorts(binder)
			kernel := new(TKernel)
			return &KernelInstance{
				Pointers: KernelPointers{
					Data:   unsafe.Pointer(data),
					Ports:  unsafe.Pointer(ports),
					Kernel: unsafe.Pointer(kernel),
				},
				Ports: binder,
				data:  data,
			}
		},
		managed: func(ctx *RenderContext, p KernelPointers) {
			PK((*TKernel)(p.Kernel)).Execute(ctx, (*TKernelData)(p.Data), (*TKernelPorts)(p.Ports))
		},
	}
}

// HasKernel reports whether the definition executes a graph kernel.
func (k KernelStorageTraits) HasKernel() bool {
	return k.newInstance != nil
}

// NewInstance allocates the kernel state of one node. It returns nil for pure
// definitions.
func (k KernelStorageTraits) NewInstance() *KernelInstance {
	if k.newInstance == nil {
		return nil
	}
	return k.newInstance()
}

// Managed returns the entry point executing the kernel through its Go
// interface. It returns nil for pure definitions.
func (k KernelStorageTraits) Managed() KernelFunc {
	return k.managed
}

// KernelInstance is the kernel state of one node.
type KernelInstance struct {
	Pointers KernelPointers
	Ports    *PortBinder

	data any
}

// Data returns the *KernelData of the instance.
func (k *KernelInstance) Data() any {
	return k.data
}

// SimulationStorage selects how node data is allocated.
type SimulationStorage int

const (
	StorageNone SimulationStorage = iota
	StorageValue
	StorageManaged
)

func (s SimulationStorage) String() string {
	switch s {
	case StorageValue:
		return "value"
	case StorageManaged:
		return "managed"
	default:
		return "none"
	}
}

// SimulationStorageTraits describes the node data storage of a definition.
type SimulationStorageTraits struct {
	Storage SimulationStorage
	Data    reflect.Type

	newAllocator func() DataAllocator
}

func NoSimulationStorage() SimulationStorageTraits {
	return SimulationStorageTraits{}
}

// ValueSimulationStorage stores node data of type TNodeData in slabs.
func ValueSimulationStorage[TNodeData any]() SimulationStorageTraits {
	return SimulationStorageTraits{
		Storage: StorageValue,
		Data:    typeOf[TNodeData](),
		newAllocator: func() DataAllocator {
			return &slabAllocator[TNodeData]{}
		},
	}
}

// ManagedSimulationStorage allocates each node data of type TNodeData on the
// heap.
func ManagedSimulationStorage[TNodeData any]() SimulationStorageTraits {
	return SimulationStorageTraits{
		Storage: StorageManaged,
		Data:    typeOf[TNodeData](),
		newAllocator: func() DataAllocator {
			return &managedAllocator[TNodeData]{}
		},
	}
}

func (s SimulationStorageTraits) HasData() bool {
	return s.Storage != StorageNone
}

// NewAllocator returns a fresh allocator, or nil when there is no node data.
func (s SimulationStorageTraits) NewAllocator() DataAllocator {
	if s.newAllocator == nil {
		return nil
	}
	return s.newAllocator()
}
