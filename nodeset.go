package kgraph

import (
	"context"
	"fmt"
	"reflect"

	"github.com/go-logr/logr"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/multierr"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/birdayz/kgraph/kdag"
	"github.com/birdayz/kgraph/kjob"
	"github.com/birdayz/kgraph/kkernel"
	"github.com/birdayz/kgraph/knode"
)

// Node is a typed handle of a node instance of definition TDef.
type Node[TDef any] struct {
	ID knode.NodeID
}

// Def returns the registered definition instance, whose port fields name the
// ports of the node.
func (n Node[TDef]) Def() *TDef {
	return knode.Get[TDef]()
}

type slot struct {
	version uint32
	node    *node
}

type node struct {
	id     knode.NodeID
	reg    *knode.Registration
	data   any
	alloc  knode.DataAllocator
	kernel *knode.KernelInstance
	entry  *kkernel.Entry
	// sizes of message and DSL port arrays
	arrays map[knode.PortID]int
}

// NodeSet owns node instances, their connections and the render pass that
// executes their kernels. A NodeSet is not safe for concurrent use.
type NodeSet struct {
	id              uuid.UUID
	log             logr.Logger
	workers         int
	invoker         *kkernel.Invoker
	maxMessageDepth int

	graph      *kdag.Graph
	sched      *kjob.Scheduler
	slots      []slot
	free       []uint32
	allocators map[reflect.Type]knode.DataAllocator

	connections []*Connection
	nextConn    uint64
	dsl         map[reflect.Type]knode.DSLHandler

	tick     uint64
	depth    int
	failures error
	closed   bool
}

func New(opts ...Option) *NodeSet {
	s := &NodeSet{
		id:              uuid.Must(uuid.NewV4()),
		log:             logr.Discard(),
		maxMessageDepth: DefaultMaxMessageDepth,
		graph:           kdag.NewGraph(),
		allocators:      map[reflect.Type]knode.DataAllocator{},
		dsl:             map[reflect.Type]knode.DSLHandler{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.invoker == nil {
		s.invoker = kkernel.Default()
	}
	s.log = s.log.WithValues("nodeset", s.id.String())

	schedOpts := []kjob.Option{kjob.WithLogr(s.log.WithName("jobs"))}
	if s.workers > 0 {
		schedOpts = append(schedOpts, kjob.WithWorkers(s.workers))
	}
	s.sched = kjob.NewScheduler(schedOpts...)
	s.log.V(1).Info("Created node set", "workers", s.sched.Workers(), "maxMessageDepth", s.maxMessageDepth)
	return s
}

// ID identifies the node set in logs.
func (s *NodeSet) ID() uuid.UUID {
	return s.id
}

// Tick returns the number of completed render passes.
func (s *NodeSet) Tick() uint64 {
	return s.tick
}

// Len returns the number of live nodes.
func (s *NodeSet) Len() int {
	return len(s.graph.Nodes)
}

// Exists reports whether id refers to a live node.
func (s *NodeSet) Exists(id knode.NodeID) bool {
	_, err := s.lookup(id)
	return err == nil
}

func (s *NodeSet) lookup(id knode.NodeID) (*node, error) {
	if !id.IsValid() || int(id.Index) >= len(s.slots) {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	sl := s.slots[id.Index]
	if sl.node == nil || sl.version != id.Version {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return sl.node, nil
}

func (s *NodeSet) allocSlot() knode.NodeID {
	if n := len(s.free); n > 0 {
		index := s.free[n-1]
		s.free = s.free[:n-1]
		return knode.NodeID{Index: index, Version: s.slots[index].version}
	}
	s.slots = append(s.slots, slot{version: 1})
	return knode.NodeID{Index: uint32(len(s.slots) - 1), Version: 1}
}

func (s *NodeSet) allocator(reg *knode.Registration) knode.DataAllocator {
	if !reg.Simulation.HasData() {
		return nil
	}
	alloc, ok := s.allocators[reg.Simulation.Data]
	if !ok {
		alloc = reg.Simulation.NewAllocator()
		s.allocators[reg.Simulation.Data] = alloc
	}
	return alloc
}

// collect runs fn and returns its error combined with the failures node code
// reported meanwhile.
func (s *NodeSet) collect(fn func() error) error {
	s.failures = nil
	err := fn()
	failures := s.failures
	s.failures = nil
	return multierr.Combine(err, failures)
}

// Create instantiates a node of definition TDef and runs its Init hook. The
// node exists even when Init reported failures.
func Create[TDef any](s *NodeSet) (Node[TDef], error) {
	if s.closed {
		return Node[TDef]{}, ErrNodeSetClosed
	}
	reg, err := knode.Lookup[TDef]()
	if err != nil {
		return Node[TDef]{}, err
	}

	id := s.allocSlot()
	n := &node{
		id:     id,
		reg:    reg,
		kernel: reg.Kernel.NewInstance(),
		entry:  s.invoker.EntryFor(reg.Kernel),
		arrays: map[knode.PortID]int{},
	}
	if n.alloc = s.allocator(reg); n.alloc != nil {
		n.data = n.alloc.Alloc()
	}
	if err := s.graph.AddNode(id); err != nil {
		if n.alloc != nil {
			n.alloc.Free(n.data)
		}
		s.free = append(s.free, id.Index)
		return Node[TDef]{}, err
	}
	s.slots[id.Index].node = n
	s.log.V(1).Info("Created node", "node", id, "definition", reg.Name())

	return Node[TDef]{ID: id}, s.collect(func() error {
		if n.data != nil {
			reg.VTable.InvokeInit(n.data, knode.NewInitContext(s.host(), id))
		}
		return nil
	})
}

// Destroy runs the Destroy hook of the node, removes all of its connections
// and releases its storage. The id and every handle holding it become stale.
func (s *NodeSet) Destroy(id knode.NodeID) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	if n.data != nil {
		n.reg.VTable.InvokeDestroy(n.data, knode.NewDestroyContext(id))
	}

	var errs error
	for _, c := range slices.Clone(s.connections) {
		if c.Source == id || c.Dest == id {
			errs = multierr.Append(errs, s.disconnect(c))
		}
	}
	errs = multierr.Append(errs, s.graph.RemoveNode(id))
	if n.alloc != nil {
		n.alloc.Free(n.data)
	}

	sl := &s.slots[id.Index]
	sl.node = nil
	sl.version++
	s.free = append(s.free, id.Index)
	s.log.V(1).Info("Destroyed node", "node", id, "definition", n.reg.Name())
	return errs
}

// Update runs the Update hook of every node, then executes the kernels of the
// render pass in data-flow order and waits for them to finish.
func (s *NodeSet) Update(ctx context.Context) error {
	if s.closed {
		return ErrNodeSetClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	order, err := s.graph.TopologicalSort()
	if err != nil {
		// Validate names the offending path.
		if verr := s.graph.Validate(); verr != nil {
			return verr
		}
		return err
	}

	return s.collect(func() error {
		for _, id := range order {
			n := s.slots[id.Index].node
			if n.data != nil && n.reg.VTable.HasUpdate() {
				n.reg.VTable.InvokeUpdate(n.data, knode.NewUpdateContext(s.host(), id))
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return s.render(order)
	})
}

func (s *NodeSet) render(order []knode.NodeID) error {
	s.tick++
	handles := make(map[knode.NodeID]kjob.Handle, len(order))
	for _, id := range order {
		n := s.slots[id.Index].node
		if n.kernel == nil {
			continue
		}
		parents := s.graph.Nodes[id].Parents
		deps := make([]kjob.Handle, 0, len(parents))
		for _, parent := range parents {
			deps = append(deps, handles[parent])
		}
		rc := &knode.RenderContext{Node: id, Tick: s.tick}
		handles[id] = n.entry.Schedule(s.sched, kjob.CombineDependencies(deps...), rc, n.kernel.Pointers)
	}
	return s.sched.Wait()
}

// Close destroys every node, consumers before their producers. The node set
// cannot be used afterwards.
func (s *NodeSet) Close() error {
	if s.closed {
		return nil
	}
	order, err := s.graph.ReverseTopologicalSort()
	if err != nil {
		return err
	}
	var errs error
	for _, id := range order {
		errs = multierr.Append(errs, s.Destroy(id))
	}
	s.closed = true

	types := maps.Keys(s.allocators)
	slices.SortFunc(types, func(a, b reflect.Type) bool {
		return a.String() < b.String()
	})
	for _, t := range types {
		if live := s.allocators[t].Live(); live != 0 {
			s.log.Info("Node data still allocated after close", "type", t.String(), "live", live)
		}
	}
	return errs
}

// NodeData returns the node data of a node.
func NodeData[TData any](s *NodeSet, id knode.NodeID) (*TData, error) {
	n, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	data, ok := n.data.(*TData)
	if !ok {
		return nil, fmt.Errorf("%w: %s holds %T, not *%s", ErrNoNodeData, id, n.data, reflect.TypeOf((*TData)(nil)).Elem())
	}
	return data, nil
}

// KernelData returns the kernel data of a node. Writes through the pointer
// are observed by the next render pass.
func KernelData[TKernelData any](s *NodeSet, id knode.NodeID) (*TKernelData, error) {
	n, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if n.kernel == nil {
		return nil, fmt.Errorf("%w: %s", knode.ErrKernelDataUnavailable, id)
	}
	data, ok := n.kernel.Data().(*TKernelData)
	if !ok {
		return nil, fmt.Errorf("%w: %s holds %T", knode.ErrKernelDataUnavailable, id, n.kernel.Data())
	}
	return data, nil
}

// SetKernelData replaces the kernel data of a node.
func SetKernelData[TKernelData any](s *NodeSet, id knode.NodeID, data TKernelData) error {
	dst, err := KernelData[TKernelData](s, id)
	if err != nil {
		return err
	}
	*dst = data
	return nil
}
