package kkernel

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/birdayz/kgraph/kjob"
	"github.com/birdayz/kgraph/knode"
)

var ErrPureKernel = errors.New("pure kernel cannot be executed")

// Backend is the execution strategy of an entry.
type Backend int

const (
	BackendPure Backend = iota
	BackendCompiled
	BackendManaged
)

func (b Backend) String() string {
	switch b {
	case BackendCompiled:
		return "Compiled"
	case BackendManaged:
		return "Managed"
	default:
		return "Pure"
	}
}

// ReflectionData is the type-erased executor of an entry.
type ReflectionData struct {
	Name string
	exec knode.KernelFunc
}

// Execute runs the executor directly. The pure executor panics.
func (r *ReflectionData) Execute(ctx *knode.RenderContext, p knode.KernelPointers) {
	r.exec(ctx, p)
}

// Entry is the resolved execution strategy of one kernel type.
type Entry struct {
	Kernel     reflect.Type
	Backend    Backend
	Func       knode.KernelFunc
	Reflection *ReflectionData
	// CompileErr is the reason a managed entry did not get compiled.
	CompileErr error
}

var pureEntry = &Entry{
	Backend: BackendPure,
	Reflection: &ReflectionData{
		Name: "pure",
		exec: func(*knode.RenderContext, knode.KernelPointers) {
			panic(ErrPureKernel)
		},
	},
}

// IsPure reports whether the entry executes nothing.
func (e *Entry) IsPure() bool {
	return e.Backend == BackendPure
}

// Invoke runs the kernel synchronously. It does nothing for pure entries.
func (e *Entry) Invoke(ctx *knode.RenderContext, p knode.KernelPointers) {
	if e.IsPure() {
		return
	}
	e.Func(ctx, p)
}

// Schedule runs the kernel on s after dep completed and returns the job's
// handle. Pure entries return dep unchanged.
func (e *Entry) Schedule(s *kjob.Scheduler, dep kjob.Handle, ctx *knode.RenderContext, p knode.KernelPointers) kjob.Handle {
	if e.IsPure() {
		return dep
	}
	c := *ctx
	return s.Schedule(dep, fmt.Sprintf("%s %s", e.Reflection.Name, c.Node), func() error {
		e.Func(&c, p)
		return nil
	})
}
