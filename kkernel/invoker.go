package kkernel

import (
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/exp/maps"

	"github.com/birdayz/kgraph/knode"
)

// EnvDisableCompiled disables compiled entry points for the default invoker
// when set to 1.
const EnvDisableCompiled = "KGRAPH_DISABLE_COMPILED"

// Invoker creates and caches the entries of kernel types.
type Invoker struct {
	compiler Compiler
	log      logr.Logger

	mu      sync.Mutex
	entries map[reflect.Type]*Entry
}

type Option func(*Invoker)

var WithCompiler = func(c Compiler) Option {
	return func(inv *Invoker) {
		inv.compiler = c
	}
}

var WithoutCompilation = func() Option {
	return func(inv *Invoker) {
		inv.compiler = DisabledCompiler{}
	}
}

var WithLogr = func(log logr.Logger) Option {
	return func(inv *Invoker) {
		inv.log = log
	}
}

func NewInvoker(opts ...Option) *Invoker {
	inv := &Invoker{
		compiler: RegistryCompiler{},
		log:      logr.Discard(),
		entries:  map[reflect.Type]*Entry{},
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

var (
	defaultOnce    sync.Once
	defaultInvoker *Invoker
)

// Default returns the process-wide invoker.
func Default() *Invoker {
	defaultOnce.Do(func() {
		var opts []Option
		if os.Getenv(EnvDisableCompiled) == "1" {
			opts = append(opts, WithoutCompilation())
		}
		defaultInvoker = NewInvoker(opts...)
	})
	return defaultInvoker
}

// GetEntryPoint returns the entry of the kernel triple from the default
// invoker.
func GetEntryPoint[TKernelData, TKernelPorts, TKernel any, PKP interface {
	*TKernelPorts
	knode.KernelPortDefinition
}, PK interface {
	*TKernel
	knode.GraphKernel[TKernelData, TKernelPorts]
}]() *Entry {
	return Default().EntryFor(knode.NewKernelStorage[TKernelData, TKernelPorts, TKernel, PKP, PK]())
}

// EntryFor returns the entry of the kernel described by storage, creating it
// on first use. Definitions without a kernel share the pure entry.
func (inv *Invoker) EntryFor(storage knode.KernelStorageTraits) *Entry {
	if !storage.HasKernel() {
		return pureEntry
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	if e, ok := inv.entries[storage.Kernel]; ok {
		return e
	}
	e := inv.build(storage)
	inv.entries[storage.Kernel] = e
	return e
}

func (inv *Invoker) build(storage knode.KernelStorageTraits) *Entry {
	name := storage.Kernel.String()

	fn, err := inv.compile(storage.Kernel)
	if err == nil {
		inv.log.V(1).Info("Using compiled kernel", "kernel", name)
		return &Entry{
			Kernel:     storage.Kernel,
			Backend:    BackendCompiled,
			Func:       fn,
			Reflection: &ReflectionData{Name: name, exec: fn},
		}
	}

	inv.log.Info("Kernel compilation failed, falling back to managed execution", "kernel", name, "error", err.Error())
	managed := storage.Managed()
	return &Entry{
		Kernel:     storage.Kernel,
		Backend:    BackendManaged,
		Func:       managed,
		Reflection: &ReflectionData{Name: name, exec: managed},
		CompileErr: err,
	}
}

func (inv *Invoker) compile(kernel reflect.Type) (fn knode.KernelFunc, err error) {
	defer func() {
		if r := recover(); r != nil {
			fn, err = nil, fmt.Errorf("compiler panicked: %v", r)
		}
	}()
	fn, err = inv.compiler.Compile(kernel)
	if err == nil && fn == nil {
		err = fmt.Errorf("%w: %s", ErrNotCompiled, kernel)
	}
	return fn, err
}

// Entries returns a snapshot of the cached entries.
func (inv *Invoker) Entries() []*Entry {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return maps.Values(inv.entries)
}
