package kkernel

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/birdayz/kgraph/knode"
)

//go:generate mockgen -source=compiler.go -destination=mock_compiler_test.go -package=kkernel

var (
	ErrNotCompiled         = errors.New("kernel has no compiled entry point")
	ErrCompilationDisabled = errors.New("kernel compilation disabled")
)

// Compiler produces the compiled entry point of a kernel type.
type Compiler interface {
	Compile(kernel reflect.Type) (knode.KernelFunc, error)
}

var (
	compiledMu sync.RWMutex
	compiled   = map[reflect.Type]knode.KernelFunc{}
)

// RegisterCompiled records the generated entry point of kernel type TKernel.
func RegisterCompiled[TKernelData, TKernelPorts, TKernel any, PK interface {
	*TKernel
	knode.GraphKernel[TKernelData, TKernelPorts]
}](fn knode.KernelFunc) {
	t := reflect.TypeOf((*TKernel)(nil)).Elem()

	compiledMu.Lock()
	defer compiledMu.Unlock()
	if _, exists := compiled[t]; exists {
		panic(fmt.Sprintf("kkernel: compiled entry point for %s registered twice", t))
	}
	compiled[t] = fn
}

// RegistryCompiler compiles kernels by looking up entry points registered
// with RegisterCompiled.
type RegistryCompiler struct{}

func (RegistryCompiler) Compile(kernel reflect.Type) (knode.KernelFunc, error) {
	compiledMu.RLock()
	defer compiledMu.RUnlock()
	fn, ok := compiled[kernel]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotCompiled, kernel)
	}
	return fn, nil
}

// DisabledCompiler fails every compilation, forcing the managed backend.
type DisabledCompiler struct{}

func (DisabledCompiler) Compile(kernel reflect.Type) (knode.KernelFunc, error) {
	return nil, fmt.Errorf("%w: %s", ErrCompilationDisabled, kernel)
}
