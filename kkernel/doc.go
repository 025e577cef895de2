// Package kkernel resolves how the graph kernel of a node definition is
// executed during the render pass.
//
// Each kernel type has one Entry, created on first use and cached for the
// lifetime of the process. An entry uses one of three backends:
//
//   - Compiled: a direct entry point produced by kgraphgen and registered
//     with RegisterCompiled from generated code
//   - Managed: a closure calling Execute through the GraphKernel interface
//   - Pure: the definition has no kernel and nothing is executed
//
// All backends share the signature knode.KernelFunc. When the Compiler fails
// for a kernel type the entry falls back to the managed backend for good.
package kkernel
