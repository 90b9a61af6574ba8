// Package host runs WebAssembly guests against the labelbind host module.
//
// It owns a wazero runtime with WASI and the host module registered, loads
// guest modules, and moves data across the packed ptr/len boundary so callers
// deal in byte slices.
package host
