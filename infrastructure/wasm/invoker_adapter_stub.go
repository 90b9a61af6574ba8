//go:build !wasip1

package wasm

import (
	"context"

	"github.com/reglet-dev/labelbind/domain/ports"
)

// Compile-time interface compliance check
var _ ports.Invoker = (*InvokerAdapter)(nil)

// InvokerAdapter implements ports.Invoker for the native environment (stub).
// This allows compiling guest packages on non-WASM targets (e.g. for running tests).
type InvokerAdapter struct{}

// NewInvokerAdapter creates a new invoker adapter stub.
func NewInvokerAdapter() *InvokerAdapter {
	return &InvokerAdapter{}
}

// Invoke panics because real WASM calls are not supported natively.
func (a *InvokerAdapter) Invoke(ctx context.Context, name string, payload []byte) ([]byte, error) {
	panic("WASM invoker adapter not available in native build. Use guest.WithInvoker() to inject a fake.")
}

// Names returns the operations a guest build would call.
func (a *InvokerAdapter) Names() []string {
	return append([]string(nil), Operations...)
}

// AdderAdapter is the native stub of the host add import.
type AdderAdapter struct{}

// NewAdderAdapter creates a new adder adapter stub.
func NewAdderAdapter() *AdderAdapter {
	return &AdderAdapter{}
}

// Add panics because real WASM calls are not supported natively.
func (a *AdderAdapter) Add(x, y int32) int32 {
	panic("WASM adder adapter not available in native build. Use guest.WithAdder() to inject a fake.")
}

// LogAdapter is the native stub of the host log_message import.
type LogAdapter struct{}

// NewLogAdapter creates a new log adapter stub.
func NewLogAdapter() *LogAdapter {
	return &LogAdapter{}
}

// Send panics because real WASM calls are not supported natively.
func (a *LogAdapter) Send(record []byte) {
	panic("WASM log adapter not available in native build. Use guest.WithLogSink() to inject a fake.")
}
