//go:build wasip1

package wasm

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/reglet-dev/labelbind/domain/ports"
	"github.com/reglet-dev/labelbind/hostfuncs"
	"github.com/reglet-dev/labelbind/internal/abi"
)

// Compile-time interface compliance check
var _ ports.Invoker = (*InvokerAdapter)(nil)

// InvokerAdapter implements ports.Invoker by calling the host module imports.
type InvokerAdapter struct{}

// NewInvokerAdapter creates a new invoker adapter.
func NewInvokerAdapter() *InvokerAdapter {
	return &InvokerAdapter{}
}

// Invoke writes payload into linear memory, calls the host import for name
// and returns a copy of the response. Unknown names get a NOT_FOUND
// ErrorResponse without crossing into the host.
func (a *InvokerAdapter) Invoke(_ context.Context, name string, payload []byte) ([]byte, error) {
	call, ok := hostOperations[name]
	if !ok {
		return hostfuncs.NewNotFoundError(name).ToJSON(), nil
	}
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}

	requestPacked := abi.PtrFromBytes(payload)
	defer abi.DeallocatePacked(requestPacked)

	responsePacked := call(requestPacked)

	response := abi.BytesFromPtr(responsePacked)
	defer abi.DeallocatePacked(responsePacked)

	return response, nil
}

// Names returns the operations this guest was built to call.
func (a *InvokerAdapter) Names() []string {
	names := make([]string, 0, len(hostOperations))
	for name := range hostOperations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AdderAdapter calls the host's native add import.
type AdderAdapter struct{}

// NewAdderAdapter creates a new adder adapter.
func NewAdderAdapter() *AdderAdapter {
	return &AdderAdapter{}
}

// Add returns a + b as computed by the host.
func (a *AdderAdapter) Add(x, y int32) int32 {
	return host_add(x, y)
}

// LogAdapter sends encoded log records to the host.
type LogAdapter struct{}

// NewLogAdapter creates a new log adapter.
func NewLogAdapter() *LogAdapter {
	return &LogAdapter{}
}

// Send passes record, a JSON log.MessageWire, to the host.
func (a *LogAdapter) Send(record []byte) {
	packed := abi.PtrFromBytes(record)
	defer abi.DeallocatePacked(packed)
	host_log_message(packed)
}
