package host

import (
	"context"
	"fmt"

	"github.com/reglet-dev/labelbind/domain/errors"
	"github.com/reglet-dev/labelbind/internal/abi"
)

func (p *PluginInstance) callRaw(ctx context.Context, name string, input []byte) (uint64, error) {
	if len(input) == 0 {
		results, err := p.Call(ctx, name)
		if err != nil {
			return 0, err
		}
		return firstResult(results), nil
	}

	allocate := p.module.ExportedFunction("allocate")
	if allocate == nil {
		return 0, fmt.Errorf("guest does not export 'allocate'")
	}
	resAlloc, err := allocate.Call(ctx, uint64(len(input)))
	if err != nil {
		return 0, fmt.Errorf("failed to allocate in guest: %w", err)
	}
	if len(resAlloc) == 0 {
		return 0, fmt.Errorf("allocate returned no results")
	}

	ptr := uint32(resAlloc[0])    //nolint:gosec // G115: wasm32 pointers are 32-bit
	length := uint32(len(input)) //nolint:gosec // G115: bounded by guest memory
	mem := p.module.Memory()
	if mem == nil || !mem.Write(ptr, input) {
		return 0, &errors.MemoryError{Operation: "write", Ptr: ptr, Length: length}
	}

	results, err := p.Call(ctx, name, uint64(ptr), uint64(length))
	if err != nil {
		return 0, err
	}
	return firstResult(results), nil
}

func firstResult(results []uint64) uint64 {
	if len(results) == 0 {
		return 0
	}
	return results[0]
}

func (p *PluginInstance) readPacked(packed uint64) ([]byte, error) {
	ptr, length := abi.UnpackPtrLen(packed)
	if ptr == 0 || length == 0 {
		return nil, fmt.Errorf("null response from plugin")
	}
	mem := p.module.Memory()
	if mem == nil {
		return nil, &errors.MemoryError{Operation: "read", Ptr: ptr, Length: length}
	}
	data, ok := mem.Read(ptr, length)
	if !ok {
		return nil, &errors.MemoryError{Operation: "read", Ptr: ptr, Length: length}
	}
	out := make([]byte, length)
	copy(out, data)
	return out, nil
}
