package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/reglet-dev/labelbind/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	baseErr := fmt.Errorf("required")
	err := &ValidationError{Field: "handle", Err: baseErr}

	assert.Equal(t, "invalid argument 'handle': required", err.Error())
	assert.True(t, errors.Is(err, baseErr))

	detail := err.ToErrorDetail()
	assert.Equal(t, "validation", detail.Type)
	assert.Equal(t, "handle", detail.Code)
}

func TestValidationError_NoField(t *testing.T) {
	err := &ValidationError{Err: fmt.Errorf("unexpected end of JSON input")}
	assert.Equal(t, "invalid arguments: unexpected end of JSON input", err.Error())
}

func TestHandleError(t *testing.T) {
	err := &HandleError{Kind: "printer", Handle: 7}

	assert.Equal(t, "printer handle 7 not found", err.Error())

	detail := err.ToErrorDetail()
	assert.Equal(t, "not_found", detail.Type)
	assert.Equal(t, "printer_handle", detail.Code)
	assert.True(t, detail.NotFound())
	assert.Equal(t, map[string]any{"handle": uint64(7)}, detail.Details)
}

func TestConfigError(t *testing.T) {
	baseErr := fmt.Errorf("must be one of debug info warn error")
	err := &ConfigError{Field: "LogLevel", Err: baseErr}

	assert.Equal(t, "config validation failed for field 'LogLevel': must be one of debug info warn error", err.Error())
	assert.True(t, errors.Is(err, baseErr))

	var cfgErr *ConfigError
	require.True(t, errors.As(fmt.Errorf("load: %w", err), &cfgErr))
	assert.Equal(t, "LogLevel", cfgErr.Field)
}

func TestConfigError_NoField(t *testing.T) {
	err := &ConfigError{Err: fmt.Errorf("parse env")}
	assert.Equal(t, "config validation failed: parse env", err.Error())
}

func TestSchemaError(t *testing.T) {
	err := &SchemaError{Type: "AddRequest", Err: fmt.Errorf("cycle")}
	assert.Equal(t, "schema error for type AddRequest: cycle", err.Error())
	assert.Equal(t, "schema", err.ToErrorDetail().Code)
}

func TestMemoryError(t *testing.T) {
	err := &MemoryError{Operation: "read", Ptr: 0x10, Length: 4}
	assert.Equal(t, "guest memory read failed at 0x10 (4 bytes)", err.Error())
	assert.Equal(t, "memory_read", err.ToErrorDetail().Code)
}

func TestWireFormatError(t *testing.T) {
	baseErr := fmt.Errorf("invalid character")
	err := &WireFormatError{Operation: "decode", Type: "CallWire", Err: baseErr}

	assert.Equal(t, "wire format decode failed for CallWire: invalid character", err.Error())
	assert.True(t, errors.Is(err, baseErr))
}

func TestToErrorDetail(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType string
		wantCode string
	}{
		{name: "generic", err: fmt.Errorf("boom"), wantType: "internal"},
		{name: "validation", err: &ValidationError{Field: "a", Err: fmt.Errorf("x")}, wantType: "validation", wantCode: "a"},
		{name: "wrapped handle", err: fmt.Errorf("call: %w", &HandleError{Kind: "printer", Handle: 1}), wantType: "not_found", wantCode: "printer_handle"},
		{name: "entity", err: entities.NewErrorDetail("config", "bad").WithCode("X"), wantType: "config", wantCode: "X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail := ToErrorDetail(tt.err)
			require.NotNil(t, detail)
			assert.Equal(t, tt.wantType, detail.Type)
			assert.Equal(t, tt.wantCode, detail.Code)
		})
	}

	assert.Nil(t, ToErrorDetail(nil))
}
