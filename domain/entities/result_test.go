package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultSuccess(t *testing.T) {
	data := map[string]any{"sum": 3}
	result := ResultSuccess("added", data)

	assert.Equal(t, ResultStatusSuccess, result.Status)
	assert.Equal(t, "added", result.Message)
	assert.Equal(t, data, result.Data)
	assert.True(t, result.IsSuccess())
	assert.False(t, result.IsFailure())
	assert.False(t, result.IsError())
}

func TestResultFailure(t *testing.T) {
	result := ResultFailure("nothing printed", nil)

	assert.Equal(t, ResultStatusFailure, result.Status)
	assert.False(t, result.IsSuccess())
	assert.True(t, result.IsFailure())
	assert.False(t, result.IsError())
}

func TestResultError(t *testing.T) {
	err := NewErrorDetail("not_found", "printer handle 7 not found").WithCode("printer_handle")
	result := ResultError(err)

	assert.Equal(t, ResultStatusError, result.Status)
	assert.Equal(t, "printer handle 7 not found", result.Message)
	require.NotNil(t, result.Error)
	assert.Equal(t, "printer_handle", result.Error.Code)
	assert.True(t, result.IsError())
}

func TestResult_WithMetadata(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(250 * time.Millisecond)
	meta := NewRunMetadata(start, end).WithVersion("1.2.3").WithOperation("arith.add")

	original := ResultSuccess("added", nil)
	withMeta := original.WithMetadata(meta)

	assert.Nil(t, original.Metadata, "WithMetadata must not modify the receiver")
	require.NotNil(t, withMeta.Metadata)
	assert.Equal(t, 250*time.Millisecond, withMeta.Metadata.Duration)
	assert.Equal(t, "1.2.3", withMeta.Metadata.Version)
	assert.Equal(t, "arith.add", withMeta.Metadata.Operation)
}

func TestResult_JSON(t *testing.T) {
	result := ResultError(NewErrorDetail("validation", "bad input"))
	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ResultStatusError, decoded.Status)
	require.NotNil(t, decoded.Error)
	assert.Equal(t, "validation", decoded.Error.Type)
	assert.Nil(t, decoded.Data)
}

func TestErrorDetail_Error(t *testing.T) {
	tests := []struct {
		name   string
		detail *ErrorDetail
		want   string
	}{
		{name: "nil", detail: nil, want: ""},
		{name: "internal hides type", detail: NewErrorDetail("internal", "boom"), want: "boom"},
		{name: "typed", detail: NewErrorDetail("validation", "bad"), want: "validation: bad"},
		{name: "typed with code", detail: NewErrorDetail("not_found", "gone").WithCode("printer_handle"), want: "not_found: gone [printer_handle]"},
		{
			name:   "details are not rendered",
			detail: NewErrorDetail("config", "outer").WithDetails(map[string]any{"field": "x"}),
			want:   "config: outer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.detail.Error())
		})
	}
}

func TestErrorDetail_WithDetails(t *testing.T) {
	d := NewErrorDetail(ErrorTypeNotFound, "gone").
		WithDetails(map[string]any{"handle": uint64(1)}).
		WithDetails(map[string]any{"kind": "printer"}).
		WithDetails(nil)

	assert.Equal(t, map[string]any{"handle": uint64(1), "kind": "printer"}, d.Details)
	assert.True(t, d.NotFound())
	assert.False(t, NewErrorDetail(ErrorTypeInternal, "x").NotFound())
	assert.False(t, (*ErrorDetail)(nil).NotFound())
}

func TestManifest_OperationNames(t *testing.T) {
	m := &Manifest{
		Services: map[string]ServiceManifest{
			"printer": {Name: "printer", Operations: []OperationManifest{{Name: "new"}, {Name: "print_int"}}},
			"arith":   {Name: "arith", Operations: []OperationManifest{{Name: "add"}}},
		},
	}

	assert.Equal(t, []string{"arith.add", "printer.new", "printer.print_int"}, m.OperationNames())
}
