package entities

import (
	"time"
)

// ResultStatus represents the outcome status of a bound operation call.
type ResultStatus string

const (
	// ResultStatusSuccess indicates the operation completed successfully.
	ResultStatusSuccess ResultStatus = "success"

	// ResultStatusFailure indicates the operation completed but reported a
	// negative outcome.
	ResultStatusFailure ResultStatus = "failure"

	// ResultStatusError indicates the operation could not complete.
	ResultStatusError ResultStatus = "error"
)

// Result is the outcome of one call into a bound operation. It is the
// payload every host receives back, whatever transport carried the call.
type Result struct {
	// Timestamp is when this result was created.
	// Set by the dispatcher when the result is returned.
	Timestamp time.Time `json:"timestamp"`

	// Data contains operation-specific result data (e.g. "sum", "line").
	Data map[string]any `json:"data,omitempty"`

	// Metadata contains execution metadata (timing, operation name).
	Metadata *RunMetadata `json:"metadata,omitempty"`

	// Error contains structured error information if Status is Error.
	Error *ErrorDetail `json:"error,omitempty"`

	// Status indicates whether the operation succeeded, failed, or errored.
	Status ResultStatus `json:"status"`

	// Message provides a human-readable description of the result.
	Message string `json:"message,omitempty"`
}

// ResultSuccess creates a successful Result with the given message and data.
func ResultSuccess(message string, data map[string]any) Result {
	return Result{
		Status:  ResultStatusSuccess,
		Message: message,
		Data:    data,
	}
}

// ResultFailure creates a failure Result with the given message and data.
func ResultFailure(message string, data map[string]any) Result {
	return Result{
		Status:  ResultStatusFailure,
		Message: message,
		Data:    data,
	}
}

// ResultError creates an error Result with the given error details.
func ResultError(err *ErrorDetail) Result {
	return Result{
		Status:  ResultStatusError,
		Message: err.Message,
		Error:   err,
	}
}

// WithMetadata returns a copy of the Result with the given metadata attached.
func (r Result) WithMetadata(m *RunMetadata) Result {
	r.Metadata = m
	return r
}

// IsSuccess returns true if the result indicates success.
func (r Result) IsSuccess() bool {
	return r.Status == ResultStatusSuccess
}

// IsFailure returns true if the result indicates failure.
func (r Result) IsFailure() bool {
	return r.Status == ResultStatusFailure
}

// IsError returns true if the result indicates an error.
func (r Result) IsError() bool {
	return r.Status == ResultStatusError
}
