package entities

import (
	"time"
)

// RunMetadata contains execution metadata for a bound operation call.
type RunMetadata struct {
	// StartTime is when the call started.
	StartTime time.Time `json:"start_time"`

	// EndTime is when the call completed.
	EndTime time.Time `json:"end_time"`

	// Version is the labelbind version that served the call.
	Version string `json:"version,omitempty"`

	// Operation is the fully qualified operation name ("service.op").
	Operation string `json:"operation,omitempty"`

	// Duration is the total execution time.
	Duration time.Duration `json:"duration_ns"`
}

// NewRunMetadata creates a new RunMetadata with the given start and end times.
func NewRunMetadata(start, end time.Time) *RunMetadata {
	return &RunMetadata{
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
	}
}

// WithVersion sets the version and returns the same RunMetadata.
func (m *RunMetadata) WithVersion(version string) *RunMetadata {
	m.Version = version
	return m
}

// WithOperation sets the operation name and returns the same RunMetadata.
func (m *RunMetadata) WithOperation(op string) *RunMetadata {
	m.Operation = op
	return m
}
