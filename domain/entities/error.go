package entities

import "strings"

// Error types carried by ErrorDetail.Type.
const (
	ErrorTypeValidation = "validation"
	ErrorTypeNotFound   = "not_found"
	ErrorTypeConfig     = "config"
	ErrorTypeInternal   = "internal"
)

// ErrorDetail is the error half of a Result as hosts see it: a category,
// an optional machine code such as "printer_handle", and the values that
// identify what failed (for example the offending handle).
type ErrorDetail struct {
	Details map[string]any `json:"details,omitempty"`
	Type    string         `json:"type"`
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message"`
}

// NewErrorDetail returns an ErrorDetail of the given type.
func NewErrorDetail(errorType, message string) *ErrorDetail {
	return &ErrorDetail{Type: errorType, Message: message}
}

// Error renders "type: message [code]". Internal errors omit the type.
func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	if e.Type != "" && e.Type != ErrorTypeInternal {
		b.WriteString(e.Type)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Code != "" {
		b.WriteString(" [")
		b.WriteString(e.Code)
		b.WriteString("]")
	}
	return b.String()
}

// NotFound reports whether the error refers to a missing object.
func (e *ErrorDetail) NotFound() bool {
	return e != nil && e.Type == ErrorTypeNotFound
}

// WithCode sets the code and returns the same ErrorDetail.
func (e *ErrorDetail) WithCode(code string) *ErrorDetail {
	e.Code = code
	return e
}

// WithDetails merges details into the ErrorDetail and returns it.
func (e *ErrorDetail) WithDetails(details map[string]any) *ErrorDetail {
	if len(details) == 0 {
		return e
	}
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}
