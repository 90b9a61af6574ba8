// Package printer provides the LabeledPrinter, a value holder that writes
// integers to an output stream prefixed with a mutable label.
package printer

import (
	"io"
	"os"
	"strconv"
)

// LabeledPrinter holds a label and formats integers alongside it.
// It has no internal synchronization; callers sharing one printer across
// goroutines must serialize access themselves.
type LabeledPrinter struct {
	out   io.Writer
	label string
}

// Option configures a LabeledPrinter.
type Option func(*LabeledPrinter)

// WithOutput sets the stream Emit writes to. The default is os.Stdout.
// A nil writer keeps the default.
func WithOutput(w io.Writer) Option {
	return func(p *LabeledPrinter) {
		if w != nil {
			p.out = w
		}
	}
}

// New creates a LabeledPrinter holding label verbatim. The empty string is
// a valid label.
func New(label string, opts ...Option) *LabeledPrinter {
	p := &LabeledPrinter{
		out:   os.Stdout,
		label: label,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Label returns the current label.
func (p *LabeledPrinter) Label() string {
	return p.label
}

// SetLabel replaces the label unconditionally.
func (p *LabeledPrinter) SetLabel(label string) {
	p.label = label
}

// Format returns the line Emit would write for v, including the trailing
// newline.
func (p *LabeledPrinter) Format(v int) string {
	return Line(p.label, v)
}

// Emit writes "[ <label> ] <v>\n" to the output stream.
// Write errors are ignored: the output stream is assumed writable.
func (p *LabeledPrinter) Emit(v int) {
	_, _ = io.WriteString(p.out, p.Format(v))
}

// Line formats a single output line for label and v.
func Line(label string, v int) string {
	return "[ " + label + " ] " + strconv.Itoa(v) + "\n"
}
