// Package yaegi lets interpreted Go source call the adder and LabeledPrinter
// through an `import "labelbind"` package.
package yaegi

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/reglet-dev/labelbind/bindings"
	"github.com/reglet-dev/labelbind/domain/arith"
	"github.com/reglet-dev/labelbind/domain/printer"
	"github.com/reglet-dev/labelbind/log"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"
)

// ImportPath is the path interpreted code imports the bindings from.
const ImportPath = "labelbind"

// Interpreter is a yaegi interpreter with the labelbind package available.
// It is not safe for concurrent use.
type Interpreter struct {
	interp *interp.Interpreter
	out    io.Writer
	logger *zap.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets the writer for printers and for fmt output of
// interpreted code.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) {
		if w != nil {
			i.out = w
		}
	}
}

// WithLogger sets the logger for evaluations.
func WithLogger(l *zap.Logger) Option {
	return func(i *Interpreter) {
		if l != nil {
			i.logger = l
		}
	}
}

// NewInterpreter creates an interpreter with the standard library and the
// labelbind package loaded.
func NewInterpreter(opts ...Option) (*Interpreter, error) {
	i := &Interpreter{out: os.Stdout, logger: log.L()}
	for _, opt := range opts {
		opt(i)
	}

	i.interp = interp.New(interp.Options{Stdout: i.out, Stderr: i.out})
	if err := i.interp.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib: %w", err)
	}
	if err := i.interp.Use(i.exports()); err != nil {
		return nil, fmt.Errorf("failed to load %s symbols: %w", ImportPath, err)
	}
	return i, nil
}

// exports describes the labelbind package in yaegi's symbol format.
func (i *Interpreter) exports() interp.Exports {
	out := i.out
	return interp.Exports{
		ImportPath + "/" + ImportPath: {
			"Add": reflect.ValueOf(arith.Add),
			"NewPrinter": reflect.ValueOf(func(label string) *printer.LabeledPrinter {
				return printer.New(label, printer.WithOutput(out))
			}),
			"Line":    reflect.ValueOf(printer.Line),
			"Repr":    reflect.ValueOf(bindings.Repr),
			"Printer": reflect.ValueOf((*printer.LabeledPrinter)(nil)),
		},
	}
}

// Eval evaluates src and returns the value of its last expression.
func (i *Interpreter) Eval(src string) (reflect.Value, error) {
	return i.EvalWithContext(context.Background(), src)
}

// EvalWithContext evaluates src, abandoning it when ctx is done.
func (i *Interpreter) EvalWithContext(ctx context.Context, src string) (reflect.Value, error) {
	i.logger.Debug("evaluating go source", zap.Int("bytes", len(src)))
	v, err := i.interp.EvalWithContext(ctx, src)
	if err != nil {
		return v, fmt.Errorf("eval: %w", err)
	}
	return v, nil
}
