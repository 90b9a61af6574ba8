package host

import (
	"io"

	"github.com/reglet-dev/labelbind/domain/ports"
	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"
)

// Option defines a functional option for configuring the Executor.
type Option func(*Executor)

// WithHostFunctions sets the invoker whose names the host module exports.
// The default is a registry serving the labelbind plugin.
func WithHostFunctions(invoker ports.Invoker) Option {
	return func(e *Executor) {
		e.invoker = invoker
	}
}

// WithLogger sets the logger for the executor and the host module.
func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithOutput sets the writer for guest stdout and for printers created by
// the default registry. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Executor) {
		if w != nil {
			e.out = w
		}
	}
}

// WithModuleName sets the host module name guests import from.
func WithModuleName(name string) Option {
	return func(e *Executor) {
		if name != "" {
			e.moduleName = name
		}
	}
}

// WithMaxRequestSize limits the request size host functions read from guests.
func WithMaxRequestSize(n uint32) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxRequestSize = n
		}
	}
}

// WithRuntimeConfig replaces the wazero runtime configuration.
func WithRuntimeConfig(cfg wazero.RuntimeConfig) Option {
	return func(e *Executor) {
		if cfg != nil {
			e.runtimeConfig = cfg
		}
	}
}
