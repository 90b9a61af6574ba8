// Package bindings exposes the adder and the LabeledPrinter as plugin
// services so any host that speaks the plugin registry can call them.
package bindings

import (
	"io"
	"os"

	"github.com/reglet-dev/labelbind/application/plugin"
	"github.com/reglet-dev/labelbind/log"
	"go.uber.org/zap"
)

// PluginName is the name of the plugin built by NewPlugin.
const PluginName = "labelbind"

type options struct {
	out    io.Writer
	logger *zap.Logger
}

// Option configures the services built by NewPlugin.
type Option func(*options)

// WithOutput sets the writer printers created through the printer service
// emit to. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithLogger sets the logger used by the services.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewPlugin returns a plugin definition with the arith and printer
// services registered.
func NewPlugin(opts ...Option) *plugin.PluginDefinition {
	o := options{out: os.Stdout, logger: log.L()}
	for _, opt := range opts {
		opt(&o)
	}

	def := plugin.DefinePlugin(plugin.PluginDef{
		Name:        PluginName,
		Version:     plugin.Version,
		Description: "Integer adder and labeled printer objects",
	})
	plugin.MustRegisterService(def, NewArithService())
	plugin.MustRegisterService(def, NewPrinterService(o.out, o.logger))
	return def
}
