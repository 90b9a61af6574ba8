package main

import (
	"fmt"
	"io"

	"github.com/reglet-dev/labelbind/application/config"
	"github.com/reglet-dev/labelbind/application/plugin"
	"github.com/reglet-dev/labelbind/bindings"
	"github.com/reglet-dev/labelbind/hostfuncs"
	"github.com/reglet-dev/labelbind/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the state shared by every command of one invocation.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	verbose bool

	def      *plugin.PluginDefinition
	registry *hostfuncs.HandlerRegistry
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "labelbind",
		Short:         "Integer adder and labeled printer with scripting bindings",
		Long:          `Runs the demo scenario by default. Subcommands reach the same objects through the plugin registry, Lua, interpreted Go and WebAssembly guests.`,
		Version:       plugin.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDemo(cmd.OutOrStdout())
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.demoCmd(),
		a.callCmd(),
		a.batchCmd(),
		a.manifestCmd(),
		a.luaCmd(),
		a.evalCmd(),
		a.wasmCmd(),
	)
	return root
}

// setup loads the configuration and installs the logger.
func (a *app) setup() error {
	var opts []config.Option
	if a.verbose {
		opts = append(opts, config.WithLogLevel("debug"))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger, err := log.New(log.WithLevel(level), log.WithSource(a.verbose))
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	log.SetLogger(logger)
	return nil
}

// plugin returns the labelbind plugin and a registry serving it. Both are
// built once per invocation so printer handles survive across calls.
func (a *app) plugin(out io.Writer) (*plugin.PluginDefinition, *hostfuncs.HandlerRegistry, error) {
	if a.registry != nil {
		return a.def, a.registry, nil
	}

	def := bindings.NewPlugin(bindings.WithOutput(out), bindings.WithLogger(a.logger))
	reg, err := hostfuncs.NewRegistry(
		hostfuncs.WithMiddleware(
			hostfuncs.PanicRecoveryMiddleware(),
			hostfuncs.LoggingMiddleware(a.logger),
			hostfuncs.MaxPayloadMiddleware(a.cfg.MaxRequestSize),
		),
		hostfuncs.WithBundle(hostfuncs.PluginBundle(def)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build registry: %w", err)
	}

	a.def, a.registry = def, reg
	return def, reg, nil
}
