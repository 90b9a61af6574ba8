package host

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/reglet-dev/labelbind/bindings"
	"github.com/reglet-dev/labelbind/domain/ports"
	"github.com/reglet-dev/labelbind/hostfuncs"
	labelwazero "github.com/reglet-dev/labelbind/infrastructure/wazero"
	"github.com/reglet-dev/labelbind/log"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"
)

// Executor manages a wazero runtime and the guests loaded into it.
type Executor struct {
	runtime        wazero.Runtime
	runtimeConfig  wazero.RuntimeConfig
	invoker        ports.Invoker
	hostModule     api.Module
	logger         *zap.Logger
	out            io.Writer
	moduleName     string
	seq            atomic.Uint64
	maxRequestSize uint32
}

// NewExecutor creates a runtime with WASI and the host module instantiated.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	e := &Executor{
		logger:         log.L(),
		out:            os.Stdout,
		moduleName:     labelwazero.DefaultModuleName,
		maxRequestSize: hostfuncs.DefaultMaxRequestSize,
		runtimeConfig:  wazero.NewRuntimeConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.invoker == nil {
		reg, err := hostfuncs.NewRegistry(
			hostfuncs.WithMiddleware(hostfuncs.PanicRecoveryMiddleware(), hostfuncs.LoggingMiddleware(e.logger)),
			hostfuncs.WithBundle(hostfuncs.PluginBundle(bindings.NewPlugin(bindings.WithLogger(e.logger), bindings.WithOutput(e.out)))),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create default registry: %w", err)
		}
		e.invoker = reg
	}

	rt := wazero.NewRuntimeWithConfig(ctx, e.runtimeConfig)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate WASI: %w", err)
	}

	hostModule, err := labelwazero.RegisterWithRuntime(ctx, rt, e.invoker,
		labelwazero.WithModuleName(e.moduleName),
		labelwazero.WithMaxRequestSize(e.maxRequestSize),
		labelwazero.WithLogger(e.logger),
	)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to register host functions: %w", err)
	}

	e.runtime = rt
	e.hostModule = hostModule
	return e, nil
}

// HostModule returns the instantiated host module. Its exports can be
// inspected through ExportedFunctionDefinitions but not called directly;
// wazero only lets guests that import them call host functions.
func (e *Executor) HostModule() api.Module {
	return e.hostModule
}

// Close releases the runtime and every module loaded into it.
func (e *Executor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// PluginInstance is an instantiated guest module.
type PluginInstance struct {
	module api.Module
	name   string
}

// LoadPlugin instantiates a guest under a generated name.
func (e *Executor) LoadPlugin(ctx context.Context, wasmBytes []byte) (*PluginInstance, error) {
	return e.LoadNamedPlugin(ctx, fmt.Sprintf("plugin-%d", e.seq.Add(1)), wasmBytes)
}

// LoadNamedPlugin instantiates a guest under name. Start functions are not
// run; a reactor's _initialize export is called if present.
func (e *Executor) LoadNamedPlugin(ctx context.Context, name string, wasmBytes []byte) (*PluginInstance, error) {
	cfg := wazero.NewModuleConfig().
		WithName(name).
		WithStartFunctions().
		WithStdout(e.out).
		WithStderr(os.Stderr)

	mod, err := e.runtime.InstantiateWithConfig(labelwazero.WithPluginName(ctx, name), wasmBytes, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate module: %w", err)
	}

	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(labelwazero.WithPluginName(ctx, name)); err != nil {
			_ = mod.Close(ctx)
			return nil, fmt.Errorf("failed to call _initialize: %w", err)
		}
	}

	e.logger.Debug("plugin loaded", zap.String("plugin", name))
	return &PluginInstance{module: mod, name: name}, nil
}

// Name returns the module name of the instance.
func (p *PluginInstance) Name() string {
	return p.name
}

// Call invokes an exported function with raw wasm arguments.
func (p *PluginInstance) Call(ctx context.Context, export string, args ...uint64) ([]uint64, error) {
	f := p.module.ExportedFunction(export)
	if f == nil {
		return nil, fmt.Errorf("export %q not found", export)
	}
	return f.Call(labelwazero.WithPluginName(ctx, p.name), args...)
}

// CallPacked invokes an export using the packed convention and returns a
// copy of the response bytes. With input, the export is called as
// f(ptr, len) after the input is written into guest memory; without, as f().
func (p *PluginInstance) CallPacked(ctx context.Context, export string, input []byte) ([]byte, error) {
	packed, err := p.callRaw(ctx, export, input)
	if err != nil {
		return nil, err
	}
	return p.readPacked(packed)
}

// Close releases the module.
func (p *PluginInstance) Close(ctx context.Context) error {
	return p.module.Close(ctx)
}
