package wazero

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/reglet-dev/labelbind/domain/arith"
	"github.com/reglet-dev/labelbind/domain/errors"
	"github.com/reglet-dev/labelbind/domain/ports"
	"github.com/reglet-dev/labelbind/hostfuncs"
	"github.com/reglet-dev/labelbind/internal/abi"
	"github.com/reglet-dev/labelbind/log"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// DefaultModuleName is the import module name guests use.
const DefaultModuleName = "labelbind"

// Names of the host functions that do not come from the invoker.
const (
	AddFunction        = "add"
	LogMessageFunction = "log_message"
)

// AdapterConfig holds configuration for the wazero adapter.
type AdapterConfig struct {
	Logger *zap.Logger

	// ModuleName is the host module name (default: "labelbind").
	ModuleName string

	// CustomHandlers are extra functions that do not follow the packed
	// request/response pattern.
	CustomHandlers []CustomHandler

	// MaxRequestSize limits the size of requests read from guest memory.
	// Default is 1 MiB.
	MaxRequestSize uint32
}

// CustomHandler is a host function with its own signature.
type CustomHandler struct {
	Handler     api.GoModuleFunc
	Name        string
	ParamTypes  []api.ValueType
	ResultTypes []api.ValueType
}

// AdapterOption configures the adapter.
type AdapterOption func(*AdapterConfig)

// WithModuleName sets the host module name. An empty name is ignored.
func WithModuleName(name string) AdapterOption {
	return func(c *AdapterConfig) {
		if name != "" {
			c.ModuleName = name
		}
	}
}

// WithMaxRequestSize sets the maximum request size read from guest memory.
// Zero is ignored.
func WithMaxRequestSize(size uint32) AdapterOption {
	return func(c *AdapterConfig) {
		if size > 0 {
			c.MaxRequestSize = size
		}
	}
}

// WithLogger sets the logger that receives adapter errors and guest log
// records.
func WithLogger(l *zap.Logger) AdapterOption {
	return func(c *AdapterConfig) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithCustomHandler adds a custom host function.
func WithCustomHandler(h CustomHandler) AdapterOption {
	return func(c *AdapterConfig) {
		c.CustomHandlers = append(c.CustomHandlers, h)
	}
}

func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		ModuleName:     DefaultModuleName,
		MaxRequestSize: hostfuncs.DefaultMaxRequestSize,
		Logger:         log.L(),
	}
}

// RegisterWithRuntime builds and instantiates the host module. Every name
// in invoker becomes an export using the packed i64 convention; add and
// log_message are always exported. An invoker name clashing with them, or
// with a custom handler, is an error.
func RegisterWithRuntime(ctx context.Context, runtime wazero.Runtime, invoker ports.Invoker, opts ...AdapterOption) (api.Module, error) {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	builder := runtime.NewHostModuleBuilder(cfg.ModuleName)
	exported := map[string]bool{AddFunction: true, LogMessageFunction: true}
	export := func(name string) error {
		if exported[name] {
			return fmt.Errorf("host module %s: duplicate export %q", cfg.ModuleName, name)
		}
		exported[name] = true
		return nil
	}

	builder.NewFunctionBuilder().
		WithFunc(func(_ context.Context, a, b int32) int32 {
			return int32(arith.Add(int(a), int(b))) //nolint:gosec // G115: wraps like the guest's i32.add
		}).
		WithParameterNames("a", "b").
		Export(AddFunction)

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			handleLogMessage(ctx, mod, stack[0], cfg)
		}), []api.ValueType{api.ValueTypeI64}, []api.ValueType{}).
		Export(LogMessageFunction)

	if invoker != nil {
		for _, name := range invoker.Names() {
			if err := export(name); err != nil {
				return nil, err
			}
			funcName := name
			builder.NewFunctionBuilder().
				WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
					stack[0] = handleInvokerCall(ctx, mod, stack[0], invoker, funcName, cfg)
				}), []api.ValueType{api.ValueTypeI64}, []api.ValueType{api.ValueTypeI64}).
				Export(funcName)
		}
	}

	for _, ch := range cfg.CustomHandlers {
		if err := export(ch.Name); err != nil {
			return nil, err
		}
		builder.NewFunctionBuilder().
			WithGoModuleFunction(ch.Handler, ch.ParamTypes, ch.ResultTypes).
			Export(ch.Name)
	}

	return builder.Instantiate(ctx)
}

// handleInvokerCall reads the request from guest memory, invokes the
// handler and writes the response back. Failures are reported to the guest
// as ErrorResponse JSON whenever memory allows it.
func handleInvokerCall(ctx context.Context, mod api.Module, packed uint64, invoker ports.Invoker, name string, cfg AdapterConfig) uint64 {
	logger := cfg.Logger.With(zap.String("function", name), zap.String("plugin", GetPluginName(ctx, mod)))

	if !abi.Valid(packed) {
		logger.Error("wazero: invalid packed request")
		return writeErrorResponse(ctx, mod, hostfuncs.NewValidationError("invalid request pointer"), logger)
	}
	ptr, length := abi.UnpackPtrLen(packed)

	if length > cfg.MaxRequestSize {
		errMsg := fmt.Sprintf("request size %d exceeds maximum %d bytes", length, cfg.MaxRequestSize)
		logger.Error("wazero: " + errMsg)
		return writeErrorResponse(ctx, mod, hostfuncs.NewValidationError(errMsg), logger)
	}

	request, err := readMemory(mod, ptr, length)
	if err != nil {
		logger.Error("wazero: failed to read request", zap.Error(err))
		return writeErrorResponse(ctx, mod, hostfuncs.NewInternalError(err.Error()), logger)
	}

	response, err := invoker.Invoke(ctx, name, request)
	if err != nil {
		logger.Error("wazero: handler invocation failed", zap.Error(err))
		return writeErrorResponse(ctx, mod, hostfuncs.NewInternalError(err.Error()), logger)
	}

	return writeResponse(ctx, mod, response, logger)
}

// handleLogMessage decodes a log.MessageWire from guest memory and writes it
// to the configured logger. Undecodable records are logged raw.
func handleLogMessage(ctx context.Context, mod api.Module, packed uint64, cfg AdapterConfig) {
	logger := cfg.Logger.With(zap.String("plugin", GetPluginName(ctx, mod)))

	if !abi.Valid(packed) {
		logger.Warn("wazero: invalid packed log record")
		return
	}
	ptr, length := abi.UnpackPtrLen(packed)
	if length == 0 {
		return
	}
	if length > cfg.MaxRequestSize {
		logger.Warn("wazero: log record too large", zap.Uint32("bytes", length))
		return
	}

	payload, err := readMemory(mod, ptr, length)
	if err != nil {
		logger.Warn("wazero: failed to read log record", zap.Error(err))
		return
	}

	var msg log.MessageWire
	if err := json.Unmarshal(payload, &msg); err != nil {
		logger.Info("guest log (raw)", zap.ByteString("payload", payload))
		return
	}
	msg.Write(logger)
}

// readMemory copies length bytes at ptr out of the guest's memory.
func readMemory(mod api.Module, ptr, length uint32) ([]byte, error) {
	mem := mod.Memory()
	if mem == nil {
		return nil, &errors.MemoryError{Operation: "read", Ptr: ptr, Length: length}
	}
	data, ok := mem.Read(ptr, length)
	if !ok {
		return nil, &errors.MemoryError{Operation: "read", Ptr: ptr, Length: length}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// writeResponse allocates memory in the guest and writes data to it.
// Returns packed ptr+len, or 0 on failure.
func writeResponse(ctx context.Context, mod api.Module, data []byte, logger *zap.Logger) uint64 {
	if len(data) == 0 {
		return 0
	}

	allocateFn := mod.ExportedFunction("allocate")
	if allocateFn == nil {
		logger.Error("wazero: guest module missing 'allocate' export")
		return 0
	}

	results, err := allocateFn.Call(ctx, uint64(len(data)))
	if err != nil || len(results) == 0 {
		logger.Error("wazero: failed to call guest allocate", zap.Error(err))
		return 0
	}
	ptr := uint32(results[0]) //nolint:gosec // G115: wasm32 pointers are 32-bit
	length := uint32(len(data)) //nolint:gosec // G115: bounded by the request size limit

	mem := mod.Memory()
	if ptr == 0 || mem == nil || !mem.Write(ptr, data) {
		logger.Error("wazero: failed to write response to guest memory",
			zap.Error(&errors.MemoryError{Operation: "write", Ptr: ptr, Length: length}))
		return 0
	}

	return abi.PackPtrLen(ptr, length)
}

func writeErrorResponse(ctx context.Context, mod api.Module, errResp hostfuncs.ErrorResponse, logger *zap.Logger) uint64 {
	return writeResponse(ctx, mod, errResp.ToJSON(), logger)
}
