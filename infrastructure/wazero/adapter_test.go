package wazero

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/reglet-dev/labelbind/bindings"
	"github.com/reglet-dev/labelbind/domain/entities"
	"github.com/reglet-dev/labelbind/hostfuncs"
	"github.com/reglet-dev/labelbind/internal/abi"
	"github.com/reglet-dev/labelbind/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultAdapterConfig(t *testing.T) {
	cfg := defaultAdapterConfig()
	assert.Equal(t, "labelbind", cfg.ModuleName)
	assert.Equal(t, hostfuncs.DefaultMaxRequestSize, cfg.MaxRequestSize)
	assert.NotNil(t, cfg.Logger)
}

func TestAdapterOptions(t *testing.T) {
	cfg := defaultAdapterConfig()
	logger := zap.NewExample()

	WithModuleName("custom_module")(&cfg)
	WithMaxRequestSize(2048)(&cfg)
	WithLogger(logger)(&cfg)
	WithCustomHandler(CustomHandler{Name: "test_handler"})(&cfg)

	assert.Equal(t, "custom_module", cfg.ModuleName)
	assert.Equal(t, uint32(2048), cfg.MaxRequestSize)
	assert.Same(t, logger, cfg.Logger)
	require.Len(t, cfg.CustomHandlers, 1)
	assert.Equal(t, "test_handler", cfg.CustomHandlers[0].Name)

	// Zero values keep the previous setting.
	WithModuleName("")(&cfg)
	WithMaxRequestSize(0)(&cfg)
	WithLogger(nil)(&cfg)
	assert.Equal(t, "custom_module", cfg.ModuleName)
	assert.Equal(t, uint32(2048), cfg.MaxRequestSize)
	assert.Same(t, logger, cfg.Logger)
}

type fixture struct {
	ctx     context.Context
	runtime wazero.Runtime
	host    api.Module
	out     *bytes.Buffer
	logs    *observer.ObservedLogs
}

func newFixture(t *testing.T, opts ...AdapterOption) *fixture {
	t.Helper()
	ctx := context.Background()

	out := &bytes.Buffer{}
	registry, err := hostfuncs.NewRegistry(
		hostfuncs.WithMiddleware(hostfuncs.PanicRecoveryMiddleware()),
		hostfuncs.WithBundle(hostfuncs.PluginBundle(bindings.NewPlugin(bindings.WithOutput(out)))),
	)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	t.Cleanup(func() { _ = rt.Close(ctx) })

	opts = append([]AdapterOption{WithLogger(zap.New(core))}, opts...)
	host, err := RegisterWithRuntime(ctx, rt, registry, opts...)
	require.NoError(t, err)

	return &fixture{ctx: ctx, runtime: rt, host: host, out: out, logs: logs}
}

func (f *fixture) instantiate(t *testing.T, name string, wasm []byte) api.Module {
	t.Helper()
	mod, err := f.runtime.InstantiateWithConfig(f.ctx, wasm, wazero.NewModuleConfig().WithName(name))
	require.NoError(t, err)
	return mod
}

func (f *fixture) callRun(t *testing.T, mod api.Module) []byte {
	t.Helper()
	results, err := mod.ExportedFunction("run").Call(f.ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NotZero(t, results[0], "host returned a null response")

	ptr, length := abi.UnpackPtrLen(results[0])
	data, ok := mod.Memory().Read(ptr, length)
	require.True(t, ok)
	return append([]byte(nil), data...)
}

func TestRegisterWithRuntime_Exports(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, DefaultModuleName, f.host.Name())
	defs := f.host.ExportedFunctionDefinitions()
	for _, name := range []string{"add", "log_message", "arith.add", "printer.new", "printer.print_int", "printer.release"} {
		assert.Contains(t, defs, name)
	}
}

func TestNativeAdd_FromGuest(t *testing.T) {
	f := newFixture(t)
	mod := f.instantiate(t, "adder", testutil.AddCallerModule(DefaultModuleName))

	results, err := mod.ExportedFunction("sum").Call(f.ctx, api.EncodeI32(40), api.EncodeI32(2))
	require.NoError(t, err)
	assert.Equal(t, int32(42), api.DecodeI32(results[0]))

	results, err = mod.ExportedFunction("sum").Call(f.ctx, api.EncodeI32(-5), api.EncodeI32(2))
	require.NoError(t, err)
	assert.Equal(t, int32(-3), api.DecodeI32(results[0]))
}

func TestInvokerCall_FromGuest(t *testing.T) {
	f := newFixture(t)
	mod := f.instantiate(t, "caller", testutil.InvokerCallerModule(DefaultModuleName, "arith.add", []byte(`{"a":1,"b":2}`)))

	var res entities.Result
	require.NoError(t, json.Unmarshal(f.callRun(t, mod), &res))
	assert.True(t, res.IsSuccess())
	assert.Equal(t, float64(3), res.Data["sum"])
	assert.Equal(t, "arith.add", res.Metadata.Operation)
}

func TestInvokerCall_PrinterWritesToHostOutput(t *testing.T) {
	f := newFixture(t)

	mod := f.instantiate(t, "creator", testutil.InvokerCallerModule(DefaultModuleName, "printer.new", []byte(`{"prefix":"pybind example"}`)))
	var res entities.Result
	require.NoError(t, json.Unmarshal(f.callRun(t, mod), &res))
	require.True(t, res.IsSuccess())

	mod = f.instantiate(t, "emitter", testutil.InvokerCallerModule(DefaultModuleName, "printer.print_int", []byte(`{"handle":1,"value":3}`)))
	require.NoError(t, json.Unmarshal(f.callRun(t, mod), &res))
	require.True(t, res.IsSuccess())
	assert.Equal(t, "[ pybind example ] 3\n", f.out.String())
}

func TestInvokerCall_RequestTooLarge(t *testing.T) {
	f := newFixture(t, WithMaxRequestSize(8))
	mod := f.instantiate(t, "large", testutil.InvokerCallerModule(DefaultModuleName, "arith.add", []byte(`{"a":1,"b":2}`)))

	errResp, ok := hostfuncs.ParseErrorResponse(f.callRun(t, mod))
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", errResp.Error)
	assert.Contains(t, errResp.Message, "exceeds maximum 8 bytes")

	entries := f.logs.FilterField(zap.String("plugin", "large")).All()
	require.NotEmpty(t, entries)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestInvokerCall_PluginNameFromContext(t *testing.T) {
	f := newFixture(t, WithMaxRequestSize(8))
	mod := f.instantiate(t, "module-name", testutil.InvokerCallerModule(DefaultModuleName, "arith.add", []byte(`{"a":1,"b":2}`)))

	_, err := mod.ExportedFunction("run").Call(WithPluginName(f.ctx, "from-context"))
	require.NoError(t, err)

	assert.NotEmpty(t, f.logs.FilterField(zap.String("plugin", "from-context")).All())
	assert.Empty(t, f.logs.FilterField(zap.String("plugin", "module-name")).All())
}

func TestLogMessage_FromGuest(t *testing.T) {
	f := newFixture(t)

	record := []byte(`{"level":"warn","message":"from guest","attrs":[{"key":"n","type":"int64","value":"7"}]}`)
	mod := f.instantiate(t, "logger", testutil.LogCallerModule(DefaultModuleName, record))

	_, err := mod.ExportedFunction("run").Call(f.ctx)
	require.NoError(t, err)

	entries := f.logs.FilterMessage("from guest").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, int64(7), entries[0].ContextMap()["n"])
	assert.Equal(t, "logger", entries[0].ContextMap()["plugin"])
}

func TestLogMessage_RawPayload(t *testing.T) {
	f := newFixture(t)
	mod := f.instantiate(t, "raw", testutil.LogCallerModule(DefaultModuleName, []byte("not json")))

	_, err := mod.ExportedFunction("run").Call(f.ctx)
	require.NoError(t, err)

	entries := f.logs.FilterMessage("guest log (raw)").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "not json", entries[0].ContextMap()["payload"])
}

type namesOnly []string

func (n namesOnly) Invoke(ctx context.Context, name string, payload []byte) ([]byte, error) {
	return nil, nil
}

func (n namesOnly) Names() []string { return n }

func TestRegisterWithRuntime_DuplicateExport(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer rt.Close(ctx)

	_, err := RegisterWithRuntime(ctx, rt, namesOnly{"add"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate export "add"`)

	_, err = RegisterWithRuntime(ctx, rt, nil, WithCustomHandler(CustomHandler{Name: "log_message"}))
	require.Error(t, err)
}

func TestGetPluginName(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", GetPluginName(ctx, nil))

	_, ok := PluginNameFromContext(WithPluginName(ctx, ""))
	assert.False(t, ok)

	name, ok := PluginNameFromContext(WithPluginName(ctx, "guest"))
	assert.True(t, ok)
	assert.Equal(t, "guest", name)
	assert.Equal(t, "guest", GetPluginName(WithPluginName(ctx, "guest"), nil))
}
