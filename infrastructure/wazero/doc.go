// Package wazero registers labelbind host functions with the wazero runtime.
//
// The host module (default name "labelbind") exports three kinds of
// functions to guest modules:
//
//   - one function per invoker name ("arith.add", "printer.new", ...) using
//     the packed i64 convention: the guest passes ptr<<32|len of a JSON
//     request and receives ptr<<32|len of a JSON response that the host
//     wrote into memory obtained from the guest's "allocate" export
//   - add(i32, i32) -> i32, the native adder without any encoding
//   - log_message(i64), which forwards a JSON log record to the host logger
//
// # Basic Usage
//
//	registry, err := hostfuncs.NewRegistry(
//	    hostfuncs.WithBundle(hostfuncs.PluginBundle(bindings.NewPlugin())),
//	)
//	if err != nil {
//	    return err
//	}
//
//	runtime := wazero.NewRuntime(ctx)
//	mod, err := labelwazero.RegisterWithRuntime(ctx, runtime, registry,
//	    labelwazero.WithLogger(logger),
//	)
package wazero
