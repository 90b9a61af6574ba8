package main

import (
	"fmt"
	"os"
	"reflect"

	"github.com/reglet-dev/labelbind/host"
	"github.com/reglet-dev/labelbind/infrastructure/lua"
	"github.com/reglet-dev/labelbind/infrastructure/yaegi"
	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero/api"
)

func (a *app) luaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lua <script.lua>",
		Short: "Run a Lua script with add() and Printer available",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := lua.NewBinding(lua.WithOutput(cmd.OutOrStdout()), lua.WithLogger(a.logger))
			return b.RunFile(args[0])
		},
	}
}

func (a *app) evalCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "eval <go-source>",
		Short:   "Evaluate Go source with the labelbind package imported",
		Example: `  labelbind eval 'labelbind.NewPrinter("hi").Emit(labelbind.Add(1, 2))'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := yaegi.NewInterpreter(yaegi.WithOutput(cmd.OutOrStdout()), yaegi.WithLogger(a.logger))
			if err != nil {
				return err
			}
			if _, err := i.EvalWithContext(cmd.Context(), `import "`+yaegi.ImportPath+`"`); err != nil {
				return err
			}
			v, err := i.EvalWithContext(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if printable(v) {
				fmt.Fprintln(cmd.OutOrStdout(), v.Interface())
			}
			return nil
		},
	}
}

// printable reports whether an evaluated value is worth printing. Calls
// without results come back from yaegi as valid nil values.
func printable(v reflect.Value) bool {
	if !v.IsValid() || !v.CanInterface() {
		return false
	}
	switch v.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !v.IsNil()
	}
	return true
}

func (a *app) wasmCmd() *cobra.Command {
	var (
		export string
		params []int
	)
	cmd := &cobra.Command{
		Use:   "wasm <module.wasm>",
		Short: "Load a WebAssembly guest against the host module and call an export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wasmBytes, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read module: %w", err)
			}

			ctx := cmd.Context()
			e, err := host.NewExecutor(ctx,
				host.WithOutput(cmd.OutOrStdout()),
				host.WithLogger(a.logger),
				host.WithModuleName(a.cfg.HostModule),
				host.WithMaxRequestSize(a.cfg.MaxRequestSize),
			)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close(ctx) }()

			p, err := e.LoadPlugin(ctx, wasmBytes)
			if err != nil {
				return err
			}

			callArgs := make([]uint64, len(params))
			for i, v := range params {
				callArgs[i] = api.EncodeI32(int32(v)) //nolint:gosec // G115: i32 parameters
			}
			results, err := p.Call(ctx, export, callArgs...)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Fprintln(cmd.OutOrStdout(), api.DecodeI32(r))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&export, "export", "e", "run", "exported function to call")
	cmd.Flags().IntSliceVarP(&params, "arg", "a", nil, "i32 argument for the export (repeatable)")
	return cmd
}
