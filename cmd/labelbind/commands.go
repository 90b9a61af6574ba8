package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/reglet-dev/labelbind/domain/arith"
	"github.com/reglet-dev/labelbind/domain/entities"
	"github.com/reglet-dev/labelbind/domain/printer"
	"github.com/reglet-dev/labelbind/hostfuncs"
	"github.com/reglet-dev/labelbind/infrastructure/parser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Print the greeting and the default printer scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDemo(cmd.OutOrStdout())
		},
	}
}

func (a *app) runDemo(out io.Writer) error {
	fmt.Fprintln(out, "Hello labelbind")
	printer.New(a.cfg.DefaultPrefix, printer.WithOutput(out)).Emit(arith.Add(1, 2))
	return nil
}

func (a *app) callCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "call <service.operation> [json-args]",
		Short:   "Invoke one operation and print its result",
		Example: `  labelbind call arith.add '{"a":1,"b":2}'`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := []byte(`{}`)
			if len(args) == 2 {
				payload = []byte(args[1])
			}
			_, reg, err := a.plugin(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			resp, err := reg.Invoke(cmd.Context(), args[0], payload)
			if err != nil {
				return err
			}
			return writeResponse(cmd.OutOrStdout(), args[0], resp)
		},
	}
}

func (a *app) batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <calls.yaml>",
		Short: "Run a YAML list of calls in order",
		Long: `Each entry has a qualified operation name and optional args:

  - name: printer.new
    args: {prefix: pybind example}
  - name: printer.print_int
    args: {handle: 1, value: 3}

Printer handles created by earlier calls stay valid for later ones.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read batch file: %w", err)
			}
			calls, err := parser.NewYamlCallParser().Parse(data)
			if err != nil {
				return err
			}
			_, reg, err := a.plugin(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			failed := 0
			for i, call := range calls {
				payload := []byte(call.Args)
				if len(payload) == 0 {
					payload = []byte(`{}`)
				}
				resp, err := reg.Invoke(cmd.Context(), call.Name, payload)
				if err != nil {
					return fmt.Errorf("call %d (%s): %w", i, call.Name, err)
				}
				if err := writeResponse(cmd.OutOrStdout(), call.Name, resp); err != nil {
					a.logger.Warn("batch call failed", zap.Int("index", i), zap.String("name", call.Name), zap.Error(err))
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d calls failed", failed, len(calls))
			}
			return nil
		},
	}
}

func (a *app) manifestCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the services and operations of the plugin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, _, err := a.plugin(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "json":
				data, err = json.MarshalIndent(def.Manifest(), "", "  ")
				data = append(data, '\n')
			case "yaml":
				data, err = parser.MarshalYAML(def.Manifest())
			default:
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
			if err != nil {
				return fmt.Errorf("failed to encode manifest: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	return cmd
}

// writeResponse prints a registry response and returns an error when it
// reports an error or a failure.
func writeResponse(out io.Writer, name string, resp []byte) error {
	if errResp, ok := hostfuncs.ParseErrorResponse(resp); ok {
		fmt.Fprintln(out, string(resp))
		return fmt.Errorf("%s: %s", errResp.Error, errResp.Message)
	}

	var res entities.Result
	if err := json.Unmarshal(resp, &res); err != nil {
		return fmt.Errorf("%s: invalid response: %w", name, err)
	}
	fmt.Fprintln(out, string(resp))
	switch {
	case res.IsError() && res.Error != nil:
		return fmt.Errorf("%s: %w", name, res.Error)
	case res.IsFailure():
		return fmt.Errorf("%s: %s", name, res.Message)
	}
	return nil
}
