// Command labelbind runs the adder and LabeledPrinter directly, through the
// plugin registry, or from Lua, Go and WebAssembly guests.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
