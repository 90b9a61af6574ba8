// Package wasm adapts the labelbind host module imports for guests compiled
// with GOOS=wasip1. Native builds get stubs that panic, so packages that
// depend on these adapters still compile and can inject fakes in tests.
package wasm

// HostModule is the import module name the guest adapters are compiled
// against.
const HostModule = "labelbind"

// Operations lists the qualified operation names the host module exports
// through the packed i64 convention.
var Operations = []string{
	"arith.add",
	"printer.get_prefix",
	"printer.new",
	"printer.print_int",
	"printer.release",
	"printer.repr",
	"printer.set_prefix",
}
