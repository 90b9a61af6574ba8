//go:build wasip1

package wasm

//go:wasmimport labelbind add
func host_add(a, b int32) int32

//go:wasmimport labelbind log_message
func host_log_message(recordPacked uint64)

//go:wasmimport labelbind arith.add
func host_arith_add(requestPacked uint64) uint64

//go:wasmimport labelbind printer.new
func host_printer_new(requestPacked uint64) uint64

//go:wasmimport labelbind printer.print_int
func host_printer_print_int(requestPacked uint64) uint64

//go:wasmimport labelbind printer.get_prefix
func host_printer_get_prefix(requestPacked uint64) uint64

//go:wasmimport labelbind printer.set_prefix
func host_printer_set_prefix(requestPacked uint64) uint64

//go:wasmimport labelbind printer.repr
func host_printer_repr(requestPacked uint64) uint64

//go:wasmimport labelbind printer.release
func host_printer_release(requestPacked uint64) uint64

var hostOperations = map[string]func(uint64) uint64{
	"arith.add":          host_arith_add,
	"printer.new":        host_printer_new,
	"printer.print_int":  host_printer_print_int,
	"printer.get_prefix": host_printer_get_prefix,
	"printer.set_prefix": host_printer_set_prefix,
	"printer.repr":       host_printer_repr,
	"printer.release":    host_printer_release,
}
