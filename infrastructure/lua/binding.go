// Package lua exposes the adder and LabeledPrinter to Lua scripts.
//
// Scripts see a global add(a, b) and a global Printer table:
//
//	local p = Printer.new("pybind example")   -- or Printer("pybind example")
//	p:print_int(add(1, 2))                     -- [ pybind example ] 3
//	p.prefix = "changed"
//	print(tostring(p))                         -- <labelbind.printer.Printer with prefix 'changed'>
package lua

import (
	"fmt"
	"io"
	"os"

	"github.com/Shopify/go-lua"
	"github.com/reglet-dev/labelbind/bindings"
	"github.com/reglet-dev/labelbind/domain/arith"
	"github.com/reglet-dev/labelbind/domain/printer"
	"github.com/reglet-dev/labelbind/log"
	"go.uber.org/zap"
)

// PrinterTypeName is the metatable name of printer userdata.
const PrinterTypeName = "labelbind.Printer"

// Binding is a Lua state with the labelbind globals registered.
// A Binding is not safe for concurrent use.
type Binding struct {
	state  *lua.State
	out    io.Writer
	logger *zap.Logger
}

// Option configures a Binding.
type Option func(*Binding)

// WithOutput sets the writer printers created by scripts emit to.
func WithOutput(w io.Writer) Option {
	return func(b *Binding) {
		if w != nil {
			b.out = w
		}
	}
}

// WithLogger sets the logger for script runs.
func WithLogger(l *zap.Logger) Option {
	return func(b *Binding) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBinding creates a Lua state with the standard libraries and the
// labelbind globals.
func NewBinding(opts ...Option) *Binding {
	b := &Binding{out: os.Stdout, logger: log.L()}
	for _, opt := range opts {
		opt(b)
	}

	b.state = lua.NewState()
	lua.OpenLibraries(b.state)
	b.register()
	return b
}

// State returns the underlying Lua state.
func (b *Binding) State() *lua.State {
	return b.state
}

// Run executes a Lua chunk.
func (b *Binding) Run(script string) error {
	b.logger.Debug("running lua chunk", zap.Int("bytes", len(script)))
	if err := lua.DoString(b.state, script); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// RunFile executes a Lua file.
func (b *Binding) RunFile(path string) error {
	b.logger.Debug("running lua file", zap.String("path", path))
	if err := lua.DoFile(b.state, path); err != nil {
		return fmt.Errorf("lua: %s: %w", path, err)
	}
	return nil
}

func (b *Binding) register() {
	l := b.state

	l.Register("add", luaAdd)

	lua.NewMetaTable(l, PrinterTypeName)
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "__index", Function: printerIndex},
		{Name: "__newindex", Function: printerNewIndex},
		{Name: "__tostring", Function: printerToString},
	}, 0)
	l.Pop(1)

	// Printer = setmetatable({new = ...}, {__call = ...})
	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "new", Function: func(l *lua.State) int { return b.newPrinter(l, 1) }},
	}, 0)
	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "__call", Function: func(l *lua.State) int { return b.newPrinter(l, 2) }},
	}, 0)
	l.SetMetaTable(-2)
	l.SetGlobal("Printer")
}

func luaAdd(l *lua.State) int {
	a := checkWholeInteger(l, 1)
	c := checkWholeInteger(l, 2)
	l.PushInteger(arith.Add(a, c))
	return 1
}

// newPrinter builds a printer from the string argument at index arg.
func (b *Binding) newPrinter(l *lua.State, arg int) int {
	prefix := checkStrictString(l, arg)
	l.PushUserData(printer.New(prefix, printer.WithOutput(b.out)))
	lua.SetMetaTableNamed(l, PrinterTypeName)
	return 1
}

func checkPrinter(l *lua.State, index int) *printer.LabeledPrinter {
	ud := lua.CheckUserData(l, index, PrinterTypeName)
	p, ok := ud.(*printer.LabeledPrinter)
	if !ok || p == nil {
		lua.ArgumentError(l, index, "Printer expected")
		return nil
	}
	return p
}

// checkStrictString rejects numbers, which Lua would otherwise coerce.
func checkStrictString(l *lua.State, index int) string {
	if l.TypeOf(index) != lua.TypeString {
		lua.ArgumentError(l, index, "string expected, got "+lua.TypeNameOf(l, index))
		return ""
	}
	s, _ := l.ToString(index)
	return s
}

// checkWholeInteger rejects strings and numbers with a fractional part,
// which lua.CheckInteger would coerce or truncate.
func checkWholeInteger(l *lua.State, index int) int {
	if l.TypeOf(index) != lua.TypeNumber {
		lua.ArgumentError(l, index, "integer expected, got "+lua.TypeNameOf(l, index))
		return 0
	}
	n, _ := l.ToNumber(index)
	i, ok := l.ToInteger(index)
	if !ok || float64(i) != n {
		lua.ArgumentError(l, index, fmt.Sprintf("integer expected, got %g", n))
		return 0
	}
	return i
}

func printerIndex(l *lua.State) int {
	p := checkPrinter(l, 1)
	key := lua.CheckString(l, 2)

	switch key {
	case "prefix":
		l.PushString(p.Label())
	case "print_int":
		l.PushGoFunction(printerPrintInt)
	case "get_prefix":
		l.PushGoFunction(printerGetPrefix)
	case "set_prefix":
		l.PushGoFunction(printerSetPrefix)
	default:
		l.PushNil()
	}
	return 1
}

func printerNewIndex(l *lua.State) int {
	p := checkPrinter(l, 1)
	key := lua.CheckString(l, 2)
	if key != "prefix" {
		lua.Errorf(l, "Printer has no writable field '%s'", key)
		return 0
	}
	p.SetLabel(checkStrictString(l, 3))
	return 0
}

func printerToString(l *lua.State) int {
	l.PushString(bindings.Repr(checkPrinter(l, 1).Label()))
	return 1
}

func printerPrintInt(l *lua.State) int {
	p := checkPrinter(l, 1)
	p.Emit(checkWholeInteger(l, 2))
	return 0
}

func printerGetPrefix(l *lua.State) int {
	l.PushString(checkPrinter(l, 1).Label())
	return 1
}

func printerSetPrefix(l *lua.State) int {
	p := checkPrinter(l, 1)
	p.SetLabel(checkStrictString(l, 2))
	return 0
}
