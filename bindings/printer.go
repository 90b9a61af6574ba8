package bindings

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/reglet-dev/labelbind/application/plugin"
	"github.com/reglet-dev/labelbind/domain/entities"
	"github.com/reglet-dev/labelbind/domain/errors"
	"github.com/reglet-dev/labelbind/domain/printer"
	"go.uber.org/zap"
)

// Repr is the display form of a printer object with the given label.
func Repr(label string) string {
	return fmt.Sprintf("<labelbind.printer.Printer with prefix '%s'>", label)
}

// PrinterService owns a table of LabeledPrinters addressed by handle.
// Handles are assigned from 1 upwards and never reused.
type PrinterService struct {
	plugin.Service `name:"printer" desc:"Labeled printer objects"`
	New            plugin.Op `desc:"Create a printer with an initial prefix" method:"HandleNew"`
	PrintInt       plugin.Op `desc:"Write '[ prefix ] value' to the output stream" method:"HandlePrintInt"`
	GetPrefix      plugin.Op `desc:"Return the current prefix" method:"HandleGetPrefix"`
	SetPrefix      plugin.Op `desc:"Replace the prefix" method:"HandleSetPrefix"`
	Repr           plugin.Op `desc:"Describe the printer" method:"HandleRepr"`
	Release        plugin.Op `desc:"Destroy the printer; its handle becomes invalid" method:"HandleRelease"`

	out    io.Writer
	logger *zap.Logger

	mu       sync.Mutex
	next     uint64
	printers map[uint64]*printer.LabeledPrinter
}

// NewRequest is the argument of printer.new.
type NewRequest struct {
	Prefix string `json:"prefix" jsonschema:"description=Initial prefix; may be empty"`
}

// HandleRequest addresses an existing printer.
type HandleRequest struct {
	Handle uint64 `json:"handle" validate:"required" jsonschema:"description=Printer handle returned by new"`
}

// PrintIntRequest is the argument of printer.print_int.
type PrintIntRequest struct {
	Handle uint64 `json:"handle" validate:"required" jsonschema:"description=Printer handle returned by new"`
	Value  int    `json:"value" jsonschema:"description=Integer to print"`
}

// SetPrefixRequest is the argument of printer.set_prefix.
type SetPrefixRequest struct {
	Handle uint64 `json:"handle" validate:"required" jsonschema:"description=Printer handle returned by new"`
	Prefix string `json:"prefix" jsonschema:"description=Replacement prefix; may be empty"`
}

// NewPrinterService creates a printer service whose printers write to out.
func NewPrinterService(out io.Writer, logger *zap.Logger) *PrinterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrinterService{
		out:      out,
		logger:   logger,
		printers: make(map[uint64]*printer.LabeledPrinter),
	}
}

// RequestModels implements plugin.RequestModeler.
func (s *PrinterService) RequestModels() map[string]any {
	return map[string]any{
		"new":        NewRequest{},
		"print_int":  PrintIntRequest{},
		"get_prefix": HandleRequest{},
		"set_prefix": SetPrefixRequest{},
		"repr":       HandleRequest{},
		"release":    HandleRequest{},
	}
}

// Len returns the number of live printers.
func (s *PrinterService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.printers)
}

// HandleNew creates a printer and returns its handle.
func (s *PrinterService) HandleNew(_ context.Context, req *plugin.Request) (*entities.Result, error) {
	args, err := plugin.Bind[NewRequest](req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.next++
	handle := s.next
	s.printers[handle] = printer.New(args.Prefix, printer.WithOutput(s.out))
	s.mu.Unlock()

	s.logger.Debug("printer created", zap.Uint64("handle", handle), zap.String("prefix", args.Prefix))
	res := entities.ResultSuccess("created", map[string]any{"handle": handle})
	return &res, nil
}

// HandlePrintInt emits value through the printer and returns the line.
func (s *PrinterService) HandlePrintInt(_ context.Context, req *plugin.Request) (*entities.Result, error) {
	args, err := plugin.Bind[PrintIntRequest](req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.lookup(args.Handle)
	if err != nil {
		return nil, err
	}
	p.Emit(args.Value)

	res := entities.ResultSuccess("printed", map[string]any{"line": p.Format(args.Value)})
	return &res, nil
}

// HandleGetPrefix returns the printer's prefix.
func (s *PrinterService) HandleGetPrefix(_ context.Context, req *plugin.Request) (*entities.Result, error) {
	args, err := plugin.Bind[HandleRequest](req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.lookup(args.Handle)
	if err != nil {
		return nil, err
	}

	res := entities.ResultSuccess("", map[string]any{"prefix": p.Label()})
	return &res, nil
}

// HandleSetPrefix replaces the printer's prefix.
func (s *PrinterService) HandleSetPrefix(_ context.Context, req *plugin.Request) (*entities.Result, error) {
	args, err := plugin.Bind[SetPrefixRequest](req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.lookup(args.Handle)
	if err != nil {
		return nil, err
	}
	p.SetLabel(args.Prefix)

	res := entities.ResultSuccess("prefix updated", map[string]any{"prefix": p.Label()})
	return &res, nil
}

// HandleRepr returns the display form of the printer.
func (s *PrinterService) HandleRepr(_ context.Context, req *plugin.Request) (*entities.Result, error) {
	args, err := plugin.Bind[HandleRequest](req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.lookup(args.Handle)
	if err != nil {
		return nil, err
	}

	res := entities.ResultSuccess("", map[string]any{"repr": Repr(p.Label())})
	return &res, nil
}

// HandleRelease drops the printer from the table. Releasing a handle twice
// is a failure result, not an error; handles never issued are not found.
func (s *PrinterService) HandleRelease(_ context.Context, req *plugin.Request) (*entities.Result, error) {
	args, err := plugin.Bind[HandleRequest](req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.lookup(args.Handle); err != nil {
		if args.Handle <= s.next {
			res := entities.ResultFailure("already released", map[string]any{"released": false})
			return &res, nil
		}
		return nil, err
	}
	delete(s.printers, args.Handle)

	s.logger.Debug("printer released", zap.Uint64("handle", args.Handle))
	res := entities.ResultSuccess("released", map[string]any{"released": true})
	return &res, nil
}

// lookup must be called with s.mu held.
func (s *PrinterService) lookup(handle uint64) (*printer.LabeledPrinter, error) {
	p, ok := s.printers[handle]
	if !ok {
		return nil, &errors.HandleError{Kind: "printer", Handle: handle}
	}
	return p, nil
}
