package guest

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/reglet-dev/labelbind/domain/entities"
)

// Printer is a host-side LabeledPrinter addressed by its handle.
type Printer struct {
	client *Client
	handle uint64
}

// NewPrinter creates a printer on the host with the given prefix.
func (c *Client) NewPrinter(ctx context.Context, prefix string) (*Printer, error) {
	res, err := c.Invoke(ctx, "printer.new", map[string]any{"prefix": prefix})
	if err != nil {
		return nil, err
	}
	handle, err := dataUint(res, "handle")
	if err != nil {
		return nil, err
	}
	return &Printer{client: c, handle: handle}, nil
}

// Handle returns the host handle of the printer.
func (p *Printer) Handle() uint64 {
	return p.handle
}

// PrintInt emits value on the host and returns the emitted line.
func (p *Printer) PrintInt(ctx context.Context, value int) (string, error) {
	res, err := p.call(ctx, "printer.print_int", map[string]any{"value": value})
	if err != nil {
		return "", err
	}
	return dataString(res, "line")
}

// Prefix returns the printer's current prefix.
func (p *Printer) Prefix(ctx context.Context) (string, error) {
	res, err := p.call(ctx, "printer.get_prefix", nil)
	if err != nil {
		return "", err
	}
	return dataString(res, "prefix")
}

// SetPrefix replaces the printer's prefix.
func (p *Printer) SetPrefix(ctx context.Context, prefix string) error {
	_, err := p.call(ctx, "printer.set_prefix", map[string]any{"prefix": prefix})
	return err
}

// Repr returns the printer's description.
func (p *Printer) Repr(ctx context.Context) (string, error) {
	res, err := p.call(ctx, "printer.repr", nil)
	if err != nil {
		return "", err
	}
	return dataString(res, "repr")
}

// Release destroys the printer on the host. The Printer must not be used
// afterwards.
func (p *Printer) Release(ctx context.Context) error {
	res, err := p.call(ctx, "printer.release", nil)
	if err != nil {
		return err
	}
	if res.IsFailure() {
		return fmt.Errorf("printer %d: %s", p.handle, res.Message)
	}
	return nil
}

func (p *Printer) call(ctx context.Context, name string, args map[string]any) (*entities.Result, error) {
	if args == nil {
		args = make(map[string]any, 1)
	}
	args["handle"] = p.handle
	return p.client.Invoke(ctx, name, args)
}

func dataString(res *entities.Result, key string) (string, error) {
	s, ok := res.Data[key].(string)
	if !ok {
		return "", fmt.Errorf("result data %q: want string, got %T", key, res.Data[key])
	}
	return s, nil
}

func dataUint(res *entities.Result, key string) (uint64, error) {
	n, ok := res.Data[key].(json.Number)
	if !ok {
		return 0, fmt.Errorf("result data %q: want number, got %T", key, res.Data[key])
	}
	v, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("result data %q: %w", key, err)
	}
	return v, nil
}
