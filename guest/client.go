// Package guest is the client side of the labelbind host module, for Go
// plugins compiled with GOOS=wasip1. Calls cross into the host through the
// adapters in infrastructure/wasm; native builds inject fakes with the
// With* options.
package guest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/reglet-dev/labelbind/domain/entities"
	"github.com/reglet-dev/labelbind/domain/errors"
	"github.com/reglet-dev/labelbind/domain/ports"
	"github.com/reglet-dev/labelbind/hostfuncs"
	"github.com/reglet-dev/labelbind/infrastructure/wasm"
	"github.com/reglet-dev/labelbind/log"
)

// Adder adds two integers on the host.
type Adder interface {
	Add(a, b int32) int32
}

// LogSink delivers an encoded log.MessageWire to the host.
type LogSink interface {
	Send(record []byte)
}

// Client calls host operations.
type Client struct {
	invoker ports.Invoker
	adder   Adder
	sink    LogSink
}

// Option configures a Client.
type Option func(*Client)

// WithInvoker replaces the host invoker.
func WithInvoker(inv ports.Invoker) Option {
	return func(c *Client) {
		if inv != nil {
			c.invoker = inv
		}
	}
}

// WithAdder replaces the host adder.
func WithAdder(a Adder) Option {
	return func(c *Client) {
		if a != nil {
			c.adder = a
		}
	}
}

// WithLogSink replaces the host log sink.
func WithLogSink(s LogSink) Option {
	return func(c *Client) {
		if s != nil {
			c.sink = s
		}
	}
}

// New creates a client bound to the host module imports.
func New(opts ...Option) *Client {
	c := &Client{
		invoker: wasm.NewInvokerAdapter(),
		adder:   wasm.NewAdderAdapter(),
		sink:    wasm.NewLogAdapter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultClient = New()

// Add returns a + b using the host's native add.
func Add(a, b int) int {
	return defaultClient.Add(a, b)
}

// Invoke calls a host operation with the default client.
func Invoke(ctx context.Context, name string, args any) (*entities.Result, error) {
	return defaultClient.Invoke(ctx, name, args)
}

// Add returns a + b using the host's native add. Operands wrap to 32 bits.
func (c *Client) Add(a, b int) int {
	return int(c.adder.Add(int32(a), int32(b))) //nolint:gosec // G115: the host import is i32
}

// Invoke marshals args, calls the operation name and decodes the result.
// Host error responses and error results are returned as
// *entities.ErrorDetail alongside the result when there is one.
func (c *Client) Invoke(ctx context.Context, name string, args any) (*entities.Result, error) {
	payload := []byte(`{}`)
	if args != nil {
		var err error
		if payload, err = json.Marshal(args); err != nil {
			return nil, &errors.WireFormatError{Operation: "marshal", Type: name, Err: err}
		}
	}

	response, err := c.invoker.Invoke(ctx, name, payload)
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", name, err)
	}
	return DecodeResponse(name, response)
}

// DecodeResponse turns a host response into a Result. Numbers in Data are
// kept as json.Number.
func DecodeResponse(name string, response []byte) (*entities.Result, error) {
	if len(response) == 0 {
		return nil, &errors.WireFormatError{Operation: "unmarshal", Type: name, Err: fmt.Errorf("empty response")}
	}
	if resp, ok := hostfuncs.ParseErrorResponse(response); ok {
		return nil, entities.NewErrorDetail("host", resp.Message).WithCode(resp.Error)
	}

	dec := json.NewDecoder(bytes.NewReader(response))
	dec.UseNumber()
	var result entities.Result
	if err := dec.Decode(&result); err != nil {
		return nil, &errors.WireFormatError{Operation: "unmarshal", Type: name, Err: err}
	}
	if result.IsError() {
		if result.Error == nil {
			return &result, entities.NewErrorDetail("internal", result.Message)
		}
		return &result, result.Error
	}
	return &result, nil
}

// Log sends a log record to the host logger.
func (c *Client) Log(level, message string, attrs ...entities.LogAttrWire) {
	record, err := json.Marshal(log.MessageWire{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Attrs:     attrs,
	})
	if err != nil {
		return
	}
	c.sink.Send(record)
}
