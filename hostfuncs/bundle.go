package hostfuncs

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/reglet-dev/labelbind/application/plugin"
	"github.com/reglet-dev/labelbind/domain/entities"
	"github.com/reglet-dev/labelbind/domain/errors"
)

// HostFuncBundle is a pre-configured set of related host functions.
type HostFuncBundle interface {
	// Handlers returns a map of handler names to ByteHandler functions.
	Handlers() map[string]ByteHandler
}

type staticBundle struct {
	handlers map[string]ByteHandler
}

func (b *staticBundle) Handlers() map[string]ByteHandler {
	return b.handlers
}

// compositeBundle combines multiple bundles into one. Later bundles win on
// name clashes.
type compositeBundle struct {
	bundles []HostFuncBundle
}

func (b *compositeBundle) Handlers() map[string]ByteHandler {
	result := make(map[string]ByteHandler)
	for _, bundle := range b.bundles {
		for name, handler := range bundle.Handlers() {
			result[name] = handler
		}
	}
	return result
}

// Bundles combines several bundles into one.
func Bundles(bundles ...HostFuncBundle) HostFuncBundle {
	return &compositeBundle{bundles: bundles}
}

// PluginBundle exposes every operation of def as a handler named
// "<service>.<operation>". The request payload is the raw argument JSON;
// the response is an entities.Result as JSON, stamped with run metadata.
// Handler errors become error results, never Go errors.
func PluginBundle(def *plugin.PluginDefinition) HostFuncBundle {
	ops := def.Operations()
	handlers := make(map[string]ByteHandler, len(ops))
	for _, op := range ops {
		handlers[op.QualifiedName()] = operationHandler(op)
	}
	return &staticBundle{handlers: handlers}
}

func operationHandler(op plugin.Operation) ByteHandler {
	name := op.QualifiedName()
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		start := time.Now()

		res, err := op.Handler(ctx, &plugin.Request{Raw: payload})

		var result entities.Result
		switch {
		case err != nil:
			result = entities.ResultError(errors.ToErrorDetail(err))
		case res == nil:
			result = entities.ResultSuccess("", nil)
		default:
			result = *res
		}

		end := time.Now()
		result.Timestamp = end
		result = result.WithMetadata(entities.NewRunMetadata(start, end).
			WithVersion(plugin.Version).
			WithOperation(name))

		data, err := marshalResult(result)
		if err != nil {
			return NewInternalError((&errors.WireFormatError{
				Err:       err,
				Operation: "marshal",
				Type:      "result",
			}).Error()).ToJSON(), nil
		}
		return data, nil
	}
}

// marshalResult encodes r without HTML escaping so text such as the
// printer repr reaches callers verbatim.
func marshalResult(r entities.Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
