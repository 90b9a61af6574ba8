// Package plugin turns annotated Go service structs into named, callable
// operations that scripting hosts can discover through a manifest.
package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/reglet-dev/labelbind/application/schema"
	"github.com/reglet-dev/labelbind/domain/entities"
)

// Service is embedded in service structs to provide metadata.
// Tag format: `name:"service_name" desc:"Service description"`
type Service struct{}

// Op is a field type for declaring operations.
// Tag format: `desc:"Operation description" method:"MethodName"`
type Op struct{}

// Request contains the context for a handler invocation.
type Request struct {
	Config any    // Parsed plugin config, if any
	Raw    []byte // Raw argument JSON
}

// HandlerFunc is the signature for operation handlers.
type HandlerFunc func(ctx context.Context, req *Request) (*entities.Result, error)

// RequestModeler is implemented by services that describe the argument
// struct of their operations. Keys are operation names ("print_int").
type RequestModeler interface {
	RequestModels() map[string]any
}

// MustRegisterService registers a service or panics.
func MustRegisterService(plugin *PluginDefinition, svc any) {
	if err := RegisterService(plugin, svc); err != nil {
		panic(fmt.Sprintf("failed to register service: %v", err))
	}
}

// RegisterService registers all operations from a service struct.
func RegisterService(plugin *PluginDefinition, svc any) error {
	svcType := reflect.TypeOf(svc)
	svcValue := reflect.ValueOf(svc)

	if svcType == nil || svcType.Kind() != reflect.Ptr || svcType.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("service must be a pointer to struct, got %T", svc)
	}

	structType := svcType.Elem()

	serviceName, serviceDesc, err := extractServiceMetadata(structType)
	if err != nil {
		return err
	}

	ops, err := extractOperations(structType)
	if err != nil {
		return err
	}

	var models map[string]any
	if rm, ok := svc.(RequestModeler); ok {
		models = rm.RequestModels()
	}

	entries := make([]*operationEntry, 0, len(ops))
	for _, op := range ops {
		method := svcValue.MethodByName(op.methodName)
		if !method.IsValid() {
			return fmt.Errorf("service %s: no method %s for operation %s (field %s)",
				serviceName, op.methodName, op.name, op.fieldName)
		}

		handler, err := wrapMethod(method)
		if err != nil {
			return fmt.Errorf("service %s, operation %s: %w",
				serviceName, op.name, err)
		}

		var inputSchema json.RawMessage
		if model, ok := models[op.name]; ok && model != nil {
			inputSchema, err = schema.GenerateCompact(model)
			if err != nil {
				return fmt.Errorf("service %s, operation %s: %w", serviceName, op.name, err)
			}
		}

		entries = append(entries, &operationEntry{
			name:        op.name,
			description: op.description,
			inputSchema: inputSchema,
			handler:     handler,
		})
	}

	for _, entry := range entries {
		plugin.registerOperation(serviceName, serviceDesc, entry)
	}
	return nil
}

// extractServiceMetadata finds the embedded Service field and parses its tags.
func extractServiceMetadata(t reflect.Type) (name, desc string, err error) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Type == reflect.TypeOf(Service{}) {
			name = field.Tag.Get("name")
			desc = field.Tag.Get("desc")
			if name == "" {
				return "", "", fmt.Errorf("Service field missing 'name' tag")
			}
			return name, desc, nil
		}
	}
	return "", "", fmt.Errorf("struct must embed plugin.Service")
}

// opInfo holds operation metadata extracted from struct fields.
type opInfo struct {
	fieldName   string // PascalCase field name
	methodName  string // Method name to invoke
	name        string // snake_case operation name
	description string
}

// extractOperations finds all Op fields and extracts their metadata.
func extractOperations(t reflect.Type) ([]opInfo, error) {
	var ops []opInfo

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Type != reflect.TypeOf(Op{}) {
			continue
		}

		// A field and a method cannot share a name, so the tag is required
		// in practice; the field name is only a fallback.
		methodName := field.Tag.Get("method")
		if methodName == "" {
			methodName = field.Name
		}

		ops = append(ops, opInfo{
			fieldName:   field.Name,
			methodName:  methodName,
			name:        toSnakeCase(field.Name),
			description: field.Tag.Get("desc"),
		})
	}

	if len(ops) == 0 {
		return nil, fmt.Errorf("service has no operations (no Op fields)")
	}

	return ops, nil
}

var (
	ctxType    = reflect.TypeOf((*context.Context)(nil)).Elem()
	reqType    = reflect.TypeOf((*Request)(nil))
	resultType = reflect.TypeOf((*entities.Result)(nil))
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

// wrapMethod wraps a reflected method as a HandlerFunc.
func wrapMethod(method reflect.Value) (HandlerFunc, error) {
	methodType := method.Type()

	// Expected signature: func(ctx context.Context, req *Request) (*entities.Result, error)
	if methodType.NumIn() != 2 || methodType.NumOut() != 2 {
		return nil, fmt.Errorf("method must have signature (context.Context, *Request) (*entities.Result, error)")
	}
	if !methodType.In(0).Implements(ctxType) {
		return nil, fmt.Errorf("first parameter must be context.Context")
	}
	if methodType.In(1) != reqType {
		return nil, fmt.Errorf("second parameter must be *plugin.Request")
	}
	if methodType.Out(0) != resultType {
		return nil, fmt.Errorf("first return value must be *entities.Result")
	}
	if !methodType.Out(1).Implements(errorType) {
		return nil, fmt.Errorf("second return value must be error")
	}

	return func(ctx context.Context, req *Request) (*entities.Result, error) {
		results := method.Call([]reflect.Value{
			reflect.ValueOf(ctx),
			reflect.ValueOf(req),
		})

		var result *entities.Result
		if !results[0].IsNil() {
			result = results[0].Interface().(*entities.Result)
		}

		var err error
		if !results[1].IsNil() {
			err = results[1].Interface().(error)
		}

		return result, err
	}, nil
}

var (
	matchFirstCap = regexp.MustCompile("(.)([A-Z][a-z]+)")
	matchAllCap   = regexp.MustCompile("([a-z0-9])([A-Z])")
)

// toSnakeCase converts PascalCase to snake_case.
func toSnakeCase(str string) string {
	snake := matchFirstCap.ReplaceAllString(str, "${1}_${2}")
	snake = matchAllCap.ReplaceAllString(snake, "${1}_${2}")
	return strings.ToLower(snake)
}
