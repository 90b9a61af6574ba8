// Package schema generates JSON schemas for plugin configuration and
// operation arguments.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/reglet-dev/labelbind/domain/errors"
)

// GenerateSchema creates an indented JSON schema (Draft 2020-12) from a Go
// struct value or pointer, with definitions expanded inline.
func GenerateSchema(v any) ([]byte, error) {
	return generate(v, true)
}

// GenerateCompact creates a JSON schema like GenerateSchema without
// indentation. Used for schemas embedded in manifests.
func GenerateCompact(v any) ([]byte, error) {
	return generate(v, false)
}

func generate(v any, indent bool) ([]byte, error) {
	if v == nil {
		return nil, &errors.SchemaError{Err: fmt.Errorf("nil value")}
	}

	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	s := reflector.Reflect(v)

	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = json.Marshal(s)
	}
	if err != nil {
		return nil, &errors.SchemaError{Type: typeName(v), Err: fmt.Errorf("failed to marshal schema: %w", err)}
	}
	return data, nil
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
