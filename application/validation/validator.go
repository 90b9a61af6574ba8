// Package validation validates decoded call arguments and configuration
// structs using go-playground/validator struct tags.
package validation

import (
	stdErrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/reglet-dev/labelbind/domain/errors"
	"github.com/reglet-dev/labelbind/domain/ports"
)

// StructValidator implements ports.ArgumentValidator.
type StructValidator struct {
	validate *validator.Validate
}

// NewStructValidator creates a validator that reports fields by their JSON
// name, falling back to the env name and then the Go field name.
func NewStructValidator() ports.ArgumentValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	return &StructValidator{validate: v}
}

// Validate checks v against its `validate` tags. The first failing field is
// returned as *errors.ValidationError.
func (s *StructValidator) Validate(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if stdErrors.As(err, &invalid) {
		return &errors.ValidationError{Err: err}
	}

	var fieldErrs validator.ValidationErrors
	if stdErrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &errors.ValidationError{
			Field: fe.Field(),
			Err:   fmt.Errorf("failed on '%s'%s", fe.Tag(), paramSuffix(fe.Param())),
		}
	}
	return &errors.ValidationError{Err: err}
}

func paramSuffix(param string) string {
	if param == "" {
		return ""
	}
	return " (" + param + ")"
}

func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "env"} {
		name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}
