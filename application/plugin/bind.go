package plugin

import (
	"bytes"
	"encoding/json"

	"github.com/reglet-dev/labelbind/application/validation"
	"github.com/reglet-dev/labelbind/domain/errors"
)

var argumentValidator = validation.NewStructValidator()

// Bind decodes the raw JSON arguments of req into T and validates the
// result against its `validate` tags. Empty arguments decode to the zero
// value of T before validation. Unknown fields are rejected.
func Bind[T any](req *Request) (T, error) {
	var args T
	if req != nil && len(bytes.TrimSpace(req.Raw)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(req.Raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&args); err != nil {
			return args, &errors.ValidationError{Err: err}
		}
	}
	if err := argumentValidator.Validate(&args); err != nil {
		return args, err
	}
	return args, nil
}
