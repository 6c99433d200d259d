package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var messages = map[string]string{
	"required": "field is required",
	"gte":      "value is too small",
	"lte":      "value is too large",
	"min":      "value is too small",
	"max":      "value is too large",
	"oneof":    "value is not allowed",
}

// RegisterJSONTagNames makes validation errors refer to fields by their json
// name, or their form name for query parameters.
func RegisterJSONTagNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
}

// Describe flattens binding and validation failures into field errors.
func Describe(err error) []FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, e := range verrs {
			out = append(out, FieldError{
				Field:   fieldPath(e.Namespace()),
				Message: message(e),
			})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("must be of type %s", typeErr.Type.String()),
		}}
	}

	return nil
}

// fieldPath strips the root struct name from a validator namespace,
// "ClinicCreate.services[0].service_id" becomes "services[0].service_id".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(e validator.FieldError) string {
	msg, ok := messages[e.Tag()]
	if !ok {
		return fmt.Sprintf("failed on the '%s' rule", e.Tag())
	}
	if e.Param() != "" && e.Tag() != "required" {
		return fmt.Sprintf("%s (%s=%s)", msg, e.Tag(), e.Param())
	}
	return msg
}
