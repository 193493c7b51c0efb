package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// UseJSONFieldNames makes gin's validator report json tag names instead of Go field names.
func UseJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// FieldErrors flattens a binding error into per-field messages.
// ok is false when err is not a validation failure (e.g. malformed JSON).
func FieldErrors(err error) (out []FieldError, ok bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out, true
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
