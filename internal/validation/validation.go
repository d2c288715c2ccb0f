// Package validation wraps a shared go-playground/validator instance and turns
// its field errors into short, client-safe messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Error is returned when a struct fails validation. Message lists every
// failing field in declaration order.
type Error struct {
	Fields  []string
	Message string
}

func (e *Error) Error() string { return e.Message }

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Struct validates s and returns *Error on failure.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Message: err.Error()}
	}
	out := &Error{}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out.Fields = append(out.Fields, fe.Field())
		msgs = append(msgs, message(fe))
	}
	out.Message = strings.Join(msgs, "; ")
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "datetime":
		switch fe.Param() {
		case "2006-01-02":
			return fmt.Sprintf("%s must match YYYY-MM-DD", field)
		case "15:04":
			return fmt.Sprintf("%s must match HH:MM", field)
		}
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Fail builds an Error for a rule checked outside struct tags.
func Fail(field, msg string) *Error {
	return &Error{Fields: []string{field}, Message: msg}
}
