package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"storefront/internal/usecase"

	"github.com/go-playground/validator/v10"
)

var nicknamePattern = regexp.MustCompile(`^[\p{L}\p{N}_-]+$`)

// RequestValidator plugs go-playground/validator into echo's Validator hook.
// Failures come back as usecase.Invalid so handlers treat them like any other 400.
type RequestValidator struct {
	v *validator.Validate
}

func New() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	_ = v.RegisterValidation("nickname", func(fl validator.FieldLevel) bool {
		return nicknamePattern.MatchString(fl.Field().String())
	})

	return &RequestValidator{v: v}
}

func (rv *RequestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return usecase.Invalid(err.Error())
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, message(fe))
	}
	return usecase.Invalid(strings.Join(msgs, "; "))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, fe.Param())
	case "eqfield":
		return "Passwords do not match"
	case "nickname":
		return fmt.Sprintf("%s may only contain letters, digits, '_' and '-'", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}
