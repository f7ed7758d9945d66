package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes the first failing field of a request
type FieldError struct {
	Field   string
	Message string
	all     []string
}

func (e *FieldError) Error() string { return strings.Join(e.all, "; ") }

type Validator struct {
	validate *validator.Validate
	enums    map[string]bool
}

func NewValidator() *Validator {
	v := validator.New()

	// Use JSON tag names instead of struct field names for error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})

	return &Validator{
		validate: v,
		enums:    make(map[string]bool),
	}
}

// RegisterEnum adds a string validation tag backed by valid. Failures read
// "<field> must be a valid <tag>".
func (v *Validator) RegisterEnum(tag string, valid func(string) bool) error {
	err := v.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return valid(fl.Field().String())
	})
	if err != nil {
		return err
	}
	v.enums[tag] = true
	return nil
}

// Validate returns a *FieldError when i fails struct validation
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.formatValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *Validator) formatValidationErrors(errs validator.ValidationErrors) error {
	result := &FieldError{}
	for _, err := range errs {
		field := err.Field()
		message := v.fieldMessage(field, err)
		if result.Field == "" {
			result.Field = field
			result.Message = message
		}
		result.all = append(result.all, message)
	}
	return result
}

func (v *Validator) fieldMessage(field string, err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, err.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, err.Param())
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, err.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, err.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, err.Param())
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, err.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, toSnake(err.Param()))
	}
	if v.enums[err.Tag()] {
		return fmt.Sprintf("%s must be a valid %s", field, err.Tag())
	}
	return fmt.Sprintf("%s failed validation for %s", field, err.Tag())
}

// toSnake converts a Go field name such as PasswordConfirm to password_confirm
func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
