package contract

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is a wrapper around go-playground/validator that reports
// fields by their configuration key.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate validates a struct using validation tags.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		rule := e.Tag()
		if e.Param() != "" {
			rule += "=" + e.Param()
		}
		messages = append(messages, fmt.Sprintf("%s failed %s (received %v)", e.Field(), rule, e.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}
