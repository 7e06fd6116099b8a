package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/idelchi/gogen/pkg/validator"
)

// registerExclusive adds a custom validator ensuring two fields are mutually exclusive.
// It registers both the validation logic and a human-readable error message,
// and reports fields by their flag label.
func registerExclusive(validator *validator.Validator) error {
	if err := validator.RegisterValidationAndTranslation(
		"exclusive",
		validateExclusive,
		"{0} is mutually exclusive with {1}",
	); err != nil {
		return fmt.Errorf("registering exclusive validation: %w", err)
	}

	validator.Validator().RegisterTagNameFunc(label)

	return nil
}

// validateExclusive checks if two fields are mutually exclusive.
// The parameter is the label of the other field.
// Returns false if both fields have non-empty values.
func validateExclusive(fl validator.FieldLevel) bool {
	field := fl.Field()
	otherField := sibling(fl.Parent(), fl.Param())

	if !field.IsValid() || !otherField.IsValid() {
		return true
	}

	if field.Kind() == reflect.String && otherField.Kind() == reflect.String {
		return field.String() == "" || otherField.String() == ""
	}

	return true
}

// sibling returns the field of parent labelled name, or the zero Value.
func sibling(parent reflect.Value, name string) reflect.Value {
	if parent.Kind() != reflect.Struct {
		return reflect.Value{}
	}

	for i := range parent.NumField() {
		if label(parent.Type().Field(i)) == name {
			return parent.Field(i)
		}
	}

	return reflect.Value{}
}

func label(fld reflect.StructField) string {
	const splitSize = 2

	name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]
	if name == "" || name == "-" {
		return fld.Name
	}

	return name
}
