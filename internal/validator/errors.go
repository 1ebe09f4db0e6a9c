package validator

import (
	ut "github.com/go-playground/universal-translator"

	"github.com/SAP-F-2025/teacher-portal/internal/errors"
)

// Use shared validation errors from errors package
type ValidationError = errors.ValidationError
type ValidationErrors = errors.ValidationErrors

// ToValidationErrors converts validator.ValidationErrors to our custom type
func ToValidationErrors(err error, trans ut.Translator) ValidationErrors {
	return errors.ToValidationErrors(err, trans)
}
