package errors

import (
	"errors"
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Fields returns the distinct field names in the order they were reported.
func (ve ValidationErrors) Fields() []string {
	seen := make(map[string]struct{}, len(ve))
	fields := make([]string, 0, len(ve))
	for _, e := range ve {
		if _, ok := seen[e.Field]; ok {
			continue
		}
		seen[e.Field] = struct{}{}
		fields = append(fields, e.Field)
	}
	return fields
}

// Add appends a field error.
func (ve *ValidationErrors) Add(field, message string, value interface{}) {
	*ve = append(*ve, ValidationError{Field: field, Message: message, Value: value})
}

// AddRule appends a field error tagged with the rule that produced it.
func (ve *ValidationErrors) AddRule(field, message, rule string, value interface{}) {
	*ve = append(*ve, ValidationError{Field: field, Message: message, Value: value, Rule: rule})
}

// OrNil returns nil for an empty collection so callers can return it as error.
func (ve ValidationErrors) OrNil() error {
	if len(ve) == 0 {
		return nil
	}
	return ve
}

func (pe *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", pe.Field, pe.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// NewValidationErrorWithRule creates a new validation error with rule
func NewValidationErrorWithRule(field, message, rule string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
		Rule:    rule,
	}
}

// ToValidationErrors converts validator.ValidationErrors to our custom type.
// The translator is optional; custom tags always use the messages below.
func ToValidationErrors(err error, trans ut.Translator) ValidationErrors {
	var result ValidationErrors

	var validatorErr validator.ValidationErrors
	if errors.As(err, &validatorErr) {
		for _, fe := range validatorErr {
			result = append(result, ValidationError{
				Field:   fieldPath(fe),
				Message: errorMessage(fe, trans),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
	}

	return result
}

// fieldPath drops the root struct name so nested fields read like
// "skill_configs[s1].difficulty".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func errorMessage(fe validator.FieldError, trans ut.Translator) string {
	if msg, ok := customMessages[fe.Tag()]; ok {
		return msg
	}
	if trans != nil {
		if msg := fe.Translate(trans); msg != "" {
			return msg
		}
	}
	return getErrorMessage(fe)
}

var customMessages = map[string]string{
	"assignment_type":  "must be Practice, Assessment, Placement, or Quiz",
	"skill_difficulty": "must be Easy, Medium, Hard, or Adaptive",
}

// getErrorMessage returns user-friendly error messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", err.Param())
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "gtfield":
		return fmt.Sprintf("must be after %s", err.Param())
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
