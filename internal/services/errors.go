package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/teacher-portal/internal/errors"
	"github.com/SAP-F-2025/teacher-portal/internal/wizard"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Class errors
	ErrClassNotFound     = errors.New("class not found")
	ErrClassAccessDenied = errors.New("access denied to class")

	// Wizard session errors
	ErrSessionNotFound      = errors.New("wizard session not found")
	ErrSessionExpired       = errors.New("wizard session expired")
	ErrStepIncomplete       = errors.New("current step is incomplete")
	ErrSubmissionInProgress = errors.New("a submission is already in progress")

	// Assignment errors
	ErrAssignmentNotFound     = errors.New("assignment not found")
	ErrAssignmentNotDraft     = errors.New("assignment is not a draft")
	ErrAssignmentAccessDenied = errors.New("access denied to assignment")
	ErrTitleRequired          = errors.New("title is required")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type SubmissionOperation string

const (
	OperationSaveDraft        SubmissionOperation = "save_draft"
	OperationCreateAssignment SubmissionOperation = "create_assignment"
)

// SubmissionError reports a failed save or create. The wizard state is left
// as it was before the attempt.
type SubmissionError struct {
	Operation SubmissionOperation `json:"operation"`
	Reason    string              `json:"reason"`
	Err       error               `json:"-"`
}

func (se *SubmissionError) Error() string {
	if se.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", se.Operation, se.Reason, se.Err)
	}
	return fmt.Sprintf("%s failed: %s", se.Operation, se.Reason)
}

func (se *SubmissionError) Unwrap() error {
	return se.Err
}

// ===== ERROR HELPERS =====

func NewSubmissionError(op SubmissionOperation, reason string, err error) *SubmissionError {
	return &SubmissionError{Operation: op, Reason: reason, Err: err}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrClassNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrAssignmentNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden checks if error represents missing access to a resource
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrClassAccessDenied) ||
		errors.Is(err, ErrAssignmentAccessDenied)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrTitleRequired) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrStepIncomplete) ||
		errors.Is(err, ErrAssignmentNotDraft) ||
		errors.Is(err, wizard.ErrNotOnReviewStep) ||
		errors.Is(err, wizard.ErrDraftIncomplete)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrSubmissionInProgress)
}

// AsSubmissionError extracts the submission failure from err, if any.
func AsSubmissionError(err error) (*SubmissionError, bool) {
	var se *SubmissionError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func asValidationErrors(err error, target *ValidationErrors) bool {
	return errors.As(err, target)
}
