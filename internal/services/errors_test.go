package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SAP-F-2025/teacher-portal/internal/wizard"
)

func TestErrorClassifiers(t *testing.T) {
	var fieldErrs ValidationErrors
	fieldErrs.Add("title", "is required", "")

	tests := []struct {
		name       string
		err        error
		notFound   bool
		forbidden  bool
		validation bool
		business   bool
		conflict   bool
	}{
		{name: "expired session", err: ErrSessionExpired, notFound: true},
		{name: "wrapped class not found", err: fmt.Errorf("open: %w", ErrClassNotFound), notFound: true},
		{name: "class access", err: ErrClassAccessDenied, forbidden: true},
		{name: "field errors", err: fieldErrs, validation: true},
		{name: "blocked step", err: errors.Join(ErrStepIncomplete, fieldErrs), validation: true, business: true},
		{name: "not on review", err: wizard.ErrNotOnReviewStep, business: true},
		{name: "in flight", err: ErrSubmissionInProgress, conflict: true},
		{name: "blank title", err: NewSubmissionError(OperationSaveDraft, "title is required", ErrTitleRequired), validation: true},
		{name: "saved draft already assigned", err: NewSubmissionError(OperationCreateAssignment, "assignment is no longer a draft", ErrAssignmentNotDraft), business: true},
		{name: "saved draft of another teacher", err: NewSubmissionError(OperationCreateAssignment, "access denied", ErrAssignmentAccessDenied), forbidden: true},
		{name: "unexpected", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFound(tt.err), "IsNotFound")
			assert.Equal(t, tt.forbidden, IsForbidden(tt.err), "IsForbidden")
			assert.Equal(t, tt.validation, IsValidation(tt.err), "IsValidation")
			assert.Equal(t, tt.business, IsBusinessRule(tt.err), "IsBusinessRule")
			assert.Equal(t, tt.conflict, IsConflict(tt.err), "IsConflict")
		})
	}
}

func TestSubmissionError(t *testing.T) {
	cause := errors.New("deadlock detected")
	err := fmt.Errorf("dispatch: %w", NewSubmissionError(OperationCreateAssignment, "failed to persist assignment", cause))

	se, ok := AsSubmissionError(err)
	assert.True(t, ok)
	assert.Equal(t, OperationCreateAssignment, se.Operation)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "create_assignment failed: failed to persist assignment: deadlock detected", se.Error())

	_, ok = AsSubmissionError(errors.New("other"))
	assert.False(t, ok)
}
