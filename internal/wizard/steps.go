package wizard

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/SAP-F-2025/teacher-portal/internal/errors"
	"github.com/SAP-F-2025/teacher-portal/internal/models"
)

// StepValidator reports the field errors blocking a step.
type StepValidator func(draft models.AssignmentDraft) apperrors.ValidationErrors

var validators = map[Step]StepValidator{
	StepBasicInfo:   validateBasicInfo,
	StepSkillConfig: validateSkillConfig,
	StepSettings:    validateSettings,
	StepStudents:    validateStudents,
	StepReview:      validateReview,
}

// ValidateStep returns the errors that keep draft from leaving step.
func ValidateStep(step Step, draft models.AssignmentDraft) apperrors.ValidationErrors {
	v, ok := validators[step]
	if !ok {
		return apperrors.ValidationErrors{{Field: "step", Message: fmt.Sprintf("unknown step %d", step), Value: int(step)}}
	}
	return v(draft)
}

// CanProceed is the boolean form of ValidateStep.
func CanProceed(step Step, draft models.AssignmentDraft) bool {
	return len(ValidateStep(step, draft)) == 0
}

// ValidateAll runs every step validator in order.
func ValidateAll(draft models.AssignmentDraft) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors
	for step := FirstStep; step <= LastStep; step++ {
		errs = append(errs, ValidateStep(step, draft)...)
	}
	return errs
}

func validateBasicInfo(d models.AssignmentDraft) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors
	if strings.TrimSpace(d.Title) == "" {
		errs.AddRule("title", "is required", "required", d.Title)
	}
	if len(d.SelectedSkills) == 0 {
		errs.AddRule("selected_skills", "select at least one skill", "min", 0)
	}
	return errs
}

// An empty selection passes vacuously; step 1 already requires a skill.
func validateSkillConfig(d models.AssignmentDraft) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors
	for _, skillID := range d.SelectedSkills {
		cfg, ok := d.SkillConfigs[skillID]
		if !ok || cfg.QuestionCount < 1 {
			errs.AddRule(skillField(skillID, "question_count"), "must be at least 1", "min", cfg.QuestionCount)
		}
	}
	return errs
}

func validateSettings(d models.AssignmentDraft) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors
	if d.DueDate == nil {
		errs.AddRule("due_date", "is required", "required", nil)
		return errs
	}
	if d.StartDate != nil && !d.DueDate.After(*d.StartDate) {
		errs.AddRule("due_date", "must be after the start date", "gtfield", d.DueDate)
	}
	return errs
}

func validateStudents(d models.AssignmentDraft) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors
	if len(d.SelectedStudents) == 0 {
		errs.AddRule("selected_students", "select at least one student", "min", 0)
	}
	return errs
}

func validateReview(models.AssignmentDraft) apperrors.ValidationErrors {
	return nil
}

// Warning is a non-blocking notice shown next to a field.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Warnings reports questionable but accepted settings.
func Warnings(d models.AssignmentDraft, now time.Time) []Warning {
	var warnings []Warning
	if d.DueDate != nil && d.DueDate.Before(now) {
		warnings = append(warnings, Warning{Field: "due_date", Message: "due date is in the past"})
	}
	if d.OverallTimeLimitMinutes != nil {
		for _, skillID := range d.SelectedSkills {
			cfg, ok := d.SkillConfigs[skillID]
			if !ok || cfg.TimeLimitMinutes == nil {
				continue
			}
			if *cfg.TimeLimitMinutes > *d.OverallTimeLimitMinutes {
				warnings = append(warnings, Warning{
					Field:   skillField(skillID, "time_limit_minutes"),
					Message: fmt.Sprintf("skill time limit exceeds the overall limit of %d minutes", *d.OverallTimeLimitMinutes),
				})
			}
		}
	}
	return warnings
}

func skillField(skillID, field string) string {
	return fmt.Sprintf("skill_configs[%s].%s", skillID, field)
}
