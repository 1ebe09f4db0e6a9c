package wizard

import (
	"fmt"
	"slices"

	apperrors "github.com/SAP-F-2025/teacher-portal/internal/errors"
	"github.com/SAP-F-2025/teacher-portal/internal/models"
)

// CheckInvariants reports the cross-field violations of draft: configs and
// overrides must refer to selected skills and students. Field ranges are
// enforced by the struct validator; step gates are not checked here.
func CheckInvariants(d models.AssignmentDraft) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors

	for _, skillID := range sortedKeys(d.SkillConfigs) {
		if !d.HasSkill(skillID) {
			errs.AddRule(fmt.Sprintf("skill_configs[%s]", skillID), "skill is not selected", "subset", skillID)
		}
	}

	for _, studentID := range sortedKeys(d.PerStudentOverrides) {
		field := fmt.Sprintf("per_student_overrides[%s]", studentID)
		if !d.HasStudent(studentID) {
			errs.AddRule(field, "student is not selected", "subset", studentID)
			continue
		}
		override := d.PerStudentOverrides[studentID]
		for _, skillID := range sortedKeys(override.SkillOverrides) {
			skillPath := fmt.Sprintf("%s.skill_overrides[%s]", field, skillID)
			if !d.HasSkill(skillID) {
				errs.AddRule(skillPath, "skill is not selected", "subset", skillID)
				continue
			}
			for i, o := range override.SkillOverrides[skillID] {
				if err := o.Validate(); err != nil {
					errs.AddRule(fmt.Sprintf("%s[%d]", skillPath, i), err.Error(), string(o.Kind), o)
				}
			}
		}
		for i, o := range override.SettingOverrides {
			if err := o.Validate(); err != nil {
				errs.AddRule(fmt.Sprintf("%s.setting_overrides[%d]", field, i), err.Error(), string(o.Kind), o)
			}
		}
	}

	return errs
}

// CheckCatalog reports selected skills and students the class catalog does
// not offer.
func CheckCatalog(d models.AssignmentDraft, catalog models.Catalog) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors
	for _, skillID := range d.SelectedSkills {
		if _, ok := catalog.Skill(skillID); !ok {
			errs.AddRule(fmt.Sprintf("selected_skills[%s]", skillID), "skill is not offered for this class", "subset", skillID)
		}
	}
	for _, studentID := range d.SelectedStudents {
		if _, ok := catalog.Student(studentID); !ok {
			errs.AddRule(fmt.Sprintf("selected_students[%s]", studentID), "student is not in this class", "subset", studentID)
		}
	}
	return errs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
