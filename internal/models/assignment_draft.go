package models

import (
	"slices"
	"time"
)

type AssignmentType string

const (
	TypePractice   AssignmentType = "Practice"
	TypeAssessment AssignmentType = "Assessment"
	TypePlacement  AssignmentType = "Placement"
	TypeQuiz       AssignmentType = "Quiz"
)

type SkillDifficulty string

const (
	SkillDifficultyEasy     SkillDifficulty = "Easy"
	SkillDifficultyMedium   SkillDifficulty = "Medium"
	SkillDifficultyHard     SkillDifficulty = "Hard"
	SkillDifficultyAdaptive SkillDifficulty = "Adaptive"
)

// Draft defaults restored on reset.
const (
	DefaultAttemptsAllowed    = 3
	DefaultShowCorrectAnswers = true
	DefaultShuffleQuestions   = false
	DefaultAssignmentType     = TypePractice
)

type SkillConfig struct {
	QuestionCount    int             `json:"question_count" validate:"min=0"`
	Difficulty       SkillDifficulty `json:"difficulty" validate:"skill_difficulty"`
	TimeLimitMinutes *int            `json:"time_limit_minutes,omitempty" validate:"omitempty,min=1"`
}

// AssignmentDraft is the form state collected by the assignment wizard.
type AssignmentDraft struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Type        AssignmentType `json:"type" validate:"assignment_type"`

	SelectedSkills []string               `json:"selected_skills"`
	SkillConfigs   map[string]SkillConfig `json:"skill_configs" validate:"dive"`

	StartDate               *time.Time `json:"start_date"`
	DueDate                 *time.Time `json:"due_date"`
	OverallTimeLimitMinutes *int       `json:"overall_time_limit_minutes" validate:"omitempty,min=1"`
	AttemptsAllowed         int        `json:"attempts_allowed" validate:"min=1"`
	ShowCorrectAnswers      bool       `json:"show_correct_answers"`
	ShuffleQuestions        bool       `json:"shuffle_questions"`

	SelectedStudents    []string                   `json:"selected_students"`
	PerStudentOverrides map[string]StudentOverride `json:"per_student_overrides"`

	IsDraft bool `json:"is_draft"`
}

// NewAssignmentDraft returns a draft holding the documented defaults.
func NewAssignmentDraft() AssignmentDraft {
	return AssignmentDraft{
		Type:                DefaultAssignmentType,
		SelectedSkills:      []string{},
		SkillConfigs:        map[string]SkillConfig{},
		AttemptsAllowed:     DefaultAttemptsAllowed,
		ShowCorrectAnswers:  DefaultShowCorrectAnswers,
		ShuffleQuestions:    DefaultShuffleQuestions,
		SelectedStudents:    []string{},
		PerStudentOverrides: map[string]StudentOverride{},
	}
}

// DraftPatch is a partial draft. Absent fields are left untouched by a merge.
type DraftPatch struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=1000"`
	Type        *AssignmentType `json:"type,omitempty" validate:"omitempty,assignment_type"`

	SelectedSkills *[]string               `json:"selected_skills,omitempty"`
	SkillConfigs   *map[string]SkillConfig `json:"skill_configs,omitempty" validate:"omitempty,dive"`

	StartDate               Nullable[time.Time] `json:"start_date"`
	DueDate                 Nullable[time.Time] `json:"due_date"`
	OverallTimeLimitMinutes Nullable[int]       `json:"overall_time_limit_minutes" validate:"omitempty,min=1"`
	AttemptsAllowed         *int                `json:"attempts_allowed,omitempty" validate:"omitempty,min=1"`
	ShowCorrectAnswers      *bool               `json:"show_correct_answers,omitempty"`
	ShuffleQuestions        *bool               `json:"shuffle_questions,omitempty"`

	SelectedStudents    *[]string                   `json:"selected_students,omitempty"`
	PerStudentOverrides *map[string]StudentOverride `json:"per_student_overrides,omitempty"`

	IsDraft *bool `json:"is_draft,omitempty"`
}

// Merge applies p one level deep and returns the result. Nested maps and
// sets are replaced wholesale; the receiver is not modified.
func (d AssignmentDraft) Merge(p DraftPatch) AssignmentDraft {
	out := d.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.SelectedSkills != nil {
		out.SelectedSkills = uniqueIDs(*p.SelectedSkills)
	}
	if p.SkillConfigs != nil {
		out.SkillConfigs = cloneSkillConfigs(*p.SkillConfigs)
	}
	if p.StartDate.Set {
		out.StartDate = cloneTime(p.StartDate.Value)
	}
	if p.DueDate.Set {
		out.DueDate = cloneTime(p.DueDate.Value)
	}
	if p.OverallTimeLimitMinutes.Set {
		out.OverallTimeLimitMinutes = cloneInt(p.OverallTimeLimitMinutes.Value)
	}
	if p.AttemptsAllowed != nil {
		out.AttemptsAllowed = *p.AttemptsAllowed
	}
	if p.ShowCorrectAnswers != nil {
		out.ShowCorrectAnswers = *p.ShowCorrectAnswers
	}
	if p.ShuffleQuestions != nil {
		out.ShuffleQuestions = *p.ShuffleQuestions
	}
	if p.SelectedStudents != nil {
		out.SelectedStudents = uniqueIDs(*p.SelectedStudents)
	}
	if p.PerStudentOverrides != nil {
		out.PerStudentOverrides = cloneOverrides(*p.PerStudentOverrides)
	}
	if p.IsDraft != nil {
		out.IsDraft = *p.IsDraft
	}
	return out
}

// Clone returns a deep copy so callers can't alias the store's maps.
func (d AssignmentDraft) Clone() AssignmentDraft {
	out := d
	out.SelectedSkills = uniqueIDs(d.SelectedSkills)
	out.SelectedStudents = uniqueIDs(d.SelectedStudents)
	out.SkillConfigs = cloneSkillConfigs(d.SkillConfigs)
	out.PerStudentOverrides = cloneOverrides(d.PerStudentOverrides)
	out.StartDate = cloneTime(d.StartDate)
	out.DueDate = cloneTime(d.DueDate)
	out.OverallTimeLimitMinutes = cloneInt(d.OverallTimeLimitMinutes)
	return out
}

func (d AssignmentDraft) HasSkill(skillID string) bool {
	return slices.Contains(d.SelectedSkills, skillID)
}

func (d AssignmentDraft) HasStudent(studentID string) bool {
	return slices.Contains(d.SelectedStudents, studentID)
}

// TotalQuestions sums the configured question count of the selected skills.
func (d AssignmentDraft) TotalQuestions() int {
	total := 0
	for _, skillID := range d.SelectedSkills {
		total += d.SkillConfigs[skillID].QuestionCount
	}
	return total
}

func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func cloneSkillConfigs(in map[string]SkillConfig) map[string]SkillConfig {
	out := make(map[string]SkillConfig, len(in))
	for k, v := range in {
		v.TimeLimitMinutes = cloneInt(v.TimeLimitMinutes)
		out[k] = v
	}
	return out
}

func cloneOverrides(in map[string]StudentOverride) map[string]StudentOverride {
	out := make(map[string]StudentOverride, len(in))
	for k, v := range in {
		out[k] = v.Clone()
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
