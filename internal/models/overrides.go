package models

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"
)

type SkillOverrideKind string

const (
	SkillOverrideQuestionCount SkillOverrideKind = "question_count"
	SkillOverrideDifficulty    SkillOverrideKind = "difficulty"
	SkillOverrideTimeLimit     SkillOverrideKind = "time_limit"
)

// SkillOverride replaces one field of a skill configuration for a single
// student. Only the value matching Kind is read.
type SkillOverride struct {
	Kind             SkillOverrideKind `json:"kind"`
	QuestionCount    int               `json:"question_count,omitempty"`
	Difficulty       SkillDifficulty   `json:"difficulty,omitempty"`
	TimeLimitMinutes int               `json:"time_limit_minutes,omitempty"`
}

func QuestionCountOverride(count int) SkillOverride {
	return SkillOverride{Kind: SkillOverrideQuestionCount, QuestionCount: count}
}

func DifficultyOverride(difficulty SkillDifficulty) SkillOverride {
	return SkillOverride{Kind: SkillOverrideDifficulty, Difficulty: difficulty}
}

func SkillTimeLimitOverride(minutes int) SkillOverride {
	return SkillOverride{Kind: SkillOverrideTimeLimit, TimeLimitMinutes: minutes}
}

func (o SkillOverride) Validate() error {
	switch o.Kind {
	case SkillOverrideQuestionCount:
		if o.QuestionCount < 1 {
			return errors.New("question count must be at least 1")
		}
	case SkillOverrideDifficulty:
		if !o.Difficulty.IsValid() {
			return fmt.Errorf("unknown difficulty %q", o.Difficulty)
		}
	case SkillOverrideTimeLimit:
		if o.TimeLimitMinutes < 1 {
			return errors.New("time limit must be at least 1 minute")
		}
	default:
		return fmt.Errorf("unknown skill override kind %q", o.Kind)
	}
	return nil
}

func (o SkillOverride) Apply(cfg SkillConfig) SkillConfig {
	switch o.Kind {
	case SkillOverrideQuestionCount:
		cfg.QuestionCount = o.QuestionCount
	case SkillOverrideDifficulty:
		cfg.Difficulty = o.Difficulty
	case SkillOverrideTimeLimit:
		minutes := o.TimeLimitMinutes
		cfg.TimeLimitMinutes = &minutes
	}
	return cfg
}

type SettingOverrideKind string

const (
	SettingOverrideAttempts  SettingOverrideKind = "attempts_allowed"
	SettingOverrideTimeLimit SettingOverrideKind = "time_limit"
	SettingOverrideDueDate   SettingOverrideKind = "due_date"
)

// SettingOverride replaces one assignment-wide setting for a single student.
type SettingOverride struct {
	Kind             SettingOverrideKind `json:"kind"`
	AttemptsAllowed  int                 `json:"attempts_allowed,omitempty"`
	TimeLimitMinutes int                 `json:"time_limit_minutes,omitempty"`
	DueDate          *time.Time          `json:"due_date,omitempty"`
}

func AttemptsOverride(attempts int) SettingOverride {
	return SettingOverride{Kind: SettingOverrideAttempts, AttemptsAllowed: attempts}
}

func OverallTimeLimitOverride(minutes int) SettingOverride {
	return SettingOverride{Kind: SettingOverrideTimeLimit, TimeLimitMinutes: minutes}
}

func DueDateOverride(due time.Time) SettingOverride {
	return SettingOverride{Kind: SettingOverrideDueDate, DueDate: &due}
}

func (o SettingOverride) Validate() error {
	switch o.Kind {
	case SettingOverrideAttempts:
		if o.AttemptsAllowed < 1 {
			return errors.New("attempts allowed must be at least 1")
		}
	case SettingOverrideTimeLimit:
		if o.TimeLimitMinutes < 1 {
			return errors.New("time limit must be at least 1 minute")
		}
	case SettingOverrideDueDate:
		if o.DueDate == nil {
			return errors.New("due date is required")
		}
	default:
		return fmt.Errorf("unknown setting override kind %q", o.Kind)
	}
	return nil
}

func (o SettingOverride) Apply(s AssignmentSettings) AssignmentSettings {
	switch o.Kind {
	case SettingOverrideAttempts:
		s.AttemptsAllowed = o.AttemptsAllowed
	case SettingOverrideTimeLimit:
		minutes := o.TimeLimitMinutes
		s.TimeLimitMinutes = &minutes
	case SettingOverrideDueDate:
		s.DueDate = cloneTime(o.DueDate)
	}
	return s
}

// StudentOverride is the differentiation applied to one student.
type StudentOverride struct {
	SkillOverrides   map[string][]SkillOverride `json:"skill_overrides,omitempty"`
	SettingOverrides []SettingOverride          `json:"setting_overrides,omitempty"`
}

func (o StudentOverride) Clone() StudentOverride {
	out := StudentOverride{SettingOverrides: slices.Clone(o.SettingOverrides)}
	if o.SkillOverrides != nil {
		out.SkillOverrides = make(map[string][]SkillOverride, len(o.SkillOverrides))
		for skillID, overrides := range o.SkillOverrides {
			out.SkillOverrides[skillID] = slices.Clone(overrides)
		}
	}
	return out
}

func (o StudentOverride) IsEmpty() bool {
	return len(o.SkillOverrides) == 0 && len(o.SettingOverrides) == 0
}

// AssignmentSettings are the settings a single student ends up with.
type AssignmentSettings struct {
	StartDate        *time.Time `json:"start_date,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	TimeLimitMinutes *int       `json:"time_limit_minutes,omitempty"`
	AttemptsAllowed  int        `json:"attempts_allowed"`
}

// EffectiveAssignment is the draft resolved for one student with their
// overrides applied in declaration order.
type EffectiveAssignment struct {
	StudentID    string                 `json:"student_id"`
	SkillConfigs map[string]SkillConfig `json:"skill_configs"`
	Settings     AssignmentSettings     `json:"settings"`
	Overridden   bool                   `json:"overridden"`
}

func (d AssignmentDraft) EffectiveFor(studentID string) EffectiveAssignment {
	eff := EffectiveAssignment{
		StudentID:    studentID,
		SkillConfigs: cloneSkillConfigs(d.SkillConfigs),
		Settings: AssignmentSettings{
			StartDate:        cloneTime(d.StartDate),
			DueDate:          cloneTime(d.DueDate),
			TimeLimitMinutes: cloneInt(d.OverallTimeLimitMinutes),
			AttemptsAllowed:  d.AttemptsAllowed,
		},
	}

	override, ok := d.PerStudentOverrides[studentID]
	if !ok || override.IsEmpty() {
		return eff
	}
	eff.Overridden = true

	for _, skillID := range slices.Sorted(maps.Keys(override.SkillOverrides)) {
		cfg, ok := eff.SkillConfigs[skillID]
		if !ok {
			continue
		}
		for _, o := range override.SkillOverrides[skillID] {
			cfg = o.Apply(cfg)
		}
		eff.SkillConfigs[skillID] = cfg
	}
	for _, o := range override.SettingOverrides {
		eff.Settings = o.Apply(eff.Settings)
	}
	return eff
}

func (t AssignmentType) IsValid() bool {
	switch t {
	case TypePractice, TypeAssessment, TypePlacement, TypeQuiz:
		return true
	}
	return false
}

func (d SkillDifficulty) IsValid() bool {
	switch d {
	case SkillDifficultyEasy, SkillDifficultyMedium, SkillDifficultyHard, SkillDifficultyAdaptive:
		return true
	}
	return false
}
