package wizard

import (
	"math"
	"time"

	"github.com/SAP-F-2025/teacher-portal/internal/models"
)

// DefaultSecondsPerQuestion is used for skills without catalog timing.
const DefaultSecondsPerQuestion = 90

// DefaultAssignmentWindow is the span between start and due date applied by
// the default settings.
const DefaultAssignmentWindow = 7 * 24 * time.Hour

type SkillSummary struct {
	SkillID          string                 `json:"skill_id"`
	Name             string                 `json:"name"`
	Category         string                 `json:"category"`
	QuestionCount    int                    `json:"question_count"`
	Difficulty       models.SkillDifficulty `json:"difficulty"`
	TimeLimitMinutes *int                   `json:"time_limit_minutes,omitempty"`
	EstimatedMinutes float64                `json:"estimated_minutes"`
}

type StudentSummary struct {
	models.StudentSummary
	Effective models.EffectiveAssignment `json:"effective"`
}

type Summary struct {
	TotalQuestions         int              `json:"total_questions"`
	EstimatedMinutes       float64          `json:"estimated_minutes"`
	SkillCount             int              `json:"skill_count"`
	StudentCount           int              `json:"student_count"`
	DifferentiatedStudents int              `json:"differentiated_students"`
	Skills                 []SkillSummary   `json:"skills"`
	Students               []StudentSummary `json:"students"`
}

// Summarize builds the review step overview of draft against catalog.
func Summarize(d models.AssignmentDraft, catalog models.Catalog) Summary {
	summary := Summary{
		SkillCount:   len(d.SelectedSkills),
		StudentCount: len(d.SelectedStudents),
		Skills:       make([]SkillSummary, 0, len(d.SelectedSkills)),
		Students:     make([]StudentSummary, 0, len(d.SelectedStudents)),
	}

	for _, skillID := range d.SelectedSkills {
		cfg := d.SkillConfigs[skillID]
		seconds := DefaultSecondsPerQuestion
		item := SkillSummary{
			SkillID:          skillID,
			Name:             skillID,
			QuestionCount:    cfg.QuestionCount,
			Difficulty:       cfg.Difficulty,
			TimeLimitMinutes: cfg.TimeLimitMinutes,
		}
		if skill, ok := catalog.Skill(skillID); ok {
			item.Name = skill.Name
			item.Category = skill.Category
			if skill.EstimatedTimePerQuestionSeconds > 0 {
				seconds = skill.EstimatedTimePerQuestionSeconds
			}
		}
		item.EstimatedMinutes = roundTenth(float64(cfg.QuestionCount*seconds) / 60)

		summary.TotalQuestions += cfg.QuestionCount
		summary.EstimatedMinutes += item.EstimatedMinutes
		summary.Skills = append(summary.Skills, item)
	}
	summary.EstimatedMinutes = roundTenth(summary.EstimatedMinutes)

	for _, studentID := range d.SelectedStudents {
		student, ok := catalog.Student(studentID)
		if !ok {
			student = models.StudentSummary{ID: studentID}
		}
		eff := d.EffectiveFor(studentID)
		if eff.Overridden {
			summary.DifferentiatedStudents++
		}
		summary.Students = append(summary.Students, StudentSummary{StudentSummary: student, Effective: eff})
	}

	return summary
}

// RecommendedSkillConfigs returns skill configs where every selected skill
// known to the catalog gets its recommended configuration. Other entries are
// kept as they are.
func RecommendedSkillConfigs(d models.AssignmentDraft, catalog models.Catalog) map[string]models.SkillConfig {
	configs := make(map[string]models.SkillConfig, len(d.SelectedSkills))
	for _, skillID := range d.SelectedSkills {
		if skill, ok := catalog.Skill(skillID); ok {
			configs[skillID] = skill.RecommendedConfig()
		} else if cfg, ok := d.SkillConfigs[skillID]; ok {
			configs[skillID] = cfg
		}
	}
	return configs
}

// DefaultSettingsPatch is the "use default settings" choice of the settings step.
func DefaultSettingsPatch(now time.Time) models.DraftPatch {
	attempts := models.DefaultAttemptsAllowed
	showAnswers := true
	shuffle := true
	return models.DraftPatch{
		StartDate:               models.NullableOf(now),
		DueDate:                 models.NullableOf(now.Add(DefaultAssignmentWindow)),
		OverallTimeLimitMinutes: models.Null[int](),
		AttemptsAllowed:         &attempts,
		ShowCorrectAnswers:      &showAnswers,
		ShuffleQuestions:        &shuffle,
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
