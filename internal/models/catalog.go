package models

import "time"

// Skill is a curriculum unit that can be assigned.
type Skill struct {
	ID                              string          `json:"id" gorm:"primaryKey;size:64"`
	Name                            string          `json:"name" gorm:"not null;size:200"`
	Description                     string          `json:"description" gorm:"type:text"`
	Category                        string          `json:"category" gorm:"not null;size:100;index"`
	Grade                           int             `json:"grade" gorm:"not null;index"`
	Difficulty                      SkillDifficulty `json:"difficulty" gorm:"size:20"`
	RecommendedQuestions            int             `json:"recommended_questions" gorm:"default:10"`
	EstimatedTimePerQuestionSeconds int             `json:"estimated_time_per_question_seconds" gorm:"default:60"`
}

func (Skill) TableName() string {
	return "skills"
}

// RecommendedConfig is the configuration a freshly selected skill starts with.
func (s Skill) RecommendedConfig() SkillConfig {
	cfg := SkillConfig{
		QuestionCount: s.RecommendedQuestions,
		Difficulty:    SkillDifficultyAdaptive,
	}
	if s.RecommendedQuestions > 0 && s.EstimatedTimePerQuestionSeconds > 0 {
		seconds := s.RecommendedQuestions * s.EstimatedTimePerQuestionSeconds
		minutes := (seconds + 59) / 60
		cfg.TimeLimitMinutes = &minutes
	}
	return cfg
}

// StudentSummary is a roster entry as shown in the wizard.
type StudentSummary struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"first_name"`
	LastInitial string     `json:"last_initial"`
	Username    string     `json:"username"`
	IsOnline    bool       `json:"is_online"`
	LastPlayed  *time.Time `json:"last_played"`
}

func (s StudentSummary) DisplayName() string {
	if s.LastInitial == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastInitial + "."
}

// Catalog is the read-only data a wizard session works against.
type Catalog struct {
	Skills   []Skill          `json:"skills"`
	Students []StudentSummary `json:"students"`
}

func (c Catalog) Skill(id string) (Skill, bool) {
	for _, s := range c.Skills {
		if s.ID == id {
			return s, true
		}
	}
	return Skill{}, false
}

func (c Catalog) Student(id string) (StudentSummary, bool) {
	for _, s := range c.Students {
		if s.ID == id {
			return s, true
		}
	}
	return StudentSummary{}, false
}
