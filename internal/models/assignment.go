package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AssignmentStatus string

const (
	StatusDraft     AssignmentStatus = "draft"
	StatusActive    AssignmentStatus = "active"
	StatusCompleted AssignmentStatus = "completed"
	StatusArchived  AssignmentStatus = "archived"
)

type Assignment struct {
	ID          string           `json:"id" gorm:"primaryKey;size:36"`
	ClassID     string           `json:"class_id" gorm:"not null;size:36;index"`
	Name        string           `json:"name" gorm:"not null;size:200"`
	Description string           `json:"description" gorm:"type:text"`
	Type        AssignmentType   `json:"type" gorm:"not null;size:20"`
	Status      AssignmentStatus `json:"status" gorm:"default:draft;size:20;index"`

	// Skills holds the per-skill configuration keyed by skill id.
	Skills        datatypes.JSON `json:"skills" gorm:"type:jsonb"`
	QuestionLimit int            `json:"question_limit"`

	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	TimeLimitMinutes   *int       `json:"time_limit_minutes"`
	AttemptsAllowed    int        `json:"attempts_allowed" gorm:"default:3"`
	ShowCorrectAnswers bool       `json:"show_correct_answers" gorm:"default:true"`
	ShuffleQuestions   bool       `json:"shuffle_questions" gorm:"default:false"`

	// Draft keeps the full wizard state so a saved draft can be reopened.
	Draft datatypes.JSON `json:"-" gorm:"type:jsonb"`

	CreatedBy string         `json:"created_by" gorm:"not null;size:255;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Targets      []AssignmentTarget   `json:"targets,omitempty" gorm:"foreignKey:AssignmentID"`
	Performances []StudentPerformance `json:"-" gorm:"foreignKey:AssignmentID"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// AssignmentTarget links an assignment to one student together with the
// student's resolved configuration.
type AssignmentTarget struct {
	ID           string         `json:"id" gorm:"primaryKey;size:36"`
	AssignmentID string         `json:"assignment_id" gorm:"not null;size:36;uniqueIndex:idx_target_assignment_student"`
	StudentID    string         `json:"student_id" gorm:"not null;size:36;uniqueIndex:idx_target_assignment_student"`
	Overridden   bool           `json:"overridden" gorm:"default:false"`
	Config       datatypes.JSON `json:"config" gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (AssignmentTarget) TableName() string {
	return "assignment_targets"
}

type StudentPerformance struct {
	ID                string     `json:"id" gorm:"primaryKey;size:36"`
	StudentID         string     `json:"student_id" gorm:"not null;size:36;index"`
	AssignmentID      string     `json:"assignment_id" gorm:"not null;size:36;index"`
	QuestionsAnswered int        `json:"questions_answered" gorm:"default:0"`
	CorrectAnswers    int        `json:"correct_answers" gorm:"default:0"`
	TimeSpent         int        `json:"time_spent" gorm:"default:0"` // seconds
	LastActivity      *time.Time `json:"last_activity"`
	Completed         bool       `json:"completed" gorm:"default:false"`
}

func (StudentPerformance) TableName() string {
	return "student_performance"
}

// AssignmentWithProgress is an assignment row joined with roster progress.
type AssignmentWithProgress struct {
	Assignment
	TotalStudents     int     `json:"total_students"`
	CompletedStudents int     `json:"completed_students"`
	AverageScore      float64 `json:"average_score"`
	AverageTime       float64 `json:"average_time"`
}
