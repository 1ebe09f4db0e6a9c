package models

import (
	"time"

	"gorm.io/gorm"
)

type Subject string

const (
	SubjectMath    Subject = "math"
	SubjectEnglish Subject = "english"
)

type Class struct {
	ID         string         `json:"id" gorm:"primaryKey;size:36"`
	TeacherID  string         `json:"teacher_id" gorm:"not null;size:255;index"`
	Name       string         `json:"name" gorm:"not null;size:100"`
	Grade      int            `json:"grade" gorm:"not null"`
	Subject    Subject        `json:"subject" gorm:"not null;size:20"`
	ClassCode  string         `json:"class_code" gorm:"uniqueIndex;size:20"`
	SchoolYear *string        `json:"school_year" gorm:"size:20"`
	Archived   bool           `json:"archived" gorm:"default:false"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Class) TableName() string {
	return "classes"
}

type Student struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	FirstName   string     `json:"first_name" gorm:"not null;size:100"`
	LastInitial string     `json:"last_initial" gorm:"not null;size:1"`
	Username    string     `json:"username" gorm:"uniqueIndex;not null;size:100"`
	CreatedAt   time.Time  `json:"created_at"`
	LastActive  *time.Time `json:"last_active"`
}

func (Student) TableName() string {
	return "students"
}

type EnrollmentStatus string

const (
	EnrollmentActive   EnrollmentStatus = "active"
	EnrollmentInactive EnrollmentStatus = "inactive"
)

type ClassEnrollment struct {
	ID         string           `json:"id" gorm:"primaryKey;size:36"`
	ClassID    string           `json:"class_id" gorm:"not null;size:36;index"`
	StudentID  string           `json:"student_id" gorm:"not null;size:36;index"`
	EnrolledAt time.Time        `json:"enrolled_at"`
	Status     EnrollmentStatus `json:"status" gorm:"default:active;size:20"`

	Student Student `json:"student" gorm:"foreignKey:StudentID"`
}

func (ClassEnrollment) TableName() string {
	return "class_enrollments"
}

type StudentActivity struct {
	ID                  string     `json:"id" gorm:"primaryKey;size:36"`
	StudentID           string     `json:"student_id" gorm:"not null;size:36;index"`
	ClassID             string     `json:"class_id" gorm:"not null;size:36;index"`
	Online              bool       `json:"online" gorm:"default:false"`
	LastSeen            *time.Time `json:"last_seen"`
	CurrentAssignmentID *string    `json:"current_assignment_id" gorm:"size:36"`
}

func (StudentActivity) TableName() string {
	return "student_activity"
}
