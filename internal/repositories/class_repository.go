package repositories

import (
	"context"

	"github.com/SAP-F-2025/teacher-portal/internal/models"
	"gorm.io/gorm"
)

// ClassRepository interface for class lookups (the portal does not own class data)
type ClassRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Class, error)
	IsOwner(ctx context.Context, tx *gorm.DB, classID, teacherID string) (bool, error)
}

// CatalogRepository serves the read-only data the assignment wizard picks from
type CatalogRepository interface {
	ListSkills(ctx context.Context, tx *gorm.DB, grade int) ([]models.Skill, error)
	ListClassStudents(ctx context.Context, tx *gorm.DB, classID string) ([]models.StudentSummary, error)
}
