package repositories

import (
	"context"

	"github.com/SAP-F-2025/teacher-portal/internal/models"
	"gorm.io/gorm"
)

type AssignmentFilters struct {
	Status *models.AssignmentStatus `json:"status"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

// AssignmentRepository interface for assignment persistence
type AssignmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error
	Update(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Assignment, error)

	// Roster rows written when an assignment goes live
	CreateTargets(ctx context.Context, tx *gorm.DB, targets []models.AssignmentTarget) error
	CreatePerformances(ctx context.Context, tx *gorm.DB, performances []models.StudentPerformance) error

	ListByClass(ctx context.Context, tx *gorm.DB, classID string, filters AssignmentFilters) ([]*models.AssignmentWithProgress, error)
}
