package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/teacher-portal/internal/models"
	"github.com/SAP-F-2025/teacher-portal/internal/repositories"
	"gorm.io/gorm"
)

// targetBatchSize bounds the rows per INSERT for large rosters.
const targetBatchSize = 200

type AssignmentPostgreSQL struct {
	base
}

func NewAssignmentPostgreSQL(db *gorm.DB) repositories.AssignmentRepository {
	return &AssignmentPostgreSQL{base{db: db}}
}

func (a *AssignmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	db := a.getDB(tx)
	if err := db.WithContext(ctx).Omit("Targets", "Performances").Create(assignment).Error; err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

func (a *AssignmentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	db := a.getDB(tx)
	result := db.WithContext(ctx).Omit("Targets", "Performances", "CreatedAt").Save(assignment)
	if result.Error != nil {
		return fmt.Errorf("failed to update assignment: %w", result.Error)
	}
	return nil
}

func (a *AssignmentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Assignment, error) {
	db := a.getDB(tx)
	var assignment models.Assignment
	if err := db.WithContext(ctx).Where("id = ?", id).First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (a *AssignmentPostgreSQL) CreateTargets(ctx context.Context, tx *gorm.DB, targets []models.AssignmentTarget) error {
	if len(targets) == 0 {
		return nil
	}
	db := a.getDB(tx)
	if err := db.WithContext(ctx).CreateInBatches(targets, targetBatchSize).Error; err != nil {
		return fmt.Errorf("failed to create assignment targets: %w", err)
	}
	return nil
}

func (a *AssignmentPostgreSQL) CreatePerformances(ctx context.Context, tx *gorm.DB, performances []models.StudentPerformance) error {
	if len(performances) == 0 {
		return nil
	}
	db := a.getDB(tx)
	if err := db.WithContext(ctx).CreateInBatches(performances, targetBatchSize).Error; err != nil {
		return fmt.Errorf("failed to create student performance rows: %w", err)
	}
	return nil
}

// ListByClass returns the class assignments, newest first, with roster progress.
func (a *AssignmentPostgreSQL) ListByClass(ctx context.Context, tx *gorm.DB, classID string, filters repositories.AssignmentFilters) ([]*models.AssignmentWithProgress, error) {
	var rows []*models.AssignmentWithProgress
	if err := a.listQuery(a.getDB(tx).WithContext(ctx), classID, filters).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (a *AssignmentPostgreSQL) listQuery(db *gorm.DB, classID string, filters repositories.AssignmentFilters) *gorm.DB {
	query := db.Table("assignments AS a").
		Select(`a.*,
			COUNT(DISTINCT t.student_id) AS total_students,
			COUNT(DISTINCT CASE WHEN p.completed THEN p.student_id END) AS completed_students,
			COALESCE(SUM(p.correct_answers) * 100.0 / NULLIF(SUM(p.questions_answered), 0), 0) AS average_score,
			COALESCE(AVG(p.time_spent), 0) AS average_time`).
		Joins("LEFT JOIN assignment_targets AS t ON t.assignment_id = a.id").
		Joins("LEFT JOIN student_performance AS p ON p.assignment_id = a.id AND p.student_id = t.student_id").
		Where("a.class_id = ? AND a.deleted_at IS NULL", classID)

	if filters.Status != nil {
		query = query.Where("a.status = ?", *filters.Status)
	}

	query = query.Group("a.id").Order("a.created_at DESC")

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
