package postgres

import (
	"context"

	"github.com/SAP-F-2025/teacher-portal/internal/models"
	"github.com/SAP-F-2025/teacher-portal/internal/repositories"
	"gorm.io/gorm"
)

type ClassPostgreSQL struct {
	base
}

func NewClassPostgreSQL(db *gorm.DB) repositories.ClassRepository {
	return &ClassPostgreSQL{base{db: db}}
}

func (c *ClassPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Class, error) {
	db := c.getDB(tx)
	var class models.Class
	if err := db.WithContext(ctx).Where("id = ?", id).First(&class).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

func (c *ClassPostgreSQL) IsOwner(ctx context.Context, tx *gorm.DB, classID, teacherID string) (bool, error) {
	db := c.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.Class{}).
		Where("id = ? AND teacher_id = ?", classID, teacherID).
		Count(&count).Error
	return count > 0, err
}

type CatalogPostgreSQL struct {
	base
}

func NewCatalogPostgreSQL(db *gorm.DB) repositories.CatalogRepository {
	return &CatalogPostgreSQL{base{db: db}}
}

// ListSkills returns the skills of grade ordered by category then name.
func (c *CatalogPostgreSQL) ListSkills(ctx context.Context, tx *gorm.DB, grade int) ([]models.Skill, error) {
	db := c.getDB(tx)
	var skills []models.Skill
	err := db.WithContext(ctx).
		Where("grade = ?", grade).
		Order("category ASC, name ASC").
		Find(&skills).Error
	return skills, err
}

// ListClassStudents returns the active roster of a class with presence data.
func (c *CatalogPostgreSQL) ListClassStudents(ctx context.Context, tx *gorm.DB, classID string) ([]models.StudentSummary, error) {
	db := c.getDB(tx)
	var students []models.StudentSummary
	err := db.WithContext(ctx).
		Table("class_enrollments AS e").
		Select(`s.id, s.first_name, s.last_initial, s.username,
			COALESCE(sa.online, false) AS is_online,
			sa.last_seen AS last_played`).
		Joins("JOIN students AS s ON s.id = e.student_id").
		Joins("LEFT JOIN student_activity AS sa ON sa.student_id = s.id AND sa.class_id = e.class_id").
		Where("e.class_id = ? AND e.status = ?", classID, models.EnrollmentActive).
		Order("s.first_name ASC, s.last_initial ASC").
		Scan(&students).Error
	return students, err
}
