package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/teacher-portal/internal/models"
	"github.com/SAP-F-2025/teacher-portal/internal/repositories"
)

// dryRunDB builds statements without a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestAssignmentPostgreSQL_ListQuery(t *testing.T) {
	db := dryRunDB(t)
	repo := &AssignmentPostgreSQL{base{db: db}}

	t.Run("without filters", func(t *testing.T) {
		sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
			var rows []*models.AssignmentWithProgress
			return repo.listQuery(tx, "class-1", repositories.AssignmentFilters{}).Scan(&rows)
		})

		assert.Contains(t, sql, "FROM assignments AS a")
		assert.Contains(t, sql, "LEFT JOIN assignment_targets AS t")
		assert.Contains(t, sql, "a.class_id = 'class-1'")
		assert.Contains(t, sql, `GROUP BY "a"."id"`)
		assert.Contains(t, sql, "SUM(p.correct_answers) * 100.0 / NULLIF(SUM(p.questions_answered), 0)")
		assert.Contains(t, sql, "COALESCE(AVG(p.time_spent), 0) AS average_time")
		assert.Contains(t, sql, "ORDER BY a.created_at DESC")
		assert.NotContains(t, sql, "LIMIT")
	})

	t.Run("status and paging", func(t *testing.T) {
		status := models.StatusActive
		sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
			var rows []*models.AssignmentWithProgress
			return repo.listQuery(tx, "class-1", repositories.AssignmentFilters{Status: &status, Limit: 10, Offset: 20}).Scan(&rows)
		})

		assert.Contains(t, sql, "a.status = 'active'")
		assert.Contains(t, sql, "LIMIT 10")
		assert.Contains(t, sql, "OFFSET 20")
	})
}

func TestBase_GetDB(t *testing.T) {
	db := dryRunDB(t)
	b := base{db: db}
	tx := db.Session(&gorm.Session{})

	assert.Same(t, db, b.getDB(nil))
	assert.Same(t, tx, b.getDB(tx))
}
