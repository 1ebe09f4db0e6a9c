package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/teacher-portal/internal/models"
	"github.com/SAP-F-2025/teacher-portal/internal/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stringPtr(s string) *string { return &s }
func intPtr(i int) *int          { return &i }

// MockAssignmentRepository is a mock implementation of AssignmentRepository
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	args := m.Called(ctx, tx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Update(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	args := m.Called(ctx, tx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Assignment, error) {
	args := m.Called(ctx, tx, id)
	if a := args.Get(0); a != nil {
		return a.(*models.Assignment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAssignmentRepository) CreateTargets(ctx context.Context, tx *gorm.DB, targets []models.AssignmentTarget) error {
	args := m.Called(ctx, tx, targets)
	return args.Error(0)
}

func (m *MockAssignmentRepository) CreatePerformances(ctx context.Context, tx *gorm.DB, performances []models.StudentPerformance) error {
	args := m.Called(ctx, tx, performances)
	return args.Error(0)
}

func (m *MockAssignmentRepository) ListByClass(ctx context.Context, tx *gorm.DB, classID string, filters repositories.AssignmentFilters) ([]*models.AssignmentWithProgress, error) {
	args := m.Called(ctx, tx, classID, filters)
	if rows := args.Get(0); rows != nil {
		return rows.([]*models.AssignmentWithProgress), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockClassRepository is a mock implementation of ClassRepository
type MockClassRepository struct {
	mock.Mock
}

func (m *MockClassRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Class, error) {
	args := m.Called(ctx, tx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Class), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClassRepository) IsOwner(ctx context.Context, tx *gorm.DB, classID, teacherID string) (bool, error) {
	args := m.Called(ctx, tx, classID, teacherID)
	return args.Bool(0), args.Error(1)
}

// MockCatalogRepository is a mock implementation of CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListSkills(ctx context.Context, tx *gorm.DB, grade int) ([]models.Skill, error) {
	args := m.Called(ctx, tx, grade)
	return args.Get(0).([]models.Skill), args.Error(1)
}

func (m *MockCatalogRepository) ListClassStudents(ctx context.Context, tx *gorm.DB, classID string) ([]models.StudentSummary, error) {
	args := m.Called(ctx, tx, classID)
	return args.Get(0).([]models.StudentSummary), args.Error(1)
}

// MockRepository is a mock implementation of the main Repository interface.
// WithTransaction runs fn directly with a nil transaction.
type MockRepository struct {
	mock.Mock
	assignmentRepo *MockAssignmentRepository
	classRepo      *MockClassRepository
	catalogRepo    *MockCatalogRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		assignmentRepo: &MockAssignmentRepository{},
		classRepo:      &MockClassRepository{},
		catalogRepo:    &MockCatalogRepository{},
	}
}

func (m *MockRepository) Assignment() repositories.AssignmentRepository { return m.assignmentRepo }
func (m *MockRepository) Class() repositories.ClassRepository           { return m.classRepo }
func (m *MockRepository) Catalog() repositories.CatalogRepository       { return m.catalogRepo }

func (m *MockRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

// MockCacheService is a mock implementation of CacheService
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	if fill, ok := args.Get(0).(func(interface{})); ok {
		fill(dest)
		return nil
	}
	return args.Error(0)
}

func (m *MockCacheService) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}
