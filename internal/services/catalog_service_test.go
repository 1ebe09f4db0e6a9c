package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/teacher-portal/internal/cache"
	"github.com/SAP-F-2025/teacher-portal/internal/models"
)

func TestCatalogService_GetCatalog(t *testing.T) {
	ctx := context.Background()
	class := &models.Class{ID: "c1", Grade: 4}
	skills := []models.Skill{{ID: "s1", Name: "Fractions", Grade: 4}}
	students := []models.StudentSummary{{ID: "st1", FirstName: "Ana"}}

	t.Run("cache hit skips the database", func(t *testing.T) {
		repo := newMockRepository()
		cacheService := &MockCacheService{}
		cacheService.On("Get", ctx, cache.SkillsKey(4), mock.Anything).Return(func(dest interface{}) {
			*dest.(*[]models.Skill) = skills
		})
		cacheService.On("Get", ctx, cache.ClassStudentsKey("c1"), mock.Anything).Return(func(dest interface{}) {
			*dest.(*[]models.StudentSummary) = students
		})

		service := NewCatalogService(repo, cacheService, time.Minute, testLogger())
		catalog, err := service.GetCatalog(ctx, class)

		require.NoError(t, err)
		assert.Equal(t, skills, catalog.Skills)
		assert.Equal(t, students, catalog.Students)
		repo.catalogRepo.AssertNotCalled(t, "ListSkills", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("miss loads and fills the cache", func(t *testing.T) {
		repo := newMockRepository()
		repo.catalogRepo.On("ListSkills", ctx, mock.Anything, 4).Return(skills, nil)
		repo.catalogRepo.On("ListClassStudents", ctx, mock.Anything, "c1").Return(students, nil)

		cacheService := &MockCacheService{}
		cacheService.On("Get", ctx, mock.Anything, mock.Anything).Return(cache.ErrCacheMiss)
		cacheService.On("Set", ctx, cache.SkillsKey(4), skills, time.Minute).Return(nil).Once()
		cacheService.On("Set", ctx, cache.ClassStudentsKey("c1"), students, time.Minute).Return(nil).Once()

		service := NewCatalogService(repo, cacheService, time.Minute, testLogger())
		catalog, err := service.GetCatalog(ctx, class)

		require.NoError(t, err)
		assert.Len(t, catalog.Skills, 1)
		cacheService.AssertExpectations(t)
	})

	t.Run("cache failure degrades to the database", func(t *testing.T) {
		repo := newMockRepository()
		repo.catalogRepo.On("ListSkills", ctx, mock.Anything, 4).Return(skills, nil)
		repo.catalogRepo.On("ListClassStudents", ctx, mock.Anything, "c1").Return([]models.StudentSummary(nil), nil)

		cacheService := &MockCacheService{}
		cacheService.On("Get", ctx, mock.Anything, mock.Anything).Return(errors.New("connection refused"))
		cacheService.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		service := NewCatalogService(repo, cacheService, time.Minute, testLogger())
		catalog, err := service.GetCatalog(ctx, class)

		require.NoError(t, err)
		assert.Equal(t, skills, catalog.Skills)
		assert.NotNil(t, catalog.Students)
		assert.Empty(t, catalog.Students)
	})

	t.Run("database failure is returned", func(t *testing.T) {
		repo := newMockRepository()
		repo.catalogRepo.On("ListSkills", ctx, mock.Anything, 4).Return([]models.Skill(nil), errors.New("db down"))

		service := NewCatalogService(repo, nil, time.Minute, testLogger())
		_, err := service.GetCatalog(ctx, class)

		assert.EqualError(t, err, "db down")
	})
}

func TestCatalogService_InvalidateClass(t *testing.T) {
	ctx := context.Background()
	cacheService := &MockCacheService{}
	cacheService.On("DeletePattern", ctx, cache.ClassPattern("c1")).Return(nil)

	service := NewCatalogService(newMockRepository(), cacheService, time.Minute, testLogger())
	require.NoError(t, service.InvalidateClass(ctx, "c1"))
	cacheService.AssertExpectations(t)

	assert.NoError(t, NewCatalogService(newMockRepository(), nil, time.Minute, testLogger()).InvalidateClass(ctx, "c1"))
}
