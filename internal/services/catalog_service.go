package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/teacher-portal/internal/cache"
	"github.com/SAP-F-2025/teacher-portal/internal/models"
	"github.com/SAP-F-2025/teacher-portal/internal/repositories"
)

// CatalogService serves skills and rosters from Redis, falling back to the
// database on a miss or when the cache is unavailable.
type CatalogService interface {
	GetCatalog(ctx context.Context, class *models.Class) (models.Catalog, error)
	InvalidateClass(ctx context.Context, classID string) error
}

type catalogService struct {
	repo   repositories.Repository
	cache  cache.CacheService
	ttl    time.Duration
	logger *slog.Logger
}

func NewCatalogService(repo repositories.Repository, cacheService cache.CacheService, ttl time.Duration, logger *slog.Logger) CatalogService {
	return &catalogService{
		repo:   repo,
		cache:  cacheService,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *catalogService) GetCatalog(ctx context.Context, class *models.Class) (models.Catalog, error) {
	skills, err := readThrough(ctx, s, cache.SkillsKey(class.Grade), func() ([]models.Skill, error) {
		return s.repo.Catalog().ListSkills(ctx, nil, class.Grade)
	})
	if err != nil {
		return models.Catalog{}, err
	}

	students, err := readThrough(ctx, s, cache.ClassStudentsKey(class.ID), func() ([]models.StudentSummary, error) {
		return s.repo.Catalog().ListClassStudents(ctx, nil, class.ID)
	})
	if err != nil {
		return models.Catalog{}, err
	}

	return models.Catalog{Skills: skills, Students: students}, nil
}

func (s *catalogService) InvalidateClass(ctx context.Context, classID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeletePattern(ctx, cache.ClassPattern(classID))
}

func readThrough[T any](ctx context.Context, s *catalogService, key string, load func() ([]T, error)) ([]T, error) {
	if s.cache != nil {
		var cached []T
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Catalog cache unavailable, reading from database", "key", key, "error", err)
		}
	}

	items, err := load()
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, items, s.ttl); err != nil {
			s.logger.Warn("Failed to cache catalog entry", "key", key, "error", err)
		}
	}
	return items, nil
}
