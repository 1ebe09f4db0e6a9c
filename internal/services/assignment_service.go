package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/teacher-portal/internal/models"
	"github.com/SAP-F-2025/teacher-portal/internal/repositories"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// AssignmentService lists the assignments of a class with roster progress.
type AssignmentService interface {
	List(ctx context.Context, teacherID, classID string, filters repositories.AssignmentFilters) ([]*models.AssignmentWithProgress, error)
}

type assignmentService struct {
	repo   repositories.Repository
	logger *ServiceLogger
}

func NewAssignmentService(repo repositories.Repository, logger *slog.Logger) AssignmentService {
	return &assignmentService{
		repo:   repo,
		logger: NewServiceLogger(logger, "assignment"),
	}
}

func (s *assignmentService) List(ctx context.Context, teacherID, classID string, filters repositories.AssignmentFilters) (rows []*models.AssignmentWithProgress, err error) {
	done := s.logger.Operation(ctx, "list_assignments", teacherID, classID, "class")
	defer func() { done(err) }()

	if filters.Status != nil {
		switch *filters.Status {
		case models.StatusDraft, models.StatusActive, models.StatusCompleted, models.StatusArchived:
		default:
			var errs ValidationErrors
			errs.AddRule("status", "must be draft, active, completed, or archived", "oneof", *filters.Status)
			return nil, errs
		}
	}
	if filters.Limit <= 0 {
		filters.Limit = defaultListLimit
	}
	if filters.Limit > maxListLimit {
		filters.Limit = maxListLimit
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	owner, err := s.repo.Class().IsOwner(ctx, nil, classID, teacherID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, ErrClassAccessDenied
	}

	rows, err = s.repo.Assignment().ListByClass(ctx, nil, classID, filters)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*models.AssignmentWithProgress{}
	}
	return rows, nil
}
