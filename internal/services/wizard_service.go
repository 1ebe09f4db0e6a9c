package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/teacher-portal/internal/models"
	"github.com/SAP-F-2025/teacher-portal/internal/repositories"
	"github.com/SAP-F-2025/teacher-portal/internal/validator"
	"github.com/SAP-F-2025/teacher-portal/internal/wizard"
)

// SessionView is what clients see of a wizard session after each operation.
type SessionView struct {
	SessionID         string                 `json:"session_id"`
	ClassID           string                 `json:"class_id"`
	Step              wizard.Step            `json:"step"`
	StepInfo          wizard.StepInfo        `json:"step_info"`
	Steps             []wizard.StepInfo      `json:"steps"`
	Progress          float64                `json:"progress"`
	IsFirst           bool                   `json:"is_first"`
	IsLast            bool                   `json:"is_last"`
	CanProceed        bool                   `json:"can_proceed"`
	Draft             models.AssignmentDraft `json:"draft"`
	StepErrors        ValidationErrors       `json:"step_errors,omitempty"`
	Warnings          []wizard.Warning       `json:"warnings,omitempty"`
	SavedAssignmentID string                 `json:"saved_assignment_id,omitempty"`
	Submitting        bool                   `json:"submitting"`
	ExpiresAt         time.Time              `json:"expires_at"`
}

// WizardService drives assignment wizard sessions for teachers.
type WizardService interface {
	Open(ctx context.Context, teacherID, classID string) (*SessionView, error)
	OpenDraft(ctx context.Context, teacherID, assignmentID string) (*SessionView, error)
	Get(ctx context.Context, teacherID, sessionID string) (*SessionView, error)
	Catalog(ctx context.Context, teacherID, sessionID string) (models.Catalog, error)
	RefreshCatalog(ctx context.Context, teacherID, sessionID string) (models.Catalog, error)
	Close(ctx context.Context, teacherID, sessionID string) error

	Update(ctx context.Context, teacherID, sessionID string, patch models.DraftPatch) (*SessionView, error)
	Next(ctx context.Context, teacherID, sessionID string) (*SessionView, error)
	Previous(ctx context.Context, teacherID, sessionID string) (*SessionView, error)
	Reset(ctx context.Context, teacherID, sessionID string) (*SessionView, error)
	ApplyRecommendedSkillConfigs(ctx context.Context, teacherID, sessionID string) (*SessionView, error)
	ApplyDefaultSettings(ctx context.Context, teacherID, sessionID string) (*SessionView, error)

	Summary(ctx context.Context, teacherID, sessionID string) (*wizard.Summary, error)
	SaveDraft(ctx context.Context, teacherID, sessionID string) (*SubmissionResult, error)
	CreateAssignment(ctx context.Context, teacherID, sessionID string) (*SubmissionResult, error)
}

type wizardService struct {
	repo       repositories.Repository
	catalog    CatalogService
	sessions   *SessionManager
	dispatcher SubmissionDispatcher
	validator  *validator.Validator
	logger     *ServiceLogger
	now        func() time.Time
}

func NewWizardService(
	repo repositories.Repository,
	catalog CatalogService,
	sessions *SessionManager,
	dispatcher SubmissionDispatcher,
	validator *validator.Validator,
	logger *slog.Logger,
) WizardService {
	return &wizardService{
		repo:       repo,
		catalog:    catalog,
		sessions:   sessions,
		dispatcher: dispatcher,
		validator:  validator,
		logger:     NewServiceLogger(logger, "wizard"),
		now:        time.Now,
	}
}

// ===== SESSION LIFECYCLE =====

func (s *wizardService) Open(ctx context.Context, teacherID, classID string) (view *SessionView, err error) {
	done := s.logger.Operation(ctx, "open_wizard", teacherID, classID, "class")
	defer func() { done(err) }()

	class, err := authorizeClass(ctx, s.repo, teacherID, classID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.GetCatalog(ctx, class)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	sess := s.sessions.Create(teacherID, classID, catalog)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.view(sess), nil
}

// OpenDraft starts a session from a previously saved draft assignment.
func (s *wizardService) OpenDraft(ctx context.Context, teacherID, assignmentID string) (view *SessionView, err error) {
	done := s.logger.Operation(ctx, "open_draft", teacherID, assignmentID, "assignment")
	defer func() { done(err) }()

	assignment, err := s.repo.Assignment().GetByID(ctx, nil, assignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if assignment.CreatedBy != teacherID {
		return nil, ErrAssignmentAccessDenied
	}
	if assignment.Status != models.StatusDraft {
		return nil, ErrAssignmentNotDraft
	}

	class, err := authorizeClass(ctx, s.repo, teacherID, assignment.ClassID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.GetCatalog(ctx, class)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	draft := models.NewAssignmentDraft()
	if err := json.Unmarshal(assignment.Draft, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode saved draft: %w", err)
	}

	if err := s.validator.Validate(draft); err != nil {
		return nil, err
	}
	if errs := append(wizard.CheckInvariants(draft), wizard.CheckCatalog(draft, catalog)...); len(errs) > 0 {
		return nil, errs
	}

	sess := s.sessions.Create(teacherID, class.ID, catalog)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.builder.Load(draft); err != nil {
		return nil, err
	}
	sess.savedAssignmentID = assignment.ID
	return s.view(sess), nil
}

func (s *wizardService) Get(ctx context.Context, teacherID, sessionID string) (*SessionView, error) {
	return s.withSession(teacherID, sessionID, false, func(*Session) error { return nil })
}

func (s *wizardService) Catalog(ctx context.Context, teacherID, sessionID string) (models.Catalog, error) {
	sess, err := s.sessions.Get(teacherID, sessionID)
	if err != nil {
		return models.Catalog{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.catalog, nil
}

// RefreshCatalog drops the cached roster and skills of the session's class
// and reloads them, e.g. after enrollments or presence changed.
func (s *wizardService) RefreshCatalog(ctx context.Context, teacherID, sessionID string) (catalog models.Catalog, err error) {
	sess, err := s.sessions.Get(teacherID, sessionID)
	if err != nil {
		return models.Catalog{}, err
	}

	done := s.logger.Operation(ctx, "refresh_catalog", teacherID, sess.ClassID, "class")
	defer func() { done(err) }()

	class, err := authorizeClass(ctx, s.repo, teacherID, sess.ClassID)
	if err != nil {
		return models.Catalog{}, err
	}
	if err := s.catalog.InvalidateClass(ctx, class.ID); err != nil {
		s.logger.Logger().WarnContext(ctx, "Failed to invalidate catalog cache", "class_id", class.ID, "error", err)
	}
	catalog, err = s.catalog.GetCatalog(ctx, class)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("failed to load catalog: %w", err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.catalog = catalog
	return catalog, nil
}

func (s *wizardService) Close(ctx context.Context, teacherID, sessionID string) error {
	return s.sessions.Remove(teacherID, sessionID)
}

// ===== DRAFT AND NAVIGATION =====

func (s *wizardService) Update(ctx context.Context, teacherID, sessionID string, patch models.DraftPatch) (*SessionView, error) {
	if err := s.validator.Validate(patch); err != nil {
		return nil, err
	}
	return s.withSession(teacherID, sessionID, true, func(sess *Session) error {
		if errs := wizard.CheckCatalog(sess.builder.Draft().Merge(patch), sess.catalog); len(errs) > 0 {
			return errs
		}
		return sess.builder.Update(patch)
	})
}

// Next advances the wizard. When the current step is incomplete the error
// carries the field errors blocking it.
func (s *wizardService) Next(ctx context.Context, teacherID, sessionID string) (*SessionView, error) {
	return s.withSession(teacherID, sessionID, true, func(sess *Session) error {
		if _, errs := sess.builder.Next(); len(errs) > 0 {
			return errors.Join(ErrStepIncomplete, errs)
		}
		return nil
	})
}

func (s *wizardService) Previous(ctx context.Context, teacherID, sessionID string) (*SessionView, error) {
	return s.withSession(teacherID, sessionID, true, func(sess *Session) error {
		sess.builder.Previous()
		return nil
	})
}

func (s *wizardService) Reset(ctx context.Context, teacherID, sessionID string) (*SessionView, error) {
	return s.withSession(teacherID, sessionID, true, func(sess *Session) error {
		sess.builder.Reset()
		sess.savedAssignmentID = ""
		return nil
	})
}

func (s *wizardService) ApplyRecommendedSkillConfigs(ctx context.Context, teacherID, sessionID string) (*SessionView, error) {
	return s.withSession(teacherID, sessionID, true, func(sess *Session) error {
		configs := wizard.RecommendedSkillConfigs(sess.builder.Draft(), sess.catalog)
		return sess.builder.Update(models.DraftPatch{SkillConfigs: &configs})
	})
}

func (s *wizardService) ApplyDefaultSettings(ctx context.Context, teacherID, sessionID string) (*SessionView, error) {
	return s.withSession(teacherID, sessionID, true, func(sess *Session) error {
		return sess.builder.Update(wizard.DefaultSettingsPatch(s.now().UTC()))
	})
}

func (s *wizardService) Summary(ctx context.Context, teacherID, sessionID string) (*wizard.Summary, error) {
	sess, err := s.sessions.Get(teacherID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	summary := wizard.Summarize(sess.builder.Draft(), sess.catalog)
	return &summary, nil
}

// ===== SUBMISSION =====

func (s *wizardService) SaveDraft(ctx context.Context, teacherID, sessionID string) (*SubmissionResult, error) {
	sess, req, err := s.beginSubmission(teacherID, sessionID, func(*Session) error { return nil })
	if err != nil {
		return nil, err
	}

	result, err := s.dispatcher.SaveDraft(ctx, req)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.submitting = false
	if err != nil {
		return nil, err
	}
	sess.savedAssignmentID = result.AssignmentID
	sess.builder.MarkDraft()
	return result, nil
}

// CreateAssignment persists the draft as a live assignment. It requires the
// review step with every step complete; on success the wizard starts over.
func (s *wizardService) CreateAssignment(ctx context.Context, teacherID, sessionID string) (*SubmissionResult, error) {
	sess, req, err := s.beginSubmission(teacherID, sessionID, func(sess *Session) error {
		if err := sess.builder.CheckSubmittable(); err != nil {
			return err
		}
		if errs := wizard.CheckCatalog(sess.builder.Draft(), sess.catalog); len(errs) > 0 {
			return errs
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result, err := s.dispatcher.CreateAssignment(ctx, req)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.submitting = false
	if err != nil {
		return nil, err
	}
	sess.builder.Reset()
	sess.savedAssignmentID = ""
	return result, nil
}

// beginSubmission marks the session as submitting after check passes and
// returns the snapshot to persist.
func (s *wizardService) beginSubmission(teacherID, sessionID string, check func(*Session) error) (*Session, SubmissionRequest, error) {
	sess, err := s.sessions.Get(teacherID, sessionID)
	if err != nil {
		return nil, SubmissionRequest{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.submitting {
		return nil, SubmissionRequest{}, ErrSubmissionInProgress
	}
	if err := check(sess); err != nil {
		return nil, SubmissionRequest{}, err
	}
	sess.submitting = true

	return sess, SubmissionRequest{
		TeacherID:    sess.TeacherID,
		ClassID:      sess.ClassID,
		Draft:        sess.builder.Draft(),
		AssignmentID: sess.savedAssignmentID,
	}, nil
}

// ===== HELPERS =====

func (s *wizardService) withSession(teacherID, sessionID string, mutate bool, fn func(*Session) error) (*SessionView, error) {
	sess, err := s.sessions.Get(teacherID, sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if mutate && sess.submitting {
		return nil, ErrSubmissionInProgress
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// view must be called with sess.mu held.
func (s *wizardService) view(sess *Session) *SessionView {
	b := sess.builder
	draft := b.Draft()
	return &SessionView{
		SessionID:         sess.ID,
		ClassID:           sess.ClassID,
		Step:              b.Step(),
		StepInfo:          b.Step().Info(),
		Steps:             wizard.Steps(),
		Progress:          b.Progress(),
		IsFirst:           b.Step() == wizard.FirstStep,
		IsLast:            b.Step() == wizard.LastStep,
		CanProceed:        b.CanProceed(),
		Draft:             draft,
		StepErrors:        b.StepErrors(),
		Warnings:          wizard.Warnings(draft, s.now()),
		SavedAssignmentID: sess.savedAssignmentID,
		Submitting:        sess.submitting,
		ExpiresAt:         s.sessions.ExpiresAt(sess),
	}
}

func authorizeClass(ctx context.Context, repo repositories.Repository, teacherID, classID string) (*models.Class, error) {
	class, err := repo.Class().GetByID(ctx, nil, classID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to load class: %w", err)
	}
	if class.TeacherID != teacherID {
		return nil, ErrClassAccessDenied
	}
	return class, nil
}
