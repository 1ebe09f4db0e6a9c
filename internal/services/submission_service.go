package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/teacher-portal/internal/events"
	"github.com/SAP-F-2025/teacher-portal/internal/models"
	"github.com/SAP-F-2025/teacher-portal/internal/repositories"
)

// SubmissionRequest is a snapshot of a wizard session handed to persistence.
type SubmissionRequest struct {
	TeacherID string
	ClassID   string
	Draft     models.AssignmentDraft
	// AssignmentID is the draft row of an earlier save, empty before the first one
	AssignmentID string
}

type SubmissionResult struct {
	AssignmentID string                  `json:"assignment_id"`
	Status       models.AssignmentStatus `json:"status"`
	StudentCount int                     `json:"student_count"`
	// Location is where the client goes next, set once an assignment is created
	Location string    `json:"location,omitempty"`
	SavedAt  time.Time `json:"saved_at"`
}

// SubmissionDispatcher persists wizard drafts and live assignments.
type SubmissionDispatcher interface {
	SaveDraft(ctx context.Context, req SubmissionRequest) (*SubmissionResult, error)
	CreateAssignment(ctx context.Context, req SubmissionRequest) (*SubmissionResult, error)
}

type submissionDispatcher struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *ServiceLogger
	now       func() time.Time
}

func NewSubmissionDispatcher(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) SubmissionDispatcher {
	return &submissionDispatcher{
		repo:      repo,
		publisher: publisher,
		logger:    NewServiceLogger(logger, "submission"),
		now:       time.Now,
	}
}

// AssignmentsLocation is the class assignment list a successful create leads to.
func AssignmentsLocation(classID string) string {
	return fmt.Sprintf("/class/%s/assignments", classID)
}

func (d *submissionDispatcher) SaveDraft(ctx context.Context, req SubmissionRequest) (result *SubmissionResult, err error) {
	start := time.Now()
	defer func() {
		id := req.AssignmentID
		if result != nil {
			id = result.AssignmentID
		}
		d.logger.LogOperation(ctx, string(OperationSaveDraft), req.TeacherID, id, "assignment", time.Since(start), err)
	}()

	if strings.TrimSpace(req.Draft.Title) == "" {
		return nil, NewSubmissionError(OperationSaveDraft, "title is required", ErrTitleRequired)
	}

	draft := req.Draft.Clone()
	draft.IsDraft = true

	var assignment *models.Assignment
	err = d.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		var txErr error
		assignment, txErr = d.upsert(ctx, tx, req, draft, models.StatusDraft)
		return txErr
	})
	if err != nil {
		return nil, submissionFailure(OperationSaveDraft, err)
	}

	d.publish(ctx, events.NewAssignmentDraftSavedEvent(events.AssignmentDraftSavedEvent{
		AssignmentID: assignment.ID,
		ClassID:      assignment.ClassID,
		Title:        assignment.Name,
		TeacherID:    req.TeacherID,
	}))

	return &SubmissionResult{
		AssignmentID: assignment.ID,
		Status:       assignment.Status,
		StudentCount: len(draft.SelectedStudents),
		SavedAt:      assignment.UpdatedAt,
	}, nil
}

// CreateAssignment writes the assignment as active together with one target
// and one performance row per selected student, all in one transaction.
// Callers check the wizard gates first.
func (d *submissionDispatcher) CreateAssignment(ctx context.Context, req SubmissionRequest) (result *SubmissionResult, err error) {
	start := time.Now()
	defer func() {
		id := req.AssignmentID
		if result != nil {
			id = result.AssignmentID
		}
		d.logger.LogOperation(ctx, string(OperationCreateAssignment), req.TeacherID, id, "assignment", time.Since(start), err)
	}()

	draft := req.Draft.Clone()
	draft.IsDraft = false

	var assignment *models.Assignment
	err = d.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		var txErr error
		assignment, txErr = d.upsert(ctx, tx, req, draft, models.StatusActive)
		if txErr != nil {
			return txErr
		}

		targets, performances, txErr := rosterRows(assignment.ID, draft)
		if txErr != nil {
			return txErr
		}
		if txErr = d.repo.Assignment().CreateTargets(ctx, tx, targets); txErr != nil {
			return txErr
		}
		return d.repo.Assignment().CreatePerformances(ctx, tx, performances)
	})
	if err != nil {
		return nil, submissionFailure(OperationCreateAssignment, err)
	}

	d.publish(ctx, events.NewAssignmentAssignedEvent(events.AssignmentAssignedEvent{
		AssignmentID:   assignment.ID,
		ClassID:        assignment.ClassID,
		Title:          assignment.Name,
		Type:           string(assignment.Type),
		TeacherID:      req.TeacherID,
		StudentIDs:     draft.SelectedStudents,
		SkillIDs:       draft.SelectedSkills,
		TotalQuestions: draft.TotalQuestions(),
		StartDate:      draft.StartDate,
		DueDate:        draft.DueDate,
	}))

	return &SubmissionResult{
		AssignmentID: assignment.ID,
		Status:       assignment.Status,
		StudentCount: len(draft.SelectedStudents),
		Location:     AssignmentsLocation(req.ClassID),
		SavedAt:      assignment.UpdatedAt,
	}, nil
}

// upsert inserts a new assignment row, or rewrites the draft row saved
// earlier by the same session.
func (d *submissionDispatcher) upsert(ctx context.Context, tx *gorm.DB, req SubmissionRequest, draft models.AssignmentDraft, status models.AssignmentStatus) (*models.Assignment, error) {
	now := d.now().UTC()

	if req.AssignmentID == "" {
		assignment := &models.Assignment{
			ID:        uuid.NewString(),
			ClassID:   req.ClassID,
			CreatedBy: req.TeacherID,
			CreatedAt: now,
		}
		if err := fillAssignment(assignment, draft, status, now); err != nil {
			return nil, err
		}
		if err := d.repo.Assignment().Create(ctx, tx, assignment); err != nil {
			return nil, err
		}
		return assignment, nil
	}

	assignment, err := d.repo.Assignment().GetByID(ctx, tx, req.AssignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if assignment.CreatedBy != req.TeacherID || assignment.ClassID != req.ClassID {
		return nil, ErrAssignmentAccessDenied
	}
	if assignment.Status != models.StatusDraft {
		return nil, ErrAssignmentNotDraft
	}

	if err := fillAssignment(assignment, draft, status, now); err != nil {
		return nil, err
	}
	if err := d.repo.Assignment().Update(ctx, tx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (d *submissionDispatcher) publish(ctx context.Context, event *events.Event) {
	if d.publisher == nil {
		return
	}
	// The rows are committed; a lost event must not fail the request.
	if err := d.publisher.Publish(ctx, event); err != nil {
		d.logger.Logger().WarnContext(ctx, "Failed to publish assignment event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
	}
}

type skillEntry struct {
	SkillID          string                 `json:"skill_id"`
	QuestionCount    int                    `json:"question_count"`
	Difficulty       models.SkillDifficulty `json:"difficulty"`
	TimeLimitMinutes *int                   `json:"time_limit_minutes,omitempty"`
}

func fillAssignment(a *models.Assignment, draft models.AssignmentDraft, status models.AssignmentStatus, now time.Time) error {
	skills := make([]skillEntry, 0, len(draft.SelectedSkills))
	for _, skillID := range draft.SelectedSkills {
		cfg := draft.SkillConfigs[skillID]
		skills = append(skills, skillEntry{
			SkillID:          skillID,
			QuestionCount:    cfg.QuestionCount,
			Difficulty:       cfg.Difficulty,
			TimeLimitMinutes: cfg.TimeLimitMinutes,
		})
	}
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return fmt.Errorf("failed to encode skills: %w", err)
	}
	draftJSON, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	a.Name = strings.TrimSpace(draft.Title)
	a.Description = draft.Description
	a.Type = draft.Type
	a.Status = status
	a.Skills = datatypes.JSON(skillsJSON)
	a.QuestionLimit = draft.TotalQuestions()
	a.StartDate = draft.StartDate
	a.EndDate = draft.DueDate
	a.TimeLimitMinutes = draft.OverallTimeLimitMinutes
	a.AttemptsAllowed = draft.AttemptsAllowed
	a.ShowCorrectAnswers = draft.ShowCorrectAnswers
	a.ShuffleQuestions = draft.ShuffleQuestions
	a.Draft = datatypes.JSON(draftJSON)
	a.UpdatedAt = now
	return nil
}

func rosterRows(assignmentID string, draft models.AssignmentDraft) ([]models.AssignmentTarget, []models.StudentPerformance, error) {
	targets := make([]models.AssignmentTarget, 0, len(draft.SelectedStudents))
	performances := make([]models.StudentPerformance, 0, len(draft.SelectedStudents))

	for _, studentID := range draft.SelectedStudents {
		effective := draft.EffectiveFor(studentID)
		config, err := json.Marshal(effective)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode configuration for student %s: %w", studentID, err)
		}
		targets = append(targets, models.AssignmentTarget{
			ID:           uuid.NewString(),
			AssignmentID: assignmentID,
			StudentID:    studentID,
			Overridden:   effective.Overridden,
			Config:       datatypes.JSON(config),
		})
		performances = append(performances, models.StudentPerformance{
			ID:           uuid.NewString(),
			StudentID:    studentID,
			AssignmentID: assignmentID,
		})
	}
	return targets, performances, nil
}

func submissionFailure(op SubmissionOperation, err error) error {
	switch {
	case IsNotFound(err):
		return NewSubmissionError(op, "saved draft no longer exists", err)
	case IsForbidden(err):
		return NewSubmissionError(op, "saved draft belongs to another class or teacher", err)
	case IsBusinessRule(err):
		return NewSubmissionError(op, "saved draft was already assigned", err)
	default:
		return NewSubmissionError(op, "failed to persist assignment", err)
	}
}
