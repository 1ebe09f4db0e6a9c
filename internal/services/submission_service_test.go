package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/teacher-portal/internal/events"
	"github.com/SAP-F-2025/teacher-portal/internal/models"
)

func readyDraft() models.AssignmentDraft {
	d := models.NewAssignmentDraft()
	d.Title = "Math Quiz"
	d.SelectedSkills = []string{"s1", "s2"}
	d.SkillConfigs = map[string]models.SkillConfig{
		"s1": {QuestionCount: 10, Difficulty: models.SkillDifficultyMedium},
		"s2": {QuestionCount: 5, Difficulty: models.SkillDifficultyEasy},
	}
	due := time.Now().Add(72 * time.Hour).UTC()
	d.DueDate = &due
	d.SelectedStudents = []string{"st1", "st2"}
	d.PerStudentOverrides = map[string]models.StudentOverride{
		"st2": {
			SkillOverrides:   map[string][]models.SkillOverride{"s1": {models.QuestionCountOverride(4)}},
			SettingOverrides: []models.SettingOverride{models.AttemptsOverride(5)},
		},
	}
	return d
}

func newTestDispatcher(repo *MockRepository) (*submissionDispatcher, *events.MockEventPublisher) {
	publisher := events.NewMockEventPublisher(testLogger())
	d := NewSubmissionDispatcher(repo, publisher, testLogger()).(*submissionDispatcher)
	return d, publisher
}

func TestSubmissionDispatcher_SaveDraft(t *testing.T) {
	ctx := context.Background()

	t.Run("blank title never reaches persistence", func(t *testing.T) {
		repo := newMockRepository()
		d, publisher := newTestDispatcher(repo)
		draft := readyDraft()
		draft.Title = "   "

		_, err := d.SaveDraft(ctx, SubmissionRequest{TeacherID: "t1", ClassID: "c1", Draft: draft})

		assert.ErrorIs(t, err, ErrTitleRequired)
		se, ok := AsSubmissionError(err)
		require.True(t, ok)
		assert.Equal(t, OperationSaveDraft, se.Operation)
		repo.assignmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, publisher.GetPublishedEvents())
	})

	t.Run("first save inserts a draft row", func(t *testing.T) {
		repo := newMockRepository()
		d, publisher := newTestDispatcher(repo)
		draft := models.NewAssignmentDraft()
		draft.Title = "Unfinished"

		repo.assignmentRepo.On("Create", ctx, (*gorm.DB)(nil), mock.MatchedBy(func(a *models.Assignment) bool {
			return a.Name == "Unfinished" && a.Status == models.StatusDraft && a.ClassID == "c1" && a.CreatedBy == "t1"
		})).Return(nil)

		result, err := d.SaveDraft(ctx, SubmissionRequest{TeacherID: "t1", ClassID: "c1", Draft: draft})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AssignmentID)
		assert.Equal(t, models.StatusDraft, result.Status)
		assert.Empty(t, result.Location)

		saved := repo.assignmentRepo.Calls[0].Arguments.Get(2).(*models.Assignment)
		var stored models.AssignmentDraft
		require.NoError(t, json.Unmarshal(saved.Draft, &stored))
		assert.True(t, stored.IsDraft)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventAssignmentDraftSaved, published[0].Type)
	})

	t.Run("later saves update the same row", func(t *testing.T) {
		repo := newMockRepository()
		d, _ := newTestDispatcher(repo)
		existing := &models.Assignment{ID: "a1", ClassID: "c1", CreatedBy: "t1", Status: models.StatusDraft, Name: "Old"}

		repo.assignmentRepo.On("GetByID", ctx, (*gorm.DB)(nil), "a1").Return(existing, nil)
		repo.assignmentRepo.On("Update", ctx, (*gorm.DB)(nil), existing).Return(nil)

		result, err := d.SaveDraft(ctx, SubmissionRequest{TeacherID: "t1", ClassID: "c1", Draft: readyDraft(), AssignmentID: "a1"})

		require.NoError(t, err)
		assert.Equal(t, "a1", result.AssignmentID)
		assert.Equal(t, "Math Quiz", existing.Name)
		assert.Equal(t, 15, existing.QuestionLimit)
		repo.assignmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("saved row of another teacher is rejected", func(t *testing.T) {
		repo := newMockRepository()
		d, _ := newTestDispatcher(repo)
		repo.assignmentRepo.On("GetByID", ctx, (*gorm.DB)(nil), "a1").
			Return(&models.Assignment{ID: "a1", ClassID: "c1", CreatedBy: "t2", Status: models.StatusDraft}, nil)

		_, err := d.SaveDraft(ctx, SubmissionRequest{TeacherID: "t1", ClassID: "c1", Draft: readyDraft(), AssignmentID: "a1"})

		assert.ErrorIs(t, err, ErrAssignmentAccessDenied)
		assert.True(t, IsForbidden(err))
	})

	t.Run("persistence failure is structured", func(t *testing.T) {
		repo := newMockRepository()
		d, publisher := newTestDispatcher(repo)
		repo.assignmentRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		_, err := d.SaveDraft(ctx, SubmissionRequest{TeacherID: "t1", ClassID: "c1", Draft: readyDraft()})

		se, ok := AsSubmissionError(err)
		require.True(t, ok)
		assert.Equal(t, OperationSaveDraft, se.Operation)
		assert.Equal(t, "failed to persist assignment", se.Reason)
		assert.Empty(t, publisher.GetPublishedEvents())
	})
}

func TestSubmissionDispatcher_CreateAssignment(t *testing.T) {
	ctx := context.Background()

	t.Run("writes assignment, targets and performance rows", func(t *testing.T) {
		repo := newMockRepository()
		d, publisher := newTestDispatcher(repo)

		repo.assignmentRepo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(a *models.Assignment) bool {
			return a.Status == models.StatusActive && a.QuestionLimit == 15 && a.AttemptsAllowed == 3
		})).Return(nil)
		repo.assignmentRepo.On("CreateTargets", ctx, mock.Anything, mock.Anything).Return(nil)
		repo.assignmentRepo.On("CreatePerformances", ctx, mock.Anything, mock.Anything).Return(nil)

		result, err := d.CreateAssignment(ctx, SubmissionRequest{TeacherID: "t1", ClassID: "c1", Draft: readyDraft()})

		require.NoError(t, err)
		assert.Equal(t, models.StatusActive, result.Status)
		assert.Equal(t, "/class/c1/assignments", result.Location)
		assert.Equal(t, 2, result.StudentCount)

		var targets []models.AssignmentTarget
		var performances []models.StudentPerformance
		for _, call := range repo.assignmentRepo.Calls {
			switch call.Method {
			case "CreateTargets":
				targets = call.Arguments.Get(2).([]models.AssignmentTarget)
			case "CreatePerformances":
				performances = call.Arguments.Get(2).([]models.StudentPerformance)
			}
		}
		require.Len(t, targets, 2)
		require.Len(t, performances, 2)
		assert.Equal(t, result.AssignmentID, targets[0].AssignmentID)
		assert.False(t, targets[0].Overridden)
		assert.True(t, targets[1].Overridden)

		var effective models.EffectiveAssignment
		require.NoError(t, json.Unmarshal(targets[1].Config, &effective))
		assert.Equal(t, 4, effective.SkillConfigs["s1"].QuestionCount)
		assert.Equal(t, 5, effective.Settings.AttemptsAllowed)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventAssignmentAssigned, published[0].Type)
		payload := published[0].Data.(events.AssignmentAssignedEvent)
		assert.Equal(t, []string{"st1", "st2"}, payload.StudentIDs)
		assert.Equal(t, 15, payload.TotalQuestions)
	})

	t.Run("promotes a saved draft", func(t *testing.T) {
		repo := newMockRepository()
		d, _ := newTestDispatcher(repo)
		existing := &models.Assignment{ID: "a1", ClassID: "c1", CreatedBy: "t1", Status: models.StatusDraft}

		repo.assignmentRepo.On("GetByID", ctx, mock.Anything, "a1").Return(existing, nil)
		repo.assignmentRepo.On("Update", ctx, mock.Anything, existing).Return(nil)
		repo.assignmentRepo.On("CreateTargets", ctx, mock.Anything, mock.Anything).Return(nil)
		repo.assignmentRepo.On("CreatePerformances", ctx, mock.Anything, mock.Anything).Return(nil)

		result, err := d.CreateAssignment(ctx, SubmissionRequest{TeacherID: "t1", ClassID: "c1", Draft: readyDraft(), AssignmentID: "a1"})

		require.NoError(t, err)
		assert.Equal(t, "a1", result.AssignmentID)
		assert.Equal(t, models.StatusActive, existing.Status)
	})

	t.Run("an assigned row cannot be assigned again", func(t *testing.T) {
		repo := newMockRepository()
		d, _ := newTestDispatcher(repo)
		repo.assignmentRepo.On("GetByID", ctx, mock.Anything, "a1").
			Return(&models.Assignment{ID: "a1", ClassID: "c1", CreatedBy: "t1", Status: models.StatusActive}, nil)

		_, err := d.CreateAssignment(ctx, SubmissionRequest{TeacherID: "t1", ClassID: "c1", Draft: readyDraft(), AssignmentID: "a1"})

		assert.ErrorIs(t, err, ErrAssignmentNotDraft)
		se, ok := AsSubmissionError(err)
		require.True(t, ok)
		assert.Equal(t, OperationCreateAssignment, se.Operation)
	})

	t.Run("roster failure fails the whole submission", func(t *testing.T) {
		repo := newMockRepository()
		d, publisher := newTestDispatcher(repo)
		repo.assignmentRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(nil)
		repo.assignmentRepo.On("CreateTargets", ctx, mock.Anything, mock.Anything).Return(errors.New("duplicate key"))

		_, err := d.CreateAssignment(ctx, SubmissionRequest{TeacherID: "t1", ClassID: "c1", Draft: readyDraft()})

		_, ok := AsSubmissionError(err)
		assert.True(t, ok)
		repo.assignmentRepo.AssertNotCalled(t, "CreatePerformances", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, publisher.GetPublishedEvents())
	})

	t.Run("publish failure does not fail a committed assignment", func(t *testing.T) {
		repo := newMockRepository()
		d, publisher := newTestDispatcher(repo)
		publisher.Err = errors.New("broker unavailable")
		repo.assignmentRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(nil)
		repo.assignmentRepo.On("CreateTargets", ctx, mock.Anything, mock.Anything).Return(nil)
		repo.assignmentRepo.On("CreatePerformances", ctx, mock.Anything, mock.Anything).Return(nil)

		result, err := d.CreateAssignment(ctx, SubmissionRequest{TeacherID: "t1", ClassID: "c1", Draft: readyDraft()})

		require.NoError(t, err)
		assert.Equal(t, models.StatusActive, result.Status)
	})
}
