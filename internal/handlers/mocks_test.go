package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/SAP-F-2025/teacher-portal/internal/models"
	"github.com/SAP-F-2025/teacher-portal/internal/repositories"
	"github.com/SAP-F-2025/teacher-portal/internal/services"
	"github.com/SAP-F-2025/teacher-portal/internal/utils"
	"github.com/SAP-F-2025/teacher-portal/internal/wizard"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// MockWizardService is a mock implementation of services.WizardService
type MockWizardService struct {
	mock.Mock
}

func (m *MockWizardService) view(args mock.Arguments) (*services.SessionView, error) {
	if v := args.Get(0); v != nil {
		return v.(*services.SessionView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWizardService) Open(ctx context.Context, teacherID, classID string) (*services.SessionView, error) {
	return m.view(m.Called(ctx, teacherID, classID))
}

func (m *MockWizardService) OpenDraft(ctx context.Context, teacherID, assignmentID string) (*services.SessionView, error) {
	return m.view(m.Called(ctx, teacherID, assignmentID))
}

func (m *MockWizardService) Get(ctx context.Context, teacherID, sessionID string) (*services.SessionView, error) {
	return m.view(m.Called(ctx, teacherID, sessionID))
}

func (m *MockWizardService) Catalog(ctx context.Context, teacherID, sessionID string) (models.Catalog, error) {
	args := m.Called(ctx, teacherID, sessionID)
	return args.Get(0).(models.Catalog), args.Error(1)
}

func (m *MockWizardService) RefreshCatalog(ctx context.Context, teacherID, sessionID string) (models.Catalog, error) {
	args := m.Called(ctx, teacherID, sessionID)
	return args.Get(0).(models.Catalog), args.Error(1)
}

func (m *MockWizardService) Close(ctx context.Context, teacherID, sessionID string) error {
	return m.Called(ctx, teacherID, sessionID).Error(0)
}

func (m *MockWizardService) Update(ctx context.Context, teacherID, sessionID string, patch models.DraftPatch) (*services.SessionView, error) {
	return m.view(m.Called(ctx, teacherID, sessionID, patch))
}

func (m *MockWizardService) Next(ctx context.Context, teacherID, sessionID string) (*services.SessionView, error) {
	return m.view(m.Called(ctx, teacherID, sessionID))
}

func (m *MockWizardService) Previous(ctx context.Context, teacherID, sessionID string) (*services.SessionView, error) {
	return m.view(m.Called(ctx, teacherID, sessionID))
}

func (m *MockWizardService) Reset(ctx context.Context, teacherID, sessionID string) (*services.SessionView, error) {
	return m.view(m.Called(ctx, teacherID, sessionID))
}

func (m *MockWizardService) ApplyRecommendedSkillConfigs(ctx context.Context, teacherID, sessionID string) (*services.SessionView, error) {
	return m.view(m.Called(ctx, teacherID, sessionID))
}

func (m *MockWizardService) ApplyDefaultSettings(ctx context.Context, teacherID, sessionID string) (*services.SessionView, error) {
	return m.view(m.Called(ctx, teacherID, sessionID))
}

func (m *MockWizardService) Summary(ctx context.Context, teacherID, sessionID string) (*wizard.Summary, error) {
	args := m.Called(ctx, teacherID, sessionID)
	if s := args.Get(0); s != nil {
		return s.(*wizard.Summary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWizardService) SaveDraft(ctx context.Context, teacherID, sessionID string) (*services.SubmissionResult, error) {
	args := m.Called(ctx, teacherID, sessionID)
	if r := args.Get(0); r != nil {
		return r.(*services.SubmissionResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWizardService) CreateAssignment(ctx context.Context, teacherID, sessionID string) (*services.SubmissionResult, error) {
	args := m.Called(ctx, teacherID, sessionID)
	if r := args.Get(0); r != nil {
		return r.(*services.SubmissionResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAssignmentService is a mock implementation of services.AssignmentService
type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) List(ctx context.Context, teacherID, classID string, filters repositories.AssignmentFilters) ([]*models.AssignmentWithProgress, error) {
	args := m.Called(ctx, teacherID, classID, filters)
	if rows := args.Get(0); rows != nil {
		return rows.([]*models.AssignmentWithProgress), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockReviewExportService is a mock implementation of services.ReviewExportService
type MockReviewExportService struct {
	mock.Mock
}

func (m *MockReviewExportService) ExportReview(ctx context.Context, teacherID, sessionID string) (*services.ReviewExport, error) {
	args := m.Called(ctx, teacherID, sessionID)
	if e := args.Get(0); e != nil {
		return e.(*services.ReviewExport), args.Error(1)
	}
	return nil, args.Error(1)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubTokenParser map[string]string

func (p stubTokenParser) ParseTeacherID(token string) (string, error) {
	if id, ok := p[token]; ok {
		return id, nil
	}
	return "", errors.New("signature is invalid")
}

type testServer struct {
	router     *gin.Engine
	wizard     *MockWizardService
	assignment *MockAssignmentService
	export     *MockReviewExportService
}

func newTestServer(db Pinger) *testServer {
	s := &testServer{
		router:     gin.New(),
		wizard:     &MockWizardService{},
		assignment: &MockAssignmentService{},
		export:     &MockReviewExportService{},
	}
	hm := NewHandlerManager(s.wizard, s.assignment, s.export, HeaderAuth(), db, testLogger())
	hm.SetupRoutes(s.router)
	return s
}
