package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/teacher-portal/internal/models"
	"github.com/SAP-F-2025/teacher-portal/internal/repositories"
	"github.com/SAP-F-2025/teacher-portal/internal/services"
	"github.com/SAP-F-2025/teacher-portal/internal/utils"
)

type AssignmentHandler struct {
	BaseHandler
	assignmentService services.AssignmentService
	wizardService     services.WizardService
}

func NewAssignmentHandler(
	assignmentService services.AssignmentService,
	wizardService services.WizardService,
	logger utils.Logger,
) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assignmentService: assignmentService,
		wizardService:     wizardService,
	}
}

// ListAssignments lists the assignments of a class with progress, newest first
// @Summary List class assignments
// @Tags assignments
// @Produce json
// @Param class_id path string true "Class ID"
// @Param status query string false "draft, active, completed or archived"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(50)
// @Success 200 {object} SuccessResponse{data=[]models.AssignmentWithProgress}
// @Failure 403 {object} ErrorResponse
// @Router /classes/{class_id}/assignments [get]
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	classID := ParseStringIDParam(c, "class_id")
	if classID == "" {
		return
	}
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	page := parseIntQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}
	size := parseIntQuery(c, "size", 50)

	filters := repositories.AssignmentFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	}
	if status := c.Query("status"); status != "" {
		s := models.AssignmentStatus(status)
		filters.Status = &s
	}

	assignments, err := h.assignmentService.List(c.Request.Context(), teacherID, classID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Assignments retrieved", assignments)
}

// EditDraft opens a wizard session on a saved draft assignment
// @Summary Resume a saved draft
// @Tags assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 201 {object} services.SessionView
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /assignments/{id}/wizard [post]
func (h *AssignmentHandler) EditDraft(c *gin.Context) {
	assignmentID := ParseStringIDParam(c, "id")
	if assignmentID == "" {
		return
	}
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Opening saved draft", "assignment_id", assignmentID)

	view, err := h.wizardService.OpenDraft(c.Request.Context(), teacherID, assignmentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}
