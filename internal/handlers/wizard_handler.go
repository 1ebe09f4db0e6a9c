package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/teacher-portal/internal/models"
	"github.com/SAP-F-2025/teacher-portal/internal/services"
	"github.com/SAP-F-2025/teacher-portal/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type WizardHandler struct {
	BaseHandler
	wizardService services.WizardService
	exportService services.ReviewExportService
}

func NewWizardHandler(
	wizardService services.WizardService,
	exportService services.ReviewExportService,
	logger utils.Logger,
) *WizardHandler {
	return &WizardHandler{
		BaseHandler:   NewBaseHandler(logger),
		wizardService: wizardService,
		exportService: exportService,
	}
}

// OpenSession starts an assignment wizard for a class
// @Summary Open assignment wizard
// @Tags assignment-wizard
// @Produce json
// @Param class_id path string true "Class ID"
// @Success 201 {object} services.SessionView
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /classes/{class_id}/assignment-wizard [post]
func (h *WizardHandler) OpenSession(c *gin.Context) {
	classID := ParseStringIDParam(c, "class_id")
	if classID == "" {
		return
	}
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Opening assignment wizard", "class_id", classID)

	view, err := h.wizardService.Open(c.Request.Context(), teacherID, classID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// GetSession returns the current state of a wizard session
// @Summary Get wizard session
// @Tags assignment-wizard
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} services.SessionView
// @Failure 404 {object} ErrorResponse
// @Router /assignment-wizard/{session_id} [get]
func (h *WizardHandler) GetSession(c *gin.Context) {
	h.sessionAction(c, h.wizardService.Get)
}

// GetCatalog returns the skills and students available to the session
// @Summary Get wizard catalog
// @Tags assignment-wizard
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} models.Catalog
// @Router /assignment-wizard/{session_id}/catalog [get]
func (h *WizardHandler) GetCatalog(c *gin.Context) {
	sessionID, teacherID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	catalog, err := h.wizardService.Catalog(c.Request.Context(), teacherID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, catalog)
}

// RefreshCatalog reloads the class roster and skills, bypassing the cache
// @Summary Refresh wizard catalog
// @Tags assignment-wizard
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} models.Catalog
// @Failure 404 {object} ErrorResponse
// @Router /assignment-wizard/{session_id}/catalog/refresh [post]
func (h *WizardHandler) RefreshCatalog(c *gin.Context) {
	sessionID, teacherID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	catalog, err := h.wizardService.RefreshCatalog(c.Request.Context(), teacherID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Catalog refreshed", "session_id", sessionID, "students", len(catalog.Students))
	c.JSON(http.StatusOK, catalog)
}

// UpdateDraft merges a partial draft into the session
// @Summary Update wizard draft
// @Tags assignment-wizard
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param patch body models.DraftPatch true "Fields to replace; null clears dates and the overall time limit"
// @Success 200 {object} services.SessionView
// @Failure 400 {object} ErrorResponse
// @Router /assignment-wizard/{session_id}/draft [patch]
func (h *WizardHandler) UpdateDraft(c *gin.Context) {
	sessionID, teacherID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	var patch models.DraftPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	view, err := h.wizardService.Update(c.Request.Context(), teacherID, sessionID, patch)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Next advances to the next step when the current one is complete
// @Summary Next wizard step
// @Tags assignment-wizard
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} services.SessionView
// @Failure 422 {object} ErrorResponse
// @Router /assignment-wizard/{session_id}/next [post]
func (h *WizardHandler) Next(c *gin.Context) {
	h.sessionAction(c, h.wizardService.Next)
}

// Previous goes back one step
// @Router /assignment-wizard/{session_id}/previous [post]
func (h *WizardHandler) Previous(c *gin.Context) {
	h.sessionAction(c, h.wizardService.Previous)
}

// Reset clears the draft and returns to the first step
// @Router /assignment-wizard/{session_id}/reset [post]
func (h *WizardHandler) Reset(c *gin.Context) {
	h.sessionAction(c, h.wizardService.Reset)
}

// ApplyRecommendedSkillConfigs fills skill configs from the catalog
// @Router /assignment-wizard/{session_id}/recommended-skill-configs [post]
func (h *WizardHandler) ApplyRecommendedSkillConfigs(c *gin.Context) {
	h.sessionAction(c, h.wizardService.ApplyRecommendedSkillConfigs)
}

// ApplyDefaultSettings fills schedule and attempt settings with defaults
// @Router /assignment-wizard/{session_id}/default-settings [post]
func (h *WizardHandler) ApplyDefaultSettings(c *gin.Context) {
	h.sessionAction(c, h.wizardService.ApplyDefaultSettings)
}

// GetSummary returns totals and per-student configs for the review step
// @Summary Wizard review summary
// @Tags assignment-wizard
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} wizard.Summary
// @Router /assignment-wizard/{session_id}/summary [get]
func (h *WizardHandler) GetSummary(c *gin.Context) {
	sessionID, teacherID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	summary, err := h.wizardService.Summary(c.Request.Context(), teacherID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// SaveDraft persists the draft without assigning it
// @Summary Save wizard draft
// @Tags assignment-wizard
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} services.SubmissionResult
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /assignment-wizard/{session_id}/draft [post]
func (h *WizardHandler) SaveDraft(c *gin.Context) {
	sessionID, teacherID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Saving assignment draft", "session_id", sessionID)

	result, err := h.wizardService.SaveDraft(c.Request.Context(), teacherID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Submit creates the assignment and assigns it to the selected students
// @Summary Create assignment
// @Tags assignment-wizard
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 201 {object} services.SubmissionResult
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /assignment-wizard/{session_id}/submit [post]
func (h *WizardHandler) Submit(c *gin.Context) {
	sessionID, teacherID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Creating assignment", "session_id", sessionID)

	result, err := h.wizardService.CreateAssignment(c.Request.Context(), teacherID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if result.Location != "" {
		c.Header("Location", result.Location)
	}
	c.JSON(http.StatusCreated, result)
}

// ExportReview downloads the review step as a spreadsheet
// @Summary Export review
// @Tags assignment-wizard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param session_id path string true "Session ID"
// @Router /assignment-wizard/{session_id}/review/export [get]
func (h *WizardHandler) ExportReview(c *gin.Context) {
	sessionID, teacherID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	export, err := h.exportService.ExportReview(c.Request.Context(), teacherID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, export.Data)
}

// CloseSession discards a wizard session
// @Router /assignment-wizard/{session_id} [delete]
func (h *WizardHandler) CloseSession(c *gin.Context) {
	sessionID, teacherID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	if err := h.wizardService.Close(c.Request.Context(), teacherID, sessionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== HELPER METHODS =====

type sessionFunc func(ctx context.Context, teacherID, sessionID string) (*services.SessionView, error)

func (h *WizardHandler) sessionAction(c *gin.Context, fn sessionFunc) {
	sessionID, teacherID, ok := h.sessionParams(c)
	if !ok {
		return
	}

	view, err := fn(c.Request.Context(), teacherID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *WizardHandler) sessionParams(c *gin.Context) (sessionID, teacherID string, ok bool) {
	sessionID = ParseStringIDParam(c, "session_id")
	if sessionID == "" {
		return "", "", false
	}
	teacherID, ok = h.teacherID(c)
	return sessionID, teacherID, ok
}
