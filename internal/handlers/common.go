package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/teacher-portal/internal/services"
	"github.com/SAP-F-2025/teacher-portal/internal/utils"
	"github.com/SAP-F-2025/teacher-portal/internal/wizard"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error codes let the client tell apart failures sharing a status.
const (
	CodeValidation         = "validation_failed"
	CodeStepIncomplete     = "step_incomplete"
	CodeNotOnReview        = "not_on_review_step"
	CodeDraftIncomplete    = "draft_incomplete"
	CodeSessionExpired     = "session_expired"
	CodeSubmissionInFlight = "submission_in_progress"
	CodeSubmissionFailed   = "submission_failed"
)

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// requestLogger is the per-request logger carrying request and teacher ids.
func (h *BaseHandler) requestLogger(c *gin.Context) utils.Logger {
	return utils.GetLoggerFromContext(c, h.logger)
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	h.requestLogger(c).Info(message, additionalFields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	h.requestLogger(c).LogError(err, message, additionalFields...)
}

// LogWarn logs warning messages with context
func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...interface{}) {
	h.requestLogger(c).Warn(message, additionalFields...)
}

// teacherID returns the authenticated teacher, answering 401 when missing.
func (h *BaseHandler) teacherID(c *gin.Context) (string, bool) {
	id := c.GetString(utils.TeacherIDKey)
	if id == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return "", false
	}
	return id, true
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{
		Message: message,
	}

	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if err != nil && statusCode >= http.StatusInternalServerError {
		h.LogError(c, err, message, "status_code", statusCode)
	} else {
		h.LogWarn(c, message, "status_code", statusCode, "error", err)
	}

	c.JSON(statusCode, errorResp)
}

// RespondWithSuccess sends a consistent success response
func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, SuccessResponse{
		Message: message,
		Data:    data,
	})
}

// handleServiceError maps service errors onto HTTP responses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	hasFieldErrors := errors.As(err, &validationErrors)

	switch {
	case errors.Is(err, services.ErrStepIncomplete):
		h.respond(c, http.StatusUnprocessableEntity, CodeStepIncomplete, "Current step is incomplete", err, validationErrors)
		return
	case errors.Is(err, wizard.ErrDraftIncomplete):
		h.respond(c, http.StatusUnprocessableEntity, CodeDraftIncomplete, "Assignment is incomplete", err, validationErrors)
		return
	case errors.Is(err, wizard.ErrNotOnReviewStep):
		h.respond(c, http.StatusUnprocessableEntity, CodeNotOnReview, "Assignment can only be created from the review step", err, nil)
		return
	}

	if se, ok := services.AsSubmissionError(err); ok {
		h.respond(c, submissionStatus(err), CodeSubmissionFailed, se.Reason, err, map[string]interface{}{
			"operation": se.Operation,
			"reason":    se.Reason,
		})
		return
	}

	if hasFieldErrors {
		h.respond(c, http.StatusBadRequest, CodeValidation, "Validation failed", err, validationErrors)
		return
	}

	switch {
	case errors.Is(err, services.ErrSessionExpired):
		h.respond(c, http.StatusNotFound, CodeSessionExpired, "Wizard session expired", err, nil)
	case errors.Is(err, services.ErrSubmissionInProgress):
		h.respond(c, http.StatusConflict, CodeSubmissionInFlight, "A submission is already in progress", err, nil)
	case services.IsNotFound(err):
		h.respond(c, http.StatusNotFound, "", notFoundMessage(err), err, nil)
	case services.IsForbidden(err):
		h.respond(c, http.StatusForbidden, "", "Access denied", err, nil)
	case services.IsUnauthorized(err):
		h.respond(c, http.StatusUnauthorized, "", "User not authenticated", err, nil)
	case services.IsValidation(err):
		h.respond(c, http.StatusBadRequest, CodeValidation, err.Error(), err, nil)
	case services.IsBusinessRule(err):
		h.respond(c, http.StatusUnprocessableEntity, "", err.Error(), err, nil)
	case services.IsConflict(err):
		h.respond(c, http.StatusConflict, "", err.Error(), err, nil)
	default:
		h.respond(c, http.StatusInternalServerError, "", "Internal server error", err, nil)
	}
}

func (h *BaseHandler) respond(c *gin.Context, status int, code, message string, err error, details interface{}) {
	resp := ErrorResponse{Message: message, Code: code}
	if errs, ok := details.(services.ValidationErrors); ok {
		if len(errs) > 0 {
			resp.Details = errs
		}
	} else if details != nil {
		resp.Details = details
	}

	if status >= http.StatusInternalServerError {
		h.LogError(c, err, message, "status_code", status)
	} else {
		h.LogWarn(c, message, "status_code", status, "error", err)
	}
	c.JSON(status, resp)
}

// submissionStatus follows the cause wrapped by a failed submission.
func submissionStatus(err error) int {
	switch {
	case services.IsValidation(err):
		return http.StatusBadRequest
	case services.IsForbidden(err):
		return http.StatusForbidden
	case services.IsNotFound(err):
		return http.StatusNotFound
	case services.IsBusinessRule(err):
		return http.StatusUnprocessableEntity
	case services.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return "Wizard session not found"
	case errors.Is(err, services.ErrClassNotFound):
		return "Class not found"
	case errors.Is(err, services.ErrAssignmentNotFound):
		return "Assignment not found"
	default:
		return "Resource not found"
	}
}
