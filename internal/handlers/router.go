package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/teacher-portal/internal/services"
	"github.com/SAP-F-2025/teacher-portal/internal/utils"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HandlerManager struct {
	wizardHandler     *WizardHandler
	assignmentHandler *AssignmentHandler
	auth              gin.HandlerFunc
	db                Pinger
	logger            utils.Logger
}

func NewHandlerManager(
	wizardService services.WizardService,
	assignmentService services.AssignmentService,
	exportService services.ReviewExportService,
	auth gin.HandlerFunc,
	db Pinger,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		wizardHandler:     NewWizardHandler(wizardService, exportService, logger),
		assignmentHandler: NewAssignmentHandler(assignmentService, wizardService, logger),
		auth:              auth,
		db:                db,
		logger:            logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(utils.RequestID(), utils.LoggerMiddleware(hm.logger), gin.Recovery())

	router.GET("/health", hm.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1", hm.auth, utils.ContextLogger(hm.logger))
	{
		classes := v1.Group("/classes/:class_id")
		{
			classes.GET("/assignments", hm.assignmentHandler.ListAssignments)
			classes.POST("/assignment-wizard", hm.wizardHandler.OpenSession)
		}

		v1.POST("/assignments/:id/wizard", hm.assignmentHandler.EditDraft)

		// Assignment wizard session routes
		sessions := v1.Group("/assignment-wizard/:session_id")
		{
			sessions.GET("", hm.wizardHandler.GetSession)
			sessions.DELETE("", hm.wizardHandler.CloseSession)
			sessions.GET("/catalog", hm.wizardHandler.GetCatalog)
			sessions.POST("/catalog/refresh", hm.wizardHandler.RefreshCatalog)
			sessions.PATCH("/draft", hm.wizardHandler.UpdateDraft)
			sessions.POST("/draft", hm.wizardHandler.SaveDraft)
			sessions.POST("/next", hm.wizardHandler.Next)
			sessions.POST("/previous", hm.wizardHandler.Previous)
			sessions.POST("/reset", hm.wizardHandler.Reset)
			sessions.POST("/recommended-skill-configs", hm.wizardHandler.ApplyRecommendedSkillConfigs)
			sessions.POST("/default-settings", hm.wizardHandler.ApplyDefaultSettings)
			sessions.GET("/summary", hm.wizardHandler.GetSummary)
			sessions.GET("/review/export", hm.wizardHandler.ExportReview)
			sessions.POST("/submit", hm.wizardHandler.Submit)
		}
	}
}

// HealthCheck reports service and database health
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := hm.db.Ping(ctx); err != nil {
		utils.GetLoggerFromContext(c, hm.logger).LogError(err, "Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "teacher-portal",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "teacher-portal",
	})
}
