package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/teacher-portal/internal/config"
	"github.com/SAP-F-2025/teacher-portal/internal/utils"
)

// TeacherIDHeader identifies the caller when auth runs in header mode.
const TeacherIDHeader = "X-Teacher-ID"

var errMissingSubject = errors.New("token carries no user id")

// TokenParser resolves a bearer token to the teacher it was issued to.
type TokenParser interface {
	ParseTeacherID(token string) (string, error)
}

// CasdoorTokenParser verifies tokens issued by Casdoor.
type CasdoorTokenParser struct {
	client *casdoorsdk.Client
}

func NewCasdoorTokenParser(cfg config.AuthConfig) *CasdoorTokenParser {
	return &CasdoorTokenParser{
		client: casdoorsdk.NewClient(
			cfg.Endpoint,
			cfg.ClientID,
			cfg.ClientSecret,
			cfg.Certificate,
			cfg.Organization,
			cfg.Application,
		),
	}
}

func (p *CasdoorTokenParser) ParseTeacherID(token string) (string, error) {
	claims, err := p.client.ParseJwtToken(token)
	if err != nil {
		return "", err
	}
	if claims.Id == "" {
		return "", errMissingSubject
	}
	return claims.Id, nil
}

// NewAuthMiddleware picks the middleware for the configured auth mode.
func NewAuthMiddleware(cfg config.AuthConfig, logger utils.Logger) gin.HandlerFunc {
	if cfg.Mode == config.AuthModeHeader {
		logger.Warn("Teacher identity is trusted from the " + TeacherIDHeader + " header")
		return HeaderAuth()
	}
	return BearerAuth(NewCasdoorTokenParser(cfg), logger)
}

// BearerAuth authenticates the Authorization bearer token.
func BearerAuth(parser TokenParser, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Missing bearer token",
			})
			return
		}

		teacherID, err := parser.ParseTeacherID(strings.TrimSpace(token))
		if err != nil {
			logger.Warn("Rejected bearer token",
				"request_id", utils.GetRequestID(c),
				"error", err,
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid token",
			})
			return
		}

		c.Set(utils.TeacherIDKey, teacherID)
		c.Next()
	}
}

// HeaderAuth trusts X-Teacher-ID. Only for development behind a gateway.
func HeaderAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		teacherID := strings.TrimSpace(c.GetHeader(TeacherIDHeader))
		if teacherID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Missing " + TeacherIDHeader + " header",
			})
			return
		}
		c.Set(utils.TeacherIDKey, teacherID)
		c.Next()
	}
}
