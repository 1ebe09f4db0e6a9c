package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/SAP-F-2025/teacher-portal/internal/utils"
)

func newAuthRouter(auth gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/whoami", auth, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(utils.TeacherIDKey))
	})
	return r
}

func TestBearerAuth(t *testing.T) {
	router := newAuthRouter(BearerAuth(stubTokenParser{"good-token": "t1"}, testLogger()))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "valid token", header: "Bearer good-token", status: http.StatusOK, body: "t1"},
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", status: http.StatusUnauthorized},
		{name: "invalid token", header: "Bearer forged", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestHeaderAuth(t *testing.T) {
	router := newAuthRouter(HeaderAuth())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(TeacherIDHeader, " t7 ")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t7", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthCheck(t *testing.T) {
	healthy := newTestServer(stubPinger{})
	w := httptest.NewRecorder()
	healthy.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	down := newTestServer(stubPinger{err: errors.New("connection refused")})
	w = httptest.NewRecorder()
	down.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUnauthenticatedAPI(t *testing.T) {
	s := newTestServer(stubPinger{})
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assignment-wizard/s1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	s.wizard.AssertNotCalled(t, "Get")
}
