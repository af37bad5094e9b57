package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/library/backend/internal/interfaces/http/handler"
	"github.com/library/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHealthHandler_Database(t *testing.T) {
	api := testutil.NewTestAPI(t)

	w := api.DoAnonymous(t, http.MethodGet, "/api/v1/health", nil)
	testutil.RequireStatus(t, w, http.StatusOK)
	status := testutil.Decode[handler.HealthStatus](t, w).Data
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, map[string]string{"database": "ok"}, status.Checks)

	_ = api.DB.Close()
	w = api.DoAnonymous(t, http.MethodGet, "/api/v1/health", nil)
	testutil.AssertErrorResponse(t, w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE")
}

func TestHealthHandler_ReportsEachCheck(t *testing.T) {
	h := handler.NewHealthHandler(map[string]handler.HealthCheck{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})
	engine := gin.New()
	engine.GET("/health", h.Health)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	env := testutil.Decode[handler.HealthStatus](t, w)
	assert.Equal(t, "unavailable", env.Data.Status)
	assert.Equal(t, map[string]string{"database": "ok", "redis": "down"}, env.Data.Checks)
}
