package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthResponse(t *testing.T, deps map[string]pinger) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/health", (&HealthChecker{deps: deps}).Handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealth_AllPass(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })

	status, body := healthResponse(t, map[string]pinger{"postgres": ok, "redis": ok})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pass", body["status"])
}

func TestHealth_ReportsFailingDependency(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	status, body := healthResponse(t, map[string]pinger{"postgres": ok, "redis": down})

	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "fail", body["status"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "pass", checks["postgres"].(map[string]any)["status"])
	assert.Equal(t, "connection refused", checks["redis"].(map[string]any)["error"])
}
