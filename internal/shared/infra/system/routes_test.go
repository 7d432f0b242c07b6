package system

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterHealth(r, "api")
	RegisterVersion(r, VersionInfo{Environment: "development", Version: "1.2.3"})

	w := get(r, "/version")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"environment":"development","version":"1.2.3"}`, w.Body.String())

	w = get(r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"api"}`, w.Body.String())

	w = get(r, "/health/live")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive","service":"api"}`, w.Body.String())

	w = get(r, "/health/ready")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","service":"api","checks":{}}`, w.Body.String())
}

func TestHealthReady_FailingCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterHealth(r, "api",
		ReadinessCheck{Name: "store", Check: func(ctx context.Context) error { return nil }},
		ReadinessCheck{Name: "cache", Check: func(ctx context.Context) error { return errors.New("connection refused") }},
	)

	w := get(r, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","service":"api","checks":{"store":"ok","cache":"connection refused"}}`, w.Body.String())

	// live no depende de las comprobaciones
	w = get(r, "/health/live")
	assert.Equal(t, http.StatusOK, w.Code)
}
