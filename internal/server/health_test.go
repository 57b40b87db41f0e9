package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaeyeom/ticktick-mcp/internal/config"
)

func newTestServerContext(t *testing.T) *ServerContext {
	t.Helper()
	sc, err := NewServerContext(context.Background(), &config.Config{
		Transport: config.TransportHTTP,
		Host:      "127.0.0.1",
		Port:      8150,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthHandler(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t))

	rec := httptest.NewRecorder()
	h.HealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "TickTick MCP server is healthy", resp.Message)
}

func TestHealthHandlerDuringShutdown(t *testing.T) {
	sc := newTestServerContext(t)
	h := NewHealthChecker(sc)
	require.NoError(t, sc.Shutdown())

	rec := httptest.NewRecorder()
	h.HealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "shutting down", decodeHealth(t, rec).Status)
}

func TestLivenessHandlerAlwaysOK(t *testing.T) {
	h := NewHealthChecker(nil)
	h.SetReady(false)

	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeHealth(t, rec).Status)
}

func TestReadinessHandler(t *testing.T) {
	sc := newTestServerContext(t)
	h := NewHealthChecker(sc)

	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Not ready
	h.SetReady(false)
	rec = httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "not ready", resp.Status)
	assert.Equal(t, "not ready", resp.Checks["ready"])

	// Ready but shutting down
	h.SetReady(true)
	require.NoError(t, sc.Shutdown())
	rec = httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "shutting down", decodeHealth(t, rec).Checks["shutdown"])
}

func TestRegisterHealthEndpoints(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t))
	mux := http.NewServeMux()
	h.RegisterHealthEndpoints(mux)

	for _, path := range []string{"/health", "/healthz", "/readyz", "/healthz/detailed"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}
}

func TestDetailedHealthHandlerReportsUptime(t *testing.T) {
	h := NewHealthChecker(newTestServerContext(t))

	rec := httptest.NewRecorder()
	h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp DetailedHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Uptime)
}
