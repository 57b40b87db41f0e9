package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPServerValidation(t *testing.T) {
	h := NewHealthChecker(nil)
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {})

	_, err := NewHTTPServer(HTTPServerConfig{MCPHandler: mcpHandler, HealthChecker: h})
	assert.ErrorContains(t, err, "listen address")

	_, err = NewHTTPServer(HTTPServerConfig{Addr: ":8150", HealthChecker: h})
	assert.ErrorContains(t, err, "MCP handler")

	_, err = NewHTTPServer(HTTPServerConfig{Addr: ":8150", MCPHandler: mcpHandler})
	assert.ErrorContains(t, err, "health checker")
}

func TestHTTPServerRouting(t *testing.T) {
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("mcp"))
	})

	srv, err := NewHTTPServer(HTTPServerConfig{
		Addr:          "127.0.0.1:8150",
		MCPHandler:    mcpHandler,
		HealthChecker: NewHealthChecker(newTestServerContext(t)),
	})
	require.NoError(t, err)

	get := func(path string) (*httptest.ResponseRecorder, string) {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		body, _ := io.ReadAll(rec.Body)
		return rec, string(body)
	}

	// The MCP handler is reachable at /mcp and at the root.
	rec, body := get("/mcp")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mcp", body)

	rec, body = get("/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mcp", body)

	// Health endpoints win over the root mount.
	rec, body = get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "TickTick MCP server is healthy")

	rec, _ = get("/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHTTPServerAddr(t *testing.T) {
	srv, err := NewHTTPServer(HTTPServerConfig{
		Addr:          "0.0.0.0:9000",
		MCPHandler:    http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}),
		HealthChecker: NewHealthChecker(nil),
	})
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", srv.Addr())
}
