package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jaeyeom/ticktick-mcp/internal/logging"
)

const (
	// DefaultHTTPReadHeaderTimeout bounds how long reading request headers
	// may take. Request bodies are not bounded because streamable HTTP
	// sessions are long-lived.
	DefaultHTTPReadHeaderTimeout = 10 * time.Second

	// DefaultHTTPIdleTimeout is the idle timeout for keep-alive connections.
	DefaultHTTPIdleTimeout = 120 * time.Second
)

// HTTPServerConfig holds configuration for the MCP HTTP server.
type HTTPServerConfig struct {
	// Addr is the address to bind to (e.g., "0.0.0.0:8150").
	Addr string

	// MCPHandler serves the streamable HTTP MCP protocol.
	MCPHandler http.Handler

	// HealthChecker provides the health endpoints. Required.
	HealthChecker *HealthChecker

	// Logger for server lifecycle messages. Defaults to the process-wide
	// slog logger.
	Logger logging.Logger
}

// HTTPServer serves the MCP protocol over streamable HTTP together with the
// health endpoints, on a single listener.
//
// The MCP handler is mounted both at /mcp and at the root path, so clients
// configured with either base URL work. Health endpoints take precedence
// over the root mount.
type HTTPServer struct {
	httpServer *http.Server
	addr       string
	logger     logging.Logger
}

// NewHTTPServer creates the MCP HTTP server.
func NewHTTPServer(config HTTPServerConfig) (*HTTPServer, error) {
	if config.Addr == "" {
		return nil, fmt.Errorf("listen address is required")
	}
	if config.MCPHandler == nil {
		return nil, fmt.Errorf("MCP handler is required")
	}
	if config.HealthChecker == nil {
		return nil, fmt.Errorf("health checker is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	mux := http.NewServeMux()
	config.HealthChecker.RegisterHealthEndpoints(mux)
	mux.Handle("/mcp", config.MCPHandler)
	mux.Handle("/mcp/", config.MCPHandler)
	mux.Handle("/", config.MCPHandler)

	return &HTTPServer{
		httpServer: &http.Server{
			Addr:              config.Addr,
			Handler:           mux,
			ReadHeaderTimeout: DefaultHTTPReadHeaderTimeout,
			IdleTimeout:       DefaultHTTPIdleTimeout,
		},
		addr:   config.Addr,
		logger: logger,
	}, nil
}

// Start starts the HTTP server in a blocking manner.
// Call this in a goroutine if you need non-blocking operation.
func (s *HTTPServer) Start() error {
	s.logger.Info("starting MCP HTTP server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down MCP HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *HTTPServer) Addr() string {
	return s.addr
}

// Handler returns the underlying HTTP handler. Used by tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.httpServer.Handler
}
