package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jaeyeom/ticktick-mcp/internal/config"
	"github.com/jaeyeom/ticktick-mcp/internal/instrumentation"
	"github.com/jaeyeom/ticktick-mcp/internal/logging"
	"github.com/jaeyeom/ticktick-mcp/internal/ticktick"
)

// ServerContext holds the shared state for the MCP server: configuration,
// the lazily initialized TickTick client, and the instrumentation hooks.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	cfg         *config.Config
	client      *ticktick.Client
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context. The TickTick client is not
// created here; sign-on happens on first use so the server can start (and
// report healthy) without upstream connectivity.
func NewServerContext(ctx context.Context, cfg *config.Config) (*ServerContext, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		cfg:    cfg,
	}, nil
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the server configuration.
func (sc *ServerContext) Config() *config.Config {
	return sc.cfg
}

// Client returns the TickTick client, signing on to the upstream API on
// first use and caching the client for subsequent calls.
func (sc *ServerContext) Client() (*ticktick.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil, fmt.Errorf("server is shutting down")
	}
	if sc.client != nil {
		return sc.client, nil
	}

	if err := sc.cfg.ValidateCredentials(); err != nil {
		return nil, err
	}

	creds := ticktick.Credentials{
		ClientID:     sc.cfg.ClientID,
		ClientSecret: sc.cfg.ClientSecret,
		RedirectURI:  sc.cfg.RedirectURI,
		Username:     sc.cfg.Username,
		Password:     sc.cfg.Password,
	}

	var opts []ticktick.Option
	cachePath := sc.cfg.TokenCachePath()
	if ticktick.HasToken(cachePath) {
		ts, err := ticktick.TokenSource(sc.ctx, creds, cachePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load OAuth token: %w", err)
		}
		opts = append(opts, ticktick.WithTokenSource(ts))
	}

	client, err := ticktick.NewClient(sc.ctx, creds, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize TickTick client: %w", err)
	}

	slog.Info("signed on to TickTick",
		logging.Operation("signon"),
		logging.Status(logging.StatusSuccess),
		logging.UserHash(sc.cfg.Username))

	sc.client = client
	return client, nil
}

// SetClient replaces the cached TickTick client. Used by tests.
func (sc *ServerContext) SetClient(client *ticktick.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.client = client
}

// Metrics returns the metrics recorder, or nil if not configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// AuditLogger returns the audit logger, or nil if not configured.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger.
func (sc *ServerContext) SetAuditLogger(auditLogger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = auditLogger
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
