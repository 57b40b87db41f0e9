package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/jaeyeom/ticktick-mcp/internal/config"
	"github.com/jaeyeom/ticktick-mcp/internal/instrumentation"
	"github.com/jaeyeom/ticktick-mcp/internal/server"
	"github.com/jaeyeom/ticktick-mcp/internal/tools/convert_tools"
	"github.com/jaeyeom/ticktick-mcp/internal/tools/filter_tools"
	"github.com/jaeyeom/ticktick-mcp/internal/tools/task_tools"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		transport      string
		host           string
		port           int
		configDir      string
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing TickTick task
management tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Configuration:
  Credentials come from the environment or from a .env file in the config
  directory (default: ~/.config/ticktick-mcp). Required variables:
    TICKTICK_CLIENT_ID, TICKTICK_CLIENT_SECRET, TICKTICK_REDIRECT_URI,
    TICKTICK_USERNAME, TICKTICK_PASSWORD
  Transport settings can also come from SERVER_TRANSPORT, SERVER_HOST and
  SERVER_PORT; flags take precedence over the environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}

			// Flags override environment-derived settings, but only
			// when the user actually set them.
			if cmd.Flags().Changed("transport") {
				cfg.Transport = config.NormalizeTransport(transport)
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			switch cfg.Transport {
			case config.TransportStdio, config.TransportHTTP:
			default:
				return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.Transport)
			}

			metricsConfig := MetricsConfig{Enabled: metricsEnabled, Addr: metricsAddr}
			applyMetricsEnv(&metricsConfig,
				cmd.Flags().Changed("metrics-enabled"),
				cmd.Flags().Changed("metrics-addr"))

			return runServe(cfg, metricsConfig)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http. Can also use SERVER_TRANSPORT env var.")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host (for streamable-http transport). Can also use SERVER_HOST env var.")
	cmd.Flags().IntVar(&port, "port", 8150, "HTTP listen port (for streamable-http transport). Can also use SERVER_PORT env var.")
	cmd.Flags().StringVar(&configDir, "config-dir", "", "Directory containing the .env file and token cache (default: ~/.config/ticktick-mcp)")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// applyMetricsEnv fills in metrics settings from METRICS_ENABLED and
// METRICS_ADDR. Flags the user set explicitly win over the environment,
// so METRICS_ENABLED=false disables the server unless --metrics-enabled
// was passed.
func applyMetricsEnv(mc *MetricsConfig, enabledSet, addrSet bool) {
	if !enabledSet {
		if v := os.Getenv("METRICS_ENABLED"); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				mc.Enabled = enabled
			}
		}
	}
	if !addrSet {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			mc.Addr = addr
		}
	}
}

func runServe(cfg *config.Config, metricsConfig MetricsConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Structured logs go to stderr so the stdio transport keeps stdout
	// for the protocol.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	stdio := cfg.Transport == config.TransportStdio

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			if !stdio {
				log.Printf("Error during instrumentation shutdown: %v", err)
			}
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if !stdio && metricsConfig.Enabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				log.Printf("Metrics server error: %v", err)
			}
		}()
		log.Printf("Metrics server started on %s", metricsServer.Addr())
	}

	// Create server context
	serverContext, err := server.NewServerContext(shutdownCtx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			if !stdio {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("ticktick-mcp", version,
		mcpserver.WithToolCapabilities(true),
	)

	// Register all tools
	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}

	// Start the appropriate server based on transport type
	switch cfg.Transport {
	case config.TransportStdio:
		return runStdioServer(mcpSrv)
	case config.TransportHTTP:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, cfg.ListenAddr())
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.Transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, addr string) error {
	mcpHandler := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath("/mcp"),
	)

	healthChecker := server.NewHealthChecker(sc)

	httpServer, err := server.NewHTTPServer(server.HTTPServerConfig{
		Addr:          addr,
		MCPHandler:    mcpHandler,
		HealthChecker: healthChecker,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()
	healthChecker.SetReady(true)
	log.Printf("Starting ticktick-mcp MCP server on %s (streamable-http)", addr)

	select {
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	case <-ctx.Done():
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error during server shutdown: %w", err)
		}
		return nil
	}
}

// registerAllTools registers all MCP tools
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Tasks",
			register: func() error {
				return task_tools.RegisterTaskTools(mcpSrv, ctx)
			},
		},
		{
			name: "Filters",
			register: func() error {
				return filter_tools.RegisterFilterTools(mcpSrv, ctx)
			},
		},
		{
			name: "Convert",
			register: func() error {
				return convert_tools.RegisterConvertTools(mcpSrv, ctx)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}
