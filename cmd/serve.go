package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/mcp-google-sheets/internal/drive"
	"github.com/teemow/mcp-google-sheets/internal/google"
	"github.com/teemow/mcp-google-sheets/internal/instrumentation"
	"github.com/teemow/mcp-google-sheets/internal/server"
	"github.com/teemow/mcp-google-sheets/internal/sheets"
	"github.com/teemow/mcp-google-sheets/internal/tools/drive_tools"
	"github.com/teemow/mcp-google-sheets/internal/tools/sheets_tools"
)

const (
	envDriveFolderID  = "DRIVE_FOLDER_ID"
	envMetricsEnabled = "METRICS_ENABLED"
	envMetricsAddr    = "METRICS_ADDR"
)

// serveConfig collects the resolved serve options after flags and
// environment variables have been merged.
type serveConfig struct {
	Transport      string
	HTTPAddr       string
	Debug          bool
	ReadOnly       bool
	DriveFolderID  string
	MetricsEnabled bool
	MetricsAddr    string
}

func newServeCmd() *cobra.Command {
	var (
		debugMode      bool
		transport      string
		httpAddr       string
		readOnly       bool
		driveFolderID  string
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing Google Sheets
and Drive tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Credentials are resolved from the environment at startup. See the root
command help for the resolution order.

Read-Only Mode:
  With --read-only, only tools that read spreadsheet data are registered.
  Tools that create, modify or share spreadsheets are withheld entirely.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := serveConfig{
				Transport:      transport,
				HTTPAddr:       httpAddr,
				Debug:          debugMode,
				ReadOnly:       readOnly,
				DriveFolderID:  driveFolderID,
				MetricsEnabled: metricsEnabled,
				MetricsAddr:    metricsAddr,
			}

			// Flags win over environment variables.
			if !cmd.Flags().Changed("drive-folder") {
				if v := os.Getenv(envDriveFolderID); v != "" {
					cfg.DriveFolderID = v
				}
			}
			if !cmd.Flags().Changed("metrics-enabled") {
				if os.Getenv(envMetricsEnabled) == "false" {
					cfg.MetricsEnabled = false
				}
			}
			if !cmd.Flags().Changed("metrics-addr") {
				if v := os.Getenv(envMetricsAddr); v != "" {
					cfg.MetricsAddr = v
				}
			}

			return runServe(cfg)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Register only tools that read spreadsheet data")
	cmd.Flags().StringVar(&driveFolderID, "drive-folder", "", "Drive folder ID scoping spreadsheet creation and listing. Can also use DRIVE_FOLDER_ID env var.")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(cfg serveConfig) error {
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Logs go to stderr; stdout carries the protocol on stdio transport.
	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("instrumentation shutdown failed", "error", err)
		}
	}()

	// The metrics server binds its own port, so it stays off for stdio
	// transport where no network listener is expected.
	var metricsServer *server.MetricsServer
	if cfg.Transport != "stdio" && cfg.MetricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.MetricsAddr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			logger.Info("metrics server started", "addr", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	resolver := &google.Resolver{
		Config: google.ConfigFromEnv(),
		Logger: logger,
	}
	if provider.Enabled() {
		resolver.Metrics = provider.Metrics()
	}
	cred, err := resolver.Resolve(shutdownCtx)
	if err != nil {
		return fmt.Errorf("failed to resolve Google credentials: %w", err)
	}

	sheetsClient, err := sheets.NewClient(shutdownCtx, cred.TokenSource)
	if err != nil {
		return fmt.Errorf("failed to create Sheets client: %w", err)
	}
	driveClient, err := drive.NewClient(shutdownCtx, cred.TokenSource)
	if err != nil {
		return fmt.Errorf("failed to create Drive client: %w", err)
	}

	opts := server.Options{
		SheetsClient: sheetsClient,
		DriveClient:  driveClient,
		FolderID:     cfg.DriveFolderID,
		ReadOnly:     cfg.ReadOnly,
	}
	if provider.Enabled() {
		opts.Metrics = provider.Metrics()
		opts.AuditLogger = instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging)
	}
	serverContext := server.NewServerContext(shutdownCtx, opts)

	defer func() {
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown failed", "error", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("server context shutdown failed", "error", err)
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("mcp-google-sheets", version,
		mcpserver.WithToolCapabilities(true),
	)

	if cfg.ReadOnly {
		logger.Info("starting in read-only mode, mutating tools are not registered")
	}
	if cfg.DriveFolderID != "" {
		logger.Info("operating on Drive folder", "folder_id", cfg.DriveFolderID)
	}

	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}

	switch cfg.Transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, cfg, provider, logger)
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

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, cfg serveConfig, provider *instrumentation.Provider, logger *slog.Logger) error {
	httpServer := server.NewHTTPServer(mcpSrv)
	httpServer.SetHealthChecker(server.NewHealthChecker(sc))
	if provider.Enabled() {
		httpServer.SetMetrics(provider.Metrics())
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	logger.Info("HTTP server started", "addr", cfg.HTTPAddr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error during server shutdown: %w", err)
		}
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	}
}

// registerAllTools registers the full tool surface on the MCP server.
// Read-only gating happens inside each registration.
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Sheets",
			register: func() error {
				return sheets_tools.RegisterSheetsTools(mcpSrv, sc)
			},
		},
		{
			name: "Drive",
			register: func() error {
				return drive_tools.RegisterDriveTools(mcpSrv, sc)
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
