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

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/mailsift/internal/instrumentation"
	"github.com/teemow/mailsift/internal/logging"
	"github.com/teemow/mailsift/internal/pipeline"
	"github.com/teemow/mailsift/internal/server"
	"github.com/teemow/mailsift/internal/tools/mail_tools"
)

// serveConfig holds the settings for the serve command.
type serveConfig struct {
	Transport      string
	HTTPAddr       string
	Debug          bool
	LogJSON        bool
	MetricsEnabled bool
	MetricsAddr    string
}

func newServeCmd() *cobra.Command {
	var cfg serveConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the mailsift server",
		Long: `Start mailsift as a long-running server.

Supports two transport types:
  - http:  JSON API on /api/emails and /api/emails/classify (default)
  - stdio: MCP server over standard input/output for AI assistants

Credentials are supplied per request (Authorization header, request
body or tool arguments) and are never persisted by the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyServeEnv(cmd, &cfg)
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.Transport, "transport", "http", "Transport type: http or stdio")
	cmd.Flags().StringVar(&cfg.HTTPAddr, "http-addr", ":8080", "HTTP server address (for http transport)")
	cmd.Flags().BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&cfg.LogJSON, "log-json", false, "Emit logs as JSON")
	cmd.Flags().BoolVar(&cfg.MetricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// applyServeEnv fills settings from the environment for flags the user
// did not set explicitly.
func applyServeEnv(cmd *cobra.Command, cfg *serveConfig) {
	if !cmd.Flags().Changed("metrics-enabled") {
		if v := os.Getenv("METRICS_ENABLED"); v != "" {
			cfg.MetricsEnabled = v == "true"
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			cfg.MetricsAddr = addr
		}
	}
}

func runServe(cfg serveConfig) error {
	if cfg.Transport != "http" && cfg.Transport != "stdio" {
		return fmt.Errorf("unsupported transport type: %s (supported: http, stdio)", cfg.Transport)
	}

	// Logs go to stderr so the stdio transport keeps stdout clean for
	// the MCP protocol.
	logger := logging.Setup(os.Stderr, logging.Options{Debug: cfg.Debug, JSON: cfg.LogJSON})

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	p := buildPipeline(logger, provider.Metrics())

	var metricsServer *server.MetricsServer
	if cfg.Transport == "http" && cfg.MetricsEnabled && provider.Enabled() {
		metricsServer = server.NewMetricsServer(cfg.MetricsAddr, logger)
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.Error("metrics server failed", logging.Err(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	switch cfg.Transport {
	case "stdio":
		return runStdioServer(p, provider)
	default:
		return runHTTPServer(ctx, cfg, p, provider, logger)
	}
}

func runHTTPServer(ctx context.Context, cfg serveConfig, p *pipeline.Pipeline, provider *instrumentation.Provider, logger *slog.Logger) error {
	health := server.NewHealthChecker()
	api := server.NewAPI(p, logger, provider.Metrics(), health)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      api.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		logger.Info("starting HTTP server", logging.Operation("serve"))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		health.SetShuttingDown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}

func runStdioServer(p *pipeline.Pipeline, provider *instrumentation.Provider) error {
	mcpSrv := mcpserver.NewMCPServer("mailsift", version,
		mcpserver.WithToolCapabilities(true),
	)

	if err := mail_tools.RegisterMailTools(mcpSrv, p, provider.Metrics()); err != nil {
		return fmt.Errorf("failed to register mail tools: %w", err)
	}

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
