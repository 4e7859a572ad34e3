// Thinkd is a sequential-thinking daemon for MCP clients.
//
// It speaks MCP over stdio (the `think` tool family) and serves an HTTP
// dashboard and read-only JSON API for inspecting live reasoning sessions.
//
// Configuration is merged from ~/.config/thinkd/config.yaml and environment
// variables. See internal/config for details.
//
// Usage:
//
//	# Start the daemon (stdio MCP + dashboard on :9190)
//	thinkd
//
//	# Custom config file
//	thinkd --config /etc/thinkd/config.yaml
//
//	# MCP only, no dashboard
//	thinkd --no-dashboard
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/thinkd/internal/config"
	thinkhttp "github.com/fyrsmithlabs/thinkd/internal/http"
	"github.com/fyrsmithlabs/thinkd/internal/logging"
	"github.com/fyrsmithlabs/thinkd/internal/mcp"
	"github.com/fyrsmithlabs/thinkd/internal/session"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var (
	configPath  string
	noDashboard bool
)

var rootCmd = &cobra.Command{
	Use:   "thinkd",
	Short: "Sequential-thinking MCP daemon",
	Long: `thinkd records step-by-step reasoning traces for MCP clients.

It exposes the think tool family over stdio and a web dashboard for
inspecting live sessions. Stdout carries the MCP protocol; all logs go
to stderr.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("thinkd by Fyrsmith Labs\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", gitCommit)
		fmt.Printf("Build Date: %s\n", buildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/thinkd/config.yaml)")
	rootCmd.Flags().BoolVar(&noDashboard, "no-dashboard", false, "disable the HTTP dashboard and API")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run starts the daemon and blocks until the context is cancelled.
//
// Initialization order:
//  1. Load and validate configuration
//  2. Initialize the structured logger (stderr only)
//  3. Create the shared session registry
//  4. Start the HTTP dashboard (unless disabled)
//  5. Run the MCP server on stdio until shutdown
func run(ctx context.Context) error {
	// When the MCP client disconnects, the derived cancel stops the dashboard too.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	logger.Info("Starting thinkd",
		zap.String("version", version),
		zap.Int("max_thought_history", cfg.Thinking.MaxThoughtHistory),
		zap.Int("max_branches", cfg.Thinking.MaxBranches),
		zap.Bool("dashboard", !noDashboard))

	registry := session.NewRegistry(cfg.Thinking.StoreOptions(), logger)

	mcpServer, err := mcp.NewServer(&mcp.Config{
		Name:    "thinkd",
		Version: version,
		Logger:  logger,
	}, registry)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	httpErrCh := make(chan error, 1)
	if !noDashboard {
		httpServer, err := thinkhttp.NewServer(registry, logger, &thinkhttp.Config{
			Host:            cfg.Server.Host,
			Port:            cfg.Server.Port,
			ServiceName:     cfg.Server.ServiceName,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to create HTTP server: %w", err)
		}

		logger.Info("Dashboard configured",
			zap.String("dashboard", fmt.Sprintf("http://%s:%d/dashboard", cfg.Server.Host, cfg.Server.Port)),
			zap.String("metrics", "/metrics"))

		go func() {
			httpErrCh <- httpServer.Start(ctx)
		}()
	}

	// Blocks until the client disconnects or the context is cancelled.
	mcpErr := mcpServer.Run(ctx)
	cancel()

	if !noDashboard {
		if httpErr := <-httpErrCh; httpErr != nil && !errors.Is(httpErr, http.ErrServerClosed) {
			logger.Error("HTTP server error", zap.Error(httpErr))
			if mcpErr == nil {
				mcpErr = httpErr
			}
		}
	}

	if mcpErr != nil && !errors.Is(mcpErr, context.Canceled) {
		return mcpErr
	}

	logger.Info("Shutdown complete")
	return nil
}
