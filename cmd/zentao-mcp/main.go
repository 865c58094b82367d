// zentao-mcp: read-only MCP server for ZenTao project management data.
//
// It exposes the products, projects, bugs, users and modules of a
// ZenTao database as MCP query tools for AI agents.
//
// Usage:
//
//	zentao-mcp serve                     # stdio transport
//	zentao-mcp serve --transport sse     # SSE transport on --port
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/zentaolab/zentao-mcp/internal/config"
	appserver "github.com/zentaolab/zentao-mcp/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	transport  string
	port       int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:     "zentao-mcp",
	Short:   "Read-only MCP server for ZenTao project management data",
	Version: appserver.Version,
	Long: `zentao-mcp exposes a ZenTao database to AI agents through MCP tools:
list_products, get_projects_by_product, get_bugs, list_users, list_modules.

All queries are read-only; the database is the system of record and is
never modified.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	RunE:  runServe,
}

func init() {
	rootCmd.SetVersionTemplate("zentao-mcp version {{.Version}}\n")

	serveCmd.Flags().StringVar(&configPath, "config", "",
		"Path to config file (default: zentao-mcp.json in CWD or ~/.zentao-mcp/)")
	serveCmd.Flags().StringVar(&transport, "transport", "",
		"Transport type: stdio or sse (overrides config)")
	serveCmd.Flags().IntVar(&port, "port", 0,
		"Port to listen on for SSE (overrides config)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if transport != "" {
		cfg.Server.Transport = transport
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err = newLogger(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	s, cleanup, err := appserver.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	logger.Info("starting zentao-mcp",
		zap.String("transport", cfg.Server.Transport),
		zap.String("driver", cfg.Database.Driver),
	)

	switch cfg.Server.Transport {
	case "sse":
		return serveSSE(s, cfg.Server.Port)
	default:
		return server.ServeStdio(s)
	}
}

// serveSSE runs the SSE transport with graceful shutdown on interrupt.
func serveSSE(s *server.MCPServer, port int) error {
	sse := server.NewSSEServer(s)
	addr := fmt.Sprintf(":%d", port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sse.Start(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	logger.Info("SSE transport listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", zap.Stringer("signal", sig))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return sse.Shutdown(ctx)
	}
}

// newLogger builds the process logger. It writes to stderr only: with
// the stdio transport, stdout belongs to the MCP wire protocol.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
