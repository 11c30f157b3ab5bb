package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/ganot/helpdesk-mcp/internal/config"
	"github.com/ganot/helpdesk-mcp/internal/domain/analytics"
	"github.com/ganot/helpdesk-mcp/internal/domain/kb"
	"github.com/ganot/helpdesk-mcp/internal/domain/relationship"
	"github.com/ganot/helpdesk-mcp/internal/domain/search"
	"github.com/ganot/helpdesk-mcp/internal/domain/sla"
	"github.com/ganot/helpdesk-mcp/internal/domain/ticket"
	"github.com/ganot/helpdesk-mcp/internal/mcp"
	"github.com/ganot/helpdesk-mcp/internal/sqlite"
	"github.com/ganot/helpdesk-mcp/internal/zendesk"
)

func main() {
	var (
		transport string
		host      string
		port      int
	)

	root := &cobra.Command{
		Use:   "helpdesk-mcp",
		Short: "MCP server exposing read-only helpdesk search, analytics, and SLA tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(transport, host, port)
		},
		SilenceUsage: true,
	}
	root.Flags().StringVar(&transport, "transport", "stdio", "transport mode: stdio or http")
	root.Flags().StringVar(&host, "host", "", "listen host (http mode, overrides config)")
	root.Flags().IntVar(&port, "port", 0, "listen port (http mode, overrides config)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(transport, host string, port int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if transport == "stdio" {
		logWriter = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	client, err := zendesk.New(zendesk.Config{
		Subdomain: cfg.Zendesk.Subdomain,
		Email:     cfg.Zendesk.Email,
		Token:     cfg.Zendesk.Token,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("client error: %w", err)
	}

	if cfg.Cursor.Path != "" {
		if err := ensureDBDir(cfg.Cursor.Path); err != nil {
			return fmt.Errorf("cursor db path error: %w", err)
		}
		db, err := sqlite.New(cfg.Cursor.Path)
		if err != nil {
			return fmt.Errorf("cursor db error: %w", err)
		}
		defer db.Close()
		if err := db.Migrate(); err != nil {
			return fmt.Errorf("cursor db migration error: %w", err)
		}
		client.SetCursorStore(sqlite.NewCursorStore(db), "")
		logger.Info("cursor persistence enabled", "path", cfg.Cursor.Path)
	}

	handler := mcp.NewHandler(mcp.Services{
		Tickets:       ticket.NewService(client, logger),
		Search:        search.NewService(client, logger),
		Analytics:     analytics.NewService(client, logger),
		Relationships: relationship.NewService(client, logger),
		SLA:           sla.NewService(client, logger),
		KB:            kb.NewService(client, cfg.KB.CacheTTL, logger),
	})

	server := mcp.NewServer(mcp.Config{
		Handler: handler,
		Logger:  logger,
	})

	if transport == "stdio" {
		return runStdio(logger, server)
	}
	return runHTTP(logger, server, handler, cfg.Server.Host, cfg.Server.Port)
}

func runStdio(logger *slog.Logger, server *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled.
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil {
		return fmt.Errorf("stdio server error: %w", err)
	}
	return nil
}

func runHTTP(logger *slog.Logger, server *sdkmcp.Server, handler *mcp.Handler, host string, port int) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	// Plain JSON-RPC endpoint for clients without streamable HTTP support.
	router.Handle("/rpc", mcp.NewHTTPHandler(handler, logger))
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
