package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HendryAvila/project-memory-mcp/internal/config"
	"github.com/HendryAvila/project-memory-mcp/internal/logging"
	pmserver "github.com/HendryAvila/project-memory-mcp/internal/server"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type serveOptions struct {
	configPath string
	transport  string
	addr       string
	logLevel   string
	root       string
	watch      bool
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Long: `Run the MCP server for the project in --root (default: current directory).

Settings come from ~/.project-memory-mcp/config.yaml (or --config);
flags override the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServeConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, opts.root)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Config file (default ~/.project-memory-mcp/config.yaml)")
	f.StringVar(&opts.transport, "transport", config.TransportStdio, "Transport: stdio or sse")
	f.StringVar(&opts.addr, "addr", "", "Listen address for the sse transport")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&opts.root, "root", "", "Project root (default: current directory)")
	f.BoolVar(&opts.watch, "watch", false, "Notify clients when prompt overrides change")
	return cmd
}

// loadServeConfig reads the config file and applies explicitly set flags.
func loadServeConfig(cmd *cobra.Command, opts *serveOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("transport") {
		cfg.Transport = opts.transport
	}
	if f.Changed("addr") {
		cfg.Addr = opts.addr
	}
	if f.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if f.Changed("watch") {
		cfg.Watch = opts.watch
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(ctx context.Context, cfg *config.Config, root string) error {
	root, err := resolveRoot(root)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	s, cleanup, err := pmserver.New(cfg, root, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Transport {
	case config.TransportSSE:
		return serveSSE(ctx, s, cfg.Addr, logger)
	default:
		// The stdio server manages its own lifecycle and exits on EOF
		// or on the signals it installs.
		return server.ServeStdio(s)
	}
}

func serveSSE(ctx context.Context, s *server.MCPServer, addr string, logger *zap.Logger) error {
	sse := server.NewSSEServer(s)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving sse", zap.String("addr", addr))
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return sse.Shutdown(shutdownCtx)
	}
}

func resolveRoot(root string) (string, error) {
	if root != "" {
		return root, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return wd, nil
}
