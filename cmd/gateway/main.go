// In file: cmd/gateway/main.go
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

	"github.com/dileep-u-k/tool-gateway/internal/config"
	"github.com/dileep-u-k/tool-gateway/internal/executor"
	"github.com/dileep-u-k/tool-gateway/internal/gateway"
	"github.com/dileep-u-k/tool-gateway/internal/tools"
	"github.com/dileep-u-k/tool-gateway/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// flags holds the command-line values that override configuration.
type flags struct {
	configPath string
	port       int
	identity   gateway.Identity
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "gateway",
		Short:         "Tool invocation gateway",
		Long:          "Serves the tool catalogue over HTTP and forwards tool calls to the command executor.",
		Version:       version.Build().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.configPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "❌ FATAL: Configuration Error: %v\n", err)
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = f.port
			}
			cfg.Identity = f.identity
			return run(cfg)
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "path to gateway.yaml (default: ./gateway.yaml if present)")
	cmd.Flags().IntVar(&f.port, "port", 8000, "port to listen on")
	cmd.Flags().StringVar(&f.identity.ProjectID, "project-id", "", "project identifier")
	cmd.Flags().StringVar(&f.identity.ProjectPath, "project-path", "", "project directory every tool runs in")
	cmd.Flags().StringVar(&f.identity.SessionID, "session-id", "", "session identifier")
	cmd.Flags().StringVar(&f.identity.ConversationID, "conversation-id", "", "conversation identifier")
	for _, name := range []string{"project-id", "project-path", "session-id", "conversation-id"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// run is the composition root: it validates configuration, builds every component,
// injects dependencies and serves until interrupted.
func run(cfg *config.AppConfig) error {
	logger, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	if err := errors.Join(cfg.Validate(), cfg.ValidateIdentity()); err != nil {
		logger.Error().Err(err).Msg("❌ FATAL: Configuration Error")
		return err
	}

	build := version.Build()
	logger.Info().
		Str("version", build.Version).
		Str("commit", build.GitCommit).
		Object("identity", cfg.Identity).
		Str("project_path", cfg.Identity.ProjectPath).
		Msg("🚀 Starting Tool Gateway")

	registry, err := tools.Default(cfg.ToolOptions())
	if err != nil {
		return fmt.Errorf("failed to build tool catalogue: %w", err)
	}
	logger.Info().Int("tools", registry.ToolCount()).Strs("names", registry.Names()).Msg("✅ Tool registry initialized.")

	exec, closeExec, err := newExecutor(cfg, registry, logger)
	if err != nil {
		logger.Error().Err(err).Msg("❌ FATAL: Could not create command executor")
		return err
	}
	defer closeExec()

	adapter := gateway.NewAdapter(exec,
		[]gateway.Interceptor{gateway.LogExecution(logger)},
		gateway.WithTimeout(cfg.Executor.InvocationTimeout),
	)
	handler := gateway.NewHandler(registry, adapter, cfg.Identity, logger)
	logger.Info().Str("executor", cfg.Executor.Mode).Msg("✅ All services initialized.")

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), gateway.RequestLogger(logger))
	routes := gateway.RouteTable(cfg.Routes)
	gateway.Mount(engine, routes, handler)
	logger.Info().Int("routes", len(routes)).Msg("✅ Routes mounted.")

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return runServerWithGracefulShutdown(srv, logger)
}

// newExecutor builds the command executor selected by executor.mode. The returned
// func releases whatever the executor holds open.
func newExecutor(cfg *config.AppConfig, registry *tools.Registry, logger zerolog.Logger) (executor.Executor, func(), error) {
	switch cfg.Executor.Mode {
	case config.ModeRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("could not connect to Redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Str("namespace", cfg.Redis.Namespace).Msg("✅ Connected to Redis job queue.")
		exec := executor.NewRedis(rdb, cfg.QueueConfig(), cfg.Identity.ProjectPath, cfg.Identity.Labels())
		return exec, func() { _ = rdb.Close() }, nil
	default:
		exec := executor.NewLocal(registry, cfg.Identity.ProjectPath, cfg.RetryPolicy(), logger)
		return exec, func() {}, nil
	}
}

// runServerWithGracefulShutdown handles the server lifecycle.
func runServerWithGracefulShutdown(srv *http.Server, logger zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Msgf("👂 Gateway is listening on http://%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		logger.Error().Err(err).Msg("❌ Listen error")
		return err
	case <-quit:
	}

	logger.Info().Msg("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("❌ Server shutdown failed")
		return err
	}

	logger.Info().Msg("👋 Server exited gracefully.")
	return nil
}
