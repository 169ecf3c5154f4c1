// In file: cmd/toolworker/main.go

// Package main implements the tool worker: an offline service that drains the Redis
// job queue filled by gateways running with executor.mode=redis, executes each job in
// the job's workspace and pushes the result back on the job's reply key.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dileep-u-k/tool-gateway/internal/config"
	"github.com/dileep-u-k/tool-gateway/internal/executor"
	"github.com/dileep-u-k/tool-gateway/internal/tools"
	"github.com/dileep-u-k/tool-gateway/internal/version"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath  string
		workspace   string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:           "toolworker",
		Short:         "Executes queued tool calls",
		Version:       version.Build().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "❌ Configuration Error: %v\n", err)
				return err
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.Worker.Concurrency = concurrency
			}
			return run(cfg, workspace)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to gateway.yaml (default: ./gateway.yaml if present)")
	cmd.Flags().StringVar(&workspace, "workspace", ".", "workspace for jobs that do not name one")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "maximum number of jobs executed at once")
	return cmd
}

func run(cfg *config.AppConfig, workspace string) error {
	logger, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("❌ Configuration Error")
		return err
	}
	if cfg.Worker.Concurrency <= 0 {
		return errors.New("worker.concurrency must be positive")
	}

	registry, err := tools.Default(cfg.ToolOptions())
	if err != nil {
		return fmt.Errorf("failed to build tool catalogue: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer rdb.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		logger.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("❌ Could not connect to Redis")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	local := executor.NewLocal(registry, workspace, cfg.RetryPolicy(), logger)
	worker := executor.NewWorker(rdb, cfg.QueueConfig(), local, cfg.Worker.Concurrency, logger)

	logger.Info().
		Str("version", version.Build().Version).
		Str("redis", cfg.Redis.Addr).
		Str("namespace", cfg.Redis.Namespace).
		Int("concurrency", cfg.Worker.Concurrency).
		Int("tools", registry.ToolCount()).
		Msg("🚀 Tool worker started")

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("❌ Worker stopped")
		return err
	}
	logger.Info().Msg("👋 Tool worker exited gracefully.")
	return nil
}
