// In file: internal/executor/worker.go
package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

// Worker consumes jobs queued by Redis executors and runs them through a Local
// executor, at most concurrency at a time.
type Worker struct {
	rdb         *redis.Client
	cfg         QueueConfig
	local       *Local
	concurrency int
	logger      zerolog.Logger
}

// NewWorker creates a queue worker. concurrency <= 0 means one job at a time.
func NewWorker(rdb *redis.Client, cfg QueueConfig, local *Local, concurrency int, logger zerolog.Logger) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Worker{
		rdb:         rdb,
		cfg:         cfg.withDefaults(),
		local:       local,
		concurrency: concurrency,
		logger:      logger.With().Str("component", "worker").Logger(),
	}
}

// Run processes jobs until ctx is cancelled, then waits for in-flight jobs to finish
// and deliver their replies.
func (w *Worker) Run(ctx context.Context) error {
	p := pool.New().WithMaxGoroutines(w.concurrency)
	defer p.Wait()

	w.logger.Info().Str("queue", w.cfg.jobsKey()).Int("concurrency", w.concurrency).Msg("👂 Worker is listening")
	for {
		if ctx.Err() != nil {
			w.logger.Info().Msg("🛑 Worker stopping")
			return nil
		}
		popped, err := w.rdb.BLPop(ctx, w.cfg.PollInterval, w.cfg.jobsKey()).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.logger.Error().Err(err).Msg("failed to pop job")
			sleep(ctx, w.cfg.PollInterval)
			continue
		}

		raw := popped[1]
		p.Go(func() {
			w.handle(ctx, raw)
		})
	}
}

func (w *Worker) handle(ctx context.Context, raw string) {
	var job Job
	if err := DecodeJSON([]byte(raw), &job); err != nil {
		w.logger.Error().Err(err).Msg("dropping malformed job")
		return
	}
	logger := w.logger.With().Str("job_id", job.ID).Str("tool_name", job.ToolName).Logger()
	if job.ReplyTo == "" {
		logger.Error().Msg("dropping job without reply key")
		return
	}

	start := time.Now()
	result := w.execute(ctx, job)
	replyBytes, err := json.Marshal(result)
	if err != nil {
		replyBytes, _ = json.Marshal(Failed("failed to serialize result: "+err.Error(), nil))
	}

	// Replies are delivered even while shutting down; the caller is still waiting.
	replyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	pipe := w.rdb.TxPipeline()
	pipe.RPush(replyCtx, job.ReplyTo, replyBytes)
	pipe.Expire(replyCtx, job.ReplyTo, w.cfg.ReplyTTL)
	if _, err := pipe.Exec(replyCtx); err != nil {
		logger.Error().Err(err).Msg("failed to deliver reply")
		return
	}
	logger.Debug().Bool("success", result.Success()).Dur("duration", time.Since(start)).Msg("job done")
}

// execute runs the job, turning a tool panic into a failed result so that the caller
// still gets a reply.
func (w *Worker) execute(ctx context.Context, job Job) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().Str("job_id", job.ID).Interface("panic", r).Msg("❌ tool panicked")
			result = Failed(fmt.Sprintf("tool panic: %v", r), nil)
		}
	}()
	result, err := w.local.ExecuteIn(ctx, job.Workspace, job.ToolName, job.Arguments)
	if err != nil {
		return Failed(err.Error(), nil)
	}
	return result
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
