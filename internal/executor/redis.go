// In file: internal/executor/redis.go
package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

// QueueConfig names the Redis keys and timings shared by the gateway side (Redis)
// and the worker side (Worker) of the queue.
type QueueConfig struct {
	// Namespace prefixes every key, e.g. "toolgateway" → "toolgateway:jobs".
	Namespace string
	// ReplyTimeout bounds how long the gateway waits for a worker's reply.
	ReplyTimeout time.Duration
	// ReplyTTL is how long an unread reply survives.
	ReplyTTL time.Duration
	// PollInterval is the worker's BLPOP timeout between shutdown checks.
	PollInterval time.Duration
}

// DefaultQueueConfig holds the queue settings used when none are configured.
var DefaultQueueConfig = QueueConfig{
	Namespace:    "toolgateway",
	ReplyTimeout: 5 * time.Minute,
	ReplyTTL:     time.Minute,
	PollInterval: time.Second,
}

func (c QueueConfig) withDefaults() QueueConfig {
	if c.Namespace == "" {
		c.Namespace = DefaultQueueConfig.Namespace
	}
	if c.ReplyTimeout <= 0 {
		c.ReplyTimeout = DefaultQueueConfig.ReplyTimeout
	}
	if c.ReplyTTL <= 0 {
		c.ReplyTTL = DefaultQueueConfig.ReplyTTL
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultQueueConfig.PollInterval
	}
	return c
}

func (c QueueConfig) jobsKey() string { return c.Namespace + ":jobs" }

func (c QueueConfig) replyKey(jobID string) string { return c.Namespace + ":reply:" + jobID }

// Job is the wire format of one queued tool call.
type Job struct {
	ID         string            `json:"id"`
	ToolName   string            `json:"tool_name"`
	Arguments  map[string]any    `json:"arguments"`
	Workspace  string            `json:"workspace"`
	Labels     map[string]string `json:"labels,omitempty"`
	ReplyTo    string            `json:"reply_to"`
	EnqueuedAt time.Time         `json:"enqueued_at"`
}

// Redis is an Executor that pushes each call onto a Redis list and waits for a worker
// to push the Result back on a per-job reply key. Retries happen on the worker.
type Redis struct {
	rdb       *redis.Client
	cfg       QueueConfig
	workspace string
	labels    map[string]string
}

var _ Executor = (*Redis)(nil)

// NewRedis creates a queue-backed executor. workspace and labels are stamped on every
// job so that workers run the call in the caller's project.
func NewRedis(rdb *redis.Client, cfg QueueConfig, workspace string, labels map[string]string) *Redis {
	return &Redis{
		rdb:       rdb,
		cfg:       cfg.withDefaults(),
		workspace: workspace,
		labels:    labels,
	}
}

// Execute enqueues the call and blocks until a reply arrives, the reply timeout
// elapses, or ctx is done.
func (r *Redis) Execute(ctx context.Context, toolName string, arguments map[string]any) (Result, error) {
	id := ulid.Make().String()
	job := Job{
		ID:         id,
		ToolName:   toolName,
		Arguments:  arguments,
		Workspace:  r.workspace,
		Labels:     r.labels,
		ReplyTo:    r.cfg.replyKey(id),
		EnqueuedAt: time.Now().UTC(),
	}
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize job: %w", err)
	}
	if err := r.rdb.RPush(ctx, r.cfg.jobsKey(), jobBytes).Err(); err != nil {
		return nil, fmt.Errorf("failed to push job to Redis: %w", err)
	}

	reply, err := r.rdb.BLPop(ctx, r.cfg.ReplyTimeout, job.ReplyTo).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("no reply for job %s within %s", id, r.cfg.ReplyTimeout)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to wait for job %s: %w", id, err)
	}

	var result Result
	if err := DecodeJSON([]byte(reply[1]), &result); err != nil {
		return nil, fmt.Errorf("failed to decode reply for job %s: %w", id, err)
	}
	return result, nil
}
