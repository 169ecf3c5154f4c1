// In file: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dileep-u-k/tool-gateway/internal/executor"
	"github.com/dileep-u-k/tool-gateway/internal/gateway"
	"github.com/dileep-u-k/tool-gateway/internal/tools"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. It is optional.
const DefaultPath = "gateway.yaml"

// Executor modes.
const (
	ModeLocal = "local"
	ModeRedis = "redis"
)

// AppConfig holds all configuration for the gateway and the tool worker, loaded from
// a .env file, gateway.yaml and the environment. Identity comes from flags only.
type AppConfig struct {
	Host       string           `yaml:"host"`
	Port       int              `yaml:"port"`
	ServerName string           `yaml:"server_name"`
	Identity   gateway.Identity `yaml:"-"`
	Executor   ExecutorConfig   `yaml:"executor"`
	Tools      ToolsConfig      `yaml:"tools"`
	Redis      RedisConfig      `yaml:"redis"`
	Worker     WorkerConfig     `yaml:"worker"`
	Routes     gateway.Aliases  `yaml:"routes"`
	Log        LogConfig        `yaml:"log"`
}

type ExecutorConfig struct {
	Mode              string        `yaml:"mode"`
	MaxRetries        int           `yaml:"max_retries"`
	RetryBackoff      time.Duration `yaml:"retry_backoff"`
	InvocationTimeout time.Duration `yaml:"invocation_timeout"`
}

type ToolsConfig struct {
	ShellTimeout     time.Duration `yaml:"shell_timeout"`
	MaxOutputBytes   int           `yaml:"max_output_bytes"`
	MaxSearchMatches int           `yaml:"max_search_matches"`
}

type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Namespace    string        `yaml:"namespace"`
	ReplyTimeout time.Duration `yaml:"reply_timeout"`
	ReplyTTL     time.Duration `yaml:"reply_ttl"`
}

type WorkerConfig struct {
	Concurrency int `yaml:"concurrency"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used for anything gateway.yaml leaves unset.
func Default() *AppConfig {
	return &AppConfig{
		Host:       "127.0.0.1",
		Port:       8000,
		ServerName: tools.DefaultServerName,
		Executor: ExecutorConfig{
			Mode:         ModeLocal,
			MaxRetries:   executor.DefaultRetryPolicy.MaxRetries,
			RetryBackoff: executor.DefaultRetryPolicy.Backoff,
		},
		Tools: ToolsConfig{
			ShellTimeout:     tools.DefaultShellTimeout,
			MaxOutputBytes:   tools.DefaultMaxOutputBytes,
			MaxSearchMatches: tools.DefaultMaxSearchMatches,
		},
		Redis: RedisConfig{
			Addr:         "localhost:6379",
			Namespace:    executor.DefaultQueueConfig.Namespace,
			ReplyTimeout: executor.DefaultQueueConfig.ReplyTimeout,
			ReplyTTL:     executor.DefaultQueueConfig.ReplyTTL,
		},
		Worker: WorkerConfig{Concurrency: 4},
		Log:    LogConfig{Level: "info", Format: "json"},
	}
}

// Load builds the configuration. path may be empty, in which case DefaultPath is read
// if it exists; an explicitly named file must exist.
func Load(path string) (*AppConfig, error) {
	// In Docker (GIN_MODE=release) the environment is provided directly.
	if os.Getenv("GIN_MODE") != "release" {
		_ = godotenv.Load()
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", key, v)
		}
		*dst = n
		return nil
	}

	str("HOST", &c.Host)
	str("SERVER_NAME", &c.ServerName)
	str("EXECUTOR_MODE", &c.Executor.Mode)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_NAMESPACE", &c.Redis.Namespace)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	if err := num("PORT", &c.Port); err != nil {
		return err
	}
	return num("WORKER_CONCURRENCY", &c.Worker.Concurrency)
}

// Validate checks the settings shared by every command.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d is out of range", c.Port))
	}
	if strings.TrimSpace(c.ServerName) == "" {
		errs = append(errs, errors.New("server_name must not be empty"))
	}
	switch c.Executor.Mode {
	case ModeLocal:
	case ModeRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis.addr is required when executor.mode is redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("executor.mode must be %q or %q, got %q", ModeLocal, ModeRedis, c.Executor.Mode))
	}
	if c.Executor.MaxRetries < 0 {
		errs = append(errs, errors.New("executor.max_retries must not be negative"))
	}
	if c.Executor.InvocationTimeout < 0 {
		errs = append(errs, errors.New("executor.invocation_timeout must not be negative"))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// ValidateIdentity checks the identity the gateway was started for. The project path
// is the workspace every tool runs in, so it must be an existing directory.
func (c *AppConfig) ValidateIdentity() error {
	id := c.Identity
	var missing []string
	for flag, v := range map[string]string{
		"project-id":      id.ProjectID,
		"project-path":    id.ProjectPath,
		"session-id":      id.SessionID,
		"conversation-id": id.ConversationID,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, "--"+flag)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("missing identity: %s", strings.Join(missing, ", "))
	}
	info, err := os.Stat(id.ProjectPath)
	if err != nil {
		return fmt.Errorf("project path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project path %s is not a directory", id.ProjectPath)
	}
	return nil
}

// Addr is the listen address.
func (c *AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *AppConfig) RetryPolicy() executor.RetryPolicy {
	return executor.RetryPolicy{MaxRetries: c.Executor.MaxRetries, Backoff: c.Executor.RetryBackoff}
}

func (c *AppConfig) QueueConfig() executor.QueueConfig {
	return executor.QueueConfig{
		Namespace:    c.Redis.Namespace,
		ReplyTimeout: c.Redis.ReplyTimeout,
		ReplyTTL:     c.Redis.ReplyTTL,
	}
}

func (c *AppConfig) ToolOptions() tools.Options {
	return tools.Options{
		ServerName:       c.ServerName,
		ShellTimeout:     c.Tools.ShellTimeout,
		MaxOutputBytes:   c.Tools.MaxOutputBytes,
		MaxSearchMatches: c.Tools.MaxSearchMatches,
	}
}

// NewLogger builds the root logger. Format "console" is human-readable; anything else
// is JSON lines.
func (c LogConfig) NewLogger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if c.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
