// In file: internal/executor/local.go
package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/dileep-u-k/tool-gateway/internal/tools"

	"github.com/rs/zerolog"
)

// Local executes tools in-process against a workspace directory, retrying transient
// failures according to its RetryPolicy.
type Local struct {
	registry  *tools.Registry
	workspace string
	retry     RetryPolicy
	logger    zerolog.Logger
}

var _ Executor = (*Local)(nil)

// NewLocal creates a local executor that runs tools from registry inside workspace.
func NewLocal(registry *tools.Registry, workspace string, retry RetryPolicy, logger zerolog.Logger) *Local {
	if retry.MaxRetries < 0 {
		retry.MaxRetries = 0
	}
	return &Local{
		registry:  registry,
		workspace: workspace,
		retry:     retry,
		logger:    logger.With().Str("component", "executor").Logger(),
	}
}

// Execute runs the tool in the executor's own workspace.
func (l *Local) Execute(ctx context.Context, toolName string, arguments map[string]any) (Result, error) {
	return l.ExecuteIn(ctx, l.workspace, toolName, arguments)
}

// ExecuteIn runs the tool in an explicit workspace. Workers use it to honour the
// workspace carried by each queued job.
func (l *Local) ExecuteIn(ctx context.Context, workspace, toolName string, arguments map[string]any) (Result, error) {
	tool, ok := l.registry.Lookup(toolName)
	if !ok {
		return Failed(fmt.Sprintf("unknown tool: %s (available: %s)", toolName, strings.Join(l.registry.Names(), ", ")), nil), nil
	}
	if arguments == nil {
		arguments = map[string]any{}
	}
	call := tools.Call{Workspace: workspace, Arguments: arguments}

	attempts := 0
	for {
		attempts++
		payload, err := tool.Execute(ctx, call)
		if err == nil {
			return Succeeded(payload), nil
		}

		retryable := !tools.IsPermanent(err) && ctx.Err() == nil && attempts <= l.retry.MaxRetries
		if !retryable {
			failed := Failed(err.Error(), payload)
			failed["attempts"] = attempts
			return failed, nil
		}

		l.logger.Warn().
			Err(err).
			Str("tool_name", toolName).
			Int("attempt", attempts).
			Msg("tool failed, will retry")
		if err := l.retry.wait(ctx, attempts); err != nil {
			failed := Failed(fmt.Sprintf("retry aborted: %v", err), payload)
			failed["attempts"] = attempts
			return failed, nil
		}
	}
}
