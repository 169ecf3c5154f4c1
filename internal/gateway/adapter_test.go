package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dileep-u-k/tool-gateway/internal/executor"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execFunc(fn func(ctx context.Context, name string, args map[string]any) (executor.Result, error)) executor.Executor {
	return executor.Func(fn)
}

func TestAdapterPassesInvocationThrough(t *testing.T) {
	var gotName string
	var gotArgs map[string]any
	adapter := NewAdapter(execFunc(func(ctx context.Context, name string, args map[string]any) (executor.Result, error) {
		gotName, gotArgs = name, args
		return executor.Result{"success": true, "output": "ok"}, nil
	}), nil)

	result := adapter.Execute(context.Background(), Invocation{ToolName: "glob", Arguments: map[string]any{"pattern": "*"}})
	assert.True(t, result.Success())
	assert.Equal(t, "glob", gotName)
	assert.Equal(t, map[string]any{"pattern": "*"}, gotArgs)
}

func TestAdapterAbsorbsExecutorFaults(t *testing.T) {
	tests := []struct {
		name   string
		exec   executor.Executor
		detail string
	}{
		{
			name: "error",
			exec: execFunc(func(context.Context, string, map[string]any) (executor.Result, error) {
				return nil, errors.New("redis is down")
			}),
			detail: "redis is down",
		},
		{
			name: "panic",
			exec: execFunc(func(context.Context, string, map[string]any) (executor.Result, error) {
				panic("kaboom")
			}),
			detail: "executor panic: kaboom",
		},
		{
			name: "nil result",
			exec: execFunc(func(context.Context, string, map[string]any) (executor.Result, error) {
				return nil, nil
			}),
			detail: "executor returned no result",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewAdapter(tt.exec, nil).Execute(context.Background(), Invocation{ToolName: "x"})
			assert.False(t, result.Success())
			assert.Equal(t, tt.detail, result.ErrorDetail())
		})
	}
}

func TestAdapterTimeout(t *testing.T) {
	adapter := NewAdapter(execFunc(func(ctx context.Context, _ string, _ map[string]any) (executor.Result, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), nil, WithTimeout(10*time.Millisecond))

	result := adapter.Execute(context.Background(), Invocation{ToolName: "slow"})
	assert.False(t, result.Success())
	assert.Equal(t, context.DeadlineExceeded.Error(), result.ErrorDetail())
}

func TestInterceptorOrder(t *testing.T) {
	var trace []string
	tag := func(name string) Interceptor {
		return func(next ExecuteFunc) ExecuteFunc {
			return func(ctx context.Context, inv Invocation) (executor.Result, error) {
				trace = append(trace, name+">")
				defer func() { trace = append(trace, "<"+name) }()
				return next(ctx, inv)
			}
		}
	}
	adapter := NewAdapter(execFunc(func(context.Context, string, map[string]any) (executor.Result, error) {
		trace = append(trace, "exec")
		return executor.Succeeded(nil), nil
	}), []Interceptor{tag("outer"), tag("inner")})

	adapter.Execute(context.Background(), Invocation{ToolName: "x"})
	assert.Equal(t, []string{"outer>", "inner>", "exec", "<inner", "<outer"}, trace)
}

func TestLogExecutionOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		exec    executor.Executor
		outcome Outcome
	}{
		{
			name: "success",
			exec: execFunc(func(context.Context, string, map[string]any) (executor.Result, error) {
				return executor.Succeeded(nil), nil
			}),
			outcome: OutcomeSuccess,
		},
		{
			name: "executor failure",
			exec: execFunc(func(context.Context, string, map[string]any) (executor.Result, error) {
				return executor.Failed("boom", nil), nil
			}),
			outcome: OutcomeExecutorFailure,
		},
		{
			name: "error",
			exec: execFunc(func(context.Context, string, map[string]any) (executor.Result, error) {
				return nil, errors.New("down")
			}),
			outcome: OutcomeInternalError,
		},
		{
			name: "panic",
			exec: execFunc(func(context.Context, string, map[string]any) (executor.Result, error) {
				panic("kaboom")
			}),
			outcome: OutcomeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			adapter := NewAdapter(tt.exec, []Interceptor{LogExecution(zerolog.New(&buf))})
			adapter.Execute(context.Background(), Invocation{ToolName: "read_file"})

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, 1)
			var event map[string]any
			require.NoError(t, json.Unmarshal([]byte(lines[0]), &event))
			assert.Equal(t, "tool_execution", event["event"])
			assert.Equal(t, "read_file", event["tool_name"])
			assert.Equal(t, string(tt.outcome), event["outcome"])
			assert.Contains(t, event, "duration_ms")
		})
	}
}
