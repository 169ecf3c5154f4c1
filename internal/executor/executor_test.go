package executor

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dileep-u-k/tool-gateway/internal/tools"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyTool fails with the configured errors before succeeding.
type flakyTool struct {
	name   string
	errs   []error
	calls  atomic.Int32
	lastWS atomic.Value
}

func (f *flakyTool) Definition() tools.Tool {
	return tools.NewTool(f.name, "flaky", map[string]*tools.JSONSchema{})
}

func (f *flakyTool) Execute(ctx context.Context, call tools.Call) (map[string]any, error) {
	n := int(f.calls.Add(1))
	f.lastWS.Store(call.Workspace)
	if n <= len(f.errs) {
		return map[string]any{"attempt": n}, f.errs[n-1]
	}
	return map[string]any{"output": "ok", "echo": call.Arguments["value"]}, nil
}

func newLocal(t *testing.T, tool tools.ToolExecutor, policy RetryPolicy) *Local {
	t.Helper()
	reg, err := tools.NewRegistry("test", tool)
	require.NoError(t, err)
	return NewLocal(reg, "/workspace", policy, zerolog.Nop())
}

func TestResultAccessors(t *testing.T) {
	ok := Succeeded(map[string]any{"output": "ok"})
	assert.True(t, ok.Success())
	assert.Empty(t, ok.ErrorDetail())
	assert.Equal(t, "ok", ok["output"])

	failed := Failed("boom", map[string]any{"error": "shadowed", "stdout": "x"})
	assert.False(t, failed.Success())
	assert.Equal(t, "boom", failed.ErrorDetail())
	assert.Equal(t, "x", failed["stdout"])

	assert.False(t, Result{"success": "true"}.Success(), "only a JSON true is success")
	assert.Equal(t, `{"code":1}`, Result{"error": map[string]any{"code": 1}}.ErrorDetail())
}

func TestLocalSucceedsFirstTime(t *testing.T) {
	tool := &flakyTool{name: "echo"}
	local := newLocal(t, tool, DefaultRetryPolicy)

	result, err := local.Execute(context.Background(), "echo", map[string]any{"value": 7})
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, "ok", result["output"])
	assert.Equal(t, 7, result["echo"])
	assert.Equal(t, "/workspace", tool.lastWS.Load())
}

func TestLocalRetriesTransientFailures(t *testing.T) {
	tool := &flakyTool{name: "flaky", errs: []error{errors.New("disk hiccup"), errors.New("disk hiccup")}}
	local := newLocal(t, tool, RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond})

	result, err := local.Execute(context.Background(), "flaky", nil)
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, int32(3), tool.calls.Load())
}

func TestLocalGivesUpAfterMaxRetries(t *testing.T) {
	tool := &flakyTool{name: "flaky", errs: []error{errors.New("a"), errors.New("b"), errors.New("c")}}
	local := newLocal(t, tool, RetryPolicy{MaxRetries: 1, Backoff: time.Millisecond})

	result, err := local.Execute(context.Background(), "flaky", nil)
	require.NoError(t, err)
	assert.False(t, result.Success())
	assert.Equal(t, "b", result.ErrorDetail())
	assert.Equal(t, 2, result["attempts"])
	assert.Equal(t, 2, result["attempt"], "payload of the last attempt is kept")
}

func TestLocalDoesNotRetryPermanentFailures(t *testing.T) {
	tool := &flakyTool{name: "strict", errs: []error{&tools.ExitError{Code: 2}}}
	local := newLocal(t, tool, RetryPolicy{MaxRetries: 5, Backoff: time.Millisecond})

	result, err := local.Execute(context.Background(), "strict", nil)
	require.NoError(t, err)
	assert.False(t, result.Success())
	assert.Equal(t, int32(1), tool.calls.Load())
}

func TestLocalUnknownTool(t *testing.T) {
	local := newLocal(t, &flakyTool{name: "known"}, DefaultRetryPolicy)

	result, err := local.Execute(context.Background(), "missing", nil)
	require.NoError(t, err)
	assert.False(t, result.Success())
	assert.Contains(t, result.ErrorDetail(), "unknown tool: missing")
	assert.Contains(t, result.ErrorDetail(), "known")
}

func TestLocalStopsRetryingWhenCancelled(t *testing.T) {
	tool := &flakyTool{name: "flaky", errs: []error{errors.New("a"), errors.New("b")}}
	local := newLocal(t, tool, RetryPolicy{MaxRetries: 3, Backoff: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	result, err := local.Execute(ctx, "flaky", nil)
	require.NoError(t, err)
	assert.False(t, result.Success())
	assert.Contains(t, result.ErrorDetail(), "retry aborted")
	assert.Equal(t, int32(1), tool.calls.Load())
}

func TestFuncAdapter(t *testing.T) {
	var exec Executor = Func(func(ctx context.Context, name string, args map[string]any) (Result, error) {
		return Succeeded(map[string]any{"tool": name}), nil
	})
	result, err := exec.Execute(context.Background(), "x", nil)
	require.NoError(t, err)
	assert.Equal(t, "x", result["tool"])
}

func TestResultJSON(t *testing.T) {
	body, err := json.Marshal(Failed("boom", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"boom"}`, string(body))
}
