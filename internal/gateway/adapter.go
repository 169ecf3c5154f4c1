// In file: internal/gateway/adapter.go
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/dileep-u-k/tool-gateway/internal/executor"
)

// ExecuteFunc is one step of the execution chain. A non-nil error (or a panic) is an
// executor fault; a Result with success=false is an ordinary tool failure.
type ExecuteFunc func(ctx context.Context, inv Invocation) (executor.Result, error)

// Interceptor wraps an ExecuteFunc with cross-cutting behaviour such as logging.
type Interceptor func(next ExecuteFunc) ExecuteFunc

// Adapter forwards normalized invocations to the Command Executor. Whatever the
// executor does, Execute hands back exactly one Result.
type Adapter struct {
	chain   ExecuteFunc
	timeout time.Duration
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithTimeout bounds each invocation. Zero means no deadline beyond the caller's.
func WithTimeout(d time.Duration) AdapterOption {
	return func(a *Adapter) { a.timeout = d }
}

// NewAdapter builds an adapter around exec. Interceptors run in the order given, the
// first being outermost.
func NewAdapter(exec executor.Executor, interceptors []Interceptor, opts ...AdapterOption) *Adapter {
	chain := func(ctx context.Context, inv Invocation) (executor.Result, error) {
		return exec.Execute(ctx, inv.ToolName, inv.Arguments)
	}
	for i := len(interceptors) - 1; i >= 0; i-- {
		chain = interceptors[i](chain)
	}
	a := &Adapter{chain: chain}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Execute runs the invocation. Executor errors, panics and missing results are
// converted into failed Results, never propagated.
func (a *Adapter) Execute(ctx context.Context, inv Invocation) (result executor.Result) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			result = executor.Failed(fmt.Sprintf("executor panic: %v", r), nil)
		}
	}()

	res, err := a.chain(ctx, inv)
	if err != nil {
		return executor.Failed(err.Error(), nil)
	}
	if res == nil {
		return executor.Failed("executor returned no result", nil)
	}
	return res
}
