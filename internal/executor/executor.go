// In file: internal/executor/executor.go
package executor

import "context"

// Executor runs a named tool with its arguments and returns exactly one Result.
//
// A returned error means the executor itself failed (transport down, internal
// fault) as opposed to the tool reporting failure, which is a Result with
// success=false. Implementations own their retry policy.
type Executor interface {
	Execute(ctx context.Context, toolName string, arguments map[string]any) (Result, error)
}

// Func adapts an ordinary function to the Executor interface.
type Func func(ctx context.Context, toolName string, arguments map[string]any) (Result, error)

// Execute calls f.
func (f Func) Execute(ctx context.Context, toolName string, arguments map[string]any) (Result, error) {
	return f(ctx, toolName, arguments)
}
