// In file: internal/gateway/interceptor.go
package gateway

import (
	"context"
	"time"

	"github.com/dileep-u-k/tool-gateway/internal/executor"

	"github.com/rs/zerolog"
)

// Outcome classifies how an execution ended.
type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeExecutorFailure Outcome = "executor_failure"
	OutcomeInternalError   Outcome = "internal_error"
)

// LogExecution emits one structured "tool_execution" event per call, on every path,
// including panics (which are re-raised for the Adapter to absorb).
func LogExecution(logger zerolog.Logger) Interceptor {
	return func(next ExecuteFunc) ExecuteFunc {
		return func(ctx context.Context, inv Invocation) (result executor.Result, err error) {
			start := time.Now()
			outcome := OutcomeInternalError
			defer func() {
				event := logger.Info()
				if outcome != OutcomeSuccess {
					event = logger.Warn()
				}
				event = event.
					Str("event", "tool_execution").
					Str("tool_name", inv.ToolName).
					Float64("duration_ms", float64(time.Since(start).Microseconds())/1000).
					Str("outcome", string(outcome))
				if err != nil {
					event = event.Err(err)
				} else if result != nil && !result.Success() {
					event = event.Str("error_detail", result.ErrorDetail())
				}
				event.Msg("tool executed")
			}()

			result, err = next(ctx, inv)
			switch {
			case err != nil || result == nil:
				outcome = OutcomeInternalError
			case result.Success():
				outcome = OutcomeSuccess
			default:
				outcome = OutcomeExecutorFailure
			}
			return result, err
		}
	}
}
