// In file: internal/executor/retry.go
package executor

import (
	"context"
	"math/rand"
	"time"
)

// RetryPolicy bounds how often a transient tool failure is retried.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// Backoff is the base delay; attempt n waits Backoff*n*n plus jitter.
	Backoff time.Duration
}

// DefaultRetryPolicy mirrors what the gateway runs with unless configured otherwise.
var DefaultRetryPolicy = RetryPolicy{MaxRetries: 2, Backoff: 200 * time.Millisecond}

// backoff returns the delay before retry number attempt (1-based).
func (p RetryPolicy) backoff(attempt int) time.Duration {
	base := p.Backoff * time.Duration(attempt*attempt)
	if base <= 0 {
		return 0
	}
	jitter := time.Duration(rand.Int63n(int64(base/2) + 1))
	return base + jitter
}

// wait sleeps for the backoff of attempt, returning early with ctx's error.
func (p RetryPolicy) wait(ctx context.Context, attempt int) error {
	d := p.backoff(attempt)
	if d == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
