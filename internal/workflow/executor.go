package workflow

import (
	"context"
	"fmt"
	"time"
)

// StepFunc is one retryable unit of work. Re-invocation with the same
// inputs must be safe.
type StepFunc func(ctx context.Context) (interface{}, error)

// Executor runs named steps. The in-process implementation retries
// inline; a durable runtime can swap in here without the steps changing.
type Executor interface {
	Run(ctx context.Context, name string, fn StepFunc) (interface{}, error)
}

// InProcessExecutor retries each step a bounded number of times with a
// fixed backoff between attempts.
type InProcessExecutor struct {
	MaxAttempts int
	Backoff     time.Duration
}

func NewInProcessExecutor() *InProcessExecutor {
	return &InProcessExecutor{
		MaxAttempts: 2,
		Backoff:     500 * time.Millisecond,
	}
}

func (e *InProcessExecutor) Run(ctx context.Context, name string, fn StepFunc) (interface{}, error) {
	attempts := e.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 && e.Backoff > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.Backoff):
			}
		}
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("step %s failed after %d attempts: %w", name, attempts, lastErr)
}
