package desktop

import (
	"context"
	"time"
)

const (
	DefaultAttempts = 10
	DefaultDelay    = time.Second / 3
)

// RetryPolicy bounds the wait for a window manager that starts after the pager.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
	// Sleep waits after each failed attempt. Nil means a context-aware time.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy returns 10 attempts one-third of a second apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: DefaultAttempts, Delay: DefaultDelay}
}

func (p RetryPolicy) attempts() int {
	if p.Attempts < 1 {
		return 1
	}
	return p.Attempts
}

func (p RetryPolicy) wait(ctx context.Context) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, p.Delay)
	}
	if p.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
