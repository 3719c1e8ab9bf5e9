package interact

import (
	"context"
	"time"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 250 * time.Millisecond
)

// WaitContext is the explicit wait policy used for every element resolution of a session.
// It is a value and must not be changed once a session is active.
type WaitContext struct {
	// Timeout is the maximum time to wait for a condition.
	Timeout time.Duration
	// PollInterval is the time between two checks.
	PollInterval time.Duration
}

// DefaultWaitContext returns a 30s timeout polled every 250ms.
func DefaultWaitContext() WaitContext {
	return WaitContext{
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
	}
}

func (w WaitContext) withDefaults() WaitContext {
	if w.Timeout < 0 {
		w.Timeout = 0
	}
	if w.PollInterval <= 0 {
		w.PollInterval = DefaultPollInterval
	}
	return w
}

// Poll calls check until it returns true, the timeout elapses or ctx is done.
// check is always called at least once. It returns the elapsed time and whether check succeeded;
// a non-nil error is only returned when ctx ended the wait.
func (w WaitContext) Poll(ctx context.Context, check func(ctx context.Context) bool) (time.Duration, bool, error) {
	w = w.withDefaults()
	start := time.Now()
	deadline := start.Add(w.Timeout)

	for {
		if check(ctx) {
			return time.Since(start), true, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return time.Since(start), false, nil
		}

		timer := time.NewTimer(min(w.PollInterval, remaining))
		select {
		case <-ctx.Done():
			timer.Stop()
			return time.Since(start), false, ctx.Err()
		case <-timer.C:
		}
	}
}
