package interact_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/networkteam/uiharness/interact"
)

func TestRetryPolicy_Do(t *testing.T) {
	errFlaky := errors.New("flaky")

	tests := []struct {
		name         string
		policy       interact.RetryPolicy
		failures     int
		wantAttempts int
		wantErr      bool
	}{
		{name: "success first try", policy: interact.RetryPolicy{Attempts: 2, Backoff: time.Millisecond}, failures: 0, wantAttempts: 1},
		{name: "success on retry", policy: interact.RetryPolicy{Attempts: 2, Backoff: time.Millisecond}, failures: 1, wantAttempts: 2},
		{name: "exhausted", policy: interact.RetryPolicy{Attempts: 2, Backoff: time.Millisecond}, failures: 3, wantAttempts: 2, wantErr: true},
		{name: "no retry", policy: interact.NoRetry(), failures: 1, wantAttempts: 1, wantErr: true},
		{name: "zero attempts means one", policy: interact.RetryPolicy{}, failures: 1, wantAttempts: 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remaining := tt.failures
			notified := 0

			attempts, err := tt.policy.Do(context.Background(), func(ctx context.Context) error {
				if remaining > 0 {
					remaining--
					return errFlaky
				}
				return nil
			}, func(err error, next time.Duration) {
				notified++
			})

			assert.Equal(t, tt.wantAttempts, attempts)
			assert.Equal(t, tt.wantAttempts-1, notified)
			if tt.wantErr {
				assert.ErrorIs(t, err, errFlaky)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRetryPolicy_Do_StopsOnContextError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	policy := interact.RetryPolicy{Attempts: 5, Backoff: time.Millisecond}
	attempts, err := policy.Do(ctx, func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	}, nil)

	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClickSensitiveRetry(t *testing.T) {
	p := interact.ClickSensitiveRetry()
	assert.Equal(t, 2, p.Attempts)
	assert.Equal(t, 500*time.Millisecond, p.Backoff)
}
