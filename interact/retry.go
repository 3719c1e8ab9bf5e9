package interact

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const DefaultClickBackoff = 500 * time.Millisecond

// RetryPolicy retries an action a fixed number of times with a constant backoff.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first. Values below 1 mean 1.
	Attempts int
	// Backoff is the pause between two tries.
	Backoff time.Duration
}

// ClickSensitiveRetry is the policy for click-sensitive locators: one retry after 500ms.
func ClickSensitiveRetry() RetryPolicy {
	return RetryPolicy{
		Attempts: 2,
		Backoff:  DefaultClickBackoff,
	}
}

// NoRetry runs an action exactly once.
func NoRetry() RetryPolicy {
	return RetryPolicy{Attempts: 1}
}

// Do runs op until it succeeds or the attempts are used up and returns the number of attempts made
// together with the last error. notify, if set, is called before every retry.
// Context errors stop the retries immediately.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error, notify func(err error, next time.Duration)) (int, error) {
	attempts := max(p.Attempts, 1)

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Backoff), uint64(attempts-1)),
		ctx,
	)

	tries := 0
	err := backoff.RetryNotify(func() error {
		tries++
		err := op(ctx)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}, b, notify)

	return tries, err
}
