package interact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/networkteam/uiharness/driver"
)

var (
	// ErrElementNotFound matches every *ElementNotFoundError.
	ErrElementNotFound = errors.New("element not found")
	// ErrInteractionFailed matches every *InteractionFailedError.
	ErrInteractionFailed = errors.New("interaction failed")
)

// ElementNotFoundError is returned when no element matched a locator within the wait timeout.
// It also matches context.DeadlineExceeded, since it is a wait timeout.
type ElementNotFoundError struct {
	Locator driver.Locator
	Waited  time.Duration
	// Err is the last driver error seen while polling, if any.
	Err error
}

func (e *ElementNotFoundError) Error() string {
	msg := fmt.Sprintf("element %s not found after %s", e.Locator, e.Waited.Round(time.Millisecond))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ElementNotFoundError) Is(target error) bool {
	return target == ErrElementNotFound || target == context.DeadlineExceeded
}

func (e *ElementNotFoundError) Unwrap() error {
	return e.Err
}

// InteractionFailedError is returned when an action failed after its retry budget was used.
type InteractionFailedError struct {
	Action   string
	Locator  driver.Locator
	Attempts int
	Err      error
}

func (e *InteractionFailedError) Error() string {
	return fmt.Sprintf("%s on %s failed after %d attempt(s): %v", e.Action, e.Locator, e.Attempts, e.Err)
}

func (e *InteractionFailedError) Is(target error) bool {
	return target == ErrInteractionFailed
}

func (e *InteractionFailedError) Unwrap() error {
	return e.Err
}
