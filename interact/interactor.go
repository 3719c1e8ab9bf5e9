package interact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/networkteam/uiharness/driver"
)

// InteractorOptions configures an Interactor.
type InteractorOptions struct {
	// Wait is the explicit wait policy.
	// Default: DefaultWaitContext()
	Wait WaitContext
	// ClickRetry is applied to click-sensitive locators.
	// Default: ClickSensitiveRetry()
	ClickRetry *RetryPolicy
	// Logger receives retry diagnostics.
	// Default: slog.Default()
	Logger *slog.Logger
}

// Interactor resolves locators under an explicit wait and performs typed actions.
// Elements are resolved again on every call.
type Interactor struct {
	driver     driver.Driver
	wait       WaitContext
	clickRetry RetryPolicy
	logger     *slog.Logger
}

// NewInteractor creates an Interactor using the given wait policy and default retry settings.
func NewInteractor(d driver.Driver, wait WaitContext) *Interactor {
	return NewInteractorWithOptions(d, InteractorOptions{Wait: wait})
}

// NewInteractorWithOptions creates an Interactor.
func NewInteractorWithOptions(d driver.Driver, options InteractorOptions) *Interactor {
	wait := options.Wait
	if wait == (WaitContext{}) {
		wait = DefaultWaitContext()
	}
	wait = wait.withDefaults()
	clickRetry := ClickSensitiveRetry()
	if options.ClickRetry != nil {
		clickRetry = *options.ClickRetry
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Interactor{
		driver:     d,
		wait:       wait,
		clickRetry: clickRetry,
		logger:     logger,
	}
}

// WaitContext returns the wait policy in effect, with defaults applied.
func (i *Interactor) WaitContext() WaitContext {
	return i.wait
}

// Find polls until an element matches loc or the wait timeout elapses.
func (i *Interactor) Find(ctx context.Context, loc driver.Locator) (driver.Element, error) {
	var (
		found   driver.Element
		lastErr error
	)
	waited, ok, err := i.wait.Poll(ctx, func(ctx context.Context) bool {
		el, err := i.driver.FindElement(ctx, loc)
		if err != nil {
			if !errors.Is(err, driver.ErrNoSuchElement) {
				lastErr = err
			}
			return false
		}
		found = el
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("finding %s: %w", loc, err)
	}
	if !ok {
		return nil, &ElementNotFoundError{Locator: loc, Waited: waited, Err: lastErr}
	}
	return found, nil
}

// Present reports whether loc resolves within the wait timeout.
func (i *Interactor) Present(ctx context.Context, loc driver.Locator) bool {
	_, err := i.Find(ctx, loc)
	return err == nil
}

// Visible reports whether an element matching loc becomes visible within the wait timeout.
// Elements that exist but are not rendered, like a <title> or a hidden menu entry, do not count.
func (i *Interactor) Visible(ctx context.Context, loc driver.Locator) bool {
	_, ok, _ := i.wait.Poll(ctx, func(ctx context.Context) bool {
		visible, err := i.driver.IsVisible(ctx, loc)
		return err == nil && visible
	})
	return ok
}

// Count returns the number of elements currently matching loc without waiting.
func (i *Interactor) Count(ctx context.Context, loc driver.Locator) (int, error) {
	return i.driver.CountElements(ctx, loc)
}

// Click resolves loc and clicks it. Click-sensitive locators are retried with the click retry
// policy, since the wait only guarantees presence and not clickability.
func (i *Interactor) Click(ctx context.Context, loc driver.Locator) error {
	policy := NoRetry()
	if loc.ClickSensitive {
		policy = i.clickRetry
	}

	attempts, err := policy.Do(ctx, func(ctx context.Context) error {
		el, err := i.Find(ctx, loc)
		if err != nil {
			return err
		}
		return i.driver.Click(ctx, el)
	}, func(err error, next time.Duration) {
		i.logger.Debug("Retrying click",
			slog.String("locator", loc.String()),
			slog.Duration("backoff", next),
			slog.Any("error", err),
		)
	})
	if err == nil {
		return nil
	}
	// A plain lookup timeout on a single attempt stays an ElementNotFound error.
	if attempts == 1 && errors.Is(err, ErrElementNotFound) {
		return err
	}
	return &InteractionFailedError{Action: "click", Locator: loc, Attempts: attempts, Err: err}
}

// Type resolves loc, clears its content and types text verbatim.
func (i *Interactor) Type(ctx context.Context, loc driver.Locator, text string) error {
	el, err := i.Find(ctx, loc)
	if err != nil {
		return err
	}
	if err := i.driver.ClearAndType(ctx, el, text); err != nil {
		return &InteractionFailedError{Action: "type", Locator: loc, Attempts: 1, Err: err}
	}
	return nil
}

// Navigate loads url in the browser.
func (i *Interactor) Navigate(ctx context.Context, url string) error {
	return i.driver.Navigate(ctx, url)
}

// CurrentURL returns the browser's current address without waiting.
func (i *Interactor) CurrentURL(ctx context.Context) (string, error) {
	return i.driver.CurrentURL(ctx)
}

// CaptureScreen returns a PNG screenshot of the current viewport.
func (i *Interactor) CaptureScreen(ctx context.Context) ([]byte, error) {
	return i.driver.CaptureScreen(ctx)
}
