package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightLauncher starts Chromium through Playwright.
type PlaywrightLauncher struct {
	// RunOptions are passed to playwright.Run. Nil uses Playwright's defaults.
	RunOptions *playwright.RunOptions
}

// NewPlaywrightLauncher creates a launcher with default run options.
func NewPlaywrightLauncher() *PlaywrightLauncher {
	return &PlaywrightLauncher{}
}

// Launch starts a Playwright driver, a Chromium browser, an isolated browser context and one page.
// Resources already started are released again if a later step fails.
func (l *PlaywrightLauncher) Launch(ctx context.Context, opts LaunchOptions) (Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	var runOptions []*playwright.RunOptions
	if l.RunOptions != nil {
		runOptions = append(runOptions, l.RunOptions)
	}
	pw, err := playwright.Run(runOptions...)
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     opts.ChromeArgs(),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launching chromium: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: opts.WindowWidth, Height: opts.WindowHeight},
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("creating browser context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		_ = browserCtx.Close()
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("opening page: %w", err)
	}
	page.SetDefaultTimeout(float64(opts.ImplicitWait.Milliseconds()))

	opts.Logger.Debug("Launched playwright chromium", slog.Bool("headless", opts.Headless))

	return &PlaywrightDriver{
		pw:         pw,
		browser:    browser,
		browserCtx: browserCtx,
		page:       page,
	}, nil
}

// PlaywrightDriver implements Driver on a single Playwright page.
type PlaywrightDriver struct {
	pw         *playwright.Playwright
	browser    playwright.Browser
	browserCtx playwright.BrowserContext
	page       playwright.Page
}

var (
	_ Driver        = &PlaywrightDriver{}
	_ ConsoleSource = &PlaywrightDriver{}
)

type playwrightElement struct {
	loc    Locator
	handle playwright.ElementHandle
}

func (e *playwrightElement) Locator() Locator {
	return e.loc
}

// Page exposes the underlying page for callers that need Playwright specific features.
func (d *PlaywrightDriver) Page() playwright.Page {
	return d.page
}

func (d *PlaywrightDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := d.page.Goto(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

func (d *PlaywrightDriver) FindElement(ctx context.Context, loc Locator) (Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handle, err := d.page.QuerySelector(playwrightSelector(loc))
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", loc, err)
	}
	if handle == nil {
		return nil, ErrNoSuchElement
	}
	return &playwrightElement{loc: loc, handle: handle}, nil
}

func (d *PlaywrightDriver) CountElements(ctx context.Context, loc Locator) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return d.page.Locator(playwrightSelector(loc)).Count()
}

func (d *PlaywrightDriver) IsVisible(ctx context.Context, loc Locator) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	handles, err := d.page.QuerySelectorAll(playwrightSelector(loc))
	if err != nil {
		return false, fmt.Errorf("querying %s: %w", loc, err)
	}
	for _, h := range handles {
		visible, err := h.IsVisible()
		if err != nil {
			return false, fmt.Errorf("checking visibility of %s: %w", loc, err)
		}
		if visible {
			return true, nil
		}
	}
	return false, nil
}

func (d *PlaywrightDriver) Click(ctx context.Context, el Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pe, err := d.element(el)
	if err != nil {
		return err
	}
	return pe.handle.Click()
}

func (d *PlaywrightDriver) ClearAndType(ctx context.Context, el Element, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pe, err := d.element(el)
	if err != nil {
		return err
	}
	if err := pe.handle.Fill(""); err != nil {
		return fmt.Errorf("clearing %s: %w", pe.loc, err)
	}
	if err := pe.handle.Type(text); err != nil {
		return fmt.Errorf("typing into %s: %w", pe.loc, err)
	}
	return nil
}

func (d *PlaywrightDriver) CurrentURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return d.page.URL(), nil
}

func (d *PlaywrightDriver) CaptureScreen(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.page.Screenshot(playwright.PageScreenshotOptions{
		Type: playwright.ScreenshotTypePng,
	})
}

func (d *PlaywrightDriver) OnConsole(fn func(ConsoleMessage)) {
	d.page.OnConsole(func(msg playwright.ConsoleMessage) {
		fn(ConsoleMessage{Type: msg.Type(), Text: msg.Text()})
	})
}

// Quit closes the browser context, the browser and stops the Playwright driver.
// All steps are attempted, errors are joined.
func (d *PlaywrightDriver) Quit(ctx context.Context) error {
	var errs []error
	if err := d.browserCtx.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing browser context: %w", err))
	}
	if err := d.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing browser: %w", err))
	}
	if err := d.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stopping playwright: %w", err))
	}
	return errors.Join(errs...)
}

func (d *PlaywrightDriver) element(el Element) (*playwrightElement, error) {
	pe, ok := el.(*playwrightElement)
	if !ok {
		return nil, fmt.Errorf("element %T was not resolved by the playwright driver", el)
	}
	return pe, nil
}

func playwrightSelector(loc Locator) string {
	switch loc.Strategy {
	case ByXPath:
		return "xpath=" + loc.Selector
	case ByText:
		return "text=" + loc.Selector
	default:
		css, _ := loc.CSSSelector()
		return "css=" + css
	}
}
