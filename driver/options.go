package driver

import (
	"fmt"
	"log/slog"
	"time"
)

// Backend names a Driver implementation.
type Backend string

const (
	BackendPlaywright Backend = "playwright"
	BackendChromedp   Backend = "chromedp"
)

const (
	// DefaultImplicitWait is the per-element lookup floor applied by the driver itself.
	DefaultImplicitWait = 15 * time.Second
	DefaultWindowWidth  = 1200
	DefaultWindowHeight = 800
)

// LaunchOptions configures a browser session.
type LaunchOptions struct {
	// Headless runs the browser without a visible window.
	// Default: true
	Headless bool
	// ImplicitWait bounds each single driver call (element lookup, click, type).
	// It sits beneath the explicit wait policy of the interaction layer.
	// Default: DefaultImplicitWait
	ImplicitWait time.Duration
	// WindowWidth and WindowHeight set the viewport size.
	WindowWidth  int
	WindowHeight int
	// ExtraArgs are appended to the Chromium command line.
	ExtraArgs []string
	// Logger receives driver diagnostics.
	// Default: slog.Default()
	Logger *slog.Logger
}

// DefaultLaunchOptions returns headless options with sandboxing/stability flags suitable for containers.
func DefaultLaunchOptions() LaunchOptions {
	return LaunchOptions{
		Headless:     true,
		ImplicitWait: DefaultImplicitWait,
		WindowWidth:  DefaultWindowWidth,
		WindowHeight: DefaultWindowHeight,
	}
}

func (o LaunchOptions) withDefaults() LaunchOptions {
	if o.ImplicitWait <= 0 {
		o.ImplicitWait = DefaultImplicitWait
	}
	if o.WindowWidth <= 0 {
		o.WindowWidth = DefaultWindowWidth
	}
	if o.WindowHeight <= 0 {
		o.WindowHeight = DefaultWindowHeight
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// ChromeArgs returns the Chromium command line flags for the options.
// Headless mode is not part of the list, backends set it through their own option.
func (o LaunchOptions) ChromeArgs() []string {
	o = o.withDefaults()
	args := []string{
		fmt.Sprintf("--window-size=%d,%d", o.WindowWidth, o.WindowHeight),
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-gpu",
	}
	return append(args, o.ExtraArgs...)
}

// LauncherFor returns the launcher for a backend name. An empty name selects Playwright.
func LauncherFor(backend Backend) (Launcher, error) {
	switch backend {
	case "", BackendPlaywright:
		return NewPlaywrightLauncher(), nil
	case BackendChromedp:
		return NewChromedpLauncher(), nil
	default:
		return nil, fmt.Errorf("unknown driver backend %q", backend)
	}
}
