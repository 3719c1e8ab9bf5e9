//go:build acceptance
// +build acceptance

package acceptance

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/networkteam/uiharness"
	"github.com/networkteam/uiharness/driver"
	"github.com/networkteam/uiharness/interact"
	"github.com/networkteam/uiharness/session"
	"github.com/networkteam/uiharness/testapp"
)

// TestFixtures bundles the login app and a harness instance pointed at it.
type TestFixtures struct {
	App     *testapp.Server
	Harness *uiharness.Instance
	Config  session.Config
}

// FixtureOptions tweaks the fixtures of a single test.
type FixtureOptions struct {
	App     testapp.Options
	Backend driver.Backend
}

// WithTestFixtures starts the login app and a harness instance, registers cleanup with t.Cleanup()
// and calls the test function.
// Set HEADLESS=false to watch the browser, UIHARNESS_BACKEND=chromedp to use the CDP backend.
func WithTestFixtures(t *testing.T, fn func(t *testing.T, f *TestFixtures)) {
	t.Helper()
	WithTestFixturesOptions(t, FixtureOptions{}, fn)
}

func WithTestFixturesOptions(t *testing.T, options FixtureOptions, fn func(t *testing.T, f *TestFixtures)) {
	t.Helper()

	app := testapp.NewServer(options.App)
	t.Cleanup(app.Close)

	cfg, err := session.LoadConfig("")
	require.NoError(t, err)
	cfg.BaseURL = app.URL
	cfg.ArtifactsDir = t.TempDir()
	cfg.Wait = interact.WaitContext{Timeout: 5 * time.Second, PollInterval: 100 * time.Millisecond}
	cfg.ImplicitWait = 5 * time.Second
	if os.Getenv("HEADLESS") == "false" {
		cfg.NoHeadless = true
	}
	if options.Backend != "" {
		cfg.Backend = options.Backend
	}

	var logOutput io.Writer = io.Discard
	if testing.Verbose() {
		logOutput = os.Stderr
	}

	harness := uiharness.NewWithOptions(uiharness.Options{
		Config:    &cfg,
		LogLevel:  slog.LevelDebug,
		LogOutput: logOutput,
	})
	t.Cleanup(harness.Close)

	fn(t, &TestFixtures{
		App:     app,
		Harness: harness,
		Config:  cfg,
	})
}
