package uiharness_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/uiharness"
	"github.com/networkteam/uiharness/driver"
	"github.com/networkteam/uiharness/driver/drivertest"
	"github.com/networkteam/uiharness/interact"
	"github.com/networkteam/uiharness/pages"
	"github.com/networkteam/uiharness/session"
	"github.com/networkteam/uiharness/steps"
)

const baseURL = "https://hrm.example.com"

// launchLoginApp hands out a fresh fake browser per session, scripted like the login form.
func launchLoginApp(mu *sync.Mutex, launched *[]*drivertest.Driver) driver.Launcher {
	return driver.LauncherFunc(func(ctx context.Context, opts driver.LaunchOptions) (driver.Driver, error) {
		d := drivertest.New()
		user := d.Add(pages.UsernameField)
		pass := d.Add(pages.PasswordField)
		d.Add(pages.SubmitButton).OnClick(func(d *drivertest.Driver) {
			if user.Value() == "Admin" && pass.Value() == "admin123" {
				d.SetURL(baseURL + "/web/index.php/dashboard/index")
				d.Add(pages.DashboardLocators[0])
				return
			}
			d.EmitConsole(driver.ConsoleMessage{Type: "warning", Text: "invalid credentials"})
			d.Add(pages.ErrorAlert)
		})

		mu.Lock()
		*launched = append(*launched, d)
		mu.Unlock()
		return d, nil
	})
}

func newInstance(t *testing.T, logs io.Writer) (*uiharness.Instance, *[]*drivertest.Driver) {
	t.Helper()

	cfg := session.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.ArtifactsDir = t.TempDir()
	cfg.Wait = interact.WaitContext{Timeout: 100 * time.Millisecond, PollInterval: 10 * time.Millisecond}

	var (
		mu       sync.Mutex
		launched []*drivertest.Driver
	)
	retry := interact.RetryPolicy{Attempts: 2, Backoff: 10 * time.Millisecond}
	inst := uiharness.NewWithOptions(uiharness.Options{
		Config:     &cfg,
		Launcher:   launchLoginApp(&mu, &launched),
		LogOutput:  logs,
		ClickRetry: &retry,
	})
	t.Cleanup(inst.Close)
	return inst, &launched
}

func TestE2E_ConcurrentScenarios(t *testing.T) {
	inst, launched := newInstance(t, io.Discard)

	const workers = 8

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			name := fmt.Sprintf("Valid login %d", w)
			password := "admin123"
			if w%2 == 1 {
				name = fmt.Sprintf("Wrong expectation %d", w)
				password = "wrong"
			}

			errs[w] = inst.Run(context.Background(), name, func(ctx context.Context, l *steps.LoginSteps) error {
				return l.RunAll(ctx,
					"Given User navigates to the OrangeHRM login page",
					fmt.Sprintf(`When User enters username "Admin" and password %q`, password),
					"And User clicks the login button",
					"Then User should see the dashboard",
				)
			})
		}()
	}
	wg.Wait()

	for w, err := range errs {
		if w%2 == 0 {
			assert.NoError(t, err, "worker %d", w)
			continue
		}
		var assertion *steps.AssertionError
		assert.True(t, errors.As(err, &assertion), "worker %d: %v", w, err)
	}

	assert.Empty(t, inst.Registry().Active(), "every session is released")
	require.Len(t, *launched, workers)
	for _, d := range *launched {
		assert.Equal(t, 1, d.Quits())
	}

	entries, err := os.ReadDir(inst.Store().Dir())
	require.NoError(t, err)
	screenshots := 0
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".png") {
			screenshots++
			assert.Contains(t, e.Name(), "_Wrong_expectation_")
		}
	}
	assert.Equal(t, workers/2, screenshots, "one screenshot per failing scenario")
}

func TestE2E_InvalidLoginScenario(t *testing.T) {
	var logs bytes.Buffer
	inst, _ := newInstance(t, &logs)

	err := inst.Run(context.Background(), "Invalid login", func(ctx context.Context, l *steps.LoginSteps) error {
		return l.RunAll(ctx,
			"Given User navigates to the OrangeHRM login page",
			`When User enters username "invalid" and password "wrong"`,
			"And User clicks the login button",
			"Then User should see an error message",
		)
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(inst.Store().Dir())
	if !errors.Is(err, os.ErrNotExist) {
		require.NoError(t, err)
		assert.Empty(t, entries, "passing scenarios leave no artifacts")
	}

	assert.Contains(t, logs.String(), "Browser session started")
	assert.Contains(t, logs.String(), "Browser session closed")
}

func TestE2E_PanickingScenarioIsTornDown(t *testing.T) {
	inst, launched := newInstance(t, io.Discard)

	assert.PanicsWithValue(t, "boom", func() {
		_ = inst.Run(context.Background(), "Panics", func(ctx context.Context, l *steps.LoginSteps) error {
			panic("boom")
		})
	})

	assert.Empty(t, inst.Registry().Active())
	require.Len(t, *launched, 1)
	assert.Equal(t, 1, (*launched)[0].Quits())
}

func TestE2E_SetUpFailure(t *testing.T) {
	errLaunch := errors.New("no chromium")
	inst := uiharness.NewWithOptions(uiharness.Options{
		Launcher: driver.LauncherFunc(func(ctx context.Context, opts driver.LaunchOptions) (driver.Driver, error) {
			return nil, errLaunch
		}),
		LogOutput: io.Discard,
	})
	defer inst.Close()

	called := false
	err := inst.Run(context.Background(), "never runs", func(ctx context.Context, l *steps.LoginSteps) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, errLaunch)
	assert.False(t, called)
}
