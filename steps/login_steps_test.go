package steps_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/uiharness/driver/drivertest"
	"github.com/networkteam/uiharness/interact"
	"github.com/networkteam/uiharness/pages"
	"github.com/networkteam/uiharness/session"
	"github.com/networkteam/uiharness/steps"
)

const baseURL = "https://hrm.example.com"

// fakeLoginApp scripts the fake driver to behave like the login form: valid credentials
// lead to the dashboard, anything else shows the error alert.
func fakeLoginApp(d *drivertest.Driver) {
	user := d.Add(pages.UsernameField)
	pass := d.Add(pages.PasswordField)
	d.Add(pages.SubmitButton).OnClick(func(d *drivertest.Driver) {
		if user.Value() == "Admin" && pass.Value() == "admin123" {
			d.SetURL(baseURL + "/web/index.php/dashboard/index")
			d.Add(pages.DashboardLocators[0])
			return
		}
		d.Add(pages.ErrorAlert)
	})
}

func newSteps(t *testing.T, d *drivertest.Driver) (*steps.LoginSteps, *session.Session) {
	t.Helper()

	registry := session.NewRegistry()
	t.Cleanup(registry.Close)

	cfg := session.DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.ArtifactsDir = t.TempDir()
	cfg.Wait = interact.WaitContext{Timeout: 100 * time.Millisecond, PollInterval: 10 * time.Millisecond}

	m := session.NewManager(session.ManagerOptions{
		Scenario: t.Name(),
		Config:   &cfg,
		Launcher: d.Launcher(),
		Registry: registry,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, m.SetUp(context.Background()))
	t.Cleanup(func() {
		m.TearDown(context.Background(), session.Outcome{Name: t.Name(), Failed: t.Failed()})
	})

	s, err := m.Session()
	require.NoError(t, err)
	return steps.NewLoginSteps(s), s
}

func TestLoginSteps_ValidLogin(t *testing.T) {
	d := drivertest.New()
	fakeLoginApp(d)
	l, _ := newSteps(t, d)
	ctx := context.Background()

	require.NoError(t, l.NavigateToLogin(ctx))
	url, err := l.LoginPage().CurrentURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, baseURL+"/web/index.php/auth/login", url)

	require.NoError(t, l.EnterCredentials(ctx, "Admin", "admin123"))
	require.NoError(t, l.ClickLogin(ctx))
	require.NoError(t, l.ShouldSeeDashboard(ctx))
	require.NoError(t, l.ShouldBeOnHomePage(ctx))
}

func TestLoginSteps_InvalidLogin(t *testing.T) {
	d := drivertest.New()
	fakeLoginApp(d)
	l, _ := newSteps(t, d)
	ctx := context.Background()

	require.NoError(t, l.NavigateToLogin(ctx))
	require.NoError(t, l.LoginAs(ctx, "invalid", "wrong"))
	require.NoError(t, l.ShouldSeeErrorMessage(ctx))

	err := l.ShouldBeOnHomePage(ctx)
	var assertion *steps.AssertionError
	require.ErrorAs(t, err, &assertion)
	assert.Contains(t, assertion.Message, "current URL: "+baseURL+"/web/index.php/auth/login")

	err = l.ShouldSeeDashboard(ctx)
	require.ErrorAs(t, err, &assertion)
	assert.Equal(t, "Dashboard should be displayed", assertion.Message)
}

func TestLoginSteps_ShouldSeeErrorMessage_Fails(t *testing.T) {
	d := drivertest.New()
	d.SetURL(baseURL + "/web/index.php/dashboard/index")
	l, _ := newSteps(t, d)

	err := l.ShouldSeeErrorMessage(context.Background())
	var assertion *steps.AssertionError
	require.ErrorAs(t, err, &assertion)
	assert.Equal(t, "Login should have failed and stayed on login page", assertion.Message)
}

func TestLoginSteps_MissingForm(t *testing.T) {
	d := drivertest.New()
	l, _ := newSteps(t, d)

	err := l.EnterCredentials(context.Background(), "Admin", "admin123")
	assert.ErrorIs(t, err, interact.ErrElementNotFound)

	var assertion *steps.AssertionError
	assert.False(t, errors.As(err, &assertion), "lookup failures are not assertion failures")
}

func TestLoginSteps_FromContext(t *testing.T) {
	_, err := steps.FromContext(context.Background())
	assert.ErrorIs(t, err, session.ErrNotInitialized)

	d := drivertest.New()
	_, s := newSteps(t, d)

	l, err := steps.FromContext(session.WithSession(context.Background(), s))
	require.NoError(t, err)
	require.NoError(t, l.NavigateToLogin(context.Background()))

	calls := d.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, drivertest.Call{Op: "navigate", Text: pages.LoginURL(baseURL)}, calls[len(calls)-1])
}

func TestLoginSteps_Run(t *testing.T) {
	d := drivertest.New()
	fakeLoginApp(d)
	l, _ := newSteps(t, d)

	err := l.RunAll(context.Background(),
		"Given User navigates to the OrangeHRM login page",
		`When User enters username "Admin" and password "admin123"`,
		"And User clicks the login button",
		"Then User should see the dashboard",
		"And User should be on the home page",
	)
	require.NoError(t, err)
}

func TestLoginSteps_Run_Errors(t *testing.T) {
	d := drivertest.New()
	fakeLoginApp(d)
	l, _ := newSteps(t, d)

	err := l.Run(context.Background(), "When User dances")
	assert.ErrorIs(t, err, steps.ErrUndefinedStep)

	err = l.RunAll(context.Background(),
		"Given User navigates to the login page",
		`When User enters username "nobody" and password "x"`,
		"And User clicks the login button",
		"Then User should see the dashboard",
	)
	var assertion *steps.AssertionError
	require.ErrorAs(t, err, &assertion)
	assert.Contains(t, err.Error(), `step "Then User should see the dashboard"`)
}

func TestDefinitions_Phrases(t *testing.T) {
	phrases := []string{
		"User navigates to the OrangeHRM login page",
		`User enters username "Admin" and password "admin123"`,
		"User clicks the login button",
		"User should see the dashboard",
		"User should be on the home page",
		"User should see an error message",
	}
	for i, p := range phrases {
		assert.Regexp(t, steps.Definitions[i].Pattern, p)
	}
}
