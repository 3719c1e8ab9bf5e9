// Package steps binds scenario step phrases to page operations on a live session.
package steps

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/networkteam/uiharness/pages"
	"github.com/networkteam/uiharness/session"
)

// AssertionError reports a step whose expectation did not hold.
type AssertionError struct {
	Step    string
	Message string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Message)
}

// LoginSteps implements the login scenario steps against one session.
type LoginSteps struct {
	session *session.Session
	login   *pages.LoginPage
	home    *pages.HomePage
}

func NewLoginSteps(s *session.Session) *LoginSteps {
	return &LoginSteps{
		session: s,
		login:   pages.NewLoginPage(s.Interactor()),
		home:    pages.NewHomePage(s.Interactor()),
	}
}

// FromContext builds LoginSteps from the session carried by ctx.
func FromContext(ctx context.Context) (*LoginSteps, error) {
	s, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	return NewLoginSteps(s), nil
}

func (l *LoginSteps) LoginPage() *pages.LoginPage {
	return l.login
}

func (l *LoginSteps) HomePage() *pages.HomePage {
	return l.home
}

// NavigateToLogin opens the login page of the configured application.
func (l *LoginSteps) NavigateToLogin(ctx context.Context) error {
	url := pages.LoginURL(l.session.BaseURL())
	l.session.Logger().Info("Opening login page", slog.String("url", url))
	return l.login.Open(ctx, url)
}

// EnterCredentials fills username then password.
func (l *LoginSteps) EnterCredentials(ctx context.Context, username, password string) error {
	l.session.Logger().Info("Entering credentials", slog.String("username", username))
	if err := l.login.EnterUsername(ctx, username); err != nil {
		return err
	}
	return l.login.EnterPassword(ctx, password)
}

func (l *LoginSteps) ClickLogin(ctx context.Context) error {
	l.session.Logger().Info("Clicking login")
	return l.login.ClickLogin(ctx)
}

// LoginAs runs the whole login form in one step.
func (l *LoginSteps) LoginAs(ctx context.Context, username, password string) error {
	l.session.Logger().Info("Logging in", slog.String("username", username))
	return l.login.LoginAs(ctx, username, password)
}

func (l *LoginSteps) ShouldSeeDashboard(ctx context.Context) error {
	if !l.home.IsDashboardDisplayed(ctx) {
		return &AssertionError{Step: "should see the dashboard", Message: "Dashboard should be displayed"}
	}
	return nil
}

func (l *LoginSteps) ShouldBeOnHomePage(ctx context.Context) error {
	url, err := l.login.CurrentURL(ctx)
	if err != nil {
		return err
	}
	if pages.IsLoginURL(url) {
		return &AssertionError{
			Step:    "should be on the home page",
			Message: "Should not be on login page, current URL: " + url,
		}
	}
	return nil
}

// ShouldSeeErrorMessage expects the error alert, or at least that the browser stayed on the login page.
func (l *LoginSteps) ShouldSeeErrorMessage(ctx context.Context) error {
	if !l.login.HasErrorMessage(ctx) {
		return &AssertionError{
			Step:    "should see an error message",
			Message: "Login should have failed and stayed on login page",
		}
	}
	return nil
}
