package pages

import (
	"context"
	"fmt"

	"github.com/networkteam/uiharness/driver"
	"github.com/networkteam/uiharness/interact"
)

var (
	UsernameField = driver.Name("username").Describe("username field")
	PasswordField = driver.Name("password").Describe("password field")
	SubmitButton  = driver.CSS("button[type='submit']").Describe("login button").Sensitive()
	ErrorAlert    = driver.XPath("//div[contains(@class, 'oxd-alert')]").Describe("login error alert")
)

// LoginPage is the page object for the login form.
type LoginPage struct {
	Base
}

func NewLoginPage(i *interact.Interactor) *LoginPage {
	return &LoginPage{Base: Base{i: i}}
}

// Open navigates directly to url without waiting for any element.
func (p *LoginPage) Open(ctx context.Context, url string) error {
	if err := p.i.Navigate(ctx, url); err != nil {
		return fmt.Errorf("opening login page: %w", err)
	}
	return nil
}

func (p *LoginPage) EnterUsername(ctx context.Context, username string) error {
	return p.i.Type(ctx, UsernameField, username)
}

func (p *LoginPage) EnterPassword(ctx context.Context, password string) error {
	return p.i.Type(ctx, PasswordField, password)
}

// ClickLogin clicks the submit button. The button is click-sensitive and gets one retry.
func (p *LoginPage) ClickLogin(ctx context.Context) error {
	return p.i.Click(ctx, SubmitButton)
}

// LoginAs fills username and password and submits the form, in that order.
// It stops at the first failing step.
func (p *LoginPage) LoginAs(ctx context.Context, username, password string) error {
	if err := p.EnterUsername(ctx, username); err != nil {
		return err
	}
	if err := p.EnterPassword(ctx, password); err != nil {
		return err
	}
	return p.ClickLogin(ctx)
}

// HasErrorMessage reports whether a failed login is visible: the error alert shows up within the
// wait timeout, or the browser is still on the login page.
func (p *LoginPage) HasErrorMessage(ctx context.Context) bool {
	_, ok := interact.FirstMatch(ctx,
		interact.Probe{Name: ErrorAlert.String(), Check: p.alertShown},
		interact.Probe{Name: "still on login page", Check: p.onLoginURL},
	)
	return ok
}

// alertShown waits for the alert and then counts the alerts rendered at that moment.
// An alert that disappears right after the wait does not count.
func (p *LoginPage) alertShown(ctx context.Context) bool {
	if !p.i.Present(ctx, ErrorAlert) {
		return false
	}
	n, err := p.i.Count(ctx, ErrorAlert)
	return err == nil && n > 0
}

func (p *LoginPage) onLoginURL(ctx context.Context) bool {
	url, err := p.i.CurrentURL(ctx)
	return err == nil && IsLoginURL(url)
}
