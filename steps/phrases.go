package steps

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUndefinedStep is returned by Run for a phrase no definition matches.
var ErrUndefinedStep = errors.New("undefined step")

// Definition binds a step phrase pattern to an action. Submatches are passed as args.
type Definition struct {
	Pattern *regexp.Regexp
	Run     func(ctx context.Context, l *LoginSteps, args []string) error
}

// Definitions lists the login step phrases.
var Definitions = []Definition{
	{
		Pattern: regexp.MustCompile(`^User navigates to the (?:OrangeHRM )?login page$`),
		Run: func(ctx context.Context, l *LoginSteps, _ []string) error {
			return l.NavigateToLogin(ctx)
		},
	},
	{
		Pattern: regexp.MustCompile(`^User enters username "([^"]*)" and password "([^"]*)"$`),
		Run: func(ctx context.Context, l *LoginSteps, args []string) error {
			return l.EnterCredentials(ctx, args[0], args[1])
		},
	},
	{
		Pattern: regexp.MustCompile(`^User clicks the login button$`),
		Run: func(ctx context.Context, l *LoginSteps, _ []string) error {
			return l.ClickLogin(ctx)
		},
	},
	{
		Pattern: regexp.MustCompile(`^User should see the dashboard$`),
		Run: func(ctx context.Context, l *LoginSteps, _ []string) error {
			return l.ShouldSeeDashboard(ctx)
		},
	},
	{
		Pattern: regexp.MustCompile(`^User should be on the home page$`),
		Run: func(ctx context.Context, l *LoginSteps, _ []string) error {
			return l.ShouldBeOnHomePage(ctx)
		},
	},
	{
		Pattern: regexp.MustCompile(`^User should see an error message$`),
		Run: func(ctx context.Context, l *LoginSteps, _ []string) error {
			return l.ShouldSeeErrorMessage(ctx)
		},
	},
}

var keyword = regexp.MustCompile(`^(?:Given|When|Then|And|But)\s+`)

// Run executes a single step phrase. A leading Given/When/Then/And/But keyword is ignored.
func (l *LoginSteps) Run(ctx context.Context, phrase string) error {
	text := keyword.ReplaceAllString(strings.TrimSpace(phrase), "")
	for _, def := range Definitions {
		if m := def.Pattern.FindStringSubmatch(text); m != nil {
			return def.Run(ctx, l, m[1:])
		}
	}
	return fmt.Errorf("%w: %q", ErrUndefinedStep, phrase)
}

// RunAll executes phrases in order and stops at the first error.
func (l *LoginSteps) RunAll(ctx context.Context, phrases ...string) error {
	for _, p := range phrases {
		if err := l.Run(ctx, p); err != nil {
			return fmt.Errorf("step %q: %w", p, err)
		}
	}
	return nil
}
