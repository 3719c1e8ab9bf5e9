package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/networkteam/uiharness"
	"github.com/networkteam/uiharness/steps"
)

var (
	username   string
	password   string
	expectFail bool
	scenario   string
	logFile    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the login scenario",
	Long: `Opens the login page, submits the given credentials and checks the result.
By default the dashboard is expected; with --expect-error an error message is expected instead.
On failure a screenshot, the browser console and the scenario log are written to the artifacts directory.`,
	RunE: runScenario,
}

func init() {
	flags := runCmd.Flags()
	flags.StringVarP(&username, "username", "u", "Admin", "login username")
	flags.StringVarP(&password, "password", "p", "admin123", "login password")
	flags.BoolVar(&expectFail, "expect-error", false, "expect the login to be rejected")
	flags.StringVar(&scenario, "name", "", "scenario name used for artifacts (default derived from expectation)")
	flags.StringVar(&logFile, "log-file", "", "also write JSON logs to this file")
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	options := uiharness.Options{
		Config:   &cfg,
		LogLevel: logLevel(),
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		options.LogFile = f
	}

	inst := uiharness.NewWithOptions(options)
	defer inst.Close()

	name := scenario
	if name == "" {
		name = "Valid login"
		if expectFail {
			name = "Invalid login"
		}
	}

	start := time.Now()
	err = inst.Run(cmd.Context(), name, loginScenario(username, password, expectFail))
	if err != nil {
		inst.Logger().Error("Scenario failed",
			slog.String("scenario", name),
			slog.Any("error", err),
			slog.String("artifacts", inst.Store().Dir()),
		)
		return err
	}

	inst.Logger().Info("Scenario passed", slog.String("scenario", name), slog.Duration("duration", time.Since(start)))
	return nil
}

// loginScenario submits the credentials as given and checks for the dashboard, or for an error
// message if expectFail is set.
func loginScenario(username, password string, expectFail bool) func(ctx context.Context, l *steps.LoginSteps) error {
	return func(ctx context.Context, l *steps.LoginSteps) error {
		if err := l.NavigateToLogin(ctx); err != nil {
			return err
		}
		if err := l.LoginAs(ctx, username, password); err != nil {
			return err
		}
		if expectFail {
			return l.ShouldSeeErrorMessage(ctx)
		}
		if err := l.ShouldSeeDashboard(ctx); err != nil {
			return err
		}
		return l.ShouldBeOnHomePage(ctx)
	}
}
