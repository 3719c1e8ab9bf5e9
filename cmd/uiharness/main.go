// Command uiharness runs the login scenarios against a live application or serves the demo login app.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/networkteam/uiharness/driver"
	"github.com/networkteam/uiharness/session"
)

var (
	configFile   string
	backend      string
	baseURL      string
	artifactsDir string
	noHeadless   bool
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:           "uiharness",
	Short:         "Browser test harness for login flows",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "TOML configuration file")
	flags.StringVar(&backend, "backend", "", "browser driver backend (playwright or chromedp)")
	flags.StringVar(&baseURL, "base-url", "", "address of the application under test")
	flags.StringVar(&artifactsDir, "artifacts-dir", "", "directory for failure artifacts")
	flags.BoolVar(&noHeadless, "no-headless", false, "show the browser window")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd, demoCmd, installCmd)
}

// loadConfig reads the config file and environment, then applies flags on top.
func loadConfig(cmd *cobra.Command) (session.Config, error) {
	cfg, err := session.LoadConfig(configFile)
	if err != nil {
		return session.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = driver.Backend(backend)
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if flags.Changed("artifacts-dir") {
		cfg.ArtifactsDir = artifactsDir
	}
	if noHeadless {
		cfg.NoHeadless = true
	}
	return cfg, nil
}

func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
