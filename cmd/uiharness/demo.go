package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/networkteam/uiharness/testapp"
)

var (
	demoAddr        string
	demoRenderDelay time.Duration
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Serve the local demo login application",
	Long: `Serves a small login application with the same markup as the target application.
Point "uiharness run --base-url" at it to try the harness without network access.`,
	RunE: runDemo,
}

func init() {
	flags := demoCmd.Flags()
	flags.StringVar(&demoAddr, "addr", "127.0.0.1:8080", "listen address")
	flags.DurationVar(&demoRenderDelay, "render-delay", 0, "delay before the login button becomes clickable")
}

func runDemo(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()}))

	options := testapp.DefaultOptions()
	options.RenderDelay = demoRenderDelay
	options.Logger = logger

	srv := &http.Server{
		Addr:              demoAddr,
		Handler:           testapp.NewWithOptions(options),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("Demo login app listening",
		slog.String("url", fmt.Sprintf("http://%s%s", demoAddr, testapp.LoginPath)),
		slog.String("username", options.Username),
		slog.String("password", options.Password),
	)

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("Demo login app stopped")
	return nil
}
