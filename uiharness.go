// Package uiharness runs browser scenarios against a login flow. Each scenario gets its own
// browser session, which is torn down afterwards with failure artifacts captured when needed.
package uiharness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"

	"github.com/networkteam/uiharness/artifact"
	"github.com/networkteam/uiharness/driver"
	"github.com/networkteam/uiharness/interact"
	"github.com/networkteam/uiharness/session"
	"github.com/networkteam/uiharness/steps"
)

type Instance struct {
	config       session.Config
	launcher     driver.Launcher
	store        *artifact.Store
	registry     *session.Registry
	ownsRegistry bool
	logger       *slog.Logger
	clickRetry   *interact.RetryPolicy
}

type Options struct {
	// Config holds browser, wait and artifact settings.
	// Default: nil, will use session.DefaultConfig()
	Config *session.Config
	// Launcher creates browser drivers.
	// Default: nil, will use the launcher for Config.Backend
	Launcher driver.Launcher
	// Registry tracks live sessions per worker.
	// Default: nil, the instance creates and closes its own registry
	Registry *session.Registry

	// LogLevel is the minimum level written to LogOutput and LogFile.
	// Default: slog.LevelInfo
	LogLevel slog.Level
	// LogOutput receives human readable logs.
	// Default: os.Stderr
	LogOutput io.Writer
	// LogFile additionally receives JSON logs if set.
	LogFile io.Writer

	// ClickRetry overrides the retry policy for click-sensitive elements.
	// Default: nil, will use interact.ClickSensitiveRetry()
	ClickRetry *interact.RetryPolicy
}

// New creates an instance with default options.
func New() *Instance {
	return NewWithOptions(Options{})
}

// NewWithOptions creates an instance with the specified options.
func NewWithOptions(options Options) *Instance {
	config := session.DefaultConfig()
	if options.Config != nil {
		config = *options.Config
	}

	registry := options.Registry
	ownsRegistry := false
	if registry == nil {
		registry = session.NewRegistry()
		ownsRegistry = true
	}

	output := options.LogOutput
	if output == nil {
		output = os.Stderr
	}
	handlerOptions := &slog.HandlerOptions{Level: options.LogLevel}
	handlers := []slog.Handler{slog.NewTextHandler(output, handlerOptions)}
	if options.LogFile != nil {
		handlers = append(handlers, slog.NewJSONHandler(options.LogFile, handlerOptions))
	}

	return &Instance{
		config:       config,
		launcher:     options.Launcher,
		store:        artifact.NewStoreWithOptions(artifact.StoreOptions{Dir: config.ArtifactsDir}),
		registry:     registry,
		ownsRegistry: ownsRegistry,
		logger:       slog.New(slogmulti.Fanout(handlers...)),
		clickRetry:   options.ClickRetry,
	}
}

// Close releases the registry if the instance created it.
func (i *Instance) Close() {
	if i.ownsRegistry {
		i.registry.Close()
	}
}

func (i *Instance) Config() session.Config {
	return i.config
}

func (i *Instance) Logger() *slog.Logger {
	return i.logger
}

func (i *Instance) Registry() *session.Registry {
	return i.registry
}

func (i *Instance) Store() *artifact.Store {
	return i.store
}

// NewManager creates a session manager for one scenario.
func (i *Instance) NewManager(scenario string) *session.Manager {
	config := i.config
	return session.NewManager(session.ManagerOptions{
		Scenario:   scenario,
		Config:     &config,
		Launcher:   i.launcher,
		Store:      i.store,
		Registry:   i.registry,
		Logger:     i.logger,
		ClickRetry: i.clickRetry,
	})
}

// Run executes fn with a fresh browser session. The scenario counts as failed if fn returns an
// error or panics; in that case failure artifacts are written before the browser is closed.
func (i *Instance) Run(ctx context.Context, name string, fn func(ctx context.Context, l *steps.LoginSteps) error) (err error) {
	m := i.NewManager(name)
	if err := m.SetUp(ctx); err != nil {
		return fmt.Errorf("setting up scenario %q: %w", name, err)
	}

	defer func() {
		r := recover()
		m.TearDown(context.WithoutCancel(ctx), session.Outcome{Name: name, Failed: err != nil || r != nil})
		if r != nil {
			panic(r)
		}
	}()

	s, err := m.Session()
	if err != nil {
		return err
	}
	return fn(session.WithSession(ctx, s), steps.NewLoginSteps(s))
}
