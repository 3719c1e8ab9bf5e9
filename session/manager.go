package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gofrs/uuid"
	slogmulti "github.com/samber/slog-multi"

	"github.com/networkteam/uiharness/artifact"
	"github.com/networkteam/uiharness/driver"
	"github.com/networkteam/uiharness/interact"
)

// State is the lifecycle state of a Manager.
type State int

const (
	StateUninitialized State = iota
	StateActive
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateTornDown:
		return "torn down"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome is the result of a scenario as seen at teardown.
type Outcome struct {
	Name   string
	Failed bool
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// Scenario is the scenario name used in logs and events.
	Scenario string
	// WorkerID identifies the worker. If unset, SetUp takes it from the context or generates one.
	WorkerID uuid.UUID
	// Config holds browser and wait settings.
	// Default: DefaultConfig()
	Config *Config
	// Launcher creates the driver.
	// Default: driver.LauncherFor(Config.Backend)
	Launcher driver.Launcher
	// Store receives failure artifacts.
	// Default: a store in Config.ArtifactsDir
	Store *artifact.Store
	// Registry tracks live sessions per worker.
	// Default: DefaultRegistry()
	Registry *Registry
	// Logger is the base logger; scenario records are also captured for failure artifacts.
	// Default: slog.Default()
	Logger *slog.Logger
	// ClickRetry overrides the retry policy for click-sensitive locators.
	ClickRetry *interact.RetryPolicy
	// LogCapacity and ConsoleCapacity bound the per-session captures.
	LogCapacity     int
	ConsoleCapacity int
}

// Manager owns the browser session of one scenario. It moves one way through
// Uninitialized, Active and TornDown.
type Manager struct {
	mu sync.Mutex

	options  ManagerOptions
	config   Config
	store    *artifact.Store
	registry *Registry
	logger   *slog.Logger

	state   State
	session *Session
}

// NewManager creates a manager for one scenario. No browser is started until SetUp.
func NewManager(options ManagerOptions) *Manager {
	config := DefaultConfig()
	if options.Config != nil {
		config = *options.Config
	}
	store := options.Store
	if store == nil {
		store = artifact.NewStoreWithOptions(artifact.StoreOptions{Dir: config.ArtifactsDir})
	}
	registry := options.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		options:  options,
		config:   config,
		store:    store,
		registry: registry,
		logger:   logger,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetUp starts a browser and makes the session available. Launch errors are fatal for the
// scenario and are not retried.
func (m *Manager) SetUp(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateUninitialized {
		return fmt.Errorf("%w: set up in state %s", ErrInvalidTransition, m.state)
	}

	workerID, err := m.workerID(ctx)
	if err != nil {
		return err
	}

	launcher := m.options.Launcher
	if launcher == nil {
		launcher, err = driver.LauncherFor(m.config.Backend)
		if err != nil {
			return err
		}
	}

	logs := NewLogCapture(m.options.LogCapacity)
	logger := slog.New(slogmulti.Fanout(
		m.logger.Handler(),
		logs.Handler(slog.LevelDebug),
	)).With(
		slog.String("scenario", m.options.Scenario),
		slog.String("worker", workerID.String()),
	)

	launchOptions := m.config.LaunchOptions()
	launchOptions.Logger = logger

	d, err := launcher.Launch(ctx, launchOptions)
	if err != nil {
		return fmt.Errorf("creating browser session: %w", err)
	}

	interactor := interact.NewInteractorWithOptions(d, interact.InteractorOptions{
		Wait:       m.config.Wait,
		ClickRetry: m.options.ClickRetry,
		Logger:     logger,
	})
	s := &Session{
		workerID:   workerID,
		scenario:   m.options.Scenario,
		baseURL:    m.config.BaseURL,
		driver:     d,
		wait:       interactor.WaitContext(),
		interactor: interactor,
		logger:     logger,
		console:    newConsoleRecorder(m.options.ConsoleCapacity),
		logs:       logs,
	}
	if cs, ok := d.(driver.ConsoleSource); ok {
		cs.OnConsole(s.console.record)
	}

	if err := m.registry.Register(workerID, m.options.Scenario, s); err != nil {
		if qerr := d.Quit(ctx); qerr != nil {
			logger.Warn("Session teardown failed", slog.Any("error", qerr))
		}
		return err
	}

	m.session = s
	m.state = StateActive

	logger.Info("Browser session started",
		slog.String("backend", string(m.config.Backend)),
		slog.Bool("headless", launchOptions.Headless),
		slog.Duration("waitTimeout", s.wait.Timeout),
	)
	return nil
}

// Session returns the live session.
func (m *Manager) Session() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateActive:
		return m.session, nil
	case StateTornDown:
		return nil, ErrTornDown
	default:
		return nil, ErrNotInitialized
	}
}

// WaitContext returns the wait policy of the live session.
func (m *Manager) WaitContext() (interact.WaitContext, error) {
	s, err := m.Session()
	if err != nil {
		return interact.WaitContext{}, err
	}
	return s.WaitContext(), nil
}

// TearDown captures artifacts if the scenario failed and quits the browser.
// Capture and quit errors are logged, never returned. The session is released on every path.
// Calling TearDown on a manager that is not active does nothing.
func (m *Manager) TearDown(ctx context.Context, outcome Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive {
		return
	}
	s := m.session

	defer func() {
		m.session = nil
		m.state = StateTornDown
		m.registry.Release(s.workerID, s)
		m.registry.publish(Event{
			Kind:     EventTearDown,
			WorkerID: s.workerID,
			Scenario: outcome.Name,
			Failed:   outcome.Failed,
		})
	}()

	if outcome.Failed {
		m.captureArtifacts(ctx, s, outcome.Name)
	}

	if err := s.driver.Quit(ctx); err != nil {
		s.logger.Warn("Session teardown failed", slog.Any("error", fmt.Errorf("%w: %w", ErrTeardownFailed, err)))
		return
	}
	s.logger.Info("Browser session closed", slog.Bool("failed", outcome.Failed))
}

func (m *Manager) captureArtifacts(ctx context.Context, s *Session, name string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Artifact capture failed",
				slog.Any("error", fmt.Errorf("%w: panic: %v", artifact.ErrCaptureFailed, r)),
			)
		}
	}()

	png, err := s.driver.CaptureScreen(ctx)
	if err != nil {
		s.logger.Error("Artifact capture failed", slog.String("artifact", "screenshot"), slog.Any("error", err))
	} else {
		m.saved(s, name, "screenshot")(m.store.SaveScreenshot(name, png))
	}

	if lines := s.ConsoleLines(); len(lines) > 0 {
		m.saved(s, name, "console")(m.store.SaveText(name, ".console.log", lines))
	}

	if lines := s.LogLines(); len(lines) > 0 {
		m.saved(s, name, "log")(m.store.SaveText(name, ".log", lines))
	}
}

func (m *Manager) saved(s *Session, name, kind string) func(path string, err error) {
	return func(path string, err error) {
		if err != nil {
			s.logger.Error("Artifact capture failed", slog.String("artifact", kind), slog.Any("error", err))
			return
		}
		s.logger.Info("Saved artifact", slog.String("artifact", kind), slog.String("path", path))
		m.registry.publish(Event{
			Kind:     EventArtifactSaved,
			WorkerID: s.workerID,
			Scenario: name,
			Path:     path,
		})
	}
}

func (m *Manager) workerID(ctx context.Context) (uuid.UUID, error) {
	if m.options.WorkerID != uuid.Nil {
		return m.options.WorkerID, nil
	}
	if id, ok := WorkerIDFromContext(ctx); ok {
		return id, nil
	}
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generating worker id: %w", err)
	}
	return id, nil
}
