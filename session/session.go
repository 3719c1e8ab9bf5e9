// Package session manages the browser session lifecycle of a scenario: set up a browser,
// hand it to pages, capture diagnostics on failure and always release it.
package session

import (
	"log/slog"

	"github.com/gofrs/uuid"

	"github.com/networkteam/uiharness/driver"
	"github.com/networkteam/uiharness/interact"
)

// Session is a live browser session owned by a single scenario.
type Session struct {
	workerID uuid.UUID
	scenario string
	baseURL  string

	driver     driver.Driver
	wait       interact.WaitContext
	interactor *interact.Interactor
	logger     *slog.Logger

	console *consoleRecorder
	logs    *LogCapture
}

func (s *Session) WorkerID() uuid.UUID {
	return s.workerID
}

func (s *Session) Scenario() string {
	return s.scenario
}

// BaseURL is the configured address of the application under test.
func (s *Session) BaseURL() string {
	return s.baseURL
}

func (s *Session) Driver() driver.Driver {
	return s.driver
}

func (s *Session) WaitContext() interact.WaitContext {
	return s.wait
}

// Interactor returns the element interaction layer bound to this session's wait policy.
func (s *Session) Interactor() *interact.Interactor {
	return s.interactor
}

// Logger returns the scenario logger. Its records are included in failure artifacts.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// ConsoleLines returns the recorded browser console messages.
func (s *Session) ConsoleLines() []string {
	return s.console.lines()
}

// LogLines returns the captured scenario log.
func (s *Session) LogLines() []string {
	return s.logs.Lines()
}
