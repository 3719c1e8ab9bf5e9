package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when the session is read before SetUp.
	ErrNotInitialized = errors.New("browser session not initialized")
	// ErrTornDown is returned when the session is read after TearDown. It matches ErrNotInitialized.
	ErrTornDown = fmt.Errorf("%w: session already torn down", ErrNotInitialized)
	// ErrInvalidTransition is returned for lifecycle calls out of order (e.g. a second SetUp).
	ErrInvalidTransition = errors.New("invalid session state transition")
	// ErrWorkerBusy is returned when a worker already owns a live session.
	ErrWorkerBusy = errors.New("worker already has an active session")
	// ErrTeardownFailed classifies errors while quitting the browser. It is only logged.
	ErrTeardownFailed = errors.New("session teardown failed")
)
