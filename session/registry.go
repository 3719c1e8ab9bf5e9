package session

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/uuid"

	"github.com/networkteam/uiharness/internal/notify"
)

// EventKind names a session lifecycle event.
type EventKind string

const (
	EventSetUp         EventKind = "setup"
	EventTearDown      EventKind = "teardown"
	EventArtifactSaved EventKind = "artifact_saved"
)

// Event is published by the registry for every lifecycle change.
type Event struct {
	Kind     EventKind
	WorkerID uuid.UUID
	Scenario string
	// Failed is set for EventTearDown.
	Failed bool
	// Path is set for EventArtifactSaved.
	Path string
	Time time.Time
}

// ActiveSession describes a live session in the registry.
type ActiveSession struct {
	WorkerID  uuid.UUID
	Scenario  string
	StartedAt time.Time
}

type registryEntry struct {
	session   *Session
	scenario  string
	startedAt time.Time
}

// Registry tracks live sessions by worker and enforces one session per worker.
type Registry struct {
	sessions   map[uuid.UUID]*registryEntry
	sessionsMu sync.RWMutex

	notifier *notify.Notifier[Event]
}

// NewRegistry creates an empty registry. Call Close to release the event notifier.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*registryEntry),
		notifier: notify.New[Event](),
	}
}

var defaultRegistry = sync.OnceValue(NewRegistry)

// DefaultRegistry returns the process-wide registry used by managers without an explicit one.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// Register adds a live session for workerID. It fails with ErrWorkerBusy if the worker already owns one.
func (r *Registry) Register(workerID uuid.UUID, scenario string, s *Session) error {
	r.sessionsMu.Lock()
	if existing, ok := r.sessions[workerID]; ok {
		r.sessionsMu.Unlock()
		return fmt.Errorf("%w: worker %s is running %q", ErrWorkerBusy, workerID, existing.scenario)
	}
	r.sessions[workerID] = &registryEntry{
		session:   s,
		scenario:  scenario,
		startedAt: time.Now(),
	}
	r.sessionsMu.Unlock()

	r.publish(Event{Kind: EventSetUp, WorkerID: workerID, Scenario: scenario})
	return nil
}

// Release removes the worker's entry if it still belongs to s.
func (r *Registry) Release(workerID uuid.UUID, s *Session) {
	r.sessionsMu.Lock()
	defer r.sessionsMu.Unlock()

	if entry, ok := r.sessions[workerID]; ok && entry.session == s {
		delete(r.sessions, workerID)
	}
}

// Get returns the live session of a worker.
func (r *Registry) Get(workerID uuid.UUID) (*Session, bool) {
	r.sessionsMu.RLock()
	defer r.sessionsMu.RUnlock()

	entry, ok := r.sessions[workerID]
	if !ok {
		return nil, false
	}
	return entry.session, true
}

// Active lists live sessions ordered by start time.
func (r *Registry) Active() []ActiveSession {
	r.sessionsMu.RLock()
	result := make([]ActiveSession, 0, len(r.sessions))
	for workerID, entry := range r.sessions {
		result = append(result, ActiveSession{
			WorkerID:  workerID,
			Scenario:  entry.scenario,
			StartedAt: entry.startedAt,
		})
	}
	r.sessionsMu.RUnlock()

	slices.SortFunc(result, func(a, b ActiveSession) int {
		return cmp.Or(a.StartedAt.Compare(b.StartedAt), cmp.Compare(a.WorkerID.String(), b.WorkerID.String()))
	})
	return result
}

// Subscribe returns a channel of lifecycle events until ctx is done.
func (r *Registry) Subscribe(ctx context.Context) <-chan Event {
	return r.notifier.Subscribe(ctx)
}

// Close stops event delivery. Live sessions are not touched.
func (r *Registry) Close() {
	r.notifier.Close()
}

func (r *Registry) publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	r.notifier.Publish(e)
}
