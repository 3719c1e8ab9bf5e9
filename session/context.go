package session

import (
	"context"

	"github.com/gofrs/uuid"
)

type sessionKeyType struct{}

var sessionKey = sessionKeyType{}

type workerIDKeyType struct{}

var workerIDKey = workerIDKeyType{}

// WithSession returns a new context carrying the session.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext retrieves the session from the context.
// Returns ErrNotInitialized if no session was set.
func FromContext(ctx context.Context) (*Session, error) {
	if s, ok := ctx.Value(sessionKey).(*Session); ok && s != nil {
		return s, nil
	}
	return nil, ErrNotInitialized
}

// WithWorkerID returns a new context identifying the worker that runs scenarios.
func WithWorkerID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, workerIDKey, id)
}

// WorkerIDFromContext retrieves the worker ID from the context.
// Returns the ID and true if found, or uuid.Nil and false if not set.
func WorkerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if id, ok := ctx.Value(workerIDKey).(uuid.UUID); ok {
		return id, true
	}
	return uuid.Nil, false
}
