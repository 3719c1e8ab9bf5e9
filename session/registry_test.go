package session_test

import (
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/uiharness/session"
)

func TestRegistry_RegisterAndRelease(t *testing.T) {
	r := session.NewRegistry()
	defer r.Close()

	worker := uuid.Must(uuid.NewV4())
	s := &session.Session{}

	require.NoError(t, r.Register(worker, "first", s))

	err := r.Register(worker, "second", &session.Session{})
	assert.ErrorIs(t, err, session.ErrWorkerBusy)
	assert.ErrorContains(t, err, `"first"`)

	got, ok := r.Get(worker)
	require.True(t, ok)
	assert.Same(t, s, got)

	// Releasing a different session leaves the entry alone.
	r.Release(worker, &session.Session{})
	_, ok = r.Get(worker)
	assert.True(t, ok)

	r.Release(worker, s)
	_, ok = r.Get(worker)
	assert.False(t, ok)

	require.NoError(t, r.Register(worker, "third", s))
}

func TestRegistry_Active(t *testing.T) {
	r := session.NewRegistry()
	defer r.Close()

	workers := []uuid.UUID{uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())}
	for i, w := range workers {
		require.NoError(t, r.Register(w, []string{"a", "b", "c"}[i], &session.Session{}))
		time.Sleep(time.Millisecond)
	}

	active := r.Active()
	require.Len(t, active, 3)
	for i, a := range active {
		assert.Equal(t, workers[i], a.WorkerID)
	}
	assert.Equal(t, "a", active[0].Scenario)
	assert.Equal(t, "c", active[2].Scenario)
}

func TestRegistry_Subscribe(t *testing.T) {
	r := session.NewRegistry()
	defer r.Close()

	events := r.Subscribe(t.Context())
	worker := uuid.Must(uuid.NewV4())
	require.NoError(t, r.Register(worker, "login", &session.Session{}))

	select {
	case e := <-events:
		assert.Equal(t, session.EventSetUp, e.Kind)
		assert.Equal(t, worker, e.WorkerID)
		assert.Equal(t, "login", e.Scenario)
		assert.False(t, e.Time.IsZero())
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, session.DefaultRegistry(), session.DefaultRegistry())
}
