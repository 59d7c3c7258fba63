package dashboard

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"idea-dashboard/pkg/messages"
	"idea-dashboard/pkg/models"
	"sync/atomic"
	"testing"
	"time"
)

type fakeBackend struct {
	fetches     atomic.Int32
	orchestrate func(idea string) (string, error)
}

func (f *fakeBackend) FetchLog(_ context.Context, agentID string, _ int) (string, error) {
	f.fetches.Add(1)
	if agentID == "B" {
		return "", errors.New("unreachable")
	}
	return "log of " + agentID, nil
}

func (f *fakeBackend) Orchestrate(_ context.Context, _ uuid.UUID, idea string) (string, error) {
	return f.orchestrate(idea)
}

var roster = models.Roster{{ID: "A", Display: "Agent A"}, {ID: "B", Display: "Agent B"}}

func next(t *testing.T, ch <-chan messages.Event) messages.Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event")
	}
	return nil
}

func nextOf[T messages.Event](t *testing.T, ch <-chan messages.Event) T {
	t.Helper()
	for {
		if ev, ok := next(t, ch).(T); ok {
			return ev
		}
	}
}

func TestDashboard_TimerDrivesCycles(t *testing.T) {
	backend := &fakeBackend{}
	d := New(backend, backend, roster, WithInterval(30*time.Millisecond))
	events, unsubscribe := d.Subscribe()
	defer unsubscribe()

	d.Start(context.Background())
	defer d.Stop()

	first := nextOf[messages.SnapshotCommitted](t, events)
	second := nextOf[messages.SnapshotCommitted](t, events)
	require.Greater(t, second.Cycle, first.Cycle)
	require.Equal(t, models.Snapshot{"A": "log of A", "B": "unreachable"}, second.Snapshot)

	st, err := d.Snapshot()
	require.NoError(t, err)
	require.Len(t, st.Snapshot, 2)
}

func TestDashboard_SubmitRefreshesLogs(t *testing.T) {
	backend := &fakeBackend{orchestrate: func(idea string) (string, error) { return "accepted " + idea, nil }}
	d := New(backend, backend, roster, WithInterval(time.Hour))
	events, unsubscribe := d.Subscribe()
	defer unsubscribe()

	d.Start(context.Background())
	defer d.Stop()
	startup := nextOf[messages.SnapshotCommitted](t, events)
	require.Equal(t, uint64(1), startup.Cycle)

	require.NoError(t, d.Submit("  loans for students "))
	require.Equal(t, "Starting...", nextOf[messages.StatusChanged](t, events).Status.Text)
	require.Equal(t, "Response: accepted loans for students", nextOf[messages.StatusChanged](t, events).Status.Text)

	refreshed := nextOf[messages.SnapshotCommitted](t, events)
	require.Equal(t, uint64(2), refreshed.Cycle)

	st, err := d.Status()
	require.NoError(t, err)
	require.Equal(t, models.Done, st.State)
}

func TestDashboard_SubmitRejectsEmptyIdea(t *testing.T) {
	called := false
	backend := &fakeBackend{orchestrate: func(string) (string, error) { called = true; return "", nil }}
	d := New(backend, backend, roster, WithInterval(time.Hour))
	d.Start(context.Background())
	defer d.Stop()

	require.ErrorIs(t, d.Submit("   "), models.ErrEmptyIdea)
	st, err := d.Status()
	require.NoError(t, err)
	require.Equal(t, models.Idle, st.State)
	require.False(t, called)
}

func TestDashboard_NotStarted(t *testing.T) {
	d := New(&fakeBackend{}, &fakeBackend{}, roster)
	require.ErrorIs(t, d.Submit("idea"), ErrNotStarted)
	_, err := d.Snapshot()
	require.ErrorIs(t, err, ErrNotStarted)
}

func TestDashboard_StopEndsTimerAndSubscriptions(t *testing.T) {
	backend := &fakeBackend{}
	d := New(backend, backend, roster, WithInterval(20*time.Millisecond))
	events, _ := d.Subscribe()
	d.Start(context.Background())
	nextOf[messages.SnapshotCommitted](t, events)

	d.Stop()
	for range events {
	}
	fetches := backend.fetches.Load()
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, fetches, backend.fetches.Load())

	late, _ := d.Subscribe()
	_, ok := <-late
	require.False(t, ok)
}
