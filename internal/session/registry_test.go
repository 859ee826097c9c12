package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abuabhi/note-genius/internal/session"
)

func newTestRegistry(t *testing.T, store *fakeStore, clock *fakeClock) *session.Registry {
	t.Helper()
	r := session.NewRegistry(store, session.Options{Clock: clock})
	t.Cleanup(r.Close)
	return r
}

func TestRegistry_SameTrackerPerUser(t *testing.T) {
	store := &fakeStore{}
	r := newTestRegistry(t, store, newFakeClock(t0))

	a, releaseA := r.Acquire(1)
	b, releaseB := r.Acquire(1)
	defer releaseA()
	defer releaseB()

	assert.Same(t, a, b)
	assert.Equal(t, 1, r.Size())
}

func TestRegistry_DistinctTrackersAcrossUsers(t *testing.T) {
	store := &fakeStore{}
	r := newTestRegistry(t, store, newFakeClock(t0))

	a, releaseA := r.Acquire(1)
	b, releaseB := r.Acquire(2)
	defer releaseA()
	defer releaseB()

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, r.Size())
}

func TestRegistry_DuplicateSignalsCreateOneSession(t *testing.T) {
	store := &fakeStore{}
	r := newTestRegistry(t, store, newFakeClock(t0))
	ctx := context.Background()

	// Two clients for the same user report the same navigation, as a
	// re-mounted tab would.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr, release := r.Acquire(42)
			defer release()
			tr.OnRouteChanged(ctx, "/flashcards")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.insertCount())
}

func TestRegistry_TrackerOutlivesHandles(t *testing.T) {
	store := &fakeStore{}
	clock := newFakeClock(t0)
	r := newTestRegistry(t, store, clock)
	ctx := context.Background()

	tr, release := r.Acquire(1)
	tr.OnRouteChanged(ctx, "/quiz")
	clock.Advance(10 * time.Second)
	tr.OnRouteChanged(ctx, "/home")
	release()

	// No client attached, yet the inactivity timeout still fires.
	clock.Advance(31 * time.Minute)

	again, release2 := r.Acquire(1)
	defer release2()
	assert.Same(t, tr, again)
	assert.Equal(t, "idle", again.Snapshot().State)

	waitUpdates(t, store, 2)
	final := store.lastUpdate()
	require.NotNil(t, final.fields.Note)
	assert.Equal(t, session.AutoEndNote, *final.fields.Note)
}

func TestRegistry_CloseShutsDownTrackers(t *testing.T) {
	store := &fakeStore{}
	r := session.NewRegistry(store, session.Options{Clock: newFakeClock(t0)})

	_, release := r.Acquire(1)
	release()
	_, release = r.Acquire(2)
	release()
	require.Equal(t, 2, r.Size())

	r.Close()
	assert.Equal(t, 0, r.Size())

	// Acquire after close still hands out a usable standalone tracker.
	tr, release := r.Acquire(3)
	defer release()
	assert.Equal(t, "idle", tr.Snapshot().State)
	assert.Equal(t, 0, r.Size())
}
