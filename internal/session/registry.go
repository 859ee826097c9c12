package session

import (
	"sync"

	"github.com/abuabhi/note-genius/internal/logger"
	"github.com/abuabhi/note-genius/internal/repository"
)

// Registry hands out exactly one Tracker per user, so re-mounted clients
// share the single state machine and one set of timers instead of
// double-starting sessions.
type Registry struct {
	store repository.SessionRepository
	opts  Options
	log   *logger.Logger

	mu       sync.Mutex
	trackers map[int64]*registration
	closed   bool
}

type registration struct {
	tracker *Tracker
	refs    int
}

// NewRegistry creates an empty registry. All trackers it creates share
// store and opts.
func NewRegistry(store repository.SessionRepository, opts Options) *Registry {
	return &Registry{
		store:    store,
		opts:     opts,
		log:      logger.Default().WithPrefix("session-registry"),
		trackers: make(map[int64]*registration),
	}
}

// Acquire returns the user's tracker, creating it on first use, plus a
// release function the caller must invoke when done with the handle. The
// tracker itself outlives all handles: its timers must keep firing while
// no client is attached so auto-timeout still works.
func (r *Registry) Acquire(userID int64) (*Tracker, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		r.log.Warn("acquire after close for user %d", userID)
		return NewTracker(userID, r.store, r.opts), func() {}
	}

	reg, ok := r.trackers[userID]
	if !ok {
		reg = &registration{tracker: NewTracker(userID, r.store, r.opts)}
		r.trackers[userID] = reg
		r.log.Debug("tracker created for user %d", userID)
	}
	reg.refs++
	if reg.refs > 1 {
		r.log.Debug("user %d tracker held by %d clients", userID, reg.refs)
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			reg.refs--
		})
	}
	return reg.tracker, release
}

// Size returns the number of live trackers.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trackers)
}

// Close shuts down every tracker: timers stop and pending writes drain.
// Sessions still active are left for the startup sweep to close.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	trackers := make([]*Tracker, 0, len(r.trackers))
	for _, reg := range r.trackers {
		trackers = append(trackers, reg.tracker)
	}
	r.trackers = make(map[int64]*registration)
	r.mu.Unlock()

	for _, t := range trackers {
		t.Close()
	}
	r.log.Info("closed %d trackers", len(trackers))
}
