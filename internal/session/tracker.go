package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/abuabhi/note-genius/internal/logger"
	"github.com/abuabhi/note-genius/internal/models"
	"github.com/abuabhi/note-genius/internal/repository"
)

// State is the tracker's position in the session lifecycle.
type State int

const (
	Idle State = iota
	Active
	AutoPaused
	ManuallyPaused
	Ending
	Ended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case AutoPaused:
		return "auto_paused"
	case ManuallyPaused:
		return "manually_paused"
	case Ending:
		return "ending"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

const (
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultWarningAfter      = 25 * time.Minute
	DefaultTimeoutAfter      = 30 * time.Minute

	// AutoEndNote is the closing note written when a session is ended by
	// the inactivity timeout.
	AutoEndNote = "auto-ended due to inactivity"
)

// Routes maps study-relevant path prefixes to activity types. Paths that
// match no prefix are not study-relevant. The longest matching prefix
// wins.
type Routes map[string]models.ActivityType

// Classify returns the activity type for path and whether the path is
// study-relevant at all.
func (r Routes) Classify(path string) (models.ActivityType, bool) {
	var best string
	var activity models.ActivityType
	for prefix, a := range r {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(best) {
			best, activity = prefix, a
		}
	}
	return activity, best != ""
}

// RoutesFromConfig converts the config's prefix=activity map, dropping
// unknown activity types.
func RoutesFromConfig(m map[string]string) Routes {
	out := Routes{}
	for prefix, activity := range m {
		a := models.ActivityType(activity)
		if !a.Valid() {
			logger.Warn("ignoring route %s with unknown activity type %q", prefix, activity)
			continue
		}
		out[prefix] = a
	}
	return out
}

// Options tunes a Tracker. Zero values fall back to the production
// defaults.
type Options struct {
	Clock             Clock
	HeartbeatInterval time.Duration
	WarningAfter      time.Duration
	TimeoutAfter      time.Duration
	Routes            Routes

	// OnTimeoutWarning, if set, is invoked (outside the tracker lock)
	// when a session has been auto-paused long enough to warn the user.
	OnTimeoutWarning func(userID int64)
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = RealClock()
	}
	if o.HeartbeatInterval <= 0 {
		o.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if o.WarningAfter <= 0 {
		o.WarningAfter = DefaultWarningAfter
	}
	if o.TimeoutAfter <= 0 {
		o.TimeoutAfter = DefaultTimeoutAfter
	}
	if o.Routes == nil {
		o.Routes = RoutesFromConfig(map[string]string{
			"/flashcards": string(models.ActivityFlashcardStudy),
			"/notes":      string(models.ActivityNoteReview),
			"/quiz":       string(models.ActivityQuizTaking),
			"/study":      string(models.ActivityGeneral),
		})
	}
	return o
}

// Snapshot is a read-only view of the tracker for UI callers.
type Snapshot struct {
	State              string              `json:"state"`
	SessionID          int64               `json:"session_id,omitempty"`
	IsActive           bool                `json:"is_active"`
	IsPaused           bool                `json:"is_paused"`
	ElapsedSeconds     int64               `json:"elapsed_seconds"`
	ActivityType       models.ActivityType `json:"activity_type,omitempty"`
	ShowTimeoutWarning bool                `json:"show_timeout_warning"`
}

// Tracker maintains the single logical study session for one user. It is
// driven by navigation and activity signals from the client and owns all
// timers for heartbeats, the inactivity warning, and the auto-timeout.
//
// All persistence except session creation is dispatched through an
// ordered, result-ignoring write queue: a store failure is logged and
// never rolls back an in-memory transition.
type Tracker struct {
	userID int64
	store  repository.SessionRepository
	opts   Options
	clock  Clock
	log    *logger.Logger
	writes *writeQueue

	mu          sync.Mutex
	state       State
	sessionID   int64
	startedAt   time.Time
	pausedAccum time.Duration
	pauseStart  time.Time
	finalDur    time.Duration
	activity    models.ActivityType
	counters    models.SessionCounters
	warning     bool
	lastPath    string
	onStudy     bool

	// timerGen invalidates armed timers: every state exit that disarms
	// timers bumps it, so a callback from a stale timer is ignored even
	// if Stop raced with the fire.
	timerGen       int
	heartbeatTimer Timer
	warnTimer      Timer
	timeoutTimer   Timer
}

// NewTracker creates a tracker for userID in the Idle state.
func NewTracker(userID int64, store repository.SessionRepository, opts Options) *Tracker {
	opts = opts.withDefaults()
	log := logger.Default().WithPrefix("tracker").WithField("user_id", userID)
	return &Tracker{
		userID: userID,
		store:  store,
		opts:   opts,
		clock:  opts.Clock,
		log:    log,
		writes: newWriteQueue(log),
	}
}

// OnRouteChanged reports that the user navigated to path. Entering a
// study-relevant route starts a session (or resumes an auto-paused one);
// leaving one auto-pauses. A manually paused session is sticky and is not
// resumed by navigation.
func (t *Tracker) OnRouteChanged(ctx context.Context, path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	activity, study := t.opts.Routes.Classify(path)
	t.lastPath = path
	t.onStudy = study

	switch t.state {
	case Idle:
		if study {
			t.startSessionLocked(ctx, activity)
		}
	case Active:
		if !study {
			t.log.Info("session %d auto-paused (left study route)", t.sessionID)
			t.autoPauseLocked()
		} else if activity != t.activity {
			t.setActivityLocked(activity)
		}
	case AutoPaused:
		if study {
			t.log.Debug("returned to study route %s, resuming", path)
			t.resumeLocked()
			if activity != t.activity {
				t.setActivityLocked(activity)
			}
		}
	case ManuallyPaused:
		// Sticky: only an explicit resume clears a manual pause.
		t.log.Debug("route change to %s ignored while manually paused", path)
	default:
		t.log.Debug("route change to %s ignored in state %s", path, t.state)
	}
}

// OnVisibilityChanged reports the client tab being hidden or shown.
// Hiding the tab while Active auto-pauses; becoming visible again does
// not resume by itself, the next qualifying activity or navigation
// signal does.
func (t *Tracker) OnVisibilityChanged(ctx context.Context, visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !visible && t.state == Active {
		t.log.Info("session %d auto-paused (tab hidden)", t.sessionID)
		t.autoPauseLocked()
	}
}

// OnUserActivity reports a generic interaction event (click, keystroke,
// scroll, mouse move). Its only effect is resuming an auto-paused session
// while the user is still on a study-relevant route.
func (t *Tracker) OnUserActivity(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != AutoPaused || !t.onStudy {
		return
	}
	t.log.Debug("activity while auto-paused, resuming")
	t.resumeLocked()
}

// TogglePause flips between Active and ManuallyPaused. Toggling while
// auto-paused converts the pause into a manual one, cancelling the
// inactivity timers.
func (t *Tracker) TogglePause(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case Active:
		t.log.Info("session %d manually paused", t.sessionID)
		t.pauseLocked(ManuallyPaused)
	case AutoPaused:
		t.log.Info("session %d converted to manual pause", t.sessionID)
		t.cancelTimersLocked()
		t.state = ManuallyPaused
		t.warning = false
	case ManuallyPaused:
		t.log.Info("session %d manually resumed", t.sessionID)
		t.resumeLocked()
	default:
		t.log.Debug("toggle pause ignored in state %s", t.state)
	}
}

// End finishes the current session. The final duration is computed and
// frozen before the finalize write is issued; the write itself is a
// single best-effort attempt. The returned cleanup continuation moves the
// tracker back to Idle and must be invoked by the caller regardless of
// persistence outcome.
func (t *Tracker) End(ctx context.Context) (time.Duration, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case Active, AutoPaused, ManuallyPaused:
	default:
		t.log.Debug("end ignored in state %s", t.state)
		return 0, func() {}
	}

	now := t.clock.Now()
	final := t.elapsedLocked(now)
	paused := t.pausedAccum
	if t.state == AutoPaused || t.state == ManuallyPaused {
		paused += now.Sub(t.pauseStart)
	}

	// Timers go first so no heartbeat can be enqueued behind this point.
	t.cancelTimersLocked()
	t.state = Ending
	t.finalDur = final
	t.warning = false

	sid := t.sessionID
	t.log.Info("ending session %d, duration=%s", sid, final)
	t.enqueueFinalizeLocked(sid, final, paused, now, "", func(error) {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.state == Ending && t.sessionID == sid {
			t.state = Ended
		}
	})

	cleanup := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.sessionID != sid {
			return
		}
		if t.state == Ending || t.state == Ended {
			t.resetLocked()
		}
	}
	return final, cleanup
}

// UpdateCounters merges a partial counter delta into the running session.
// Calling it while not Active is a logged no-op.
func (t *Tracker) UpdateCounters(ctx context.Context, delta models.CounterDelta) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != Active {
		t.log.Debug("counter update ignored in state %s", t.state)
		return
	}
	if delta.Empty() {
		return
	}
	t.counters.Apply(delta)

	sid := t.sessionID
	counters := t.counters
	t.writes.enqueue("counters", func(ctx context.Context) error {
		return t.store.Update(ctx, sid, models.SessionUpdate{Counters: &counters})
	}, nil)
}

// DismissTimeoutWarning clears the inactivity warning flag.
func (t *Tracker) DismissTimeoutWarning() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.warning = false
}

// Snapshot returns the read-only state exposed to UI callers.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := Snapshot{
		State:              t.state.String(),
		ShowTimeoutWarning: t.warning,
	}
	switch t.state {
	case Active:
		snap.IsActive = true
	case AutoPaused, ManuallyPaused:
		snap.IsPaused = true
	}
	if t.state != Idle {
		snap.SessionID = t.sessionID
		snap.ActivityType = t.activity
		snap.ElapsedSeconds = int64(t.elapsedLocked(t.clock.Now()) / time.Second)
	}
	return snap
}

// Elapsed returns the current elapsed duration: advancing while Active,
// frozen while paused or ending, zero while Idle.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Idle {
		return 0
	}
	return t.elapsedLocked(t.clock.Now())
}

// Close cancels all timers and drains the write queue. The tracker must
// not be used afterwards.
func (t *Tracker) Close() {
	t.mu.Lock()
	t.cancelTimersLocked()
	t.mu.Unlock()
	t.writes.close()
}

// --- internals (t.mu held unless noted) ---

func (t *Tracker) startSessionLocked(ctx context.Context, activity models.ActivityType) {
	now := t.clock.Now()
	// Creation is the one awaited write: nothing can reference the
	// session before its id exists. Holding the lock here also means a
	// concurrent duplicate signal cannot double-create.
	id, err := t.store.Insert(ctx, models.StudySession{
		UserID:       t.userID,
		ActivityType: activity,
		StartedAt:    now,
		Active:       true,
	})
	if err != nil {
		// Stay Idle; the next qualifying navigation event retries.
		t.log.Error("failed to create session: %v", err)
		return
	}

	t.state = Active
	t.sessionID = id
	t.startedAt = now
	t.pausedAccum = 0
	t.pauseStart = time.Time{}
	t.finalDur = 0
	t.activity = activity
	t.counters = models.SessionCounters{}
	t.warning = false
	t.armHeartbeatLocked()
	t.log.Info("session %d started, activity=%s", id, activity)
}

func (t *Tracker) pauseLocked(to State) {
	t.cancelTimersLocked()
	t.pauseStart = t.clock.Now()
	t.state = to

	// Persist progress up to the freeze point.
	sid := t.sessionID
	dur := int64(t.elapsedLocked(t.pauseStart) / time.Millisecond)
	paused := int64(t.pausedAccum / time.Millisecond)
	t.writes.enqueue("pause progress", func(ctx context.Context) error {
		return t.store.Update(ctx, sid, models.SessionUpdate{DurationMs: &dur, PausedMs: &paused})
	}, nil)
}

func (t *Tracker) autoPauseLocked() {
	t.pauseLocked(AutoPaused)

	gen := t.timerGen
	t.warnTimer = t.clock.AfterFunc(t.opts.WarningAfter, func() { t.warningFired(gen) })
	t.timeoutTimer = t.clock.AfterFunc(t.opts.TimeoutAfter, func() { t.timeoutFired(gen) })
}

func (t *Tracker) resumeLocked() {
	now := t.clock.Now()
	t.cancelTimersLocked()
	t.pausedAccum += now.Sub(t.pauseStart)
	t.pauseStart = time.Time{}
	t.state = Active
	t.warning = false
	t.armHeartbeatLocked()
}

func (t *Tracker) setActivityLocked(activity models.ActivityType) {
	t.log.Debug("activity type changed: %s -> %s", t.activity, activity)
	t.activity = activity
	sid := t.sessionID
	t.writes.enqueue("activity type", func(ctx context.Context) error {
		return t.store.Update(ctx, sid, models.SessionUpdate{ActivityType: &activity})
	}, nil)
}

func (t *Tracker) armHeartbeatLocked() {
	gen := t.timerGen
	t.heartbeatTimer = t.clock.AfterFunc(t.opts.HeartbeatInterval, func() { t.heartbeatFired(gen) })
}

func (t *Tracker) heartbeatFired(gen int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.timerGen || t.state != Active {
		return
	}

	sid := t.sessionID
	active := true
	dur := int64(t.elapsedLocked(t.clock.Now()) / time.Millisecond)
	paused := int64(t.pausedAccum / time.Millisecond)
	t.writes.enqueue("heartbeat", func(ctx context.Context) error {
		return t.store.Update(ctx, sid, models.SessionUpdate{DurationMs: &dur, PausedMs: &paused, Active: &active})
	}, nil)

	t.armHeartbeatLocked()
}

func (t *Tracker) warningFired(gen int) {
	t.mu.Lock()
	if gen != t.timerGen || t.state != AutoPaused {
		t.mu.Unlock()
		return
	}
	t.warning = true
	cb := t.opts.OnTimeoutWarning
	userID := t.userID
	t.log.Info("session %d idle warning raised", t.sessionID)
	t.mu.Unlock()

	if cb != nil {
		cb(userID)
	}
}

func (t *Tracker) timeoutFired(gen int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.timerGen || t.state != AutoPaused {
		return
	}

	now := t.clock.Now()
	// Duration is frozen as of the moment the pause began; the idle gap
	// still counts as paused time on the record.
	final := t.elapsedLocked(now)
	paused := t.pausedAccum + now.Sub(t.pauseStart)

	t.cancelTimersLocked()
	sid := t.sessionID
	t.log.Info("session %d auto-ended after inactivity, duration=%s", sid, final)
	t.enqueueFinalizeLocked(sid, final, paused, now, AutoEndNote, nil)
	t.resetLocked()
}

// enqueueFinalizeLocked issues the single best-effort finalize write.
func (t *Tracker) enqueueFinalizeLocked(sid int64, final, paused time.Duration, endedAt time.Time, note string, onDone func(error)) {
	dur := int64(final / time.Millisecond)
	pausedMs := int64(paused / time.Millisecond)
	active := false
	counters := t.counters
	update := models.SessionUpdate{
		DurationMs: &dur,
		PausedMs:   &pausedMs,
		Active:     &active,
		EndedAt:    &endedAt,
		Counters:   &counters,
	}
	if note != "" {
		update.Note = &note
	}
	t.writes.enqueue("finalize", func(ctx context.Context) error {
		return t.store.Update(ctx, sid, update)
	}, onDone)
}

func (t *Tracker) elapsedLocked(now time.Time) time.Duration {
	switch t.state {
	case AutoPaused, ManuallyPaused:
		now = t.pauseStart
	case Ending, Ended:
		return t.finalDur
	}
	d := now.Sub(t.startedAt) - t.pausedAccum
	if d < 0 {
		d = 0
	}
	return d
}

func (t *Tracker) cancelTimersLocked() {
	t.timerGen++
	if t.heartbeatTimer != nil {
		t.heartbeatTimer.Stop()
		t.heartbeatTimer = nil
	}
	if t.warnTimer != nil {
		t.warnTimer.Stop()
		t.warnTimer = nil
	}
	if t.timeoutTimer != nil {
		t.timeoutTimer.Stop()
		t.timeoutTimer = nil
	}
}

func (t *Tracker) resetLocked() {
	t.cancelTimersLocked()
	t.state = Idle
	t.sessionID = 0
	t.startedAt = time.Time{}
	t.pausedAccum = 0
	t.pauseStart = time.Time{}
	t.finalDur = 0
	t.activity = ""
	t.counters = models.SessionCounters{}
	t.warning = false
}
