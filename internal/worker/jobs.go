package worker

import (
	"context"
	"time"

	"github.com/abuabhi/note-genius/internal/logger"
	"github.com/abuabhi/note-genius/internal/repository"
	"github.com/abuabhi/note-genius/internal/session"
)

// SweepSessionsJob closes sessions left active with no heartbeat for
// longer than the stale window. This is crash recovery: a tracker that
// died mid-session cannot finalize its own record.
type SweepSessionsJob struct {
	Sessions    repository.SessionRepository
	StaleWindow time.Duration
}

func (j *SweepSessionsJob) Name() string { return "sweep-sessions" }

func (j *SweepSessionsJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	window := j.StaleWindow
	if window <= 0 {
		window = session.DefaultTimeoutAfter
	}
	cutoff := time.Now().UTC().Add(-window)

	n, err := j.Sessions.CloseAbandoned(ctx, cutoff, session.AutoEndNote)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info("swept %d abandoned sessions", n)
	} else {
		log.Debug("no abandoned sessions found")
	}
	return nil
}
