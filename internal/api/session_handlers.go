package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/abuabhi/note-genius/internal/errors"
	"github.com/abuabhi/note-genius/internal/logger"
	"github.com/abuabhi/note-genius/internal/models"
	"github.com/abuabhi/note-genius/internal/session"
)

// tracker resolves the request user's session tracker. The returned
// release must be called when the handler is done with it.
func (s *Server) tracker(r *http.Request) (*session.Tracker, func()) {
	user := userFromContext(r.Context())
	return s.Registry.Acquire(user.ID)
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	t, release := s.tracker(r)
	defer release()
	respondJSON(w, r, http.StatusOK, t.Snapshot())
}

func (s *Server) handleRouteChanged(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path string `json:"path"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	if body.Path == "" {
		handleError(w, r, errors.NewValidationError("path", "must not be empty"))
		return
	}

	t, release := s.tracker(r)
	defer release()
	t.OnRouteChanged(r.Context(), body.Path)
	respondJSON(w, r, http.StatusOK, t.Snapshot())
}

func (s *Server) handleUserActivity(w http.ResponseWriter, r *http.Request) {
	t, release := s.tracker(r)
	defer release()
	t.OnUserActivity(r.Context())
	respondJSON(w, r, http.StatusOK, t.Snapshot())
}

func (s *Server) handleVisibilityChanged(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Visible bool `json:"visible"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	t, release := s.tracker(r)
	defer release()
	t.OnVisibilityChanged(r.Context(), body.Visible)
	respondJSON(w, r, http.StatusOK, t.Snapshot())
}

func (s *Server) handleTogglePause(w http.ResponseWriter, r *http.Request) {
	t, release := s.tracker(r)
	defer release()
	t.TogglePause(r.Context())
	respondJSON(w, r, http.StatusOK, t.Snapshot())
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	t, release := s.tracker(r)
	defer release()

	final, cleanup := t.End(r.Context())
	// The user-facing timer stops regardless of persistence outcome.
	cleanup()

	log.Info("session ended, duration=%s", final)
	respondJSON(w, r, http.StatusOK, map[string]any{
		"duration_seconds": int64(final / time.Second),
	})
}

func (s *Server) handleUpdateCounters(w http.ResponseWriter, r *http.Request) {
	var delta models.CounterDelta
	if err := decodeJSON(r, &delta); err != nil {
		handleError(w, r, err)
		return
	}

	t, release := s.tracker(r)
	defer release()
	t.UpdateCounters(r.Context(), delta)
	respondJSON(w, r, http.StatusOK, t.Snapshot())
}

func (s *Server) handleDismissWarning(w http.ResponseWriter, r *http.Request) {
	t, release := s.tracker(r)
	defer release()
	t.DismissTimeoutWarning()
	respondJSON(w, r, http.StatusOK, t.Snapshot())
}

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	filter := models.SessionFilter{UserID: user.ID}
	q := r.URL.Query()
	if v := q.Get("activity_type"); v != "" {
		filter.ActivityType = models.ActivityType(v)
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			handleError(w, r, errors.NewValidationError("since", "must be RFC 3339"))
			return
		}
		filter.Since = &since
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	sessions, total, err := s.SessionService.History(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"sessions": sessions,
		"total":    total,
	})
}
