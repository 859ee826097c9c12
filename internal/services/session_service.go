package services

import (
	"context"

	"github.com/abuabhi/note-genius/internal/errors"
	"github.com/abuabhi/note-genius/internal/logger"
	"github.com/abuabhi/note-genius/internal/models"
	"github.com/abuabhi/note-genius/internal/repository"
)

// SessionService exposes study-session history to readers. Live session
// mutation goes through the session tracker, not this service.
type SessionService interface {
	History(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, int, error)
}

type sessionService struct {
	sessions repository.SessionRepository
}

// NewSessionService creates a new SessionService
func NewSessionService(sessions repository.SessionRepository) SessionService {
	return &sessionService{sessions: sessions}
}

func (s *sessionService) History(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, int, error) {
	log := logger.FromContext(ctx)

	if filter.ActivityType != "" && !filter.ActivityType.Valid() {
		return nil, 0, errors.NewValidationError("activity_type", "unknown activity type")
	}

	sessions, err := s.sessions.List(ctx, filter)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.sessions.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count sessions: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return sessions, total, nil
}
