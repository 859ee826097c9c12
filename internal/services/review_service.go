package services

import (
	"context"
	"time"

	"github.com/abuabhi/note-genius/internal/errors"
	"github.com/abuabhi/note-genius/internal/logger"
	"github.com/abuabhi/note-genius/internal/models"
	"github.com/abuabhi/note-genius/internal/repository"
	"github.com/abuabhi/note-genius/internal/srs"
)

// ReviewService records flashcard reviews and maintains spaced-repetition
// scheduling state.
type ReviewService interface {
	RecordReview(ctx context.Context, cardID, userID int64, score int) (*models.ReviewState, error)
}

type reviewService struct {
	reviews repository.ReviewRepository
	cards   repository.CardRepository
	now     func() time.Time
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviews repository.ReviewRepository, cards repository.CardRepository) ReviewService {
	return &reviewService{reviews: reviews, cards: cards, now: time.Now}
}

// RecordReview loads the prior review state for (cardID, userID), applies
// the SM-2 update for score, and persists the result. A failed read of the
// prior state falls back to defaults so a review is never blocked; a
// failed write of the new state is returned to the caller, since silently
// losing it would corrupt the user's schedule.
func (s *reviewService) RecordReview(ctx context.Context, cardID, userID int64, score int) (*models.ReviewState, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording review: card_id=%d, user_id=%d, score=%d", cardID, userID, score)

	if score < 0 || score > srs.MaxScore {
		return nil, errors.NewValidationError("score", "must be between 0 and 5")
	}

	card, err := s.cards.Get(ctx, cardID, userID)
	if err != nil {
		log.Error("failed to load card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}

	prior, err := s.reviews.Get(ctx, cardID, userID)
	if err != nil {
		// Fail open: a read failure must not block recording the review.
		log.Warn("failed to load prior review state, using defaults: %v", err)
		prior = nil
	}
	if prior == nil {
		state := srs.NewState(cardID, userID)
		prior = &state
	}

	next := srs.Apply(*prior, score, s.now())
	log.Debug("applied review: repetition=%d, interval=%d days, ease=%.2f", next.Repetition, next.IntervalDays, next.EaseFactor)

	if err := s.reviews.Upsert(ctx, next); err != nil {
		log.Error("failed to persist review state: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// Denormalized convenience pair on the card itself; best-effort.
	if err := s.reviews.UpdateCardDueMetadata(ctx, cardID, next.LastReviewedAt, next.NextDueAt); err != nil {
		log.Warn("failed to update card due metadata: %v", err)
	}

	return &next, nil
}
