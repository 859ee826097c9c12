package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/abuabhi/note-genius/internal/logger"
	"github.com/abuabhi/note-genius/internal/models"
	"github.com/abuabhi/note-genius/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository implementation
func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Get(ctx context.Context, cardID, userID int64) (*models.ReviewState, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("getting review state: card_id=%d, user_id=%d", cardID, userID)

	var s models.ReviewState
	err := r.db.QueryRowContext(ctx, `
SELECT card_id, user_id, ease_factor, interval_days, repetition, last_score, last_reviewed_at, next_due_at
FROM review_states
WHERE card_id = ? AND user_id = ?
`, cardID, userID).Scan(&s.CardID, &s.UserID, &s.EaseFactor, &s.IntervalDays, &s.Repetition,
		&s.LastScore, &s.LastReviewedAt, &s.NextDueAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no review state yet: card_id=%d", cardID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get review state: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *reviewRepository) Upsert(ctx context.Context, s models.ReviewState) error {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("upserting review state: card_id=%d, interval=%d, ease=%.2f", s.CardID, s.IntervalDays, s.EaseFactor)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_states (card_id, user_id, ease_factor, interval_days, repetition, last_score, last_reviewed_at, next_due_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(card_id, user_id) DO UPDATE SET
    ease_factor = excluded.ease_factor,
    interval_days = excluded.interval_days,
    repetition = excluded.repetition,
    last_score = excluded.last_score,
    last_reviewed_at = excluded.last_reviewed_at,
    next_due_at = excluded.next_due_at
`, s.CardID, s.UserID, s.EaseFactor, s.IntervalDays, s.Repetition, s.LastScore, s.LastReviewedAt, s.NextDueAt)
	if err != nil {
		log.Error("failed to upsert review state: %v", err)
	}
	return err
}

func (r *reviewRepository) UpdateCardDueMetadata(ctx context.Context, cardID int64, lastReviewed, nextDue time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("updating card due metadata: card_id=%d, next_due=%s", cardID, nextDue)

	_, err := r.db.ExecContext(ctx, `
UPDATE cards SET last_reviewed_at = ?, next_due_at = ? WHERE id = ?
`, lastReviewed, nextDue, cardID)
	if err != nil {
		log.Error("failed to update card due metadata: %v", err)
	}
	return err
}
