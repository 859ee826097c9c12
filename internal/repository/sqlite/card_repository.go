package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/abuabhi/note-genius/internal/logger"
	"github.com/abuabhi/note-genius/internal/models"
	"github.com/abuabhi/note-genius/internal/repository"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: user_id=%d", c.UserID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO cards (user_id, front, back) VALUES (?, ?, ?)
`, c.UserID, c.Front, c.Back)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get card id: %v", err)
		return 0, err
	}
	log.Debug("card inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) Get(ctx context.Context, id int64, userID int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%d, user_id=%d", id, userID)

	var c models.Card
	var lastReviewed, nextDue sql.NullTime
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, front, back, last_reviewed_at, next_due_at, created_at
FROM cards
WHERE id = ? AND user_id = ?
`, id, userID).Scan(&c.ID, &c.UserID, &c.Front, &c.Back, &lastReviewed, &nextDue, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	c.LastReviewedAt = timePtr(lastReviewed)
	c.NextDueAt = timePtr(nextDue)
	return &c, nil
}

func (r *cardRepository) List(ctx context.Context, userID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, front, back, last_reviewed_at, next_due_at, created_at
FROM cards
WHERE user_id = ?
ORDER BY created_at DESC
`, userID)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()
	return scanCards(rows, log)
}

func (r *cardRepository) DueCards(ctx context.Context, userID int64, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching due cards: user_id=%d, limit=%d", userID, limit)

	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, front, back, last_reviewed_at, next_due_at, created_at
FROM cards
WHERE user_id = ?
AND (next_due_at IS NULL OR next_due_at <= CURRENT_TIMESTAMP)
ORDER BY next_due_at IS NOT NULL, next_due_at
LIMIT ?
`, userID, limit)
	if err != nil {
		log.Error("failed to query due cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards, err := scanCards(rows, log)
	if err != nil {
		return nil, err
	}
	log.Debug("found %d due cards", len(cards))
	return cards, nil
}

func scanCards(rows *sql.Rows, log *logger.Logger) ([]models.Card, error) {
	var cards []models.Card
	for rows.Next() {
		var c models.Card
		var lastReviewed, nextDue sql.NullTime
		if err := rows.Scan(&c.ID, &c.UserID, &c.Front, &c.Back, &lastReviewed, &nextDue, &c.CreatedAt); err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		c.LastReviewedAt = timePtr(lastReviewed)
		c.NextDueAt = timePtr(nextDue)
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
