package repository

import (
	"context"
	"time"

	"github.com/abuabhi/note-genius/internal/models"
)

// SessionRepository handles study session data access
type SessionRepository interface {
	Insert(ctx context.Context, session models.StudySession) (int64, error)
	Update(ctx context.Context, id int64, fields models.SessionUpdate) error
	Get(ctx context.Context, id int64) (*models.StudySession, error)
	List(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error)
	Count(ctx context.Context, filter models.SessionFilter) (int, error)
	CloseAbandoned(ctx context.Context, cutoff time.Time, note string) (int64, error)
}

// ReviewRepository handles spaced-repetition state data access
type ReviewRepository interface {
	Get(ctx context.Context, cardID, userID int64) (*models.ReviewState, error)
	Upsert(ctx context.Context, state models.ReviewState) error
	UpdateCardDueMetadata(ctx context.Context, cardID int64, lastReviewed, nextDue time.Time) error
}

// CardRepository handles flashcard data access
type CardRepository interface {
	Insert(ctx context.Context, card models.Card) (int64, error)
	Get(ctx context.Context, id int64, userID int64) (*models.Card, error)
	List(ctx context.Context, userID int64) ([]models.Card, error)
	DueCards(ctx context.Context, userID int64, limit int) ([]models.Card, error)
}

// UserRepository handles user data access
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Upsert(ctx context.Context, username string) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}
