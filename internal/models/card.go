package models

import "time"

// Card is a studyable flashcard. LastReviewedAt and NextDueAt mirror the
// owning user's ReviewState as a denormalized convenience pair.
type Card struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	NextDueAt      *time.Time `json:"next_due_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ReviewState is the spaced-repetition scheduling state for one card and
// one user.
type ReviewState struct {
	CardID         int64     `json:"card_id"`
	UserID         int64     `json:"user_id"`
	EaseFactor     float64   `json:"ease_factor"`
	IntervalDays   int       `json:"interval_days"`
	Repetition     int       `json:"repetition"`
	LastScore      int       `json:"last_score"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
	NextDueAt      time.Time `json:"next_due_at"`
}
