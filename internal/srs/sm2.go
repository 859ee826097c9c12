package srs

import (
	"math"
	"time"

	"github.com/abuabhi/note-genius/internal/models"
)

const (
	// DefaultEase is the ease factor assigned to never-reviewed cards.
	DefaultEase = 2.5
	// MinEase is the floor the ease factor can never drop below.
	MinEase = 1.3
	// PassScore is the lowest score counted as a successful recall.
	PassScore = 3
	// MaxScore is the highest valid review score.
	MaxScore = 5
)

// NewState returns the review state for a card that has never been
// reviewed by the user.
func NewState(cardID, userID int64) models.ReviewState {
	return models.ReviewState{
		CardID:     cardID,
		UserID:     userID,
		EaseFactor: DefaultEase,
	}
}

// Apply computes the next review state from the prior state and a review
// score using the SM-2 algorithm. score is expected to be an integer in
// [0, MaxScore]; callers validate at the boundary.
func Apply(prev models.ReviewState, score int, now time.Time) models.ReviewState {
	next := prev

	if score < PassScore {
		next.Repetition = 0
		next.IntervalDays = 1
	} else {
		next.Repetition = prev.Repetition + 1
		switch next.Repetition {
		case 1:
			next.IntervalDays = 1
		case 2:
			next.IntervalDays = 6
		default:
			// The growing interval uses the ease factor as of the
			// previous review, before this review adjusts it.
			next.IntervalDays = int(math.Round(float64(prev.IntervalDays) * prev.EaseFactor))
		}
	}

	miss := float64(MaxScore - score)
	ease := prev.EaseFactor + (0.1 - miss*(0.08+miss*0.02))
	if ease < MinEase {
		ease = MinEase
	}
	next.EaseFactor = ease

	next.LastScore = score
	next.LastReviewedAt = now
	next.NextDueAt = now.AddDate(0, 0, next.IntervalDays)
	return next
}
