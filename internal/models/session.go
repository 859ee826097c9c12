package models

import "time"

// ActivityType classifies what kind of studying a session covers.
type ActivityType string

const (
	ActivityGeneral        ActivityType = "general"
	ActivityFlashcardStudy ActivityType = "flashcard_study"
	ActivityNoteReview     ActivityType = "note_review"
	ActivityQuizTaking     ActivityType = "quiz_taking"
)

// Valid reports whether t is one of the known activity types.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityGeneral, ActivityFlashcardStudy, ActivityNoteReview, ActivityQuizTaking:
		return true
	}
	return false
}

// SessionCounters are the running per-session study counters.
type SessionCounters struct {
	CardsReviewed int `json:"cards_reviewed"`
	CardsCorrect  int `json:"cards_correct"`
	QuizScore     int `json:"quiz_score"`
	QuizTotal     int `json:"quiz_total"`
	NotesCreated  int `json:"notes_created"`
	NotesReviewed int `json:"notes_reviewed"`
}

// CounterDelta is a partial counter update. Nil fields are left untouched;
// set fields are added to the running counters.
type CounterDelta struct {
	CardsReviewed *int `json:"cards_reviewed,omitempty"`
	CardsCorrect  *int `json:"cards_correct,omitempty"`
	QuizScore     *int `json:"quiz_score,omitempty"`
	QuizTotal     *int `json:"quiz_total,omitempty"`
	NotesCreated  *int `json:"notes_created,omitempty"`
	NotesReviewed *int `json:"notes_reviewed,omitempty"`
}

// Apply adds the set fields of d to c.
func (c *SessionCounters) Apply(d CounterDelta) {
	if d.CardsReviewed != nil {
		c.CardsReviewed += *d.CardsReviewed
	}
	if d.CardsCorrect != nil {
		c.CardsCorrect += *d.CardsCorrect
	}
	if d.QuizScore != nil {
		c.QuizScore += *d.QuizScore
	}
	if d.QuizTotal != nil {
		c.QuizTotal += *d.QuizTotal
	}
	if d.NotesCreated != nil {
		c.NotesCreated += *d.NotesCreated
	}
	if d.NotesReviewed != nil {
		c.NotesReviewed += *d.NotesReviewed
	}
}

// Empty reports whether the delta sets no fields.
func (d CounterDelta) Empty() bool {
	return d.CardsReviewed == nil && d.CardsCorrect == nil &&
		d.QuizScore == nil && d.QuizTotal == nil &&
		d.NotesCreated == nil && d.NotesReviewed == nil
}

// StudySession is a persisted study session. At most one session per user
// is active at any instant; once ended the record is immutable.
type StudySession struct {
	ID           int64        `json:"id"`
	UserID       int64        `json:"user_id"`
	ActivityType ActivityType `json:"activity_type"`
	StartedAt    time.Time    `json:"started_at"`
	EndedAt      *time.Time   `json:"ended_at"`
	DurationMs   int64        `json:"duration_ms"`
	PausedMs     int64        `json:"paused_ms"`
	Counters     SessionCounters
	Active       bool      `json:"active"`
	Note         string    `json:"note"`
	CreatedAt    time.Time `json:"created_at"`
}

// SessionUpdate is a partial update to a stored session. Nil fields are
// left untouched.
type SessionUpdate struct {
	DurationMs   *int64
	PausedMs     *int64
	ActivityType *ActivityType
	Counters     *SessionCounters
	Active       *bool
	EndedAt      *time.Time
	Note         *string
}

// SessionFilter selects sessions for history listings.
type SessionFilter struct {
	UserID       int64
	ActivityType ActivityType
	Since        *time.Time
	ActiveOnly   bool
	Limit        int
	Offset       int
}
