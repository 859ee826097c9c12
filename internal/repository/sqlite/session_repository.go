package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/abuabhi/note-genius/internal/logger"
	"github.com/abuabhi/note-genius/internal/models"
	"github.com/abuabhi/note-genius/internal/repository"
)

const sessionColumns = `id, user_id, activity_type, started_at, ended_at, duration_ms, paused_ms,
cards_reviewed, cards_correct, quiz_score, quiz_total, notes_created, notes_reviewed,
active, note, created_at`

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Insert(ctx context.Context, s models.StudySession) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: user_id=%d, activity=%s", s.UserID, s.ActivityType)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO study_sessions (user_id, activity_type, started_at, active)
VALUES (?, ?, ?, ?)
`, s.UserID, s.ActivityType, s.StartedAt, s.Active)
	if err != nil {
		log.Error("failed to insert session: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get session id: %v", err)
		return 0, err
	}
	log.Debug("session inserted: id=%d", id)
	return id, nil
}

func (r *sessionRepository) Update(ctx context.Context, id int64, fields models.SessionUpdate) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	query := sqlBuilder.Update("study_sessions").
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})

	if fields.DurationMs != nil {
		query = query.Set("duration_ms", *fields.DurationMs)
	}
	if fields.PausedMs != nil {
		query = query.Set("paused_ms", *fields.PausedMs)
	}
	if fields.ActivityType != nil {
		query = query.Set("activity_type", *fields.ActivityType)
	}
	if fields.Active != nil {
		query = query.Set("active", *fields.Active)
	}
	if fields.EndedAt != nil {
		query = query.Set("ended_at", *fields.EndedAt)
	}
	if fields.Note != nil {
		query = query.Set("note", *fields.Note)
	}
	if c := fields.Counters; c != nil {
		query = query.
			Set("cards_reviewed", c.CardsReviewed).
			Set("cards_correct", c.CardsCorrect).
			Set("quiz_score", c.QuizScore).
			Set("quiz_total", c.QuizTotal).
			Set("notes_created", c.NotesCreated).
			Set("notes_reviewed", c.NotesReviewed)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build session update: %v", err)
		return err
	}

	log.Debug("updating session: id=%d", id)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		log.Error("failed to update session %d: %v", id, err)
		return err
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id int64) (*models.StudySession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting session: id=%d", id)

	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM study_sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found: id=%d", id)
			return nil, nil
		}
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing sessions: user_id=%d, activity=%s", filter.UserID, filter.ActivityType)

	query := sqlBuilder.Select(
		"id", "user_id", "activity_type", "started_at", "ended_at", "duration_ms", "paused_ms",
		"cards_reviewed", "cards_correct", "quiz_score", "quiz_total", "notes_created", "notes_reviewed",
		"active", "note", "created_at",
	).From("study_sessions")

	query = applySessionFilter(query, filter)
	query = query.OrderBy("started_at DESC")

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build session list query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []models.StudySession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	log.Debug("found %d sessions", len(sessions))
	return sessions, rows.Err()
}

func (r *sessionRepository) Count(ctx context.Context, filter models.SessionFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	query := applySessionFilter(sqlBuilder.Select("COUNT(*)").From("study_sessions"), filter)
	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build session count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count sessions: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *sessionRepository) CloseAbandoned(ctx context.Context, cutoff time.Time, note string) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("closing abandoned sessions older than %s", cutoff)

	res, err := r.db.ExecContext(ctx, `
UPDATE study_sessions
SET active = 0, ended_at = updated_at, note = ?, updated_at = CURRENT_TIMESTAMP
WHERE active = 1 AND updated_at < ?
`, note, cutoff)
	if err != nil {
		log.Error("failed to close abandoned sessions: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info("closed %d abandoned sessions", n)
	}
	return n, nil
}

func applySessionFilter(query squirrel.SelectBuilder, filter models.SessionFilter) squirrel.SelectBuilder {
	if filter.UserID != 0 {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.ActivityType != "" {
		query = query.Where(squirrel.Eq{"activity_type": filter.ActivityType})
	}
	if filter.Since != nil {
		query = query.Where(squirrel.GtOrEq{"started_at": *filter.Since})
	}
	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"active": true})
	}
	return query
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.StudySession, error) {
	var s models.StudySession
	var endedAt sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.ActivityType, &s.StartedAt, &endedAt, &s.DurationMs, &s.PausedMs,
		&s.Counters.CardsReviewed, &s.Counters.CardsCorrect, &s.Counters.QuizScore, &s.Counters.QuizTotal,
		&s.Counters.NotesCreated, &s.Counters.NotesReviewed,
		&s.Active, &s.Note, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.EndedAt = timePtr(endedAt)
	return &s, nil
}
