package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/abuabhi/note-genius/internal/logger"
	"github.com/abuabhi/note-genius/internal/models"
	"github.com/abuabhi/note-genius/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: id=%d", id)

	var u models.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, username, created_at FROM users WHERE id = ?
`, id).Scan(&u.ID, &u.Username, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	rows, err := r.db.QueryContext(ctx, `SELECT id, username, created_at FROM users ORDER BY username`)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.CreatedAt); err != nil {
			log.Error("failed to scan user row: %v", err)
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) Upsert(ctx context.Context, username string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	username = strings.TrimSpace(strings.ToLower(username))
	log.Debug("upserting user: username=%s", username)

	if _, err := r.db.ExecContext(ctx, `
INSERT INTO users (username) VALUES (?) ON CONFLICT(username) DO NOTHING
`, username); err != nil {
		log.Error("failed to upsert user: %v", err)
		return nil, err
	}

	var u models.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, username, created_at FROM users WHERE username = ?
`, username).Scan(&u.ID, &u.Username, &u.CreatedAt)
	if err != nil {
		log.Error("failed to load upserted user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("deleting user: id=%d", id)

	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		log.Error("failed to delete user: %v", err)
		return err
	}
	return nil
}
