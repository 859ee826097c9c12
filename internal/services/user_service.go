package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/abuabhi/note-genius/internal/errors"
	"github.com/abuabhi/note-genius/internal/logger"
	"github.com/abuabhi/note-genius/internal/models"
	"github.com/abuabhi/note-genius/internal/repository"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{2,32}$`)

// UserService handles user selection and management
type UserService interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, username string) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type userService struct {
	users repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return users, nil
}

func (s *userService) CreateUser(ctx context.Context, username string) (*models.User, error) {
	log := logger.FromContext(ctx)

	username = strings.TrimSpace(username)
	if !usernameRe.MatchString(username) {
		return nil, errors.NewValidationError("username", "must be 2-32 characters (letters, digits, - or _)")
	}

	user, err := s.users.Upsert(ctx, username)
	if err != nil {
		log.Error("failed to upsert user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("user ready: id=%d, username=%s", user.ID, user.Username)
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	user, err := s.users.Get(ctx, id)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if user == nil {
		return errors.NewNotFoundError("user", id)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		log.Error("failed to delete user: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("user deleted: id=%d", id)
	return nil
}
