package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/abuabhi/note-genius/internal/models"
)

// MockSessionRepository is a mock implementation of repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Insert(ctx context.Context, session models.StudySession) (int64, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, id int64, fields models.SessionUpdate) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id int64) (*models.StudySession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudySession), args.Error(1)
}

func (m *MockSessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StudySession), args.Error(1)
}

func (m *MockSessionRepository) Count(ctx context.Context, filter models.SessionFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockSessionRepository) CloseAbandoned(ctx context.Context, cutoff time.Time, note string) (int64, error) {
	args := m.Called(ctx, cutoff, note)
	return args.Get(0).(int64), args.Error(1)
}
