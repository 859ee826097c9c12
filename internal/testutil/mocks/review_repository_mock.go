package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/abuabhi/note-genius/internal/models"
)

// MockReviewRepository is a mock implementation of repository.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Get(ctx context.Context, cardID, userID int64) (*models.ReviewState, error) {
	args := m.Called(ctx, cardID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewState), args.Error(1)
}

func (m *MockReviewRepository) Upsert(ctx context.Context, state models.ReviewState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockReviewRepository) UpdateCardDueMetadata(ctx context.Context, cardID int64, lastReviewed, nextDue time.Time) error {
	args := m.Called(ctx, cardID, lastReviewed, nextDue)
	return args.Error(0)
}
