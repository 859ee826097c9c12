package services

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abuabhi/note-genius/internal/errors"
	"github.com/abuabhi/note-genius/internal/models"
	"github.com/abuabhi/note-genius/internal/testutil/mocks"
)

var reviewNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func newReviewServiceForTest(reviews *mocks.MockReviewRepository, cards *mocks.MockCardRepository) *reviewService {
	return &reviewService{
		reviews: reviews,
		cards:   cards,
		now:     func() time.Time { return reviewNow },
	}
}

func existingCard(id, userID int64) *models.Card {
	return &models.Card{ID: id, UserID: userID, Front: "front", Back: "back"}
}

func TestRecordReview_FirstReviewUsesDefaults(t *testing.T) {
	reviews := new(mocks.MockReviewRepository)
	cards := new(mocks.MockCardRepository)
	svc := newReviewServiceForTest(reviews, cards)

	cards.On("Get", mock.Anything, int64(10), int64(1)).Return(existingCard(10, 1), nil)
	reviews.On("Get", mock.Anything, int64(10), int64(1)).Return(nil, nil)
	reviews.On("Upsert", mock.Anything, mock.AnythingOfType("models.ReviewState")).Return(nil)
	reviews.On("UpdateCardDueMetadata", mock.Anything, int64(10), reviewNow, reviewNow.AddDate(0, 0, 1)).Return(nil)

	state, err := svc.RecordReview(context.Background(), 10, 1, 5)
	require.NoError(t, err)
	require.NotNil(t, state)

	assert.Equal(t, 1, state.Repetition)
	assert.Equal(t, 1, state.IntervalDays)
	assert.InDelta(t, 2.6, state.EaseFactor, 1e-9)
	assert.Equal(t, 5, state.LastScore)
	assert.Equal(t, reviewNow, state.LastReviewedAt)
	assert.Equal(t, reviewNow.AddDate(0, 0, 1), state.NextDueAt)

	reviews.AssertExpectations(t)
	cards.AssertExpectations(t)
}

func TestRecordReview_BuildsOnPriorState(t *testing.T) {
	reviews := new(mocks.MockReviewRepository)
	cards := new(mocks.MockCardRepository)
	svc := newReviewServiceForTest(reviews, cards)

	prior := &models.ReviewState{
		CardID:       10,
		UserID:       1,
		EaseFactor:   2.6,
		IntervalDays: 6,
		Repetition:   2,
	}
	cards.On("Get", mock.Anything, int64(10), int64(1)).Return(existingCard(10, 1), nil)
	reviews.On("Get", mock.Anything, int64(10), int64(1)).Return(prior, nil)
	reviews.On("Upsert", mock.Anything, mock.AnythingOfType("models.ReviewState")).Return(nil)
	reviews.On("UpdateCardDueMetadata", mock.Anything, int64(10), mock.Anything, mock.Anything).Return(nil)

	state, err := svc.RecordReview(context.Background(), 10, 1, 4)
	require.NoError(t, err)

	assert.Equal(t, 3, state.Repetition)
	assert.Equal(t, 16, state.IntervalDays, "6 days times the prior ease of 2.6, rounded")
	assert.Equal(t, reviewNow.AddDate(0, 0, 16), state.NextDueAt)
}

func TestRecordReview_RejectsInvalidScore(t *testing.T) {
	svc := newReviewServiceForTest(new(mocks.MockReviewRepository), new(mocks.MockCardRepository))

	for _, score := range []int{-1, 6, 100} {
		_, err := svc.RecordReview(context.Background(), 10, 1, score)
		require.Error(t, err, "score %d", score)
		var appErr *errors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	}
}

func TestRecordReview_UnknownCard(t *testing.T) {
	reviews := new(mocks.MockReviewRepository)
	cards := new(mocks.MockCardRepository)
	svc := newReviewServiceForTest(reviews, cards)

	cards.On("Get", mock.Anything, int64(99), int64(1)).Return(nil, nil)

	_, err := svc.RecordReview(context.Background(), 99, 1, 4)
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
	reviews.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestRecordReview_PriorReadFailureFallsBackToDefaults(t *testing.T) {
	reviews := new(mocks.MockReviewRepository)
	cards := new(mocks.MockCardRepository)
	svc := newReviewServiceForTest(reviews, cards)

	cards.On("Get", mock.Anything, int64(10), int64(1)).Return(existingCard(10, 1), nil)
	reviews.On("Get", mock.Anything, int64(10), int64(1)).Return(nil, stderrors.New("disk error"))
	reviews.On("Upsert", mock.Anything, mock.AnythingOfType("models.ReviewState")).Return(nil)
	reviews.On("UpdateCardDueMetadata", mock.Anything, int64(10), mock.Anything, mock.Anything).Return(nil)

	state, err := svc.RecordReview(context.Background(), 10, 1, 3)
	require.NoError(t, err, "a read failure must not block the review")
	assert.Equal(t, 1, state.Repetition)
	assert.Equal(t, 1, state.IntervalDays)
}

func TestRecordReview_UpsertFailurePropagates(t *testing.T) {
	reviews := new(mocks.MockReviewRepository)
	cards := new(mocks.MockCardRepository)
	svc := newReviewServiceForTest(reviews, cards)

	cards.On("Get", mock.Anything, int64(10), int64(1)).Return(existingCard(10, 1), nil)
	reviews.On("Get", mock.Anything, int64(10), int64(1)).Return(nil, nil)
	reviews.On("Upsert", mock.Anything, mock.AnythingOfType("models.ReviewState")).Return(stderrors.New("disk full"))

	_, err := svc.RecordReview(context.Background(), 10, 1, 4)
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeInternal, appErr.Code)
	reviews.AssertNotCalled(t, "UpdateCardDueMetadata", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordReview_DueMetadataFailureIsSwallowed(t *testing.T) {
	reviews := new(mocks.MockReviewRepository)
	cards := new(mocks.MockCardRepository)
	svc := newReviewServiceForTest(reviews, cards)

	cards.On("Get", mock.Anything, int64(10), int64(1)).Return(existingCard(10, 1), nil)
	reviews.On("Get", mock.Anything, int64(10), int64(1)).Return(nil, nil)
	reviews.On("Upsert", mock.Anything, mock.AnythingOfType("models.ReviewState")).Return(nil)
	reviews.On("UpdateCardDueMetadata", mock.Anything, int64(10), mock.Anything, mock.Anything).Return(stderrors.New("transient"))

	state, err := svc.RecordReview(context.Background(), 10, 1, 4)
	require.NoError(t, err, "denormalized metadata is best-effort")
	require.NotNil(t, state)
}
