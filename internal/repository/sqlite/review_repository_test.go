package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abuabhi/note-genius/internal/models"
	"github.com/abuabhi/note-genius/internal/repository/sqlite"
	"github.com/abuabhi/note-genius/internal/testutil"
)

func TestReviewRepository_GetReturnsNilWhenAbsent(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := sqlite.NewReviewRepository(database.DB)

	state, err := repo.Get(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestReviewRepository_UpsertInsertsThenUpdates(t *testing.T) {
	database := testutil.NewTestDB(t)
	reviews := sqlite.NewReviewRepository(database.DB)
	cards := sqlite.NewCardRepository(database.DB)
	ctx := context.Background()
	userID := seedUser(t, database, "alice")

	cardID, err := cards.Insert(ctx, models.Card{UserID: userID, Front: "2+2", Back: "4"})
	require.NoError(t, err)

	reviewed := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	first := models.ReviewState{
		CardID:         cardID,
		UserID:         userID,
		EaseFactor:     2.6,
		IntervalDays:   1,
		Repetition:     1,
		LastScore:      5,
		LastReviewedAt: reviewed,
		NextDueAt:      reviewed.AddDate(0, 0, 1),
	}
	require.NoError(t, reviews.Upsert(ctx, first))

	got, err := reviews.Get(ctx, cardID, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 2.6, got.EaseFactor, 1e-9)
	assert.Equal(t, 1, got.IntervalDays)
	assert.Equal(t, 5, got.LastScore)

	second := first
	second.EaseFactor = 2.7
	second.IntervalDays = 6
	second.Repetition = 2
	second.LastReviewedAt = reviewed.AddDate(0, 0, 1)
	second.NextDueAt = reviewed.AddDate(0, 0, 7)
	require.NoError(t, reviews.Upsert(ctx, second))

	got, err = reviews.Get(ctx, cardID, userID)
	require.NoError(t, err)
	assert.InDelta(t, 2.7, got.EaseFactor, 1e-9)
	assert.Equal(t, 6, got.IntervalDays)
	assert.Equal(t, 2, got.Repetition)
	assert.True(t, got.NextDueAt.Equal(reviewed.AddDate(0, 0, 7)))
}

func TestReviewRepository_UpdateCardDueMetadata(t *testing.T) {
	database := testutil.NewTestDB(t)
	reviews := sqlite.NewReviewRepository(database.DB)
	cards := sqlite.NewCardRepository(database.DB)
	ctx := context.Background()
	userID := seedUser(t, database, "alice")

	cardID, err := cards.Insert(ctx, models.Card{UserID: userID, Front: "capital of France", Back: "Paris"})
	require.NoError(t, err)

	reviewed := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	due := reviewed.AddDate(0, 0, 6)
	require.NoError(t, reviews.UpdateCardDueMetadata(ctx, cardID, reviewed, due))

	card, err := cards.Get(ctx, cardID, userID)
	require.NoError(t, err)
	require.NotNil(t, card.LastReviewedAt)
	require.NotNil(t, card.NextDueAt)
	assert.True(t, card.LastReviewedAt.Equal(reviewed))
	assert.True(t, card.NextDueAt.Equal(due))
}
