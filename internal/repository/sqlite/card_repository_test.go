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

func TestCardRepository_InsertAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := sqlite.NewCardRepository(database.DB)
	ctx := context.Background()
	userID := seedUser(t, database, "alice")

	id, err := repo.Insert(ctx, models.Card{UserID: userID, Front: "der Hund", Back: "the dog"})
	require.NoError(t, err)

	got, err := repo.Get(ctx, id, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "der Hund", got.Front)
	assert.Equal(t, "the dog", got.Back)
	assert.Nil(t, got.LastReviewedAt)
	assert.Nil(t, got.NextDueAt)
}

func TestCardRepository_GetScopedToOwner(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := sqlite.NewCardRepository(database.DB)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")

	id, err := repo.Insert(ctx, models.Card{UserID: alice, Front: "f", Back: "b"})
	require.NoError(t, err)

	got, err := repo.Get(ctx, id, bob)
	require.NoError(t, err)
	assert.Nil(t, got, "cards are invisible to other users")
}

func TestCardRepository_DueCards(t *testing.T) {
	database := testutil.NewTestDB(t)
	cards := sqlite.NewCardRepository(database.DB)
	reviews := sqlite.NewReviewRepository(database.DB)
	ctx := context.Background()
	userID := seedUser(t, database, "alice")

	never, err := cards.Insert(ctx, models.Card{UserID: userID, Front: "never reviewed", Back: "b"})
	require.NoError(t, err)
	overdue, err := cards.Insert(ctx, models.Card{UserID: userID, Front: "overdue", Back: "b"})
	require.NoError(t, err)
	future, err := cards.Insert(ctx, models.Card{UserID: userID, Front: "not yet due", Back: "b"})
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, reviews.UpdateCardDueMetadata(ctx, overdue, now.AddDate(0, 0, -10), now.AddDate(0, 0, -3)))
	require.NoError(t, reviews.UpdateCardDueMetadata(ctx, future, now, now.AddDate(0, 0, 6)))

	due, err := cards.DueCards(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, due, 2)

	// Never-reviewed cards surface before overdue ones.
	assert.Equal(t, never, due[0].ID)
	assert.Equal(t, overdue, due[1].ID)
}

func TestCardRepository_List(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := sqlite.NewCardRepository(database.DB)
	ctx := context.Background()
	alice := seedUser(t, database, "alice")
	bob := seedUser(t, database, "bob")

	for _, front := range []string{"a", "b", "c"} {
		_, err := repo.Insert(ctx, models.Card{UserID: alice, Front: front, Back: "x"})
		require.NoError(t, err)
	}
	_, err := repo.Insert(ctx, models.Card{UserID: bob, Front: "other", Back: "x"})
	require.NoError(t, err)

	list, err := repo.List(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
