package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abuabhi/note-genius/internal/errors"
	"github.com/abuabhi/note-genius/internal/models"
	"github.com/abuabhi/note-genius/internal/testutil/mocks"
)

func TestCreateUser_TrimsAndUpserts(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := NewUserService(repo)

	repo.On("Upsert", mock.Anything, "alice").Return(&models.User{ID: 1, Username: "alice"}, nil)

	user, err := svc.CreateUser(context.Background(), "  alice ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	repo.AssertExpectations(t)
}

func TestCreateUser_RejectsInvalidUsernames(t *testing.T) {
	svc := NewUserService(new(mocks.MockUserRepository))

	for _, username := range []string{"", "a", "has spaces", "way@bad", string(make([]byte, 40))} {
		_, err := svc.CreateUser(context.Background(), username)
		require.Error(t, err, "username %q", username)
		var appErr *errors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	}
}

func TestDeleteUser_UnknownUser(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	svc := NewUserService(repo)

	repo.On("Get", mock.Anything, int64(9)).Return(nil, nil)

	err := svc.DeleteUser(context.Background(), 9)
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCreateCard_Validation(t *testing.T) {
	svc := NewCardService(new(mocks.MockCardRepository))

	_, err := svc.CreateCard(context.Background(), 1, "   ", "back")
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)

	_, err = svc.CreateCard(context.Background(), 1, "front", "")
	require.Error(t, err)
}

func TestCreateCard_ReturnsStoredCard(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	svc := NewCardService(repo)

	repo.On("Insert", mock.Anything, models.Card{UserID: 1, Front: "front", Back: "back"}).Return(int64(3), nil)
	repo.On("Get", mock.Anything, int64(3), int64(1)).Return(&models.Card{ID: 3, UserID: 1, Front: "front", Back: "back"}, nil)

	card, err := svc.CreateCard(context.Background(), 1, " front ", " back ")
	require.NoError(t, err)
	assert.Equal(t, int64(3), card.ID)
	repo.AssertExpectations(t)
}
