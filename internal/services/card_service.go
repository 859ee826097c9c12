package services

import (
	"context"
	"strings"

	"github.com/abuabhi/note-genius/internal/errors"
	"github.com/abuabhi/note-genius/internal/logger"
	"github.com/abuabhi/note-genius/internal/models"
	"github.com/abuabhi/note-genius/internal/repository"
)

// CardService handles flashcard business logic
type CardService interface {
	CreateCard(ctx context.Context, userID int64, front, back string) (*models.Card, error)
	ListCards(ctx context.Context, userID int64) ([]models.Card, error)
	DueCards(ctx context.Context, userID int64, limit int) ([]models.Card, error)
}

type cardService struct {
	cards repository.CardRepository
}

// NewCardService creates a new CardService
func NewCardService(cards repository.CardRepository) CardService {
	return &cardService{cards: cards}
}

func (s *cardService) CreateCard(ctx context.Context, userID int64, front, back string) (*models.Card, error) {
	log := logger.FromContext(ctx)

	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)
	if front == "" {
		return nil, errors.NewValidationError("front", "must not be empty")
	}
	if back == "" {
		return nil, errors.NewValidationError("back", "must not be empty")
	}

	id, err := s.cards.Insert(ctx, models.Card{UserID: userID, Front: front, Back: back})
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, errors.NewInternalError(err)
	}

	card, err := s.cards.Get(ctx, id, userID)
	if err != nil {
		log.Error("failed to reload card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("card created: id=%d", id)
	return card, nil
}

func (s *cardService) ListCards(ctx context.Context, userID int64) ([]models.Card, error) {
	cards, err := s.cards.List(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *cardService) DueCards(ctx context.Context, userID int64, limit int) ([]models.Card, error) {
	cards, err := s.cards.DueCards(ctx, userID, limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}
