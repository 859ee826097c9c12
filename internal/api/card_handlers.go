package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abuabhi/note-genius/internal/errors"
	"github.com/abuabhi/note-genius/internal/logger"
)

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Front string `json:"front"`
		Back  string `json:"back"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	user := userFromContext(r.Context())
	card, err := s.CardService.CreateCard(r.Context(), user.ID, body.Front, body.Back)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	cards, err := s.CardService.ListCards(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	cards, err := s.CardService.DueCards(r.Context(), user.ID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Warn("invalid card ID: %s", idStr)
		handleError(w, r, errors.NewBadRequestError("invalid card ID"))
		return
	}

	var body struct {
		Score int `json:"score"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	user := userFromContext(r.Context())
	state, err := s.ReviewService.RecordReview(r.Context(), id, user.ID, body.Score)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("card %d reviewed, score=%d, next due %s", id, body.Score, state.NextDueAt)
	respondJSON(w, r, http.StatusOK, state)
}
