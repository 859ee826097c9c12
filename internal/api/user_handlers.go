package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abuabhi/note-genius/internal/errors"
	"github.com/abuabhi/note-genius/internal/logger"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.UserService.ListUsers(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.UserService.CreateUser(r.Context(), body.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}
	setUserCookie(w, user.ID)
	respondJSON(w, r, http.StatusCreated, user)
}

func (s *Server) handleSelectUser(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.UserService.GetUser(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if user == nil {
		handleError(w, r, errors.NewNotFoundError("user", id))
		return
	}

	setUserCookie(w, user.ID)
	logger.FromContext(r.Context()).Info("user selected: id=%d", user.ID)
	respondJSON(w, r, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.UserService.DeleteUser(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	clearUserCookie(w)
	respondJSON(w, r, http.StatusOK, map[string]any{"deleted": id})
}

func userIDParam(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, errors.NewBadRequestError("invalid user ID")
	}
	return id, nil
}
