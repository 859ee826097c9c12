package api

import (
	"github.com/abuabhi/note-genius/internal/db"
	"github.com/abuabhi/note-genius/internal/services"
	"github.com/abuabhi/note-genius/internal/session"
)

// Server holds the handler dependencies.
type Server struct {
	UserService    services.UserService
	CardService    services.CardService
	ReviewService  services.ReviewService
	SessionService services.SessionService
	Registry       *session.Registry
	DB             *db.DB
}
