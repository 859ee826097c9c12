package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/users", s.handleListUsers)
		r.Post("/users", s.handleCreateUser)
		r.Post("/users/{id}/select", s.handleSelectUser)
		r.Post("/users/{id}/delete", s.handleDeleteUser)

		r.Group(func(r chi.Router) {
			r.Use(s.userMiddleware)

			r.Route("/session", func(r chi.Router) {
				r.Get("/", s.handleSessionState)
				r.Post("/route", s.handleRouteChanged)
				r.Post("/activity", s.handleUserActivity)
				r.Post("/visibility", s.handleVisibilityChanged)
				r.Post("/pause", s.handleTogglePause)
				r.Post("/end", s.handleEndSession)
				r.Post("/counters", s.handleUpdateCounters)
				r.Post("/warning/dismiss", s.handleDismissWarning)
			})
			r.Get("/sessions", s.handleSessionHistory)

			r.Post("/cards", s.handleCreateCard)
			r.Get("/cards", s.handleListCards)
			r.Get("/cards/due", s.handleDueCards)
			r.Post("/cards/{id}/review", s.handleReviewCard)
		})
	})

	return r
}
