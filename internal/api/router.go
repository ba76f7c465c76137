// Package api implements the directory REST API using chi.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/supportdir/internal/directory"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *directory.Service, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	r.Get("/options", h.Options)
	r.Get("/status", h.Status)

	r.Get("/services", h.ListServices)
	r.Get("/services/{id}", h.GetService)

	// Presenter callbacks. State travels with every request.
	r.Route("/session", func(r chi.Router) {
		r.Post("/start", h.SessionStart)
		r.Post("/filter", h.SessionFilter)
		r.Post("/page", h.SessionPage)
		r.Post("/more", h.SessionMore)
		r.Post("/clear", h.SessionClear)
	})

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
