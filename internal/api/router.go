package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kuruchy/raido/internal/siteservice"
)

// NewRouter creates a chi router with all API routes mounted. The admin
// refresh endpoints sit behind Bearer auth; the read endpoints are
// public. sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *siteservice.Service, refresh Refreshers, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, refresh)

	r := chi.NewRouter()

	// Content reads.
	r.Get("/articles", h.ListArticles)
	r.Get("/article", h.GetArticle)
	r.Get("/search", h.Search)
	r.Get("/puzzle", h.GetPuzzle)
	r.Get("/news", h.GetNews)

	// Live updates.
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	// On-demand generation.
	r.Route("/admin", func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))
		r.Post("/refresh/news", h.RefreshNews)
		r.Post("/refresh/puzzle", h.RefreshPuzzle)
	})

	return r
}
