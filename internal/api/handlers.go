package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kuruchy/raido/internal/apperr"
	"github.com/kuruchy/raido/internal/articles"
	"github.com/kuruchy/raido/internal/listing"
	"github.com/kuruchy/raido/internal/siteservice"
)

// Refreshers holds the on-demand content generation hooks for the admin
// endpoints. A nil hook means the corresponding generator is disabled
// (no API key configured).
type Refreshers struct {
	News   func(context.Context) error
	Puzzle func(context.Context) error
}

// Handler holds API route handlers.
type Handler struct {
	svc     *siteservice.Service
	refresh Refreshers
}

// NewHandler creates a new Handler.
func NewHandler(svc *siteservice.Service, refresh Refreshers) *Handler {
	return &Handler{svc: svc, refresh: refresh}
}

// ListArticles handles GET /api/articles. It returns ready articles
// sorted newest first, plus the rendered card HTML. An optional category
// query switches to the featured view.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cat := q.Get("category")
	limit, _ := strconv.Atoi(q.Get("limit"))

	all := h.svc.Articles(r.Context())

	var html string
	var err error
	if cat != "" {
		html, err = h.svc.RenderedFeatured(r.Context(), cat, limit)
	} else {
		html, err = h.svc.RenderedList(r.Context())
	}
	if err != nil {
		slog.Error("list articles failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	eligible := listing.SortByRecency(listing.Eligible(all))
	writeJSON(w, http.StatusOK, map[string]any{
		"articles": eligible,
		"total":    len(eligible),
		"html":     html,
	})
}

// GetArticle handles GET /api/article?file=<name>&scheme=<scheme>.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.svc.Article(r.Context(), q.Get("file"), q.Get("scheme"))
	if err == nil {
		writeJSON(w, http.StatusOK, page)
		return
	}
	switch {
	case page.State == articles.StateNoParam:
		writeJSON(w, http.StatusBadRequest, errorBody(page.Diagnostic))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(page.Diagnostic))
	default:
		slog.Error("get article failed",
			slog.String("file", q.Get("file")),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody(page.Diagnostic))
	}
}

// Search handles GET /api/search?q=<query>&limit=<n>.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("q is required"))
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	hits, err := h.svc.Search(r.Context(), query, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", query), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if hits == nil {
		hits = []siteservice.SearchHit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": hits,
		"total":   len(hits),
	})
}

// GetPuzzle handles GET /api/puzzle. The response always succeeds; when
// no puzzle is available the HTML is the placeholder and the data field
// is absent.
func (h *Handler) GetPuzzle(w http.ResponseWriter, r *http.Request) {
	html, err := h.svc.Puzzle(r.Context())
	if err != nil {
		slog.Error("puzzle render failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	body := map[string]any{"html": html}
	if p, ok := h.svc.PuzzleData(r.Context()); ok {
		body["puzzle"] = p
	}
	writeJSON(w, http.StatusOK, body)
}

// GetNews handles GET /api/news.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	html, err := h.svc.News(r.Context())
	if err != nil {
		slog.Error("news render failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	body := map[string]any{"html": html}
	if items, ok := h.svc.NewsData(r.Context()); ok {
		body["items"] = items
	}
	writeJSON(w, http.StatusOK, body)
}

// RefreshNews handles POST /api/admin/refresh/news.
func (h *Handler) RefreshNews(w http.ResponseWriter, r *http.Request) {
	h.runRefresh(w, r, "news", h.refresh.News)
}

// RefreshPuzzle handles POST /api/admin/refresh/puzzle.
func (h *Handler) RefreshPuzzle(w http.ResponseWriter, r *http.Request) {
	h.runRefresh(w, r, "puzzle", h.refresh.Puzzle)
}

func (h *Handler) runRefresh(w http.ResponseWriter, r *http.Request, name string, fn func(context.Context) error) {
	if fn == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody(name+" generation is disabled"))
		return
	}
	if err := fn(r.Context()); err != nil {
		slog.Error("refresh failed", slog.String("job", name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody(name+" refresh failed"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
