// Package siteservice coordinates the content pipeline for the HTTP and
// MCP surfaces: article listing and resolution, search, the daily
// puzzle, and the news section.
package siteservice

import (
	"context"

	"github.com/kuruchy/raido/internal/apperr"
	"github.com/kuruchy/raido/internal/articles"
	"github.com/kuruchy/raido/internal/comments"
	"github.com/kuruchy/raido/internal/curator"
	"github.com/kuruchy/raido/internal/index"
	"github.com/kuruchy/raido/internal/listing"
	"github.com/kuruchy/raido/internal/metadata"
	"github.com/kuruchy/raido/internal/models"
	"github.com/kuruchy/raido/internal/puzzle"
)

// ArticlePage is the full representation of a rendered article.
type ArticlePage struct {
	Filename    string                 `json:"filename"`
	Title       string                 `json:"title"`
	PageTitle   string                 `json:"page_title"`
	Category    string                 `json:"category"`
	Icon        string                 `json:"icon"`
	BodyHTML    string                 `json:"body_html"`
	TOC         []map[string]string    `json:"toc,omitempty"`
	ReadingTime int                    `json:"reading_time,omitempty"`
	Comments    string                 `json:"comments_html"`
	Dates       map[string]string      `json:"dates,omitempty"`
	Diagnostic  string                 `json:"diagnostic,omitempty"`
	State       articles.State         `json:"-"`
	Metadata    models.ArticleMetadata `json:"-"`
}

// SearchHit is one search result.
type SearchHit struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
}

// Service coordinates the content components.
type Service struct {
	store    *metadata.Store
	resolver *articles.Resolver
	lists    *listing.Renderer
	puzzles  *puzzle.Loader
	news     *curator.Curator
	comments *comments.Binder
	db       index.ArticleIndex
}

func NewService(store *metadata.Store, resolver *articles.Resolver, lists *listing.Renderer, puzzles *puzzle.Loader, news *curator.Curator, binder *comments.Binder, db index.ArticleIndex) *Service {
	return &Service{
		store:    store,
		resolver: resolver,
		lists:    lists,
		puzzles:  puzzles,
		news:     news,
		comments: binder,
		db:       db,
	}
}

// Articles returns the current metadata snapshot, every record, drafts
// included. Callers that render publicly must filter on Ready.
func (s *Service) Articles(_ context.Context) []models.ArticleMetadata {
	return s.store.Articles()
}

// RenderedList returns the landing page card HTML for every ready
// article.
func (s *Service) RenderedList(_ context.Context) (string, error) {
	return s.lists.RenderAll(s.store.Articles())
}

// RenderedFeatured returns the card HTML for a category section.
func (s *Service) RenderedFeatured(_ context.Context, category string, limit int) (string, error) {
	return s.lists.RenderFeatured(s.store.Articles(), category, limit)
}

// Article resolves and renders one article page, comments included.
func (s *Service) Article(ctx context.Context, fileParam, scheme string) (*ArticlePage, error) {
	res := s.resolver.Resolve(ctx, fileParam, scheme)
	page := &ArticlePage{
		State:      res.State,
		Metadata:   res.Article,
		Filename:   res.Article.Filename,
		Title:      res.Article.Title,
		PageTitle:  res.PageTitle,
		Category:   res.Article.Category.Label(""),
		Icon:       res.Article.Icon,
		Diagnostic: res.Diagnostic,
	}
	switch res.State {
	case articles.StateRendered:
		page.BodyHTML = res.BodyHTML
		page.ReadingTime = res.ReadingTime
		page.Comments = s.comments.Embed(res.ThreadID)
		if len(res.TOC) > 0 {
			page.TOC = make([]map[string]string, len(res.TOC))
			for i, e := range res.TOC {
				page.TOC[i] = map[string]string{"id": e.ID, "title": e.Text}
			}
		}
		if d := res.Article.EffectiveDate(); d != "" {
			page.Dates = map[string]string{"effective": d}
		}
		return page, nil
	case articles.StateNotFound:
		return page, apperr.ErrNotFound
	case articles.StateFailed:
		return page, res.Err
	default:
		return page, apperr.ErrInvalidFormat
	}
}

// Search queries the article index. Only ready articles are indexed, so
// hits never expose drafts.
func (s *Service) Search(_ context.Context, query string, limit int) ([]SearchHit, error) {
	results, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	hits := make([]SearchHit, len(results))
	for i, r := range results {
		hits[i] = SearchHit{Filename: r.Filename, Title: r.Title, Snippet: r.Snippet}
	}
	return hits, nil
}

// Puzzle returns the rendered daily puzzle with its comment thread, or
// the placeholder when none is available.
func (s *Service) Puzzle(_ context.Context) (string, error) {
	return s.puzzles.Embed(s.comments)
}

// PuzzleData returns the raw puzzle document. ok is false when no valid
// puzzle is available.
func (s *Service) PuzzleData(_ context.Context) (models.PokerPuzzle, bool) {
	return s.puzzles.Load()
}

// News returns the rendered news section HTML.
func (s *Service) News(_ context.Context) (string, error) {
	return s.news.RenderNews()
}

// NewsData returns the raw news items. ok is false when the document is
// missing or malformed.
func (s *Service) NewsData(_ context.Context) ([]models.NewsItem, bool) {
	return s.news.Load()
}
