// Package articles resolves a requested filename into a fully rendered
// article page, or into one of the documented failure states.
package articles

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/kuruchy/raido/internal/apperr"
	"github.com/kuruchy/raido/internal/comments"
	"github.com/kuruchy/raido/internal/markdown"
	"github.com/kuruchy/raido/internal/metadata"
	"github.com/kuruchy/raido/internal/models"
	"github.com/kuruchy/raido/internal/storage"
)

// State classifies the outcome of a resolution attempt.
type State int

const (
	// StateNoParam means the request carried no file parameter at all.
	StateNoParam State = iota
	// StateNotFound means the parameter matched no known article.
	StateNotFound
	// StateRendered means the article page was composed successfully.
	StateRendered
	// StateFailed means the article exists but its content could not be
	// read or rendered.
	StateFailed
)

// maxListedFilenames caps the known-files list in not-found diagnostics
// so a large collection does not flood the page.
const maxListedFilenames = 50

// Result is the outcome of Resolve. Only StateRendered populates the
// content fields; the failure states carry a human-readable Diagnostic.
type Result struct {
	State       State
	Article     models.ArticleMetadata
	BodyHTML    string
	TOC         []markdown.TOCEntry
	ReadingTime int
	PageTitle   string
	ThreadID    string
	Diagnostic  string
	Err         error
}

// Resolver turns file parameters into article pages.
type Resolver struct {
	store    *metadata.Store
	content  storage.Provider
	renderer *markdown.Renderer
	siteName string
	logger   *slog.Logger
}

// NewResolver creates a Resolver reading article bodies through content.
func NewResolver(store *metadata.Store, content storage.Provider, renderer *markdown.Renderer, siteName string, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:    store,
		content:  content,
		renderer: renderer,
		siteName: siteName,
		logger:   logger,
	}
}

// Resolve looks up rawParam in the metadata collection and composes the
// article page. The parameter is tried URL-decoded first, then verbatim,
// so links survive both single and double encoding. scheme is the scheme
// of the requesting page; "file" requests get a local-preview note on
// failure because browsers block fetches from file URLs.
func (r *Resolver) Resolve(_ context.Context, rawParam, scheme string) Result {
	if strings.TrimSpace(rawParam) == "" {
		return Result{
			State:      StateNoParam,
			Diagnostic: "No article specified. Open this page through an article card, which links it as article.html?file=<name>.",
		}
	}

	meta, ok := r.lookup(rawParam)
	if !ok {
		return Result{
			State:      StateNotFound,
			Diagnostic: r.notFoundDiagnostic(rawParam),
		}
	}

	data, err := r.content.Read(meta.Filename)
	if err != nil {
		r.logger.Warn("articles: read failed",
			slog.String("filename", meta.Filename),
			slog.String("error", err.Error()))
		return r.failed(meta, scheme, fmt.Errorf("read %s: %w", meta.Filename, err))
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return r.failed(meta, scheme, fmt.Errorf("%s: %w", meta.Filename, apperr.ErrEmptyContent))
	}

	html, err := r.renderer.Render([]byte(text))
	if err != nil {
		return r.failed(meta, scheme, fmt.Errorf("render %s: %w", meta.Filename, err))
	}
	body := markdown.StripLeadingTitle(html, meta.Title)

	return Result{
		State:       StateRendered,
		Article:     meta,
		BodyHTML:    body,
		TOC:         markdown.TOC(body),
		ReadingTime: markdown.ReadingTime(text),
		PageTitle:   meta.Title + " | " + r.siteName,
		ThreadID:    comments.ThreadID(meta.Filename),
	}
}

// lookup tries the decoded parameter first, then the raw one.
func (r *Resolver) lookup(rawParam string) (models.ArticleMetadata, bool) {
	if decoded, err := url.QueryUnescape(rawParam); err == nil {
		if meta, ok := r.store.Lookup(decoded); ok {
			return meta, true
		}
	}
	return r.store.Lookup(rawParam)
}

func (r *Resolver) notFoundDiagnostic(rawParam string) string {
	known := r.store.Filenames()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Article %q was not found.", rawParam)
	if len(known) == 0 {
		sb.WriteString(" The article collection is empty.")
		return sb.String()
	}
	listed := known
	if len(listed) > maxListedFilenames {
		listed = listed[:maxListedFilenames]
	}
	fmt.Fprintf(&sb, " Known articles: %s", strings.Join(listed, ", "))
	if len(known) > maxListedFilenames {
		fmt.Fprintf(&sb, " and %d more", len(known)-maxListedFilenames)
	}
	sb.WriteString(".")
	return sb.String()
}

func (r *Resolver) failed(meta models.ArticleMetadata, scheme string, err error) Result {
	diag := fmt.Sprintf("Could not load %q: %s.", meta.Filename, err.Error())
	if scheme != "" {
		diag += fmt.Sprintf(" Page protocol: %s.", scheme)
	}
	if scheme == "file" {
		diag += " Pages opened from a file:// URL cannot fetch content; serve the site over HTTP instead."
	}
	return Result{
		State:      StateFailed,
		Article:    meta,
		Diagnostic: diag,
		Err:        err,
	}
}
