// Package metadata owns the in-memory article collection. The store is
// the single source of truth for every other component; only Load and
// Reload write, everything else reads snapshots.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kuruchy/raido/internal/category"
	"github.com/kuruchy/raido/internal/checksum"
	"github.com/kuruchy/raido/internal/models"
	"github.com/kuruchy/raido/internal/storage"
)

// Store loads and caches normalized article metadata.
type Store struct {
	content      storage.Provider
	metadataPath string
	logger       *slog.Logger

	mu       sync.RWMutex
	articles []models.ArticleMetadata
	sum      string
}

// NewStore creates a Store reading the metadata document at metadataPath
// (relative to the content root).
func NewStore(content storage.Provider, metadataPath string, logger *slog.Logger) *Store {
	return &Store{content: content, metadataPath: metadataPath, logger: logger}
}

// rawRecord mirrors one entry of the metadata file. Every field is
// optional; normalization assigns the documented defaults.
type rawRecord struct {
	Filename       string          `json:"filename"`
	Title          string          `json:"title"`
	Excerpt        string          `json:"excerpt"`
	Description    string          `json:"description"`
	Category       json.RawMessage `json:"category"`
	Ready          *bool           `json:"ready"`
	PublishedDate  *string         `json:"published_date"`
	LastEditedTime *string         `json:"last_edited_time"`
	CreatedTime    *string         `json:"created_time"`
}

// Load reads and normalizes the metadata document. A read failure zeroes
// the collection and returns the error so the caller can log it; the rest
// of the site keeps rendering with zero articles. A non-array payload is
// logged and resolved to an empty collection, not an error.
func (s *Store) Load(_ context.Context) error {
	data, err := s.content.Read(s.metadataPath)
	if err != nil {
		s.replace(nil, "")
		return fmt.Errorf("metadata: load: %w", err)
	}

	var raws []rawRecord
	if err := json.Unmarshal(data, &raws); err != nil {
		s.logger.Warn("metadata: invalid format, expected array",
			slog.String("path", s.metadataPath),
			slog.String("error", err.Error()))
		s.replace(nil, checksum.Sum(data))
		return nil
	}

	articles := make([]models.ArticleMetadata, 0, len(raws))
	for _, r := range raws {
		articles = append(articles, normalize(r))
	}
	s.replace(articles, checksum.Sum(data))

	s.logger.Info("metadata: loaded", slog.Int("articles", len(articles)))
	return nil
}

// Reload re-reads the document, skipping the parse when the raw bytes are
// unchanged since the last load.
func (s *Store) Reload(ctx context.Context) error {
	data, err := s.content.Read(s.metadataPath)
	if err == nil && checksum.Sum(data) == s.Checksum() {
		return nil
	}
	return s.Load(ctx)
}

func (s *Store) replace(articles []models.ArticleMetadata, sum string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = articles
	s.sum = sum
}

// Articles returns a snapshot copy of the collection.
func (s *Store) Articles() []models.ArticleMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ArticleMetadata, len(s.articles))
	copy(out, s.articles)
	return out
}

// Lookup finds an article by exact filename match.
func (s *Store) Lookup(filename string) (models.ArticleMetadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.articles {
		if a.Filename == filename {
			return a, true
		}
	}
	return models.ArticleMetadata{}, false
}

// Filenames returns every known filename, in collection order.
func (s *Store) Filenames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.articles))
	for i, a := range s.articles {
		out[i] = a.Filename
	}
	return out
}

// Checksum returns the digest of the last successfully read document.
func (s *Store) Checksum() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sum
}

// normalize applies the per-field defaults so downstream consumers never
// branch on a missing field.
func normalize(r rawRecord) models.ArticleMetadata {
	title := r.Title
	if title == "" {
		title = "Untitled"
	}
	description := r.Excerpt
	if description == "" {
		description = r.Description
	}
	cat := normalizeCategory(r.Category)

	a := models.ArticleMetadata{
		Filename:    r.Filename,
		Title:       title,
		Description: description,
		Category:    cat,
		// Visibility is opt-in: absent means not ready.
		Ready:          r.Ready != nil && *r.Ready,
		PublishedDate:  deref(r.PublishedDate),
		LastEditedTime: deref(r.LastEditedTime),
		CreatedTime:    deref(r.CreatedTime),
	}
	a.Icon = category.IconFor(a.Title, a.Filename, cat.Raw())
	return a
}

// normalizeCategory resolves the stored category, which may be a string
// or an array of strings, into the tagged union exactly once.
func normalizeCategory(raw json.RawMessage) models.Category {
	if len(raw) == 0 {
		return models.Category{}
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return models.SingleCategory(single)
	}
	var multiple []string
	if err := json.Unmarshal(raw, &multiple); err == nil {
		return models.MultipleCategory(multiple)
	}
	return models.Category{}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
