package index

import (
	"log/slog"
	"time"

	"github.com/kuruchy/raido/internal/checksum"
	"github.com/kuruchy/raido/internal/metadata"
	"github.com/kuruchy/raido/internal/storage"
)

// Sync brings the search index up to date with the metadata collection:
//   - ready articles with new or changed bodies are upserted
//   - articles that vanished or lost their ready flag are deleted
//
// Only ready articles are searchable; the index never leaks drafts.
func Sync(db ArticleIndex, store *metadata.Store, content storage.Provider, logger *slog.Logger) error {
	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	live := make(map[string]struct{})
	for _, a := range store.Articles() {
		if !a.Ready || a.Filename == "" {
			continue
		}
		live[a.Filename] = struct{}{}

		data, err := content.Read(a.Filename)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("filename", a.Filename), slog.String("error", err.Error()))
			continue
		}
		cs := checksum.Sum(data)
		if checksums[a.Filename] == cs {
			continue
		}

		row := ArticleRow{
			Filename:    a.Filename,
			Title:       a.Title,
			Description: a.Description,
			Category:    a.Category.Raw(),
			Checksum:    cs,
			UpdatedAt:   time.Now(),
		}
		if err := db.UpsertArticle(row, string(data)); err != nil {
			logger.Warn("sync: index failed", slog.String("filename", a.Filename), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("filename", a.Filename))
		}
	}

	// Remove stale entries, including articles that are no longer ready.
	for f := range checksums {
		if _, ok := live[f]; !ok {
			if err := db.DeleteArticle(f); err != nil {
				logger.Warn("sync: delete failed", slog.String("filename", f), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("filename", f))
			}
		}
	}

	return nil
}
