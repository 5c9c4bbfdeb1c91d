// Package watch keeps the in-memory collection and the search index in
// step with the content directory, and surfaces changes as events.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kuruchy/raido/internal/checksum"
	"github.com/kuruchy/raido/internal/index"
	"github.com/kuruchy/raido/internal/metadata"
	"github.com/kuruchy/raido/internal/storage"
)

// Notify is called after a watcher-driven change. kind is one of
// "metadata", "updated", "deleted", "puzzle", "news".
type Notify func(kind, filename string)

// Config names the documents the watcher treats specially. Paths are
// relative to the content root.
type Config struct {
	Root         string
	MetadataFile string
	PuzzleFile   string
	NewsFile     string
}

// Watch starts an fsnotify watcher on the content root and processes
// change events until ctx is cancelled. Metadata changes reload the
// store and resync the index; markdown changes update the index
// directly; puzzle and news changes only notify.
//
// New directories created at runtime are automatically added to the
// watch list. Rename events trigger a debounced reconciliation pass.
func Watch(ctx context.Context, cfg Config, db index.ArticleIndex, store *metadata.Store, content storage.Provider, logger *slog.Logger, notify Notify) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, cfg.Root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", cfg.Root))

	// reconcileTimer debounces bulk changes and rename reconciliation.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(ctx, db, store, content, logger, notify)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					// Let the reconcile pass pick up whatever the new
					// directory already contains.
					scheduleReconcile()
					continue
				}
			}

			rel, relErr := filepath.Rel(cfg.Root, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case rel == cfg.MetadataFile:
				handleMetadata(ctx, ev, db, store, content, logger, notify)

			case rel == cfg.PuzzleFile:
				if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					logger.Debug("watcher: puzzle updated")
					if notify != nil {
						notify("puzzle", rel)
					}
				}

			case rel == cfg.NewsFile:
				if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					logger.Debug("watcher: news updated")
					if notify != nil {
						notify("news", rel)
					}
				}

			case strings.HasSuffix(rel, ".md"):
				handleMarkdown(ev, rel, db, store, content, logger, notify, scheduleReconcile)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func handleMetadata(ctx context.Context, ev fsnotify.Event, db index.ArticleIndex, store *metadata.Store, content storage.Provider, logger *slog.Logger, notify Notify) {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	if err := store.Reload(ctx); err != nil {
		logger.Warn("watcher: metadata reload failed", slog.String("error", err.Error()))
	}
	if err := index.Sync(db, store, content, logger); err != nil {
		logger.Warn("watcher: index sync failed", slog.String("error", err.Error()))
	}
	logger.Info("watcher: metadata reloaded", slog.Int("articles", len(store.Articles())))
	if notify != nil {
		notify("metadata", ev.Name)
	}
}

func handleMarkdown(ev fsnotify.Event, rel string, db index.ArticleIndex, store *metadata.Store, content storage.Provider, logger *slog.Logger, notify Notify, scheduleReconcile func()) {
	switch {
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		meta, ok := store.Lookup(rel)
		if !ok || !meta.Ready {
			// Drafts and unknown files stay out of the index.
			return
		}
		data, readErr := content.Read(rel)
		if readErr != nil {
			logger.Warn("watcher: read failed", slog.String("filename", rel), slog.String("error", readErr.Error()))
			return
		}
		row := index.ArticleRow{
			Filename:    rel,
			Title:       meta.Title,
			Description: meta.Description,
			Category:    meta.Category.Raw(),
			Checksum:    checksum.Sum(data),
			UpdatedAt:   time.Now(),
		}
		if idxErr := db.UpsertArticle(row, string(data)); idxErr != nil {
			logger.Warn("watcher: index failed", slog.String("filename", rel), slog.String("error", idxErr.Error()))
			return
		}
		logger.Debug("watcher: indexed", slog.String("filename", rel))
		if notify != nil {
			notify("updated", rel)
		}

	case ev.Op&fsnotify.Remove != 0:
		if delErr := db.DeleteArticle(rel); delErr != nil {
			logger.Warn("watcher: delete failed", slog.String("filename", rel), slog.String("error", delErr.Error()))
			return
		}
		logger.Debug("watcher: deleted", slog.String("filename", rel))
		if notify != nil {
			notify("deleted", rel)
		}

	case ev.Op&fsnotify.Rename != 0:
		// fsnotify fires Rename on the OLD path only; the new path
		// arrives as a separate Create event. Delete the old entry now
		// and reconcile shortly after for stragglers.
		if delErr := db.DeleteArticle(rel); delErr != nil {
			logger.Warn("watcher: rename delete failed", slog.String("filename", rel), slog.String("error", delErr.Error()))
		} else {
			logger.Debug("watcher: rename old deleted", slog.String("filename", rel))
			if notify != nil {
				notify("deleted", rel)
			}
		}
		scheduleReconcile()
	}
}

// reconcile re-reads the metadata and fully resyncs the index.
func reconcile(ctx context.Context, db index.ArticleIndex, store *metadata.Store, content storage.Provider, logger *slog.Logger, notify Notify) {
	if err := store.Reload(ctx); err != nil {
		logger.Warn("reconcile: metadata reload failed", slog.String("error", err.Error()))
	}
	if err := index.Sync(db, store, content, logger); err != nil {
		logger.Warn("reconcile: sync failed", slog.String("error", err.Error()))
		return
	}
	logger.Debug("reconcile: done")
	if notify != nil {
		notify("metadata", "")
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
