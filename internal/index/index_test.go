package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kuruchy/raido/internal/metadata"
	"github.com/kuruchy/raido/internal/storage"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpsertAndSearch(t *testing.T) {
	db := testDB(t)
	row := ArticleRow{
		Filename:    "gto.md",
		Title:       "GTO Basics",
		Description: "solver fundamentals",
		Category:    "poker",
		Checksum:    "abc",
		UpdatedAt:   time.Now(),
	}
	if err := db.UpsertArticle(row, "ranges and equities explained"); err != nil {
		t.Fatal(err)
	}
	hits, err := db.Search("equities", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Filename != "gto.md" {
		t.Errorf("hits = %v", hits)
	}
}

func TestUpsertReplaces(t *testing.T) {
	db := testDB(t)
	row := ArticleRow{Filename: "a.md", Title: "Old", Checksum: "1"}
	if err := db.UpsertArticle(row, "old body"); err != nil {
		t.Fatal(err)
	}
	row.Title = "New"
	row.Checksum = "2"
	if err := db.UpsertArticle(row, "new body"); err != nil {
		t.Fatal(err)
	}
	cs, err := db.GetChecksum("a.md")
	if err != nil {
		t.Fatal(err)
	}
	if cs != "2" {
		t.Errorf("checksum = %q", cs)
	}
	if hits, _ := db.Search("old body", 10); len(hits) != 0 {
		t.Errorf("stale body still searchable: %v", hits)
	}
}

func TestDeleteArticle(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertArticle(ArticleRow{Filename: "a.md", Title: "A"}, "body"); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteArticle("a.md"); err != nil {
		t.Fatal(err)
	}
	if cs, _ := db.GetChecksum("a.md"); cs != "" {
		t.Errorf("checksum survives delete: %q", cs)
	}
}

func TestGetChecksum_MissingIsEmpty(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nope.md")
	if err != nil {
		t.Fatal(err)
	}
	if cs != "" {
		t.Errorf("checksum = %q", cs)
	}
}

func syncEnv(t *testing.T, metadataJSON string, files map[string]string) (*DB, *metadata.Store, storage.Provider, *slog.Logger) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "articles-metadata.json"), []byte(metadataJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	store := metadata.NewStore(fs, "articles-metadata.json", logger)
	if err := store.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	return testDB(t), store, fs, logger
}

func TestSync_IndexesOnlyReadyArticles(t *testing.T) {
	db, store, fs, logger := syncEnv(t,
		`[{"filename": "pub.md", "title": "Pub", "ready": true}, {"filename": "draft.md", "title": "Draft"}]`,
		map[string]string{"pub.md": "published words", "draft.md": "draft words"})
	if err := Sync(db, store, fs, logger); err != nil {
		t.Fatal(err)
	}
	if hits, _ := db.Search("published", 10); len(hits) != 1 {
		t.Errorf("ready article not indexed: %v", hits)
	}
	if hits, _ := db.Search("draft words", 10); len(hits) != 0 {
		t.Errorf("draft leaked into search: %v", hits)
	}
}

func TestSync_RemovesStaleEntries(t *testing.T) {
	db, store, fs, logger := syncEnv(t,
		`[{"filename": "keep.md", "ready": true}]`,
		map[string]string{"keep.md": "kept"})
	if err := db.UpsertArticle(ArticleRow{Filename: "gone.md", Title: "Gone", Checksum: "x"}, "gone body"); err != nil {
		t.Fatal(err)
	}
	if err := Sync(db, store, fs, logger); err != nil {
		t.Fatal(err)
	}
	if cs, _ := db.GetChecksum("gone.md"); cs != "" {
		t.Error("stale entry not removed")
	}
	if cs, _ := db.GetChecksum("keep.md"); cs == "" {
		t.Error("live entry missing")
	}
}

func TestSync_SkipsUnchanged(t *testing.T) {
	db, store, fs, logger := syncEnv(t,
		`[{"filename": "a.md", "ready": true}]`,
		map[string]string{"a.md": "stable body"})
	if err := Sync(db, store, fs, logger); err != nil {
		t.Fatal(err)
	}
	before, _ := db.GetChecksum("a.md")
	if err := Sync(db, store, fs, logger); err != nil {
		t.Fatal(err)
	}
	after, _ := db.GetChecksum("a.md")
	if before != after {
		t.Errorf("checksum changed on no-op sync: %q vs %q", before, after)
	}
}
