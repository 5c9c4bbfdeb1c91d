package index

import (
	"fmt"
	"time"
)

// ArticleRow represents a row in the articles table.
type ArticleRow struct {
	Filename    string
	Title       string
	Description string
	Category    string
	Checksum    string
	UpdatedAt   time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Filename string
	Title    string
	Snippet  string
}

// UpsertArticle inserts or replaces an article and its FTS entry within a
// transaction.
func (db *DB) UpsertArticle(a ArticleRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO articles (filename, title, description, category, checksum, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			title       = excluded.title,
			description = excluded.description,
			category    = excluded.category,
			checksum    = excluded.checksum,
			body        = excluded.body,
			updated_at  = excluded.updated_at
	`, a.Filename, a.Title, a.Description, a.Category, a.Checksum, body, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert article: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, a.Filename, a.Title, a.Description, body); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteArticle removes an article and its FTS entry.
func (db *DB) DeleteArticle(filename string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, filename)
	_, _ = tx.Exec(`DELETE FROM articles WHERE filename = ?`, filename)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for an article, or empty string
// if not found.
func (db *DB) GetChecksum(filename string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM articles WHERE filename = ?`, filename).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// AllChecksums returns every indexed filename with its checksum.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT filename, checksum FROM articles`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var f, cs string
		if err := rows.Scan(&f, &cs); err != nil {
			return nil, err
		}
		out[f] = cs
	}
	return out, rows.Err()
}
