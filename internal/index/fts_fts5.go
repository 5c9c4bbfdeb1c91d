//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS articles_fts USING fts5(
			filename UNINDEXED,
			title,
			description,
			body,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, filename, title, description, body string) error {
	_, _ = tx.Exec(`DELETE FROM articles_fts WHERE filename = ?`, filename)
	_, err := tx.Exec(`INSERT INTO articles_fts (filename, title, description, body) VALUES (?, ?, ?, ?)`,
		filename, title, description, body)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, filename string) {
	_, _ = tx.Exec(`DELETE FROM articles_fts WHERE filename = ?`, filename)
}

// Search performs an FTS5 full-text search and returns matching results
// with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT filename,
		       title,
		       snippet(articles_fts, 3, '<b>', '</b>', '...', 64)
		FROM articles_fts
		WHERE articles_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Filename, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
