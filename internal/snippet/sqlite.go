package snippet

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// candidateLimit bounds how many namespace rows are pulled for in-process
// ranking. Corpora past this size want a real full-text index.
const candidateLimit = 2000

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS snippets (
	id         TEXT PRIMARY KEY,
	namespace  TEXT NOT NULL,
	source     TEXT,
	text       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_snippets_namespace ON snippets(namespace);
`

// Migrate creates the schema if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}
	return nil
}

// Add inserts snippets, assigning IDs and timestamps where missing.
func (s *SQLiteStore) Add(ctx context.Context, snippets []Snippet) error {
	if len(snippets) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin add")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snippets (id, namespace, source, text, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for _, snip := range snippets {
		if snip.ID == "" {
			snip.ID = uuid.NewString()
		}
		if snip.CreatedAt.IsZero() {
			snip.CreatedAt = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx, snip.ID, snip.Namespace, snip.Source, snip.Text, snip.CreatedAt); err != nil {
			return eris.Wrapf(err, "sqlite: insert snippet %s", snip.ID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit add")
}

// Search returns the top-k snippets in namespace ranked by term overlap.
func (s *SQLiteStore) Search(ctx context.Context, query, namespace string, k int) ([]Snippet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, namespace, source, text, created_at FROM snippets WHERE namespace = ? LIMIT ?`,
		namespace, candidateLimit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search query")
	}
	defer rows.Close()

	var candidates []Snippet
	for rows.Next() {
		var snip Snippet
		var source sql.NullString
		if err := rows.Scan(&snip.ID, &snip.Namespace, &source, &snip.Text, &snip.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan snippet")
		}
		snip.Source = source.String
		candidates = append(candidates, snip)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: search rows")
	}
	return rank(query, candidates, k), nil
}

// Count returns the number of snippets in namespace.
func (s *SQLiteStore) Count(ctx context.Context, namespace string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM snippets WHERE namespace = ?`, namespace).Scan(&n)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: count")
	}
	return n, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
