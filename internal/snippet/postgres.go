package snippet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool abstracts the pgxpool operations used by PostgresStore, satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS snippets (
	id         TEXT PRIMARY KEY,
	namespace  TEXT NOT NULL,
	source     TEXT,
	text       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_snippets_namespace ON snippets(namespace);
`

// Migrate creates the schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

// Add inserts snippets, assigning IDs and timestamps where missing.
func (s *PostgresStore) Add(ctx context.Context, snippets []Snippet) error {
	for _, snip := range snippets {
		if snip.ID == "" {
			snip.ID = uuid.NewString()
		}
		if snip.CreatedAt.IsZero() {
			snip.CreatedAt = time.Now().UTC()
		}
		_, err := s.pool.Exec(ctx,
			`INSERT INTO snippets (id, namespace, source, text, created_at) VALUES ($1, $2, $3, $4, $5)`,
			snip.ID, snip.Namespace, snip.Source, snip.Text, snip.CreatedAt)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert snippet %s", snip.ID)
		}
	}
	return nil
}

// Search returns the top-k snippets in namespace ranked by term overlap.
// Candidate filtering happens in SQL; ranking happens in-process, matching
// the SQLite driver.
func (s *PostgresStore) Search(ctx context.Context, query, namespace string, k int) ([]Snippet, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, namespace, source, text, created_at FROM snippets WHERE namespace = $1 LIMIT $2`,
		namespace, candidateLimit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search query")
	}
	defer rows.Close()

	var candidates []Snippet
	for rows.Next() {
		var snip Snippet
		var source *string
		if err := rows.Scan(&snip.ID, &snip.Namespace, &source, &snip.Text, &snip.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan snippet")
		}
		if source != nil {
			snip.Source = *source
		}
		candidates = append(candidates, snip)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: search rows")
	}
	return rank(query, candidates, k), nil
}

// Count returns the number of snippets in namespace.
func (s *PostgresStore) Count(ctx context.Context, namespace string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM snippets WHERE namespace = $1`, namespace).Scan(&n)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: count")
	}
	return n, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}
