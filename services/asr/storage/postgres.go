package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xilidan/voicestock/pkg/postgres"
)

const recordsSchema = `
CREATE TABLE IF NOT EXISTS records (
    key TEXT PRIMARY KEY,
    body TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Postgres stores blobs as rows of the records table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, recordsSchema); err != nil {
		return fmt.Errorf("failed to migrate records table: %w", err)
	}
	return nil
}

func (p *Postgres) Put(ctx context.Context, key string, data []byte) error {
	_, err := p.db.ExecContext(ctx, `INSERT INTO records (key, body) VALUES ($1, $2)`, key, string(data))
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrExists
		}
		return fmt.Errorf("failed to insert record %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var body string
	err := p.db.QueryRowContext(ctx, `SELECT body FROM records WHERE key = $1`, key).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to select record %s: %w", key, err)
	}
	return []byte(body), nil
}

func (p *Postgres) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT key FROM records WHERE left(key, length($1)) = $1`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan record key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
