package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores the document blob in a single-row table. The table holds
// exactly one row; every save rewrites it wholesale, matching the
// read-whole/write-whole contract of the other backends.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates the backend and its table if missing.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	const ddl = `CREATE TABLE IF NOT EXISTS app_document (
		id INT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create app_document: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Load implements Backend.
func (p *Postgres) Load(ctx context.Context) ([]byte, bool, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT data FROM app_document WHERE id = 1`).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select app_document: %w", err)
	}
	return data, true, nil
}

// Save implements Backend.
func (p *Postgres) Save(ctx context.Context, data []byte) error {
	const q = `INSERT INTO app_document (id, data) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`
	if _, err := p.pool.Exec(ctx, q, data); err != nil {
		return fmt.Errorf("upsert app_document: %w", err)
	}
	return nil
}
