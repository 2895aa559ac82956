package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps one row per person key in the sheet_records table. The
// single-statement upsert gives the same all-or-nothing replacement the file
// backend gets from rename.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore over the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the sheet_records table when absent.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS sheet_records (
        record_key TEXT PRIMARY KEY,
        record     BYTEA NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`
	_, err := p.pool.Exec(ctx, ddl)
	return err
}

// Get reads the record for key.
func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT record FROM sheet_records WHERE record_key=$1`

	var data []byte
	if err := p.pool.QueryRow(ctx, query, key).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoRecord
	}
	return data, nil
}

// Put replaces the record for key.
func (p *PostgresStore) Put(ctx context.Context, key string, data []byte) error {
	const stmt = `INSERT INTO sheet_records (record_key, record, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (record_key) DO UPDATE SET record = EXCLUDED.record, updated_at = now()`

	_, err := p.pool.Exec(ctx, stmt, key, data)
	return err
}

// Exists reports whether a record is present for key.
func (p *PostgresStore) Exists(ctx context.Context, key string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM sheet_records WHERE record_key=$1)`

	var exists bool
	if err := p.pool.QueryRow(ctx, query, key).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
