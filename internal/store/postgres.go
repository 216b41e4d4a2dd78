package store

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore keeps each collection as one JSONB row of the collections table
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL, pings it and applies migrations
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres store: parse config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres store: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: ping: %w", err)
	}

	if err := Migrate(pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Migrate applies the embedded goose migrations through a database/sql view of the pool
func Migrate(pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("postgres store: set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("postgres store: run migrations: %w", err)
	}
	return nil
}

// Load returns the raw JSON for one collection
func (s *PostgresStore) Load(ctx context.Context, name string) ([]byte, error) {
	var data string
	err := s.pool.QueryRow(ctx, `SELECT data::text FROM collections WHERE name = $1`, name).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres store: load %s: %w", name, err)
	}
	return []byte(data), nil
}

// Save replaces one collection
func (s *PostgresStore) Save(ctx context.Context, name string, data []byte) error {
	return s.SaveAll(ctx, map[string][]byte{name: data})
}

// SaveAll upserts every collection of the batch in one transaction
func (s *PostgresStore) SaveAll(ctx context.Context, batch map[string][]byte) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres store: begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	for name, data := range batch {
		_, err := tx.Exec(ctx, `
			INSERT INTO collections (name, data, updated_at)
			VALUES ($1, $2::jsonb, NOW())
			ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
			name, string(data),
		)
		if err != nil {
			return fmt.Errorf("postgres store: save %s: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres store: commit: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
