// Package postgres provides an optional PostgreSQL storage backend using
// pgvector columns, one row per enrolled sample. Intended for deployments
// that already run a central PostgreSQL instance; the SQLite backend remains
// the default.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/face-checkin/internal/config"
	_ "github.com/lib/pq"
)

// Store implements store.Store on top of a PostgreSQL connection pool.
type Store struct {
	db  *sql.DB
	dim int
}

// Open creates a connection pool, verifies connectivity and applies the schema.
// dim is the embedding dimension for the vector column.
func Open(cfg *config.DatabaseConfig, dim int) (*Store, error) {
	if cfg.URL == "" {
		return nil, errors.New("database URL is required")
	}
	if dim <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension %d", dim)
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, dim: dim}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return s, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}

// DB returns the underlying sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE EXTENSION IF NOT EXISTS vector",
		`CREATE TABLE IF NOT EXISTS identities (
			name TEXT PRIMARY KEY,
			seq  BIGSERIAL
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS identity_samples (
			name      TEXT NOT NULL REFERENCES identities(name) ON DELETE CASCADE,
			idx       INT NOT NULL,
			embedding vector(%d) NOT NULL,
			PRIMARY KEY (name, idx)
		)`, s.dim),
		`CREATE TABLE IF NOT EXISTS history (
			id   BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			time TEXT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}
	return nil
}
