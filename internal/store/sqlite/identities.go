package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-checkin/internal/store"
)

// Put persists the full sample set for a name, overwriting any previous set.
func (s *Store) Put(ctx context.Context, name string, samples [][]float32) error {
	blob, err := store.EncodeSamples(samples)
	if err != nil {
		return fmt.Errorf("encoding samples for %q: %w", name, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO identities (name, samples) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET samples = excluded.samples
	`, name, blob)
	if err != nil {
		return fmt.Errorf("storing identity %q: %w", name, err)
	}
	return nil
}

// Get returns the samples enrolled for a name, or nil if the name is unknown.
func (s *Store) Get(ctx context.Context, name string) ([][]float32, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT samples FROM identities WHERE name = ?", name,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading identity %q: %w", name, err)
	}

	samples, err := store.DecodeSamples(blob)
	if err != nil {
		return nil, fmt.Errorf("decoding samples for %q: %w", name, err)
	}
	return samples, nil
}

// GetAll returns every identity in enrollment (rowid) order. Rows whose blob
// fails to decode are reported as corrupt instead of aborting the scan.
func (s *Store) GetAll(ctx context.Context) ([]store.Identity, []store.CorruptIdentity, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, samples FROM identities ORDER BY rowid ASC")
	if err != nil {
		return nil, nil, fmt.Errorf("scanning identities: %w", err)
	}
	defer rows.Close()

	var identities []store.Identity
	var corrupt []store.CorruptIdentity
	for rows.Next() {
		var name string
		var blob []byte
		if err := rows.Scan(&name, &blob); err != nil {
			return nil, nil, fmt.Errorf("scanning identity row: %w", err)
		}

		samples, err := store.DecodeSamples(blob)
		if err != nil {
			corrupt = append(corrupt, store.CorruptIdentity{Name: name, Err: err})
			continue
		}
		identities = append(identities, store.Identity{Name: name, Samples: samples})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("scanning identities: %w", err)
	}

	return identities, corrupt, nil
}

// Reset destroys all identities and history. The history autoincrement counter
// restarts at 1, matching a fresh database.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting reset transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM identities",
		"DELETE FROM history",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset (%s): %w", stmt, err)
		}
	}

	// sqlite_sequence only exists once an AUTOINCREMENT table has been written.
	var seqTables int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'",
	).Scan(&seqTables)
	if err != nil {
		return fmt.Errorf("reset (sequence lookup): %w", err)
	}
	if seqTables > 0 {
		if _, err := tx.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = 'history'"); err != nil {
			return fmt.Errorf("reset (sequence): %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reset: %w", err)
	}
	return nil
}
