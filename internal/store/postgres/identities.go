package postgres

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-checkin/internal/store"
	"github.com/pgvector/pgvector-go"
)

// Put persists the full sample set for a name, overwriting any previous set.
func (s *Store) Put(ctx context.Context, name string, samples [][]float32) error {
	if len(samples) == 0 {
		return fmt.Errorf("storing identity %q: no samples", name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storing identity %q: %w", name, err)
	}
	defer tx.Rollback()

	// Keep the original seq on re-registration so enrollment order is stable.
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO identities (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
	`, name); err != nil {
		return fmt.Errorf("storing identity %q: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM identity_samples WHERE name = $1", name); err != nil {
		return fmt.Errorf("storing identity %q: %w", name, err)
	}

	for i, sample := range samples {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO identity_samples (name, idx, embedding) VALUES ($1, $2, $3)
		`, name, i, pgvector.NewVector(sample)); err != nil {
			return fmt.Errorf("storing sample %d for %q: %w", i, name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storing identity %q: %w", name, err)
	}
	return nil
}

// Get returns the samples enrolled for a name, or nil if the name is unknown.
func (s *Store) Get(ctx context.Context, name string) ([][]float32, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT embedding FROM identity_samples
		WHERE name = $1
		ORDER BY idx ASC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("loading identity %q: %w", name, err)
	}
	defer rows.Close()

	var samples [][]float32
	for rows.Next() {
		var vec pgvector.Vector
		if err := rows.Scan(&vec); err != nil {
			return nil, fmt.Errorf("scanning sample for %q: %w", name, err)
		}
		samples = append(samples, vec.Slice())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading identity %q: %w", name, err)
	}

	return samples, nil
}

// GetAll returns every identity in enrollment order. The vector column is
// typed and dimension-checked by the database, so unlike blob storage there
// are no per-row decode failures to isolate; the corrupt list is always empty.
func (s *Store) GetAll(ctx context.Context) ([]store.Identity, []store.CorruptIdentity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.name, s.embedding
		FROM identities i
		JOIN identity_samples s ON s.name = i.name
		ORDER BY i.seq ASC, s.idx ASC
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("scanning identities: %w", err)
	}
	defer rows.Close()

	var identities []store.Identity
	for rows.Next() {
		var name string
		var vec pgvector.Vector
		if err := rows.Scan(&name, &vec); err != nil {
			return nil, nil, fmt.Errorf("scanning identity row: %w", err)
		}

		if n := len(identities); n > 0 && identities[n-1].Name == name {
			identities[n-1].Samples = append(identities[n-1].Samples, vec.Slice())
		} else {
			identities = append(identities, store.Identity{
				Name:    name,
				Samples: [][]float32{vec.Slice()},
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("scanning identities: %w", err)
	}

	return identities, nil, nil
}

// Reset destroys all identities and history and restarts the id sequences.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		"TRUNCATE identities, identity_samples, history RESTART IDENTITY CASCADE")
	if err != nil {
		return fmt.Errorf("resetting store: %w", err)
	}
	return nil
}
