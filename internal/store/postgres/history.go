package postgres

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-checkin/internal/store"
)

// Append inserts a new check-in record.
func (s *Store) Append(ctx context.Context, name, timestamp string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO history (name, time) VALUES ($1, $2)", name, timestamp)
	if err != nil {
		return fmt.Errorf("appending check-in for %q: %w", name, err)
	}
	return nil
}

// List returns all check-in records, most recent first.
func (s *Store) List(ctx context.Context) ([]store.CheckInRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, time FROM history ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var records []store.CheckInRecord
	for rows.Next() {
		var rec store.CheckInRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Time); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	return records, nil
}
