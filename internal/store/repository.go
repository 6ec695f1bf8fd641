// Package store defines the durable storage contract for enrolled identities
// and check-in history, plus the binary codec for persisted sample blobs.
package store

import "context"

// IdentityStore provides access to enrolled identities.
type IdentityStore interface {
	// Put persists the full sample set for a name, overwriting any previous set.
	Put(ctx context.Context, name string, samples [][]float32) error
	// Get returns the samples enrolled for a name, or nil if the name is unknown.
	Get(ctx context.Context, name string) ([][]float32, error)
	// GetAll returns every identity in stable enrollment order. Identities whose
	// sample blob fails to decode are returned separately as corrupt rows rather
	// than failing the whole scan.
	GetAll(ctx context.Context) ([]Identity, []CorruptIdentity, error)
}

// HistoryStore provides access to the append-only check-in log.
type HistoryStore interface {
	// Append inserts a new check-in record. Records are never updated or deduplicated.
	Append(ctx context.Context, name, timestamp string) error
	// List returns all check-in records, most recent first.
	List(ctx context.Context) ([]CheckInRecord, error)
}

// Store is a complete storage backend.
type Store interface {
	IdentityStore
	HistoryStore
	// Reset destroys all identities and history irreversibly.
	Reset(ctx context.Context) error
	Close() error
}
