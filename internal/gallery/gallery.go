// Package gallery holds the in-memory view of enrolled faces used for
// matching: one entry per (embedding, owner) pair, flattened from the store.
//
// The gallery is rebuilt wholesale after every store mutation and swapped in
// atomically. Readers take a snapshot reference and may keep using it across
// concurrent rebuilds; they never observe a partially built gallery.
package gallery

import (
	"context"
	"fmt"
	"log"

	"github.com/kozaktomas/face-checkin/internal/store"
)

// Entry is one enrolled embedding and the identity that owns it.
type Entry struct {
	Name   string
	Vector []float32
}

// Snapshot is an immutable point-in-time view of the gallery, in store scan
// order. Entries must not be mutated.
type Snapshot struct {
	entries []Entry
}

// Entries returns the flattened entries in stable order.
func (s *Snapshot) Entries() []Entry {
	return s.entries
}

// Len returns the number of enrolled embeddings.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Empty reports whether no embeddings are enrolled.
func (s *Snapshot) Empty() bool {
	return len(s.entries) == 0
}

// Rebuild reads the full store and returns a fresh snapshot.
// Identities with corrupt sample blobs are logged and skipped so one bad row
// does not take recognition down.
func Rebuild(ctx context.Context, src store.IdentityStore) (*Snapshot, error) {
	identities, corrupt, err := src.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("rebuilding gallery: %w", err)
	}
	for _, c := range corrupt {
		log.Printf("gallery: skipping identity %q with corrupt samples: %v", c.Name, c.Err)
	}

	var entries []Entry
	for _, identity := range identities {
		for _, sample := range identity.Samples {
			entries = append(entries, Entry{Name: identity.Name, Vector: sample})
		}
	}
	return &Snapshot{entries: entries}, nil
}
