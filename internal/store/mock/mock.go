// Package mock provides an in-memory implementation of the storage interfaces
// for testing.
package mock

import (
	"context"
	"sync"

	"github.com/kozaktomas/face-checkin/internal/store"
)

// Store is an in-memory store.Store with per-method error injection.
type Store struct {
	mu         sync.RWMutex
	order      []string
	identities map[string][][]float32
	corrupt    []store.CorruptIdentity
	history    []store.CheckInRecord
	nextID     int64

	// Error injection
	PutError    error
	GetError    error
	GetAllError error
	AppendError error
	ListError   error
	ResetError  error
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		identities: make(map[string][][]float32),
		nextID:     1,
	}
}

// AddCorrupt injects a corrupt row that GetAll will report.
func (m *Store) AddCorrupt(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corrupt = append(m.corrupt, store.CorruptIdentity{Name: name, Err: err})
}

// Put persists the full sample set for a name, overwriting any previous set.
func (m *Store) Put(ctx context.Context, name string, samples [][]float32) error {
	if m.PutError != nil {
		return m.PutError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.identities[name]; !ok {
		m.order = append(m.order, name)
	}
	copied := make([][]float32, len(samples))
	for i, s := range samples {
		copied[i] = append([]float32(nil), s...)
	}
	m.identities[name] = copied
	return nil
}

// Get returns the samples for a name, or nil if absent.
func (m *Store) Get(ctx context.Context, name string) ([][]float32, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identities[name], nil
}

// GetAll returns all identities in enrollment order.
func (m *Store) GetAll(ctx context.Context) ([]store.Identity, []store.CorruptIdentity, error) {
	if m.GetAllError != nil {
		return nil, nil, m.GetAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	identities := make([]store.Identity, 0, len(m.order))
	for _, name := range m.order {
		identities = append(identities, store.Identity{Name: name, Samples: m.identities[name]})
	}
	return identities, m.corrupt, nil
}

// Append inserts a check-in record.
func (m *Store) Append(ctx context.Context, name, timestamp string) error {
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, store.CheckInRecord{ID: m.nextID, Name: name, Time: timestamp})
	m.nextID++
	return nil
}

// List returns check-in records, most recent first.
func (m *Store) List(ctx context.Context) ([]store.CheckInRecord, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := make([]store.CheckInRecord, 0, len(m.history))
	for i := len(m.history) - 1; i >= 0; i-- {
		records = append(records, m.history[i])
	}
	return records, nil
}

// Reset destroys all identities and history.
func (m *Store) Reset(ctx context.Context) error {
	if m.ResetError != nil {
		return m.ResetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = nil
	m.identities = make(map[string][][]float32)
	m.corrupt = nil
	m.history = nil
	m.nextID = 1
	return nil
}

// Close is a no-op.
func (m *Store) Close() error {
	return nil
}

var _ store.Store = (*Store)(nil)
