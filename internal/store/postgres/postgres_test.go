//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kozaktomas/face-checkin/internal/config"
	"github.com/kozaktomas/face-checkin/internal/store"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Docker not available or container failed to start, skipping integration test: %v", err)
		return nil
	}
	t.Cleanup(func() { container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.DatabaseConfig{
		URL:          fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port()),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}

	s, err := Open(cfg, 4)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPostgresRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	samples := [][]float32{{1, 2, 3, 4}, {5, 6, 7, 8}}
	if err := s.Put(ctx, "alice", samples); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := s.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(got))
	}
	for i := range samples {
		for j := range samples[i] {
			if got[i][j] != samples[i][j] {
				t.Errorf("sample %d[%d]: expected %v, got %v", i, j, samples[i][j], got[i][j])
			}
		}
	}
}

func TestPostgresGetAllOrder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	names := []string{"charlie", "alice", "bob"}
	for _, name := range names {
		if err := s.Put(ctx, name, [][]float32{{1, 2, 3, 4}}); err != nil {
			t.Fatalf("put %q failed: %v", name, err)
		}
	}

	// Re-registration keeps the original enrollment position.
	if err := s.Put(ctx, "charlie", [][]float32{{9, 9, 9, 9}, {8, 8, 8, 8}}); err != nil {
		t.Fatalf("re-put failed: %v", err)
	}

	identities, corrupt, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("getAll failed: %v", err)
	}
	if len(corrupt) != 0 {
		t.Fatalf("unexpected corrupt rows: %v", corrupt)
	}
	if len(identities) != 3 {
		t.Fatalf("expected 3 identities, got %d", len(identities))
	}
	for i, name := range names {
		if identities[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, identities[i].Name)
		}
	}
	if len(identities[0].Samples) != 2 {
		t.Errorf("expected charlie to have 2 samples after overwrite, got %d", len(identities[0].Samples))
	}
}

func TestPostgresHistoryAndReset(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "alice", [][]float32{{1, 2, 3, 4}}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := s.Append(ctx, "alice", "08:00:00 - 01/02/2026"); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := s.Append(ctx, "alice", "09:00:00 - 01/02/2026"); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	records, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 2 || records[0].Time != "09:00:00 - 01/02/2026" {
		t.Fatalf("expected newest-first records, got %v", records)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	identities, _, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("getAll failed: %v", err)
	}
	if len(identities) != 0 {
		t.Errorf("expected no identities after reset, got %d", len(identities))
	}

	records, err = s.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty history after reset, got %v", records)
	}
}

var _ store.Store = (*Store)(nil)
