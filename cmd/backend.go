package cmd

import (
	"fmt"
	"time"

	"github.com/kozaktomas/face-checkin/internal/checkin"
	"github.com/kozaktomas/face-checkin/internal/config"
	"github.com/kozaktomas/face-checkin/internal/extract"
	"github.com/kozaktomas/face-checkin/internal/store"
	"github.com/kozaktomas/face-checkin/internal/store/postgres"
	"github.com/kozaktomas/face-checkin/internal/store/sqlite"
)

// openStore opens the storage backend selected by config.
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Database.Driver {
	case "", "sqlite":
		fmt.Printf("Using SQLite backend (%s)\n", cfg.Database.Path)
		return sqlite.Open(cfg.Database.Path)
	case "postgres":
		fmt.Printf("Using PostgreSQL backend\n")
		return postgres.Open(&cfg.Database, cfg.Extractor.Dim)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// buildService opens the store, connects the model server client and loads
// the gallery. The caller owns the returned store and must close it.
func buildService(cfg *config.Config) (*checkin.Service, store.Store, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	client := extract.NewClient(
		cfg.Extractor.URL,
		cfg.Extractor.Dim,
		time.Duration(cfg.Extractor.TimeoutSeconds)*time.Second,
	)

	svc, err := checkin.NewService(cfg, st, client, client)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return svc, st, nil
}
