package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Matching.RecognitionThreshold != 0.70 {
		t.Errorf("expected recognition threshold 0.70, got %v", cfg.Matching.RecognitionThreshold)
	}
	if cfg.Matching.DuplicateThreshold != 0.70 {
		t.Errorf("expected duplicate threshold 0.70, got %v", cfg.Matching.DuplicateThreshold)
	}
	if cfg.Extractor.Dim != 512 {
		t.Errorf("expected embedding dim 512, got %d", cfg.Extractor.Dim)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected default driver sqlite, got %q", cfg.Database.Driver)
	}
	if !cfg.Mask.Enabled {
		t.Error("expected mask detection enabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RECOGNITION_THRESHOLD", "0.55")
	t.Setenv("DUPLICATE_THRESHOLD", "0.45")
	t.Setenv("EMBEDDING_DIM", "128")
	t.Setenv("MASK_DETECTION_ENABLED", "false")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://test@localhost/checkin")

	cfg := Load()

	if cfg.Matching.RecognitionThreshold != 0.55 {
		t.Errorf("expected recognition threshold 0.55, got %v", cfg.Matching.RecognitionThreshold)
	}
	if cfg.Matching.DuplicateThreshold != 0.45 {
		t.Errorf("expected duplicate threshold 0.45, got %v", cfg.Matching.DuplicateThreshold)
	}
	if cfg.Extractor.Dim != 128 {
		t.Errorf("expected embedding dim 128, got %d", cfg.Extractor.Dim)
	}
	if cfg.Mask.Enabled {
		t.Error("expected mask detection disabled")
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected driver postgres, got %q", cfg.Database.Driver)
	}
	if cfg.Database.URL != "postgres://test@localhost/checkin" {
		t.Errorf("unexpected database URL %q", cfg.Database.URL)
	}
}

func TestLoadInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("RECOGNITION_THRESHOLD", "not-a-number")
	t.Setenv("EMBEDDING_DIM", "-5")

	cfg := Load()

	if cfg.Matching.RecognitionThreshold != 0.70 {
		t.Errorf("expected fallback threshold 0.70, got %v", cfg.Matching.RecognitionThreshold)
	}
	if cfg.Extractor.Dim != 512 {
		t.Errorf("expected fallback dim 512, got %d", cfg.Extractor.Dim)
	}
}
