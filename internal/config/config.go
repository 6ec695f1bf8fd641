package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Extractor ExtractorConfig
	Mask      MaskConfig
	Matching  MatchingConfig
	Imaging   ImagingConfig
	Database  DatabaseConfig
}

type ExtractorConfig struct {
	URL            string // base URL of the model server (e.g., http://localhost:8000)
	Dim            int    // embedding dimension produced by the face model (default 512)
	TimeoutSeconds int    // per-request timeout for model server calls (default 30)
}

// MaskConfig controls the mask gate. When the model server has no mask
// classifier the gate should be disabled explicitly rather than relying on
// silent fallback behavior.
type MaskConfig struct {
	Enabled bool
}

type MatchingConfig struct {
	RecognitionThreshold float64 `yaml:"recognition_threshold"`
	DuplicateThreshold   float64 `yaml:"duplicate_threshold"`
}

type ImagingConfig struct {
	MaxDimension int `yaml:"max_dimension"`
}

type DatabaseConfig struct {
	Driver       string // "sqlite" (default) or "postgres"
	Path         string // SQLite database file path
	URL          string // PostgreSQL connection URL
	MaxOpenConns int    // Maximum open connections, postgres only (default 25)
	MaxIdleConns int    // Maximum idle connections, postgres only (default 5)
}

// defaultsFile mirrors the structure of the embedded defaults.yaml.
type defaultsFile struct {
	Matching MatchingConfig `yaml:"matching"`
	Imaging  ImagingConfig  `yaml:"imaging"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envBool reads an environment variable as a boolean flag.
func envBool(key string, defaultVal bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var defaults defaultsFile
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		// Embedded file, so this should never happen in practice.
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	return &Config{
		Extractor: ExtractorConfig{
			URL:            envString("MODEL_SERVER_URL", "http://localhost:8000"),
			Dim:            envInt("EMBEDDING_DIM", 512),
			TimeoutSeconds: envInt("MODEL_SERVER_TIMEOUT", 30),
		},
		Mask: MaskConfig{
			Enabled: envBool("MASK_DETECTION_ENABLED", true),
		},
		Matching: MatchingConfig{
			RecognitionThreshold: envFloat("RECOGNITION_THRESHOLD", defaults.Matching.RecognitionThreshold),
			DuplicateThreshold:   envFloat("DUPLICATE_THRESHOLD", defaults.Matching.DuplicateThreshold),
		},
		Imaging: ImagingConfig{
			MaxDimension: envInt("IMAGE_MAX_DIMENSION", defaults.Imaging.MaxDimension),
		},
		Database: DatabaseConfig{
			Driver:       envString("DATABASE_DRIVER", "sqlite"),
			Path:         envString("DATABASE_PATH", "database/checkin.db"),
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
	}
}
