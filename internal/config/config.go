// Package config holds the YAML configuration for the raggedts CLI and
// loader.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	defaults "github.com/xtxerr/raggedts/config"
)

// Config represents the complete raggedts configuration.
type Config struct {
	// Source describes where the long-format table comes from.
	Source SourceConfig `yaml:"source"`

	// Loader configures epoch iteration.
	Loader LoaderConfig `yaml:"loader"`

	// Stats configures channel summaries.
	Stats StatsConfig `yaml:"stats"`
}

// SourceConfig describes the table source.
type SourceConfig struct {
	// Kind selects the source implementation: "parquet" or "duckdb".
	Kind string `yaml:"kind"`

	// Path is the Parquet file path (kind "parquet").
	Path string `yaml:"path"`

	// DSN is the DuckDB database path; empty opens in-memory (kind "duckdb").
	DSN string `yaml:"dsn"`

	// Query is the SQL query producing the long-format table (kind "duckdb").
	Query string `yaml:"query"`

	// StaticPath is an optional Parquet file of static features.
	StaticPath string `yaml:"static_path"`

	// StaticQuery is an optional SQL query producing static features.
	StaticQuery string `yaml:"static_query"`

	// KeyColumn is the series-key column name.
	KeyColumn string `yaml:"key_column"`

	// TimeColumn is the timestamp column name.
	TimeColumn string `yaml:"time_column"`

	// Features lists the feature columns; empty means all remaining columns.
	Features []string `yaml:"features"`

	// Sort sorts the table by (key, timestamp) during conversion. When
	// false the source must already be sorted.
	Sort bool `yaml:"sort"`
}

// LoaderConfig configures epoch iteration.
type LoaderConfig struct {
	// BatchSize is the number of series per batch.
	BatchSize int `yaml:"batch_size"`

	// Workers is the number of parallel collation workers.
	Workers int `yaml:"workers"`

	// Shuffle reshuffles series order each epoch.
	Shuffle bool `yaml:"shuffle"`

	// Seed seeds the shuffle; 0 derives a seed from the clock.
	Seed int64 `yaml:"seed"`

	// DropLast drops the final partial batch of an epoch.
	DropLast bool `yaml:"drop_last"`
}

// StatsConfig configures channel summaries.
type StatsConfig struct {
	// Enabled enables summary computation.
	Enabled bool `yaml:"enabled"`

	// Accuracy is the DDSketch relative accuracy (0.01 = 1% error).
	Accuracy float64 `yaml:"accuracy"`
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Kind:       defaults.DefaultSourceKind,
			KeyColumn:  defaults.DefaultKeyColumn,
			TimeColumn: defaults.DefaultTimeColumn,
			Sort:       true,
		},
		Loader: LoaderConfig{
			BatchSize: defaults.DefaultBatchSize,
			Workers:   defaults.DefaultWorkers,
			Shuffle:   false,
		},
		Stats: StatsConfig{
			Enabled:  true,
			Accuracy: defaults.DefaultSketchAccuracy,
		},
	}
}
